// Package input bridges pointer and key events into core actions. The only
// geometry it knows is the bounding-box layout published by the renderer.
package input

import (
	"github.com/ferrovine/last-call/constants"
	"github.com/ferrovine/last-call/render"
)

// HitKind classifies what a pointer landed on.
type HitKind int

const (
	HitNone HitKind = iota
	HitBottle
	HitCustomer
)

// Hit is the result of resolving a pointer position.
type Hit struct {
	Kind  HitKind
	Index int
}

// ResolvePoint maps a screen cell to the entity under it, bottles first.
func ResolvePoint(l render.Layout, x, y int) Hit {
	for i, box := range l.BottleBoxes {
		if box.Contains(x, y) {
			return Hit{Kind: HitBottle, Index: i}
		}
	}
	for i := 0; i < constants.MaxCustomers; i++ {
		if l.CustomerPresent[i] && l.CustomerBoxes[i].Contains(x, y) {
			return Hit{Kind: HitCustomer, Index: i}
		}
	}
	return Hit{Kind: HitNone, Index: -1}
}
