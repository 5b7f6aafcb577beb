package render

import "github.com/ferrovine/last-call/constants"

// Box is an axis-aligned screen rectangle used for pointer hit-testing.
type Box struct {
	X, Y, W, H int
}

// Contains reports whether the screen cell (x, y) falls inside the box.
func (b Box) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Layout is the hit-test geometry of the last painted frame. The renderer
// rebuilds it every frame; the input adapter resolves clicks against it.
type Layout struct {
	BottleBoxes     []Box
	CustomerBoxes   [constants.MaxCustomers]Box
	CustomerPresent [constants.MaxCustomers]bool
}
