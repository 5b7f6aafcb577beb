package render

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
)

// EffectKind tags a transient visual feedback entity. One record type covers
// all variants; kind-specific behavior lives in the dispatch tables below.
type EffectKind int

const (
	EffectSparkle EffectKind = iota
	EffectHeart
	EffectSteam
	EffectScorePopup
	EffectComboBanner
)

// Effect is one transient feedback entity. Presentation-only; never part of
// the simulation state.
type Effect struct {
	Kind EffectKind
	X, Y float64
	Age  time.Duration
	TTL  time.Duration

	// Text is used by score popups and combo banners
	Text string
}

// EffectList owns the live effects; updated on the frame cadence.
type EffectList struct {
	effects []Effect
}

// NewEffectList creates an empty effect list.
func NewEffectList() *EffectList {
	return &EffectList{}
}

// Spawn adds an effect at the given cell.
func (l *EffectList) Spawn(kind EffectKind, x, y int, text string) {
	ttl := 900 * time.Millisecond
	if kind == EffectComboBanner {
		ttl = 1500 * time.Millisecond
	}
	l.effects = append(l.effects, Effect{Kind: kind, X: float64(x), Y: float64(y), TTL: ttl, Text: text})
}

// ScorePopup spawns the floating points readout for a serve.
func (l *EffectList) ScorePopup(x, y, points int) {
	l.Spawn(EffectScorePopup, x, y, fmt.Sprintf("+%d", points))
}

// ComboBanner spawns the chain announcement.
func (l *EffectList) ComboBanner(x, y, combo int) {
	l.Spawn(EffectComboBanner, x, y, fmt.Sprintf("COMBO x%d", combo))
}

// effectMotion moves an effect by one frame delta.
var effectMotion = map[EffectKind]func(e *Effect, seconds float64){
	EffectSparkle:     func(e *Effect, s float64) { e.Y -= 2 * s },
	EffectHeart:       func(e *Effect, s float64) { e.Y -= 3 * s },
	EffectSteam:       func(e *Effect, s float64) { e.Y -= 4 * s; e.X += 1 * s },
	EffectScorePopup:  func(e *Effect, s float64) { e.Y -= 3 * s },
	EffectComboBanner: func(e *Effect, s float64) {},
}

// Update ages and moves effects, dropping the expired ones.
func (l *EffectList) Update(dt time.Duration) {
	seconds := dt.Seconds()
	alive := l.effects[:0]
	for i := range l.effects {
		e := l.effects[i]
		e.Age += dt
		if e.Age >= e.TTL {
			continue
		}
		effectMotion[e.Kind](&e, seconds)
		alive = append(alive, e)
	}
	l.effects = alive
}

// effectGlyphs renders one effect variant.
var effectGlyphs = map[EffectKind]func(e *Effect) (string, tcell.Style){
	EffectSparkle: func(e *Effect) (string, tcell.Style) {
		return "*", tcell.StyleDefault.Foreground(tcell.ColorYellow)
	},
	EffectHeart: func(e *Effect) (string, tcell.Style) {
		return "♥", tcell.StyleDefault.Foreground(tcell.ColorRed)
	},
	EffectSteam: func(e *Effect) (string, tcell.Style) {
		return "~", tcell.StyleDefault.Foreground(tcell.ColorGray)
	},
	EffectScorePopup: func(e *Effect) (string, tcell.Style) {
		return e.Text, tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	},
	EffectComboBanner: func(e *Effect) (string, tcell.Style) {
		return e.Text, tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	},
}

// Draw paints all live effects.
func (l *EffectList) Draw(screen tcell.Screen) {
	for i := range l.effects {
		e := &l.effects[i]
		text, style := effectGlyphs[e.Kind](e)
		drawText(screen, int(e.X), int(e.Y), style, text)
	}
}
