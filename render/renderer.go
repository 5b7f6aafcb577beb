package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/ferrovine/last-call/components"
	"github.com/ferrovine/last-call/constants"
	"github.com/ferrovine/last-call/engine"
)

const (
	bottleBoxWidth  = 14
	bottleBoxHeight = 3
	shelfY          = 1
)

// Renderer paints the bar scene. It owns no simulation state; everything it
// shows comes from round snapshots and entity accessors.
type Renderer struct {
	screen tcell.Screen
	width  int
	height int

	layout Layout
}

// NewRenderer creates a renderer for the screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	r := &Renderer{screen: screen}
	r.width, r.height = screen.Size()
	return r
}

// HandleResize refreshes cached screen dimensions.
func (r *Renderer) HandleResize() {
	r.width, r.height = r.screen.Size()
	r.screen.Sync()
}

// Layout returns the hit-test geometry of the last painted frame.
func (r *Renderer) Layout() Layout {
	return r.layout
}

// RenderFrame paints the entire scene and rebuilds the hit-test layout.
func (r *Renderer) RenderFrame(g *engine.Game, effects *EffectList) {
	r.screen.Clear()
	r.layout = Layout{}

	snap := g.Round.Snapshot()

	r.drawShelf(g)
	r.drawBar()
	r.drawCustomers(g)
	r.drawStatusBar(g, snap)

	switch snap.State {
	case engine.RoundMenu:
		r.drawMenuOverlay()
	case engine.RoundPaused:
		r.drawCenteredLine(r.height/2, tcell.StyleDefault.Bold(true), "PAUSED - press p to resume")
	case engine.RoundGameOver:
		r.drawGameOverOverlay(snap)
	}

	effects.Draw(r.screen)
	r.screen.Show()
}

// drawShelf paints the bottle row and records its hit boxes.
func (r *Renderer) drawShelf(g *engine.Game) {
	now := g.Time.Now()
	for i, b := range g.Round.Bottles() {
		box := Box{X: 2 + i*(bottleBoxWidth+1), Y: shelfY, W: bottleBoxWidth, H: bottleBoxHeight}
		r.layout.BottleBoxes = append(r.layout.BottleBoxes, box)

		style := tcell.StyleDefault
		switch {
		case b.Locked:
			style = style.Foreground(tcell.ColorGray)
		case i == g.SelectedBottle:
			style = style.Foreground(tcell.ColorYellow).Bold(true)
		}

		label := b.Label
		if b.Locked {
			label += " [locked]"
		}
		drawText(r.screen, box.X, box.Y, style, truncate(label, bottleBoxWidth))
		r.drawGauge(box.X, box.Y+1, bottleBoxWidth, b.FillLevel(now), style)

		if b.Progress(now) < 1 {
			drawText(r.screen, box.X, box.Y+2, style.Foreground(tcell.ColorRed),
				fmt.Sprintf("%3.0f%%", b.Progress(now)*100))
		} else if i == g.SelectedBottle {
			drawText(r.screen, box.X, box.Y+2, style, "ready ^")
		}
	}
}

// drawBar paints the counter the patrons stand behind.
func (r *Renderer) drawBar() {
	barY := r.barY()
	style := tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown)
	for x := 0; x < r.width; x++ {
		r.screen.SetContent(x, barY, '═', nil, style)
	}
}

func (r *Renderer) barY() int {
	y := r.height - 6
	if y < shelfY+bottleBoxHeight+4 {
		y = shelfY + bottleBoxHeight + 4
	}
	return y
}

// drawCustomers paints each seated patron and records slot hit boxes.
func (r *Renderer) drawCustomers(g *engine.Game) {
	barY := r.barY()
	for i := 0; i < constants.MaxCustomers; i++ {
		c := g.Round.CustomerAt(i)
		if c == nil {
			continue
		}

		x := int(c.X)
		top := barY - 3
		box := Box{X: x - 1, Y: top, W: 12, H: 4}
		r.layout.CustomerBoxes[i] = box
		r.layout.CustomerPresent[i] = true

		style := moodStyle(c)
		ct := components.CustomerTypes[c.TypeID]

		drawText(r.screen, x, top, style.Bold(true), fmt.Sprintf("%c %s", ct.Glyph, c.Name))
		drawText(r.screen, x, top+1, style, truncate(c.Message, 18))
		if c.Waiting() {
			r.drawGauge(x, top+2, 10, c.Patience/c.MaxPatience, style)
		} else {
			drawText(r.screen, x, top+2, style, c.State().String())
		}
	}
}

// moodStyle colors a patron by lifecycle state; walk-out fade drops to gray.
func moodStyle(c *components.Customer) tcell.Style {
	style := tcell.StyleDefault
	switch c.State() {
	case components.CustomerImpatient:
		style = style.Foreground(tcell.ColorYellow)
	case components.CustomerAngry, components.CustomerStormingOff:
		style = style.Foreground(tcell.ColorRed)
	case components.CustomerHappy:
		style = style.Foreground(tcell.ColorGreen)
	case components.CustomerWalkingOut:
		if c.Alpha < 0.5 {
			style = style.Foreground(tcell.ColorGray)
		} else {
			style = style.Foreground(tcell.ColorGreen)
		}
	}
	return style
}

// drawGauge paints a [####----] meter for a 0..1 level.
func (r *Renderer) drawGauge(x, y, width int, level float64, style tcell.Style) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	filled := int(level * float64(width))
	for i := 0; i < width; i++ {
		ch := '░'
		if i < filled {
			ch = '█'
		}
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}

// drawStatusBar paints the bottom counters line.
func (r *Renderer) drawStatusBar(g *engine.Game, snap engine.RoundSnapshot) {
	y := r.height - 1
	mode := "LIVE"
	if g.Reduced {
		mode = "OFFLINE"
	}
	left := fmt.Sprintf(" score %d  combo x%d (best x%d)  served %d  lost %d/%d  diff %.1f  [%s]",
		snap.Score, snap.ComboCount, snap.MaxCombo,
		snap.CustomersServed, snap.CustomersLost, constants.MaxLost,
		snap.Difficulty, mode)
	drawText(r.screen, 0, y, tcell.StyleDefault.Reverse(true), pad(left, r.width))
}

func (r *Renderer) drawMenuOverlay() {
	mid := r.height / 2
	r.drawCenteredLine(mid-2, tcell.StyleDefault.Bold(true), "L A S T   C A L L")
	r.drawCenteredLine(mid, tcell.StyleDefault, "serve them before the patience runs dry")
	r.drawCenteredLine(mid+2, tcell.StyleDefault, "s start   p pause   r restart   m mute   c reconnect   q quit")
	r.drawCenteredLine(mid+3, tcell.StyleDefault, "click a bottle, then click a patron")
}

func (r *Renderer) drawGameOverOverlay(snap engine.RoundSnapshot) {
	mid := r.height / 2
	r.drawCenteredLine(mid-1, tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true), "CLOSING TIME")
	r.drawCenteredLine(mid+1, tcell.StyleDefault,
		fmt.Sprintf("final score %d  best combo x%d  served %d", snap.Score, snap.MaxCombo, snap.CustomersServed))
	r.drawCenteredLine(mid+2, tcell.StyleDefault, "press r to open back up")
}

func (r *Renderer) drawCenteredLine(y int, style tcell.Style, text string) {
	x := (r.width - len([]rune(text))) / 2
	if x < 0 {
		x = 0
	}
	drawText(r.screen, x, y, style, text)
}

// drawText paints a string starting at (x, y).
func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, ch := range []rune(text) {
		screen.SetContent(x+i, y, ch, nil, style)
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}

func pad(s string, n int) string {
	for len([]rune(s)) < n {
		s += " "
	}
	return s
}
