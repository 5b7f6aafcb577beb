// Package audio plays short synthesized cues. Mute is an explicit setting on
// the player, not a package-level toggle.
package audio

import (
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// Cue identifies one feedback sound.
type Cue int

const (
	CueSelect Cue = iota
	CueServe
	CueError
	CueStorm
	CueGameOver
)

type tone struct {
	freq     float64
	duration time.Duration
}

var cueTones = map[Cue][]tone{
	CueSelect:   {{660, 40 * time.Millisecond}},
	CueServe:    {{880, 60 * time.Millisecond}, {1320, 90 * time.Millisecond}},
	CueError:    {{180, 120 * time.Millisecond}},
	CueStorm:    {{220, 100 * time.Millisecond}, {160, 160 * time.Millisecond}},
	CueGameOver: {{330, 150 * time.Millisecond}, {247, 150 * time.Millisecond}, {165, 300 * time.Millisecond}},
}

const sampleRate = beep.SampleRate(44100)

// Player owns the speaker. A failed init leaves it silent but functional;
// the game runs fine without sound.
type Player struct {
	ready bool
	muted atomic.Bool
}

// NewPlayer initializes the speaker. The returned error is informational;
// the player is usable either way.
func NewPlayer(muted bool) (*Player, error) {
	p := &Player{}
	p.muted.Store(muted)

	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		p.ready = true
	}
	return p, err
}

// SetMuted flips the mute setting.
func (p *Player) SetMuted(m bool) {
	p.muted.Store(m)
}

// Muted reports the mute setting.
func (p *Player) Muted() bool {
	return p.muted.Load()
}

// ToggleMuted flips mute and returns the new value.
func (p *Player) ToggleMuted() bool {
	m := !p.muted.Load()
	p.muted.Store(m)
	return m
}

// Play queues the cue's tones. No-op when muted or when init failed.
func (p *Player) Play(cue Cue) {
	if !p.ready || p.muted.Load() {
		return
	}

	var parts []beep.Streamer
	for _, t := range cueTones[cue] {
		sine, err := generators.SineTone(sampleRate, t.freq)
		if err != nil {
			continue
		}
		parts = append(parts, beep.Take(sampleRate.N(t.duration), sine))
	}
	if len(parts) == 0 {
		return
	}
	speaker.Play(beep.Seq(parts...))
}
