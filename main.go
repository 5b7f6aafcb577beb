// Last Call is a terminal bar game: patrons queue up at the counter, each with
// a draining patience meter, and the player pours from a shelf of cooldown-
// gated bottles before the meter hits zero. Patrons can be real people pulled
// from a message feed or synthetic walk-ins.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ferrovine/last-call/audio"
	"github.com/ferrovine/last-call/config"
	"github.com/ferrovine/last-call/engine"
	"github.com/ferrovine/last-call/feed"
	"github.com/ferrovine/last-call/input"
	"github.com/ferrovine/last-call/render"
	"github.com/ferrovine/last-call/systems"
)

func main() {
	configPath := flag.String("config", "last-call.yaml", "path to the config file")
	muted := flag.Bool("mute", false, "start with sound muted")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *muted || cfg.Audio.Muted); err != nil {
		fmt.Fprintf(os.Stderr, "last-call: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, muted bool) error {
	source, err := buildSource(cfg)
	if err != nil {
		return err
	}

	// Probe the session up front; a dead source drops the game into reduced
	// mode rather than failing to start
	reduced := source == nil
	if source != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		reduced = !source.SessionActive(ctx)
		cancel()
		if reduced {
			log.Printf("feed: %s source inactive, starting in reduced mode", cfg.Feed.Mode)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	player, err := audio.NewPlayer(muted)
	if err != nil {
		log.Printf("audio: init failed, running silent: %v", err)
	}

	tp := engine.NewMonotonicTimeProvider()
	round := engine.NewRound()
	game := engine.NewGame(round, tp, source, reduced)

	var batches <-chan feed.Batch
	var poller *feed.Poller
	if source != nil {
		poller = feed.NewPoller(source, round.SessionToken)
		poller.SetReduced(reduced)
		poller.Start()
		defer poller.Stop()
		batches = poller.Batches()
	}

	// Reconnect re-probes the session and opens or closes the poll tap to match
	reconnect := func() {
		if source == nil {
			return
		}
		game.Reconnect()
		poller.SetReduced(game.Reduced)
	}

	game.RegisterSystem(systems.NewSpawnSystem(batches, time.Now().UnixNano()))
	game.RegisterSystem(systems.NewDecaySystem())
	game.RegisterSystem(systems.NewCooldownSystem())
	game.RegisterSystem(systems.NewScoreSystem())

	renderer := render.NewRenderer(screen)
	effects := render.NewEffectList()

	game.SetFeedback(func(kind engine.FeedbackKind, slot, points int) {
		layout := renderer.Layout()
		switch kind {
		case engine.FeedbackSelect:
			player.Play(audio.CueSelect)
		case engine.FeedbackServe:
			player.Play(audio.CueServe)
			if slot >= 0 && layout.CustomerPresent[slot] {
				box := layout.CustomerBoxes[slot]
				effects.ScorePopup(box.X+2, box.Y-1, points)
				effects.Spawn(render.EffectSparkle, box.X, box.Y, "")
				effects.Spawn(render.EffectHeart, box.X+box.W-2, box.Y, "")
				if combo := round.ComboCount(); combo >= 2 {
					effects.ComboBanner(box.X, box.Y-3, combo)
				}
			}
		case engine.FeedbackError:
			player.Play(audio.CueError)
		case engine.FeedbackStorm:
			player.Play(audio.CueStorm)
			if slot >= 0 && layout.CustomerPresent[slot] {
				box := layout.CustomerBoxes[slot]
				effects.Spawn(render.EffectSteam, box.X+1, box.Y-1, "")
			}
		case engine.FeedbackGameOver:
			player.Play(audio.CueGameOver)
		}
	})

	// Pump terminal events into the loop so input is handled between ticks
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	loop := engine.NewLoop(tp)
	loop.Events = events

	lastFrame := tp.Now()
	loop.OnTick = game.Update
	loop.OnFrame = func() {
		now := tp.Now()
		effects.Update(now.Sub(lastFrame))
		lastFrame = now
		renderer.RenderFrame(game, effects)
	}

	var prevButtons tcell.ButtonMask
	loop.OnEvent = func(ev tcell.Event) {
		switch ev := ev.(type) {
		case *tcell.EventResize:
			renderer.HandleResize()

		case *tcell.EventKey:
			handleKey(ev, game, player, loop, reconnect)

		case *tcell.EventMouse:
			buttons := ev.Buttons()
			pressed := buttons&tcell.Button1 != 0 && prevButtons&tcell.Button1 == 0
			prevButtons = buttons
			if !pressed {
				return
			}
			x, y := ev.Position()
			handleClick(game, renderer, x, y)
		}
	}

	loop.Run()
	return nil
}

// handleKey dispatches the keyboard controls shown on the menu overlay.
func handleKey(ev *tcell.EventKey, g *engine.Game, player *audio.Player, loop *engine.Loop, reconnect func()) {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		loop.Stop()
		return
	}
	if ev.Key() != tcell.KeyRune {
		return
	}

	switch ev.Rune() {
	case 'q', 'Q':
		loop.Stop()
	case 's', 'S':
		g.Round.Start()
	case 'p', 'P':
		switch g.Round.State() {
		case engine.RoundPlaying:
			g.Round.Pause()
		case engine.RoundPaused:
			g.Round.Resume()
		}
	case 'r', 'R':
		g.Round.Restart()
	case 'm', 'M':
		player.ToggleMuted()
	case 'c', 'C':
		reconnect()
	}
}

// handleClick resolves a pointer press against the last painted layout:
// bottles select, patrons serve.
func handleClick(g *engine.Game, renderer *render.Renderer, x, y int) {
	hit := input.ResolvePoint(renderer.Layout(), x, y)
	switch hit.Kind {
	case input.HitBottle:
		g.SelectBottle(hit.Index)
	case input.HitCustomer:
		g.ServeCustomer(hit.Index)
	}
}

// buildSource constructs the message source for the configured feed mode.
// Demo mode runs with no source at all: every patron is synthetic.
func buildSource(cfg config.Config) (feed.Source, error) {
	switch cfg.Feed.Mode {
	case config.FeedDemo:
		return nil, nil
	case config.FeedHTTP:
		return feed.NewHTTPSource(cfg.Feed.HTTP.BaseURL), nil
	case config.FeedPubNub:
		return feed.NewPubNubSource(&feed.PubNubConfig{
			PublishKey:   cfg.Feed.PubNub.PublishKey,
			SubscribeKey: cfg.Feed.PubNub.SubscribeKey,
			UserID:       cfg.Feed.PubNub.UserID,
			Channel:      cfg.Feed.PubNub.Channel,
		})
	default:
		return nil, fmt.Errorf("unknown feed mode %q", cfg.Feed.Mode)
	}
}
