package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Garsondee/Titanomachy/internal/game"
	"github.com/Garsondee/Titanomachy/internal/radar"
	"github.com/gdamore/tcell/v2"
)

const frame = 16 * time.Millisecond

// pilot is the autopilot plus keyboard session controls.
type pilot struct {
	auto    *game.Autopilot
	pause   bool
	restart bool
}

func (p *pilot) Poll() game.Controls {
	c := p.auto.Poll()
	c.Pause = c.Pause || p.pause
	c.Restart = c.Restart || p.restart
	p.pause, p.restart = false, false
	return c
}

func main() {
	var (
		seed     int64
		level    int
		rng      float64
		speed    int
		logFile  string
		logLevel string
	)
	flag.Int64Var(&seed, "seed", 1, "RNG seed")
	flag.IntVar(&level, "level", 1, "starting level (1-4)")
	flag.Float64Var(&rng, "range", 3000, "radar range in world units")
	flag.IntVar(&speed, "speed", 1, "simulation ticks per frame")
	flag.StringVar(&logFile, "log-file", "", "write logs here instead of discarding them")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	if err := setupLogging(logFile, logLevel); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
	if err := run(seed, level, rng, max(speed, 1)); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setupLogging keeps the terminal clean: logs go to a file or nowhere.
func setupLogging(path, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("-log-level: %w", err)
	}
	if path == "" {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func run(seed int64, level int, rng float64, speed int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	clock := game.NewManualClock(time.Now())
	g, err := game.New(
		game.WithSeed(seed),
		game.WithStartLevel(level),
		game.WithClock(clock),
		game.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}
	auto := &game.Autopilot{RestartOnDeath: true, ContinueAfterVictory: true}
	auto.Attach(g)
	p := &pilot{auto: auto}
	g.SetInput(p)

	rd := radar.New(screen)
	rd.Range = rng

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
					slog.Info("radar closed", "session_id", g.SessionID(), "tick", g.Tick())
					return nil
				case ev.Rune() == 'p':
					p.pause = true
				case ev.Rune() == 'r':
					p.restart = true
				case ev.Rune() == '+':
					rd.Range /= 1.5
				case ev.Rune() == '-':
					rd.Range *= 1.5
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			for i := 0; i < speed; i++ {
				clock.Advance(frame)
				if err := g.Update(); err != nil {
					return err
				}
			}
			rd.Draw(g.Snapshot())
		}
	}
}
