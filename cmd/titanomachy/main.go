package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Garsondee/Titanomachy/internal/audio"
	"github.com/Garsondee/Titanomachy/internal/game"
	"github.com/Garsondee/Titanomachy/internal/render"
	"github.com/hajimehoshi/ebiten/v2"
)

type options struct {
	seed     int64
	level    int
	mute     bool
	volume   float64
	width    int
	height   int
	logLevel string
}

var errUsage = errors.New("usage")

func main() {
	var opts options
	flag.Int64Var(&opts.seed, "seed", 0, "RNG seed (0 picks one from the clock)")
	flag.IntVar(&opts.level, "level", 1, "starting level (1-4)")
	flag.BoolVar(&opts.mute, "mute", false, "disable sound")
	flag.Float64Var(&opts.volume, "volume", 0.6, "master volume (0-1)")
	flag.IntVar(&opts.width, "width", 1280, "window width")
	flag.IntVar(&opts.height, "height", 720, "window height")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// newLogger builds the process logger for a -log-level value.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%w: -log-level: %v", errUsage, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func (o options) validate() error {
	if o.width <= 0 || o.height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", errUsage, o.width, o.height)
	}
	if o.volume < 0 || o.volume > 1 {
		return fmt.Errorf("%w: -volume %.2f out of range", errUsage, o.volume)
	}
	return nil
}

func run(opts options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, opts.logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	synth := audio.NewSynth(opts.volume, logger)
	if !opts.mute {
		if err := synth.Init(); err != nil {
			// The game runs silent without a sound device.
			logger.Warn("audio unavailable", "err", err)
		}
	}
	defer synth.Close()

	scene := render.NewScene(nil)
	cfg := game.DefaultConfig()
	input := render.NewInput(cfg.MouseSensitivity)

	gameOpts := []game.Option{
		game.WithConfig(cfg),
		game.WithStartLevel(opts.level),
		game.WithRenderer(scene),
		game.WithInput(input),
		game.WithAudio(synth),
		game.WithAspect(float64(opts.width) / float64(opts.height)),
		game.WithLogger(logger),
	}
	if opts.seed != 0 {
		gameOpts = append(gameOpts, game.WithSeed(opts.seed))
	}
	g, err := game.New(gameOpts...)
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}

	ebiten.SetWindowTitle("Titanomachy")
	ebiten.SetWindowSize(opts.width, opts.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(render.NewApp(g, scene, input, opts.width, opts.height, logger)); err != nil {
		return fmt.Errorf("game loop: %w", err)
	}
	return nil
}
