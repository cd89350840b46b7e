package game

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// harnessEpoch is the fixed start time of every headless run.
var harnessEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// TestSim is a headless simulation harness for tests and headless reports.
// It drives a real Game with a manual clock that advances one frame per tick,
// so runs are deterministic for a given seed.
type TestSim struct {
	Game   *Game
	Clock  *ManualClock
	SimLog *SimLog
	Frame  time.Duration // clock advance per tick

	seed     int64
	cfg      Config
	input    Input
	renderer Renderer
	audio    Audio
	extra    []Option
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // seed, config, log, frame length; applied before the Game exists
	simOptWorld                      // entity placement; applied after the Game is built
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// SimSeed sets the RNG seed for deterministic runs.
func SimSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.seed = seed }}
}

// SimVerbose enables high-frequency SimLog entries.
func SimVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.SimLog = NewSimLog(v) }}
}

// SimConfig replaces the tuning.
func SimConfig(cfg Config) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.cfg = cfg }}
}

// SimTune edits the tuning in place.
func SimTune(fn func(*Config)) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { fn(&ts.cfg) }}
}

// SimLevel starts on level n.
func SimLevel(n int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.extra = append(ts.extra, WithStartLevel(n)) }}
}

// SimFrame sets the clock advance per tick.
func SimFrame(d time.Duration) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.Frame = d }}
}

// SimInput drives the ship from in.
func SimInput(in Input) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.input = in }}
}

// SimRenderer attaches a renderer, e.g. a mock.
func SimRenderer(r Renderer) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.renderer = r }}
}

// SimAudio attaches an audio sink, e.g. a mock.
func SimAudio(a Audio) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.audio = a }}
}

// SimGameOption passes any Game option through.
func SimGameOption(opt Option) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.extra = append(ts.extra, opt) }}
}

// SimNoEnemies removes the opening population so a test controls every enemy.
func SimNoEnemies() SimOption {
	return SimOption{simOptWorld, func(ts *TestSim) { ts.ClearEnemies() }}
}

// SimEnemyAt places an enemy at pos.
func SimEnemyAt(pos mgl64.Vec3) SimOption {
	return SimOption{simOptWorld, func(ts *TestSim) { ts.PlaceEnemy(pos) }}
}

// SimAutopilot hands the controls to an Autopilot for the whole run.
func SimAutopilot(ap *Autopilot) SimOption {
	return SimOption{simOptWorld, func(ts *TestSim) { ap.Attach(ts.Game) }}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (seed, config, log, frame length, collaborators)
//  2. Build the Game
//  3. World placement
func NewTestSim(opts ...SimOption) (*TestSim, error) {
	ts := &TestSim{
		Frame:  rotationStep(1),
		SimLog: NewSimLog(false),
		seed:   1,
		cfg:    DefaultConfig(),
		input:  nopInput{},
		Clock:  NewManualClock(harnessEpoch),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	gameOpts := []Option{
		WithConfig(ts.cfg),
		WithSeed(ts.seed),
		WithClock(ts.Clock),
		WithInput(ts.input),
		WithSimLog(ts.SimLog),
	}
	if ts.renderer != nil {
		gameOpts = append(gameOpts, WithRenderer(ts.renderer))
	}
	if ts.audio != nil {
		gameOpts = append(gameOpts, WithAudio(ts.audio))
	}
	g, err := New(append(gameOpts, ts.extra...)...)
	if err != nil {
		return nil, err
	}
	ts.Game = g
	for _, o := range opts {
		if o.kind == simOptWorld {
			o.fn(ts)
		}
	}
	return ts, nil
}

// RunTicks advances the simulation n frames.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.step()
	}
}

// RunUntil advances the simulation up to maxTicks frames, stopping early if
// predicate returns true. Returns the tick at which the predicate was
// satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.step()
		if predicate(ts) {
			return ts.Game.tick
		}
	}
	return -1
}

func (ts *TestSim) step() {
	ts.Clock.Advance(ts.Frame)
	_ = ts.Game.Update()
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.Game.tick
}

// Snapshot returns the current world summary.
func (ts *TestSim) Snapshot() Snapshot {
	return ts.Game.Snapshot()
}

// ClearEnemies drops every enemy without counting kills.
func (ts *TestSim) ClearEnemies() {
	g := ts.Game
	for _, e := range g.enemies {
		e.alive = false
	}
	g.removeDead()
}

// PlaceEnemy adds an enemy at pos heading for the player.
func (ts *TestSim) PlaceEnemy(pos mgl64.Vec3) *Enemy {
	g := ts.Game
	e := g.newEnemy(pos)
	g.addEnemy(e, "placed")
	return e
}

// FireMissile asks the objective to launch one missile, honoring the cap.
func (ts *TestSim) FireMissile() bool {
	g := ts.Game
	if g.objective == nil {
		return false
	}
	return g.fireMissile(g.objective)
}

// SetPlayerPose moves the ship and camera.
func (ts *TestSim) SetPlayerPose(pos mgl64.Vec3, orient mgl64.Quat) {
	g := ts.Game
	g.player.Pos = pos
	g.player.Orient = orient
	g.camera.Follow(g.player, g.cfg.CameraOffsetY)
}
