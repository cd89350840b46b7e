package game

//go:generate go tool mockgen -destination=./mocks/collaborators_mock.go -package=mocks . Renderer,Audio,Input,Clock

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Sound is a semantic audio cue.
type Sound int

const (
	SoundShoot Sound = iota
	SoundHit
	SoundExplosion
	SoundMarker
	SoundPlayerHit
	SoundGameOver
	SoundBoost
)

func (s Sound) String() string {
	switch s {
	case SoundShoot:
		return "shoot"
	case SoundHit:
		return "hit"
	case SoundExplosion:
		return "explosion"
	case SoundMarker:
		return "marker"
	case SoundPlayerHit:
		return "playerHit"
	case SoundGameOver:
		return "gameover"
	case SoundBoost:
		return "boost"
	}
	return "unknown"
}

// EntityKind tags a visual handle so the front-end can pick a shape for it.
type EntityKind int

const (
	KindPlayer EntityKind = iota
	KindEnemy
	KindPlayerLaser
	KindEnemyLaser
	KindBurstLaser
	KindMissile
	KindBeam
	KindObjective
	KindEnclosure
	KindMarker
	KindPickup
	KindAsteroid
)

var kindNames = [...]string{
	"player", "enemy", "laser", "enemy_laser", "burst_laser", "missile",
	"beam", "objective", "enclosure", "marker", "pickup", "asteroid",
}

func (k EntityKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Visual describes one entity to the render collaborator. The core never
// reads visual state back.
type Visual struct {
	ID     int
	Kind   EntityKind
	Pos    mgl64.Vec3
	Orient mgl64.Quat
	Radius float64
	Dir    mgl64.Vec3 // beams and projectiles
	Length float64    // beams
	Shape  ObjectiveKind
	HP     int
	MaxHP  int
}

// Effect is a short-lived visual such as an explosion.
type Effect struct {
	Pos  mgl64.Vec3
	At   time.Time
	Life time.Duration
}

// Renderer receives entity lifecycle calls and one Present per frame.
type Renderer interface {
	Spawn(v Visual)
	Move(v Visual)
	Despawn(id int)
	Effect(e Effect)
	Present(f Frame)
}

// Audio plays fire-and-forget cues. Implementations swallow their own failures.
type Audio interface {
	Play(s Sound)
}

// Controls is one frame of abstract input. Deltas are radians already scaled
// by the device; axes are -1..1 and scaled by the core.
type Controls struct {
	YawDelta   float64
	PitchDelta float64
	YawAxis    float64
	PitchAxis  float64
	Fire       bool // edge: fire pressed this frame (also continues after a level)
	Boost      bool // edge
	Roll       int  // edge: -1, 0, +1 barrel roll direction
	Pause      bool // edge: toggle pause
	Restart    bool // edge: restart after game over
}

// Input reports the controls for the coming frame.
type Input interface {
	Poll() Controls
}

// Clock supplies wall-clock timestamps for cooldown comparisons.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to. Headless runs and tests advance it one
// reference frame per tick.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock starts the clock at t.
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{now: t}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type nopRenderer struct{}

func (nopRenderer) Spawn(Visual) {}
func (nopRenderer) Move(Visual) {}
func (nopRenderer) Despawn(int) {}
func (nopRenderer) Effect(Effect) {}
func (nopRenderer) Present(Frame) {}

type nopAudio struct{}

func (nopAudio) Play(Sound) {}

type nopInput struct{}

func (nopInput) Poll() Controls { return Controls{} }

// ScriptedInput replays a fixed control per tick and then idles. Useful for
// tests and demos.
type ScriptedInput struct {
	Frames []Controls
	next   int
}

func (s *ScriptedInput) Poll() Controls {
	if s.next >= len(s.Frames) {
		return Controls{}
	}
	c := s.Frames[s.next]
	s.next++
	return c
}
