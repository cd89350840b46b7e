package game

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Player is the single ship. It lives for the whole session.
type Player struct {
	ID          int
	Pos         mgl64.Vec3
	Orient      mgl64.Quat
	HP          int
	MaxHP       int
	LaserDamage int

	Boost         BoostState
	RollRemaining float64 // radians of queued barrel roll, signed

	lastDamageAt time.Time // single-channel damage gate
	damaged      bool      // lastDamageAt is meaningful
}

// BoostState tracks the timed speed boost.
type BoostState struct {
	Active        bool
	EndAt         time.Time
	CooldownUntil time.Time
}

// Forward is the ship's unit heading.
func (p *Player) Forward() mgl64.Vec3 { return forwardOf(p.Orient) }

// EnemyShape selects the fighter hull; it fixes the hit radius.
type EnemyShape int

const (
	EnemyPrism EnemyShape = iota
	EnemyCone
)

const (
	prismHitRadius    = 1.9  // bounding sphere of the stretched prism hull
	coneHitRadius     = 2.33 // bounding sphere of the stretched cone hull
	fallbackHitRadius = 1.2
)

func (s EnemyShape) HitRadius() float64 {
	switch s {
	case EnemyPrism:
		return prismHitRadius
	case EnemyCone:
		return coneHitRadius
	}
	return fallbackHitRadius
}

// Enemy is a pursuing fighter.
type Enemy struct {
	ID         int
	Pos        mgl64.Vec3
	Dir        mgl64.Vec3 // smoothed heading, unit length
	HitRadius  float64
	HP         int
	MaxHP      int
	ShootTimer int
	Shape      EnemyShape
	alive      bool
}

// Alive reports whether the enemy is still tracked.
func (e *Enemy) Alive() bool { return e.alive }

// Projectile is a pooled laser bolt, fired by the player, an enemy or the
// sphere burst. Speed, Radius and Range carry per-instance overrides.
type Projectile struct {
	ID     int
	Kind   EntityKind
	Pos    mgl64.Vec3
	Prev   mgl64.Vec3
	Dir    mgl64.Vec3
	Origin mgl64.Vec3
	Speed  float64
	Radius float64
	Range  float64
	Owner  *Enemy // enemy lasers only; gates damage on owner visibility
	dead   bool
}

func resetProjectile(p *Projectile) { *p = Projectile{} }

// Missile is a pooled homing missile launched by the objective.
type Missile struct {
	ID      int
	Pos     mgl64.Vec3
	Prev    mgl64.Vec3
	Dir     mgl64.Vec3
	Origin  mgl64.Vec3
	HP      int
	Warning bool
	dead    bool
}

func resetMissile(m *Missile) { *m = Missile{} }

// Beam is a pooled pyramid beam. Persistent beams re-anchor every tick from
// LocalPos/LocalNormal through the objective's current rotation.
type Beam struct {
	ID           int
	Origin       mgl64.Vec3
	Dir          mgl64.Vec3
	Range        float64
	Radius       float64
	Damage       int
	Start        time.Time
	Duration     time.Duration
	Persistent   bool
	WorldAligned bool // apex beam: always world up
	LocalPos     mgl64.Vec3
	LocalNormal  mgl64.Vec3
	dead         bool
}

func resetBeam(b *Beam) { *b = Beam{} }

// End is the far point of the beam segment.
func (b *Beam) End() mgl64.Vec3 { return b.Origin.Add(b.Dir.Mul(b.Range)) }

// Pickup restores player health when touched.
type Pickup struct {
	ID     int
	Pos    mgl64.Vec3
	Heal   int
	Radius float64
	Alive  bool
}

// Asteroid is scenery around the cube-in-sphere; it never collides.
type Asteroid struct {
	ID     int
	Pos    mgl64.Vec3
	Radius float64
	Axis   mgl64.Vec3
	Spin   float64 // rad/s
	Orient mgl64.Quat
}

// Explosion is a timed visual effect.
type Explosion struct {
	Pos   mgl64.Vec3
	Start time.Time
}
