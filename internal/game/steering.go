package game

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	fullRoll    = 2 * math.Pi
	rollEpsilon = 0.001
)

var localRollAxis = mgl64.Vec3{0, 0, 1}

// dtScaleFor normalises an elapsed frame to the reference frame length and
// clamps it so a lag spike cannot teleport anything.
func dtScaleFor(elapsed time.Duration) float64 {
	ms := float64(elapsed) / float64(time.Millisecond)
	return clampf(ms/frameMs, dtScaleMin, dtScaleMax)
}

// rotationStep is the wall time used for rad/s rotations this frame.
func rotationStep(dtScale float64) time.Duration {
	return time.Duration(dtScale * frameMs * float64(time.Millisecond))
}

// steerPlayer applies yaw about world up and pitch about screen right. Axes
// are scaled by the keyboard rate; deltas are already radians.
func (g *Game) steerPlayer(c Controls, dtScale float64) {
	p := g.player
	yaw := c.YawDelta + c.YawAxis*g.cfg.RotSpeed*dtScale
	pitch := c.PitchDelta + c.PitchAxis*g.cfg.RotSpeed*dtScale
	if yaw != 0 {
		p.Orient = rotateWorld(p.Orient, worldUp, -yaw)
	}
	if pitch != 0 {
		right := normalizeOr(p.Forward().Cross(worldUp), worldRight)
		p.Orient = rotateWorld(p.Orient, right, pitch)
	}
}

// startRoll queues a full barrel roll unless one is still running.
func (g *Game) startRoll(dir int) bool {
	p := g.player
	if dir == 0 || math.Abs(p.RollRemaining) > rollEpsilon {
		return false
	}
	p.RollRemaining = fullRoll * signf(float64(dir))
	return true
}

// advanceRoll consumes the queued roll at the configured angular rate.
func (g *Game) advanceRoll(step time.Duration) {
	p := g.player
	if math.Abs(p.RollRemaining) <= rollEpsilon {
		p.RollRemaining = 0
		return
	}
	delta := math.Min(g.cfg.RollSpeed*step.Seconds(), math.Abs(p.RollRemaining))
	delta *= signf(p.RollRemaining)
	p.Orient = rotateLocal(p.Orient, localRollAxis, delta)
	p.RollRemaining -= delta
}

// startBoost begins a boost when the cooldown has passed. The cooldown is
// counted from the end of the boost.
func (g *Game) startBoost(now time.Time) bool {
	b := &g.player.Boost
	if b.Active || now.Before(b.CooldownUntil) {
		return false
	}
	b.Active = true
	b.EndAt = now.Add(g.cfg.BoostDuration)
	b.CooldownUntil = b.EndAt.Add(g.cfg.BoostCooldown)
	g.audio.Play(SoundBoost)
	g.simLog.Add(g.tick, "P", "player", "boost", "start", "", g.cfg.BoostDuration.Seconds())
	return true
}

func (g *Game) expireBoost(now time.Time) {
	b := &g.player.Boost
	if b.Active && !now.Before(b.EndAt) {
		b.Active = false
		g.simLog.AddVerbose(g.tick, "P", "player", "boost", "end", "", 0)
	}
}

// movePlayer thrusts along the ship's heading.
func (g *Game) movePlayer(dtScale float64) {
	p := g.player
	speed := g.cfg.ShipSpeed * dtScale
	if p.Boost.Active {
		speed *= g.cfg.BoostMultiplier
	}
	p.Pos = p.Pos.Add(p.Forward().Mul(speed))
}

// steerEnemy turns the stored heading a fixed fraction toward the player and
// advances along it. Enemies outside the enclosure move faster.
func (g *Game) steerEnemy(e *Enemy, dtScale float64) {
	desired := normalizeOr(g.player.Pos.Sub(e.Pos), e.Dir)
	e.Dir = lerpDir(e.Dir, desired, g.cfg.EnemyFollowLerp)
	speed := g.cfg.EnemySpeed * dtScale
	if o := g.objective; o != nil && o.Enclosure != nil && !o.Enclosure.Contains(e.Pos) {
		speed *= g.cfg.EnemyOutsideMult
	}
	e.Pos = e.Pos.Add(e.Dir.Mul(speed))
}

// steerMissile homes the missile toward the player.
func (g *Game) steerMissile(m *Missile, dtScale float64) {
	desired := normalizeOr(g.player.Pos.Sub(m.Pos), m.Dir)
	m.Dir = lerpDir(m.Dir, desired, g.cfg.MissileLerp)
	m.Prev = m.Pos
	m.Pos = m.Pos.Add(m.Dir.Mul(g.cfg.MissileSpeed * dtScale))
	m.Warning = m.Pos.Sub(g.player.Pos).Len() < g.cfg.MissileWarnDist
}

// advanceProjectile moves a bolt and remembers where it came from for the
// swept test.
func advanceProjectile(l *Projectile, dtScale float64) {
	l.Prev = l.Pos
	l.Pos = l.Pos.Add(l.Dir.Mul(l.Speed * dtScale))
}
