package game

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// DamageSource names what hurt the player. Each source carries its own
// minimum interval against the shared damage gate.
type DamageSource int

const (
	DamageOther DamageSource = iota
	DamageLaser
	DamageRam
	DamageMissile
	DamageBeam
	DamageDrain
)

func (s DamageSource) String() string {
	switch s {
	case DamageLaser:
		return "laser"
	case DamageRam:
		return "ram"
	case DamageMissile:
		return "missile"
	case DamageBeam:
		return "beam"
	case DamageDrain:
		return "drain"
	}
	return "other"
}

const sourceGate = 200 * time.Millisecond

// Gate is the minimum time since the last applied damage for this source to
// land. Drain is rate limited by the enclosure itself.
func (s DamageSource) Gate(cfg Config) time.Duration {
	switch s {
	case DamageLaser, DamageRam, DamageMissile:
		return sourceGate
	case DamageBeam:
		return cfg.BeamGate
	case DamageDrain:
		return 0
	}
	return cfg.DefaultDamageGate
}

// ApplyPlayerDamage applies amount through the source's gate. It reports
// whether the damage landed.
func (g *Game) ApplyPlayerDamage(amount int, src DamageSource) bool {
	return g.ApplyPlayerDamageWithin(amount, src, src.Gate(g.cfg))
}

// ApplyPlayerDamageWithin applies amount unless less than minInterval has
// passed since the last applied damage of any source. There is one gate for
// all sources, so simultaneous hits in one tick can suppress each other.
// Damage after game over is a no-op.
func (g *Game) ApplyPlayerDamageWithin(amount int, src DamageSource, minInterval time.Duration) bool {
	if g.state == StateGameOver || amount <= 0 {
		return false
	}
	p := g.player
	now := g.clock.Now()
	if p.damaged && now.Sub(p.lastDamageAt) < minInterval {
		g.simLog.AddVerbose(g.tick, "P", "player", "damage", "gated", src.String(), float64(amount))
		return false
	}
	p.lastDamageAt = now
	p.damaged = true
	p.HP -= amount
	if p.HP < 0 {
		p.HP = 0
	}
	g.audio.Play(SoundPlayerHit)
	g.simLog.Add(g.tick, "P", "player", "damage", src.String(), fmt.Sprintf("-%d hp=%d", amount, p.HP), float64(p.HP))
	if p.HP <= 0 {
		g.gameOver(src.String())
	}
	return true
}

// gameOver ends the session once. Later calls are ignored.
func (g *Game) gameOver(reason string) {
	if g.state == StateGameOver {
		return
	}
	g.state = StateGameOver
	g.player.HP = 0
	g.audio.Play(SoundGameOver)
	g.simLog.Add(g.tick, "P", "player", "level", "game_over", reason, float64(g.kills))
	g.log.Info("game over", "reason", reason, "level", g.level, "kills", g.kills)
}

// damageEnemy subtracts hp directly and kills at zero. It reports a kill.
func (g *Game) damageEnemy(e *Enemy, amount int, cause string) bool {
	if !e.alive {
		return false
	}
	e.HP -= amount
	g.simLog.AddVerbose(g.tick, enemyLabel(e), "enemy", "damage", cause, fmt.Sprintf("hp=%d", e.HP), float64(e.HP))
	if e.HP > 0 {
		g.renderer.Move(enemyVisual(e))
		return false
	}
	g.killEnemy(e, cause)
	return true
}

// killEnemy marks the enemy dead and counts the kill exactly once. The
// removal phase drops it from the registry.
func (g *Game) killEnemy(e *Enemy, cause string) {
	if !e.alive {
		return
	}
	e.alive = false
	if e.HP > 0 {
		e.HP = 0
	}
	g.kills++
	g.spawnExplosion(e.Pos)
	g.audio.Play(SoundExplosion)
	g.simLog.Add(g.tick, enemyLabel(e), "enemy", "enemy", "killed", cause, float64(g.kills))
}

// spawnExplosion records a timed effect and hands it to the renderer.
func (g *Game) spawnExplosion(at mgl64.Vec3) {
	now := g.clock.Now()
	g.explosions = append(g.explosions, Explosion{Pos: at, Start: now})
	g.renderer.Effect(Effect{Pos: at, At: now, Life: g.cfg.ExplosionLife})
}

// expireEffects drops explosions past their lifetime.
func (g *Game) expireEffects(now time.Time) {
	kept := g.explosions[:0]
	for _, x := range g.explosions {
		if now.Sub(x.Start) < g.cfg.ExplosionLife {
			kept = append(kept, x)
		}
	}
	g.explosions = kept
}

func enemyLabel(e *Enemy) string {
	return fmt.Sprintf("E%d", e.ID)
}
