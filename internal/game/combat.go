package game

import (
	"math"
	"time"
)

// fireLaser launches a player bolt from the ship along its heading and, when
// enabled, tests the camera centre ray against the marker for an instant hit.
func (g *Game) fireLaser() {
	p := g.player
	l := g.playerLaserPool.Acquire()
	l.ID = g.nextEntityID()
	l.Kind = KindPlayerLaser
	l.Pos = p.Pos
	l.Prev = p.Pos
	l.Origin = p.Pos
	l.Dir = p.Forward()
	l.Speed = g.cfg.LaserSpeed
	l.Range = g.cfg.PlayerLaserRange
	g.playerLasers = append(g.playerLasers, l)
	g.renderer.Spawn(projectileVisual(l))
	g.audio.Play(SoundShoot)
	g.shotsFired++

	if g.cfg.HitScanAssist {
		g.hitScanMarker()
	}
}

// hitScanMarker registers a marker hit when the view centre passes within an
// enlarged marker radius and the marker is not occluded.
func (g *Game) hitScanMarker() {
	o := g.objective
	if o == nil || o.Marker.Occluded {
		return
	}
	mw := o.MarkerWorld()
	origin, dir := g.camera.Pos, g.camera.Forward()
	t := math.Max(0, dir.Dot(mw.Sub(origin)))
	closest := origin.Add(dir.Mul(t))
	if closest.Sub(mw).Len() < o.Marker.HitRadius*g.cfg.HitScanRadiusMult {
		g.markerHits++
		g.hitMarker(o, mw)
	}
}

// resolveCollisions runs every contact test of the tick. It returns true when
// the tick must stop because the session ended or the level was passed.
func (g *Game) resolveCollisions() bool {
	if g.checkBodyCollision() {
		return true
	}
	if g.resolvePlayerLasers() {
		return true
	}
	for _, check := range []func() bool{
		g.resolveEnemyLasers,
		g.resolveBeams,
		g.resolveMissiles,
		g.resolveRams,
	} {
		if check() {
			return true
		}
	}
	g.collectPickups()
	return false
}

// dangerDistance is the clearance between the ship and the objective body.
func (g *Game) dangerDistance() (float64, bool) {
	o := g.objective
	if o == nil {
		return 0, false
	}
	return PointAABBDistance(g.player.Pos, o.box), true
}

// checkBodyCollision ends the session when the ship touches the objective.
func (g *Game) checkBodyCollision() bool {
	d, ok := g.dangerDistance()
	if !ok || d > g.cfg.ShipRadius-g.cfg.BodyKillBuffer {
		return false
	}
	g.simLog.Add(g.tick, "P", "player", "damage", "body", "objective collision", d)
	g.gameOver("objective collision")
	return true
}

func (g *Game) resolvePlayerLasers() bool {
	o := g.objective
	for _, l := range g.playerLasers {
		if l.dead {
			continue
		}
		if o != nil && l.Pos.Sub(o.Pos).Len() < o.HitRadius {
			l.dead = true
			mw := o.MarkerWorld()
			if SegmentPointDistance(l.Prev, l.Pos, mw) < o.Marker.HitRadius && !o.Marker.Occluded {
				g.markerHits++
				g.audio.Play(SoundHit)
				g.hitMarker(o, mw)
				if g.state != StatePlaying {
					return true
				}
			}
			continue
		}
		for _, e := range g.enemies {
			if !e.alive || !sweptHit(l.Prev, l.Pos, e.Pos, e.HitRadius) {
				continue
			}
			l.dead = true
			g.enemyHits++
			g.audio.Play(SoundHit)
			g.damageEnemy(e, g.player.LaserDamage, "laser")
			break
		}
		if l.dead {
			continue
		}
		for _, m := range g.missiles {
			if m.dead || !sweptHit(l.Prev, l.Pos, m.Pos, g.cfg.MissileShootRadius) {
				continue
			}
			l.dead = true
			m.dead = true
			g.spawnExplosion(m.Pos)
			g.audio.Play(SoundHit)
			g.simLog.Add(g.tick, "P", "player", "missile", "shot_down", "", float64(len(g.missiles)))
			break
		}
	}
	return false
}

// ownerVisible reports whether the enemy that fired a laser is on screen with
// a clear line from the camera. Lasers without an owner always count.
func (g *Game) ownerVisible(owner *Enemy) bool {
	if owner == nil {
		return true
	}
	if !g.camera.OnScreen(owner.Pos) {
		return false
	}
	return !g.occluded(g.camera.Pos, owner.Pos, RayFilter{Enemy: owner})
}

func (g *Game) resolveEnemyLasers() bool {
	for _, l := range g.enemyLasers {
		if l.dead || l.Pos.Sub(g.player.Pos).Len() >= l.Radius {
			continue
		}
		l.dead = true
		if !g.ownerVisible(l.Owner) {
			g.simLog.AddVerbose(g.tick, "P", "player", "damage", "owner_hidden", "", 0)
			continue
		}
		dmg := g.cfg.EnemyLaserDamage
		if g.objective != nil && g.objective.Kind == ObjectivePyramid {
			dmg += g.cfg.PyramidLaserBonus
		}
		g.ApplyPlayerDamage(dmg, DamageLaser)
		if g.state != StatePlaying {
			return true
		}
	}
	return false
}

func (g *Game) resolveBeams() bool {
	for _, b := range g.beams {
		if b.dead {
			continue
		}
		end := b.End()
		if SegmentPointDistance(b.Origin, end, g.player.Pos) < b.Radius {
			g.ApplyPlayerDamage(b.Damage, DamageBeam)
			if g.state != StatePlaying {
				return true
			}
		}
		for _, e := range g.enemies {
			if !e.alive || SegmentPointDistance(b.Origin, end, e.Pos) >= b.Radius+e.HitRadius {
				continue
			}
			g.spawnExplosion(e.Pos)
			g.audio.Play(SoundHit)
			g.damageEnemy(e, b.Damage, "beam")
		}
	}
	return false
}

func (g *Game) resolveMissiles() bool {
	for _, m := range g.missiles {
		if m.dead || m.Pos.Sub(g.player.Pos).Len() >= g.cfg.MissileHitRadius {
			continue
		}
		m.dead = true
		g.spawnExplosion(m.Pos)
		g.ApplyPlayerDamage(g.cfg.MissileDamage, DamageMissile)
		if g.state != StatePlaying {
			return true
		}
	}
	return false
}

// resolveRams destroys enemies that touch the ship. The kill counts even when
// the damage gate rejects the ram damage.
func (g *Game) resolveRams() bool {
	for _, e := range g.enemies {
		if !e.alive {
			continue
		}
		d := e.Pos.Sub(g.player.Pos).Len()
		if d > g.cfg.RamCheckRadius || d >= e.HitRadius+g.cfg.ShipRadius {
			continue
		}
		g.ApplyPlayerDamage(g.cfg.RamDamage, DamageRam)
		if g.state != StatePlaying {
			return true
		}
		g.killEnemy(e, "ram")
	}
	return false
}

// collectPickups heals the player up to max for every pickup touched.
func (g *Game) collectPickups() {
	p := g.player
	for _, pk := range g.pickups {
		if !pk.Alive || pk.Pos.Sub(p.Pos).Len() > pk.Radius+1 {
			continue
		}
		pk.Alive = false
		p.HP = min(p.MaxHP, p.HP+pk.Heal)
		g.audio.Play(SoundMarker)
		g.simLog.Add(g.tick, "P", "player", "pickup", "heal", "", float64(p.HP))
	}
}

// enemyFire counts down each enemy's shot timer and fires at the player when
// the enemy is on screen and close enough.
func (g *Game) enemyFire() {
	for _, e := range g.enemies {
		if !e.alive {
			continue
		}
		e.ShootTimer++
		if e.ShootTimer < g.cfg.EnemyShootTicks {
			continue
		}
		e.ShootTimer = 0
		if !g.camera.OnScreen(e.Pos) || e.Pos.Sub(g.player.Pos).Len() > g.cfg.EnemyShootRange {
			continue
		}
		g.fireEnemyLaser(e)
	}
}

func (g *Game) fireEnemyLaser(e *Enemy) {
	l := g.enemyLaserPool.Acquire()
	l.ID = g.nextEntityID()
	l.Kind = KindEnemyLaser
	l.Pos = e.Pos
	l.Prev = e.Pos
	l.Origin = e.Pos
	l.Dir = normalizeOr(g.player.Pos.Sub(e.Pos), e.Dir)
	l.Speed = g.cfg.LaserSpeed
	l.Radius = g.cfg.EnemyLaserRadius
	l.Range = g.cfg.EnemyLaserRange
	l.Owner = e
	g.enemyLasers = append(g.enemyLasers, l)
	g.renderer.Spawn(projectileVisual(l))
	g.audio.Play(SoundShoot)
}

// moveProjectiles advances every bolt, missile and beam and flags the ones
// past their range or lifetime.
func (g *Game) moveProjectiles(dtScale float64, now time.Time) {
	p := g.player
	for _, l := range g.playerLasers {
		advanceProjectile(l, dtScale)
		if l.Pos.Sub(p.Pos).Len() > l.Range {
			l.dead = true
			continue
		}
		g.renderer.Move(projectileVisual(l))
	}
	for _, l := range g.enemyLasers {
		advanceProjectile(l, dtScale)
		if l.Pos.Sub(l.Origin).Len() > l.Range {
			l.dead = true
			continue
		}
		g.renderer.Move(projectileVisual(l))
	}
	for _, m := range g.missiles {
		g.steerMissile(m, dtScale)
		if m.Pos.Sub(m.Origin).Len() > g.cfg.MissileRange {
			m.dead = true
			continue
		}
		g.renderer.Move(missileVisual(m))
	}
	for _, b := range g.beams {
		if b.Persistent {
			if g.objective != nil {
				anchorBeam(g.objective, b)
			}
		} else if now.Sub(b.Start) > b.Duration {
			b.dead = true
			continue
		}
		g.renderer.Move(beamVisual(b))
	}
}

// missileIncoming reports whether any live missile is inside warning range.
func (g *Game) missileIncoming() bool {
	for _, m := range g.missiles {
		if !m.dead && m.Warning {
			return true
		}
	}
	return false
}

// nearestMissile is used by the autopilot to pick a target.
func (g *Game) nearestMissile() (*Missile, float64) {
	var best *Missile
	bestD := math.Inf(1)
	for _, m := range g.missiles {
		if m.dead {
			continue
		}
		if d := m.Pos.Sub(g.player.Pos).Len(); d < bestD {
			best, bestD = m, d
		}
	}
	return best, bestD
}
