package game

// Registry ownership: every live entity sits in exactly one of the Game's
// collections. Entities die by flag during a tick and leave their collection
// in removeDead, before pooled ones go back to their pool.

// compact keeps the items for which keep is true, calling drop on the rest.
// The tail is cleared so dropped pointers do not linger in the backing array.
func compact[T any](items []*T, keep func(*T) bool, drop func(*T)) []*T {
	out := items[:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
			continue
		}
		drop(it)
	}
	for i := len(out); i < len(items); i++ {
		items[i] = nil
	}
	return out
}

// releaseTo returns obj to its pool, logging a double release instead of
// halting the tick.
func releaseTo[T any](g *Game, p *Pool[T], obj *T) {
	if err := p.Release(obj); err != nil {
		g.log.Warn("pool release failed", "pool", p.Name(), "err", err)
		g.simLog.Add(g.tick, "--", p.Name(), "pool", "double_release", err.Error(), 0)
	}
}

// removeDead drops every flagged entity from its collection and returns
// pooled ones.
func (g *Game) removeDead() {
	g.enemies = compact(g.enemies,
		func(e *Enemy) bool { return e.alive },
		func(e *Enemy) { g.renderer.Despawn(e.ID) })
	g.playerLasers = compact(g.playerLasers,
		func(l *Projectile) bool { return !l.dead },
		func(l *Projectile) {
			g.renderer.Despawn(l.ID)
			releaseTo(g, g.playerLaserPool, l)
		})
	g.enemyLasers = compact(g.enemyLasers,
		func(l *Projectile) bool { return !l.dead },
		func(l *Projectile) {
			g.renderer.Despawn(l.ID)
			releaseTo(g, g.enemyLaserPool, l)
		})
	g.missiles = compact(g.missiles,
		func(m *Missile) bool { return !m.dead },
		func(m *Missile) {
			g.renderer.Despawn(m.ID)
			releaseTo(g, g.missilePool, m)
		})
	g.beams = compact(g.beams,
		func(b *Beam) bool { return !b.dead },
		func(b *Beam) {
			g.renderer.Despawn(b.ID)
			releaseTo(g, g.beamPool, b)
		})
	g.pickups = compact(g.pickups,
		func(p *Pickup) bool { return p.Alive },
		func(p *Pickup) { g.renderer.Despawn(p.ID) })
}

// clearWorld releases every tracked entity and the objective. Used on level
// transitions and restarts.
func (g *Game) clearWorld() {
	for _, e := range g.enemies {
		e.alive = false
	}
	for _, l := range g.playerLasers {
		l.dead = true
	}
	for _, l := range g.enemyLasers {
		l.dead = true
	}
	for _, m := range g.missiles {
		m.dead = true
	}
	for _, b := range g.beams {
		b.dead = true
	}
	for _, p := range g.pickups {
		p.Alive = false
	}
	g.removeDead()
	for _, a := range g.asteroids {
		g.renderer.Despawn(a.ID)
	}
	g.asteroids = nil
	g.explosions = nil
	g.burstQueue = nil
	g.removeObjective()
}

// removeObjective despawns the objective, its marker and its enclosure.
func (g *Game) removeObjective() {
	o := g.objective
	if o == nil {
		return
	}
	for _, b := range g.beams {
		b.dead = true
	}
	g.beams = compact(g.beams,
		func(b *Beam) bool { return !b.dead },
		func(b *Beam) {
			g.renderer.Despawn(b.ID)
			releaseTo(g, g.beamPool, b)
		})
	if o.Enclosure != nil {
		g.renderer.Despawn(o.Enclosure.ID)
	}
	g.renderer.Despawn(o.ID)
	g.objective = nil
}

// Counts exposes the live collection sizes.
type Counts struct {
	Enemies      int
	PlayerLasers int
	EnemyLasers  int
	Missiles     int
	Beams        int
	Pickups      int
	Asteroids    int
	BurstQueued  int
}

// Counts reports how many entities each collection tracks.
func (g *Game) Counts() Counts {
	return Counts{
		Enemies:      len(g.enemies),
		PlayerLasers: len(g.playerLasers),
		EnemyLasers:  len(g.enemyLasers),
		Missiles:     len(g.missiles),
		Beams:        len(g.beams),
		Pickups:      len(g.pickups),
		Asteroids:    len(g.asteroids),
		BurstQueued:  len(g.burstQueue),
	}
}

func enemyVisual(e *Enemy) Visual {
	return Visual{ID: e.ID, Kind: KindEnemy, Pos: e.Pos, Dir: e.Dir, Radius: e.HitRadius, HP: max(e.HP, 0), MaxHP: e.MaxHP}
}

func projectileVisual(l *Projectile) Visual {
	return Visual{ID: l.ID, Kind: l.Kind, Pos: l.Pos, Dir: l.Dir, Radius: l.Radius}
}

func missileVisual(m *Missile) Visual {
	return Visual{ID: m.ID, Kind: KindMissile, Pos: m.Pos, Dir: m.Dir, HP: m.HP}
}

func beamVisual(b *Beam) Visual {
	return Visual{ID: b.ID, Kind: KindBeam, Pos: b.Origin, Dir: b.Dir, Length: b.Range, Radius: b.Radius}
}

func pickupVisual(p *Pickup) Visual {
	return Visual{ID: p.ID, Kind: KindPickup, Pos: p.Pos, Radius: p.Radius}
}

func asteroidVisual(a *Asteroid) Visual {
	return Visual{ID: a.ID, Kind: KindAsteroid, Pos: a.Pos, Orient: a.Orient, Radius: a.Radius}
}

func enclosureVisual(e *Enclosure) Visual {
	return Visual{ID: e.ID, Kind: KindEnclosure, Pos: e.Center, Radius: e.Radius}
}

func playerVisual(p *Player) Visual {
	return Visual{ID: p.ID, Kind: KindPlayer, Pos: p.Pos, Orient: p.Orient, HP: p.HP, MaxHP: p.MaxHP}
}
