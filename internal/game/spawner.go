package game

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	aroundObjectiveMin = 20
	aroundObjectiveMax = 140
	objectiveClearance = 8
	enclosureClearance = 12
	enclosureSpawnGap  = 60
	enclosureSpawnSpan = 600
	spawnAttempts      = 8
	spawnDistSlack     = 1e-6
)

// blockingBand is the corridor segment and lateral spread of a blocking wave.
type blockingBand struct {
	minT, maxT           float64
	minOffset, maxOffset float64
	multiplier           int
}

var (
	defaultBand   = blockingBand{minT: 0.18, maxT: 0.72, minOffset: 20, maxOffset: 120, multiplier: 1}
	enclosureBand = blockingBand{minT: 0.12, maxT: 0.9, minOffset: 60, maxOffset: 320, multiplier: 2}
)

// scaledWave applies the initial population scale, never below one.
func (g *Game) scaledWave(n int) int {
	return max(1, int(math.Floor(float64(n)*g.cfg.InitialSpawnScale)))
}

// newEnemy builds an enemy at pos heading for the player.
func (g *Game) newEnemy(pos mgl64.Vec3) *Enemy {
	shape := EnemyShape(g.rng.Intn(2))
	e := &Enemy{
		ID:        g.nextEntityID(),
		Pos:       pos,
		HitRadius: shape.HitRadius(),
		HP:        g.cfg.EnemyHP,
		MaxHP:     g.cfg.EnemyHP,
		Shape:     shape,
		alive:     true,
	}
	e.Dir = normalizeOr(g.player.Pos.Sub(pos), localForward)
	return e
}

// addEnemy registers the enemy and tells the renderer.
func (g *Game) addEnemy(e *Enemy, reason string) {
	g.enemies = append(g.enemies, e)
	g.renderer.Spawn(enemyVisual(e))
	g.simLog.AddVerbose(g.tick, enemyLabel(e), "enemy", "spawn", reason, "", float64(len(g.enemies)))
}

// spawnEnemy places one enemy. Around the objective when aroundObjective is
// set, otherwise ahead of the player. The result is clear of the objective
// and the enclosure and at least SpawnMinDist from the player.
func (g *Game) spawnEnemy(aroundObjective bool) *Enemy {
	p := g.player
	e := g.newEnemy(g.spawnCandidate(aroundObjective))
	e.Pos = g.clearOfObjective(e.Pos, e.HitRadius)
	for i := 1; i < spawnAttempts && g.nearPlayer(e.Pos); i++ {
		e.Pos = g.clearOfObjective(g.spawnCandidate(aroundObjective), e.HitRadius)
	}
	if g.nearPlayer(e.Pos) {
		e.Pos = g.spawnBeyondObjective(e.HitRadius)
	}
	e.Dir = normalizeOr(p.Pos.Sub(e.Pos), e.Dir)
	g.addEnemy(e, "spawn")
	return e
}

func (g *Game) spawnCandidate(aroundObjective bool) mgl64.Vec3 {
	p := g.player
	o := g.objective
	if aroundObjective && o != nil {
		d := o.HitRadius + aroundObjectiveMin + g.rng.Float64()*(aroundObjectiveMax-aroundObjectiveMin)
		pos := o.Pos.Add(randUnit(g.rng).Mul(d))
		if pos.Sub(p.Pos).Len() < g.cfg.SpawnMinDist {
			pos = p.Pos.Add(normalizeOr(pos.Sub(p.Pos), p.Forward()).Mul(g.cfg.SpawnMinDist))
		}
		return pos
	}
	d := g.cfg.SpawnMinDist + g.rng.Float64()*(g.cfg.SpawnMaxDist-g.cfg.SpawnMinDist)
	local := mgl64.Vec3{g.rng.Float64() - 0.5, g.rng.Float64() - 0.3, -(0.2 + g.rng.Float64()*0.8)}
	dir := normalizeOr(p.Orient.Rotate(local), p.Forward())
	return p.Pos.Add(dir.Mul(d))
}

func (g *Game) nearPlayer(pos mgl64.Vec3) bool {
	return pos.Sub(g.player.Pos).Len() < g.cfg.SpawnMinDist-spawnDistSlack
}

// spawnBeyondObjective is the placement of last resort: on the far side of
// the objective from the player, past every clearance sphere.
func (g *Game) spawnBeyondObjective(enemyRadius float64) mgl64.Vec3 {
	p := g.player
	o := g.objective
	if o == nil {
		return p.Pos.Add(p.Forward().Mul(g.cfg.SpawnMinDist))
	}
	objClear := o.HitRadius + enemyRadius + objectiveClearance
	center, r := o.Pos, max(objClear, g.cfg.SpawnMinDist)
	if e := o.Enclosure; e != nil {
		center = e.Center
		r = max(e.Radius+enemyRadius+enclosureClearance, g.cfg.SpawnMinDist) + o.Pos.Sub(center).Len() + objClear
	}
	away := normalizeOr(center.Sub(p.Pos), randUnit(g.rng))
	return center.Add(away.Mul(r))
}

// clearOfObjective pushes pos out of the objective's hit sphere and, on the
// enclosure level, out of the enclosure. A degenerate push picks a random
// direction.
func (g *Game) clearOfObjective(pos mgl64.Vec3, enemyRadius float64) mgl64.Vec3 {
	o := g.objective
	if o == nil {
		return pos
	}
	pos = pushOut(g, pos, o.Pos, o.HitRadius+enemyRadius+objectiveClearance)
	if e := o.Enclosure; e != nil {
		pos = pushOut(g, pos, e.Center, e.Radius+enemyRadius+enclosureClearance)
	}
	return pos
}

func pushOut(g *Game, pos, center mgl64.Vec3, minDist float64) mgl64.Vec3 {
	rel := pos.Sub(center)
	l := rel.Len()
	if l >= minDist {
		return pos
	}
	if l < 1e-3 {
		return center.Add(randUnit(g.rng).Mul(minDist))
	}
	return center.Add(rel.Mul(minDist / l))
}

// spawnInitialWave populates the shell around the objective. On the
// enclosure level twice as many start just outside the enclosure.
func (g *Game) spawnInitialWave(n int) int {
	o := g.objective
	if o == nil {
		return 0
	}
	count := g.scaledWave(n)
	if e := o.Enclosure; e != nil {
		count *= 2
		for i := 0; i < count; i++ {
			d := e.Radius + enclosureSpawnGap + g.rng.Float64()*enclosureSpawnSpan
			en := g.newEnemy(o.Pos.Add(randUnit(g.rng).Mul(d)))
			g.addEnemy(en, "initial")
		}
		return count
	}
	for i := 0; i < count; i++ {
		g.spawnEnemy(true)
	}
	return count
}

// spawnBlockingWave fills the corridor between the player and the objective.
func (g *Game) spawnBlockingWave(n int) int {
	o := g.objective
	if o == nil {
		return 0
	}
	band := defaultBand
	if o.Enclosure != nil {
		band = enclosureBand
	}
	count := g.scaledWave(n) * band.multiplier
	start := g.player.Pos
	for i := 0; i < count; i++ {
		t := band.minT + g.rng.Float64()*(band.maxT-band.minT)
		base := start.Add(o.Pos.Sub(start).Mul(t))
		offset := band.minOffset + g.rng.Float64()*(band.maxOffset-band.minOffset)
		e := g.newEnemy(base.Add(randUnit(g.rng).Mul(offset)))
		g.addEnemy(e, "blocking")
	}
	return count
}

// populateLevel runs every initial and blocking wave of the variant.
func (g *Game) populateLevel() {
	o := g.objective
	total := 0
	for _, w := range o.behavior.waves {
		total += g.spawnInitialWave(w.initial)
		total += g.spawnBlockingWave(w.blocking)
	}
	g.simLog.Add(g.tick, objectiveLabel(o), o.Kind.String(), "spawn", "populate", fmt.Sprintf("%d enemies", total), float64(total))
}

// visibleEnemies counts live enemies inside the view volume.
func (g *Game) visibleEnemies() int {
	n := 0
	for _, e := range g.enemies {
		if e.alive && g.camera.OnScreen(e.Pos) {
			n++
		}
	}
	return n
}

// runSpawner is the per-tick population pass: a fixed-interval spawn plus a
// top-up when too few enemies are on screen.
func (g *Game) runSpawner() {
	g.spawnTimer++
	if g.spawnTimer >= g.cfg.EnemySpawnTicks {
		g.spawnTimer = 0
		g.spawnEnemy(false)
	}

	visible := g.visibleEnemies()
	if visible >= g.cfg.MinEnemiesInView || len(g.enemies) >= g.cfg.MaxEnemiesTotal {
		return
	}
	n := min(g.cfg.MinEnemiesInView-visible+1, g.cfg.MaxEnemiesTotal-len(g.enemies))
	if g.objective != nil && g.objective.Enclosure != nil {
		n = min(n, g.cfg.MaxSpawnPerTickCIS)
	}
	for i := 0; i < n; i++ {
		g.spawnEnemy(false)
	}
	g.simLog.AddVerbose(g.tick, "--", "enemy", "spawn", "top_up", fmt.Sprintf("visible=%d", visible), float64(n))
}

// spawnPickups scatters health pickups in a shell around the objective.
func (g *Game) spawnPickups(o *Objective) {
	inner := o.HitRadius
	if o.Enclosure != nil {
		inner = o.Enclosure.Radius
	}
	for i := 0; i < g.cfg.PickupCount; i++ {
		d := inner + 30 + g.rng.Float64()*800
		pk := &Pickup{
			ID:     g.nextEntityID(),
			Pos:    o.Pos.Add(randUnit(g.rng).Mul(d)),
			Heal:   g.cfg.PickupHeal,
			Radius: g.cfg.PickupRadius,
			Alive:  true,
		}
		g.pickups = append(g.pickups, pk)
		g.renderer.Spawn(pickupVisual(pk))
	}
}
