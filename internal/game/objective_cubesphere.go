package game

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	cubeSphereSize        = 400
	cubeSphereHP          = 200
	cubeSphereMissileCD   = 5 * time.Second
	cubeSphereWave        = 30
	enclosureExpandEvery  = 2 * time.Second
	enclosureExpandDelta  = 10
	enclosureShift        = 6
	enclosureDrainEvery   = 500 * time.Millisecond
	enclosureDrainDamage  = 1
	rotatePhaseDuration   = 5 * time.Second
	rotatePhasePause      = 500 * time.Millisecond
	rotateSpeedMin        = 0.4
	rotateSpeedRange      = 1.2
	asteroidShellMin      = 40
	asteroidShellSpan     = 900
	asteroidMinRadius     = 2
	asteroidRadiusSpan    = 8
	asteroidSpinComponent = 0.02
	asteroidSpinScale     = 60 // per-ms spin at the reference rate, as rad/s
)

var rotationAxes = []mgl64.Vec3{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
	mgl64.Vec3{1, 1, 0}.Normalize(),
	mgl64.Vec3{1, 0, 1}.Normalize(),
	mgl64.Vec3{0, 1, 1}.Normalize(),
}

func cubeInSphereBehavior() objectiveBehavior {
	return objectiveBehavior{
		setup:       setupCubeInSphere,
		placeMarker: placeCubeMarker,
		attack:      missileAttack,
		phase:       cubeInSpherePhase,
		hull:        cubeHull,
		raycast:     cubeRaycast,
		waves:       []spawnWave{{initial: cubeSphereWave, blocking: cubeSphereWave}},
	}
}

func setupCubeInSphere(g *Game, o *Objective) {
	o.Size = cubeSphereSize
	o.HP = cubeSphereHP
	o.HitRadius = math.Sqrt(3) * cubeSphereSize / 2
	o.MissileCooldown = cubeSphereMissileCD
	o.MaxMissiles = 2 * g.cfg.MaxActiveMissiles

	base := math.Sqrt(3) * cubeSphereSize / 2
	o.Enclosure = &Enclosure{
		ID:             g.nextEntityID(),
		Center:         o.Pos,
		BaseRadius:     base,
		Radius:         base,
		ExpandInterval: enclosureExpandEvery,
		ExpandDelta:    enclosureExpandDelta,
		Shift:          enclosureShift,
		DrainInterval:  enclosureDrainEvery,
		DrainDamage:    enclosureDrainDamage,
		lastExpandAt:   g.now,
	}
	g.renderer.Spawn(enclosureVisual(o.Enclosure))
	g.spawnAsteroids(o, o.Enclosure.BaseRadius)
}

// cubeInSpherePhase expands the enclosure, advances the rotation cycle and
// drains the player while inside.
func cubeInSpherePhase(g *Game, o *Objective, now time.Time, dt time.Duration) {
	e := o.Enclosure
	if e == nil {
		return
	}
	if now.Sub(e.lastExpandAt) >= e.ExpandInterval {
		e.lastExpandAt = now
		e.Radius += e.ExpandDelta
		toPlayer := normalizeOr(g.player.Pos.Sub(e.Center), mgl64.Vec3{})
		e.Center = e.Center.Add(toPlayer.Mul(e.Shift))
		g.renderer.Move(enclosureVisual(e))
		g.simLog.AddVerbose(g.tick, objectiveLabel(o), o.Kind.String(), "objective", "expand", "", e.Radius)
	}

	g.advanceRotation(o, now, dt)

	if e.Contains(g.player.Pos) && now.Sub(e.lastDrainAt) >= e.DrainInterval {
		e.lastDrainAt = now
		g.ApplyPlayerDamage(e.DrainDamage, DamageDrain)
	}
}

func (g *Game) pickRotation(r *RotationPhase, now time.Time) {
	r.Rotating = true
	r.StartedAt = now
	r.Axis = rotationAxes[g.rng.Intn(len(rotationAxes))]
	r.Speed = rotateSpeedMin + g.rng.Float64()*rotateSpeedRange
}

// advanceRotation runs the rotate / pause / new axis cycle. While rotating,
// enemies inside the enclosure turn rigidly with the cube about its center.
func (g *Game) advanceRotation(o *Objective, now time.Time, dt time.Duration) {
	r := &o.Rotation
	if !r.started {
		r.started = true
		r.Duration = rotatePhaseDuration
		r.Pause = rotatePhasePause
		g.pickRotation(r, now)
	}
	elapsed := now.Sub(r.StartedAt)
	if !r.Rotating {
		if elapsed >= r.Pause {
			g.pickRotation(r, now)
		}
		return
	}

	angle := r.Speed * dt.Seconds()
	q := mgl64.QuatRotate(angle, r.Axis)
	o.Orient = q.Mul(o.Orient).Normalize()
	limit := o.Enclosure.Radius + 0.001
	for _, e := range g.enemies {
		if !e.alive {
			continue
		}
		rel := e.Pos.Sub(o.Pos)
		if rel.Len() > limit {
			continue
		}
		e.Pos = o.Pos.Add(q.Rotate(rel))
		e.Dir = normalizeOr(q.Rotate(e.Dir), e.Dir)
	}
	o.refreshBox()
	if elapsed >= r.Duration {
		r.Rotating = false
		r.StartedAt = now
	}
}

// spawnAsteroids scatters decorative rocks in a shell around the objective.
func (g *Game) spawnAsteroids(o *Objective, inner float64) {
	for i := 0; i < g.cfg.AsteroidCount; i++ {
		dist := inner + asteroidShellMin + g.rng.Float64()*asteroidShellSpan
		spin := mgl64.Vec3{
			(g.rng.Float64() - 0.5) * asteroidSpinComponent,
			(g.rng.Float64() - 0.5) * asteroidSpinComponent,
			(g.rng.Float64() - 0.5) * asteroidSpinComponent,
		}
		a := &Asteroid{
			ID:     g.nextEntityID(),
			Pos:    o.Pos.Add(randUnit(g.rng).Mul(dist)),
			Radius: asteroidMinRadius + g.rng.Float64()*asteroidRadiusSpan,
			Axis:   normalizeOr(spin, worldUp),
			Spin:   spin.Len() * asteroidSpinScale,
			Orient: mgl64.QuatIdent(),
		}
		g.asteroids = append(g.asteroids, a)
		g.renderer.Spawn(asteroidVisual(a))
	}
}

// spinAsteroids advances each rock's tumble.
func (g *Game) spinAsteroids(dt time.Duration) {
	for _, a := range g.asteroids {
		a.Orient = rotateWorld(a.Orient, a.Axis, a.Spin*dt.Seconds())
		g.renderer.Move(asteroidVisual(a))
	}
}
