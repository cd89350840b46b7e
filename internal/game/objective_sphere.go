package game

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	sphereRadius      = 200
	sphereHP          = 120
	sphereMissileCD   = 6 * time.Second
	sphereBurstCD     = 15 * time.Second
	sphereInitialWave = 80
	sphereBlockWave   = 60

	sphereMarkerTries   = 24
	sphereMarkerSamples = 6
	sphereMarkerMaxDeg  = 70
)

// burstShot is one queued sphere-burst laser.
type burstShot struct {
	origin mgl64.Vec3
	dir    mgl64.Vec3
}

func sphereBehavior() objectiveBehavior {
	return objectiveBehavior{
		setup:       setupSphere,
		placeMarker: placeSphereMarker,
		attack:      sphereAttack,
		hull:        sphereHull,
		raycast:     sphereRaycast,
		waves:       []spawnWave{{initial: sphereInitialWave, blocking: sphereBlockWave}},
	}
}

func setupSphere(g *Game, o *Objective) {
	o.Radius = sphereRadius
	o.Size = 2 * sphereRadius
	o.HP = sphereHP
	o.HitRadius = sphereRadius
	o.MissileCooldown = sphereMissileCD
	o.MaxMissiles = g.cfg.MaxActiveMissiles
	o.BurstCooldown = sphereBurstCD
}

func sphereHull(o *Objective) []mgl64.Vec3 {
	r := o.Radius
	return []mgl64.Vec3{o.Pos.Sub(mgl64.Vec3{r, r, r}), o.Pos.Add(mgl64.Vec3{r, r, r})}
}

func sphereRaycast(o *Objective, origin, dir mgl64.Vec3, maxT float64) (float64, bool) {
	return RaySphere(origin, dir, maxT, o.Pos, o.Radius)
}

// placeSphereMarker samples directions within 70 degrees of the camera side
// and keeps the first one that is on screen and unobstructed.
func placeSphereMarker(g *Game, o *Objective) {
	camDir := normalizeOr(g.camera.Pos.Sub(o.Pos), worldUp)
	minDot := math.Cos(mgl64.DegToRad(sphereMarkerMaxDeg))
	lift := o.Radius + 2
	for try := 0; try < sphereMarkerTries; try++ {
		v := randUnit(g.rng)
		for s := 1; s < sphereMarkerSamples && v.Dot(camDir) < minDot; s++ {
			v = randUnit(g.rng)
		}
		world := o.Pos.Add(v.Mul(lift))
		if !g.camera.OnScreen(world) {
			continue
		}
		if g.markerSightBlocked(o, world, true) {
			continue
		}
		o.Marker.Local = o.toLocal(world)
		return
	}
	o.Marker.Local = o.toLocal(o.Pos.Add(camDir.Mul(lift)))
}

// sphereAttack runs the missile cooldown and queues the radial burst.
func sphereAttack(g *Game, o *Objective, now time.Time) {
	missileAttack(g, o, now)
	if o.BurstCooldown <= 0 || now.Sub(o.lastBurstAt) < o.BurstCooldown {
		return
	}
	o.lastBurstAt = now
	g.queueBurst(o)
}

// queueBurst enqueues the shots in the polar band; the drip feed in the
// attack phase turns them into lasers a few per tick.
func (g *Game) queueBurst(o *Objective) {
	minPolar := mgl64.DegToRad(g.cfg.BurstMinPolarDeg)
	maxPolar := mgl64.DegToRad(g.cfg.BurstMaxPolarDeg)
	for i := 0; i < g.cfg.BurstCount; i++ {
		phi := g.rng.Float64() * 2 * math.Pi
		theta := minPolar + g.rng.Float64()*(maxPolar-minPolar)
		dir := mgl64.Vec3{math.Sin(theta) * math.Cos(phi), math.Cos(theta), math.Sin(theta) * math.Sin(phi)}
		g.burstQueue = append(g.burstQueue, burstShot{origin: o.Pos, dir: normalizeOr(dir, worldUp)})
	}
	g.audio.Play(SoundShoot)
	g.simLog.Add(g.tick, objectiveLabel(o), o.Kind.String(), "objective", "burst", "", float64(len(g.burstQueue)))
}

// drainBurstQueue spawns at most BurstPerTick queued burst lasers.
func (g *Game) drainBurstQueue() {
	n := min(g.cfg.BurstPerTick, len(g.burstQueue))
	for _, shot := range g.burstQueue[:n] {
		l := g.enemyLaserPool.Acquire()
		l.ID = g.nextEntityID()
		l.Kind = KindBurstLaser
		l.Pos = shot.origin
		l.Prev = shot.origin
		l.Origin = shot.origin
		l.Dir = shot.dir
		l.Speed = g.cfg.LaserSpeed * g.cfg.BurstSpeedMult
		l.Radius = g.cfg.BurstRadius
		l.Range = g.cfg.BurstRange
		g.enemyLasers = append(g.enemyLasers, l)
		g.renderer.Spawn(projectileVisual(l))
	}
	g.burstQueue = g.burstQueue[n:]
}
