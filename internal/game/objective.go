package game

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrUnknownObjective is returned for a level index with no objective variant.
var ErrUnknownObjective = errors.New("unknown objective kind")

// ObjectiveKind is the level variant. Levels run in this order.
type ObjectiveKind int

const (
	ObjectiveCube ObjectiveKind = iota
	ObjectiveSphere
	ObjectivePyramid
	ObjectiveCubeInSphere
)

func (k ObjectiveKind) String() string {
	switch k {
	case ObjectiveCube:
		return "cube"
	case ObjectiveSphere:
		return "sphere"
	case ObjectivePyramid:
		return "pyramid"
	case ObjectiveCubeInSphere:
		return "cubeinsphere"
	}
	return "unknown"
}

// objectiveForLevel maps a 1-based level index to its variant.
func objectiveForLevel(level int) (ObjectiveKind, error) {
	if level < 1 || level > maxLevels {
		return 0, fmt.Errorf("%w: level %d", ErrUnknownObjective, level)
	}
	return ObjectiveKind(level - 1), nil
}

// Marker is the weak point. Local is in the objective's frame.
type Marker struct {
	Local       mgl64.Vec3
	HitRadius   float64
	Hits        int
	Occluded    bool
	Relocations int

	occludedSince time.Time
	occludedOn    bool
}

// markerRadius sizes the weak point from the objective size.
func markerRadius(size float64) float64 {
	markerSize := math.Max(36, math.Floor(size*0.12))
	return math.Max(8, math.Floor(markerSize*0.5))
}

// Enclosure is the expanding sphere of the cube-in-sphere level.
type Enclosure struct {
	ID             int
	Center         mgl64.Vec3
	BaseRadius     float64
	Radius         float64
	ExpandInterval time.Duration
	ExpandDelta    float64
	Shift          float64 // moved toward the player on each expansion
	DrainInterval  time.Duration
	DrainDamage    int

	lastExpandAt time.Time
	lastDrainAt  time.Time
}

// Contains reports whether p is strictly inside the sphere.
func (e *Enclosure) Contains(p mgl64.Vec3) bool {
	return p.Sub(e.Center).Len() < e.Radius
}

// RotationPhase drives the rotate / pause / new axis cycle.
type RotationPhase struct {
	Rotating  bool
	StartedAt time.Time
	Axis      mgl64.Vec3
	Speed     float64 // rad/s
	Duration  time.Duration
	Pause     time.Duration
	started   bool
}

// beamAnchor is a point on the pyramid that emits a persistent beam.
type beamAnchor struct {
	pos          mgl64.Vec3
	normal       mgl64.Vec3
	worldAligned bool
}

// Objective is the level's target shape. Exactly one exists while a level
// is in play.
type Objective struct {
	ID        int
	Kind      ObjectiveKind
	Pos       mgl64.Vec3
	Orient    mgl64.Quat
	HP        int
	MaxHP     int
	Size      float64
	HitRadius float64
	Radius    float64 // sphere radius or pyramid base radius
	Height    float64 // pyramid
	SpinRate  float64 // rad/s about world Y
	Marker    Marker

	MissileCooldown    time.Duration
	MaxMissiles        int
	BurstCooldown      time.Duration
	RandomBeamInterval time.Duration

	Enclosure *Enclosure
	Rotation  RotationPhase

	lastMissileAt    time.Time
	lastBurstAt      time.Time
	lastRandomBeamAt time.Time

	anchors  []beamAnchor
	box      AABB
	behavior objectiveBehavior
}

// MarkerWorld is the weak point in world space; it follows the rotation.
func (o *Objective) MarkerWorld() mgl64.Vec3 {
	return o.toWorld(o.Marker.Local)
}

// Box is the cached bounding box used by the body collision test.
func (o *Objective) Box() AABB { return o.box }

func (o *Objective) toWorld(local mgl64.Vec3) mgl64.Vec3 {
	return o.Pos.Add(o.Orient.Rotate(local))
}

func (o *Objective) toLocal(world mgl64.Vec3) mgl64.Vec3 {
	return o.Orient.Inverse().Rotate(world.Sub(o.Pos))
}

func (o *Objective) refreshBox() {
	o.box = aabbOfPoints(o.behavior.hull(o))
}

func (o *Objective) raycast(origin, dir mgl64.Vec3, maxT float64) (float64, bool) {
	return o.behavior.raycast(o, origin, dir, maxT)
}

// spawnWave is one initial-plus-blocking population pass.
type spawnWave struct {
	initial  int
	blocking int
}

// objectiveBehavior is the per-variant table. Every hook is dispatched once
// per tick from the frame orchestrator.
type objectiveBehavior struct {
	setup          func(g *Game, o *Objective)
	placeMarker    func(g *Game, o *Objective)
	trackOcclusion bool // continuous occlusion relocates the marker
	attack         func(g *Game, o *Objective, now time.Time)
	phase          func(g *Game, o *Objective, now time.Time, dt time.Duration)
	hull           func(o *Objective) []mgl64.Vec3
	raycast        func(o *Objective, origin, dir mgl64.Vec3, maxT float64) (float64, bool)
	waves          []spawnWave
}

func behaviorFor(kind ObjectiveKind) objectiveBehavior {
	switch kind {
	case ObjectiveCube:
		return cubeBehavior()
	case ObjectiveSphere:
		return sphereBehavior()
	case ObjectivePyramid:
		return pyramidBehavior()
	case ObjectiveCubeInSphere:
		return cubeInSphereBehavior()
	}
	return cubeBehavior()
}

// newObjective builds a variant placed ahead of the player's current pose.
func (g *Game) newObjective(kind ObjectiveKind) *Objective {
	fwd := g.player.Forward()
	o := &Objective{
		ID:       g.nextEntityID(),
		Kind:     kind,
		Pos:      g.player.Pos.Add(fwd.Mul(g.cfg.ObjectiveAhead)),
		Orient:   mgl64.QuatIdent(),
		behavior: behaviorFor(kind),
	}
	o.behavior.setup(g, o)
	o.MaxHP = o.HP
	o.Marker.HitRadius = markerRadius(o.Size)
	o.refreshBox()
	return o
}

// cubeHull returns the eight rotated corners of a cube of the given size.
func cubeHull(o *Objective) []mgl64.Vec3 {
	h := o.Size / 2
	pts := make([]mgl64.Vec3, 0, 8)
	for _, x := range []float64{-h, h} {
		for _, y := range []float64{-h, h} {
			for _, z := range []float64{-h, h} {
				pts = append(pts, o.toWorld(mgl64.Vec3{x, y, z}))
			}
		}
	}
	return pts
}

func cubeRaycast(o *Objective, origin, dir mgl64.Vec3, maxT float64) (float64, bool) {
	return RayOBB(origin, dir, maxT, o.Pos, o.Orient, o.Size/2)
}

// placeCubeMarker picks the face most turned toward the camera and a random
// point on it away from the edges, lifted 2 units off the surface.
func placeCubeMarker(g *Game, o *Objective) {
	half := o.Size / 2
	margin := math.Floor(o.Size * 0.08)
	span := o.Size - 2*margin
	u := g.rng.Float64()*span - (half - margin)
	v := g.rng.Float64()*span - (half - margin)

	cam := o.toLocal(g.camera.Pos)
	ax, ay, az := math.Abs(cam[0]), math.Abs(cam[1]), math.Abs(cam[2])
	var p, n mgl64.Vec3
	switch {
	case ax >= ay && ax >= az:
		n = mgl64.Vec3{signOr1(cam[0]), 0, 0}
		p = mgl64.Vec3{half * n[0], v, u}
	case ay >= ax && ay >= az:
		n = mgl64.Vec3{0, signOr1(cam[1]), 0}
		p = mgl64.Vec3{u, half * n[1], v}
	default:
		n = mgl64.Vec3{0, 0, signOr1(cam[2])}
		p = mgl64.Vec3{u, v, half * n[2]}
	}
	o.Marker.Local = p.Add(n.Mul(2))
}

func signOr1(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// resetMarker clears hit and occlusion bookkeeping after a placement.
func (o *Objective) resetMarker() {
	o.Marker.Hits = 0
	o.Marker.Occluded = false
	o.Marker.occludedOn = false
}

// relocateMarker resamples the weak point.
func (g *Game) relocateMarker(o *Objective, reason string) {
	o.behavior.placeMarker(g, o)
	o.resetMarker()
	o.Marker.Relocations++
	g.simLog.Add(g.tick, objectiveLabel(o), o.Kind.String(), "marker", "relocate", reason, float64(o.Marker.Relocations))
}

// markerSightBlocked is the placement-time visibility test. A hit on the
// objective itself only blocks when it lands away from the marker.
func (g *Game) markerSightBlocked(o *Objective, world mgl64.Vec3, skipSelf bool) bool {
	from := g.camera.Pos
	d := world.Sub(from)
	dist := d.Len()
	if dist < 1e-4 {
		return false
	}
	hit, err := g.scene.Raycast(from, d, dist, RayFilter{SkipObjective: skipSelf})
	if err != nil || !hit.Hit {
		return false
	}
	if hit.Kind == KindObjective {
		point := from.Add(d.Normalize().Mul(hit.T))
		return point.Sub(world).Len() > 4
	}
	return hit.T < dist-0.5
}

// updateMarkerOcclusion runs the continuous visibility check. Only large
// occluders count and the objective itself is ignored. A marker hidden for
// longer than the timeout is resampled.
func (g *Game) updateMarkerOcclusion(o *Objective, now time.Time) {
	if !o.behavior.trackOcclusion {
		o.Marker.Occluded = false
		o.Marker.occludedOn = false
		return
	}
	target := o.MarkerWorld()
	d := target.Sub(g.camera.Pos)
	dist := d.Len()
	occluded := false
	if dist > 1e-4 {
		hit, err := g.scene.Raycast(g.camera.Pos, d, dist, RayFilter{SkipObjective: true, MinRadius: 8})
		if err == nil && hit.Hit && hit.T < dist-1.0 {
			occluded = true
		}
	}
	if occluded {
		if !o.Marker.occludedOn {
			o.Marker.occludedOn = true
			o.Marker.occludedSince = now
		} else if now.Sub(o.Marker.occludedSince) > g.cfg.MarkerOccludeTO {
			g.relocateMarker(o, "occluded")
			return
		}
	} else {
		o.Marker.occludedOn = false
	}
	o.Marker.Occluded = occluded
}

// hitMarker registers one weak-point hit: objective hp drops by one, the
// marker relocates after markerRelocateHits and the level passes at zero hp.
func (g *Game) hitMarker(o *Objective, at mgl64.Vec3) {
	o.HP--
	o.Marker.Hits++
	g.spawnExplosion(at)
	g.simLog.Add(g.tick, objectiveLabel(o), o.Kind.String(), "marker", "hit", fmt.Sprintf("hp=%d hits=%d", o.HP, o.Marker.Hits), float64(o.HP))
	if o.Marker.Hits >= markerRelocateHits {
		g.relocateMarker(o, "hits")
	}
	if o.HP <= 0 {
		g.levelPassed()
	}
}

// fireMissile launches a homing missile from a random point just outside the
// objective's surface. Requests at the population cap are dropped.
func (g *Game) fireMissile(o *Objective) bool {
	if len(g.missiles) >= o.MaxMissiles {
		g.simLog.AddVerbose(g.tick, objectiveLabel(o), o.Kind.String(), "missile", "capped", "", float64(len(g.missiles)))
		return false
	}
	m := g.missilePool.Acquire()
	m.ID = g.nextEntityID()
	m.Pos = o.Pos.Add(randUnit(g.rng).Mul(o.Size/2 + 2))
	m.Prev = m.Pos
	m.Origin = m.Pos
	m.Dir = normalizeOr(g.player.Pos.Sub(m.Pos), localForward)
	m.HP = 1
	g.missiles = append(g.missiles, m)
	g.renderer.Spawn(missileVisual(m))
	g.audio.Play(SoundShoot)
	g.simLog.Add(g.tick, objectiveLabel(o), o.Kind.String(), "missile", "fire", "", float64(len(g.missiles)))
	return true
}

// missileAttack fires on the variant's hard cooldown.
func missileAttack(g *Game, o *Objective, now time.Time) {
	if o.MissileCooldown <= 0 {
		return
	}
	if now.Sub(o.lastMissileAt) >= o.MissileCooldown {
		g.fireMissile(o)
		o.lastMissileAt = now
	}
}

func objectiveLabel(o *Objective) string {
	return fmt.Sprintf("O%d", o.ID)
}

func objectiveVisual(o *Objective) Visual {
	return Visual{
		ID:     o.ID,
		Kind:   KindObjective,
		Pos:    o.Pos,
		Orient: o.Orient,
		Radius: o.HitRadius,
		Length: o.Size,
		Shape:  o.Kind,
		HP:     o.HP,
		MaxHP:  o.MaxHP,
	}
}
