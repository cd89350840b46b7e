package game

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	pyramidRadius      = 200
	pyramidHeight      = 300
	pyramidSides       = 4
	pyramidHP          = 200
	pyramidSize        = 600
	pyramidHitRadius   = 180
	pyramidSpinPeriod  = 20 // seconds per revolution
	pyramidMarkerTries = 40
	pyramidFacingMin   = 0.6
)

var pyramidWaves = []spawnWave{
	{initial: 50, blocking: 40},
	{initial: 100, blocking: 80},
}

// pyramidFace is one triangle of the hull in local space.
type pyramidFace struct {
	a, b, c mgl64.Vec3
	normal  mgl64.Vec3
	side    bool
}

func pyramidBehavior() objectiveBehavior {
	return objectiveBehavior{
		setup:          setupPyramid,
		placeMarker:    placePyramidMarker,
		trackOcclusion: true,
		attack:         pyramidAttack,
		hull:           pyramidHull,
		raycast:        pyramidRaycast,
		waves:          pyramidWaves,
	}
}

func setupPyramid(g *Game, o *Objective) {
	o.Radius = pyramidRadius
	o.Height = pyramidHeight
	o.Size = pyramidSize
	o.HP = pyramidHP
	o.HitRadius = pyramidHitRadius
	o.SpinRate = 2 * math.Pi / pyramidSpinPeriod
	o.RandomBeamInterval = g.cfg.RandomBeamInterval
	o.lastRandomBeamAt = g.now

	verts := pyramidVertices(o)
	o.anchors = make([]beamAnchor, 0, len(verts))
	for i, v := range verts {
		if i == 0 {
			o.anchors = append(o.anchors, beamAnchor{pos: v, normal: worldUp, worldAligned: true})
			continue
		}
		o.anchors = append(o.anchors, beamAnchor{pos: v, normal: normalizeOr(v, worldUp)})
	}
	for _, a := range o.anchors {
		g.spawnBeam(o, a, true)
	}
}

// pyramidVertices returns the apex followed by the base corners, local space.
func pyramidVertices(o *Objective) []mgl64.Vec3 {
	verts := make([]mgl64.Vec3, 0, pyramidSides+1)
	verts = append(verts, mgl64.Vec3{0, o.Height / 2, 0})
	for i := 0; i < pyramidSides; i++ {
		a := float64(i) / pyramidSides * 2 * math.Pi
		verts = append(verts, mgl64.Vec3{math.Cos(a) * o.Radius, -o.Height / 2, math.Sin(a) * o.Radius})
	}
	return verts
}

// pyramidFaces builds the side triangles plus the two base triangles with
// outward normals.
func pyramidFaces(o *Objective) []pyramidFace {
	v := pyramidVertices(o)
	apex, base := v[0], v[1:]
	faces := make([]pyramidFace, 0, pyramidSides+2)
	centroid := mgl64.Vec3{}
	for i := range base {
		b, c := base[i], base[(i+1)%len(base)]
		n := normalizeOr(b.Sub(apex).Cross(c.Sub(apex)), worldUp)
		mid := apex.Add(b).Add(c).Mul(1.0 / 3)
		if n.Dot(mid.Sub(centroid)) < 0 {
			n = n.Mul(-1)
		}
		faces = append(faces, pyramidFace{a: apex, b: b, c: c, normal: n, side: true})
	}
	down := mgl64.Vec3{0, -1, 0}
	faces = append(faces,
		pyramidFace{a: base[0], b: base[1], c: base[2], normal: down},
		pyramidFace{a: base[0], b: base[2], c: base[3], normal: down},
	)
	return faces
}

func pyramidHull(o *Objective) []mgl64.Vec3 {
	verts := pyramidVertices(o)
	for i, v := range verts {
		verts[i] = o.toWorld(v)
	}
	return verts
}

func pyramidRaycast(o *Objective, origin, dir mgl64.Vec3, maxT float64) (float64, bool) {
	best, hit := math.Inf(1), false
	for _, f := range pyramidFaces(o) {
		t, ok := RayTriangle(origin, dir, maxT, o.toWorld(f.a), o.toWorld(f.b), o.toWorld(f.c))
		if ok && t < best {
			best, hit = t, true
		}
	}
	return best, hit
}

// samplePoint returns a uniform point on the triangle.
func (f pyramidFace) samplePoint(u, v float64) mgl64.Vec3 {
	if u+v > 1 {
		u, v = 1-u, 1-v
	}
	return f.a.Add(f.b.Sub(f.a).Mul(u)).Add(f.c.Sub(f.a).Mul(v))
}

// placePyramidMarker samples the side faces turned toward the camera and
// keeps the first point that is on screen and unobstructed. When every try
// fails the last sample is used.
func placePyramidMarker(g *Game, o *Objective) {
	var sides []pyramidFace
	for _, f := range pyramidFaces(o) {
		if f.side {
			sides = append(sides, f)
		}
	}
	var last mgl64.Vec3
	found := false
	for try := 0; try < pyramidMarkerTries; try++ {
		f := sides[g.rng.Intn(len(sides))]
		local := f.samplePoint(g.rng.Float64(), g.rng.Float64()).Add(f.normal.Mul(2))
		last = local
		world := o.toWorld(local)
		normal := o.Orient.Rotate(f.normal)
		if normal.Dot(normalizeOr(g.camera.Pos.Sub(world), worldUp)) <= pyramidFacingMin {
			continue
		}
		if !g.camera.OnScreen(world) || g.markerSightBlocked(o, world, false) {
			continue
		}
		found = true
		break
	}
	o.Marker.Local = last
	if !found {
		g.log.Debug("pyramid marker fallback", "local", last)
	}
}

// pyramidAttack adds one persistent beam from a random surface point on
// every interval. The beam population is capped.
func pyramidAttack(g *Game, o *Objective, now time.Time) {
	if o.RandomBeamInterval <= 0 || now.Sub(o.lastRandomBeamAt) < o.RandomBeamInterval {
		return
	}
	o.lastRandomBeamAt = now
	if len(g.beams) >= g.cfg.MaxBeams {
		g.simLog.AddVerbose(g.tick, objectiveLabel(o), o.Kind.String(), "beam", "capped", "", float64(len(g.beams)))
		return
	}
	faces := pyramidFaces(o)
	f := faces[g.rng.Intn(len(faces))]
	a := beamAnchor{pos: f.samplePoint(g.rng.Float64(), g.rng.Float64()), normal: f.normal}
	g.spawnBeam(o, a, true)
	g.audio.Play(SoundShoot)
}

// spawnBeam acquires a beam anchored on the objective.
func (g *Game) spawnBeam(o *Objective, a beamAnchor, persistent bool) *Beam {
	b := g.beamPool.Acquire()
	b.ID = g.nextEntityID()
	b.Range = g.cfg.BeamRange
	b.Radius = g.cfg.BeamRadius
	b.Damage = g.cfg.BeamDamage
	b.Start = g.now
	b.Duration = g.cfg.BeamDuration
	b.Persistent = persistent
	b.WorldAligned = a.worldAligned
	b.LocalPos = a.pos
	b.LocalNormal = a.normal
	anchorBeam(o, b)
	g.beams = append(g.beams, b)
	g.renderer.Spawn(beamVisual(b))
	g.simLog.AddVerbose(g.tick, objectiveLabel(o), o.Kind.String(), "beam", "spawn", "", float64(len(g.beams)))
	return b
}

// anchorBeam recomputes a persistent beam's world origin and direction from
// its local anchor through the objective's current rotation.
func anchorBeam(o *Objective, b *Beam) {
	b.Origin = o.toWorld(b.LocalPos)
	if b.WorldAligned {
		b.Dir = worldUp
		return
	}
	b.Dir = normalizeOr(o.Orient.Rotate(b.LocalNormal), worldUp)
}
