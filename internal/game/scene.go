package game

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrDegenerateRay is returned for rays with no usable direction.
var ErrDegenerateRay = errors.New("scene: degenerate ray")

// RayFilter excludes parts of the scene from a raycast.
type RayFilter struct {
	Enemy         *Enemy // ignore this enemy (the shooter being checked)
	SkipObjective bool
	SkipEnemies   bool
	MinRadius     float64 // ignore occluders smaller than this
}

// RayHit is the nearest surface a ray met.
type RayHit struct {
	Hit  bool
	T    float64
	Kind EntityKind
	ID   int
}

// SceneQuery answers line-of-sight questions. The enclosing sphere of the
// cube-in-sphere level is never an occluder.
type SceneQuery interface {
	Raycast(origin, dir mgl64.Vec3, maxDist float64, f RayFilter) (RayHit, error)
}

// geometryScene raycasts against the simulation's own shapes.
type geometryScene struct {
	g *Game
}

func (s geometryScene) Raycast(origin, dir mgl64.Vec3, maxDist float64, f RayFilter) (RayHit, error) {
	if dir.LenSqr() < epsilonLenSq || !finiteVec(dir) || !finiteVec(origin) {
		return RayHit{}, ErrDegenerateRay
	}
	dir = dir.Normalize()
	best := RayHit{T: math.Inf(1)}
	consider := func(t float64, kind EntityKind, id int) {
		if t < best.T {
			best = RayHit{Hit: true, T: t, Kind: kind, ID: id}
		}
	}
	if o := s.g.objective; o != nil && !f.SkipObjective {
		if t, ok := o.raycast(origin, dir, maxDist); ok {
			consider(t, KindObjective, o.ID)
		}
	}
	if !f.SkipEnemies {
		for _, e := range s.g.enemies {
			if !e.alive || e == f.Enemy || e.HitRadius < f.MinRadius {
				continue
			}
			if t, ok := RaySphere(origin, dir, maxDist, e.Pos, e.HitRadius); ok {
				consider(t, KindEnemy, e.ID)
			}
		}
	}
	for _, a := range s.g.asteroids {
		if a.Radius < f.MinRadius {
			continue
		}
		if t, ok := RaySphere(origin, dir, maxDist, a.Pos, a.Radius); ok {
			consider(t, KindAsteroid, a.ID)
		}
	}
	if !best.Hit {
		return RayHit{}, nil
	}
	return best, nil
}

// occluded reports whether anything blocks the straight line from -> to.
// Query failures count as a clear line.
func (g *Game) occluded(from, to mgl64.Vec3, f RayFilter) bool {
	d := to.Sub(from)
	dist := d.Len()
	if dist < 1e-6 {
		return false
	}
	hit, err := g.scene.Raycast(from, d, dist, f)
	if err != nil {
		g.log.Debug("raycast failed", "err", err)
		return false
	}
	return hit.Hit
}
