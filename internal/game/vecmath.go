package game

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	worldUp      = mgl64.Vec3{0, 1, 0}
	worldRight   = mgl64.Vec3{1, 0, 0}
	localForward = mgl64.Vec3{0, 0, -1}
)

const (
	epsilonLenSq    = 1e-12
	antiparallelDot = -1 + 1e-9
)

// normalizeOr returns v scaled to unit length, or fallback when v is degenerate.
func normalizeOr(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l2 := v.LenSqr()
	if l2 < epsilonLenSq || !finiteVec(v) {
		return fallback
	}
	return v.Mul(1 / math.Sqrt(l2))
}

func finiteVec(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// lerpDir moves unit dir a fraction alpha toward unit desired and
// renormalises. Exactly opposite vectors blend along their shared axis and
// would never turn, so dir is first tipped sideways. A degenerate blend keeps
// the desired direction.
func lerpDir(dir, desired mgl64.Vec3, alpha float64) mgl64.Vec3 {
	if dir.Dot(desired) < antiparallelDot {
		dir = normalizeOr(dir.Add(perpendicular(dir).Mul(alpha)), dir)
	}
	blended := dir.Add(desired.Sub(dir).Mul(alpha))
	return normalizeOr(blended, desired)
}

// perpendicular returns a unit vector at right angles to v.
func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	if p := v.Cross(worldUp); p.LenSqr() > epsilonLenSq {
		return p.Normalize()
	}
	return normalizeOr(v.Cross(worldRight), worldUp)
}

// randUnit returns a direction from the centred unit cube, normalised.
// This matches how the spawner and missile launcher scatter points.
func randUnit(rng *rand.Rand) mgl64.Vec3 {
	v := mgl64.Vec3{rng.Float64() - 0.5, rng.Float64() - 0.5, rng.Float64() - 0.5}
	return normalizeOr(v, worldUp)
}

// rotateWorld applies a world-space rotation before the existing orientation.
func rotateWorld(q mgl64.Quat, axis mgl64.Vec3, angle float64) mgl64.Quat {
	if angle == 0 {
		return q
	}
	return mgl64.QuatRotate(angle, axis).Mul(q).Normalize()
}

// rotateLocal applies a rotation about one of the object's own axes.
func rotateLocal(q mgl64.Quat, axis mgl64.Vec3, angle float64) mgl64.Quat {
	if angle == 0 {
		return q
	}
	return q.Mul(mgl64.QuatRotate(angle, axis)).Normalize()
}

func forwardOf(q mgl64.Quat) mgl64.Vec3 {
	return normalizeOr(q.Rotate(localForward), localForward)
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func signf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
