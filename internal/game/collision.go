package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned box in world space.
type AABB struct {
	Min, Max mgl64.Vec3
}

// aabbOfPoints returns the tightest box around pts. An empty slice yields a
// zero box at the origin.
func aabbOfPoints(pts []mgl64.Vec3) AABB {
	if len(pts) == 0 {
		return AABB{}
	}
	box := AABB{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		for i := 0; i < 3; i++ {
			box.Min[i] = math.Min(box.Min[i], p[i])
			box.Max[i] = math.Max(box.Max[i], p[i])
		}
	}
	return box
}

// ClampPoint returns the point of the box closest to p.
func (b AABB) ClampPoint(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		clampf(p[0], b.Min[0], b.Max[0]),
		clampf(p[1], b.Min[1], b.Max[1]),
		clampf(p[2], b.Min[2], b.Max[2]),
	}
}

// PointAABBDistance is the distance from p to the box surface, zero inside.
func PointAABBDistance(p mgl64.Vec3, b AABB) float64 {
	return b.ClampPoint(p).Sub(p).Len()
}

// ClosestPointOnSegment projects p onto segment ab with t clamped to [0,1].
// A zero-length segment degenerates to a.
func ClosestPointOnSegment(a, b, p mgl64.Vec3) (mgl64.Vec3, float64) {
	ab := b.Sub(a)
	l2 := ab.LenSqr()
	if l2 < epsilonLenSq {
		return a, 0
	}
	t := clampf(p.Sub(a).Dot(ab)/l2, 0, 1)
	return a.Add(ab.Mul(t)), t
}

// SegmentPointDistance is the minimum distance from p to segment ab. It is the
// swept test used for every projectile against a point target.
func SegmentPointDistance(a, b, p mgl64.Vec3) float64 {
	c, _ := ClosestPointOnSegment(a, b, p)
	return p.Sub(c).Len()
}

// sweptHit reports whether a target of radius r at p was touched by a body
// moving from prev to next this tick.
func sweptHit(prev, next, p mgl64.Vec3, r float64) bool {
	return SegmentPointDistance(prev, next, p) < r
}

// RayAABB returns the first parameter t in [0,maxT] where origin+dir*t enters
// the box, using the slab method one axis at a time. An origin inside the box
// hits at t=0.
func RayAABB(origin, dir mgl64.Vec3, maxT float64, b AABB) (float64, bool) {
	tMin, tMax := 0.0, maxT
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1.0 / dir[i]
		t1 := (b.Min[i] - origin[i]) * inv
		t2 := (b.Max[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// RayOBB intersects a ray with a box of the given half extent, centred at
// center and rotated by orient.
func RayOBB(origin, dir mgl64.Vec3, maxT float64, center mgl64.Vec3, orient mgl64.Quat, half float64) (float64, bool) {
	inv := orient.Inverse()
	lo := inv.Rotate(origin.Sub(center))
	ld := inv.Rotate(dir)
	box := AABB{Min: mgl64.Vec3{-half, -half, -half}, Max: mgl64.Vec3{half, half, half}}
	return RayAABB(lo, ld, maxT, box)
}

// RaySphere returns the nearest non-negative t where the ray meets the sphere.
// dir must be unit length. An origin inside the sphere hits at t=0.
func RaySphere(origin, dir mgl64.Vec3, maxT float64, center mgl64.Vec3, r float64) (float64, bool) {
	oc := origin.Sub(center)
	c := oc.LenSqr() - r*r
	if c <= 0 {
		return 0, true
	}
	b := oc.Dot(dir)
	if b > 0 {
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 || t > maxT {
		return 0, false
	}
	return t, true
}

// RayTriangle is the Möller-Trumbore intersection, two-sided.
func RayTriangle(origin, dir mgl64.Vec3, maxT float64, v0, v1, v2 mgl64.Vec3) (float64, bool) {
	const eps = 1e-9
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	pv := dir.Cross(e2)
	det := e1.Dot(pv)
	if math.Abs(det) < eps {
		return 0, false
	}
	invDet := 1 / det
	tv := origin.Sub(v0)
	u := tv.Dot(pv) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	qv := tv.Cross(e1)
	v := dir.Dot(qv) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(qv) * invDet
	if t < 0 || t > maxT {
		return 0, false
	}
	return t, true
}
