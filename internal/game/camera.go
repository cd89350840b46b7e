package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is the first-person view riding on the ship. It answers the
// "is this on screen" questions the spawner, enemy fire and marker use.
type Camera struct {
	Pos    mgl64.Vec3
	Orient mgl64.Quat
	FOV    float64 // vertical, radians
	Aspect float64
	Near   float64
	Far    float64

	viewProj mgl64.Mat4
}

func newCamera(cfg Config) Camera {
	c := Camera{
		Orient: mgl64.QuatIdent(),
		FOV:    mgl64.DegToRad(cfg.FOVDegrees),
		Aspect: cfg.Aspect,
		Near:   cfg.NearPlane,
		Far:    cfg.FarPlane,
	}
	c.refresh()
	return c
}

// Follow snaps the camera to the ship: raised by offsetY in world space,
// sharing the ship's orientation.
func (c *Camera) Follow(p *Player, offsetY float64) {
	c.Pos = p.Pos.Add(mgl64.Vec3{0, offsetY, 0})
	c.Orient = p.Orient
	c.refresh()
}

func (c *Camera) refresh() {
	fwd := c.Forward()
	up := normalizeOr(c.Orient.Rotate(worldUp), worldUp)
	view := mgl64.LookAtV(c.Pos, c.Pos.Add(fwd), up)
	proj := mgl64.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
	c.viewProj = proj.Mul4(view)
}

// Forward is the unit view direction.
func (c *Camera) Forward() mgl64.Vec3 { return forwardOf(c.Orient) }

// Right is the unit screen-right direction.
func (c *Camera) Right() mgl64.Vec3 {
	return normalizeOr(c.Orient.Rotate(worldRight), worldRight)
}

// ViewProj exposes the combined matrix for front-ends that draw the scene.
func (c *Camera) ViewProj() mgl64.Mat4 { return c.viewProj }

// Project maps a world point to normalised device coordinates. ok is false
// when the result is not finite (point on the camera plane).
func (c *Camera) Project(p mgl64.Vec3) (mgl64.Vec3, bool) {
	clip := c.viewProj.Mul4x1(p.Vec4(1))
	w := clip[3]
	if w == 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return mgl64.Vec3{}, false
	}
	ndc := mgl64.Vec3{clip[0] / w, clip[1] / w, clip[2] / w}
	if !finiteVec(ndc) {
		return mgl64.Vec3{}, false
	}
	return ndc, true
}

// OnScreen reports whether p lies inside the view volume. Non-finite
// projections count as off screen.
func (c *Camera) OnScreen(p mgl64.Vec3) bool {
	ndc, ok := c.Project(p)
	if !ok {
		return false
	}
	// Points behind the camera flip through w<0 and can land inside [-1,1].
	if c.Forward().Dot(p.Sub(c.Pos)) <= 0 {
		return false
	}
	for _, v := range ndc {
		if v < -1 || v > 1 {
			return false
		}
	}
	return true
}
