package render

import (
	"math"

	"github.com/Garsondee/Titanomachy/internal/game"
	"github.com/go-gl/mathgl/mgl64"
)

// viewport converts world points to pixels for one camera and screen size.
type viewport struct {
	cam  game.Camera
	w, h float64
}

func newViewport(cam game.Camera, w, h int) viewport {
	return viewport{cam: cam, w: float64(w), h: float64(h)}
}

// toScreen projects p. ok is false for points behind the camera or beyond
// the far plane.
func (vp viewport) toScreen(p mgl64.Vec3) (x, y float64, ok bool) {
	if vp.cam.Forward().Dot(p.Sub(vp.cam.Pos)) <= vp.cam.Near {
		return 0, 0, false
	}
	ndc, ok := vp.cam.Project(p)
	if !ok || ndc.Z() > 1 {
		return 0, 0, false
	}
	x = (ndc.X() + 1) / 2 * vp.w
	y = (1 - ndc.Y()) / 2 * vp.h
	return x, y, true
}

// pixelRadius is the on-screen radius of a sphere of radius r at p.
func (vp viewport) pixelRadius(p mgl64.Vec3, r float64) float64 {
	depth := vp.cam.Forward().Dot(p.Sub(vp.cam.Pos))
	if depth <= 0 {
		return 0
	}
	focal := vp.h / 2 / math.Tan(vp.cam.FOV/2)
	return r / depth * focal
}

// segment projects a world segment, clipping it to the near plane.
func (vp viewport) segment(a, b mgl64.Vec3) (x0, y0, x1, y1 float64, ok bool) {
	fwd := vp.cam.Forward()
	near := vp.cam.Near * 1.01
	da := fwd.Dot(a.Sub(vp.cam.Pos))
	db := fwd.Dot(b.Sub(vp.cam.Pos))
	if da <= near && db <= near {
		return 0, 0, 0, 0, false
	}
	if da <= near {
		a = a.Add(b.Sub(a).Mul((near - da) / (db - da)))
	} else if db <= near {
		b = b.Add(a.Sub(b).Mul((near - db) / (da - db)))
	}
	x0, y0, okA := vp.toScreenUnclipped(a)
	x1, y1, okB := vp.toScreenUnclipped(b)
	return x0, y0, x1, y1, okA && okB
}

func (vp viewport) toScreenUnclipped(p mgl64.Vec3) (x, y float64, ok bool) {
	ndc, ok := vp.cam.Project(p)
	if !ok {
		return 0, 0, false
	}
	return (ndc.X() + 1) / 2 * vp.w, (1 - ndc.Y()) / 2 * vp.h, true
}
