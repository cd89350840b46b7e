package render

import (
	"image/color"
	"math"
	"time"

	"github.com/Garsondee/Titanomachy/internal/game"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

const (
	laserTrail  = 6.0 // world units drawn behind a bolt
	minDotPx    = 1.5
	maxCirclePx = 4000
)

var kindColor = map[game.EntityKind]color.RGBA{
	game.KindEnemy:       colornames.Orangered,
	game.KindPlayerLaser: colornames.Lime,
	game.KindEnemyLaser:  colornames.Red,
	game.KindBurstLaser:  colornames.Hotpink,
	game.KindMissile:     colornames.Orange,
	game.KindBeam:        colornames.Gold,
	game.KindObjective:   colornames.Cyan,
	game.KindEnclosure:   colornames.Slateblue,
	game.KindPickup:      colornames.Springgreen,
	game.KindAsteroid:    colornames.Gray,
}

// Draw renders the mirrored scene as wireframes from the last frame's camera.
func (s *Scene) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	vp := newViewport(s.frame.Camera, b.Dx(), b.Dy())
	for _, v := range s.Visuals() {
		s.drawVisual(screen, vp, v)
	}
	now := s.clock.Now()
	for _, e := range s.effects {
		drawExplosion(screen, vp, e, now)
	}
}

func (s *Scene) drawVisual(screen *ebiten.Image, vp viewport, v game.Visual) {
	col, ok := kindColor[v.Kind]
	if !ok {
		return
	}
	switch v.Kind {
	case game.KindObjective:
		drawObjective(screen, vp, v, col)
	case game.KindEnclosure:
		drawSphere(screen, vp, v.Pos, v.Radius, col, 1)
	case game.KindBeam:
		drawSegment(screen, vp, v.Pos, v.Pos.Add(v.Dir.Mul(v.Length)), 3, col)
	case game.KindPlayerLaser, game.KindEnemyLaser, game.KindBurstLaser:
		drawSegment(screen, vp, v.Pos.Sub(v.Dir.Mul(laserTrail)), v.Pos, 2, col)
	case game.KindAsteroid:
		drawSphere(screen, vp, v.Pos, v.Radius, col, 1)
	default:
		drawBlip(screen, vp, v.Pos, math.Max(v.Radius, 1), col)
	}
}

func drawSegment(screen *ebiten.Image, vp viewport, a, b mgl64.Vec3, width float32, col color.Color) {
	x0, y0, x1, y1, ok := vp.segment(a, b)
	if !ok {
		return
	}
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), width, col, false)
}

func drawSphere(screen *ebiten.Image, vp viewport, c mgl64.Vec3, r float64, col color.Color, width float32) {
	x, y, ok := vp.toScreen(c)
	if !ok {
		return
	}
	pr := vp.pixelRadius(c, r)
	if pr < minDotPx || pr > maxCirclePx {
		return
	}
	vector.StrokeCircle(screen, float32(x), float32(y), float32(pr), width, col, true)
}

func drawBlip(screen *ebiten.Image, vp viewport, c mgl64.Vec3, r float64, col color.Color) {
	x, y, ok := vp.toScreen(c)
	if !ok {
		return
	}
	pr := math.Max(vp.pixelRadius(c, r), minDotPx)
	vector.FillCircle(screen, float32(x), float32(y), float32(pr), col, true)
}

func drawExplosion(screen *ebiten.Image, vp viewport, e game.Effect, now time.Time) {
	if e.Life <= 0 {
		return
	}
	t := float64(now.Sub(e.At)) / float64(e.Life)
	if t < 0 || t >= 1 {
		return
	}
	fade := uint8(255 * (1 - t))
	drawSphere(screen, vp, e.Pos, 4+20*t, color.RGBA{R: fade, G: fade / 2, A: fade}, 2)
}

// objectiveEdges returns the wireframe of the objective in world space.
func objectiveEdges(v game.Visual) [][2]mgl64.Vec3 {
	toWorld := func(p mgl64.Vec3) mgl64.Vec3 { return v.Pos.Add(v.Orient.Rotate(p)) }
	var edges [][2]mgl64.Vec3
	switch v.Shape {
	case game.ObjectivePyramid:
		// Base radius and height scale with the size: 600 -> r 200, h 300.
		r, h := v.Length/3, v.Length/2
		apex := toWorld(mgl64.Vec3{0, h / 2, 0})
		base := make([]mgl64.Vec3, 4)
		for i := range base {
			a := float64(i) / 4 * 2 * math.Pi
			base[i] = toWorld(mgl64.Vec3{math.Cos(a) * r, -h / 2, math.Sin(a) * r})
		}
		for i := range base {
			edges = append(edges, [2]mgl64.Vec3{apex, base[i]}, [2]mgl64.Vec3{base[i], base[(i+1)%4]})
		}
	default:
		hs := v.Length / 2
		corner := func(i int) mgl64.Vec3 {
			p := mgl64.Vec3{-hs, -hs, -hs}
			for axis := 0; axis < 3; axis++ {
				if i&(1<<axis) != 0 {
					p[axis] = hs
				}
			}
			return toWorld(p)
		}
		for i := 0; i < 8; i++ {
			for axis := 0; axis < 3; axis++ {
				if j := i | 1<<axis; j != i {
					edges = append(edges, [2]mgl64.Vec3{corner(i), corner(j)})
				}
			}
		}
	}
	return edges
}

func drawObjective(screen *ebiten.Image, vp viewport, v game.Visual, col color.Color) {
	if v.Shape == game.ObjectiveSphere {
		drawSphere(screen, vp, v.Pos, v.Length/2, col, 2)
		return
	}
	for _, e := range objectiveEdges(v) {
		drawSegment(screen, vp, e[0], e[1], 2, col)
	}
}
