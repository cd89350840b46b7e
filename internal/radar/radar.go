// Package radar draws a top-down terminal view of a running session.
package radar

import (
	"fmt"
	"math"

	"github.com/Garsondee/Titanomachy/internal/game"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

const defaultRange = 3000.0

var (
	styleBorder    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePlayer    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleEnemy     = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleMissile   = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	stylePickup    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleObjective = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleMarker    = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Radar plots a snapshot on a tcell screen, centred on the player with the
// ship's heading pointing up.
type Radar struct {
	screen tcell.Screen
	// Range is the world distance from the centre to the edge.
	Range float64
}

// New wraps an initialised screen.
func New(screen tcell.Screen) *Radar {
	return &Radar{screen: screen, Range: defaultRange}
}

// Draw renders snap and shows the screen.
func (r *Radar) Draw(snap game.Snapshot) {
	s := r.screen
	s.Clear()
	w, h := s.Size()
	if w < 3 || h < 4 {
		s.Show()
		return
	}
	// Last row is the status line.
	boxH := h - 1
	r.drawBorder(w, boxH)

	fwd, right := headingAxes(snap.PlayerForward)
	plot := func(p mgl64.Vec3, ch rune, st tcell.Style) {
		if x, y, ok := r.cell(snap.PlayerPos, p, fwd, right, w, boxH); ok {
			s.SetContent(x, y, ch, nil, st)
		}
	}

	if snap.ObjectiveMaxHP > 0 {
		plot(snap.ObjectivePos, 'O', styleObjective)
	}
	for _, p := range snap.PickupPos {
		plot(p, '+', stylePickup)
	}
	for _, p := range snap.EnemyPos {
		plot(p, 'e', styleEnemy)
	}
	for _, p := range snap.MissilePos {
		plot(p, 'm', styleMissile)
	}
	if snap.ObjectiveMaxHP > 0 {
		plot(snap.MarkerPos, 'x', styleMarker)
	}
	s.SetContent(w/2, boxH/2, '@', nil, stylePlayer)

	drawString(s, 0, h-1, statusLine(snap), styleStatus)
	s.Show()
}

func (r *Radar) drawBorder(w, h int) {
	s := r.screen
	for x := 0; x < w; x++ {
		s.SetContent(x, 0, '-', nil, styleBorder)
		s.SetContent(x, h-1, '-', nil, styleBorder)
	}
	for y := 1; y < h-1; y++ {
		s.SetContent(0, y, '|', nil, styleBorder)
		s.SetContent(w-1, y, '|', nil, styleBorder)
	}
}

// cell maps a world point into the bordered box. Points outside Range or
// off the box are dropped.
func (r *Radar) cell(origin, p, fwd, right mgl64.Vec3, w, h int) (int, int, bool) {
	d := p.Sub(origin)
	d[1] = 0
	if d.Len() > r.Range {
		return 0, 0, false
	}
	cx, cy := w/2, h/2
	halfW, halfH := float64(w/2-1), float64(h/2-1)
	x := cx + int(math.Round(d.Dot(right)/r.Range*halfW))
	y := cy - int(math.Round(d.Dot(fwd)/r.Range*halfH))
	if x <= 0 || x >= w-1 || y <= 0 || y >= h-1 {
		return 0, 0, false
	}
	return x, y, true
}

// headingAxes flattens the ship's forward onto the horizontal plane. A ship
// pointing straight up or down falls back to looking down -Z.
func headingAxes(forward mgl64.Vec3) (fwd, right mgl64.Vec3) {
	fwd = mgl64.Vec3{forward.X(), 0, forward.Z()}
	if fwd.LenSqr() < 1e-12 {
		fwd = mgl64.Vec3{0, 0, -1}
	}
	fwd = fwd.Normalize()
	return fwd, mgl64.Vec3{-fwd.Z(), 0, fwd.X()}
}

func statusLine(snap game.Snapshot) string {
	line := fmt.Sprintf("L%d %s HP %d/%d K %d E %d M %d", snap.Level, snap.Objective,
		snap.PlayerHP, snap.PlayerMaxHP, snap.Kills, snap.Enemies, snap.Missiles)
	if snap.ObjectiveMaxHP > 0 {
		line += fmt.Sprintf(" OBJ %d/%d", snap.ObjectiveHP, snap.ObjectiveMaxHP)
	}
	if snap.State != game.StatePlaying {
		line += " [" + snap.State.String() + "]"
	}
	return line
}

func drawString(s tcell.Screen, x, y int, str string, st tcell.Style) {
	w, _ := s.Size()
	for _, ch := range str {
		if x >= w {
			return
		}
		s.SetContent(x, y, ch, nil, st)
		x++
	}
}
