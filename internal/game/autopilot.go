package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	autopilotFireCone  = 0.04 // radians off-axis still worth a shot
	autopilotFireEvery = 6    // ticks between trigger pulls
	autopilotEnemyCone = 0.02
)

// Autopilot is an Input that flies the ship on its own: it turns toward the
// objective's marker, fires when lined up, boosts away from inbound missiles
// and continues after each cleared level. Headless runs and demos use it.
type Autopilot struct {
	// RestartOnDeath presses restart after a game over.
	RestartOnDeath bool
	// ContinueAfterVictory keeps looping the campaign.
	ContinueAfterVictory bool

	g     *Game
	ticks int
}

// Attach binds the autopilot to g and makes it g's input.
func (a *Autopilot) Attach(g *Game) {
	a.g = g
	g.SetInput(a)
}

// Poll implements Input.
func (a *Autopilot) Poll() Controls {
	g := a.g
	if g == nil {
		return Controls{}
	}
	a.ticks++
	switch g.State() {
	case StateGameOver:
		return Controls{Restart: a.RestartOnDeath}
	case StateVictory:
		return Controls{Fire: a.ContinueAfterVictory}
	case StateLevelComplete:
		return Controls{Fire: true}
	}
	if g.Paused() {
		return Controls{}
	}

	p := g.Player()
	target, ok := a.target()
	if !ok {
		return Controls{}
	}
	dir := target.Sub(p.Pos)
	if dir.LenSqr() < epsilonLenSq {
		return Controls{}
	}
	dir = dir.Normalize()
	fwd := p.Forward()

	yawErr, pitchErr := headingError(fwd, dir)
	rate := g.cfg.RotSpeed
	c := Controls{
		YawAxis:   clampf(yawErr/rate, -1, 1),
		PitchAxis: clampf(pitchErr/rate, -1, 1),
		Boost:     g.missileIncoming(),
	}

	aligned := angleBetween(fwd, dir) < autopilotFireCone || a.enemyAhead(fwd)
	if aligned && a.ticks%autopilotFireEvery == 0 {
		c.Fire = true
	}
	return c
}

// target is the marker when the objective has one, else its centre.
func (a *Autopilot) target() (mgl64.Vec3, bool) {
	o := a.g.Objective()
	if o == nil {
		return mgl64.Vec3{}, false
	}
	if o.behavior.placeMarker != nil {
		return o.MarkerWorld(), true
	}
	return o.Pos, true
}

func (a *Autopilot) enemyAhead(fwd mgl64.Vec3) bool {
	p := a.g.Player()
	for _, e := range a.g.Enemies() {
		d := e.Pos.Sub(p.Pos)
		if d.Len() > a.g.cfg.PlayerLaserRange {
			continue
		}
		if angleBetween(fwd, normalizeOr(d, fwd)) < autopilotEnemyCone {
			return true
		}
	}
	return false
}

// headingError splits the turn from fwd to dir into a yaw about world up
// (positive turns right) and a pitch change (positive raises the nose).
func headingError(fwd, dir mgl64.Vec3) (yaw, pitch float64) {
	fh := mgl64.Vec3{fwd.X(), 0, fwd.Z()}
	dh := mgl64.Vec3{dir.X(), 0, dir.Z()}
	if fh.LenSqr() > epsilonLenSq && dh.LenSqr() > epsilonLenSq {
		fh, dh = fh.Normalize(), dh.Normalize()
		yaw = angleBetween(fh, dh)
		right := fh.Cross(worldUp)
		if dh.Dot(right) < 0 {
			yaw = -yaw
		}
	}
	pitch = math.Asin(clampf(dir.Y(), -1, 1)) - math.Asin(clampf(fwd.Y(), -1, 1))
	return yaw, pitch
}

func angleBetween(a, b mgl64.Vec3) float64 {
	return math.Acos(clampf(a.Dot(b), -1, 1))
}
