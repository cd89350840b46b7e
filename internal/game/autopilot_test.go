package game

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestHeadingError(t *testing.T) {
	fwd := mgl64.Vec3{0, 0, -1}
	cases := []struct {
		name       string
		dir        mgl64.Vec3
		yaw, pitch float64
	}{
		{"ahead", mgl64.Vec3{0, 0, -1}, 0, 0},
		{"right", mgl64.Vec3{1, 0, 0}, math.Pi / 2, 0},
		{"left", mgl64.Vec3{-1, 0, 0}, -math.Pi / 2, 0},
		{"up", mgl64.Vec3{0, 1, 0}, 0, math.Pi / 2},
		{"down ahead", mgl64.Vec3{0, -1, -1}.Normalize(), 0, -math.Pi / 4},
	}
	for _, tc := range cases {
		yaw, pitch := headingError(fwd, tc.dir)
		if !near(yaw, tc.yaw, 1e-9) || !near(pitch, tc.pitch, 1e-9) {
			t.Errorf("%s: got yaw=%.3f pitch=%.3f, want %.3f/%.3f", tc.name, yaw, pitch, tc.yaw, tc.pitch)
		}
	}
}

func TestAutopilot_Unattached(t *testing.T) {
	var ap Autopilot
	if c := ap.Poll(); c != (Controls{}) {
		t.Fatalf("an unattached autopilot does nothing, got %+v", c)
	}
}

func TestAutopilot_SessionButtons(t *testing.T) {
	ts := newQuietSim(t)
	ap := &Autopilot{RestartOnDeath: true}
	ap.Attach(ts.Game)

	ts.Game.state = StateGameOver
	if c := ap.Poll(); !c.Restart || c.Fire {
		t.Fatalf("game over should press restart only, got %+v", c)
	}
	ts.Game.state = StateLevelComplete
	if c := ap.Poll(); !c.Fire {
		t.Fatal("level complete should press fire to continue")
	}
	ts.Game.state = StateVictory
	if c := ap.Poll(); c.Fire {
		t.Fatal("victory is final unless ContinueAfterVictory is set")
	}
	ap.ContinueAfterVictory = true
	if c := ap.Poll(); !c.Fire {
		t.Fatal("ContinueAfterVictory should press fire on victory")
	}
}

func TestAutopilot_TurnsTowardMarker(t *testing.T) {
	ts := newQuietSim(t)
	g := ts.Game
	ap := &Autopilot{}
	ap.Attach(g)
	// Face along +X; the objective sits down -Z, so the pilot must turn left.
	ts.SetPlayerPose(mgl64.Vec3{}, mgl64.QuatRotate(-math.Pi/2, worldUp))
	c := ap.Poll()
	if c.YawAxis >= 0 {
		t.Fatalf("expected a left turn, got yaw axis %.2f", c.YawAxis)
	}
	if c.YawAxis < -1 || c.PitchAxis < -1 || c.PitchAxis > 1 {
		t.Fatalf("axes must stay in [-1,1], got %+v", c)
	}
}

func TestAutopilot_ScoresMarkerHits(t *testing.T) {
	ts := newQuietSim(t, SimTune(func(c *Config) { c.HitScanAssist = true }))
	ap := &Autopilot{}
	ap.Attach(ts.Game)

	got := ts.RunUntil(func(ts *TestSim) bool {
		s := ts.Snapshot()
		return s.MarkerRelocations > 0 || s.State != StatePlaying
	}, 1500)
	if got < 0 {
		dumpLog(t, ts)
		t.Fatal("autopilot should land enough hits to move the marker")
	}
	s := ts.Snapshot()
	if s.State != StatePlaying {
		t.Fatalf("expected to still be playing, got %s", s.State)
	}
	if s.ObjectiveHP != cubeHP-markerRelocateHits {
		t.Fatalf("expected objective hp %d, got %d", cubeHP-markerRelocateHits, s.ObjectiveHP)
	}
}

func TestAutopilot_ContinuesAfterLevel(t *testing.T) {
	ap := &Autopilot{}
	ts := newQuietSim(t, SimAutopilot(ap))
	g := ts.Game
	o := g.Objective()
	o.HP = 1
	g.hitMarker(o, o.MarkerWorld())
	if g.State() != StateLevelComplete {
		t.Fatalf("expected level complete, got %s", g.State())
	}
	ts.RunTicks(1)
	if g.Level() != 2 || g.Objective().Kind != ObjectiveSphere {
		t.Fatalf("autopilot should continue to the sphere, level=%d", g.Level())
	}
}
