package game

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"pgregory.net/rapid"
)

func TestPopulateLevel_WaveSizes(t *testing.T) {
	cases := []struct {
		level int
		want  int
	}{
		{1, 12 + 12},           // cube 15/15 scaled by 0.8
		{2, 64 + 48},           // sphere 80/60
		{3, 40 + 32 + 80 + 64}, // pyramid, two waves
		{4, 2*24 + 2*24},       // cube in sphere doubles both
	}
	for _, tc := range cases {
		ts := newSim(t, SimLevel(tc.level))
		if n := len(ts.Game.Enemies()); n != tc.want {
			t.Errorf("level %d: expected %d enemies, got %d", tc.level, tc.want, n)
		}
	}
}

func TestScaledWave_NeverZero(t *testing.T) {
	ts := newQuietSim(t, SimTune(func(c *Config) { c.InitialSpawnScale = 0.01 }))
	if n := ts.Game.scaledWave(15); n != 1 {
		t.Fatalf("scaled wave should floor at 1, got %d", n)
	}
}

func TestSpawnEnemy_ClearOfObjective(t *testing.T) {
	ts := newQuietSim(t)
	g := ts.Game
	o := g.Objective()
	for i := 0; i < 50; i++ {
		e := g.spawnEnemy(true)
		if d := e.Pos.Sub(o.Pos).Len(); d < o.HitRadius+e.HitRadius+objectiveClearance-1e-6 {
			t.Fatalf("enemy %d spawned inside the objective shell: d=%.2f", i, d)
		}
	}
}

func TestSpawnEnemy_OutsideEnclosure(t *testing.T) {
	ts := newQuietSim(t, SimLevel(4))
	g := ts.Game
	enc := g.Objective().Enclosure
	for i := 0; i < 50; i++ {
		e := g.spawnEnemy(true)
		if enc.Contains(e.Pos) {
			t.Fatalf("enemy %d spawned inside the enclosure", i)
		}
	}
}

func TestSpawnEnemy_InFront(t *testing.T) {
	ts := newQuietSim(t)
	g := ts.Game
	// Turn the ship to face +X: front spawns follow the heading.
	q := rotateWorld(mgl64.QuatIdent(), worldUp, -math.Pi/2)
	ts.SetPlayerPose(mgl64.Vec3{}, q)
	for i := 0; i < 30; i++ {
		e := g.spawnEnemy(false)
		if e.Pos.Sub(g.player.Pos).Dot(g.player.Forward()) <= 0 {
			t.Fatalf("front spawn %d landed behind the ship at %v", i, e.Pos)
		}
	}
}

// Only spawnEnemy promises distance from the player. The blocking wave fills
// the corridor toward the objective and the enclosure's initial wave is laid
// out just past its wall, so both place enemies directly and skip
// clearOfObjective.
func TestSpawnEnemy_PlacementProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		level := rapid.IntRange(1, 4).Draw(rt, "level")
		ts, err := NewTestSim(SimSeed(rapid.Int64().Draw(rt, "seed")), SimTune(quietTune), SimNoEnemies(), SimLevel(level))
		if err != nil {
			rt.Fatalf("NewTestSim: %v", err)
		}
		g := ts.Game
		o := g.Objective()

		// Anywhere from inside the objective to well past the spawn band.
		dir := normalizeOr(mgl64.Vec3{
			rapid.Float64Range(-1, 1).Draw(rt, "dx"),
			rapid.Float64Range(-1, 1).Draw(rt, "dy"),
			rapid.Float64Range(-1, 1).Draw(rt, "dz"),
		}, worldRight)
		dist := rapid.Float64Range(0, 1500).Draw(rt, "dist")
		yaw := rapid.Float64Range(-math.Pi, math.Pi).Draw(rt, "yaw")
		pitch := rapid.Float64Range(-1.2, 1.2).Draw(rt, "pitch")
		orient := rotateWorld(rotateWorld(mgl64.QuatIdent(), worldUp, yaw), worldRight, pitch)
		ts.SetPlayerPose(o.Pos.Add(dir.Mul(dist)), orient)
		around := rapid.Bool().Draw(rt, "around")

		for i := 0; i < 40; i++ {
			e := g.spawnEnemy(around)
			if d := e.Pos.Sub(g.player.Pos).Len(); d < g.cfg.SpawnMinDist-1e-6 {
				rt.Fatalf("spawn %d is %.2f from the player, min %.0f", i, d, g.cfg.SpawnMinDist)
			}
			if d := e.Pos.Sub(o.Pos).Len(); d < o.HitRadius+e.HitRadius+objectiveClearance-1e-6 {
				rt.Fatalf("spawn %d inside the objective clearance: d=%.2f", i, d)
			}
			if enc := o.Enclosure; enc != nil {
				if d := e.Pos.Sub(enc.Center).Len(); d < enc.Radius+e.HitRadius+enclosureClearance-1e-6 {
					rt.Fatalf("spawn %d inside the enclosure clearance: d=%.2f", i, d)
				}
			}
			if !finiteVec(e.Pos) || !near(e.Dir.Len(), 1, 1e-9) {
				rt.Fatalf("spawn %d has a bad pose: pos=%v dir=%v", i, e.Pos, e.Dir)
			}
		}
	})
}

func TestSpawnBeyondObjective(t *testing.T) {
	for _, level := range []int{1, 4} {
		ts := newQuietSim(t, SimLevel(level))
		g := ts.Game
		o := g.Objective()
		for _, at := range []mgl64.Vec3{{}, {0, 0, 40}, {0, 300, 0}} {
			ts.SetPlayerPose(o.Pos.Add(at), mgl64.QuatIdent())
			pos := g.spawnBeyondObjective(3)
			if d := pos.Sub(g.player.Pos).Len(); d < g.cfg.SpawnMinDist {
				t.Errorf("level %d, ship at %v: only %.2f from the player", level, at, d)
			}
			if d := pos.Sub(o.Pos).Len(); d < o.HitRadius+3+objectiveClearance {
				t.Errorf("level %d, ship at %v: inside the objective clearance", level, at)
			}
			if enc := o.Enclosure; enc != nil && pos.Sub(enc.Center).Len() < enc.Radius+3+enclosureClearance {
				t.Errorf("level %d, ship at %v: inside the enclosure clearance", level, at)
			}
			if at != (mgl64.Vec3{}) && pos.Sub(o.Pos).Dot(at) > 0 {
				t.Errorf("level %d, ship at %v: fallback is on the ship's side", level, at)
			}
		}
	}
}

func TestRunSpawner_TopUpRespectsCaps(t *testing.T) {
	ts := newQuietSim(t, SimTune(func(c *Config) {
		c.MinEnemiesInView = 4
		c.MaxEnemiesTotal = 3
	}))
	g := ts.Game
	g.runSpawner()
	if n := len(g.Enemies()); n != 3 {
		t.Fatalf("top-up should stop at the total cap, got %d", n)
	}
	g.runSpawner()
	if n := len(g.Enemies()); n != 3 {
		t.Fatalf("no spawns past the cap, got %d", n)
	}
}

func TestRunSpawner_TopUpCount(t *testing.T) {
	ts := newQuietSim(t, SimTune(func(c *Config) { c.MinEnemiesInView = 2 }))
	g := ts.Game
	g.runSpawner()
	// min - visible + 1 with nothing visible.
	if n := len(g.Enemies()); n != 3 {
		t.Fatalf("expected 3 top-up spawns, got %d", n)
	}
}

func TestRunSpawner_PerTickLimitOnEnclosure(t *testing.T) {
	ts := newQuietSim(t, SimLevel(4), SimTune(func(c *Config) { c.MinEnemiesInView = 6 }))
	g := ts.Game
	g.runSpawner()
	if n := len(g.Enemies()); n != g.cfg.MaxSpawnPerTickCIS {
		t.Fatalf("enclosure level spawns at most %d per tick, got %d", g.cfg.MaxSpawnPerTickCIS, n)
	}
}

func TestRunSpawner_IntervalSpawn(t *testing.T) {
	ts := newQuietSim(t, SimTune(func(c *Config) { c.EnemySpawnTicks = 5 }))
	g := ts.Game
	for i := 0; i < 4; i++ {
		g.runSpawner()
	}
	if len(g.Enemies()) != 0 {
		t.Fatal("no interval spawn before the timer fires")
	}
	g.runSpawner()
	if len(g.Enemies()) != 1 {
		t.Fatalf("interval spawn expected on tick 5, got %d enemies", len(g.Enemies()))
	}
}

func TestSpawnPickups_Count(t *testing.T) {
	for lvl := 1; lvl <= maxLevels; lvl++ {
		ts := newQuietSim(t, SimLevel(lvl))
		if n := len(ts.Game.pickups); n != ts.Game.cfg.PickupCount {
			t.Fatalf("level %d: expected %d pickups, got %d", lvl, ts.Game.cfg.PickupCount, n)
		}
	}
}
