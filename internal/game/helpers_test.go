package game

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// quietTune turns off every source of unsolicited enemies and fire so a test
// controls the whole population.
func quietTune(c *Config) {
	c.MinEnemiesInView = 0
	c.EnemySpawnTicks = 1 << 30
	c.EnemyShootTicks = 1 << 30
	c.EnemySpeed = 0
	c.HitScanAssist = false
}

// newQuietSim builds a harness with no enemies and no spawner activity.
func newQuietSim(t *testing.T, opts ...SimOption) *TestSim {
	t.Helper()
	base := []SimOption{SimSeed(7), SimTune(quietTune), SimNoEnemies()}
	ts, err := NewTestSim(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewTestSim: %v", err)
	}
	return ts
}

// newSim builds a harness with the full opening population.
func newSim(t *testing.T, opts ...SimOption) *TestSim {
	t.Helper()
	ts, err := NewTestSim(append([]SimOption{SimSeed(7)}, opts...)...)
	if err != nil {
		t.Fatalf("NewTestSim: %v", err)
	}
	return ts
}

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	entries := ts.SimLog.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
