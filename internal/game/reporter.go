package game

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-play reports (~10s at 60TPS).
const reportWindowTicks = 600

// SimReport is a compact record of the session at one tick.
type SimReport struct {
	Tick      int
	State     GameState
	Level     int
	Objective ObjectiveKind

	PlayerHP    int
	LaserDamage int
	Boosting    bool
	Kills       int

	ObjectiveHP    int
	ObjectiveMaxHP int
	MarkerHits     int

	Enemies     int
	EnemyLasers int
	Missiles    int
	Beams       int
	Pickups     int
}

// SimReporter collects periodic reports from the simulation and can produce
// summaries over sliding time windows.
type SimReporter struct {
	history     []SimReport
	windowTicks int
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{windowTicks: windowTicks}
}

// Collect records a snapshot. The Game calls it every reportInterval ticks
// when a reporter is attached.
func (r *SimReporter) Collect(s Snapshot) {
	r.history = append(r.history, SimReport{
		Tick:           s.Tick,
		State:          s.State,
		Level:          s.Level,
		Objective:      s.Objective,
		PlayerHP:       s.PlayerHP,
		LaserDamage:    s.LaserDamage,
		Boosting:       s.Boosting,
		Kills:          s.Kills,
		ObjectiveHP:    s.ObjectiveHP,
		ObjectiveMaxHP: s.ObjectiveMaxHP,
		MarkerHits:     s.MarkerHitsTotal,
		Enemies:        s.Enemies,
		EnemyLasers:    s.EnemyLasers,
		Missiles:       s.Missiles,
		Beams:          s.Beams,
		Pickups:        s.Pickups,
	})

	// Prune old history beyond 2x window to prevent unbounded growth.
	maxKeep := r.windowTicks / reportInterval * 2
	if maxKeep < 100 {
		maxKeep = 100
	}
	if len(r.history) > maxKeep {
		r.history = r.history[len(r.history)-maxKeep:]
	}
}

// Latest returns the most recent report, or nil if none collected yet.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	AvgPlayerHP float64
	MinPlayerHP int
	BoostPct    float64

	AvgEnemies, AvgMissiles, AvgEnemyLasers float64
	MaxEnemies, MaxMissiles                 int

	KillsInWindow      int
	MarkerHitsInWindow int
	LevelPct           map[ObjectiveKind]float64
}

// WindowSummary aggregates the reports within the recent window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latestTick := r.history[len(r.history)-1].Tick
	cutoff := latestTick - r.windowTicks
	var window []SimReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}
	if len(window) == 0 {
		return nil
	}

	n := float64(len(window))
	newest, oldest := window[0], window[len(window)-1]
	wr := &WindowReport{
		FromTick:           oldest.Tick,
		ToTick:             newest.Tick,
		SampleCount:        len(window),
		MinPlayerHP:        oldest.PlayerHP,
		KillsInWindow:      max(0, newest.Kills-oldest.Kills),
		MarkerHitsInWindow: max(0, newest.MarkerHits-oldest.MarkerHits),
		LevelPct:           make(map[ObjectiveKind]float64),
	}
	boosting := 0
	for _, rpt := range window {
		wr.AvgPlayerHP += float64(rpt.PlayerHP)
		wr.MinPlayerHP = min(wr.MinPlayerHP, rpt.PlayerHP)
		wr.AvgEnemies += float64(rpt.Enemies)
		wr.AvgMissiles += float64(rpt.Missiles)
		wr.AvgEnemyLasers += float64(rpt.EnemyLasers)
		wr.MaxEnemies = max(wr.MaxEnemies, rpt.Enemies)
		wr.MaxMissiles = max(wr.MaxMissiles, rpt.Missiles)
		wr.LevelPct[rpt.Objective]++
		if rpt.Boosting {
			boosting++
		}
	}
	wr.AvgPlayerHP /= n
	wr.AvgEnemies /= n
	wr.AvgMissiles /= n
	wr.AvgEnemyLasers /= n
	wr.BoostPct = float64(boosting) / n * 100
	for k, c := range wr.LevelPct {
		wr.LevelPct[k] = c / n * 100
	}
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Play Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)

	sb.WriteString("\n--- Levels ---\n")
	for _, k := range []ObjectiveKind{ObjectiveCube, ObjectiveSphere, ObjectivePyramid, ObjectiveCubeInSphere} {
		if pct, ok := wr.LevelPct[k]; ok && pct > 0.5 {
			fmt.Fprintf(&sb, "  %-14s %5.1f%%\n", k, pct)
		}
	}

	sb.WriteString("\n--- Ship ---\n")
	fmt.Fprintf(&sb, "  hp avg=%.1f min=%d  boost=%.0f%%\n", wr.AvgPlayerHP, wr.MinPlayerHP, wr.BoostPct)

	sb.WriteString("\n--- Pressure ---\n")
	fmt.Fprintf(&sb, "  enemies avg=%.1f max=%d  missiles avg=%.1f max=%d  enemy_lasers avg=%.1f (%s)\n",
		wr.AvgEnemies, wr.MaxEnemies, wr.AvgMissiles, wr.MaxMissiles, wr.AvgEnemyLasers,
		pressureLabel(wr.AvgEnemies, wr.AvgMissiles))

	sb.WriteString("\n--- Progress ---\n")
	fmt.Fprintf(&sb, "  kills=%d  marker_hits=%d\n", wr.KillsInWindow, wr.MarkerHitsInWindow)
	return sb.String()
}

func pressureLabel(enemies, missiles float64) string {
	p := enemies/10 + missiles/3
	switch {
	case p > 2:
		return "swarmed"
	case p > 1:
		return "heavy"
	case p > 0.4:
		return "steady"
	default:
		return "quiet"
	}
}

// FormatLatest returns a concise snapshot of the most recent collected report.
func (r *SimReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot T=%d ---\n", rpt.Tick)
	fmt.Fprintf(&sb, "State: %s  level=%d (%s)\n", rpt.State, rpt.Level, rpt.Objective)
	fmt.Fprintf(&sb, "Ship:  hp=%d laser=%d boost=%v kills=%d\n", rpt.PlayerHP, rpt.LaserDamage, rpt.Boosting, rpt.Kills)
	fmt.Fprintf(&sb, "Objective: hp=%d/%d marker_hits=%d\n", rpt.ObjectiveHP, rpt.ObjectiveMaxHP, rpt.MarkerHits)
	fmt.Fprintf(&sb, "Live: enemies=%d enemy_lasers=%d missiles=%d beams=%d pickups=%d\n",
		rpt.Enemies, rpt.EnemyLasers, rpt.Missiles, rpt.Beams, rpt.Pickups)
	return sb.String()
}

// History returns all collected reports.
func (r *SimReporter) History() []SimReport {
	return r.history
}
