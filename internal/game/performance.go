package game

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Performance grading thresholds.
const (
	perfMinPlayTicks    = 120
	perfMinThreatTicks  = 30
	perfMinShots        = 10
	perfLowHPFraction   = 0.25
	perfCrowdedEnemies  = 12
	perfKillsPerMinute  = 12.0 // kill rate that earns full aggression
	perfTicksPerMinute  = 60 * 60
	perfLevelClearBonus = 25.0
)

// ---------------------------------------------------------------------------
// PerfTracker: per-run, per-tick accumulator
// ---------------------------------------------------------------------------

// PerfTracker accumulates per-tick performance metrics for one pilot run.
type PerfTracker struct {
	SessionID string

	// Lifecycle.
	TicksPlaying int
	Survived     bool
	Victory      bool

	// Situation time (ticks).
	TicksUnderMissile int
	TicksCrowded      int
	TicksLowHP        int
	TicksBoosting     int

	// Quality metrics.
	TicksThreatBoosting int // boosting while a missile is inbound
	LevelsCleared       int
	LevelsSeen          map[ObjectiveKind]bool

	// Aggregates.
	ShotsFired  int
	EnemyHits   int
	MarkerHits  int
	Kills       int
	DamageTaken int
	MinHP       int
	HPAtEnd     int

	// Internal change detection.
	prevHP    int
	prevState GameState
	started   bool
}

// NewPerfTracker creates a tracker seeded from the first snapshot.
func NewPerfTracker(s Snapshot) *PerfTracker {
	return &PerfTracker{
		SessionID:  s.SessionID,
		MinHP:      s.PlayerHP,
		HPAtEnd:    s.PlayerHP,
		prevHP:     s.PlayerHP,
		prevState:  s.State,
		LevelsSeen: map[ObjectiveKind]bool{s.Objective: true},
		started:    true,
	}
}

// Update accumulates one tick of data.
func (pt *PerfTracker) Update(s Snapshot) {
	if !pt.started {
		*pt = *NewPerfTracker(s)
	}

	// Level transitions count on the edge into a cleared state.
	if s.State != pt.prevState {
		if s.State == StateLevelComplete || s.State == StateVictory {
			pt.LevelsCleared++
		}
		pt.prevState = s.State
	}
	if s.State != StatePlaying {
		pt.prevHP = s.PlayerHP
		return
	}
	pt.TicksPlaying++
	pt.LevelsSeen[s.Objective] = true

	if s.PlayerHP < pt.prevHP {
		pt.DamageTaken += pt.prevHP - s.PlayerHP
	}
	pt.prevHP = s.PlayerHP
	pt.MinHP = min(pt.MinHP, s.PlayerHP)
	pt.HPAtEnd = s.PlayerHP

	if s.Missiles > 0 {
		pt.TicksUnderMissile++
		if s.Boosting {
			pt.TicksThreatBoosting++
		}
	}
	if s.Enemies >= perfCrowdedEnemies {
		pt.TicksCrowded++
	}
	if s.PlayerMaxHP > 0 && float64(s.PlayerHP) < float64(s.PlayerMaxHP)*perfLowHPFraction {
		pt.TicksLowHP++
	}
	if s.Boosting {
		pt.TicksBoosting++
	}

	pt.ShotsFired = s.ShotsFired
	pt.EnemyHits = s.EnemyHits
	pt.MarkerHits = s.MarkerHitsTotal
	pt.Kills = s.Kills
}

// Finalize snapshots end-of-run state.
func (pt *PerfTracker) Finalize(s Snapshot) {
	pt.Update(s)
	pt.Survived = s.State != StateGameOver
	pt.Victory = s.State == StateVictory
	pt.HPAtEnd = s.PlayerHP
}

// ---------------------------------------------------------------------------
// RunGrade: computed performance result
// ---------------------------------------------------------------------------

// RunGrade is the computed performance grade for one run.
type RunGrade struct {
	SessionID string
	Grade     string  // A+, A, B+, B, C+, C, D, F
	Score     float64 // 0-100
	Survived  bool

	// Situation scores (0-100; -1 = not enough data to grade).
	AccuracyScore   float64
	EvasionScore    float64
	AggressionScore float64
	ProgressScore   float64
	ComposureScore  float64

	// Observed traits.
	GoodTraits []string
	BadTraits  []string

	// Key stats.
	AccuracyPct   float64
	KillsPerMin   float64
	LevelsCleared int
	DamageTaken   int
}

// ---------------------------------------------------------------------------
// Grading logic
// ---------------------------------------------------------------------------

// GradeRun computes a grade from accumulated tracker data.
func GradeRun(pt *PerfTracker) RunGrade {
	g := RunGrade{
		SessionID:       pt.SessionID,
		Survived:        pt.Survived,
		LevelsCleared:   pt.LevelsCleared,
		DamageTaken:     pt.DamageTaken,
		AccuracyScore:   -1,
		EvasionScore:    -1,
		AggressionScore: -1,
		ProgressScore:   -1,
		ComposureScore:  -1,
	}
	if pt.TicksPlaying < perfMinPlayTicks {
		g.Score = perfClamp(float64(pt.LevelsCleared) * perfLevelClearBonus)
		g.Grade = PerfLetterGrade(g.Score)
		return g
	}

	minutes := float64(pt.TicksPlaying) / perfTicksPerMinute
	g.KillsPerMin = float64(pt.Kills) / minutes

	if pt.ShotsFired >= perfMinShots {
		hits := pt.EnemyHits + pt.MarkerHits
		g.AccuracyPct = perfFrac(hits, pt.ShotsFired) * 100
		g.AccuracyScore = perfClamp(g.AccuracyPct * 1.5)
	}

	if pt.TicksUnderMissile >= perfMinThreatTicks {
		boostFrac := perfFrac(pt.TicksThreatBoosting, pt.TicksUnderMissile)
		g.EvasionScore = perfClamp(40 + boostFrac*60 - float64(pt.DamageTaken)/minutes)
	}

	g.AggressionScore = perfClamp(g.KillsPerMin / perfKillsPerMinute * 100)

	progress := float64(pt.LevelsCleared) * perfLevelClearBonus
	progress += float64(len(pt.LevelsSeen)-1) * 5
	if pt.Victory {
		progress = 100
	}
	g.ProgressScore = perfClamp(progress)

	if pt.TicksLowHP > 0 || pt.TicksCrowded > 0 {
		pressure := pt.TicksLowHP + pt.TicksCrowded
		g.ComposureScore = perfClamp(100 - perfFrac(pressure, pt.TicksPlaying)*100 + g.KillsPerMin*2)
	}

	// Weighted mean of the scores that have data.
	weights := []struct {
		score, w float64
	}{
		{g.AccuracyScore, 0.2},
		{g.EvasionScore, 0.15},
		{g.AggressionScore, 0.2},
		{g.ProgressScore, 0.35},
		{g.ComposureScore, 0.1},
	}
	var sum, wsum float64
	for _, s := range weights {
		if s.score < 0 {
			continue
		}
		sum += s.score * s.w
		wsum += s.w
	}
	if wsum > 0 {
		g.Score = sum / wsum
	}
	if !pt.Survived {
		g.Score = math.Max(0, g.Score-15)
	}
	g.Score = perfClamp(g.Score)
	g.Grade = PerfLetterGrade(g.Score)
	g.GoodTraits, g.BadTraits = perfDetectTraits(pt, g)
	return g
}

func perfDetectTraits(pt *PerfTracker, g RunGrade) (good, bad []string) {
	if g.AccuracyScore >= 70 {
		good = append(good, "sharpshooter")
	} else if g.AccuracyScore >= 0 && g.AccuracyScore < 25 {
		bad = append(bad, "spray_and_pray")
	}
	if g.EvasionScore >= 70 {
		good = append(good, "evasive")
	} else if g.EvasionScore >= 0 && g.EvasionScore < 35 {
		bad = append(bad, "missile_magnet")
	}
	if g.KillsPerMin >= perfKillsPerMinute {
		good = append(good, "ace")
	}
	if pt.MarkerHits > 0 && pt.Kills == 0 {
		good = append(good, "objective_focused")
	}
	if perfFrac(pt.TicksLowHP, pt.TicksPlaying) > 0.3 {
		bad = append(bad, "flying_on_fumes")
	}
	if pt.TicksBoosting == 0 && pt.TicksUnderMissile >= perfMinThreatTicks {
		bad = append(bad, "never_boosted")
	}
	if pt.Victory {
		good = append(good, "victorious")
	} else if !pt.Survived {
		bad = append(bad, "shot_down")
	}
	return good, bad
}

// ---------------------------------------------------------------------------
// Formatting
// ---------------------------------------------------------------------------

// FormatGrade returns a human-readable performance report.
func FormatGrade(g RunGrade) string {
	var sb strings.Builder
	sb.WriteString("\n=== Pilot Performance Grade ===\n")

	status := "survived"
	if !g.Survived {
		status = "shot down"
	}
	fmt.Fprintf(&sb, "  %-3s  score=%.1f  [%s]  levels=%d  dmg=%d  acc=%.0f%%  kpm=%.1f\n",
		g.Grade, g.Score, status, g.LevelsCleared, g.DamageTaken, g.AccuracyPct, g.KillsPerMin)

	if len(g.GoodTraits) > 0 {
		fmt.Fprintf(&sb, "       Good: %s\n", strings.Join(g.GoodTraits, ", "))
	}
	if len(g.BadTraits) > 0 {
		fmt.Fprintf(&sb, "       Bad:  %s\n", strings.Join(g.BadTraits, ", "))
	}

	var scores []string
	if g.AccuracyScore >= 0 {
		scores = append(scores, fmt.Sprintf("Accuracy=%.0f", g.AccuracyScore))
	}
	if g.EvasionScore >= 0 {
		scores = append(scores, fmt.Sprintf("Evasion=%.0f", g.EvasionScore))
	}
	if g.AggressionScore >= 0 {
		scores = append(scores, fmt.Sprintf("Aggression=%.0f", g.AggressionScore))
	}
	if g.ProgressScore >= 0 {
		scores = append(scores, fmt.Sprintf("Progress=%.0f", g.ProgressScore))
	}
	if g.ComposureScore >= 0 {
		scores = append(scores, fmt.Sprintf("Composure=%.0f", g.ComposureScore))
	}
	if len(scores) > 0 {
		fmt.Fprintf(&sb, "       Scores: %s\n", strings.Join(scores, "  "))
	}
	return sb.String()
}

// FormatGradesSummary returns a compact summary over several runs, e.g. one
// per seed of a headless sweep.
func FormatGradesSummary(grades []RunGrade) string {
	if len(grades) == 0 {
		return "  no runs\n"
	}
	var sb strings.Builder
	goodCount := map[string]int{}
	badCount := map[string]int{}
	scoreSum := 0.0
	survived := 0
	for _, g := range grades {
		scoreSum += g.Score
		if g.Survived {
			survived++
		}
		for _, t := range g.GoodTraits {
			goodCount[t]++
		}
		for _, t := range g.BadTraits {
			badCount[t]++
		}
	}
	avg := scoreSum / float64(len(grades))
	fmt.Fprintf(&sb, "  runs=%d avg_score=%.1f (%s)  survived=%d/%d\n",
		len(grades), avg, PerfLetterGrade(avg), survived, len(grades))
	if len(goodCount) > 0 {
		fmt.Fprintf(&sb, "    Top good: %s\n", perfTopTraits(goodCount, 4))
	}
	if len(badCount) > 0 {
		fmt.Fprintf(&sb, "    Top bad:  %s\n", perfTopTraits(badCount, 4))
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func perfFrac(num, denom int) float64 {
	if denom <= 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

func perfClamp(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// PerfLetterGrade maps a 0-100 score to a letter grade.
func PerfLetterGrade(score float64) string {
	switch {
	case score >= 93:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 78:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 62:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 45:
		return "D"
	default:
		return "F"
	}
}

func perfTopTraits(counts map[string]int, n int) string {
	type kv struct {
		trait string
		count int
	}
	var items []kv
	for k, v := range counts {
		items = append(items, kv{k, v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].count != items[j].count {
			return items[i].count > items[j].count
		}
		return items[i].trait < items[j].trait
	})
	if len(items) > n {
		items = items[:n]
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s(%d)", it.trait, it.count)
	}
	return strings.Join(parts, ", ")
}
