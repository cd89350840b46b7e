package game

import (
	"strings"
	"testing"
)

func playing(tick, hp int) Snapshot {
	return Snapshot{Tick: tick, State: StatePlaying, PlayerHP: hp, PlayerMaxHP: 100, Objective: ObjectiveCube}
}

func TestPerfTracker_AccumulatesDamageAndPressure(t *testing.T) {
	pt := NewPerfTracker(playing(0, 100))
	s := playing(1, 90)
	s.Missiles = 1
	s.Boosting = true
	pt.Update(s)
	s = playing(2, 20)
	s.Enemies = perfCrowdedEnemies
	pt.Update(s)
	pt.Update(playing(3, 60)) // heal is not negative damage

	if pt.TicksPlaying != 3 {
		t.Fatalf("expected 3 playing ticks, got %d", pt.TicksPlaying)
	}
	if pt.DamageTaken != 80 {
		t.Fatalf("expected 80 damage, got %d", pt.DamageTaken)
	}
	if pt.MinHP != 20 || pt.HPAtEnd != 60 {
		t.Fatalf("min=%d end=%d", pt.MinHP, pt.HPAtEnd)
	}
	if pt.TicksUnderMissile != 1 || pt.TicksThreatBoosting != 1 || pt.TicksBoosting != 1 {
		t.Fatalf("missile=%d threatBoost=%d boost=%d", pt.TicksUnderMissile, pt.TicksThreatBoosting, pt.TicksBoosting)
	}
	if pt.TicksCrowded != 1 || pt.TicksLowHP != 1 {
		t.Fatalf("crowded=%d lowhp=%d", pt.TicksCrowded, pt.TicksLowHP)
	}
}

func TestPerfTracker_CountsClearedLevelsOnEdge(t *testing.T) {
	pt := NewPerfTracker(playing(0, 100))
	done := playing(1, 100)
	done.State = StateLevelComplete
	pt.Update(done)
	pt.Update(done) // staying in the state does not count again
	next := playing(2, 100)
	next.Objective = ObjectiveSphere
	pt.Update(next)
	won := playing(3, 100)
	won.State = StateVictory
	pt.Finalize(won)

	if pt.LevelsCleared != 2 {
		t.Fatalf("expected 2 cleared levels, got %d", pt.LevelsCleared)
	}
	if len(pt.LevelsSeen) != 2 {
		t.Fatalf("expected 2 levels seen, got %d", len(pt.LevelsSeen))
	}
	if !pt.Survived || !pt.Victory {
		t.Fatal("a victorious run survived")
	}
}

func TestGradeRun_ShortRunScoresProgressOnly(t *testing.T) {
	pt := NewPerfTracker(playing(0, 100))
	pt.LevelsCleared = 2
	g := GradeRun(pt)
	if g.Score != 50 {
		t.Fatalf("short run should score 25 per level, got %.1f", g.Score)
	}
	if g.AccuracyScore != -1 || g.EvasionScore != -1 {
		t.Fatal("short run leaves situation scores ungraded")
	}
}

func sharpRun() *PerfTracker {
	pt := NewPerfTracker(playing(0, 100))
	pt.TicksPlaying = perfTicksPerMinute
	pt.Kills = 12
	pt.ShotsFired = 100
	pt.EnemyHits = 40
	pt.MarkerHits = 10
	pt.LevelsCleared = 2
	pt.LevelsSeen[ObjectiveSphere] = true
	pt.LevelsSeen[ObjectivePyramid] = true
	pt.Survived = true
	return pt
}

func TestGradeRun_Traits(t *testing.T) {
	g := GradeRun(sharpRun())
	if g.AccuracyPct != 50 || g.AccuracyScore != 75 {
		t.Fatalf("accuracy pct=%.1f score=%.1f", g.AccuracyPct, g.AccuracyScore)
	}
	if g.AggressionScore != 100 {
		t.Fatalf("12 kills a minute should earn full aggression, got %.1f", g.AggressionScore)
	}
	if g.ProgressScore != 60 {
		t.Fatalf("progress should be 2*25+2*5, got %.1f", g.ProgressScore)
	}
	for _, want := range []string{"sharpshooter", "ace"} {
		if !strings.Contains(strings.Join(g.GoodTraits, ","), want) {
			t.Errorf("expected trait %q in %v", want, g.GoodTraits)
		}
	}
	if len(g.BadTraits) != 0 {
		t.Fatalf("unexpected bad traits %v", g.BadTraits)
	}
}

func TestGradeRun_ShotDownPenalty(t *testing.T) {
	alive := GradeRun(sharpRun())
	pt := sharpRun()
	pt.Survived = false
	dead := GradeRun(pt)
	if !near(alive.Score-dead.Score, 15, 1e-9) {
		t.Fatalf("shot down should cost 15 points: %.1f vs %.1f", alive.Score, dead.Score)
	}
	if !strings.Contains(strings.Join(dead.BadTraits, ","), "shot_down") {
		t.Fatalf("expected shot_down trait, got %v", dead.BadTraits)
	}
}

func TestGradeRun_MissileMagnet(t *testing.T) {
	pt := sharpRun()
	pt.TicksUnderMissile = 600
	pt.DamageTaken = 60
	g := GradeRun(pt)
	// 40 + 0 - 60 damage/minute clamps to zero.
	if g.EvasionScore != 0 {
		t.Fatalf("expected evasion 0, got %.1f", g.EvasionScore)
	}
	bad := strings.Join(g.BadTraits, ",")
	if !strings.Contains(bad, "missile_magnet") || !strings.Contains(bad, "never_boosted") {
		t.Fatalf("expected missile_magnet and never_boosted, got %v", g.BadTraits)
	}
}

func TestPerfLetterGrade(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{100, "A+"}, {93, "A+"}, {90, "A"}, {80, "B+"}, {72, "B"},
		{65, "C+"}, {56, "C"}, {50, "D"}, {10, "F"},
	}
	for _, tc := range cases {
		if got := PerfLetterGrade(tc.score); got != tc.want {
			t.Errorf("PerfLetterGrade(%.0f) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestFormatGradesSummary(t *testing.T) {
	if got := FormatGradesSummary(nil); !strings.Contains(got, "no runs") {
		t.Fatalf("unexpected empty summary %q", got)
	}
	grades := []RunGrade{
		{Score: 80, Survived: true, GoodTraits: []string{"evasive", "ace"}},
		{Score: 60, Survived: false, GoodTraits: []string{"ace"}, BadTraits: []string{"shot_down"}},
	}
	out := FormatGradesSummary(grades)
	for _, want := range []string{"runs=2 avg_score=70.0 (B)", "survived=1/2", "Top good: ace(2), evasive(1)", "Top bad:  shot_down(1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestFormatGrade(t *testing.T) {
	out := FormatGrade(GradeRun(sharpRun()))
	for _, want := range []string{"Pilot Performance Grade", "[survived]", "Accuracy=75", "Good: sharpshooter"} {
		if !strings.Contains(out, want) {
			t.Errorf("grade missing %q:\n%s", want, out)
		}
	}
}
