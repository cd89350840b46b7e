package game

import "testing"

func TestDetermineOutcome(t *testing.T) {
	cases := []struct {
		name    string
		snap    Snapshot
		cleared int
		want    RunOutcome
		desc    string
	}{
		{"victory", Snapshot{State: StateVictory, Level: 4}, 4, OutcomeVictory, "decisive_victory_all_objectives_destroyed"},
		{"shot down early", Snapshot{State: StateGameOver, Level: 1, ObjectiveHP: 90, ObjectiveMaxHP: 100}, 0, OutcomeShotDown, "shot_down_on_first_objective"},
		{"shot down later", Snapshot{State: StateGameOver, Level: 3}, 2, OutcomeShotDown, "shot_down_after_progress"},
		{"stalled", Snapshot{State: StatePlaying, Level: 1, ObjectiveHP: 95, ObjectiveMaxHP: 100}, 0, OutcomeStalled, "stalled_objective_untouched"},
		{"between levels", Snapshot{State: StateLevelComplete, Level: 1}, 1, OutcomeInconclusive, "inconclusive_between_levels"},
		{"nearly destroyed", Snapshot{State: StatePlaying, Level: 2, ObjectiveHP: 20, ObjectiveMaxHP: 120}, 1, OutcomeInconclusive, "inconclusive_objective_nearly_destroyed"},
		{"unresolved", Snapshot{State: StatePlaying, Level: 1, ObjectiveHP: 50, ObjectiveMaxHP: 100}, 0, OutcomeInconclusive, "inconclusive_insufficient_resolution"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := DetermineOutcome(tc.snap, tc.cleared)
			if r.Outcome != tc.want || r.Description != tc.desc {
				t.Fatalf("got %s/%s, want %s/%s", r.Outcome, r.Description, tc.want, tc.desc)
			}
			if r.LevelsCleared != tc.cleared || r.Level != tc.snap.Level {
				t.Fatalf("reason should carry the run facts: %+v", r)
			}
		})
	}
}

func TestRunOutcome_String(t *testing.T) {
	for o, want := range map[RunOutcome]string{
		OutcomeInconclusive: "inconclusive",
		OutcomeVictory:      "victory",
		OutcomeShotDown:     "shot_down",
		OutcomeStalled:      "stalled",
		RunOutcome(99):      "unknown",
	} {
		if got := o.String(); got != want {
			t.Errorf("%d.String() = %s, want %s", int(o), got, want)
		}
	}
}
