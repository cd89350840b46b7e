package game

type RunOutcome int

const (
	OutcomeInconclusive RunOutcome = iota
	OutcomeVictory
	OutcomeShotDown
	OutcomeStalled
)

func (o RunOutcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeShotDown:
		return "shot_down"
	case OutcomeStalled:
		return "stalled"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

type RunOutcomeReason struct {
	Outcome       RunOutcome
	Level         int
	Objective     ObjectiveKind
	LevelsCleared int
	Kills         int
	PlayerHP      int
	ObjectiveHP   int
	ObjectiveMax  int
	Description   string
}

// DetermineOutcome classifies a finished or time-boxed run from its final
// snapshot. levelsCleared comes from the caller's tracker; a run that cleared
// nothing and barely scratched the objective counts as stalled.
func DetermineOutcome(s Snapshot, levelsCleared int) RunOutcomeReason {
	r := RunOutcomeReason{
		Level:         s.Level,
		Objective:     s.Objective,
		LevelsCleared: levelsCleared,
		Kills:         s.Kills,
		PlayerHP:      s.PlayerHP,
		ObjectiveHP:   s.ObjectiveHP,
		ObjectiveMax:  s.ObjectiveMaxHP,
	}

	switch s.State {
	case StateVictory:
		r.Outcome = OutcomeVictory
		r.Description = "decisive_victory_all_objectives_destroyed"
		return r
	case StateGameOver:
		r.Outcome = OutcomeShotDown
		if levelsCleared > 0 {
			r.Description = "shot_down_after_progress"
		} else {
			r.Description = "shot_down_on_first_objective"
		}
		return r
	}

	objectiveFrac := 1.0
	if s.ObjectiveMaxHP > 0 {
		objectiveFrac = float64(s.ObjectiveHP) / float64(s.ObjectiveMaxHP)
	}
	if levelsCleared == 0 && objectiveFrac > 0.9 {
		r.Outcome = OutcomeStalled
		r.Description = "stalled_objective_untouched"
		return r
	}

	r.Outcome = OutcomeInconclusive
	switch {
	case s.State == StateLevelComplete:
		r.Description = "inconclusive_between_levels"
	case objectiveFrac < 0.25:
		r.Description = "inconclusive_objective_nearly_destroyed"
	default:
		r.Description = "inconclusive_insufficient_resolution"
	}
	return r
}
