package replay

import (
	"github.com/danielpatrickdp/alien-probe/internal/ending"
	"github.com/danielpatrickdp/alien-probe/internal/puzzle"
	"github.com/danielpatrickdp/alien-probe/internal/state"
	"github.com/danielpatrickdp/alien-probe/internal/update"
)

// Actions recorded per replayed turn.
const (
	ActionAdvance = "advance"
	ActionEnding  = "ending"
	ActionInvalid = "invalid"
	ActionIgnored = "ignored"
)

// #region types
// Interaction represents a single recorded puzzle answer for replay.
type Interaction struct {
	TurnID  string
	Correct bool
}

// Result captures the outcome of replaying one interaction through the
// outcome pipeline.
type Result struct {
	TurnID   string
	Level    int
	PuzzleID string
	Action   string // "advance" | "ending" | "invalid" | "ignored"
	Reason   string
	Ending   ending.Kind

	Deltas  update.Deltas
	Changes []update.MeterChange

	// Progress after this turn, with the level already advanced for "advance".
	Progress state.Progress
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalTurns int
	Correct    int
	Advances   int
	Endings    int
	Invalid    int
	Ignored    int
	Ending     ending.Kind
	FinalState state.Progress
}

// #endregion types

// #region replay
// Replay runs each interaction through update → ending → advance with no
// transition delay. Turns after an ending are ignored, as the live controller
// ignores them once the game is over.
func Replay(start state.Progress, catalog *puzzle.Catalog, interactions []Interaction, cfg ending.Config) []Result {
	current := start
	over := false
	evaluator := ending.NewEvaluator(cfg)
	results := make([]Result, 0, len(interactions))

	for _, inter := range interactions {
		if over {
			results = append(results, Result{
				TurnID:   inter.TurnID,
				Level:    current.Level,
				Action:   ActionIgnored,
				Reason:   "game over",
				Progress: current,
			})
			continue
		}

		// 1. Look up the puzzle
		def, ok := catalog.At(current.Level)
		if !ok {
			results = append(results, Result{
				TurnID:   inter.TurnID,
				Level:    current.Level,
				Action:   ActionInvalid,
				Reason:   "level outside catalog",
				Progress: current,
			})
			continue
		}

		// 2. Meter math
		upd := update.Apply(current, def, inter.Correct)
		current = upd.NewState

		// 3. End conditions
		decision := evaluator.Evaluate(current, catalog.Len())
		r := Result{
			TurnID:   inter.TurnID,
			Level:    current.Level,
			PuzzleID: def.ID,
			Reason:   decision.Reason,
			Ending:   decision.Kind,
			Deltas:   upd.Deltas,
			Changes:  upd.Changes,
		}
		if decision.Ended() {
			over = true
			r.Action = ActionEnding
		} else {
			// 4. Advance
			current.Level++
			r.Action = ActionAdvance
		}
		r.Progress = current
		results = append(results, r)
	}

	return results
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []Result, interactions []Interaction, finalState state.Progress) Summary {
	s := Summary{
		TotalTurns: len(results),
		FinalState: finalState,
	}
	for _, in := range interactions {
		if in.Correct {
			s.Correct++
		}
	}
	for _, r := range results {
		switch r.Action {
		case ActionAdvance:
			s.Advances++
		case ActionEnding:
			s.Endings++
			s.Ending = r.Ending
		case ActionInvalid:
			s.Invalid++
		case ActionIgnored:
			s.Ignored++
		}
	}
	return s
}

// Final returns the progress after the last result, or start when there are none.
func Final(start state.Progress, results []Result) state.Progress {
	if len(results) == 0 {
		return start
	}
	return results[len(results)-1].Progress
}

// #endregion replay
