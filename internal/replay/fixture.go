package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/alien-probe/internal/ending"
	"github.com/danielpatrickdp/alien-probe/internal/logging"
	"github.com/danielpatrickdp/alien-probe/internal/puzzle"
	"github.com/danielpatrickdp/alien-probe/internal/state"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	StartState      state.Progress          `json:"start_state"`
	Ending          *ending.Config          `json:"ending,omitempty"`
	Puzzles         []puzzle.Definition     `json:"puzzles"`
	Interactions    []FixtureInteraction    `json:"interactions"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
	ExpectedFinal   *state.Progress         `json:"expected_final,omitempty"`
}

// FixtureInteraction mirrors replay.Interaction with JSON tags.
type FixtureInteraction struct {
	TurnID  string `json:"turn_id"`
	Correct bool   `json:"correct"`
}

// FixtureExpectedResult captures the expected action per turn.
type FixtureExpectedResult struct {
	TurnID string `json:"turn_id"`
	Action string `json:"action"`
	Ending string `json:"ending,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// Catalog validates the fixture's puzzles.
func (f *Fixture) Catalog() (*puzzle.Catalog, error) {
	return puzzle.NewCatalog(f.Puzzles)
}

// EndingConfig returns the fixture thresholds, or the defaults when absent.
func (f *Fixture) EndingConfig() ending.Config {
	if f.Ending == nil {
		return ending.DefaultConfig()
	}
	return *f.Ending
}

// ToInteractions converts fixture interactions to domain Interactions.
func (f *Fixture) ToInteractions() []Interaction {
	out := make([]Interaction, len(f.Interactions))
	for i, fi := range f.Interactions {
		out[i] = Interaction{TurnID: fi.TurnID, Correct: fi.Correct}
	}
	return out
}

// Run replays the fixture.
func (f *Fixture) Run() ([]Result, error) {
	cat, err := f.Catalog()
	if err != nil {
		return nil, fmt.Errorf("fixture puzzles: %w", err)
	}
	return Replay(f.StartState, cat, f.ToInteractions(), f.EndingConfig()), nil
}

// #endregion fixture-loader

// #region fixture-export

// FromOutcomes builds a fixture from outcome_log rows in chronological order.
// The start state is the first row's Before; expectations are taken from the
// recorded endings.
func FromOutcomes(description string, puzzles []puzzle.Definition, recs []logging.OutcomeRecord) (Fixture, error) {
	if len(recs) == 0 {
		return Fixture{}, fmt.Errorf("no outcomes to export")
	}
	f := Fixture{
		Description: description,
		StartState:  recs[0].Before,
		Puzzles:     puzzles,
	}
	for i, r := range recs {
		turnID := fmt.Sprintf("t%03d", i+1)
		f.Interactions = append(f.Interactions, FixtureInteraction{TurnID: turnID, Correct: r.Correct})
		exp := FixtureExpectedResult{TurnID: turnID, Action: ActionAdvance}
		if r.Ending != "" && r.Ending != ending.None.String() {
			exp.Action = ActionEnding
			exp.Ending = r.Ending
		}
		f.ExpectedResults = append(f.ExpectedResults, exp)
	}
	final := recs[len(recs)-1].After
	if f.ExpectedResults[len(recs)-1].Action == ActionAdvance {
		final.Level++
	}
	f.ExpectedFinal = &final
	return f, nil
}

// WriteFixture writes f as indented JSON.
func WriteFixture(f Fixture, path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// #endregion fixture-export
