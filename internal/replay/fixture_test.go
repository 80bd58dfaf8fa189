package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/alien-probe/internal/ending"
	"github.com/danielpatrickdp/alien-probe/internal/logging"
	"github.com/danielpatrickdp/alien-probe/internal/puzzle"
	"github.com/danielpatrickdp/alien-probe/internal/state"
)

// #region fixture-tests

// checkFixture replays a fixture file and compares each turn's action and
// ending against the expected results.
func checkFixture(t *testing.T, name string) {
	t.Helper()
	f, err := LoadFixture(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	results, err := f.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(results) != len(f.ExpectedResults) {
		t.Fatalf("expected %d results, got %d", len(f.ExpectedResults), len(results))
	}

	for i, expected := range f.ExpectedResults {
		actual := results[i]
		if actual.TurnID != expected.TurnID {
			t.Errorf("turn %d: expected turn_id=%s, got %s", i, expected.TurnID, actual.TurnID)
		}
		if actual.Action != expected.Action {
			t.Errorf("turn %d (%s): expected action=%s, got action=%s (reason: %s)",
				i, expected.TurnID, expected.Action, actual.Action, actual.Reason)
		}
		if expected.Ending != "" && actual.Ending.String() != expected.Ending {
			t.Errorf("turn %d (%s): expected ending=%s, got %s", i, expected.TurnID, expected.Ending, actual.Ending)
		}
	}
	if f.ExpectedFinal != nil {
		if got := Final(f.StartState, results); got != *f.ExpectedFinal {
			t.Errorf("expected final %+v, got %+v", *f.ExpectedFinal, got)
		}
	}
}

// TestFixture_DestructionSession is the loss-path regression baseline: if the
// delta tables or the limit change, this catches drift.
func TestFixture_DestructionSession(t *testing.T) {
	checkFixture(t, "destruction_session.json")
}

// TestFixture_SalvationSession covers the catch-all victory on the last puzzle.
func TestFixture_SalvationSession(t *testing.T) {
	checkFixture(t, "salvation_session.json")
}

// TestLoadFixture_NotFound verifies error on missing file.
func TestLoadFixture_NotFound(t *testing.T) {
	_, err := LoadFixture("testdata/nonexistent.json")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

// TestLoadFixture_Malformed verifies error on invalid JSON.
func TestLoadFixture_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not valid json}"), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	_, err := LoadFixture(path)
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

// TestFromOutcomes_RoundTrip exports recorded outcomes, writes and reloads the
// fixture, and replays it to the same final progress.
func TestFromOutcomes_RoundTrip(t *testing.T) {
	defs := []puzzle.Definition{
		{ID: "a", Solution: "A", DestructionOnCorrect: -10, DestructionOnIncorrect: 20},
		{ID: "b", Solution: "B", DestructionOnCorrect: -10, DestructionOnIncorrect: 20},
		{ID: "c", Solution: "C", DestructionOnCorrect: -10, DestructionOnIncorrect: 20},
	}
	cat, _ := puzzle.NewCatalog(defs)
	start := state.DefaultProgress()
	inter := []Interaction{{"x1", true}, {"x2", false}, {"x3", true}}
	results := Replay(start, cat, inter, ending.DefaultConfig())

	// Rebuild outcome_log rows from the replay.
	var recs []logging.OutcomeRecord
	before := start
	for i, r := range results {
		after := r.Progress
		if r.Action == ActionAdvance {
			after.Level--
		}
		recs = append(recs, logging.OutcomeRecord{
			PuzzleID: r.PuzzleID,
			Level:    r.Level,
			Correct:  inter[i].Correct,
			Before:   before,
			After:    after,
			Ending:   r.Ending.String(),
		})
		before = r.Progress
	}

	f, err := FromOutcomes("round trip", defs, recs)
	if err != nil {
		t.Fatalf("FromOutcomes: %v", err)
	}
	path := filepath.Join(t.TempDir(), "export.json")
	if err := WriteFixture(f, path); err != nil {
		t.Fatalf("WriteFixture: %v", err)
	}
	loaded, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	got, err := loaded.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if Final(loaded.StartState, got) != *loaded.ExpectedFinal {
		t.Fatalf("expected final %+v, got %+v", *loaded.ExpectedFinal, Final(loaded.StartState, got))
	}
	last := loaded.ExpectedResults[len(loaded.ExpectedResults)-1]
	if last.Action != ActionEnding || last.Ending != "salvation" {
		t.Fatalf("expected salvation ending, got %+v", last)
	}
}

func TestFromOutcomes_Empty(t *testing.T) {
	if _, err := FromOutcomes("empty", nil, nil); err == nil {
		t.Fatal("expected error for no outcomes")
	}
}

// #endregion fixture-tests
