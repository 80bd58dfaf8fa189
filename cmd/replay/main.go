package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-runewidth"

	"github.com/danielpatrickdp/alien-probe/internal/config"
	"github.com/danielpatrickdp/alien-probe/internal/ending"
	"github.com/danielpatrickdp/alien-probe/internal/logging"
	"github.com/danielpatrickdp/alien-probe/internal/replay"
	"github.com/danielpatrickdp/alien-probe/internal/state"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to alien_probe.db (DB mode)")
	session := flag.String("session", "", "session id to replay in DB mode (default: latest)")
	gamePath := flag.String("game", "", "game YAML for DB mode (default: built-in game)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/alien_probe.db [--session id] [--game game.yaml]")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runDBMode(*dbPath, *session, *gamePath)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region db-mode

func runDBMode(dbPath, session, gamePath string) int {
	game, err := config.LoadOrDefault(gamePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load game: %v\n", err)
		return 2
	}

	store, err := state.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer store.Close()

	if err := logging.Migrate(store.DB()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate outcome log: %v\n", err)
		return 2
	}
	recs, err := logging.SessionOutcomes(store.DB(), session)
	if err != nil {
		fmt.Fprintf(os.Stderr, "query outcomes: %v\n", err)
		return 2
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stderr, "no outcomes found in outcome_log")
		return 2
	}

	interactions := make([]replay.Interaction, len(recs))
	expected := make([]expectation, len(recs))
	for i, r := range recs {
		interactions[i] = replay.Interaction{TurnID: fmt.Sprintf("#%d", r.ID), Correct: r.Correct}
		expected[i] = expectation{Action: replay.ActionAdvance, Ending: r.Ending}
		if r.Ending != "" && r.Ending != ending.None.String() {
			expected[i].Action = replay.ActionEnding
		}
	}

	fmt.Printf("Session %s: %d outcomes\n\n", recs[0].SessionID, len(recs))
	results := replay.Replay(recs[0].Before, game.Catalog, interactions, game.Tuning.Ending)
	return report(recs[0].Before, results, interactions, expected)
}

// #endregion db-mode

// #region fixture-mode

func runFixtureMode(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}
	results, err := f.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "run fixture: %v\n", err)
		return 2
	}

	expected := make([]expectation, len(f.ExpectedResults))
	for i, e := range f.ExpectedResults {
		expected[i] = expectation{Action: e.Action, Ending: e.Ending}
	}

	if f.Description != "" {
		fmt.Printf("%s\n\n", f.Description)
	}
	code := report(f.StartState, results, f.ToInteractions(), expected)
	if f.ExpectedFinal != nil {
		final := replay.Final(f.StartState, results)
		if final != *f.ExpectedFinal {
			fmt.Printf("Final state mismatch: expected %+v, got %+v\n", *f.ExpectedFinal, final)
			code = 1
		}
	}
	return code
}

// #endregion fixture-mode

// #region output

type expectation struct {
	Action string
	Ending string
}

// report prints the comparison table and summary, returning the exit code.
func report(start state.Progress, results []replay.Result, interactions []replay.Interaction, expected []expectation) int {
	cols := []int{10, 10, 10, 18, 18, 6}
	printRow(cols, "Turn", "Puzzle", "Answer", "Expected", "Replayed", "Match")
	printRow(cols, "----------", "----------", "----------", "------------------", "------------------", "------")

	total := len(results)
	if len(expected) < total {
		total = len(expected)
	}
	matches := 0
	for i := 0; i < total; i++ {
		r := results[i]
		exp := expected[i]
		answer := "wrong"
		if interactions[i].Correct {
			answer = "correct"
		}
		got := describe(r.Action, r.Ending.String())
		want := describe(exp.Action, exp.Ending)
		match := "DIFF"
		if actionsMatch(exp, r) {
			match = "OK"
			matches++
		}
		printRow(cols, r.TurnID, r.PuzzleID, answer, want, got, match)
	}

	summary := replay.Summarize(results, interactions, replay.Final(start, results))
	diverge := total - matches
	fmt.Printf("\nSummary: %d total, %d match, %d diverge\n", total, matches, diverge)
	fmt.Printf("  correct=%d advances=%d endings=%d invalid=%d ignored=%d\n",
		summary.Correct, summary.Advances, summary.Endings, summary.Invalid, summary.Ignored)
	fmt.Printf("  ending=%s final=%+v\n", summary.Ending, summary.FinalState)

	if diverge > 0 || len(expected) != len(results) {
		return 1
	}
	return 0
}

// actionsMatch compares an expectation with a replayed result. Endings must
// also agree on kind when the expectation names one.
func actionsMatch(exp expectation, r replay.Result) bool {
	if exp.Action != r.Action {
		return false
	}
	if r.Action == replay.ActionEnding && exp.Ending != "" {
		return exp.Ending == r.Ending.String()
	}
	return true
}

func describe(action, endingName string) string {
	if action == replay.ActionEnding && endingName != "" {
		return action + ":" + endingName
	}
	return action
}

func printRow(widths []int, cells ...string) {
	for i, c := range cells {
		if i > 0 {
			fmt.Print("| ")
		}
		fmt.Print(runewidth.FillRight(runewidth.Truncate(c, widths[i], "…"), widths[i]+1))
	}
	fmt.Println()
}

// #endregion output
