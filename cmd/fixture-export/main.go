package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/alien-probe/internal/config"
	"github.com/danielpatrickdp/alien-probe/internal/logging"
	"github.com/danielpatrickdp/alien-probe/internal/puzzle"
	"github.com/danielpatrickdp/alien-probe/internal/replay"
	"github.com/danielpatrickdp/alien-probe/internal/state"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to alien_probe.db")
	session := flag.String("session", "", "session id to export (default: latest)")
	last := flag.Int("last", 0, "export only the N most recent outcomes of the session (0 = all)")
	gamePath := flag.String("game", "", "game YAML the session was played with (default: built-in game)")
	desc := flag.String("desc", "", "fixture description")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --out path/to/fixture.json [--session id] [--last N] [--game game.yaml]")
		os.Exit(2)
	}

	if err := run(*dbPath, *session, *last, *gamePath, *desc, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region extract

func run(dbPath, session string, last int, gamePath, desc, outPath string) error {
	game, err := config.LoadOrDefault(gamePath)
	if err != nil {
		return fmt.Errorf("load game: %w", err)
	}

	store, err := state.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	if err := logging.Migrate(store.DB()); err != nil {
		return fmt.Errorf("migrate outcome log: %w", err)
	}
	recs, err := logging.SessionOutcomes(store.DB(), session)
	if err != nil {
		return fmt.Errorf("query outcomes: %w", err)
	}
	if len(recs) == 0 {
		return fmt.Errorf("no outcomes found")
	}
	if last > 0 && last < len(recs) {
		recs = recs[len(recs)-last:]
	}

	// Endings depend on the catalog length, so the whole catalog is exported.
	for _, r := range recs {
		if _, _, ok := game.Catalog.ByID(r.PuzzleID); !ok {
			return fmt.Errorf("outcome %d references puzzle %q missing from the game", r.ID, r.PuzzleID)
		}
	}
	puzzles := make([]puzzle.Definition, 0, game.Catalog.Len())
	for i := 0; i < game.Catalog.Len(); i++ {
		def, _ := game.Catalog.At(i)
		puzzles = append(puzzles, def)
	}

	if desc == "" {
		desc = fmt.Sprintf("exported from %s session %s", dbPath, recs[0].SessionID)
	}
	f, err := replay.FromOutcomes(desc, puzzles, recs)
	if err != nil {
		return err
	}
	cfg := game.Tuning.Ending
	f.Ending = &cfg
	if err := replay.WriteFixture(f, outPath); err != nil {
		return err
	}

	fmt.Printf("Exported %d outcomes (%d puzzles) to %s\n", len(recs), len(puzzles), outPath)
	for i, e := range f.ExpectedResults {
		fmt.Printf("  %s  %-8s correct=%-5v %s\n", e.TurnID, recs[i].PuzzleID, recs[i].Correct, e.Action)
	}
	return nil
}

// #endregion extract
