package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/danielpatrickdp/alien-probe/internal/flavour"
	"github.com/danielpatrickdp/alien-probe/internal/logging"
	"github.com/danielpatrickdp/alien-probe/internal/state"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to alien_probe.db")
	last := flag.Int("last", 20, "show N most recent rows")
	outcomes := flag.Bool("outcomes", false, "list recorded puzzle outcomes instead of saved versions")
	rollback := flag.String("rollback", "", "restore saved progress to a version id")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/alien_probe.db [--last N] [--outcomes] [--rollback id] [--json]")
		os.Exit(2)
	}

	store, err := state.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *rollback != "":
		err = runRollback(store, *rollback)
	case *outcomes:
		err = runOutcomeMode(store, *last, *jsonOut)
	default:
		err = runVersionMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region version-mode

type versionRow struct {
	VersionID string         `json:"version_id"`
	ParentID  string         `json:"parent_id,omitempty"`
	Progress  state.Progress `json:"progress"`
	Category  string         `json:"category"`
	Threat    string         `json:"threat"`
	CreatedAt string         `json:"created_at"`
}

func runVersionMode(store *state.Store, last int, jsonOut bool) error {
	versions, err := store.ListVersions(last)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Fprintln(os.Stderr, "no versions found")
		return nil
	}

	// Store returns newest first, reverse for chronological.
	rows := make([]versionRow, len(versions))
	for i, v := range versions {
		rows[len(versions)-1-i] = versionRow{
			VersionID: v.VersionID,
			ParentID:  v.ParentID,
			Progress:  v.Progress,
			Category:  flavour.CategoryFor(v.Progress.Level).String(),
			Threat:    flavour.ThreatBand(v.Progress.Destruction),
			CreatedAt: v.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	t := newTable("Version", "Level", "Destruction", "Zorp", "Xylar", "Category", "Threat", "Time")
	for _, r := range rows {
		t.add(shortID(r.VersionID),
			fmt.Sprintf("%d", r.Progress.Level),
			fmt.Sprintf("%.2f", r.Progress.Destruction),
			fmt.Sprintf("%.2f", r.Progress.ZorpRespect),
			fmt.Sprintf("%.2f", r.Progress.XylarCuriosity),
			r.Category, r.Threat, r.CreatedAt)
	}
	t.print()

	if p, found, err := store.Load(); err == nil && found {
		fmt.Printf("\nActive progress: level %d, destruction %.2f, zorp %.2f (%s), xylar %.2f (%s)\n",
			p.Level, p.Destruction,
			p.ZorpRespect, flavour.ZorpStanding(p.ZorpRespect),
			p.XylarCuriosity, flavour.XylarStanding(p.XylarCuriosity))
	}
	return nil
}

func runRollback(store *state.Store, versionID string) error {
	if err := store.Rollback(versionID); err != nil {
		return err
	}
	p, _, err := store.Load()
	if err != nil {
		return err
	}
	fmt.Printf("Rolled back to %s: level %d, destruction %.2f\n", shortID(versionID), p.Level, p.Destruction)
	return nil
}

// #endregion version-mode

// #region outcome-mode

func runOutcomeMode(store *state.Store, last int, jsonOut bool) error {
	if err := logging.Migrate(store.DB()); err != nil {
		return err
	}
	recs, err := logging.ListOutcomes(store.DB(), last)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stderr, "no outcomes found")
		return nil
	}
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}

	if jsonOut {
		return printJSON(recs)
	}

	t := newTable("ID", "Session", "Level", "Puzzle", "Answer", "Destruction", "Zorp", "Xylar", "Ending")
	for _, r := range recs {
		answer := "wrong"
		if r.Correct {
			answer = "correct"
		}
		t.add(fmt.Sprintf("%d", r.ID), shortID(r.SessionID),
			fmt.Sprintf("%d", r.Level), r.PuzzleID, answer,
			fmt.Sprintf("%.1f→%.1f", r.Before.Destruction, r.After.Destruction),
			fmt.Sprintf("%.1f→%.1f", r.Before.ZorpRespect, r.After.ZorpRespect),
			fmt.Sprintf("%.1f→%.1f", r.Before.XylarCuriosity, r.After.XylarCuriosity),
			r.Ending)
	}
	t.print()
	return nil
}

// #endregion outcome-mode

// #region output

// table pads cells by display width so arrows and wide runes line up.
type table struct {
	header []string
	rows   [][]string
}

func newTable(header ...string) *table {
	return &table{header: header}
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) print() {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range t.rows {
		for i, c := range r {
			if w := runewidth.StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}
	line := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				fmt.Print("  ")
			}
			fmt.Print(runewidth.FillRight(c, widths[i]))
		}
		fmt.Println()
	}
	line(t.header)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	line(sep)
	for _, r := range t.rows {
		line(r)
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
