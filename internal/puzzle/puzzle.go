// Package puzzle holds rebus puzzle definitions, the ordered catalog the
// progression controller walks through, and the letter-bank answer board.
package puzzle

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// #region definition
// Definition is one rebus puzzle. It is read-only once it is in a Catalog.
type Definition struct {
	ID                     string   `yaml:"id" json:"id"`
	Solution               string   `yaml:"solution" json:"solution"`
	LetterBank             string   `yaml:"letter_bank" json:"letter_bank"`
	CorrectBanterKey       string   `yaml:"correct_banter_key,omitempty" json:"correct_banter_key,omitempty"`
	IncorrectBanterKey     string   `yaml:"incorrect_banter_key,omitempty" json:"incorrect_banter_key,omitempty"`
	DestructionOnCorrect   float32  `yaml:"destruction_on_correct" json:"destruction_on_correct"`
	DestructionOnIncorrect float32  `yaml:"destruction_on_incorrect" json:"destruction_on_incorrect"`
	CorrectDialogue        []string `yaml:"correct_dialogue,omitempty" json:"correct_dialogue,omitempty"`
	IncorrectDialogue      []string `yaml:"incorrect_dialogue,omitempty" json:"incorrect_dialogue,omitempty"`
}

// Feedback returns the dialogue keys to play for an outcome. The banter key is
// used when no dialogue sequence is configured.
func (d Definition) Feedback(correct bool) []string {
	seq, banter := d.IncorrectDialogue, d.IncorrectBanterKey
	if correct {
		seq, banter = d.CorrectDialogue, d.CorrectBanterKey
	}
	if len(seq) > 0 {
		return append([]string(nil), seq...)
	}
	if banter != "" {
		return []string{banter}
	}
	return nil
}

// #endregion definition

// #region check
// CheckAnswer compares an answer to the solution, ignoring case and surrounding space.
func CheckAnswer(def Definition, answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(def.Solution))
}

// #endregion check

// #region catalog
var (
	ErrEmptyID       = errors.New("puzzle id is empty")
	ErrDuplicateID   = errors.New("duplicate puzzle id")
	ErrEmptySolution = errors.New("puzzle solution is empty")
	ErrBankTooSmall  = errors.New("letter bank cannot spell solution")
	ErrBadDelta      = errors.New("destruction delta is not finite")
)

// Catalog is the ordered, validated puzzle sequence.
type Catalog struct {
	defs []Definition
	byID map[string]int
}

// NewCatalog validates defs and returns a catalog preserving their order.
func NewCatalog(defs []Definition) (*Catalog, error) {
	seen := mapset.New[string]()
	byID := make(map[string]int, len(defs))
	for i, d := range defs {
		if strings.TrimSpace(d.ID) == "" {
			return nil, fmt.Errorf("puzzle %d: %w", i, ErrEmptyID)
		}
		if seen.Has(d.ID) {
			return nil, fmt.Errorf("puzzle %d (%s): %w", i, d.ID, ErrDuplicateID)
		}
		seen.Put(d.ID)
		if strings.TrimSpace(d.Solution) == "" {
			return nil, fmt.Errorf("puzzle %s: %w", d.ID, ErrEmptySolution)
		}
		if d.LetterBank != "" && !canSpell(d.LetterBank, d.Solution) {
			return nil, fmt.Errorf("puzzle %s: %w", d.ID, ErrBankTooSmall)
		}
		for _, v := range []float32{d.DestructionOnCorrect, d.DestructionOnIncorrect} {
			if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("puzzle %s: %w", d.ID, ErrBadDelta)
			}
		}
		byID[d.ID] = i
	}
	return &Catalog{defs: append([]Definition(nil), defs...), byID: byID}, nil
}

// Len returns the number of puzzles.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.defs)
}

// At returns the puzzle at index i, or false when i is out of range.
func (c *Catalog) At(i int) (Definition, bool) {
	if c == nil || i < 0 || i >= len(c.defs) {
		return Definition{}, false
	}
	return c.defs[i], true
}

// ByID looks a puzzle up by identifier and returns its index.
func (c *Catalog) ByID(id string) (Definition, int, bool) {
	if c == nil {
		return Definition{}, -1, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Definition{}, -1, false
	}
	return c.defs[i], i, true
}

// IDs returns puzzle identifiers in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, c.Len())
	for i := range ids {
		ids[i] = c.defs[i].ID
	}
	return ids
}

// canSpell reports whether bank holds a tile for every rune of the trimmed
// solution, ignoring case. Inner spaces need a space tile, since the board
// gives each of them a slot.
func canSpell(bank, solution string) bool {
	counts := make(map[rune]int)
	for _, r := range strings.ToUpper(bank) {
		counts[r]++
	}
	for _, r := range strings.ToUpper(strings.TrimSpace(solution)) {
		if counts[r] == 0 {
			return false
		}
		counts[r]--
	}
	return true
}

// #endregion catalog
