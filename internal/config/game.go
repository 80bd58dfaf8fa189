// Package config loads the game document (tuning, dialogue and puzzles) from
// YAML and the process settings from the environment.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/alien-probe/internal/dialogue"
	"github.com/danielpatrickdp/alien-probe/internal/ending"
	"github.com/danielpatrickdp/alien-probe/internal/puzzle"
)

//go:embed default_game.yaml
var defaultGame []byte

// #region document
// Game is the YAML game document.
type Game struct {
	Tuning   Tuning              `yaml:"tuning"`
	Dialogue []dialogue.Line     `yaml:"dialogue"`
	Puzzles  []puzzle.Definition `yaml:"puzzles"`
}

// Tuning holds the adjustable progression constants.
type Tuning struct {
	TransitionDelay time.Duration `yaml:"transition_delay"`
	Ending          ending.Config `yaml:"ending"`
}

// Loaded is a validated game ready to drive a controller.
type Loaded struct {
	Tuning  Tuning
	Catalog *puzzle.Catalog
	Book    *dialogue.Book
}

// #endregion document

// #region load
// Load reads and validates a game document from disk.
func Load(path string) (*Loaded, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	g, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return g, nil
}

// Default returns the built-in game.
func Default() (*Loaded, error) {
	return Parse(defaultGame)
}

// LoadOrDefault loads path, or the built-in game when path is empty.
func LoadOrDefault(path string) (*Loaded, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Parse decodes and validates a game document. Missing tuning values take the
// stock defaults.
func Parse(b []byte) (*Loaded, error) {
	g := Game{Tuning: Tuning{Ending: ending.DefaultConfig()}}
	if err := yaml.Unmarshal(b, &g); err != nil {
		return nil, fmt.Errorf("parse game: %w", err)
	}
	if g.Tuning.TransitionDelay <= 0 {
		g.Tuning.TransitionDelay = 3 * time.Second
	}
	cat, err := puzzle.NewCatalog(g.Puzzles)
	if err != nil {
		return nil, fmt.Errorf("puzzles: %w", err)
	}
	book, err := dialogue.NewBook(g.Dialogue)
	if err != nil {
		return nil, fmt.Errorf("dialogue: %w", err)
	}
	return &Loaded{Tuning: g.Tuning, Catalog: cat, Book: book}, nil
}

// #endregion load

// #region lint
// MissingDialogue lists feedback keys referenced by puzzles that have no line
// in the book, as "puzzle:key".
func (l *Loaded) MissingDialogue() []string {
	var missing []string
	for _, id := range l.Catalog.IDs() {
		def, _, _ := l.Catalog.ByID(id)
		for _, correct := range []bool{true, false} {
			_, miss := l.Book.Sequence(def.Feedback(correct))
			for _, k := range miss {
				missing = append(missing, id+":"+k)
			}
		}
	}
	return missing
}

// #endregion lint
