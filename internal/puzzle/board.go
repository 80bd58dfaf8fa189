package puzzle

import (
	"errors"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

var (
	ErrTileRange  = errors.New("tile index out of range")
	ErrTileUsed   = errors.New("tile already placed")
	ErrBoardFull  = errors.New("all answer slots are filled")
	ErrIncomplete = errors.New("answer slots are not all filled")
)

// Board tracks one attempt at a puzzle: letter tiles from the bank, and answer
// slots sized to the solution that are filled left to right.
type Board struct {
	def   Definition
	tiles []rune
	used  mapset.Set[int]
	slots []int // tile index per filled slot
	size  int
}

// NewBoard lays out tiles and slots for def.
func NewBoard(def Definition) *Board {
	return &Board{
		def:   def,
		tiles: []rune(def.LetterBank),
		used:  mapset.New[int](),
		size:  len([]rune(strings.TrimSpace(def.Solution))),
	}
}

// Tiles returns the bank letters in display order.
func (b *Board) Tiles() []rune {
	return append([]rune(nil), b.tiles...)
}

// Available reports whether tile i can still be placed.
func (b *Board) Available(i int) bool {
	return i >= 0 && i < len(b.tiles) && !b.used.Has(i)
}

// Slots returns the number of answer slots.
func (b *Board) Slots() int {
	return b.size
}

// Place puts tile i into the next empty slot and disables the tile.
func (b *Board) Place(i int) error {
	if i < 0 || i >= len(b.tiles) {
		return ErrTileRange
	}
	if b.used.Has(i) {
		return ErrTileUsed
	}
	if len(b.slots) >= b.size {
		return ErrBoardFull
	}
	b.used.Put(i)
	b.slots = append(b.slots, i)
	return nil
}

// PlaceLetter places the first available tile showing letter r (case-insensitive).
func (b *Board) PlaceLetter(r rune) error {
	want := strings.ToUpper(string(r))
	for i, t := range b.tiles {
		if b.used.Has(i) {
			continue
		}
		if strings.ToUpper(string(t)) == want {
			return b.Place(i)
		}
	}
	return ErrTileRange
}

// Clear empties every slot and re-enables all tiles.
func (b *Board) Clear() {
	b.used = mapset.New[int]()
	b.slots = b.slots[:0]
}

// Answer returns the letters currently in the slots.
func (b *Board) Answer() string {
	var sb strings.Builder
	for _, i := range b.slots {
		sb.WriteRune(b.tiles[i])
	}
	return sb.String()
}

// Full reports whether every slot holds a letter.
func (b *Board) Full() bool {
	return len(b.slots) == b.size
}

// Submit checks the filled answer against the solution.
func (b *Board) Submit() (bool, error) {
	if !b.Full() {
		return false, ErrIncomplete
	}
	return CheckAnswer(b.def, b.Answer()), nil
}
