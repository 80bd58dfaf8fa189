package logging

import (
	"time"

	"github.com/danielpatrickdp/alien-probe/internal/state"
)

// #region outcome-record
// OutcomeRecord is a single row in the outcome_log table: one resolved puzzle.
// Before and After are serialized as JSON so a session can be replayed.
type OutcomeRecord struct {
	ID        int64          `json:"id,omitempty"`
	SessionID string         `json:"session_id"`
	PuzzleID  string         `json:"puzzle_id"`
	Level     int            `json:"level"`
	Correct   bool           `json:"correct"`
	Before    state.Progress `json:"before"`
	After     state.Progress `json:"after"`
	Ending    string         `json:"ending"` // ending.Kind name; "none" while playing
	Reason    string         `json:"reason,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// #endregion outcome-record
