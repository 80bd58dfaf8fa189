package logging

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS outcome_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	puzzle_id   TEXT NOT NULL,
	level       INTEGER NOT NULL,
	correct     INTEGER NOT NULL,
	before_json TEXT NOT NULL,
	after_json  TEXT NOT NULL,
	ending      TEXT NOT NULL,
	reason      TEXT,
	created_at  TEXT NOT NULL
);
`

// Migrate creates the outcome_log table if it does not exist.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate outcome_log: %w", err)
	}
	return nil
}

// #endregion schema

// #region log-outcome
// LogOutcome writes a provenance entry to the outcome_log table.
func LogOutcome(db *sql.DB, rec OutcomeRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Ending == "" {
		rec.Ending = "none"
	}
	before, err := json.Marshal(rec.Before)
	if err != nil {
		return fmt.Errorf("marshal before: %w", err)
	}
	after, err := json.Marshal(rec.After)
	if err != nil {
		return fmt.Errorf("marshal after: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO outcome_log (session_id, puzzle_id, level, correct, before_json, after_json, ending, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.PuzzleID,
		rec.Level,
		boolToInt(rec.Correct),
		string(before),
		string(after),
		rec.Ending,
		nullIfEmpty(rec.Reason),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log outcome: %w", err)
	}
	return nil
}

// #endregion log-outcome

// #region list-outcomes
// ListOutcomes returns the most recent outcomes, newest first. A limit of zero
// or less returns every row.
func ListOutcomes(db *sql.DB, limit int) ([]OutcomeRecord, error) {
	q := `SELECT id, session_id, puzzle_id, level, correct, before_json, after_json, ending, reason, created_at
		  FROM outcome_log ORDER BY id DESC`
	var args []interface{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var out []OutcomeRecord
	for rows.Next() {
		var (
			rec               OutcomeRecord
			correct           int
			beforeJS, afterJS string
			reason            sql.NullString
			createdAt         string
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.PuzzleID, &rec.Level, &correct,
			&beforeJS, &afterJS, &rec.Ending, &reason, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		rec.Correct = correct != 0
		rec.Reason = reason.String
		if err := json.Unmarshal([]byte(beforeJS), &rec.Before); err != nil {
			return nil, fmt.Errorf("outcome %d before: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(afterJS), &rec.After); err != nil {
			return nil, fmt.Errorf("outcome %d after: %w", rec.ID, err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SessionOutcomes returns every outcome of one session in the order they were
// recorded. An empty sessionID selects the most recent session.
func SessionOutcomes(db *sql.DB, sessionID string) ([]OutcomeRecord, error) {
	if sessionID == "" {
		err := db.QueryRow(`SELECT session_id FROM outcome_log ORDER BY id DESC LIMIT 1`).Scan(&sessionID)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("latest session: %w", err)
		}
	}
	all, err := ListOutcomes(db, 0)
	if err != nil {
		return nil, err
	}
	var out []OutcomeRecord
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].SessionID == sessionID {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// #endregion list-outcomes

// #region recorder
// DBRecorder stamps outcomes with a session id and writes them to outcome_log.
type DBRecorder struct {
	db        *sql.DB
	sessionID string
}

// NewDBRecorder migrates the outcome_log table and starts a fresh session.
func NewDBRecorder(db *sql.DB) (*DBRecorder, error) {
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &DBRecorder{db: db, sessionID: uuid.New().String()}, nil
}

// SessionID identifies the outcomes written by this recorder.
func (r *DBRecorder) SessionID() string {
	return r.sessionID
}

// RecordOutcome logs rec under the recorder's session.
func (r *DBRecorder) RecordOutcome(rec OutcomeRecord) error {
	if rec.SessionID == "" {
		rec.SessionID = r.sessionID
	}
	return LogOutcome(r.db, rec)
}

// #endregion recorder

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
