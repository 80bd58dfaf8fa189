package state

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region keys
// Key names for the four persisted scalars.
const (
	KeyCurrentLevel     = "CurrentLevel"
	KeyDestructionMeter = "DestructionMeter"
	KeyZorpRespect      = "ZorpRespect"
	KeyXylarCuriosity   = "XylarCuriosity"
)

// ErrNonFinite marks a NaN or infinite meter value on its way into or out of
// the store.
var ErrNonFinite = errors.New("meter value is not finite")

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// #endregion keys

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS progress_kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS progress_versions (
	version_id      TEXT PRIMARY KEY,
	parent_id       TEXT,
	level           INTEGER NOT NULL,
	destruction     REAL NOT NULL,
	zorp_respect    REAL NOT NULL,
	xylar_curiosity REAL NOT NULL,
	created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS active_version (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	version_id TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store persists progress in SQLite as a key-value table, keeping every save in a
// version history.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region save
// Save writes the four progress keys and appends a version row atomically.
func (s *Store) Save(p Progress) error {
	for _, m := range Meters {
		if !finite(float64(p.Get(m))) {
			return fmt.Errorf("save %s=%v: %w", m, p.Get(m), ErrNonFinite)
		}
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	kv := [][2]string{
		{KeyCurrentLevel, strconv.Itoa(p.Level)},
		{KeyDestructionMeter, formatFloat(p.Destruction)},
		{KeyZorpRespect, formatFloat(p.ZorpRespect)},
		{KeyXylarCuriosity, formatFloat(p.XylarCuriosity)},
	}
	for _, pair := range kv {
		_, err = tx.Exec(
			`INSERT INTO progress_kv (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			pair[0], pair[1],
		)
		if err != nil {
			return fmt.Errorf("put %s: %w", pair[0], err)
		}
	}

	var parent sql.NullString
	err = tx.QueryRow(`SELECT version_id FROM active_version WHERE id = 1`).Scan(&parent)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("get active: %w", err)
	}

	id := uuid.New().String()
	var parentPtr interface{}
	if parent.Valid {
		parentPtr = parent.String
	}
	_, err = tx.Exec(
		`INSERT INTO progress_versions (version_id, parent_id, level, destruction, zorp_respect, xylar_curiosity, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, parentPtr, p.Level, p.Destruction, p.ZorpRespect, p.XylarCuriosity,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_version (id, version_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version_id = excluded.version_id`,
		id,
	)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	return tx.Commit()
}

// #endregion save

// #region load
// Load reads the four progress keys. Missing keys take their default value; found
// reports whether any key was present.
func (s *Store) Load() (Progress, bool, error) {
	rows, err := s.db.Query(`SELECT key, value FROM progress_kv`)
	if err != nil {
		return Progress{}, false, fmt.Errorf("load progress: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string, 4)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return Progress{}, false, fmt.Errorf("scan row: %w", err)
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return Progress{}, false, fmt.Errorf("iterate rows: %w", err)
	}
	return decodeKV(values)
}

func decodeKV(values map[string]string) (Progress, bool, error) {
	p := DefaultProgress()
	found := false
	if v, ok := values[KeyCurrentLevel]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Progress{}, false, fmt.Errorf("parse %s: %w", KeyCurrentLevel, err)
		}
		p.Level = n
		found = true
	}
	floats := []struct {
		key string
		dst *float32
	}{
		{KeyDestructionMeter, &p.Destruction},
		{KeyZorpRespect, &p.ZorpRespect},
		{KeyXylarCuriosity, &p.XylarCuriosity},
	}
	for _, f := range floats {
		v, ok := values[f.key]
		if !ok {
			continue
		}
		n, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return Progress{}, false, fmt.Errorf("parse %s: %w", f.key, err)
		}
		if !finite(n) {
			return Progress{}, false, fmt.Errorf("parse %s=%q: %w", f.key, v, ErrNonFinite)
		}
		*f.dst = float32(n)
		found = true
	}
	return p, found, nil
}

// #endregion load

// #region list-versions
// ListVersions returns the most recent saved snapshots, newest first.
func (s *Store) ListVersions(limit int) ([]VersionRecord, error) {
	rows, err := s.db.Query(
		`SELECT version_id, parent_id, level, destruction, zorp_respect, xylar_curiosity, created_at
		 FROM progress_versions ORDER BY rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var records []VersionRecord
	for rows.Next() {
		var rec VersionRecord
		var parentID sql.NullString
		var createdStr string
		if err := rows.Scan(&rec.VersionID, &parentID, &rec.Progress.Level, &rec.Progress.Destruction,
			&rec.Progress.ZorpRespect, &rec.Progress.XylarCuriosity, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if parentID.Valid {
			rec.ParentID = parentID.String
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-versions

// #region rollback
// Rollback restores the key-value progress to a previous version and makes it active.
func (s *Store) Rollback(versionID string) error {
	var p Progress
	err := s.db.QueryRow(
		`SELECT level, destruction, zorp_respect, xylar_curiosity FROM progress_versions WHERE version_id = ?`,
		versionID,
	).Scan(&p.Level, &p.Destruction, &p.ZorpRespect, &p.XylarCuriosity)
	if err == sql.ErrNoRows {
		return fmt.Errorf("version %s not found", versionID)
	}
	if err != nil {
		return fmt.Errorf("check version: %w", err)
	}
	return s.Save(p)
}

// #endregion rollback

// #region memory-store
// MemoryStore keeps progress in process memory. Used by tests and throwaway sessions.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	saves  int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Save stores the four keys.
func (m *MemoryStore) Save(p Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[KeyCurrentLevel] = strconv.Itoa(p.Level)
	m.values[KeyDestructionMeter] = formatFloat(p.Destruction)
	m.values[KeyZorpRespect] = formatFloat(p.ZorpRespect)
	m.values[KeyXylarCuriosity] = formatFloat(p.XylarCuriosity)
	m.saves++
	return nil
}

// Load returns the stored progress, or defaults when nothing was saved.
func (m *MemoryStore) Load() (Progress, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decodeKV(m.values)
}

// Saves reports how many times Save was called.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// #endregion memory-store

// #region helpers
func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// #endregion helpers
