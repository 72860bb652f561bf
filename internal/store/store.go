// Package store persists FriendLens data in SQLite.
//
// One database file holds answers, scoring results and the planning data
// a user keeps around their friendships: friends (with FTS5 search), the
// sources new friends come from, events and weekly time allocations.
// Identity is a caller-supplied user id; the store never invents one.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/friendlens/friendlens/internal/archetype"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

var (
	// ErrNotFound is returned when a row does not exist for the user.
	ErrNotFound = errors.New("store: not found")
	// ErrInvalid is returned when input breaks a store constraint.
	ErrInvalid = errors.New("store: invalid input")
)

// timeLayout is how timestamps are written to SQLite.
const timeLayout = "2006-01-02 15:04:05"

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds store configuration.
type Config struct {
	DataDir          string
	MaxHistory       int
	MaxSearchResults int
}

// DefaultConfig returns the default configuration rooted at dataDir.
func DefaultConfig(dataDir string) Config {
	return Config{
		DataDir:          dataDir,
		MaxHistory:       50,
		MaxSearchResults: 20,
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the SQLite-backed persistence layer.
type Store struct {
	db         *sql.DB
	cfg        Config
	hooks      storeHooks
	normalizer *archetype.Normalizer
	logger     *zap.Logger
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type sqlRowScanner struct {
	rows *sql.Rows
}

func (r sqlRowScanner) Next() bool             { return r.rows.Next() }
func (r sqlRowScanner) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r sqlRowScanner) Err() error             { return r.rows.Err() }
func (r sqlRowScanner) Close() error           { return r.rows.Close() }

// storeHooks lets tests inject failures at the database boundary.
type storeHooks struct {
	exec    func(db execer, query string, args ...any) (sql.Result, error)
	queryIt func(db queryer, query string, args ...any) (rowScanner, error)
	beginTx func(db *sql.DB) (*sql.Tx, error)
	commit  func(tx *sql.Tx) error
}

func (s *Store) execHook(db execer, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(db, query, args...)
	}
	return db.Exec(query, args...)
}

func (s *Store) queryItHook(db queryer, query string, args ...any) (rowScanner, error) {
	if s.hooks.queryIt != nil {
		return s.hooks.queryIt(db, query, args...)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRowScanner{rows: rows}, nil
}

func (s *Store) beginTxHook() (*sql.Tx, error) {
	if s.hooks.beginTx != nil {
		return s.hooks.beginTx(s.db)
	}
	return s.db.Begin()
}

func (s *Store) commitHook(tx *sql.Tx) error {
	if s.hooks.commit != nil {
		return s.hooks.commit(tx)
	}
	return tx.Commit()
}

// New creates the data directory if needed, opens friendlens.db with WAL
// mode and runs migrations. A nil logger discards output.
func New(cfg Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 50
	}
	if cfg.MaxSearchResults <= 0 {
		cfg.MaxSearchResults = 20
	}

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "friendlens.db")
	// Connection-scoped pragmas go in the DSN so every pooled connection
	// gets them.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := openDB("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{
		db:         db,
		cfg:        cfg,
		normalizer: archetype.NewNormalizer(logger),
		logger:     logger,
	}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}

	logger.Debug("store opened", zap.String("path", dbPath))
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS responses (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id        TEXT    NOT NULL,
			bundle_version TEXT    NOT NULL,
			payload        TEXT    NOT NULL,
			created_at     TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_responses_user ON responses(user_id, id DESC);

		CREATE TABLE IF NOT EXISTS results (
			seq                 INTEGER PRIMARY KEY AUTOINCREMENT,
			id                  TEXT    NOT NULL UNIQUE,
			user_id             TEXT    NOT NULL,
			bundle_version      TEXT    NOT NULL,
			matched_type_id     TEXT    NOT NULL,
			matched_type_name   TEXT    NOT NULL,
			matched_short_label TEXT    NOT NULL,
			distance            REAL    NOT NULL,
			primary_archetype   TEXT    NOT NULL,
			secondary_archetype TEXT    NOT NULL,
			confidence          REAL    NOT NULL,
			raw_scores          TEXT    NOT NULL,
			normalized_scores   TEXT    NOT NULL,
			distances           TEXT    NOT NULL DEFAULT '[]',
			created_at          TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_results_user ON results(user_id, seq DESC);

		CREATE TABLE IF NOT EXISTS sources (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT    NOT NULL,
			name       TEXT    NOT NULL,
			kind       TEXT    NOT NULL DEFAULT 'other',
			created_at TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_sources_unique ON sources(user_id, name);

		CREATE TABLE IF NOT EXISTS friends (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT    NOT NULL,
			name       TEXT    NOT NULL,
			archetype  TEXT    NOT NULL DEFAULT '',
			closeness  INTEGER NOT NULL DEFAULT 3,
			source_id  INTEGER,
			notes      TEXT    NOT NULL DEFAULT '',
			created_at TEXT    NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT    NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (source_id) REFERENCES sources(id) ON DELETE SET NULL
		);

		CREATE INDEX IF NOT EXISTS idx_friends_user   ON friends(user_id);
		CREATE INDEX IF NOT EXISTS idx_friends_source ON friends(source_id);

		CREATE VIRTUAL TABLE IF NOT EXISTS friends_fts USING fts5(
			name,
			notes,
			archetype,
			content='friends',
			content_rowid='id'
		);

		CREATE TABLE IF NOT EXISTS events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT    NOT NULL,
			title      TEXT    NOT NULL,
			starts_at  TEXT    NOT NULL,
			ends_at    TEXT    NOT NULL,
			friend_id  INTEGER,
			notes      TEXT    NOT NULL DEFAULT '',
			created_at TEXT    NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (friend_id) REFERENCES friends(id) ON DELETE SET NULL
		);

		CREATE INDEX IF NOT EXISTS idx_events_user ON events(user_id, starts_at);

		CREATE TABLE IF NOT EXISTS time_allocations (
			user_id        TEXT NOT NULL,
			category       TEXT NOT NULL,
			hours_per_week REAL NOT NULL,
			updated_at     TEXT NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (user_id, category)
		);
	`
	if _, err := s.execHook(s.db, schema); err != nil {
		return err
	}

	// FTS triggers (idempotent)
	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='trigger' AND name='friends_fts_insert'",
	).Scan(&name)

	if err == sql.ErrNoRows {
		triggers := `
			CREATE TRIGGER friends_fts_insert AFTER INSERT ON friends BEGIN
				INSERT INTO friends_fts(rowid, name, notes, archetype)
				VALUES (new.id, new.name, new.notes, new.archetype);
			END;

			CREATE TRIGGER friends_fts_delete AFTER DELETE ON friends BEGIN
				INSERT INTO friends_fts(friends_fts, rowid, name, notes, archetype)
				VALUES ('delete', old.id, old.name, old.notes, old.archetype);
			END;

			CREATE TRIGGER friends_fts_update AFTER UPDATE ON friends BEGIN
				INSERT INTO friends_fts(friends_fts, rowid, name, notes, archetype)
				VALUES ('delete', old.id, old.name, old.notes, old.archetype);
				INSERT INTO friends_fts(rowid, name, notes, archetype)
				VALUES (new.id, new.name, new.notes, new.archetype);
			END;
		`
		if _, err := s.execHook(s.db, triggers); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	return nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// displayArchetype maps a stored archetype id to its canonical form.
// Empty stays empty: a friend does not need an archetype.
func (s *Store) displayArchetype(raw string) string {
	if raw == "" {
		return ""
	}
	return s.normalizer.ToPrimaryType(raw)
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func ptrInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

// sanitizeFTS wraps each word in quotes for safe FTS5 queries.
// "coffee climbing" → `"coffee" "climbing"`
func sanitizeFTS(query string) string {
	words := strings.Fields(query)
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ReplaceAll(w, `"`, "")
		if w == "" {
			continue
		}
		quoted = append(quoted, `"`+w+`"`)
	}
	return strings.Join(quoted, " ")
}

// isUniqueViolation checks if an error is a SQLite UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// formatTime renders t the way the store writes timestamps.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Now returns the current time formatted for SQLite.
func Now() string {
	return formatTime(time.Now())
}
