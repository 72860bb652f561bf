package store

import (
	"database/sql"
	"strings"
)

// DB exposes the internal *sql.DB for test helpers in store_test.
// This file only compiles during `go test`.
func (s *Store) DB() *sql.DB {
	return s.db
}

// FailExec makes every Exec whose query contains substr return err.
func (s *Store) FailExec(substr string, err error) {
	s.hooks.exec = func(db execer, query string, args ...any) (sql.Result, error) {
		if strings.Contains(query, substr) {
			return nil, err
		}
		return db.Exec(query, args...)
	}
}

// FailCommit makes every commit roll back and return err.
func (s *Store) FailCommit(err error) {
	s.hooks.commit = func(tx *sql.Tx) error {
		_ = tx.Rollback()
		return err
	}
}

// SanitizeFTS exposes sanitizeFTS for tests.
var SanitizeFTS = sanitizeFTS
