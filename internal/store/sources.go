package store

import (
	"fmt"
	"strings"
)

// Source is where a user meets new people: a club, work, an app.
type Source struct {
	ID          int64  `json:"id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	FriendCount int    `json:"friend_count"`
	CreatedAt   string `json:"created_at"`
}

// AddSource registers a new source. Names are unique per user.
func (s *Store) AddSource(userID, name, kind string) (int64, error) {
	name = strings.TrimSpace(name)
	if userID == "" || name == "" {
		return 0, fmt.Errorf("%w: user id and name are required", ErrInvalid)
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = "other"
	}

	res, err := s.execHook(s.db,
		`INSERT INTO sources (user_id, name, kind, created_at) VALUES (?, ?, ?, ?)`,
		userID, name, kind, Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: source %q already exists", ErrInvalid, name)
		}
		return 0, fmt.Errorf("store: add source: %w", err)
	}
	return res.LastInsertId()
}

// ListSources returns a user's sources with how many friends came from each.
func (s *Store) ListSources(userID string) ([]Source, error) {
	rows, err := s.queryItHook(s.db,
		`SELECT s.id, s.user_id, s.name, s.kind, s.created_at, COUNT(f.id)
		 FROM sources s
		 LEFT JOIN friends f ON f.source_id = s.id
		 WHERE s.user_id = ?
		 GROUP BY s.id
		 ORDER BY COUNT(f.id) DESC, s.name ASC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.ID, &src.UserID, &src.Name, &src.Kind, &src.CreatedAt, &src.FriendCount); err != nil {
			return nil, fmt.Errorf("store: scan source: %w", err)
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

// DeleteSource removes a source. Friends from it keep their row and lose
// the link.
func (s *Store) DeleteSource(userID string, id int64) error {
	tx, err := s.beginTxHook()
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := s.execHook(tx,
		`UPDATE friends SET source_id = NULL, updated_at = ? WHERE source_id = ? AND user_id = ?`,
		Now(), id, userID,
	); err != nil {
		return fmt.Errorf("store: unlink friends: %w", err)
	}

	res, err := s.execHook(tx, `DELETE FROM sources WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("store: delete source: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: source %d", ErrNotFound, id)
	}

	if err := s.commitHook(tx); err != nil {
		return fmt.Errorf("store: commit transaction: %w", err)
	}
	return nil
}

// sourceExists reports whether a source belongs to the user.
func (s *Store) sourceExists(userID string, id int64) (bool, error) {
	var n int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM sources WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
