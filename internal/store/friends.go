package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Closeness bounds for a friend, from acquaintance to inner circle.
const (
	MinCloseness     = 1
	MaxCloseness     = 5
	DefaultCloseness = 3
)

// Friend is one person in a user's circle.
type Friend struct {
	ID         int64  `json:"id"`
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Archetype  string `json:"archetype,omitempty"`
	Closeness  int    `json:"closeness"`
	SourceID   *int64 `json:"source_id,omitempty"`
	SourceName string `json:"source_name,omitempty"`
	Notes      string `json:"notes,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// AddFriendParams holds the input for AddFriend. Zero Closeness means
// DefaultCloseness.
type AddFriendParams struct {
	UserID    string
	Name      string
	Archetype string
	Closeness int
	SourceID  *int64
	Notes     string
}

// UpdateFriendParams holds the fields to change. Nil pointers keep the
// current value; ClearSource unlinks the source.
type UpdateFriendParams struct {
	Name        *string
	Archetype   *string
	Closeness   *int
	SourceID    *int64
	ClearSource bool
	Notes       *string
}

// AddFriend creates a friend and returns its id.
func (s *Store) AddFriend(p AddFriendParams) (int64, error) {
	name := strings.TrimSpace(p.Name)
	if p.UserID == "" || name == "" {
		return 0, fmt.Errorf("%w: user id and name are required", ErrInvalid)
	}
	closeness := p.Closeness
	if closeness == 0 {
		closeness = DefaultCloseness
	}
	if err := checkCloseness(closeness); err != nil {
		return 0, err
	}
	if err := s.checkSource(p.UserID, p.SourceID); err != nil {
		return 0, err
	}

	now := Now()
	res, err := s.execHook(s.db,
		`INSERT INTO friends (user_id, name, archetype, closeness, source_id, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, name, strings.TrimSpace(p.Archetype), closeness, nullableInt64(p.SourceID),
		strings.TrimSpace(p.Notes), now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("store: add friend: %w", err)
	}
	return res.LastInsertId()
}

// GetFriend returns one friend of a user.
func (s *Store) GetFriend(userID string, id int64) (*Friend, error) {
	friends, err := s.queryFriends(
		`SELECT `+friendColumns+` FROM friends f LEFT JOIN sources s ON s.id = f.source_id
		 WHERE f.id = ? AND f.user_id = ?`, id, userID,
	)
	if err != nil {
		return nil, err
	}
	if len(friends) == 0 {
		return nil, fmt.Errorf("%w: friend %d", ErrNotFound, id)
	}
	return &friends[0], nil
}

// UpdateFriend applies a partial update and returns the new state.
func (s *Store) UpdateFriend(userID string, id int64, p UpdateFriendParams) (*Friend, error) {
	f, err := s.GetFriend(userID, id)
	if err != nil {
		return nil, err
	}

	name, archetypeID, closeness, notes, sourceID := f.Name, f.Archetype, f.Closeness, f.Notes, f.SourceID
	if p.Name != nil {
		name = strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalid)
		}
	}
	if p.Archetype != nil {
		archetypeID = strings.TrimSpace(*p.Archetype)
	}
	if p.Closeness != nil {
		if err := checkCloseness(*p.Closeness); err != nil {
			return nil, err
		}
		closeness = *p.Closeness
	}
	if p.Notes != nil {
		notes = strings.TrimSpace(*p.Notes)
	}
	switch {
	case p.ClearSource:
		sourceID = nil
	case p.SourceID != nil:
		if err := s.checkSource(userID, p.SourceID); err != nil {
			return nil, err
		}
		sourceID = p.SourceID
	}

	if _, err := s.execHook(s.db,
		`UPDATE friends
		 SET name = ?, archetype = ?, closeness = ?, source_id = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		name, archetypeID, closeness, nullableInt64(sourceID), notes, Now(), id, userID,
	); err != nil {
		return nil, fmt.Errorf("store: update friend: %w", err)
	}
	return s.GetFriend(userID, id)
}

// DeleteFriend removes a friend. Events keep their row and lose the link.
func (s *Store) DeleteFriend(userID string, id int64) error {
	res, err := s.execHook(s.db, `DELETE FROM friends WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("store: delete friend: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: friend %d", ErrNotFound, id)
	}
	return nil
}

// ListFriends returns a user's friends, closest first.
func (s *Store) ListFriends(userID string, limit int) ([]Friend, error) {
	query := `SELECT ` + friendColumns + ` FROM friends f LEFT JOIN sources s ON s.id = f.source_id
		WHERE f.user_id = ? ORDER BY f.closeness DESC, f.name ASC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryFriends(query, args...)
}

// SearchFriends runs a full-text search over name, notes and archetype.
// An empty query lists friends instead.
func (s *Store) SearchFriends(userID, query string, limit int) ([]Friend, error) {
	if limit <= 0 || limit > s.cfg.MaxSearchResults {
		limit = s.cfg.MaxSearchResults
	}

	ftsQuery := sanitizeFTS(query)
	if ftsQuery == "" {
		return s.ListFriends(userID, limit)
	}

	return s.queryFriends(
		`SELECT `+friendColumns+`
		 FROM friends_fts fts
		 JOIN friends f ON f.id = fts.rowid
		 LEFT JOIN sources s ON s.id = f.source_id
		 WHERE friends_fts MATCH ? AND f.user_id = ?
		 ORDER BY fts.rank LIMIT ?`,
		ftsQuery, userID, limit,
	)
}

const friendColumns = `f.id, f.user_id, f.name, f.archetype, f.closeness, f.source_id,
	COALESCE(s.name, ''), f.notes, f.created_at, f.updated_at`

func (s *Store) queryFriends(query string, args ...any) ([]Friend, error) {
	rows, err := s.queryItHook(s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query friends: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Friend
	for rows.Next() {
		var (
			f        Friend
			sourceID sql.NullInt64
		)
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.Name, &f.Archetype, &f.Closeness, &sourceID,
			&f.SourceName, &f.Notes, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("store: scan friend: %w", err)
		}
		f.SourceID = ptrInt64(sourceID)
		f.Archetype = s.displayArchetype(f.Archetype)
		out = append(out, f)
	}
	return out, rows.Err()
}

func checkCloseness(c int) error {
	if c < MinCloseness || c > MaxCloseness {
		return fmt.Errorf("%w: closeness %d is outside %d-%d", ErrInvalid, c, MinCloseness, MaxCloseness)
	}
	return nil
}

func (s *Store) checkSource(userID string, id *int64) error {
	if id == nil {
		return nil
	}
	ok, err := s.sourceExists(userID, *id)
	if err != nil {
		return fmt.Errorf("store: check source: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: source %d", ErrNotFound, *id)
	}
	return nil
}

// friendExists reports whether a friend belongs to the user.
func (s *Store) friendExists(userID string, id int64) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM friends WHERE id = ? AND user_id = ?`, id, userID).Scan(&n)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	return n > 0, nil
}
