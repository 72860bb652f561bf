package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Event is a planned meetup, optionally with one friend.
type Event struct {
	ID         int64  `json:"id"`
	UserID     string `json:"user_id"`
	Title      string `json:"title"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at"`
	FriendID   *int64 `json:"friend_id,omitempty"`
	FriendName string `json:"friend_name,omitempty"`
	Notes      string `json:"notes,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// AddEventParams holds the input for AddEvent. A zero EndsAt means the
// event is a point in time.
type AddEventParams struct {
	UserID   string
	Title    string
	StartsAt time.Time
	EndsAt   time.Time
	FriendID *int64
	Notes    string
}

// AddEvent stores an event and returns its id.
func (s *Store) AddEvent(p AddEventParams) (int64, error) {
	title := strings.TrimSpace(p.Title)
	if p.UserID == "" || title == "" {
		return 0, fmt.Errorf("%w: user id and title are required", ErrInvalid)
	}
	if p.StartsAt.IsZero() {
		return 0, fmt.Errorf("%w: start time is required", ErrInvalid)
	}
	ends := p.EndsAt
	if ends.IsZero() {
		ends = p.StartsAt
	}
	if ends.Before(p.StartsAt) {
		return 0, fmt.Errorf("%w: event ends before it starts", ErrInvalid)
	}
	if p.FriendID != nil {
		ok, err := s.friendExists(p.UserID, *p.FriendID)
		if err != nil {
			return 0, fmt.Errorf("store: check friend: %w", err)
		}
		if !ok {
			return 0, fmt.Errorf("%w: friend %d", ErrNotFound, *p.FriendID)
		}
	}

	res, err := s.execHook(s.db,
		`INSERT INTO events (user_id, title, starts_at, ends_at, friend_id, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, title, formatTime(p.StartsAt), formatTime(ends),
		nullableInt64(p.FriendID), strings.TrimSpace(p.Notes), Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("store: add event: %w", err)
	}
	return res.LastInsertId()
}

// ListEvents returns the events that overlap [from, to), earliest first.
// A zero bound leaves that side open.
func (s *Store) ListEvents(userID string, from, to time.Time) ([]Event, error) {
	query := `
		SELECT e.id, e.user_id, e.title, e.starts_at, e.ends_at, e.friend_id,
		       COALESCE(f.name, ''), e.notes, e.created_at
		FROM events e
		LEFT JOIN friends f ON f.id = e.friend_id
		WHERE e.user_id = ?
	`
	args := []any{userID}
	if !from.IsZero() {
		query += " AND e.ends_at >= ?"
		args = append(args, formatTime(from))
	}
	if !to.IsZero() {
		query += " AND e.starts_at < ?"
		args = append(args, formatTime(to))
	}
	query += " ORDER BY e.starts_at ASC, e.id ASC"

	rows, err := s.queryItHook(s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Event
	for rows.Next() {
		var (
			e        Event
			friendID sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.StartsAt, &e.EndsAt, &friendID,
			&e.FriendName, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan event: %w", err)
		}
		e.FriendID = ptrInt64(friendID)
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteEvent removes an event.
func (s *Store) DeleteEvent(userID string, id int64) error {
	res, err := s.execHook(s.db, `DELETE FROM events WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("store: delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: event %d", ErrNotFound, id)
	}
	return nil
}
