package store

import (
	"fmt"
	"strings"
)

// HoursPerWeek is the ceiling for a user's total allocation.
const HoursPerWeek = 168.0

// Allocation is how many hours a week a user sets aside for one category
// of social time.
type Allocation struct {
	Category     string  `json:"category"`
	HoursPerWeek float64 `json:"hours_per_week"`
	UpdatedAt    string  `json:"updated_at"`
}

// SetAllocation upserts the weekly hours of a category. The sum over all
// categories may not exceed HoursPerWeek.
func (s *Store) SetAllocation(userID, category string, hours float64) error {
	category = strings.ToLower(strings.TrimSpace(category))
	if userID == "" || category == "" {
		return fmt.Errorf("%w: user id and category are required", ErrInvalid)
	}
	if hours < 0 || hours > HoursPerWeek {
		return fmt.Errorf("%w: %g hours is outside 0-%g", ErrInvalid, hours, HoursPerWeek)
	}

	tx, err := s.beginTxHook()
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var others float64
	if err := tx.QueryRow(
		`SELECT COALESCE(SUM(hours_per_week), 0) FROM time_allocations WHERE user_id = ? AND category != ?`,
		userID, category,
	).Scan(&others); err != nil {
		return fmt.Errorf("store: sum allocations: %w", err)
	}
	if others+hours > HoursPerWeek {
		return fmt.Errorf("%w: total of %g hours exceeds the %g hours in a week", ErrInvalid, others+hours, HoursPerWeek)
	}

	if _, err := s.execHook(tx,
		`INSERT INTO time_allocations (user_id, category, hours_per_week, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, category) DO UPDATE SET
		     hours_per_week = excluded.hours_per_week,
		     updated_at = excluded.updated_at`,
		userID, category, hours, Now(),
	); err != nil {
		return fmt.Errorf("store: set allocation: %w", err)
	}

	if err := s.commitHook(tx); err != nil {
		return fmt.Errorf("store: commit transaction: %w", err)
	}
	return nil
}

// Allocations returns a user's allocations, largest first.
func (s *Store) Allocations(userID string) ([]Allocation, error) {
	rows, err := s.queryItHook(s.db,
		`SELECT category, hours_per_week, updated_at FROM time_allocations
		 WHERE user_id = ? ORDER BY hours_per_week DESC, category ASC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list allocations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Allocation
	for rows.Next() {
		var a Allocation
		if err := rows.Scan(&a.Category, &a.HoursPerWeek, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan allocation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
