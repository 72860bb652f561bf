package store

import "fmt"

// Stats holds aggregate counts across all users.
type Stats struct {
	UsersWithResults int            `json:"users_with_results"`
	Results          int            `json:"results"`
	Friends          int            `json:"friends"`
	Sources          int            `json:"sources"`
	Events           int            `json:"events"`
	Archetypes       map[string]int `json:"archetypes"`
}

// Stats returns aggregate statistics. Archetypes counts the display
// primary archetype of each user's latest result.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{Archetypes: map[string]int{}}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(DISTINCT user_id) FROM results", &stats.UsersWithResults},
		{"SELECT COUNT(*) FROM results", &stats.Results},
		{"SELECT COUNT(*) FROM friends", &stats.Friends},
		{"SELECT COUNT(*) FROM sources", &stats.Sources},
		{"SELECT COUNT(*) FROM events", &stats.Events},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("store: stats: %w", err)
		}
	}

	rows, err := s.queryItHook(s.db,
		`SELECT r.primary_archetype FROM results r
		 WHERE r.seq = (SELECT MAX(seq) FROM results WHERE user_id = r.user_id)`,
	)
	if err != nil {
		return nil, fmt.Errorf("store: stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("store: stats: %w", err)
		}
		stats.Archetypes[s.displayArchetype(a)]++
	}
	return stats, rows.Err()
}
