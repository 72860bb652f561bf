package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/friendlens/friendlens/internal/scoring"
)

// ─── Types ───────────────────────────────────────────────────────────────────

// ResponseSet is one stored submission of questionnaire answers.
type ResponseSet struct {
	ID            int64                  `json:"id"`
	UserID        string                 `json:"user_id"`
	BundleVersion string                 `json:"bundle_version"`
	Responses     []scoring.UserResponse `json:"responses"`
	CreatedAt     string                 `json:"created_at"`
}

// StoredResult is a persisted scoring result.
//
// Result holds what the engine produced. PrimaryArchetype and
// SecondaryArchetype are the display ids, already mapped onto the
// canonical archetype set.
type StoredResult struct {
	ID                 string         `json:"id"`
	UserID             string         `json:"user_id"`
	BundleVersion      string         `json:"bundle_version"`
	Result             scoring.Result `json:"result"`
	PrimaryArchetype   string         `json:"primary_archetype"`
	SecondaryArchetype string         `json:"secondary_archetype"`
	CreatedAt          string         `json:"created_at"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

// SaveResponses stores a submission and returns its row id.
func (s *Store) SaveResponses(userID, bundleVersion string, responses []scoring.UserResponse) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("%w: user id is required", ErrInvalid)
	}
	payload, err := json.Marshal(responses)
	if err != nil {
		return 0, fmt.Errorf("store: encode responses: %w", err)
	}

	res, err := s.execHook(s.db,
		`INSERT INTO responses (user_id, bundle_version, payload, created_at) VALUES (?, ?, ?, ?)`,
		userID, bundleVersion, string(payload), Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("store: save responses: %w", err)
	}
	return res.LastInsertId()
}

// LatestResponses returns the most recent submission of a user.
func (s *Store) LatestResponses(userID string) (*ResponseSet, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, bundle_version, payload, created_at
		 FROM responses WHERE user_id = ? ORDER BY id DESC LIMIT 1`, userID,
	)
	var (
		rs      ResponseSet
		payload string
	)
	if err := row.Scan(&rs.ID, &rs.UserID, &rs.BundleVersion, &payload, &rs.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no responses for user %q", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("store: latest responses: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &rs.Responses); err != nil {
		return nil, fmt.Errorf("store: decode responses %d: %w", rs.ID, err)
	}
	return &rs, nil
}

// ─── Results ─────────────────────────────────────────────────────────────────

// SaveResult stores a scoring result under a fresh UUID and returns it.
func (s *Store) SaveResult(userID, bundleVersion string, r *scoring.Result) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: user id is required", ErrInvalid)
	}
	if r == nil {
		return "", fmt.Errorf("%w: result is nil", ErrInvalid)
	}

	raw, err := json.Marshal(r.RawScores)
	if err != nil {
		return "", fmt.Errorf("store: encode raw scores: %w", err)
	}
	normalized, err := json.Marshal(r.NormalizedScores)
	if err != nil {
		return "", fmt.Errorf("store: encode normalized scores: %w", err)
	}
	distances, err := json.Marshal(r.Distances)
	if err != nil {
		return "", fmt.Errorf("store: encode distances: %w", err)
	}

	id := uuid.NewString()
	if _, err := s.execHook(s.db,
		`INSERT INTO results (id, user_id, bundle_version, matched_type_id, matched_type_name,
		                      matched_short_label, distance, primary_archetype, secondary_archetype,
		                      confidence, raw_scores, normalized_scores, distances, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, bundleVersion,
		r.MatchedType.ID, r.MatchedType.Name, r.MatchedType.ShortLabel, r.MatchedType.Distance,
		r.PrimaryArchetype, r.SecondaryArchetype, r.Confidence,
		string(raw), string(normalized), string(distances), Now(),
	); err != nil {
		return "", fmt.Errorf("store: save result: %w", err)
	}
	return id, nil
}

const resultColumns = `id, user_id, bundle_version, matched_type_id, matched_type_name,
	matched_short_label, distance, primary_archetype, secondary_archetype, confidence,
	raw_scores, normalized_scores, distances, created_at`

// LatestResult returns the most recent result of a user.
func (s *Store) LatestResult(userID string) (*StoredResult, error) {
	results, err := s.queryResults(
		`SELECT `+resultColumns+` FROM results WHERE user_id = ? ORDER BY seq DESC LIMIT 1`, userID,
	)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no result for user %q", ErrNotFound, userID)
	}
	return &results[0], nil
}

// GetResult returns one result by id.
func (s *Store) GetResult(id string) (*StoredResult, error) {
	results, err := s.queryResults(`SELECT `+resultColumns+` FROM results WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: result %q", ErrNotFound, id)
	}
	return &results[0], nil
}

// ResultHistory returns up to limit results of a user, newest first.
// limit is capped at Config.MaxHistory.
func (s *Store) ResultHistory(userID string, limit int) ([]StoredResult, error) {
	if limit <= 0 || limit > s.cfg.MaxHistory {
		limit = s.cfg.MaxHistory
	}
	return s.queryResults(
		`SELECT `+resultColumns+` FROM results WHERE user_id = ? ORDER BY seq DESC LIMIT ?`,
		userID, limit,
	)
}

func (s *Store) queryResults(query string, args ...any) ([]StoredResult, error) {
	rows, err := s.queryItHook(s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []StoredResult
	for rows.Next() {
		var (
			sr                         StoredResult
			raw, normalized, distances string
		)
		if err := rows.Scan(
			&sr.ID, &sr.UserID, &sr.BundleVersion,
			&sr.Result.MatchedType.ID, &sr.Result.MatchedType.Name, &sr.Result.MatchedType.ShortLabel,
			&sr.Result.MatchedType.Distance,
			&sr.Result.PrimaryArchetype, &sr.Result.SecondaryArchetype, &sr.Result.Confidence,
			&raw, &normalized, &distances, &sr.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("store: scan result: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &sr.Result.RawScores); err != nil {
			return nil, fmt.Errorf("store: decode raw scores of %s: %w", sr.ID, err)
		}
		if err := json.Unmarshal([]byte(normalized), &sr.Result.NormalizedScores); err != nil {
			return nil, fmt.Errorf("store: decode normalized scores of %s: %w", sr.ID, err)
		}
		if err := json.Unmarshal([]byte(distances), &sr.Result.Distances); err != nil {
			return nil, fmt.Errorf("store: decode distances of %s: %w", sr.ID, err)
		}
		sr.PrimaryArchetype = s.displayArchetype(sr.Result.PrimaryArchetype)
		sr.SecondaryArchetype = s.displayArchetype(sr.Result.SecondaryArchetype)
		results = append(results, sr)
	}
	return results, rows.Err()
}
