// Package tools implements the FriendLens MCP tool handlers.
//
// Each tool is a struct that receives its dependencies through a
// constructor, exposes Definition() for registration and Handle() for
// calls. One file per tool family.
//
// Handlers never return a Go error for a problem the caller can fix;
// they answer with mcp.NewToolResultError instead.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/friendlens/friendlens/internal/pending"
	"github.com/friendlens/friendlens/internal/scoring"
	"github.com/friendlens/friendlens/internal/store"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// floatArg extracts a number argument from a tool request.
func floatArg(req mcp.CallToolRequest, key string) (float64, bool) {
	v, ok := req.GetArguments()[key].(float64)
	return v, ok
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// idArg extracts a positive row id.
func idArg(req mcp.CallToolRequest, key string) (int64, bool) {
	v, ok := req.GetArguments()[key].(float64)
	if !ok || v < 1 || v != float64(int64(v)) {
		return 0, false
	}
	return int64(v), true
}

// optionalIDArg returns nil when the key is absent.
func optionalIDArg(req mcp.CallToolRequest, key string) (*int64, error) {
	if _, present := req.GetArguments()[key]; !present {
		return nil, nil
	}
	id, ok := idArg(req, key)
	if !ok {
		return nil, fmt.Errorf("'%s' must be a positive integer", key)
	}
	return &id, nil
}

// stringPtrArg returns nil when the key is absent, so partial updates can
// tell "not given" from "set to empty".
func stringPtrArg(req mcp.CallToolRequest, key string) *string {
	v, ok := req.GetArguments()[key].(string)
	if !ok {
		return nil
	}
	return &v
}

// userIDArg returns the trimmed user_id argument.
func userIDArg(req mcp.CallToolRequest) string {
	return strings.TrimSpace(req.GetString("user_id", ""))
}

// errorResult turns a store or pending error into a tool error, keeping
// the message short for the not-found and invalid-input cases.
func errorResult(action string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, pending.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("%s: not found", action))
	case errors.Is(err, store.ErrInvalid):
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", action, err))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", action, err))
	}
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ─── Responses ───────────────────────────────────────────────────────────────

// ParseResponses decodes the responses argument. Two shapes are accepted:
//
//	[{"question_id": "q01", "ranked_option_ids": ["a", "b"]}]
//	{"q01": ["a", "b"]}
//
// The object form is ordered by question id.
func ParseResponses(raw string) ([]scoring.UserResponse, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("responses are empty")
	}

	if strings.HasPrefix(raw, "{") {
		var byQuestion map[string][]string
		if err := json.Unmarshal([]byte(raw), &byQuestion); err != nil {
			return nil, fmt.Errorf("responses: %w", err)
		}
		out := make([]scoring.UserResponse, 0, len(byQuestion))
		for q, ids := range byQuestion {
			out = append(out, scoring.UserResponse{QuestionID: q, RankedOptionIDs: ids})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
		return out, nil
	}

	var list []scoring.UserResponse
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("responses: %w", err)
	}
	return list, nil
}

// DedupeResponses drops repeated and empty option ids within each ranked
// list and repeated questions, keeping the first occurrence. The engine
// itself counts duplicates, so this runs before every scoring call.
func DedupeResponses(in []scoring.UserResponse) []scoring.UserResponse {
	out := make([]scoring.UserResponse, 0, len(in))
	seenQuestion := make(map[string]bool, len(in))
	for _, r := range in {
		q := strings.TrimSpace(r.QuestionID)
		if q == "" || seenQuestion[q] {
			continue
		}
		seenQuestion[q] = true

		seen := make(map[string]bool, len(r.RankedOptionIDs))
		ranked := make([]string, 0, len(r.RankedOptionIDs))
		for _, id := range r.RankedOptionIDs {
			id = strings.TrimSpace(id)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ranked = append(ranked, id)
		}
		out = append(out, scoring.UserResponse{QuestionID: q, RankedOptionIDs: ranked})
	}
	return out
}

// CheckResponses lists answers the bundle does not know about. The
// engine ignores them silently; the caller gets told.
func CheckResponses(bundle scoring.Bundle, responses []scoring.UserResponse) []string {
	options := make(map[string]map[string]bool, len(bundle.Questions))
	for _, q := range bundle.Questions {
		ids := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			ids[o.ID] = true
		}
		options[q.ID] = ids
	}

	var notes []string
	for _, r := range responses {
		ids, ok := options[r.QuestionID]
		if !ok {
			notes = append(notes, fmt.Sprintf("unknown question %q ignored", r.QuestionID))
			continue
		}
		for _, id := range r.RankedOptionIDs {
			if !ids[id] {
				notes = append(notes, fmt.Sprintf("unknown option %q for question %q ignored", id, r.QuestionID))
			}
		}
	}
	return notes
}

// ─── Time ────────────────────────────────────────────────────────────────────

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime accepts RFC 3339 and a few shorter forms. Times without a
// zone are read as UTC.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q (use RFC 3339, e.g. 2025-06-01T18:00:00Z)", s)
}
