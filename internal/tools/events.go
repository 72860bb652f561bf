package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/friendlens/friendlens/internal/store"
)

// EventAddTool handles the fl_event_add MCP tool.
type EventAddTool struct {
	store *store.Store
}

// NewEventAddTool creates an EventAddTool.
func NewEventAddTool(st *store.Store) *EventAddTool {
	return &EventAddTool{store: st}
}

// Definition returns the MCP tool definition for fl_event_add.
func (t *EventAddTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_event_add",
		mcp.WithDescription("Plan a meetup on the user's social calendar, optionally with a friend."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the calendar")),
		mcp.WithString("title", mcp.Required(), mcp.Description("What is happening, e.g. 'Climbing with Ana'")),
		mcp.WithString("starts_at", mcp.Required(), mcp.Description("Start time, RFC 3339 or YYYY-MM-DD HH:MM (UTC)")),
		mcp.WithString("ends_at", mcp.Description("End time, same formats. Defaults to the start time")),
		mcp.WithNumber("friend_id", mcp.Description("Friend id (see fl_friend_list)")),
		mcp.WithString("notes", mcp.Description("Free-form notes")),
	)
}

// Handle processes the fl_event_add tool call.
func (t *EventAddTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := userIDArg(req)
	title := strings.TrimSpace(req.GetString("title", ""))
	if userID == "" {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}

	starts, err := parseTime(req.GetString("starts_at", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'starts_at': %v", err)), nil
	}
	var ends time.Time
	if raw := req.GetString("ends_at", ""); strings.TrimSpace(raw) != "" {
		if ends, err = parseTime(raw); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("'ends_at': %v", err)), nil
		}
	}
	friendID, err := optionalIDArg(req, "friend_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := t.store.AddEvent(store.AddEventParams{
		UserID:   userID,
		Title:    title,
		StartsAt: starts,
		EndsAt:   ends,
		FriendID: friendID,
		Notes:    req.GetString("notes", ""),
	})
	if err != nil {
		return errorResult("add event", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Event added: %s on %s (ID: %d)",
		title, starts.UTC().Format(time.RFC3339), id)), nil
}

// ─── EventListTool ──────────────────────────────────────────────────────────

// EventListTool handles the fl_event_list MCP tool.
type EventListTool struct {
	store *store.Store
}

// NewEventListTool creates an EventListTool.
func NewEventListTool(st *store.Store) *EventListTool {
	return &EventListTool{store: st}
}

// Definition returns the MCP tool definition for fl_event_list.
func (t *EventListTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_event_list",
		mcp.WithDescription(
			"List a user's events, earliest first. from/to bound the window; events that overlap it are included.",
		),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the calendar")),
		mcp.WithString("from", mcp.Description("Window start (inclusive). Omit for no lower bound")),
		mcp.WithString("to", mcp.Description("Window end (exclusive). Omit for no upper bound")),
	)
}

// Handle processes the fl_event_list tool call.
func (t *EventListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := userIDArg(req)
	if userID == "" {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}

	var from, to time.Time
	var err error
	if raw := req.GetString("from", ""); strings.TrimSpace(raw) != "" {
		if from, err = parseTime(raw); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("'from': %v", err)), nil
		}
	}
	if raw := req.GetString("to", ""); strings.TrimSpace(raw) != "" {
		if to, err = parseTime(raw); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("'to': %v", err)), nil
		}
	}
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return mcp.NewToolResultError("'to' must be after 'from'"), nil
	}

	events, err := t.store.ListEvents(userID, from, to)
	if err != nil {
		return errorResult("list events", err), nil
	}
	if len(events) == 0 {
		return mcp.NewToolResultText("No events in this window."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Events (%d)\n\n", len(events)))
	for _, e := range events {
		sb.WriteString(fmt.Sprintf("- **%s** (ID: %d) %s", e.Title, e.ID, e.StartsAt))
		if e.EndsAt != e.StartsAt {
			sb.WriteString(fmt.Sprintf(" to %s", e.EndsAt))
		}
		if e.FriendName != "" {
			sb.WriteString(fmt.Sprintf(", with %s", e.FriendName))
		}
		sb.WriteString("\n")
		if e.Notes != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", e.Notes))
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ─── EventDeleteTool ────────────────────────────────────────────────────────

// EventDeleteTool handles the fl_event_delete MCP tool.
type EventDeleteTool struct {
	store *store.Store
}

// NewEventDeleteTool creates an EventDeleteTool.
func NewEventDeleteTool(st *store.Store) *EventDeleteTool {
	return &EventDeleteTool{store: st}
}

// Definition returns the MCP tool definition for fl_event_delete.
func (t *EventDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_event_delete",
		mcp.WithDescription("Remove an event from the calendar."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the calendar")),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Event id")),
	)
}

// Handle processes the fl_event_delete tool call.
func (t *EventDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := userIDArg(req)
	if userID == "" {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}
	id, ok := idArg(req, "id")
	if !ok {
		return mcp.NewToolResultError("'id' must be a positive integer"), nil
	}

	if err := t.store.DeleteEvent(userID, id); err != nil {
		return errorResult("delete event", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Event %d removed.", id)), nil
}
