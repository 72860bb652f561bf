package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/friendlens/friendlens/internal/store"
)

// FriendAddTool handles the fl_friend_add MCP tool.
type FriendAddTool struct {
	store *store.Store
}

// NewFriendAddTool creates a FriendAddTool.
func NewFriendAddTool(st *store.Store) *FriendAddTool {
	return &FriendAddTool{store: st}
}

// Definition returns the MCP tool definition for fl_friend_add.
func (t *FriendAddTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_friend_add",
		mcp.WithDescription("Add a friend to a user's circle."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the friend list")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Friend's name")),
		mcp.WithString("archetype", mcp.Description("Friend's archetype, if known (e.g. Bonder)")),
		mcp.WithNumber("closeness", mcp.Description("1 (acquaintance) to 5 (inner circle), default 3")),
		mcp.WithNumber("source_id", mcp.Description("Id of the source this friend came from (see fl_source_list)")),
		mcp.WithString("notes", mcp.Description("Free-form notes, searchable")),
	)
}

// Handle processes the fl_friend_add tool call.
func (t *FriendAddTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := userIDArg(req)
	name := strings.TrimSpace(req.GetString("name", ""))
	if userID == "" {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}
	sourceID, err := optionalIDArg(req, "source_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := t.store.AddFriend(store.AddFriendParams{
		UserID:    userID,
		Name:      name,
		Archetype: req.GetString("archetype", ""),
		Closeness: intArg(req, "closeness", 0),
		SourceID:  sourceID,
		Notes:     req.GetString("notes", ""),
	})
	if err != nil {
		return errorResult("add friend", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Friend added: %s (ID: %d)", name, id)), nil
}

// ─── FriendUpdateTool ───────────────────────────────────────────────────────

// FriendUpdateTool handles the fl_friend_update MCP tool.
type FriendUpdateTool struct {
	store *store.Store
}

// NewFriendUpdateTool creates a FriendUpdateTool.
func NewFriendUpdateTool(st *store.Store) *FriendUpdateTool {
	return &FriendUpdateTool{store: st}
}

// Definition returns the MCP tool definition for fl_friend_update.
func (t *FriendUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_friend_update",
		mcp.WithDescription("Update a friend. Only the given fields change."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the friend list")),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Friend id")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("archetype", mcp.Description("New archetype")),
		mcp.WithNumber("closeness", mcp.Description("New closeness, 1-5")),
		mcp.WithNumber("source_id", mcp.Description("New source id")),
		mcp.WithBoolean("clear_source", mcp.Description("Unlink the friend from its source")),
		mcp.WithString("notes", mcp.Description("New notes")),
	)
}

// Handle processes the fl_friend_update tool call.
func (t *FriendUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := userIDArg(req)
	if userID == "" {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}
	id, ok := idArg(req, "id")
	if !ok {
		return mcp.NewToolResultError("'id' must be a positive integer"), nil
	}
	sourceID, err := optionalIDArg(req, "source_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	p := store.UpdateFriendParams{
		Name:        stringPtrArg(req, "name"),
		Archetype:   stringPtrArg(req, "archetype"),
		SourceID:    sourceID,
		ClearSource: boolArg(req, "clear_source", false),
		Notes:       stringPtrArg(req, "notes"),
	}
	if _, ok := req.GetArguments()["closeness"]; ok {
		c := intArg(req, "closeness", 0)
		p.Closeness = &c
	}

	f, err := t.store.UpdateFriend(userID, id, p)
	if err != nil {
		return errorResult("update friend", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Friend updated.\n\n%s", formatFriend(*f))), nil
}

// ─── FriendListTool ─────────────────────────────────────────────────────────

// FriendListTool handles the fl_friend_list MCP tool.
type FriendListTool struct {
	store *store.Store
}

// NewFriendListTool creates a FriendListTool.
func NewFriendListTool(st *store.Store) *FriendListTool {
	return &FriendListTool{store: st}
}

// Definition returns the MCP tool definition for fl_friend_list.
func (t *FriendListTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_friend_list",
		mcp.WithDescription(
			"List a user's friends, closest first. With query, runs a full-text search over names, notes and archetypes.",
		),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the friend list")),
		mcp.WithString("query", mcp.Description("Search words, e.g. 'climbing coffee'")),
		mcp.WithNumber("limit", mcp.Description("Maximum friends to return (default: 20)")),
	)
}

// Handle processes the fl_friend_list tool call.
func (t *FriendListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := userIDArg(req)
	if userID == "" {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}
	query := req.GetString("query", "")
	limit := intArg(req, "limit", 20)

	friends, err := t.store.SearchFriends(userID, query, limit)
	if err != nil {
		return errorResult("list friends", err), nil
	}
	if len(friends) == 0 {
		if strings.TrimSpace(query) != "" {
			return mcp.NewToolResultText(fmt.Sprintf("No friends match %q.", query)), nil
		}
		return mcp.NewToolResultText("No friends saved yet. Add one with fl_friend_add."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Friends (%d)\n\n", len(friends)))
	for _, f := range friends {
		sb.WriteString(formatFriend(f))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ─── FriendDeleteTool ───────────────────────────────────────────────────────

// FriendDeleteTool handles the fl_friend_delete MCP tool.
type FriendDeleteTool struct {
	store *store.Store
}

// NewFriendDeleteTool creates a FriendDeleteTool.
func NewFriendDeleteTool(st *store.Store) *FriendDeleteTool {
	return &FriendDeleteTool{store: st}
}

// Definition returns the MCP tool definition for fl_friend_delete.
func (t *FriendDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_friend_delete",
		mcp.WithDescription("Remove a friend. Events with this friend are kept."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the friend list")),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Friend id")),
	)
}

// Handle processes the fl_friend_delete tool call.
func (t *FriendDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := userIDArg(req)
	if userID == "" {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}
	id, ok := idArg(req, "id")
	if !ok {
		return mcp.NewToolResultError("'id' must be a positive integer"), nil
	}

	if err := t.store.DeleteFriend(userID, id); err != nil {
		return errorResult("delete friend", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Friend %d removed.", id)), nil
}

func formatFriend(f store.Friend) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("- **%s** (ID: %d) closeness %d/5", f.Name, f.ID, f.Closeness))
	if f.Archetype != "" {
		sb.WriteString(fmt.Sprintf(", %s", f.Archetype))
	}
	if f.SourceName != "" {
		sb.WriteString(fmt.Sprintf(", via %s", f.SourceName))
	}
	sb.WriteString("\n")
	if f.Notes != "" {
		sb.WriteString(fmt.Sprintf("  %s\n", f.Notes))
	}
	return sb.String()
}
