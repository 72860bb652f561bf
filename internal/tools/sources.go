package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/friendlens/friendlens/internal/store"
)

// SourceAddTool handles the fl_source_add MCP tool.
type SourceAddTool struct {
	store *store.Store
}

// NewSourceAddTool creates a SourceAddTool.
func NewSourceAddTool(st *store.Store) *SourceAddTool {
	return &SourceAddTool{store: st}
}

// Definition returns the MCP tool definition for fl_source_add.
func (t *SourceAddTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_source_add",
		mcp.WithDescription("Register a place where the user meets new people: a club, work, a class, an app."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the source")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Source name, unique per user")),
		mcp.WithString("kind", mcp.Description("club, work, school, app, neighborhood or other (default)")),
	)
}

// Handle processes the fl_source_add tool call.
func (t *SourceAddTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := userIDArg(req)
	name := strings.TrimSpace(req.GetString("name", ""))
	if userID == "" {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	id, err := t.store.AddSource(userID, name, req.GetString("kind", ""))
	if err != nil {
		return errorResult("add source", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Source added: %s (ID: %d)", name, id)), nil
}

// ─── SourceListTool ─────────────────────────────────────────────────────────

// SourceListTool handles the fl_source_list MCP tool.
type SourceListTool struct {
	store *store.Store
}

// NewSourceListTool creates a SourceListTool.
func NewSourceListTool(st *store.Store) *SourceListTool {
	return &SourceListTool{store: st}
}

// Definition returns the MCP tool definition for fl_source_list.
func (t *SourceListTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_source_list",
		mcp.WithDescription("List a user's sources with how many friends came from each."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the sources")),
	)
}

// Handle processes the fl_source_list tool call.
func (t *SourceListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := userIDArg(req)
	if userID == "" {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}

	sources, err := t.store.ListSources(userID)
	if err != nil {
		return errorResult("list sources", err), nil
	}
	if len(sources) == 0 {
		return mcp.NewToolResultText("No sources yet. Add one with fl_source_add."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Sources (%d)\n\n", len(sources)))
	for _, s := range sources {
		sb.WriteString(fmt.Sprintf("- **%s** (ID: %d, %s): %d friends\n", s.Name, s.ID, s.Kind, s.FriendCount))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ─── SourceDeleteTool ───────────────────────────────────────────────────────

// SourceDeleteTool handles the fl_source_delete MCP tool.
type SourceDeleteTool struct {
	store *store.Store
}

// NewSourceDeleteTool creates a SourceDeleteTool.
func NewSourceDeleteTool(st *store.Store) *SourceDeleteTool {
	return &SourceDeleteTool{store: st}
}

// Definition returns the MCP tool definition for fl_source_delete.
func (t *SourceDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_source_delete",
		mcp.WithDescription("Remove a source. Friends from it are kept and unlinked."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the source")),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Source id")),
	)
}

// Handle processes the fl_source_delete tool call.
func (t *SourceDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := userIDArg(req)
	if userID == "" {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}
	id, ok := idArg(req, "id")
	if !ok {
		return mcp.NewToolResultError("'id' must be a positive integer"), nil
	}

	if err := t.store.DeleteSource(userID, id); err != nil {
		return errorResult("delete source", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Source %d removed.", id)), nil
}
