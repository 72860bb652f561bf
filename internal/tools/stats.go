package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/friendlens/friendlens/internal/archetype"
	"github.com/friendlens/friendlens/internal/store"
)

// StatsTool handles the fl_stats MCP tool.
type StatsTool struct {
	store *store.Store
}

// NewStatsTool creates a StatsTool with the given store.
func NewStatsTool(st *store.Store) *StatsTool {
	return &StatsTool{store: st}
}

// Definition returns the MCP tool definition for fl_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_stats",
		mcp.WithDescription(
			"Show FriendLens statistics: users scored, saved results, friends, sources, events and the archetype mix.",
		),
	)
}

// Handle processes the fl_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := t.store.Stats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString("## FriendLens Statistics\n\n")
	sb.WriteString(fmt.Sprintf("- **Users scored**: %d\n", stats.UsersWithResults))
	sb.WriteString(fmt.Sprintf("- **Results**: %d\n", stats.Results))
	sb.WriteString(fmt.Sprintf("- **Friends**: %d\n", stats.Friends))
	sb.WriteString(fmt.Sprintf("- **Sources**: %d\n", stats.Sources))
	sb.WriteString(fmt.Sprintf("- **Events**: %d\n", stats.Events))

	if len(stats.Archetypes) == 0 {
		sb.WriteString("- **Archetypes**: none yet\n")
		return mcp.NewToolResultText(sb.String()), nil
	}

	sb.WriteString("\n### Primary archetypes\n\n")
	for _, id := range archetype.IDs() {
		if n := stats.Archetypes[id]; n > 0 {
			sb.WriteString(fmt.Sprintf("- %s: %d\n", id, n))
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}
