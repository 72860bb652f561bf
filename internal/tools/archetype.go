package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/friendlens/friendlens/internal/archetype"
)

// ArchetypeTool handles the fl_archetype MCP tool.
type ArchetypeTool struct {
	normalizer *archetype.Normalizer
}

// NewArchetypeTool creates an ArchetypeTool.
func NewArchetypeTool(normalizer *archetype.Normalizer) *ArchetypeTool {
	return &ArchetypeTool{normalizer: normalizer}
}

// Definition returns the MCP tool definition for fl_archetype.
func (t *ArchetypeTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_archetype",
		mcp.WithDescription(
			"Describe a FriendLens archetype. Accepts loose or legacy ids (e.g. 'hunter', 'Sage_B'). "+
				"Without an id, lists all eight archetypes.",
		),
		mcp.WithString("id",
			mcp.Description("Archetype id to resolve"),
		),
	)
}

// Handle processes the fl_archetype tool call.
func (t *ArchetypeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := strings.TrimSpace(req.GetString("id", ""))

	if raw == "" {
		var sb strings.Builder
		sb.WriteString("## FriendLens archetypes\n\n")
		for _, a := range archetype.All() {
			sb.WriteString(fmt.Sprintf("- **%s** (`%s`): %s\n", a.Name, a.ID, a.Tagline))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}

	a := t.normalizer.Describe(raw)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n*%s*\n\n%s\n", a.Name, a.Tagline, a.Description))
	if raw != a.ID {
		sb.WriteString(fmt.Sprintf("\n`%s` resolves to `%s`.\n", raw, a.ID))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
