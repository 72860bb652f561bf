package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/friendlens/friendlens/internal/archetype"
	"github.com/friendlens/friendlens/internal/store"
	"github.com/friendlens/friendlens/internal/templates"
)

// ResultTool handles the fl_result MCP tool.
type ResultTool struct {
	store      *store.Store
	renderer   templates.Renderer
	normalizer *archetype.Normalizer
}

// NewResultTool creates a ResultTool.
func NewResultTool(st *store.Store, renderer templates.Renderer, normalizer *archetype.Normalizer) *ResultTool {
	return &ResultTool{store: st, renderer: renderer, normalizer: normalizer}
}

// Definition returns the MCP tool definition for fl_result.
func (t *ResultTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_result",
		mcp.WithDescription(
			"Show a user's latest FriendLens result, or their result history when limit is above 1.",
		),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("User id the results were saved under"),
		),
		mcp.WithNumber("limit",
			mcp.Description("How many results to list, newest first (default: 1)"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: markdown (default) or json"),
		),
	)
}

// Handle processes the fl_result tool call.
func (t *ResultTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := userIDArg(req)
	if userID == "" {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}
	asJSON := req.GetString("format", "markdown") == "json"
	limit := intArg(req, "limit", 1)

	if limit <= 1 {
		latest, err := t.store.LatestResult(userID)
		if err != nil {
			return errorResult("load latest result", err), nil
		}
		if asJSON {
			return jsonResult(latest)
		}
		data := templates.NewResultData(&latest.Result, t.normalizer)
		data.ResultID = latest.ID
		text, err := t.renderer.Render(templates.Result, data)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render result: %v", err)), nil
		}
		return mcp.NewToolResultText(text), nil
	}

	history, err := t.store.ResultHistory(userID, limit)
	if err != nil {
		return errorResult("load result history", err), nil
	}
	if asJSON {
		return jsonResult(history)
	}
	if len(history) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No results saved for %q yet.", userID)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Result history for %s (%d)\n\n", userID, len(history)))
	sb.WriteString("| Date | Primary | Secondary | Closest type | Confidence | Id |\n")
	sb.WriteString("|---|---|---|---|---:|---|\n")
	for _, r := range history {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %.0f%% | `%s` |\n",
			r.CreatedAt, r.PrimaryArchetype, r.SecondaryArchetype,
			r.Result.MatchedType.Name, r.Result.Confidence*100, r.ID))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
