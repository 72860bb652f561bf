package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/friendlens/friendlens/internal/store"
)

// TimeSetTool handles the fl_time_set MCP tool.
type TimeSetTool struct {
	store *store.Store
}

// NewTimeSetTool creates a TimeSetTool.
func NewTimeSetTool(st *store.Store) *TimeSetTool {
	return &TimeSetTool{store: st}
}

// Definition returns the MCP tool definition for fl_time_set.
func (t *TimeSetTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_time_set",
		mcp.WithDescription(
			"Set how many hours a week the user gives to one kind of social time (e.g. 'close friends', 'new people'). "+
				"All categories together may not exceed 168 hours.",
		),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the budget")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category name, case-insensitive")),
		mcp.WithNumber("hours", mcp.Required(), mcp.Description("Hours per week, 0-168")),
	)
}

// Handle processes the fl_time_set tool call.
func (t *TimeSetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := userIDArg(req)
	category := strings.TrimSpace(req.GetString("category", ""))
	if userID == "" {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}
	if category == "" {
		return mcp.NewToolResultError("'category' is required"), nil
	}
	hours, ok := floatArg(req, "hours")
	if !ok {
		return mcp.NewToolResultError("'hours' must be a number"), nil
	}

	if err := t.store.SetAllocation(userID, category, hours); err != nil {
		return errorResult("set time", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s: %g hours/week.", strings.ToLower(category), hours)), nil
}

// ─── TimeGetTool ────────────────────────────────────────────────────────────

// TimeGetTool handles the fl_time_get MCP tool.
type TimeGetTool struct {
	store *store.Store
}

// NewTimeGetTool creates a TimeGetTool.
func NewTimeGetTool(st *store.Store) *TimeGetTool {
	return &TimeGetTool{store: st}
}

// Definition returns the MCP tool definition for fl_time_get.
func (t *TimeGetTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_time_get",
		mcp.WithDescription("Show the user's weekly social time budget and what is left of the week."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the budget")),
	)
}

// Handle processes the fl_time_get tool call.
func (t *TimeGetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := userIDArg(req)
	if userID == "" {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}

	allocs, err := t.store.Allocations(userID)
	if err != nil {
		return errorResult("get time", err), nil
	}
	if len(allocs) == 0 {
		return mcp.NewToolResultText("No time budget set. Use fl_time_set to add a category."), nil
	}

	var total float64
	var sb strings.Builder
	sb.WriteString("## Weekly social time\n\n")
	sb.WriteString("| Category | Hours |\n|----------|-------|\n")
	for _, a := range allocs {
		total += a.HoursPerWeek
		sb.WriteString(fmt.Sprintf("| %s | %g |\n", a.Category, a.HoursPerWeek))
	}
	sb.WriteString(fmt.Sprintf("\n**Total**: %g of %g hours. **Free**: %g hours.\n",
		total, store.HoursPerWeek, store.HoursPerWeek-total))
	return mcp.NewToolResultText(sb.String()), nil
}
