package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/friendlens/friendlens/internal/scoring"
	"github.com/friendlens/friendlens/internal/templates"
)

// QuestionnaireTool handles the fl_questionnaire MCP tool.
type QuestionnaireTool struct {
	engine   *scoring.Engine
	renderer templates.Renderer
}

// NewQuestionnaireTool creates a QuestionnaireTool.
func NewQuestionnaireTool(engine *scoring.Engine, renderer templates.Renderer) *QuestionnaireTool {
	return &QuestionnaireTool{engine: engine, renderer: renderer}
}

// Definition returns the MCP tool definition for fl_questionnaire.
func (t *QuestionnaireTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_questionnaire",
		mcp.WithDescription(
			"Show the FriendLens questionnaire: every question with its option ids. "+
				"Ask the user to rank the options of each question, then call fl_submit.",
		),
		mcp.WithString("format",
			mcp.Description("Output format: markdown (default) or json"),
		),
	)
}

// Handle processes the fl_questionnaire tool call.
func (t *QuestionnaireTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bundle := t.engine.Bundle()

	if req.GetString("format", "markdown") == "json" {
		return jsonResult(struct {
			Version   string                   `json:"version"`
			Questions []scoring.QuestionConfig `json:"questions"`
		}{bundle.Version, bundle.Questions})
	}

	text, err := t.renderer.Render(templates.Questionnaire, templates.QuestionnaireData{
		Version:   bundle.Version,
		Questions: bundle.Questions,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render questionnaire: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}
