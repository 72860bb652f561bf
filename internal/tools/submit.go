package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/friendlens/friendlens/internal/archetype"
	"github.com/friendlens/friendlens/internal/pending"
	"github.com/friendlens/friendlens/internal/scoring"
	"github.com/friendlens/friendlens/internal/store"
	"github.com/friendlens/friendlens/internal/templates"
)

// SubmitTool handles the fl_submit MCP tool.
type SubmitTool struct {
	engine     *scoring.Engine
	store      *store.Store
	pending    pending.Store
	renderer   templates.Renderer
	normalizer *archetype.Normalizer
	logger     *zap.Logger
}

// NewSubmitTool creates a SubmitTool. A nil logger discards output.
func NewSubmitTool(
	engine *scoring.Engine,
	st *store.Store,
	held pending.Store,
	renderer templates.Renderer,
	normalizer *archetype.Normalizer,
	logger *zap.Logger,
) *SubmitTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmitTool{
		engine:     engine,
		store:      st,
		pending:    held,
		renderer:   renderer,
		normalizer: normalizer,
		logger:     logger,
	}
}

// Definition returns the MCP tool definition for fl_submit.
func (t *SubmitTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_submit",
		mcp.WithDescription(
			"Score a completed FriendLens questionnaire. With user_id the answers and result are saved "+
				"to that user; without it the result is held anonymously and a claim token is returned.",
		),
		mcp.WithString("responses",
			mcp.Required(),
			mcp.Description(
				`Ranked answers as JSON: [{"question_id":"q01","ranked_option_ids":["a","b"]}] `+
					`or {"q01":["a","b"]}. First id is the strongest preference.`,
			),
		),
		mcp.WithString("user_id",
			mcp.Description("Caller-supplied user id. Omit to score anonymously."),
		),
	)
}

// Handle processes the fl_submit tool call.
func (t *SubmitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := req.GetString("responses", "")
	if strings.TrimSpace(raw) == "" {
		return mcp.NewToolResultError("'responses' is required"), nil
	}

	parsed, err := ParseResponses(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid responses: %v", err)), nil
	}
	responses := DedupeResponses(parsed)
	if len(responses) == 0 {
		return mcp.NewToolResultError("no answers to score"), nil
	}

	bundle := t.engine.Bundle()
	notes := CheckResponses(bundle, responses)

	result, err := t.engine.Score(responses)
	if err != nil {
		if errors.Is(err, scoring.ErrNoTypes) {
			return mcp.NewToolResultError("the questionnaire configuration has no reference types to match against"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to score responses: %v", err)), nil
	}

	data := templates.NewResultData(result, t.normalizer)
	userID := userIDArg(req)
	if userID != "" {
		if _, err := t.store.SaveResponses(userID, bundle.Version, responses); err != nil {
			return errorResult("save responses", err), nil
		}
		id, err := t.store.SaveResult(userID, bundle.Version, result)
		if err != nil {
			return errorResult("save result", err), nil
		}
		data.ResultID = id
	} else {
		token, err := t.pending.Hold(result, responses, bundle.Version)
		if err != nil {
			return errorResult("hold result", err), nil
		}
		data.ClaimToken = token
	}

	t.logger.Info("responses scored",
		zap.String("bundle_version", bundle.Version),
		zap.Int("answers", len(responses)),
		zap.String("matched_type", result.MatchedType.ID),
		zap.String("primary", result.PrimaryArchetype),
		zap.Float64("confidence", result.Confidence),
		zap.Bool("anonymous", userID == ""),
	)

	text, err := t.renderer.Render(templates.Result, data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render result: %v", err)), nil
	}
	return mcp.NewToolResultText(text + formatNotes(notes)), nil
}

func formatNotes(notes []string) string {
	if len(notes) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\n## Notes\n\n")
	for _, n := range notes {
		sb.WriteString("- " + n + "\n")
	}
	return sb.String()
}
