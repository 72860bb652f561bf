package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/friendlens/friendlens/internal/archetype"
	"github.com/friendlens/friendlens/internal/pending"
	"github.com/friendlens/friendlens/internal/store"
	"github.com/friendlens/friendlens/internal/templates"
)

// ClaimTool handles the fl_claim MCP tool.
type ClaimTool struct {
	store      *store.Store
	pending    pending.Store
	renderer   templates.Renderer
	normalizer *archetype.Normalizer
	logger     *zap.Logger
}

// NewClaimTool creates a ClaimTool. A nil logger discards output.
func NewClaimTool(
	st *store.Store,
	held pending.Store,
	renderer templates.Renderer,
	normalizer *archetype.Normalizer,
	logger *zap.Logger,
) *ClaimTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClaimTool{store: st, pending: held, renderer: renderer, normalizer: normalizer, logger: logger}
}

// Definition returns the MCP tool definition for fl_claim.
func (t *ClaimTool) Definition() mcp.Tool {
	return mcp.NewTool("fl_claim",
		mcp.WithDescription(
			"Attach an anonymous FriendLens result to a user. Use the claim token returned by fl_submit. "+
				"A token can be claimed once.",
		),
		mcp.WithString("token",
			mcp.Required(),
			mcp.Description("Claim token from fl_submit"),
		),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("User id to save the result under"),
		),
	)
}

// Handle processes the fl_claim tool call.
func (t *ClaimTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token := strings.TrimSpace(req.GetString("token", ""))
	userID := userIDArg(req)
	if token == "" {
		return mcp.NewToolResultError("'token' is required"), nil
	}
	if userID == "" {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}

	held, err := t.pending.Claim(token)
	if err != nil {
		return errorResult("claim result", err), nil
	}

	if _, err := t.store.SaveResponses(userID, held.BundleVersion, held.Responses); err != nil {
		return t.rehold(held, "save responses", err), nil
	}
	id, err := t.store.SaveResult(userID, held.BundleVersion, &held.Result)
	if err != nil {
		return t.rehold(held, "save result", err), nil
	}

	t.logger.Info("result claimed",
		zap.String("result_id", id),
		zap.String("bundle_version", held.BundleVersion),
		zap.String("held_since", held.CreatedAt),
	)

	data := templates.NewResultData(&held.Result, t.normalizer)
	data.ResultID = id
	text, err := t.renderer.Render(templates.Result, data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render result: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Result saved for %s.\n\n%s", userID, text)), nil
}

// rehold puts a claimed result back after a failed save so it is not lost.
func (t *ClaimTool) rehold(held *pending.Held, action string, cause error) *mcp.CallToolResult {
	token, err := t.pending.Hold(&held.Result, held.Responses, held.BundleVersion)
	if err != nil {
		t.logger.Error("claimed result lost",
			zap.String("token", held.Token),
			zap.NamedError("save_error", cause),
			zap.Error(err),
		)
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v; the result could not be held again", action, cause))
	}
	return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v; the result is held again under token %s", action, cause, token))
}
