package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ExplainPrompt handles the friendlens-explain MCP prompt.
// It asks the AI to read a user's latest result and explain it.
type ExplainPrompt struct{}

// NewExplainPrompt creates an ExplainPrompt.
func NewExplainPrompt() *ExplainPrompt {
	return &ExplainPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ExplainPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("friendlens-explain",
		mcp.WithPromptDescription(
			"Explain your latest FriendLens result: what each dimension means, "+
				"why you matched your type and how sure the match is.",
		),
		mcp.WithArgument("user_id",
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("User id the result is saved under"),
		),
	)
}

// Handle processes the friendlens-explain prompt request.
func (p *ExplainPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	userID := strings.TrimSpace(req.Params.Arguments["user_id"])
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Explain the FriendLens result of %s", userID),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please run `fl_result` with user_id='%s' to load my latest FriendLens result.\n\n"+
						"Then:\n"+
						"1. Explain my two strongest dimensions and what they say about how I make friends\n"+
						"2. Tell me why I matched my closest type, and what the confidence means\n"+
						"3. Use `fl_archetype` to describe my primary and secondary archetype\n"+
						"4. If I have friends saved (`fl_friend_list`), point out how their archetypes fit with mine",
					userID,
				)),
			},
		},
	}, nil
}
