// Package prompts implements the FriendLens MCP prompts.
//
// Prompts are user-triggered workflows (like slash commands). They tell
// the AI which tools to call and in what order; the tools do the work.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the friendlens-start MCP prompt.
// It walks the user through the questionnaire and scores it.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("friendlens-start",
		mcp.WithPromptDescription(
			"Take the FriendLens questionnaire. The AI asks each question, "+
				"collects your rankings and shows your friendship profile.",
		),
		mcp.WithArgument("user_id",
			mcp.ArgumentDescription("Your user id, to save the result. Leave empty to take it anonymously"),
		),
	)
}

// Handle processes the friendlens-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	userID := strings.TrimSpace(req.Params.Arguments["user_id"])

	submit := "3. When every question is answered, call `fl_submit` with the rankings"
	who := "anonymously"
	if userID != "" {
		submit += fmt.Sprintf(" and user_id='%s'", userID)
		who = "as " + userID
	} else {
		submit += " and no user_id. Keep the claim token it returns and tell me how to use `fl_claim`"
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("FriendLens questionnaire (%s)", who),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"I want to find out my FriendLens friendship profile.\n\n" +
						"Please:\n" +
						"1. Run `fl_questionnaire` to get the questions\n" +
						"2. Ask me one question at a time and let me rank the options, most like me first. " +
						"I may skip options I don't relate to\n" +
						submit + "\n" +
						"4. Show me the result and explain my primary and secondary archetype in plain words",
				),
			},
		},
	}, nil
}
