// Package resources implements the FriendLens MCP resources.
//
// Resources are read-only JSON views of the active configuration and the
// archetype taxonomy, addressed with friendlens:// URIs.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/friendlens/friendlens/internal/archetype"
	"github.com/friendlens/friendlens/internal/scoring"
)

// Resource URIs.
const (
	QuestionsURI  = "friendlens://config/questions"
	TypesURI      = "friendlens://config/types"
	ArchetypesURI = "friendlens://archetypes"
)

// Handler serves the FriendLens resources.
type Handler struct {
	engine *scoring.Engine
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(engine *scoring.Engine) *Handler {
	return &Handler{engine: engine}
}

// QuestionsResource returns the MCP resource definition for the questionnaire.
func (h *Handler) QuestionsResource() mcp.Resource {
	return mcp.NewResource(
		QuestionsURI,
		"FriendLens Questions",
		mcp.WithResourceDescription("Questions and options of the active configuration, with their dimension weights"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleQuestions returns the active questions as JSON.
func (h *Handler) HandleQuestions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	b := h.engine.Bundle()
	return jsonResource(req.Params.URI, struct {
		Version   string                   `json:"version"`
		Questions []scoring.QuestionConfig `json:"questions"`
	}{b.Version, b.Questions})
}

// TypesResource returns the MCP resource definition for the reference types.
func (h *Handler) TypesResource() mcp.Resource {
	return mcp.NewResource(
		TypesURI,
		"FriendLens Reference Types",
		mcp.WithResourceDescription("Reference types of the active configuration with their target vectors"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleTypes returns the active reference types as JSON.
func (h *Handler) HandleTypes(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	b := h.engine.Bundle()
	return jsonResource(req.Params.URI, struct {
		Version string                `json:"version"`
		Types   []scoring.ReferenceType `json:"types"`
	}{b.Version, b.Types})
}

// ArchetypesResource returns the MCP resource definition for the archetypes.
func (h *Handler) ArchetypesResource() mcp.Resource {
	return mcp.NewResource(
		ArchetypesURI,
		"FriendLens Archetypes",
		mcp.WithResourceDescription("The eight display archetypes"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleArchetypes returns the archetypes as JSON.
func (h *Handler) HandleArchetypes(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, archetype.All())
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
