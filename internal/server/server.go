// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on them.
// No business logic lives here, only wiring.
package server

import (
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/friendlens/friendlens/internal/archetype"
	"github.com/friendlens/friendlens/internal/config"
	"github.com/friendlens/friendlens/internal/pending"
	"github.com/friendlens/friendlens/internal/prompts"
	"github.com/friendlens/friendlens/internal/resources"
	"github.com/friendlens/friendlens/internal/scoring"
	"github.com/friendlens/friendlens/internal/store"
	"github.com/friendlens/friendlens/internal/templates"
	"github.com/friendlens/friendlens/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// PendingTTL is how long an unclaimed anonymous result is kept.
const PendingTTL = 30 * 24 * time.Hour

// New creates and configures the MCP server with all tools, prompts
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the store and must be called on
// shutdown. It is always non-nil.
func New(settings config.Settings, logger *zap.Logger) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// --- Create shared dependencies ---

	bundle, err := config.ActiveBundle(settings)
	if err != nil {
		return nil, noop, fmt.Errorf("loading questionnaire bundle: %w", err)
	}
	report := config.Validate(bundle)
	for _, w := range report.Warnings {
		logger.Warn("bundle warning", zap.String("version", bundle.Version), zap.String("warning", w))
	}
	engine := scoring.NewEngine(bundle)

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, noop, fmt.Errorf("creating template renderer: %w", err)
	}

	normalizer := archetype.NewNormalizer(logger.Named("archetype"))

	st, err := store.New(store.DefaultConfig(settings.DataDir), logger.Named("store"))
	if err != nil {
		return nil, noop, fmt.Errorf("opening store: %w", err)
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			logger.Warn("store close", zap.Error(err))
		}
	}

	held := pending.NewFileStore(settings.PendingDir())
	if n, err := held.Purge(PendingTTL); err != nil {
		logger.Warn("purging unclaimed results", zap.Error(err))
	} else if n > 0 {
		logger.Info("purged unclaimed results", zap.Int("count", n))
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"friendlens",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register questionnaire tools ---

	questionnaireTool := tools.NewQuestionnaireTool(engine, renderer)
	s.AddTool(questionnaireTool.Definition(), questionnaireTool.Handle)

	submitTool := tools.NewSubmitTool(engine, st, held, renderer, normalizer, logger.Named("submit"))
	s.AddTool(submitTool.Definition(), submitTool.Handle)

	resultTool := tools.NewResultTool(st, renderer, normalizer)
	s.AddTool(resultTool.Definition(), resultTool.Handle)

	claimTool := tools.NewClaimTool(st, held, renderer, normalizer, logger.Named("claim"))
	s.AddTool(claimTool.Definition(), claimTool.Handle)

	archetypeTool := tools.NewArchetypeTool(normalizer)
	s.AddTool(archetypeTool.Definition(), archetypeTool.Handle)

	registerCircleTools(s, st)

	statsTool := tools.NewStatsTool(st)
	s.AddTool(statsTool.Definition(), statsTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	explainPrompt := prompts.NewExplainPrompt()
	s.AddPrompt(explainPrompt.Definition(), explainPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(engine)
	s.AddResource(resourceHandler.QuestionsResource(), resourceHandler.HandleQuestions)
	s.AddResource(resourceHandler.TypesResource(), resourceHandler.HandleTypes)
	s.AddResource(resourceHandler.ArchetypesResource(), resourceHandler.HandleArchetypes)

	logger.Info("server ready",
		zap.String("version", Version),
		zap.String("bundle_version", bundle.Version),
		zap.String("data_dir", settings.DataDir),
	)
	return s, cleanup, nil
}

// noop is the cleanup returned when setup fails before the store opens.
func noop() {}

// registerCircleTools registers the friend, source, event and time tools.
func registerCircleTools(s *server.MCPServer, st *store.Store) {
	// --- Friends ---
	friendAdd := tools.NewFriendAddTool(st)
	s.AddTool(friendAdd.Definition(), friendAdd.Handle)

	friendUpdate := tools.NewFriendUpdateTool(st)
	s.AddTool(friendUpdate.Definition(), friendUpdate.Handle)

	friendList := tools.NewFriendListTool(st)
	s.AddTool(friendList.Definition(), friendList.Handle)

	friendDelete := tools.NewFriendDeleteTool(st)
	s.AddTool(friendDelete.Definition(), friendDelete.Handle)

	// --- Sources ---
	sourceAdd := tools.NewSourceAddTool(st)
	s.AddTool(sourceAdd.Definition(), sourceAdd.Handle)

	sourceList := tools.NewSourceListTool(st)
	s.AddTool(sourceList.Definition(), sourceList.Handle)

	sourceDelete := tools.NewSourceDeleteTool(st)
	s.AddTool(sourceDelete.Definition(), sourceDelete.Handle)

	// --- Events ---
	eventAdd := tools.NewEventAddTool(st)
	s.AddTool(eventAdd.Definition(), eventAdd.Handle)

	eventList := tools.NewEventListTool(st)
	s.AddTool(eventList.Definition(), eventList.Handle)

	eventDelete := tools.NewEventDeleteTool(st)
	s.AddTool(eventDelete.Definition(), eventDelete.Handle)

	// --- Time budget ---
	timeSet := tools.NewTimeSetTool(st)
	s.AddTool(timeSet.Definition(), timeSet.Handle)

	timeGet := tools.NewTimeGetTool(st)
	s.AddTool(timeGet.Definition(), timeGet.Handle)
}

// serverInstructions returns the system instructions that tell the AI
// how to use FriendLens.
func serverInstructions() string {
	return `You have access to FriendLens, a friendship-style profiling server.

## WHAT IT DOES

FriendLens scores a short ranked-choice questionnaire into six social
dimensions (Drive, Bond, Standing, Focus, Play, Calm), matches the user to
the closest of sixteen friendship types and names a primary and secondary
archetype. It also keeps a small record of the user's circle: friends,
where they met them, planned meetups and a weekly time budget.

## HOW TO RUN THE QUESTIONNAIRE

1. Call fl_questionnaire and ask the questions ONE AT A TIME.
2. Let the user rank options, most like them first. Partial rankings are fine.
3. Call fl_submit with all rankings. Pass user_id only if the user gave one.
4. Without user_id the result comes back with a claim token. Tell the user
   they can save it later with fl_claim.

## RULES

- Never invent option ids. Use the ids fl_questionnaire returns.
- Present archetypes with fl_archetype; do not make up descriptions.
- Scores are relative: the strongest dimension is always 100.
- Confidence below 50% means two types fit almost equally well. Say so.
- Friend, source, event and time tools always need the user's user_id.`
}
