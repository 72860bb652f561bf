// FriendLens: friendship-style profiling MCP server.
//
// Usage:
//
//	friendlens serve                                # Start MCP server (stdio transport)
//	friendlens score --responses answers.json       # Score answers, print JSON
//	friendlens validate                             # Run the built-in validation case
//	friendlens check-config --config bundle.yaml    # Validate a questionnaire bundle
//	friendlens version
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/friendlens/friendlens/internal/config"
	"github.com/friendlens/friendlens/internal/logging"
	flserver "github.com/friendlens/friendlens/internal/server"
)

// app holds what the persistent pre-run prepares for every command.
type app struct {
	settings config.Settings
	logger   *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{settings: config.DefaultSettings().WithEnv()}

	root := &cobra.Command{
		Use:   "friendlens",
		Short: "FriendLens - friendship-style profiling over MCP",
		Long: `FriendLens scores a ranked-choice questionnaire into six social
dimensions, matches the closest of sixteen friendship types and keeps a
small record of the user's circle.

Run "friendlens serve" from an MCP client to use it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(a.settings)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.settings.DataDir, "data-dir", a.settings.DataDir, "Data directory (env "+config.EnvDataDir+")")
	flags.StringVar(&a.settings.BundlePath, "config", a.settings.BundlePath, "Questionnaire bundle YAML; empty uses the built-in one (env "+config.EnvConfig+")")
	flags.StringVar(&a.settings.LogLevel, "log-level", a.settings.LogLevel, "debug, info, warn or error (env "+config.EnvLogLevel+")")

	root.AddCommand(
		newServeCmd(a),
		newScoreCmd(a),
		newValidateCmd(a),
		newCheckConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := flserver.New(a.settings, a.logger)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			defer cleanup()

			// ServeStdio handles SIGINT and SIGTERM itself.
			return server.ServeStdio(s)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "friendlens v%s\n", flserver.Version)
			return err
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
