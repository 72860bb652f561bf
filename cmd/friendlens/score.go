package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/friendlens/friendlens/internal/config"
	"github.com/friendlens/friendlens/internal/scoring"
	"github.com/friendlens/friendlens/internal/tools"
)

// errValidationFailed makes the process exit non-zero after the report
// has been printed.
var errValidationFailed = errors.New("validation failed")

func newScoreCmd(a *app) *cobra.Command {
	var responsesPath string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a file of answers and print the result as JSON",
		Long: `Reads answers in either form fl_submit accepts:

  [{"question_id": "q01", "ranked_option_ids": ["plan_adventure", "long_talk"]}]
  {"q01": ["plan_adventure", "long_talk"]}

Use "-" to read from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, responsesPath)
			if err != nil {
				return err
			}
			parsed, err := tools.ParseResponses(string(raw))
			if err != nil {
				return err
			}
			responses := tools.DedupeResponses(parsed)

			bundle, err := config.ActiveBundle(a.settings)
			if err != nil {
				return err
			}
			for _, note := range tools.CheckResponses(bundle, responses) {
				a.logger.Warn("answer ignored", zap.String("note", note))
			}

			result, err := scoring.Run(bundle, responses)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&responsesPath, "responses", "", "JSON file with ranked answers, or - for stdin")
	_ = cmd.MarkFlagRequired("responses")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Score the built-in validation answers and check the expected outcome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := config.ActiveBundle(a.settings)
			if err != nil {
				return err
			}
			c, err := config.DefaultValidation()
			if err != nil {
				return err
			}
			outcome, err := config.RunValidation(bundle, c)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			r := outcome.Result
			fmt.Fprintf(out, "case:       %s\n", outcome.Case)
			fmt.Fprintf(out, "bundle:     %s\n", bundle.Version)
			fmt.Fprintf(out, "matched:    %s (%s), distance %.2f\n", r.MatchedType.Name, r.MatchedType.ID, r.MatchedType.Distance)
			fmt.Fprintf(out, "archetypes: %s / %s\n", r.PrimaryArchetype, r.SecondaryArchetype)
			fmt.Fprintf(out, "confidence: %.4f\n", r.Confidence)
			for _, d := range scoring.Dimensions {
				fmt.Fprintf(out, "  %-5s %-9s raw %7.2f  normalized %3.0f\n",
					d, d.Name(), r.RawScores.Get(d), r.NormalizedScores.Get(d))
			}

			if !outcome.Passed() {
				for _, f := range outcome.Failures {
					fmt.Fprintf(out, "FAIL: %s\n", f)
				}
				return errValidationFailed
			}
			fmt.Fprintln(out, "PASS")
			return nil
		},
	}
}

func newCheckConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Validate a questionnaire bundle and list problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				bundle scoring.Bundle
				err    error
				source = "built-in bundle"
			)
			if a.settings.BundlePath == "" {
				bundle, err = config.DefaultBundle()
			} else {
				source = a.settings.BundlePath
				var data []byte
				if data, err = os.ReadFile(a.settings.BundlePath); err == nil {
					bundle, err = config.ParseBundle(data)
				}
			}
			if err != nil {
				return err
			}

			report := config.Validate(bundle)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (version %q): %d questions, %d types, %d rules\n",
				source, bundle.Version, len(bundle.Questions), len(bundle.Types), len(bundle.Rules))
			for _, w := range report.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			for _, e := range report.Errors {
				fmt.Fprintf(out, "error: %s\n", e)
			}
			if err := report.Err(); err != nil {
				return err
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading responses: %w", err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
