package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/friendlens/friendlens/internal/scoring"
)

// --- DefaultBundle ---

func TestDefaultBundle_Shape(t *testing.T) {
	b, err := DefaultBundle()
	if err != nil {
		t.Fatalf("DefaultBundle: %v", err)
	}

	if b.Version == "" {
		t.Error("Version is empty")
	}
	if len(b.Questions) != 12 {
		t.Errorf("questions = %d, want 12", len(b.Questions))
	}
	for _, q := range b.Questions {
		if len(q.Options) != 5 {
			t.Errorf("question %s has %d options, want 5", q.ID, len(q.Options))
		}
	}
	if len(b.Types) != 16 {
		t.Errorf("types = %d, want 16", len(b.Types))
	}
	if len(b.Rules) != 6 {
		t.Errorf("rules = %d, want 6", len(b.Rules))
	}
}

func TestDefaultBundle_ValidatesClean(t *testing.T) {
	b, err := DefaultBundle()
	if err != nil {
		t.Fatalf("DefaultBundle: %v", err)
	}

	r := Validate(b)
	if !r.OK() {
		t.Errorf("errors = %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", r.Warnings)
	}
}

func TestDefaultBundle_WeightsInCanonicalOrder(t *testing.T) {
	b, err := DefaultBundle()
	if err != nil {
		t.Fatalf("DefaultBundle: %v", err)
	}

	got := b.Questions[0].Options[0]
	if got.ID != "plan_adventure" {
		t.Fatalf("first option = %s, want plan_adventure", got.ID)
	}
	want := []scoring.DimensionWeight{
		{Dimension: scoring.DimDA, Weight: 1.0},
		{Dimension: scoring.DimEN, Weight: 0.3},
	}
	if diff := cmp.Diff(want, got.Weights); diff != "" {
		t.Errorf("weights mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultBundle_RuleDimensionsDecoded(t *testing.T) {
	b, err := DefaultBundle()
	if err != nil {
		t.Fatalf("DefaultBundle: %v", err)
	}

	want := scoring.Vector{scoring.Dim5HT: 1.0, scoring.DimDA: 0.2}
	if diff := cmp.Diff(want, b.Rules["status_seeker"]); diff != "" {
		t.Errorf("status_seeker mismatch (-want +got):\n%s", diff)
	}
}

// --- ParseBundle / LoadBundle ---

const minimalBundle = `
version: "test"
questions:
  - id: q1
    text: Pick one
    options:
      - { id: a, label: A, weights: { DA: 1 } }
types:
  - id: t1
    name: T1
    short_label: T
    primary_archetype: Hunter
    vector: { DA: 1 }
`

func TestParseBundle_Minimal(t *testing.T) {
	b, err := ParseBundle([]byte(minimalBundle))
	if err != nil {
		t.Fatalf("ParseBundle: %v", err)
	}
	if b.Version != "test" {
		t.Errorf("Version = %s, want test", b.Version)
	}
	if b.Rules != nil {
		t.Errorf("Rules = %v, want nil", b.Rules)
	}
	if got := b.Types[0].Vector.Get(scoring.DimDA); got != 1 {
		t.Errorf("type DA = %v, want 1", got)
	}
}

func TestParseBundle_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseBundle([]byte("version: x\nquestionz: []\n"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadBundle_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.yaml")
	if err := os.WriteFile(path, []byte(minimalBundle), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := LoadBundle(path)
	if err != nil {
		t.Fatalf("LoadBundle: %v", err)
	}
	if len(b.Questions) != 1 || len(b.Types) != 1 {
		t.Errorf("got %d questions / %d types, want 1 / 1", len(b.Questions), len(b.Types))
	}
}

func TestLoadBundle_InvalidIsErrInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.yaml")
	if err := os.WriteFile(path, []byte("version: x\nquestions: []\ntypes: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadBundle(path)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	if !strings.Contains(err.Error(), "no reference types") {
		t.Errorf("err = %v, want mention of reference types", err)
	}
}

func TestLoadBundle_MissingFile(t *testing.T) {
	_, err := LoadBundle(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestActiveBundle_DefaultWhenNoPath(t *testing.T) {
	b, err := ActiveBundle(Settings{})
	if err != nil {
		t.Fatalf("ActiveBundle: %v", err)
	}
	if len(b.Types) != 16 {
		t.Errorf("types = %d, want embedded 16", len(b.Types))
	}
}

// --- Validate ---

func validBundle() scoring.Bundle {
	return scoring.Bundle{
		Version: "v",
		Questions: []scoring.QuestionConfig{{
			ID: "q1",
			Options: []scoring.OptionConfig{
				{ID: "a", Weights: []scoring.DimensionWeight{{Dimension: scoring.DimDA, Weight: 1}}},
				{ID: "b", BehavioralRule: "calm"},
			},
		}},
		Types: []scoring.ReferenceType{{
			ID: "t1", PrimaryArchetype: "Anchor",
			Vector: scoring.Vector{scoring.DimGABA: 1},
		}},
		Rules: scoring.BehavioralRules{"calm": {scoring.DimGABA: 1}},
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *scoring.Bundle)
		want   string
	}{
		{"duplicate question", func(b *scoring.Bundle) {
			b.Questions = append(b.Questions, b.Questions[0])
		}, `duplicate question id "q1"`},
		{"duplicate option", func(b *scoring.Bundle) {
			b.Questions[0].Options = append(b.Questions[0].Options, scoring.OptionConfig{ID: "a"})
		}, `duplicate option id "a"`},
		{"unknown option dimension", func(b *scoring.Bundle) {
			b.Questions[0].Options[0].Weights = []scoring.DimensionWeight{{Dimension: "XX", Weight: 1}}
		}, `unknown dimension "XX"`},
		{"unknown rule dimension", func(b *scoring.Bundle) {
			b.Rules["calm"] = scoring.Vector{"ZZ": 1}
		}, `behavioral rule "calm": unknown dimension "ZZ"`},
		{"type vector above one", func(b *scoring.Bundle) {
			b.Types[0].Vector = scoring.Vector{scoring.DimDA: 1.5}
		}, "outside [0,1]"},
		{"type vector negative", func(b *scoring.Bundle) {
			b.Types[0].Vector = scoring.Vector{scoring.DimOX: -0.1}
		}, "outside [0,1]"},
		{"no types", func(b *scoring.Bundle) {
			b.Types = nil
		}, "no reference types"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBundle()
			tt.mutate(&b)

			r := Validate(b)
			if r.OK() {
				t.Fatal("expected errors")
			}
			if !strings.Contains(strings.Join(r.Errors, "\n"), tt.want) {
				t.Errorf("errors = %v, want one containing %q", r.Errors, tt.want)
			}
			if !errors.Is(r.Err(), ErrInvalid) {
				t.Errorf("Err() = %v, want ErrInvalid", r.Err())
			}
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *scoring.Bundle)
		want   string
	}{
		{"unresolved rule, neutral", func(b *scoring.Bundle) {
			b.Questions[0].Options[1].BehavioralRule = "missing"
		}, `behavioral rule "missing" not found, option is neutral`},
		{"unresolved rule, inline fallback", func(b *scoring.Bundle) {
			b.Questions[0].Options[0].BehavioralRule = "missing"
		}, "inline weights used"},
		{"non-canonical archetype", func(b *scoring.Bundle) {
			b.Types[0].PrimaryArchetype = "Competitor"
		}, `"Competitor" is not canonical, displayed as "Anchor"`},
		{"no version", func(b *scoring.Bundle) {
			b.Version = ""
		}, "no version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBundle()
			tt.mutate(&b)

			r := Validate(b)
			if !r.OK() {
				t.Fatalf("unexpected errors: %v", r.Errors)
			}
			if !strings.Contains(strings.Join(r.Warnings, "\n"), tt.want) {
				t.Errorf("warnings = %v, want one containing %q", r.Warnings, tt.want)
			}
		})
	}
}

func TestValidate_CleanBundle(t *testing.T) {
	r := Validate(validBundle())
	if !r.OK() || len(r.Warnings) != 0 {
		t.Errorf("report = %+v, want clean", r)
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

// --- Settings ---

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if filepath.Base(s.DataDir) != ".friendlens" {
		t.Errorf("DataDir = %s, want .../.friendlens", s.DataDir)
	}
	if s.BundlePath != "" {
		t.Errorf("BundlePath = %q, want empty", s.BundlePath)
	}
	if s.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", s.LogLevel)
	}
}

func TestSettings_WithEnv(t *testing.T) {
	t.Setenv(EnvDataDir, "/tmp/fl")
	t.Setenv(EnvConfig, "/tmp/fl/bundle.yaml")
	t.Setenv(EnvLogLevel, "debug")

	s := DefaultSettings().WithEnv()
	want := Settings{DataDir: "/tmp/fl", BundlePath: "/tmp/fl/bundle.yaml", LogLevel: "debug"}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
	if s.PendingDir() != filepath.Join("/tmp/fl", "pending") {
		t.Errorf("PendingDir = %s", s.PendingDir())
	}
}

func TestSettings_WithEnvKeepsDefaultsWhenUnset(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvLogLevel, "")

	base := Settings{DataDir: "/data", LogLevel: "warn"}
	if diff := cmp.Diff(base, base.WithEnv()); diff != "" {
		t.Errorf("settings changed (-want +got):\n%s", diff)
	}
}

// --- Validation case ---

func TestDefaultValidation_DriveConsistentAnswers(t *testing.T) {
	b, err := DefaultBundle()
	if err != nil {
		t.Fatalf("DefaultBundle: %v", err)
	}
	c, err := DefaultValidation()
	if err != nil {
		t.Fatalf("DefaultValidation: %v", err)
	}
	if len(c.Responses) != 12 {
		t.Fatalf("responses = %d, want 12", len(c.Responses))
	}

	out, err := RunValidation(b, c)
	if err != nil {
		t.Fatalf("RunValidation: %v", err)
	}
	if !out.Passed() {
		t.Errorf("failures = %v", out.Failures)
	}

	res := out.Result
	if res.PrimaryArchetype != scoring.ArchetypeHunter {
		t.Errorf("primary = %s, want Hunter", res.PrimaryArchetype)
	}
	if res.SecondaryArchetype != scoring.ArchetypeSage {
		t.Errorf("secondary = %s, want Sage", res.SecondaryArchetype)
	}
	if res.MatchedType.ID != "trailblazer" {
		t.Errorf("matched = %s, want trailblazer", res.MatchedType.ID)
	}
	if res.Confidence <= 0.5 {
		t.Errorf("confidence = %v, want > 0.5", res.Confidence)
	}

	wantNorm := scoring.Vector{
		scoring.DimDA: 100, scoring.DimOX: 24, scoring.Dim5HT: 24,
		scoring.DimACh: 29, scoring.DimEN: 11, scoring.DimGABA: 16,
	}
	if diff := cmp.Diff(wantNorm, res.NormalizedScores); diff != "" {
		t.Errorf("normalized mismatch (-want +got):\n%s", diff)
	}
}

func TestRunValidation_ReportsFailures(t *testing.T) {
	b, err := DefaultBundle()
	if err != nil {
		t.Fatalf("DefaultBundle: %v", err)
	}
	c, err := DefaultValidation()
	if err != nil {
		t.Fatalf("DefaultValidation: %v", err)
	}
	c.Expect = Expectation{PrimaryArchetype: "Bonder", MatchedType: "rock", MinConfidence: 0.95}

	out, err := RunValidation(b, c)
	if err != nil {
		t.Fatalf("RunValidation: %v", err)
	}
	if out.Passed() {
		t.Fatal("expected failures")
	}
	if len(out.Failures) != 3 {
		t.Errorf("failures = %v, want 3", out.Failures)
	}
}

func TestRunValidation_NoTypes(t *testing.T) {
	c, err := DefaultValidation()
	if err != nil {
		t.Fatalf("DefaultValidation: %v", err)
	}

	_, err = RunValidation(scoring.Bundle{}, c)
	if !errors.Is(err, scoring.ErrNoTypes) {
		t.Errorf("err = %v, want ErrNoTypes", err)
	}
}
