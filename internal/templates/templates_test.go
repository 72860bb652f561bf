package templates

import (
	"strings"
	"testing"

	"github.com/friendlens/friendlens/internal/scoring"
)

func sampleResult() *scoring.Result {
	return &scoring.Result{
		NormalizedScores: scoring.Vector{
			scoring.DimDA: 100, scoring.DimOX: 24, scoring.Dim5HT: 24,
			scoring.DimACh: 29, scoring.DimEN: 11, scoring.DimGABA: 16,
		},
		MatchedType:        scoring.MatchedType{ID: "trailblazer", Name: "The Trailblazer", ShortLabel: "TRL", Distance: 29.155},
		PrimaryArchetype:   "Hunter",
		SecondaryArchetype: "Sage",
		Confidence:         0.582,
	}
}

// --- NewRenderer ---

func TestNewRenderer_Succeeds(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() failed: %v", err)
	}
	if r == nil {
		t.Fatal("NewRenderer() returned nil")
	}
}

// --- Render: Result ---

func TestRender_Result(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	data := NewResultData(sampleResult(), nil)
	data.ResultID = "abc-123"

	out, err := r.Render(Result, data)
	if err != nil {
		t.Fatalf("Render(Result) failed: %v", err)
	}

	checks := []string{
		"**The Hunter**",
		"strong streak of **The Sage**",
		"| Drive (DA) | 100 | `████████████████████` |",
		"| Focus (ACh) | 29 |",
		"**The Trailblazer** [TRL], distance 29.2",
		"Confidence: 58% (moderate)",
		"Result id: `abc-123`",
	}
	for _, check := range checks {
		if !strings.Contains(out, check) {
			t.Errorf("Result output missing: %q\n%s", check, out)
		}
	}
	if strings.Contains(out, "fl_claim") {
		t.Error("claim section rendered without a token")
	}
}

func TestRender_ResultWithClaimToken(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	data := NewResultData(sampleResult(), nil)
	data.ClaimToken = "tok-1"

	out, err := r.Render(Result, data)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "`tok-1`") || !strings.Contains(out, "fl_claim") {
		t.Errorf("claim section missing:\n%s", out)
	}
}

func TestNewResultData_ScorerLabelsDisplayCanonical(t *testing.T) {
	res := sampleResult()
	res.PrimaryArchetype = "Competitor"
	res.SecondaryArchetype = "Anchor"

	data := NewResultData(res, nil)
	if data.Primary.ID != "Anchor" {
		t.Errorf("primary = %s, want Anchor", data.Primary.ID)
	}
	if data.HasSecondary {
		t.Error("HasSecondary = true when both resolve to Anchor")
	}
}

func TestNewResultData_BarsInCanonicalOrder(t *testing.T) {
	data := NewResultData(sampleResult(), nil)
	if len(data.Bars) != len(scoring.Dimensions) {
		t.Fatalf("bars = %d, want %d", len(data.Bars), len(scoring.Dimensions))
	}
	for i, d := range scoring.Dimensions {
		if data.Bars[i].ID != d {
			t.Errorf("bar %d = %s, want %s", i, data.Bars[i].ID, d)
		}
	}
	if got, want := data.Bars[4].Bar, strings.Repeat("█", 2)+strings.Repeat("░", 18); got != want {
		t.Errorf("EN bar = %q", got)
	}
}

func TestConfidenceLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.3, "low"},
		{0.49, "low"},
		{0.5, "moderate"},
		{0.74, "moderate"},
		{0.75, "high"},
		{0.9, "high"},
	}
	for _, tt := range tests {
		if got := ConfidenceLabel(tt.in); got != tt.want {
			t.Errorf("ConfidenceLabel(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

// --- Render: Questionnaire ---

func TestRender_Questionnaire(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	data := QuestionnaireData{
		Version: "test",
		Questions: []scoring.QuestionConfig{{
			ID:   "q01",
			Text: "Pick a weekend",
			Options: []scoring.OptionConfig{
				{ID: "hike", Label: "Go hiking"},
				{ID: "nap", Label: "Nap"},
			},
		}},
	}

	out, err := r.Render(Questionnaire, data)
	if err != nil {
		t.Fatalf("Render(Questionnaire) failed: %v", err)
	}
	for _, check := range []string{
		"version test",
		"## q01. Pick a weekend",
		"- `hike`: Go hiking",
		"- `nap`: Nap",
		"fl_submit",
	} {
		if !strings.Contains(out, check) {
			t.Errorf("Questionnaire output missing: %q\n%s", check, out)
		}
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Render(Name("nope.md.tmpl"), nil); err == nil {
		t.Error("expected error for unknown template")
	}
}
