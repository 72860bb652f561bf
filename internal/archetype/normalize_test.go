package archetype

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestToPrimaryType(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"exact", "Explorer", Explorer},
		{"subtype suffix", "Anchor_A", Anchor},
		{"subtype suffix long", "FlowMaker_night_owl", FlowMaker},
		{"lower case first letter", "hunter", Hunter},
		{"capitalize only first", "builder", Builder},
		{"all caps", "SAGE", Sage},
		{"mixed case", "fLoWmAkEr", FlowMaker},
		{"lower subtype", "bonder_b", Bonder},
		{"substring", "the-connector-type", Connector},
		{"legacy prefix", "legacyExplorer2", Explorer},
		{"unknown", "totally-unknown-xyz", Anchor},
		{"empty", "", Anchor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToPrimaryType(tt.raw); got != tt.want {
				t.Errorf("ToPrimaryType(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// Competitor is a scorer-internal label with no display counterpart.
// It falls through to the default today; this test pins that drift so a
// change in either taxonomy is a deliberate decision.
func TestToPrimaryType_ScorerOnlyLabelFallsBack(t *testing.T) {
	if got := ToPrimaryType("Competitor"); got != Default {
		t.Errorf("ToPrimaryType(Competitor) = %q, want %q", got, Default)
	}
}

func TestToPrimaryType_ScorerLabelsThatOverlap(t *testing.T) {
	for _, id := range []string{"Hunter", "Bonder", "Sage", "FlowMaker", "Anchor"} {
		if got := ToPrimaryType(id); got != id {
			t.Errorf("ToPrimaryType(%q) = %q, want unchanged", id, got)
		}
	}
}

func TestNormalizer_WarnsOnFallback(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	n := NewNormalizer(zap.New(core))

	if got := n.ToPrimaryType("mystery_type"); got != Default {
		t.Fatalf("got %q, want %q", got, Default)
	}

	entries := logs.FilterMessage("unrecognized archetype id, using default").All()
	if len(entries) != 1 {
		t.Fatalf("got %d warnings, want 1", len(entries))
	}
	if raw := entries[0].ContextMap()["raw_id"]; raw != "mystery_type" {
		t.Errorf("raw_id = %v, want mystery_type", raw)
	}
}

func TestNormalizer_NoWarningOnHit(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := NewNormalizer(zap.New(core))

	_ = n.ToPrimaryType("Anchor_C")
	_ = n.ToPrimaryType("explorer")

	if logs.Len() != 0 {
		t.Errorf("got %d log entries, want 0", logs.Len())
	}
}

func TestNormalizer_Describe(t *testing.T) {
	a := NewNormalizer(nil).Describe("connector_x")
	if a.ID != Connector {
		t.Errorf("Describe ID = %q, want %q", a.ID, Connector)
	}
	if a.Tagline == "" {
		t.Error("Describe returned empty tagline")
	}
}
