package scoring

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// singleOptionQuestion builds a question with one option weighting dim by w.
func singleOptionQuestion(id string, dim DimensionID, w float64) QuestionConfig {
	return QuestionConfig{
		ID:   id,
		Text: "question " + id,
		Options: []OptionConfig{
			{ID: "only", Label: "Only", Weights: []DimensionWeight{{Dimension: dim, Weight: w}}},
		},
	}
}

// --- RankWeight ---

func TestRankWeight(t *testing.T) {
	tests := []struct {
		rank int
		want float64
	}{
		{-3, 0},
		{0, 0},
		{1, 5},
		{2, 4},
		{3, 3},
		{4, 2},
		{5, 1},
		{6, 1},
		{100, 1},
	}

	for _, tt := range tests {
		if got := RankWeight(tt.rank); got != tt.want {
			t.Errorf("RankWeight(%d) = %v, want %v", tt.rank, got, tt.want)
		}
	}
}

// --- Aggregate ---

func TestAggregate_RankWeightMonotonicity(t *testing.T) {
	const w = 1.5
	q := QuestionConfig{
		ID: "q",
		Options: []OptionConfig{
			{ID: "target", Weights: []DimensionWeight{{Dimension: DimEN, Weight: w}}},
			{ID: "f1"}, {ID: "f2"}, {ID: "f3"}, {ID: "f4"}, {ID: "f5"},
		},
	}
	fillers := []string{"f1", "f2", "f3", "f4", "f5"}

	for rank, want := range map[int]float64{1: 5 * w, 2: 4 * w, 3: 3 * w, 4: 2 * w, 5: 1 * w, 6: 1 * w} {
		ranked := append([]string{}, fillers[:rank-1]...)
		ranked = append(ranked, "target")

		raw := Aggregate([]QuestionConfig{q}, []UserResponse{{QuestionID: "q", RankedOptionIDs: ranked}}, nil)
		if got := raw.Get(DimEN); got != want {
			t.Errorf("rank %d: EN = %v, want %v", rank, got, want)
		}
	}
}

func TestAggregate_EmptyResponses(t *testing.T) {
	raw := Aggregate([]QuestionConfig{singleOptionQuestion("q1", DimDA, 1)}, nil, nil)

	if len(raw) != len(Dimensions) {
		t.Fatalf("raw has %d dimensions, want %d", len(raw), len(Dimensions))
	}
	for _, d := range Dimensions {
		if raw[d] != 0 {
			t.Errorf("raw[%s] = %v, want 0", d, raw[d])
		}
	}
}

func TestAggregate_UnknownQuestionIsNoOp(t *testing.T) {
	questions := []QuestionConfig{singleOptionQuestion("q1", DimDA, 1)}
	base := []UserResponse{{QuestionID: "q1", RankedOptionIDs: []string{"only"}}}

	want := Aggregate(questions, base, nil)
	got := Aggregate(questions, append(base, UserResponse{
		QuestionID:      "does-not-exist",
		RankedOptionIDs: []string{"only"},
	}), nil)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unknown question changed raw vector (-want +got):\n%s", diff)
	}
}

func TestAggregate_UnknownOptionSkipped(t *testing.T) {
	questions := []QuestionConfig{singleOptionQuestion("q1", DimOX, 2)}
	raw := Aggregate(questions, []UserResponse{
		{QuestionID: "q1", RankedOptionIDs: []string{"ghost", "only"}},
	}, nil)

	// "only" sits at rank 2 even though rank 1 did not resolve.
	if got := raw.Get(DimOX); got != 8 {
		t.Errorf("OX = %v, want 8", got)
	}
}

func TestAggregate_BehavioralRuleWinsOverInlineWeights(t *testing.T) {
	questions := []QuestionConfig{{
		ID: "q1",
		Options: []OptionConfig{{
			ID:             "both",
			Weights:        []DimensionWeight{{Dimension: DimDA, Weight: 1}},
			BehavioralRule: "calm",
		}},
	}}
	rules := BehavioralRules{"calm": {DimGABA: 1, DimOX: 0.5}}

	raw := Aggregate(questions, []UserResponse{{QuestionID: "q1", RankedOptionIDs: []string{"both"}}}, rules)

	want := Vector{DimDA: 0, DimOX: 2.5, Dim5HT: 0, DimACh: 0, DimEN: 0, DimGABA: 5}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Errorf("raw mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_UnresolvedRuleFallsBackToInline(t *testing.T) {
	questions := []QuestionConfig{{
		ID: "q1",
		Options: []OptionConfig{{
			ID:             "legacy",
			Weights:        []DimensionWeight{{Dimension: DimACh, Weight: 1}},
			BehavioralRule: "removed_rule",
		}},
	}}

	raw := Aggregate(questions, []UserResponse{{QuestionID: "q1", RankedOptionIDs: []string{"legacy"}}}, BehavioralRules{})
	if got := raw.Get(DimACh); got != 5 {
		t.Errorf("ACh = %v, want 5", got)
	}
}

func TestAggregate_UnresolvedRuleWithoutWeightsContributesNothing(t *testing.T) {
	questions := []QuestionConfig{{
		ID:      "q1",
		Options: []OptionConfig{{ID: "dangling", BehavioralRule: "nope"}, {ID: "neutral"}},
	}}

	raw := Aggregate(questions, []UserResponse{{QuestionID: "q1", RankedOptionIDs: []string{"dangling", "neutral"}}}, nil)
	for _, d := range Dimensions {
		if raw[d] != 0 {
			t.Errorf("raw[%s] = %v, want 0", d, raw[d])
		}
	}
}

func TestAggregate_DuplicateOptionCountedTwice(t *testing.T) {
	questions := []QuestionConfig{singleOptionQuestion("q1", DimDA, 1)}

	raw := Aggregate(questions, []UserResponse{{QuestionID: "q1", RankedOptionIDs: []string{"only", "only"}}}, nil)
	if got := raw.Get(DimDA); got != 9 {
		t.Errorf("DA = %v, want 9 (5 + 4)", got)
	}
}

func TestAggregate_AccumulatesAcrossQuestions(t *testing.T) {
	questions := []QuestionConfig{
		singleOptionQuestion("q1", DimDA, 1),
		singleOptionQuestion("q2", DimDA, 0.5),
	}

	raw := Aggregate(questions, []UserResponse{
		{QuestionID: "q2", RankedOptionIDs: []string{"only"}},
		{QuestionID: "q1", RankedOptionIDs: []string{"only"}},
	}, nil)
	if got := raw.Get(DimDA); got != 7.5 {
		t.Errorf("DA = %v, want 7.5", got)
	}
}
