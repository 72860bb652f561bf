package scoring

// DimensionWeight is one inline (dimension, weight) pair of an option.
type DimensionWeight struct {
	Dimension DimensionID `json:"dimension" yaml:"dimension"`
	Weight    float64     `json:"weight" yaml:"weight"`
}

// OptionConfig is a selectable answer. It carries inline weights, a
// behavioral rule reference, or neither (a neutral option).
type OptionConfig struct {
	ID             string            `json:"id"`
	Label          string            `json:"label"`
	Weights        []DimensionWeight `json:"weights,omitempty"`
	BehavioralRule string            `json:"behavioral_rule,omitempty"`
}

// QuestionConfig is one question of the questionnaire.
type QuestionConfig struct {
	ID      string         `json:"id"`
	Text    string         `json:"text"`
	Options []OptionConfig `json:"options"`
}

// BehavioralRules maps a rule name to its per-dimension weight vector.
type BehavioralRules map[string]Vector

// ReferenceType is a labeled point in dimension space. Its Vector is
// expressed on a 0..1 scale, not 0..100.
type ReferenceType struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ShortLabel       string `json:"short_label"`
	Description      string `json:"description,omitempty"`
	Vector           Vector `json:"vector"`
	PrimaryArchetype string `json:"primary_archetype"`
}

// UserResponse is a user's ranked selection for one question.
// RankedOptionIDs[0] is the strongest preference.
type UserResponse struct {
	QuestionID      string   `json:"question_id"`
	RankedOptionIDs []string `json:"ranked_option_ids"`
}

// Bundle is one immutable configuration version. It is read, never
// written, by the engine.
type Bundle struct {
	Version   string           `json:"version"`
	Questions []QuestionConfig `json:"questions"`
	Types     []ReferenceType  `json:"types"`
	Rules     BehavioralRules  `json:"behavioral_rules,omitempty"`
}

// MatchedType is the winning reference type with its distance.
type MatchedType struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ShortLabel string  `json:"short_label"`
	Distance   float64 `json:"distance"`
}

// Result is the output of one scoring call. It is freshly allocated on
// every call and owned by the caller.
type Result struct {
	RawScores          Vector      `json:"raw_scores"`
	NormalizedScores   Vector      `json:"normalized_scores"`
	MatchedType        MatchedType `json:"matched_type"`
	PrimaryArchetype   string      `json:"primary_archetype"`
	SecondaryArchetype string      `json:"secondary_archetype"`
	Confidence         float64     `json:"confidence"`
	// Distances holds the distance to every reference type, in the
	// order the types were configured.
	Distances []float64 `json:"distances,omitempty"`
}
