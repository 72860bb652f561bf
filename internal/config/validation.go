package config

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/friendlens/friendlens/internal/scoring"
)

//go:embed validation.yaml
var validationYAML []byte

// ValidationCase is a scripted set of answers with the outcome a bundle
// is expected to produce for them.
type ValidationCase struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Expect      Expectation        `yaml:"expect"`
	Responses   []validationAnswer `yaml:"responses"`
}

// Expectation lists what a validation run must produce. Empty fields are
// not checked.
type Expectation struct {
	PrimaryArchetype string  `yaml:"primary_archetype"`
	MatchedType      string  `yaml:"matched_type"`
	MinConfidence    float64 `yaml:"min_confidence"`
}

type validationAnswer struct {
	QuestionID string   `yaml:"question_id"`
	Ranked     []string `yaml:"ranked"`
}

// DefaultValidation returns the embedded validation case.
func DefaultValidation() (*ValidationCase, error) {
	var c ValidationCase
	dec := yaml.NewDecoder(bytes.NewReader(validationYAML))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("config: parse validation case: %w", err)
	}
	return &c, nil
}

// UserResponses converts the scripted answers into engine input.
func (c *ValidationCase) UserResponses() []scoring.UserResponse {
	out := make([]scoring.UserResponse, 0, len(c.Responses))
	for _, a := range c.Responses {
		out = append(out, scoring.UserResponse{
			QuestionID:      a.QuestionID,
			RankedOptionIDs: append([]string(nil), a.Ranked...),
		})
	}
	return out
}

// ValidationOutcome is the result of running one case.
type ValidationOutcome struct {
	Case     string          `json:"case"`
	Result   *scoring.Result `json:"result"`
	Failures []string        `json:"failures,omitempty"`
}

// Passed reports whether every expectation held.
func (o *ValidationOutcome) Passed() bool { return len(o.Failures) == 0 }

// RunValidation scores c against bundle and checks the expectations.
// The error is reserved for a bundle that cannot be scored at all.
func RunValidation(bundle scoring.Bundle, c *ValidationCase) (*ValidationOutcome, error) {
	res, err := scoring.Run(bundle, c.UserResponses())
	if err != nil {
		return nil, fmt.Errorf("config: run validation %q: %w", c.Name, err)
	}

	out := &ValidationOutcome{Case: c.Name, Result: res}
	if want := c.Expect.PrimaryArchetype; want != "" && res.PrimaryArchetype != want {
		out.Failures = append(out.Failures,
			fmt.Sprintf("primary archetype = %s, want %s", res.PrimaryArchetype, want))
	}
	if want := c.Expect.MatchedType; want != "" && res.MatchedType.ID != want {
		out.Failures = append(out.Failures,
			fmt.Sprintf("matched type = %s, want %s", res.MatchedType.ID, want))
	}
	if floor := c.Expect.MinConfidence; floor > 0 && res.Confidence <= floor {
		out.Failures = append(out.Failures,
			fmt.Sprintf("confidence = %.3f, want > %.3f", res.Confidence, floor))
	}
	return out, nil
}
