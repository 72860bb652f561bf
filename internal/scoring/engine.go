package scoring

// Run scores one set of responses against a configuration bundle.
//
// The only error is ErrNoTypes. Everything else that is malformed in the
// responses degrades to "contributes nothing".
func Run(bundle Bundle, responses []UserResponse) (*Result, error) {
	raw := Aggregate(bundle.Questions, responses, bundle.Rules)
	normalized := Normalize(raw)

	m, err := MatchType(normalized, bundle.Types)
	if err != nil {
		return nil, err
	}

	primary, secondary := SelectTop2(normalized)

	return &Result{
		RawScores:        raw,
		NormalizedScores: normalized,
		MatchedType: MatchedType{
			ID:         m.Type.ID,
			Name:       m.Type.Name,
			ShortLabel: m.Type.ShortLabel,
			Distance:   m.Distance,
		},
		PrimaryArchetype:   primary,
		SecondaryArchetype: secondary,
		Confidence:         EstimateConfidence(m.Distances),
		Distances:          m.Distances,
	}, nil
}

// Engine holds one bundle so callers can score repeatedly without
// passing it each time. It is safe for concurrent use because it never
// mutates the bundle.
type Engine struct {
	bundle Bundle
}

// NewEngine creates an Engine bound to bundle.
func NewEngine(bundle Bundle) *Engine {
	return &Engine{bundle: bundle}
}

// Bundle returns the configuration the engine scores against.
func (e *Engine) Bundle() Bundle {
	return e.bundle
}

// Score runs the scoring pipeline for responses.
func (e *Engine) Score(responses []UserResponse) (*Result, error) {
	return Run(e.bundle, responses)
}
