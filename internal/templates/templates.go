// Package templates renders the markdown shown to users.
//
// Templates are embedded in the binary and parsed once by NewRenderer.
package templates

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/friendlens/friendlens/internal/archetype"
	"github.com/friendlens/friendlens/internal/scoring"
)

//go:embed *.md.tmpl
var files embed.FS

// Name identifies one embedded template.
type Name string

const (
	Result        Name = "result.md.tmpl"
	Questionnaire Name = "questionnaire.md.tmpl"
)

// Renderer turns template data into markdown.
type Renderer interface {
	Render(name Name, data any) (string, error)
}

// EmbedRenderer renders the embedded templates.
type EmbedRenderer struct {
	tmpl *template.Template
}

var funcs = template.FuncMap{
	"percent": func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) },
}

// NewRenderer parses every embedded template.
func NewRenderer() (*EmbedRenderer, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(files, "*.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("templates: parse: %w", err)
	}
	return &EmbedRenderer{tmpl: tmpl}, nil
}

// Render executes the named template with data.
func (r *EmbedRenderer) Render(name Name, data any) (string, error) {
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, string(name), data); err != nil {
		return "", fmt.Errorf("templates: render %s: %w", name, err)
	}
	return b.String(), nil
}

// ─── Result ──────────────────────────────────────────────────────────────────

const barWidth = 20

// Bar is one dimension row of the result report.
type Bar struct {
	ID    scoring.DimensionID
	Name  string
	Score int
	Bar   string
}

// ResultData feeds the Result template.
type ResultData struct {
	Primary         archetype.Archetype
	Secondary       archetype.Archetype
	HasSecondary    bool
	Bars            []Bar
	Matched         scoring.MatchedType
	Confidence      float64
	ConfidenceLabel string
	ClaimToken      string
	ResultID        string
}

// NewResultData prepares a scoring result for rendering. Archetype ids
// are described through the archetype normalizer, so scorer labels and
// legacy ids both display as a canonical archetype.
func NewResultData(r *scoring.Result, n *archetype.Normalizer) ResultData {
	if n == nil {
		n = archetype.NewNormalizer(nil)
	}
	primary := n.Describe(r.PrimaryArchetype)
	secondary := n.Describe(r.SecondaryArchetype)

	bars := make([]Bar, 0, len(scoring.Dimensions))
	for _, d := range scoring.Dimensions {
		score := int(r.NormalizedScores.Get(d))
		bars = append(bars, Bar{ID: d, Name: d.Name(), Score: score, Bar: drawBar(score)})
	}

	return ResultData{
		Primary:         primary,
		Secondary:       secondary,
		HasSecondary:    secondary.ID != primary.ID,
		Bars:            bars,
		Matched:         r.MatchedType,
		Confidence:      r.Confidence,
		ConfidenceLabel: ConfidenceLabel(r.Confidence),
	}
}

// ConfidenceLabel buckets a confidence value for display.
func ConfidenceLabel(c float64) string {
	switch {
	case c >= 0.75:
		return "high"
	case c >= 0.5:
		return "moderate"
	default:
		return "low"
	}
}

func drawBar(score int) string {
	filled := score * barWidth / 100
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// ─── Questionnaire ───────────────────────────────────────────────────────────

// QuestionnaireData feeds the Questionnaire template.
type QuestionnaireData struct {
	Version   string
	Questions []scoring.QuestionConfig
}
