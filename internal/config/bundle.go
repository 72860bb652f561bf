// Package config loads the questionnaire bundle and the runtime settings.
//
// A bundle is plain YAML. The default one ships inside the binary; an
// override file can be pointed to with --config or FRIENDLENS_CONFIG.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/friendlens/friendlens/internal/scoring"
)

//go:embed friendlens.yaml
var defaultBundleYAML []byte

// ErrInvalid is returned when a bundle has structural errors that make
// scoring against it meaningless.
var ErrInvalid = errors.New("config: invalid bundle")

// ─── YAML shape ─────────────────────────────────────────────────────────────

type bundleFile struct {
	Version   string                        `yaml:"version"`
	Rules     map[string]map[string]float64 `yaml:"behavioral_rules"`
	Questions []questionFile                `yaml:"questions"`
	Types     []typeFile                    `yaml:"types"`
}

type questionFile struct {
	ID      string       `yaml:"id"`
	Text    string       `yaml:"text"`
	Options []optionFile `yaml:"options"`
}

type optionFile struct {
	ID             string             `yaml:"id"`
	Label          string             `yaml:"label"`
	Weights        map[string]float64 `yaml:"weights"`
	BehavioralRule string             `yaml:"behavioral_rule"`
}

type typeFile struct {
	ID               string             `yaml:"id"`
	Name             string             `yaml:"name"`
	ShortLabel       string             `yaml:"short_label"`
	Description      string             `yaml:"description"`
	PrimaryArchetype string             `yaml:"primary_archetype"`
	Vector           map[string]float64 `yaml:"vector"`
}

// ─── Loading ────────────────────────────────────────────────────────────────

// DefaultBundle returns the bundle embedded in the binary.
func DefaultBundle() (scoring.Bundle, error) {
	b, err := ParseBundle(defaultBundleYAML)
	if err != nil {
		return scoring.Bundle{}, fmt.Errorf("config: default bundle: %w", err)
	}
	return b, nil
}

// LoadBundle reads and validates a bundle file. Warnings are not fatal;
// errors are returned wrapped in ErrInvalid.
func LoadBundle(path string) (scoring.Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Bundle{}, fmt.Errorf("config: read bundle: %w", err)
	}
	b, err := ParseBundle(data)
	if err != nil {
		return scoring.Bundle{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := Validate(b).Err(); err != nil {
		return scoring.Bundle{}, err
	}
	return b, nil
}

// ActiveBundle returns the bundle selected by settings: the override file
// when BundlePath is set, the embedded default otherwise.
func ActiveBundle(s Settings) (scoring.Bundle, error) {
	if s.BundlePath == "" {
		return DefaultBundle()
	}
	return LoadBundle(s.BundlePath)
}

// ParseBundle decodes YAML into a scoring bundle. Unknown YAML keys are
// rejected so typos in hand-edited files surface early. It does not run
// Validate.
func ParseBundle(data []byte) (scoring.Bundle, error) {
	var f bundleFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return scoring.Bundle{}, fmt.Errorf("parse bundle: %w", err)
	}
	return f.toBundle(), nil
}

func (f bundleFile) toBundle() scoring.Bundle {
	b := scoring.Bundle{
		Version:   f.Version,
		Questions: make([]scoring.QuestionConfig, 0, len(f.Questions)),
		Types:     make([]scoring.ReferenceType, 0, len(f.Types)),
	}

	if len(f.Rules) > 0 {
		b.Rules = make(scoring.BehavioralRules, len(f.Rules))
		for name, weights := range f.Rules {
			b.Rules[name] = toVector(weights)
		}
	}

	for _, q := range f.Questions {
		qc := scoring.QuestionConfig{
			ID:      q.ID,
			Text:    q.Text,
			Options: make([]scoring.OptionConfig, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			qc.Options = append(qc.Options, scoring.OptionConfig{
				ID:             o.ID,
				Label:          o.Label,
				Weights:        toWeights(o.Weights),
				BehavioralRule: o.BehavioralRule,
			})
		}
		b.Questions = append(b.Questions, qc)
	}

	for _, t := range f.Types {
		b.Types = append(b.Types, scoring.ReferenceType{
			ID:               t.ID,
			Name:             t.Name,
			ShortLabel:       t.ShortLabel,
			Description:      t.Description,
			Vector:           toVector(t.Vector),
			PrimaryArchetype: t.PrimaryArchetype,
		})
	}

	return b
}

func toVector(m map[string]float64) scoring.Vector {
	v := make(scoring.Vector, len(m))
	for k, w := range m {
		v[scoring.DimensionID(k)] = w
	}
	return v
}

// toWeights flattens a YAML weight map into canonical dimension order.
// Unknown keys are kept, sorted after the known ones, so Validate can
// report them.
func toWeights(m map[string]float64) []scoring.DimensionWeight {
	if len(m) == 0 {
		return nil
	}
	out := make([]scoring.DimensionWeight, 0, len(m))
	for k, w := range m {
		out = append(out, scoring.DimensionWeight{Dimension: scoring.DimensionID(k), Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		oi, oj := dimensionOrder(out[i].Dimension), dimensionOrder(out[j].Dimension)
		if oi != oj {
			return oi < oj
		}
		return out[i].Dimension < out[j].Dimension
	})
	return out
}

func dimensionOrder(d scoring.DimensionID) int {
	for i, dim := range scoring.Dimensions {
		if dim == d {
			return i
		}
	}
	return len(scoring.Dimensions)
}
