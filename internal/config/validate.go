package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/friendlens/friendlens/internal/archetype"
	"github.com/friendlens/friendlens/internal/scoring"
)

// Report is the outcome of Validate. Errors make a bundle unusable;
// warnings describe things the engine tolerates but a reviewer should see.
type Report struct {
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// OK reports whether the bundle has no errors.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

// Err returns nil for a usable bundle and an ErrInvalid wrap otherwise.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(r.Errors, "; "))
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks a bundle for structural problems.
func Validate(b scoring.Bundle) *Report {
	r := &Report{}

	if b.Version == "" {
		r.warnf("bundle has no version")
	}

	ruleNames := make([]string, 0, len(b.Rules))
	for name := range b.Rules {
		ruleNames = append(ruleNames, name)
	}
	sort.Strings(ruleNames)
	for _, name := range ruleNames {
		for _, d := range unknownDimensions(b.Rules[name]) {
			r.errorf("behavioral rule %q: unknown dimension %q", name, d)
		}
	}

	if len(b.Questions) == 0 {
		r.warnf("bundle has no questions")
	}
	seenQuestions := make(map[string]bool, len(b.Questions))
	for _, q := range b.Questions {
		if q.ID == "" {
			r.errorf("question with empty id")
		} else if seenQuestions[q.ID] {
			r.errorf("duplicate question id %q", q.ID)
		}
		seenQuestions[q.ID] = true

		if len(q.Options) == 0 {
			r.warnf("question %q has no options", q.ID)
		}
		seenOptions := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if seenOptions[o.ID] {
				r.errorf("question %q: duplicate option id %q", q.ID, o.ID)
			}
			seenOptions[o.ID] = true

			for _, dw := range o.Weights {
				if !dw.Dimension.IsValid() {
					r.errorf("question %q option %q: unknown dimension %q", q.ID, o.ID, dw.Dimension)
				}
			}
			if o.BehavioralRule != "" {
				if _, ok := b.Rules[o.BehavioralRule]; !ok {
					if len(o.Weights) > 0 {
						r.warnf("question %q option %q: behavioral rule %q not found, inline weights used", q.ID, o.ID, o.BehavioralRule)
					} else {
						r.warnf("question %q option %q: behavioral rule %q not found, option is neutral", q.ID, o.ID, o.BehavioralRule)
					}
				}
			}
		}
	}

	if len(b.Types) == 0 {
		r.errorf("bundle has no reference types")
	}
	seenTypes := make(map[string]bool, len(b.Types))
	for _, t := range b.Types {
		if seenTypes[t.ID] {
			r.errorf("duplicate type id %q", t.ID)
		}
		seenTypes[t.ID] = true

		for _, d := range unknownDimensions(t.Vector) {
			r.errorf("type %q: unknown dimension %q", t.ID, d)
		}
		for _, d := range scoring.Dimensions {
			if v := t.Vector.Get(d); v < 0 || v > 1 {
				r.errorf("type %q: %s = %g is outside [0,1]", t.ID, d, v)
			}
		}
		if !archetype.IsCanonical(t.PrimaryArchetype) {
			r.warnf("type %q: primary archetype %q is not canonical, displayed as %q",
				t.ID, t.PrimaryArchetype, archetype.ToPrimaryType(t.PrimaryArchetype))
		}
	}

	return r
}

func unknownDimensions(v scoring.Vector) []string {
	var out []string
	for d := range v {
		if !d.IsValid() {
			out = append(out, string(d))
		}
	}
	sort.Strings(out)
	return out
}
