package archetype

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Normalizer maps arbitrary archetype identifiers onto canonical ids.
// It never fails: unresolvable input logs a warning and yields Default.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a Normalizer. A nil logger discards warnings.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

var defaultNormalizer = NewNormalizer(nil)

// ToPrimaryType normalizes raw with a normalizer that discards warnings.
func ToPrimaryType(raw string) string {
	return defaultNormalizer.ToPrimaryType(raw)
}

// ToPrimaryType resolves raw to a canonical id. Strategies are tried in
// order and the first hit wins:
//
//  1. exact canonical id
//  2. the segment before the first "_" ("Anchor_A" → Anchor)
//  3. raw with its first letter upper-cased
//  4. case-insensitive exact match
//  5. a canonical id contained in raw, case-insensitively
//  6. Default, with a warning
func (n *Normalizer) ToPrimaryType(raw string) string {
	if IsCanonical(raw) {
		return raw
	}

	if prefix, _, found := strings.Cut(raw, "_"); found && IsCanonical(prefix) {
		return prefix
	}

	if c := capitalizeFirst(raw); IsCanonical(c) {
		return c
	}

	lower := strings.ToLower(raw)
	for _, a := range canonical {
		if strings.ToLower(a.ID) == lower {
			return a.ID
		}
	}

	for _, a := range canonical {
		if lower != "" && strings.Contains(lower, strings.ToLower(a.ID)) {
			return a.ID
		}
	}

	n.logger.Warn("unrecognized archetype id, using default",
		zap.String("raw_id", raw),
		zap.String("default", Default),
	)
	return Default
}

// Describe normalizes raw and returns the full archetype.
func (n *Normalizer) Describe(raw string) Archetype {
	a, _ := Lookup(n.ToPrimaryType(raw))
	return a
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
