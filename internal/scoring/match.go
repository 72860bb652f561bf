package scoring

import (
	"errors"
	"math"
)

// ErrNoTypes is returned when no reference types are configured.
// There is no sensible fallback, so scoring stops.
var ErrNoTypes = errors.New("scoring: no reference types configured")

// Match is the nearest reference type and the full distance list.
type Match struct {
	Type     ReferenceType
	Distance float64
	// Distances is parallel to the types slice given to MatchType.
	Distances []float64
}

// Distance returns the Euclidean distance between a normalized vector
// and a reference type vector scaled from 0..1 to 0..100.
func Distance(normalized, typeVector Vector) float64 {
	var sum float64
	for _, d := range Dimensions {
		diff := normalized.Get(d) - typeVector.Get(d)*100
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// MatchType finds the reference type closest to normalized. On ties the
// first type in list order wins.
func MatchType(normalized Vector, types []ReferenceType) (Match, error) {
	if len(types) == 0 {
		return Match{}, ErrNoTypes
	}

	m := Match{Distances: make([]float64, len(types))}
	best := -1
	for i, t := range types {
		dist := Distance(normalized, t.Vector)
		m.Distances[i] = dist
		if best < 0 || dist < m.Distance {
			best = i
			m.Distance = dist
		}
	}
	m.Type = types[best]
	return m, nil
}
