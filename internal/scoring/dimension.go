// Package scoring is the FriendLens scoring engine.
//
// It turns a user's ranked answers into a six-dimension profile, matches
// that profile against a fixed list of reference types, picks a
// primary/secondary archetype and estimates how confident the match is.
//
// Everything here is pure: no I/O, no package-level configuration, no
// caching. The questionnaire configuration travels with each call as a
// Bundle, so several configuration versions can be scored side by side.
package scoring

// DimensionID identifies one of the six fixed axes of the profile.
type DimensionID string

const (
	DimDA   DimensionID = "DA"
	DimOX   DimensionID = "OX"
	Dim5HT  DimensionID = "5HT"
	DimACh  DimensionID = "ACh"
	DimEN   DimensionID = "EN"
	DimGABA DimensionID = "GABA"
)

// Dimensions lists every dimension in canonical declaration order.
// Tie-breaks and rendering rely on this order; do not reorder.
var Dimensions = []DimensionID{DimDA, DimOX, Dim5HT, DimACh, DimEN, DimGABA}

// dimensionNames holds the human-facing name of each dimension.
var dimensionNames = map[DimensionID]string{
	DimDA:   "Drive",
	DimOX:   "Bond",
	Dim5HT:  "Standing",
	DimACh:  "Focus",
	DimEN:   "Play",
	DimGABA: "Calm",
}

// IsValid reports whether d is one of the six known dimensions.
func (d DimensionID) IsValid() bool {
	_, ok := dimensionNames[d]
	return ok
}

// Name returns the display name, or the raw id for unknown dimensions.
func (d DimensionID) Name() string {
	if n, ok := dimensionNames[d]; ok {
		return n
	}
	return string(d)
}

// dimensionIndex returns the canonical position of d, or -1.
func dimensionIndex(d DimensionID) int {
	for i, dim := range Dimensions {
		if dim == d {
			return i
		}
	}
	return -1
}

// Vector maps dimensions to values. Missing keys read as zero.
type Vector map[DimensionID]float64

// NewVector returns a vector with all six dimensions set to zero.
func NewVector() Vector {
	v := make(Vector, len(Dimensions))
	for _, d := range Dimensions {
		v[d] = 0
	}
	return v
}

// Get returns the value for d, or 0 when absent.
func (v Vector) Get(d DimensionID) float64 {
	return v[d]
}

// Clone returns a copy that shares nothing with v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
