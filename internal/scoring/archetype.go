package scoring

import "sort"

// Scorer-internal archetype labels, one per dimension. This is a
// different set from the eight display archetypes; reconciling the two
// is the job of the archetype package.
const (
	ArchetypeHunter     = "Hunter"
	ArchetypeBonder     = "Bonder"
	ArchetypeCompetitor = "Competitor"
	ArchetypeSage       = "Sage"
	ArchetypeFlowMaker  = "FlowMaker"
	ArchetypeAnchor     = "Anchor"
)

var dimensionArchetypes = map[DimensionID]string{
	DimDA:   ArchetypeHunter,
	DimOX:   ArchetypeBonder,
	Dim5HT:  ArchetypeCompetitor,
	DimACh:  ArchetypeSage,
	DimEN:   ArchetypeFlowMaker,
	DimGABA: ArchetypeAnchor,
}

// tieEpsilon is the score difference under which two dimensions are
// treated as tied and keep canonical order.
const tieEpsilon = 0.1

// ArchetypeFor returns the scorer-internal archetype of a dimension.
func ArchetypeFor(d DimensionID) string {
	return dimensionArchetypes[d]
}

// RankDimensions orders the six dimensions by score, highest first.
// Scores within tieEpsilon of each other keep canonical order.
func RankDimensions(normalized Vector) []DimensionID {
	ranked := make([]DimensionID, len(Dimensions))
	copy(ranked, Dimensions)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := normalized.Get(ranked[i]), normalized.Get(ranked[j])
		if diff := a - b; diff > tieEpsilon || diff < -tieEpsilon {
			return a > b
		}
		return dimensionIndex(ranked[i]) < dimensionIndex(ranked[j])
	})
	return ranked
}

// SelectTop2 picks the primary and secondary archetypes from the two
// strongest dimensions. If the second dimension maps to the same
// archetype as the first, the third is tried, and as a last resort the
// primary is repeated.
func SelectTop2(normalized Vector) (primary, secondary string) {
	ranked := RankDimensions(normalized)
	primary = ArchetypeFor(ranked[0])

	for _, d := range ranked[1:3] {
		if a := ArchetypeFor(d); a != primary {
			return primary, a
		}
	}
	return primary, primary
}
