// Package archetype holds the eight display archetypes of FriendLens and
// the normalizer that maps loosely formatted or legacy identifiers onto
// them.
//
// The scoring engine works with its own six scorer-internal labels (one
// per dimension). This package is the explicit, separate step that
// reconciles stored or produced ids with the display taxonomy.
package archetype

// Canonical archetype ids.
const (
	Anchor    = "Anchor"
	Connector = "Connector"
	Hunter    = "Hunter"
	Bonder    = "Bonder"
	Sage      = "Sage"
	FlowMaker = "FlowMaker"
	Builder   = "Builder"
	Explorer  = "Explorer"
)

// Default is returned when an id cannot be resolved.
const Default = Anchor

// Archetype describes one display archetype.
type Archetype struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
}

// canonical is kept in display order.
var canonical = []Archetype{
	{
		ID:          Anchor,
		Name:        "The Anchor",
		Tagline:     "Steady ground for everyone around you.",
		Description: "You keep friendships calm and dependable. People come back to you because you are the same person every time they do.",
	},
	{
		ID:          Connector,
		Name:        "The Connector",
		Tagline:     "You know someone for that.",
		Description: "You collect people and introduce them to each other. Groups form around you almost by accident.",
	},
	{
		ID:          Hunter,
		Name:        "The Hunter",
		Tagline:     "Always chasing the next thing, and bringing friends along.",
		Description: "Goals, plans and new experiences drive your social life. Your friends are the people who keep up.",
	},
	{
		ID:          Bonder,
		Name:        "The Bonder",
		Tagline:     "Few friends, deep roots.",
		Description: "You invest in a small circle and stay for the long haul. Trust and closeness matter more than reach.",
	},
	{
		ID:          Sage,
		Name:        "The Sage",
		Tagline:     "The friend people call to think out loud.",
		Description: "Curiosity and conversation are how you connect. You bond over ideas, books and long talks.",
	},
	{
		ID:          FlowMaker,
		Name:        "The FlowMaker",
		Tagline:     "Where you are, the fun starts.",
		Description: "Play, music and spontaneity shape your friendships. You turn ordinary evenings into stories.",
	},
	{
		ID:          Builder,
		Name:        "The Builder",
		Tagline:     "You make plans that actually happen.",
		Description: "You organize the trips, keep the group chat alive and build rituals that hold a circle together.",
	},
	{
		ID:          Explorer,
		Name:        "The Explorer",
		Tagline:     "New places, new people, new stories.",
		Description: "You meet friends on the way somewhere else. Variety keeps your social life alive.",
	},
}

var byID = func() map[string]Archetype {
	m := make(map[string]Archetype, len(canonical))
	for _, a := range canonical {
		m[a.ID] = a
	}
	return m
}()

// All returns the eight canonical archetypes in display order.
func All() []Archetype {
	out := make([]Archetype, len(canonical))
	copy(out, canonical)
	return out
}

// IDs returns the canonical ids in display order.
func IDs() []string {
	ids := make([]string, len(canonical))
	for i, a := range canonical {
		ids[i] = a.ID
	}
	return ids
}

// Lookup returns the archetype for an exact canonical id.
func Lookup(id string) (Archetype, bool) {
	a, ok := byID[id]
	return a, ok
}

// IsCanonical reports whether id is exactly one of the eight ids.
func IsCanonical(id string) bool {
	_, ok := byID[id]
	return ok
}
