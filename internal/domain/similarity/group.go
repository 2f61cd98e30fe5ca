package similarity

// Member is a non-anchor duplicate with its distance to the group anchor.
type Member struct {
	ArtworkID string
	Distance  int
}

// Group is a set of near-duplicate artworks collected around an anchor.
// Members are within the threshold of the anchor, not necessarily of each other.
type Group struct {
	Anchor  string
	Members []Member
}

// Size returns the number of artworks in the group, anchor included.
func (g *Group) Size() int { return 1 + len(g.Members) }

// ArtworkIDs returns the anchor followed by the members in discovery order.
func (g *Group) ArtworkIDs() []string {
	ids := make([]string, 0, g.Size())
	ids = append(ids, g.Anchor)
	for _, m := range g.Members {
		ids = append(ids, m.ArtworkID)
	}
	return ids
}
