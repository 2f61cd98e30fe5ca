package reputation

import (
	"slices"
	"time"

	"github.com/kailas-cloud/artwatch/internal/domain/vision"
)

// Reputation is the running aggregate for one normalized domain.
// TotalAppearances only grows, LastSeen never moves back, and FlaggedSuspicious
// never goes from true to false.
type Reputation struct {
	Domain            string
	Category          vision.Category
	TotalAppearances  int
	ArtworksFound     []string
	FirstSeen         time.Time
	LastSeen          time.Time
	FlaggedSuspicious bool
}

// Delta is one interesting batch's contribution to a domain.
type Delta struct {
	Domain      string
	Category    vision.Category
	Appearances int
	ArtworkID   string
	SeenAt      time.Time
}

// Flags reports whether this delta latches the suspicious flag.
func (d Delta) Flags() bool { return d.Category.IsCommercial() }

// New seeds a reputation from the first delta seen for a domain.
func New(d Delta) Reputation {
	r := Reputation{
		Domain:            d.Domain,
		Category:          d.Category,
		TotalAppearances:  d.Appearances,
		FirstSeen:         d.SeenAt,
		LastSeen:          d.SeenAt,
		FlaggedSuspicious: d.Flags(),
	}
	if d.ArtworkID != "" {
		r.ArtworksFound = []string{d.ArtworkID}
	}
	return r
}

// Apply folds a delta into the reputation and returns the result. The receiver is not modified.
func (r Reputation) Apply(d Delta) Reputation {
	out := r
	out.TotalAppearances += d.Appearances
	out.ArtworksFound = slices.Clone(r.ArtworksFound)
	if d.ArtworkID != "" && !slices.Contains(out.ArtworksFound, d.ArtworkID) {
		out.ArtworksFound = append(out.ArtworksFound, d.ArtworkID)
		slices.Sort(out.ArtworksFound)
	}
	if d.SeenAt.After(out.LastSeen) {
		out.LastSeen = d.SeenAt
	}
	if out.FirstSeen.IsZero() || (!d.SeenAt.IsZero() && d.SeenAt.Before(out.FirstSeen)) {
		out.FirstSeen = d.SeenAt
	}
	if d.Flags() {
		out.FlaggedSuspicious = true
	}
	if d.Category != "" {
		out.Category = d.Category
	}
	return out
}
