package scoring

import "github.com/kailas-cloud/artwatch/internal/domain/vision"

// Weights are the additive terms of the interest score and its decision threshold.
type Weights struct {
	Full    int
	Partial int
	Similar int

	Auction     int
	Marketplace int
	Social      int
	Museum      int
	Academic    int
	Other       int

	Suspicious int
	Page       int

	// Threshold is the single classification boundary: score >= Threshold is interesting.
	Threshold int
	// SimilarCommercialOnly restricts similar-image scoring to auction and marketplace domains.
	SimilarCommercialOnly bool
}

// DefaultWeights returns the production weights.
func DefaultWeights() Weights {
	return Weights{
		Full:        10,
		Partial:     5,
		Similar:     2,
		Auction:     20,
		Marketplace: 15,
		Social:      5,
		Museum:      2,
		Suspicious:  10,
		Page:        10,
		Threshold:   15,
	}
}

func (w *Weights) base(t vision.MatchType) int {
	switch t {
	case vision.MatchFull:
		return w.Full
	case vision.MatchPartial:
		return w.Partial
	case vision.MatchSimilar:
		return w.Similar
	}
	return 0
}

func (w *Weights) categoryBonus(c vision.Category) int {
	switch c {
	case vision.CategoryAuction:
		return w.Auction
	case vision.CategoryMarketplace:
		return w.Marketplace
	case vision.CategorySocial:
		return w.Social
	case vision.CategoryMuseum:
		return w.Museum
	case vision.CategoryAcademic:
		return w.Academic
	}
	return w.Other
}
