package scoring

import (
	"context"

	"github.com/kailas-cloud/artwatch/internal/domain/vision"
)

// RequestStore persists scored search requests.
type RequestStore interface {
	Save(ctx context.Context, req *vision.SearchRequest) error
}

// ReputationTracker folds the matches of an interesting search into domain reputations.
type ReputationTracker interface {
	Track(ctx context.Context, artworkID string, matches []vision.Match) error
}
