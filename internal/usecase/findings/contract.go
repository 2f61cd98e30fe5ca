package findings

import (
	"context"

	domrep "github.com/kailas-cloud/artwatch/internal/domain/reputation"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
)

// RequestReader reads persisted search requests.
type RequestReader interface {
	Get(ctx context.Context, id string) (vision.SearchRequest, error)
	ListInteresting(ctx context.Context, offset, limit int) ([]vision.SearchRequest, error)
	ListByArtwork(ctx context.Context, artworkID string, limit int) ([]vision.SearchRequest, error)
	Stats(ctx context.Context) (vision.Stats, error)
}

// DomainReader reads domain reputations.
type DomainReader interface {
	ListSuspicious(ctx context.Context, limit int) ([]domrep.Reputation, error)
	ListByCategory(ctx context.Context, c vision.Category, limit int) ([]domrep.Reputation, error)
}
