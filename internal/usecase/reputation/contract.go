package reputation

import (
	"context"

	domrep "github.com/kailas-cloud/artwatch/internal/domain/reputation"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
)

// Store applies reputation deltas atomically and serves read accessors.
type Store interface {
	Apply(ctx context.Context, d domrep.Delta) error
	Get(ctx context.Context, domain string) (domrep.Reputation, error)
	ListSuspicious(ctx context.Context, limit int) ([]domrep.Reputation, error)
	ListByCategory(ctx context.Context, c vision.Category, limit int) ([]domrep.Reputation, error)
}
