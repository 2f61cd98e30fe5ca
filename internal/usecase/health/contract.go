package health

import (
	"context"

	"github.com/kailas-cloud/artwatch/internal/domain/feature"
)

// DBPinger checks storage backend availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// FeatureLister checks the feature store with a bounded read.
type FeatureLister interface {
	ListAll(ctx context.Context, limit int) ([]feature.Record, error)
}
