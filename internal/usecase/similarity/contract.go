package similarity

import (
	"context"

	"github.com/kailas-cloud/artwatch/internal/domain/feature"
)

// FeatureReader is the read-only feature store contract.
type FeatureReader interface {
	Get(ctx context.Context, artworkID string) (feature.Record, error)
	ListAll(ctx context.Context, limit int) ([]feature.Record, error)
}
