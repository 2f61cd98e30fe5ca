package similarity

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/artwatch/internal/domain"
	"github.com/kailas-cloud/artwatch/internal/domain/feature"
	"github.com/kailas-cloud/artwatch/internal/metrics"
)

// InstrumentedFeatures wraps a FeatureReader with store latency metrics and failure logging.
type InstrumentedFeatures struct {
	inner   FeatureReader
	backend string
	logger  *zap.Logger
}

// NewInstrumentedFeatures wraps a feature reader with observability.
func NewInstrumentedFeatures(inner FeatureReader, backend string, logger *zap.Logger) *InstrumentedFeatures {
	return &InstrumentedFeatures{inner: inner, backend: backend, logger: logger}
}

// Get delegates to the inner reader. A missing record is not a failure.
func (f *InstrumentedFeatures) Get(ctx context.Context, artworkID string) (feature.Record, error) {
	start := time.Now()
	rec, err := f.inner.Get(ctx, artworkID)
	if errors.Is(err, domain.ErrNotFound) {
		f.record("get", start, nil)
		return rec, err
	}
	f.record("get", start, err)
	if err != nil {
		f.logger.Error("Feature store get failed",
			zap.String("backend", f.backend),
			zap.String("artwork_id", artworkID),
			zap.Error(err),
		)
	}
	return rec, err
}

// ListAll delegates to the inner reader.
func (f *InstrumentedFeatures) ListAll(ctx context.Context, limit int) ([]feature.Record, error) {
	start := time.Now()
	recs, err := f.inner.ListAll(ctx, limit)
	f.record("list", start, err)
	if err != nil {
		f.logger.Error("Feature store list failed",
			zap.String("backend", f.backend),
			zap.Int("limit", limit),
			zap.Error(err),
		)
		return nil, err
	}
	f.logger.Debug("Feature store scanned",
		zap.String("backend", f.backend),
		zap.Int("records", len(recs)),
		zap.Duration("took", time.Since(start)),
	)
	return recs, nil
}

func (f *InstrumentedFeatures) record(op string, start time.Time, err error) {
	metrics.FeatureStoreDuration.WithLabelValues(op, metrics.StatusOf(err)).Observe(time.Since(start).Seconds())
}
