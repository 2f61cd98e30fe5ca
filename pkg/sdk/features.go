package artwatch

import (
	"context"
	"fmt"
	"time"
)

// PutFeatures validates and stores feature records, replacing any existing record
// of the same artwork. It stops at the first invalid record.
func (c *Client) PutFeatures(ctx context.Context, records []FeatureRecord) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("put_features", start, err, "count", len(records)) }()

	for i := range records {
		rec := recordToDomain(&records[i])
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("%w: record %d: %v", ErrInvalidRequest, i, err)
		}
		if err := c.features.Put(ctx, &rec); err != nil {
			return fmt.Errorf("put %s: %w", rec.ArtworkID, err)
		}
	}
	return nil
}
