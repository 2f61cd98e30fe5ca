package artwatch

import (
	"context"
	"time"
)

// Score evaluates one reverse image search of artworkID, stores it and, when it
// is interesting, folds its matches into domain reputation.
func (c *Client) Score(ctx context.Context, artworkID string, results VisionResults) (out SearchRequest, err error) {
	start := time.Now()
	defer func() { c.obs.observe("score", start, err, "artwork_id", artworkID) }()

	p := payloadToDomain(&results)
	req, err := c.scoring.Score(ctx, artworkID, &p)
	if err != nil {
		return SearchRequest{}, err
	}
	return requestFromDomain(&req), nil
}
