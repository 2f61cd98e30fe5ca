package artwatch

import (
	"context"
	"fmt"
	"time"

	similarityuc "github.com/kailas-cloud/artwatch/internal/usecase/similarity"
)

// DefaultDuplicateThreshold is the Hamming distance used by Duplicates when threshold is negative.
const DefaultDuplicateThreshold = similarityuc.DefaultDuplicateThreshold

// Similar returns artworks resembling artworkID, best first.
// An unknown artwork, or one without the needed features, yields an empty result.
func (c *Client) Similar(ctx context.Context, artworkID string, opts SimilarOptions) (out []SimilarArtwork, err error) {
	start := time.Now()
	defer func() { c.obs.observe("similar", start, err, "artwork_id", artworkID, "method", opts.Method) }()

	m, ok := methodToDomain(opts.Method)
	if !ok {
		return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidRequest, opts.Method)
	}
	q := similarityuc.NewQuery(artworkID, m)
	if opts.HashThreshold != nil {
		q.HashThreshold = *opts.HashThreshold
	}
	if opts.ClipThreshold != nil {
		q.EmbeddingThreshold = *opts.ClipThreshold
	}
	if opts.Limit > 0 {
		q.Limit = opts.Limit
	}

	results, err := c.similarity.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	out = make([]SimilarArtwork, len(results))
	for i := range results {
		out[i] = similarFromDomain(&results[i])
	}
	return out, nil
}

// Duplicates groups near-identical artworks by perceptual hash.
func (c *Client) Duplicates(ctx context.Context, threshold int) (out []DuplicateGroup, err error) {
	start := time.Now()
	defer func() { c.obs.observe("duplicates", start, err, "threshold", threshold) }()

	if threshold < 0 {
		threshold = DefaultDuplicateThreshold
	}
	groups, err := c.similarity.FindDuplicates(ctx, threshold)
	if err != nil {
		return nil, err
	}
	out = make([]DuplicateGroup, len(groups))
	for i := range groups {
		out[i] = groupFromDomain(&groups[i])
	}
	return out, nil
}
