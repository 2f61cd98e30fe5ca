package similarity

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/artwatch/internal/domain"
	"github.com/kailas-cloud/artwatch/internal/domain/feature"
	domsim "github.com/kailas-cloud/artwatch/internal/domain/similarity"
	"github.com/kailas-cloud/artwatch/internal/metrics"
)

const (
	// DefaultScanLimit bounds the candidate set of every query.
	DefaultScanLimit = 1000
	// DefaultHybridFetchMultiplier sizes each hybrid sub-list relative to the final limit.
	DefaultHybridFetchMultiplier = 2
)

// Service finds visually similar and duplicate artworks by linear scan over the feature store.
type Service struct {
	features         FeatureReader
	scanLimit        int
	hybridMultiplier int
}

// Option configures a Service.
type Option func(*Service)

// WithScanLimit overrides the maximum number of records scanned per query.
func WithScanLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.scanLimit = n
		}
	}
}

// WithHybridFetchMultiplier overrides the hybrid sub-list buffer.
func WithHybridFetchMultiplier(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.hybridMultiplier = n
		}
	}
}

// New creates a similarity service.
func New(features FeatureReader, opts ...Option) *Service {
	s := &Service{
		features:         features,
		scanLimit:        DefaultScanLimit,
		hybridMultiplier: DefaultHybridFetchMultiplier,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Find validates a query and dispatches it to the matching strategy.
func (s *Service) Find(ctx context.Context, q Query) ([]domsim.Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	switch q.Method {
	case domsim.Hash:
		return s.FindByHash(ctx, q.SourceID, q.HashThreshold, q.Limit)
	case domsim.Embedding:
		return s.FindByEmbedding(ctx, q.SourceID, q.EmbeddingThreshold, q.Limit)
	case domsim.Hybrid:
		return s.FindHybrid(ctx, q.SourceID, q.HashThreshold, q.EmbeddingThreshold, q.Limit)
	default:
		return nil, fmt.Errorf("%w: unsupported method %q", domain.ErrInvalidRequest, q.Method)
	}
}

// FindByHash returns candidates within threshold Hamming distance of the source's phash,
// nearest first. A source without a phash yields no candidates.
func (s *Service) FindByHash(
	ctx context.Context, sourceID string, threshold, limit int,
) (results []domsim.Result, err error) {
	defer observe(domsim.Hash, time.Now(), &results, &err)

	if err := validateHashThreshold(threshold); err != nil {
		return nil, err
	}
	src, records, ok, err := s.snapshot(ctx, sourceID)
	if err != nil || !ok || !src.HasPHash() {
		return nil, err
	}
	return truncate(hashMatches(&src, records, threshold), limit), nil
}

// FindByEmbedding returns candidates with cosine similarity at or above threshold, most similar first.
// A source without an embedding yields no candidates.
func (s *Service) FindByEmbedding(
	ctx context.Context, sourceID string, threshold float64, limit int,
) (results []domsim.Result, err error) {
	defer observe(domsim.Embedding, time.Now(), &results, &err)

	if err := validateEmbeddingThreshold(threshold); err != nil {
		return nil, err
	}
	src, records, ok, err := s.snapshot(ctx, sourceID)
	if err != nil || !ok || !src.HasEmbedding() {
		return nil, err
	}
	return truncate(embeddingMatches(&src, records, threshold), limit), nil
}

// FindHybrid unions hash and embedding candidates. A candidate found by both methods
// scores the mean of its two similarities; one found by a single method keeps its score.
func (s *Service) FindHybrid(
	ctx context.Context, sourceID string, hashThreshold int, embeddingThreshold float64, limit int,
) (results []domsim.Result, err error) {
	defer observe(domsim.Hybrid, time.Now(), &results, &err)

	if err := validateHashThreshold(hashThreshold); err != nil {
		return nil, err
	}
	if err := validateEmbeddingThreshold(embeddingThreshold); err != nil {
		return nil, err
	}
	src, records, ok, err := s.snapshot(ctx, sourceID)
	if err != nil || !ok {
		return nil, err
	}

	fetch := limit * s.hybridMultiplier
	if limit <= 0 {
		fetch = 0
	}

	var byHash, byEmbedding []domsim.Result
	var g errgroup.Group
	g.Go(func() error {
		if src.HasPHash() {
			byHash = truncate(hashMatches(&src, records, hashThreshold), fetch)
		}
		return nil
	})
	g.Go(func() error {
		if src.HasEmbedding() {
			byEmbedding = truncate(embeddingMatches(&src, records, embeddingThreshold), fetch)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return truncate(merge(byHash, byEmbedding), limit), nil
}

// snapshot loads the source record and one candidate list shared by every strategy of a call.
// ok is false when the source artwork has no feature record.
func (s *Service) snapshot(ctx context.Context, sourceID string) (feature.Record, []feature.Record, bool, error) {
	src, err := s.features.Get(ctx, sourceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return feature.Record{}, nil, false, nil
		}
		return feature.Record{}, nil, false, storeFailure("get", err)
	}
	records, err := s.features.ListAll(ctx, s.scanLimit)
	if err != nil {
		return feature.Record{}, nil, false, storeFailure("list", err)
	}
	return src, records, true, nil
}

func hashMatches(src *feature.Record, records []feature.Record, threshold int) []domsim.Result {
	var out []domsim.Result
	for i := range records {
		c := &records[i]
		if c.ArtworkID == src.ArtworkID || !c.HasPHash() {
			continue
		}
		d := domsim.HammingDistance(src.PHash, c.PHash)
		if d != domsim.IncompatibleDistance && d <= threshold {
			out = append(out, domsim.NewHashResult(c.ArtworkID, d))
		}
	}
	slices.SortFunc(out, func(a, b domsim.Result) int {
		da, _ := a.Distance()
		db, _ := b.Distance()
		if c := cmp.Compare(da, db); c != 0 {
			return c
		}
		return cmp.Compare(a.CandidateID(), b.CandidateID())
	})
	return out
}

func embeddingMatches(src *feature.Record, records []feature.Record, threshold float64) []domsim.Result {
	var out []domsim.Result
	for i := range records {
		c := &records[i]
		if c.ArtworkID == src.ArtworkID || !c.HasEmbedding() || len(c.Embedding) != len(src.Embedding) {
			continue
		}
		score := domsim.CosineSimilarity(src.Embedding, c.Embedding)
		if score >= threshold {
			out = append(out, domsim.NewEmbeddingResult(c.ArtworkID, score))
		}
	}
	sortByScore(out)
	return out
}

// merge unions two single-method lists by candidate id.
func merge(byHash, byEmbedding []domsim.Result) []domsim.Result {
	index := make(map[string]int, len(byHash)+len(byEmbedding))
	out := make([]domsim.Result, 0, len(byHash)+len(byEmbedding))
	for _, r := range byHash {
		index[r.CandidateID()] = len(out)
		out = append(out, r)
	}
	for _, r := range byEmbedding {
		if i, ok := index[r.CandidateID()]; ok {
			out[i] = domsim.Combine(out[i], r)
			continue
		}
		out = append(out, r)
	}
	sortByScore(out)
	return out
}

// sortByScore orders by score descending; ties break by candidate id so output is stable across runs.
func sortByScore(rs []domsim.Result) {
	slices.SortFunc(rs, func(a, b domsim.Result) int {
		if c := cmp.Compare(b.Score(), a.Score()); c != 0 {
			return c
		}
		return cmp.Compare(a.CandidateID(), b.CandidateID())
	})
}

func truncate(rs []domsim.Result, limit int) []domsim.Result {
	if limit > 0 && len(rs) > limit {
		return rs[:limit]
	}
	return rs
}

func storeFailure(op string, err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return fmt.Errorf("features %s: %w", op, err)
	}
	return domain.NewStoreError("features", op, err)
}

func observe(m domsim.Method, start time.Time, results *[]domsim.Result, err *error) {
	metrics.SimilarityQueryDuration.WithLabelValues(string(m)).Observe(time.Since(start).Seconds())
	metrics.SimilarityQueriesTotal.WithLabelValues(string(m), metrics.StatusOf(*err)).Inc()
	if *err == nil {
		metrics.SimilarityCandidatesReturned.WithLabelValues(string(m)).Observe(float64(len(*results)))
	}
}
