package findings

import (
	"context"
	"fmt"
	"math"

	"github.com/kailas-cloud/artwatch/internal/domain"
	domrep "github.com/kailas-cloud/artwatch/internal/domain/reputation"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
)

const (
	// DefaultFindingsLimit is the page size for interesting findings.
	DefaultFindingsLimit = 50
	// MaxFindingsLimit caps a findings page.
	MaxFindingsLimit = 500
	// DefaultHistoryLimit is the number of searches returned per artwork.
	DefaultHistoryLimit = 10
	// DefaultDomainLimit is the number of domains returned per category.
	DefaultDomainLimit = 50
	// DefaultUSDPerUnit prices one API cost unit ($1.50 per 1000).
	DefaultUSDPerUnit = 0.0015
)

// CostSummary reports accumulated web-search spend.
type CostSummary struct {
	TotalUnits   int64
	EstimatedUSD float64
}

// Service serves read-only reports over scored searches and domain reputation.
type Service struct {
	requests   RequestReader
	domains    DomainReader
	usdPerUnit float64
}

// Option configures a Service.
type Option func(*Service)

// WithUSDPerUnit overrides the unit price used for cost estimates.
func WithUSDPerUnit(usd float64) Option {
	return func(s *Service) { s.usdPerUnit = usd }
}

// New creates a findings service.
func New(requests RequestReader, domains DomainReader, opts ...Option) *Service {
	s := &Service{requests: requests, domains: domains, usdPerUnit: DefaultUSDPerUnit}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ListInteresting returns interesting requests newest first.
// limit 0 means DefaultFindingsLimit.
func (s *Service) ListInteresting(ctx context.Context, offset, limit int) ([]vision.SearchRequest, error) {
	if limit == 0 {
		limit = DefaultFindingsLimit
	}
	if limit < 1 || limit > MaxFindingsLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidRequest, MaxFindingsLimit)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must be non-negative", domain.ErrInvalidRequest)
	}
	out, err := s.requests.ListInteresting(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list interesting requests: %w", err)
	}
	return out, nil
}

// GetRequest returns a request with its matches and entities.
func (s *Service) GetRequest(ctx context.Context, id string) (vision.SearchRequest, error) {
	if id == "" {
		return vision.SearchRequest{}, fmt.Errorf("%w: request id is required", domain.ErrInvalidRequest)
	}
	r, err := s.requests.Get(ctx, id)
	if err != nil {
		return vision.SearchRequest{}, fmt.Errorf("get request %s: %w", id, err)
	}
	return r, nil
}

// ArtworkHistory returns the latest searches for one artwork.
func (s *Service) ArtworkHistory(ctx context.Context, artworkID string, limit int) ([]vision.SearchRequest, error) {
	if artworkID == "" {
		return nil, fmt.Errorf("%w: artwork id is required", domain.ErrInvalidRequest)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must be non-negative", domain.ErrInvalidRequest)
	}
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	out, err := s.requests.ListByArtwork(ctx, artworkID, limit)
	if err != nil {
		return nil, fmt.Errorf("list searches for %s: %w", artworkID, err)
	}
	return out, nil
}

// Stats returns aggregate search counters.
func (s *Service) Stats(ctx context.Context) (vision.Stats, error) {
	st, err := s.requests.Stats(ctx)
	if err != nil {
		return vision.Stats{}, fmt.Errorf("search stats: %w", err)
	}
	return st, nil
}

// Cost returns total cost units and their estimated price.
func (s *Service) Cost(ctx context.Context) (CostSummary, error) {
	st, err := s.Stats(ctx)
	if err != nil {
		return CostSummary{}, err
	}
	usd := math.Round(float64(st.TotalCostUnits)*s.usdPerUnit*100) / 100
	return CostSummary{TotalUnits: st.TotalCostUnits, EstimatedUSD: usd}, nil
}

// SuspiciousDomains returns every flagged domain, most frequent first.
func (s *Service) SuspiciousDomains(ctx context.Context) ([]domrep.Reputation, error) {
	out, err := s.domains.ListSuspicious(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list suspicious domains: %w", err)
	}
	return out, nil
}

// DomainsByCategory returns the most frequent domains of one category.
func (s *Service) DomainsByCategory(ctx context.Context, c vision.Category, limit int) ([]domrep.Reputation, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidRequest, c)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must be non-negative", domain.ErrInvalidRequest)
	}
	if limit == 0 {
		limit = DefaultDomainLimit
	}
	out, err := s.domains.ListByCategory(ctx, c, limit)
	if err != nil {
		return nil, fmt.Errorf("list %s domains: %w", c, err)
	}
	return out, nil
}
