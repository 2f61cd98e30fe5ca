package artwatch

import (
	"context"
	"time"

	"github.com/kailas-cloud/artwatch/internal/domain/vision"
)

// Findings lists interesting searches, newest first. limit 0 selects the default page of 50.
func (c *Client) Findings(ctx context.Context, offset, limit int) (out []SearchRequest, err error) {
	start := time.Now()
	defer func() { c.obs.observe("findings", start, err) }()

	reqs, err := c.findings.ListInteresting(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return requestsFromDomain(reqs), nil
}

// Request returns one scored search with its matches and entities.
func (c *Client) Request(ctx context.Context, id string) (out SearchRequest, err error) {
	start := time.Now()
	defer func() { c.obs.observe("request", start, err, "request_id", id) }()

	req, err := c.findings.GetRequest(ctx, id)
	if err != nil {
		return SearchRequest{}, err
	}
	return requestFromDomain(&req), nil
}

// ArtworkSearches returns the search history of one artwork, newest first.
func (c *Client) ArtworkSearches(ctx context.Context, artworkID string, limit int) (out []SearchRequest, err error) {
	start := time.Now()
	defer func() { c.obs.observe("artwork_searches", start, err, "artwork_id", artworkID) }()

	reqs, err := c.findings.ArtworkHistory(ctx, artworkID, limit)
	if err != nil {
		return nil, err
	}
	return requestsFromDomain(reqs), nil
}

// Domain returns the reputation of one normalized domain.
func (c *Client) Domain(ctx context.Context, name string) (out DomainReputation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("domain", start, err, "domain", name) }()

	rep, err := c.reputations.Get(ctx, name)
	if err != nil {
		return DomainReputation{}, err
	}
	return reputationFromDomain(&rep), nil
}

// SuspiciousDomains lists flagged domains, most frequent first.
func (c *Client) SuspiciousDomains(ctx context.Context) (out []DomainReputation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suspicious_domains", start, err) }()

	reps, err := c.findings.SuspiciousDomains(ctx)
	if err != nil {
		return nil, err
	}
	return reputationsFromDomain(reps), nil
}

// DomainsByCategory lists domains of one category, most frequent first.
func (c *Client) DomainsByCategory(ctx context.Context, category string, limit int) (out []DomainReputation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("domains_by_category", start, err, "category", category) }()

	reps, err := c.findings.DomainsByCategory(ctx, vision.Category(category), limit)
	if err != nil {
		return nil, err
	}
	return reputationsFromDomain(reps), nil
}

// Stats aggregates search volume.
func (c *Client) Stats(ctx context.Context) (out Stats, err error) {
	start := time.Now()
	defer func() { c.obs.observe("stats", start, err) }()

	st, err := c.findings.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	return statsFromDomain(st), nil
}

// Cost reports accumulated spend.
func (c *Client) Cost(ctx context.Context) (out CostSummary, err error) {
	start := time.Now()
	defer func() { c.obs.observe("cost", start, err) }()

	cs, err := c.findings.Cost(ctx)
	if err != nil {
		return CostSummary{}, err
	}
	return costFromDomain(cs), nil
}
