package searchreq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/artwatch/internal/db"
	"github.com/kailas-cloud/artwatch/internal/domain"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
)

const storeName = "redis"

// store is the consumer interface for search requests (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	IncrBy(ctx context.Context, key string, val int64) error
	SAdd(ctx context.Context, key string, members ...string) error
	SCard(ctx context.Context, key string) (int64, error)
	ZAdd(ctx context.Context, key, member string, score float64) error
	ZRevRange(ctx context.Context, key string, offset, limit int) ([]string, error)
}

// Repo stores each search request as a JSON blob, indexed by creation time.
type Repo struct {
	store store
}

// New creates a search request repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save persists a scored search request. Requests are append-only.
func (r *Repo) Save(ctx context.Context, req *vision.SearchRequest) error {
	data, err := json.Marshal(toJSON(req))
	if err != nil {
		return fmt.Errorf("marshal search request: %w", err)
	}
	if err := r.store.Set(ctx, requestKey(req.ID), data); err != nil {
		return domain.NewStoreError(storeName, "save", err)
	}

	created := float64(req.CreatedAt.UnixMilli())
	if err := r.store.ZAdd(ctx, byArtworkKey(req.ArtworkID), req.ID, created); err != nil {
		return domain.NewStoreError(storeName, "save", err)
	}
	if req.HasInterestingResults() {
		if err := r.store.ZAdd(ctx, interestingKey(), req.ID, created); err != nil {
			return domain.NewStoreError(storeName, "save", err)
		}
		if err := r.store.IncrBy(ctx, interestingCountKey(), 1); err != nil {
			return domain.NewStoreError(storeName, "save", err)
		}
	}
	if err := r.store.IncrBy(ctx, countKey(), 1); err != nil {
		return domain.NewStoreError(storeName, "save", err)
	}
	if err := r.store.IncrBy(ctx, costKey(), int64(req.APICostUnits)); err != nil {
		return domain.NewStoreError(storeName, "save", err)
	}
	if err := r.store.SAdd(ctx, artworksKey(), req.ArtworkID); err != nil {
		return domain.NewStoreError(storeName, "save", err)
	}
	return nil
}

// Get returns one search request or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, id string) (vision.SearchRequest, error) {
	raw, err := r.store.Get(ctx, requestKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return vision.SearchRequest{}, fmt.Errorf("search request %s: %w", id, domain.ErrNotFound)
		}
		return vision.SearchRequest{}, domain.NewStoreError(storeName, "get", err)
	}
	var j requestJSON
	if err := json.Unmarshal(raw, &j); err != nil {
		return vision.SearchRequest{}, fmt.Errorf("decode search request %s: %w", id, err)
	}
	return fromJSON(j)
}

// ListInteresting returns interesting requests, newest first.
func (r *Repo) ListInteresting(ctx context.Context, offset, limit int) ([]vision.SearchRequest, error) {
	return r.listIndex(ctx, interestingKey(), offset, limit)
}

// ListByArtwork returns the requests of one artwork, newest first.
func (r *Repo) ListByArtwork(ctx context.Context, artworkID string, limit int) ([]vision.SearchRequest, error) {
	return r.listIndex(ctx, byArtworkKey(artworkID), 0, limit)
}

// Stats returns aggregate counters.
func (r *Repo) Stats(ctx context.Context) (vision.Stats, error) {
	var st vision.Stats
	var err error
	if st.Requests, err = r.counter(ctx, countKey()); err != nil {
		return vision.Stats{}, err
	}
	if st.InterestingRequests, err = r.counter(ctx, interestingCountKey()); err != nil {
		return vision.Stats{}, err
	}
	if st.TotalCostUnits, err = r.counter(ctx, costKey()); err != nil {
		return vision.Stats{}, err
	}
	if st.ArtworksSearched, err = r.store.SCard(ctx, artworksKey()); err != nil {
		return vision.Stats{}, domain.NewStoreError(storeName, "stats", err)
	}
	return st, nil
}

func (r *Repo) listIndex(ctx context.Context, key string, offset, limit int) ([]vision.SearchRequest, error) {
	ids, err := r.store.ZRevRange(ctx, key, offset, limit)
	if err != nil {
		return nil, domain.NewStoreError(storeName, "list", err)
	}
	out := make([]vision.SearchRequest, 0, len(ids))
	for _, id := range ids {
		req, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

func (r *Repo) counter(ctx context.Context, key string) (int64, error) {
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, domain.NewStoreError(storeName, "stats", err)
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("counter %s: %w", key, err)
	}
	return n, nil
}

func requestKey(id string) string { return domain.KeyPrefix + "search:" + id }

func byArtworkKey(artworkID string) string {
	return domain.KeyPrefix + "search_index:artwork:" + artworkID
}

func interestingKey() string      { return domain.KeyPrefix + "search_index:interesting" }
func artworksKey() string         { return domain.KeyPrefix + "search_index:artworks" }
func countKey() string            { return domain.KeyPrefix + "search_stats:requests" }
func interestingCountKey() string { return domain.KeyPrefix + "search_stats:interesting" }
func costKey() string             { return domain.KeyPrefix + "search_stats:cost_units" }
