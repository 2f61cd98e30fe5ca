package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/artwatch/internal/domain"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
)

const requestColumns = `id, artwork_id, image_source, full_count, partial_count, similar_count, pages_count,
	best_match_score, interest_score, api_cost_units, processing_time_ms, created_at, interesting`

// SearchRequestRepo stores scored search requests with their matches and entities.
type SearchRequestRepo struct {
	db *sql.DB
}

// Save persists a request and, for interesting ones, its match and entity rows in one transaction.
func (r *SearchRequestRepo) Save(ctx context.Context, req *vision.SearchRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewStoreError(storeName, "save search request", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `INSERT INTO search_requests (`+requestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.ArtworkID, string(req.ImageSource),
		req.Counts.Full, req.Counts.Partial, req.Counts.Similar, req.Counts.Pages,
		nullFloat(req.BestMatchScore), req.InterestScore, req.APICostUnits, nullInt(req.ProcessingTimeMS),
		req.CreatedAt.UnixMilli(), boolToInt(req.HasInterestingResults()),
	)
	if err != nil {
		return domain.NewStoreError(storeName, "save search request", err)
	}

	for i, m := range req.Matches() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO search_matches
			(request_id, position, match_type, image_url, page_url, page_title, domain, category, confidence)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			req.ID, i, string(m.Type), m.ImageURL, m.PageURL, m.PageTitle, m.Domain, string(m.Category),
			nullFloat(m.Confidence),
		); err != nil {
			return domain.NewStoreError(storeName, "save search match", err)
		}
	}
	for i, e := range req.Entities() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO search_entities (request_id, position, description, score) VALUES (?, ?, ?, ?)`,
			req.ID, i, e.Description, nullFloat(e.Score),
		); err != nil {
			return domain.NewStoreError(storeName, "save search entity", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.NewStoreError(storeName, "save search request", err)
	}
	return nil
}

// Get returns one search request or domain.ErrNotFound.
func (r *SearchRequestRepo) Get(ctx context.Context, id string) (vision.SearchRequest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM search_requests WHERE id = ?`, id)
	req, interesting, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return vision.SearchRequest{}, fmt.Errorf("search request %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return vision.SearchRequest{}, domain.NewStoreError(storeName, "get search request", err)
	}
	if err := r.attachOutcome(ctx, &req, interesting); err != nil {
		return vision.SearchRequest{}, err
	}
	return req, nil
}

// ListInteresting returns interesting requests, newest first.
func (r *SearchRequestRepo) ListInteresting(ctx context.Context, offset, limit int) ([]vision.SearchRequest, error) {
	return r.list(ctx, `interesting = 1`, nil, offset, limit)
}

// ListByArtwork returns the requests of one artwork, newest first.
func (r *SearchRequestRepo) ListByArtwork(
	ctx context.Context, artworkID string, limit int,
) ([]vision.SearchRequest, error) {
	return r.list(ctx, `artwork_id = ?`, []any{artworkID}, 0, limit)
}

// Stats returns aggregate counters.
func (r *SearchRequestRepo) Stats(ctx context.Context) (vision.Stats, error) {
	var st vision.Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(interesting), 0), COUNT(DISTINCT artwork_id), COALESCE(SUM(api_cost_units), 0)
		FROM search_requests`,
	).Scan(&st.Requests, &st.InterestingRequests, &st.ArtworksSearched, &st.TotalCostUnits)
	if err != nil {
		return vision.Stats{}, domain.NewStoreError(storeName, "search stats", err)
	}
	return st, nil
}

func (r *SearchRequestRepo) list(
	ctx context.Context, where string, args []any, offset, limit int,
) ([]vision.SearchRequest, error) {
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, `SELECT `+requestColumns+` FROM search_requests
		WHERE `+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, domain.NewStoreError(storeName, "list search requests", err)
	}

	var (
		out   []vision.SearchRequest
		flags []bool
	)
	for rows.Next() {
		req, interesting, err := scanRequest(rows)
		if err != nil {
			rows.Close()
			return nil, domain.NewStoreError(storeName, "list search requests", err)
		}
		out = append(out, req)
		flags = append(flags, interesting)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, domain.NewStoreError(storeName, "list search requests", err)
	}
	rows.Close()

	for i := range out {
		if err := r.attachOutcome(ctx, &out[i], flags[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SearchRequestRepo) attachOutcome(ctx context.Context, req *vision.SearchRequest, interesting bool) error {
	if !interesting {
		req.Outcome = vision.Routine{}
		return nil
	}
	in := vision.Interesting{}

	rows, err := r.db.QueryContext(ctx, `
		SELECT match_type, image_url, page_url, page_title, domain, category, confidence
		FROM search_matches WHERE request_id = ? ORDER BY position ASC`, req.ID)
	if err != nil {
		return domain.NewStoreError(storeName, "get search matches", err)
	}
	for rows.Next() {
		var (
			m          vision.Match
			typ, cat   string
			confidence sql.NullFloat64
		)
		if err := rows.Scan(&typ, &m.ImageURL, &m.PageURL, &m.PageTitle, &m.Domain, &cat, &confidence); err != nil {
			rows.Close()
			return domain.NewStoreError(storeName, "get search matches", err)
		}
		m.Type = vision.MatchType(typ)
		m.Category = vision.Category(cat)
		m.Confidence = floatPtr(confidence)
		in.Matches = append(in.Matches, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return domain.NewStoreError(storeName, "get search matches", err)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx, `
		SELECT description, score FROM search_entities WHERE request_id = ? ORDER BY position ASC`, req.ID)
	if err != nil {
		return domain.NewStoreError(storeName, "get search entities", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			e     vision.Entity
			score sql.NullFloat64
		)
		if err := rows.Scan(&e.Description, &score); err != nil {
			return domain.NewStoreError(storeName, "get search entities", err)
		}
		e.Score = floatPtr(score)
		in.Entities = append(in.Entities, e)
	}
	if err := rows.Err(); err != nil {
		return domain.NewStoreError(storeName, "get search entities", err)
	}

	req.Outcome = in
	return nil
}

func scanRequest(sc scanner) (vision.SearchRequest, bool, error) {
	var (
		req         vision.SearchRequest
		source      string
		best        sql.NullFloat64
		procMS      sql.NullInt64
		created     int64
		interesting int
	)
	if err := sc.Scan(&req.ID, &req.ArtworkID, &source,
		&req.Counts.Full, &req.Counts.Partial, &req.Counts.Similar, &req.Counts.Pages,
		&best, &req.InterestScore, &req.APICostUnits, &procMS, &created, &interesting); err != nil {
		return vision.SearchRequest{}, false, err
	}
	req.ImageSource = vision.ImageSource(source)
	req.BestMatchScore = floatPtr(best)
	if procMS.Valid {
		v := procMS.Int64
		req.ProcessingTimeMS = &v
	}
	req.CreatedAt = time.UnixMilli(created).UTC()
	return req, interesting != 0, nil
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
