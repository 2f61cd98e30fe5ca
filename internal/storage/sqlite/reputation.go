package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/artwatch/internal/domain"
	"github.com/kailas-cloud/artwatch/internal/domain/reputation"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
)

// ReputationRepo stores domain reputations. Apply is a single-transaction upsert.
type ReputationRepo struct {
	db *sql.DB
}

// Apply folds one delta into the stored reputation of d.Domain.
func (r *ReputationRepo) Apply(ctx context.Context, d reputation.Delta) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewStoreError(storeName, "apply reputation", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	seen := d.SeenAt.UnixMilli()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO domain_reputation (domain, category, total_appearances, first_seen, last_seen, flagged_suspicious)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET
			category = CASE WHEN excluded.category != '' THEN excluded.category ELSE domain_reputation.category END,
			total_appearances = domain_reputation.total_appearances + excluded.total_appearances,
			first_seen = MIN(domain_reputation.first_seen, excluded.first_seen),
			last_seen = MAX(domain_reputation.last_seen, excluded.last_seen),
			flagged_suspicious = MAX(domain_reputation.flagged_suspicious, excluded.flagged_suspicious)`,
		d.Domain, string(d.Category), d.Appearances, seen, seen, boolToInt(d.Flags()),
	)
	if err != nil {
		return domain.NewStoreError(storeName, "apply reputation", err)
	}

	if d.ArtworkID != "" {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO domain_artworks (domain, artwork_id) VALUES (?, ?)`,
			d.Domain, d.ArtworkID); err != nil {
			return domain.NewStoreError(storeName, "apply reputation", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.NewStoreError(storeName, "apply reputation", err)
	}
	return nil
}

// Get returns the reputation of a normalized domain or domain.ErrNotFound.
func (r *ReputationRepo) Get(ctx context.Context, name string) (reputation.Reputation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT domain, category, total_appearances, first_seen, last_seen, flagged_suspicious
		FROM domain_reputation WHERE domain = ?`, name)
	rep, err := scanReputation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return reputation.Reputation{}, fmt.Errorf("reputation of %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return reputation.Reputation{}, domain.NewStoreError(storeName, "get reputation", err)
	}
	if rep.ArtworksFound, err = r.artworks(ctx, name); err != nil {
		return reputation.Reputation{}, err
	}
	return rep, nil
}

// ListSuspicious returns flagged domains ordered by total appearances descending.
func (r *ReputationRepo) ListSuspicious(ctx context.Context, limit int) ([]reputation.Reputation, error) {
	return r.list(ctx, `flagged_suspicious = 1`, nil, limit)
}

// ListByCategory returns domains of one category ordered by total appearances descending.
func (r *ReputationRepo) ListByCategory(
	ctx context.Context, c vision.Category, limit int,
) ([]reputation.Reputation, error) {
	return r.list(ctx, `category = ?`, []any{string(c)}, limit)
}

func (r *ReputationRepo) list(ctx context.Context, where string, args []any, limit int) ([]reputation.Reputation, error) {
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)
	rows, err := r.db.QueryContext(ctx, `
		SELECT domain, category, total_appearances, first_seen, last_seen, flagged_suspicious
		FROM domain_reputation WHERE `+where+`
		ORDER BY total_appearances DESC, domain DESC LIMIT ?`, args...)
	if err != nil {
		return nil, domain.NewStoreError(storeName, "list reputation", err)
	}

	var out []reputation.Reputation
	for rows.Next() {
		rep, err := scanReputation(rows)
		if err != nil {
			rows.Close()
			return nil, domain.NewStoreError(storeName, "list reputation", err)
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, domain.NewStoreError(storeName, "list reputation", err)
	}
	// Close before issuing the per-domain queries: the pool holds one connection.
	rows.Close()

	for i := range out {
		if out[i].ArtworksFound, err = r.artworks(ctx, out[i].Domain); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *ReputationRepo) artworks(ctx context.Context, name string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT artwork_id FROM domain_artworks WHERE domain = ? ORDER BY artwork_id ASC`, name)
	if err != nil {
		return nil, domain.NewStoreError(storeName, "get reputation artworks", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, domain.NewStoreError(storeName, "get reputation artworks", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError(storeName, "get reputation artworks", err)
	}
	return ids, nil
}

func scanReputation(sc scanner) (reputation.Reputation, error) {
	var (
		rep         reputation.Reputation
		category    string
		first, last int64
		flagged     int
	)
	if err := sc.Scan(&rep.Domain, &category, &rep.TotalAppearances, &first, &last, &flagged); err != nil {
		return reputation.Reputation{}, err
	}
	rep.Category = vision.Category(category)
	rep.FirstSeen = time.UnixMilli(first).UTC()
	rep.LastSeen = time.UnixMilli(last).UTC()
	rep.FlaggedSuspicious = flagged != 0
	return rep, nil
}
