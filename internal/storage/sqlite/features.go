package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/artwatch/internal/domain"
	"github.com/kailas-cloud/artwatch/internal/domain/feature"
)

const featureColumns = `artwork_id, phash, dhash, ahash, embedding, width, height, format,
	file_size_bytes, sharpness, contrast, brightness, grayscale, model_version, extracted_at`

// FeatureRepo stores feature records in the features table.
type FeatureRepo struct {
	db *sql.DB
}

// Put replaces the feature record of an artwork.
func (r *FeatureRepo) Put(ctx context.Context, rec *feature.Record) error {
	var emb []byte
	if rec.HasEmbedding() {
		emb = feature.EncodeEmbedding(rec.Embedding)
	}
	var extracted int64
	if !rec.ExtractedAt.IsZero() {
		extracted = rec.ExtractedAt.UnixMilli()
	}
	q := rec.Quality
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO features (`+featureColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ArtworkID, rec.PHash, rec.DHash, rec.AHash, emb,
		q.Width, q.Height, q.Format, q.FileSizeBytes, q.Sharpness, q.Contrast, q.Brightness,
		boolToInt(q.Grayscale), q.ModelVersion, extracted,
	)
	if err != nil {
		return domain.NewStoreError(storeName, "put features", err)
	}
	return nil
}

// Get returns the record of one artwork or domain.ErrNotFound.
func (r *FeatureRepo) Get(ctx context.Context, artworkID string) (feature.Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+featureColumns+` FROM features WHERE artwork_id = ?`, artworkID)
	rec, err := scanFeature(row)
	if errors.Is(err, sql.ErrNoRows) {
		return feature.Record{}, fmt.Errorf("features of %s: %w", artworkID, domain.ErrNotFound)
	}
	if err != nil {
		return feature.Record{}, domain.NewStoreError(storeName, "get features", err)
	}
	return rec, nil
}

// ListAll returns up to limit records ordered by artwork id. A non-positive limit returns all.
func (r *FeatureRepo) ListAll(ctx context.Context, limit int) ([]feature.Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+featureColumns+` FROM features ORDER BY artwork_id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, domain.NewStoreError(storeName, "list features", err)
	}
	defer rows.Close()

	var out []feature.Record
	for rows.Next() {
		rec, err := scanFeature(rows)
		if err != nil {
			return nil, domain.NewStoreError(storeName, "list features", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError(storeName, "list features", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeature(sc scanner) (feature.Record, error) {
	var (
		rec       feature.Record
		emb       []byte
		grayscale int
		extracted int64
	)
	q := &rec.Quality
	if err := sc.Scan(&rec.ArtworkID, &rec.PHash, &rec.DHash, &rec.AHash, &emb,
		&q.Width, &q.Height, &q.Format, &q.FileSizeBytes, &q.Sharpness, &q.Contrast, &q.Brightness,
		&grayscale, &q.ModelVersion, &extracted); err != nil {
		return feature.Record{}, err
	}
	rec.Embedding = feature.DecodeEmbedding(emb)
	q.Grayscale = grayscale != 0
	if extracted > 0 {
		rec.ExtractedAt = time.UnixMilli(extracted).UTC()
	}
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
