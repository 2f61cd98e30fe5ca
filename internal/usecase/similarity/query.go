package similarity

import (
	"fmt"

	"github.com/kailas-cloud/artwatch/internal/domain"
	domsim "github.com/kailas-cloud/artwatch/internal/domain/similarity"
)

// Default thresholds.
const (
	DefaultHashThreshold            = 10
	DefaultEmbeddingThreshold       = 0.80
	DefaultHybridHashThreshold      = 15
	DefaultHybridEmbeddingThreshold = 0.75
	DefaultDuplicateThreshold       = 5
	DefaultLimit                    = 10
	MaxLimit                        = 100
)

// Query is one similarity invocation.
type Query struct {
	SourceID           string
	Method             domsim.Method
	HashThreshold      int
	EmbeddingThreshold float64
	Limit              int
}

// NewQuery builds a query with method-specific default thresholds.
// Hybrid gets the looser hybrid thresholds.
func NewQuery(sourceID string, m domsim.Method) Query {
	q := Query{SourceID: sourceID, Method: m, Limit: DefaultLimit}
	switch m {
	case domsim.Hybrid:
		q.HashThreshold = DefaultHybridHashThreshold
		q.EmbeddingThreshold = DefaultHybridEmbeddingThreshold
	default:
		q.HashThreshold = DefaultHashThreshold
		q.EmbeddingThreshold = DefaultEmbeddingThreshold
	}
	return q
}

// Validate checks the query ranges.
func (q *Query) Validate() error {
	if q.SourceID == "" {
		return fmt.Errorf("%w: source artwork id is required", domain.ErrInvalidRequest)
	}
	if err := validateHashThreshold(q.HashThreshold); err != nil {
		return err
	}
	if err := validateEmbeddingThreshold(q.EmbeddingThreshold); err != nil {
		return err
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be within [1, %d], got %d", domain.ErrInvalidRequest, MaxLimit, q.Limit)
	}
	return nil
}

func validateHashThreshold(t int) error {
	if t < 0 || t > domsim.HashBits {
		return fmt.Errorf("%w: hash threshold must be within [0, %d], got %d",
			domain.ErrInvalidRequest, domsim.HashBits, t)
	}
	return nil
}

func validateEmbeddingThreshold(t float64) error {
	if t < 0 || t > 1 {
		return fmt.Errorf("%w: embedding threshold must be within [0, 1], got %v", domain.ErrInvalidRequest, t)
	}
	return nil
}
