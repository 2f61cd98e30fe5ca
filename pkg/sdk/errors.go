package artwatch

import "github.com/kailas-cloud/artwatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrInvalidRequest   = domain.ErrInvalidRequest
	ErrStoreUnavailable = domain.ErrStoreUnavailable
)
