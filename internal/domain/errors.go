package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals a request that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrStoreUnavailable signals a failed record lookup or persistence call.
	// Fatal to the current request only; never retried inside the engine.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// StoreError wraps a storage failure with the store and operation it came from.
type StoreError struct {
	Store string
	Op    string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrStoreUnavailable.Error(), e.Store, e.Op, e.Err)
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *StoreError) Unwrap() []error { return []error{ErrStoreUnavailable, e.Err} }

// NewStoreError creates a store failure error.
func NewStoreError(store, op string, err error) error {
	return &StoreError{Store: store, Op: op, Err: err}
}
