package main

import (
	"errors"

	"github.com/kailas-cloud/artwatch/internal/domain"
)

// Exit codes.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // Runtime failure
	ExitConfigError = 2 // Missing or invalid config
	ExitDataError   = 3 // Malformed input, validation failure
	ExitUnavailable = 4 // Storage backend unreachable
)

// configError marks failures to load or validate configuration.
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ce *configError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &ce):
		return ExitConfigError
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrNotFound):
		return ExitDataError
	case errors.Is(err, domain.ErrStoreUnavailable):
		return ExitUnavailable
	}
	return ExitError
}
