// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Fatal configuration errors. These abort startup; the process cannot run
// without a valid configuration.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrConfigMalformed = errors.New("config file malformed")
)

// Recoverable per-asset errors. These are caught at the price source
// boundary and degrade the single asset to the unavailable sentinel.
var (
	ErrUnmappedSymbol      = errors.New("symbol not present in crypto mapping")
	ErrProviderTimeout     = errors.New("price provider timed out")
	ErrProviderUnreachable = errors.New("price provider unreachable")
	ErrMalformedResponse   = errors.New("malformed provider response")
)

// ErrLogCorrupted marks an unreadable alert log. Non-fatal: the log is
// treated as empty so alerts are never blocked, but a warning is surfaced.
var ErrLogCorrupted = errors.New("alert log corrupted")

// ProviderError carries provider and symbol context for a failed price fetch.
type ProviderError struct {
	Provider string
	Symbol   string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error [%s] %s: %v", e.Provider, e.Symbol, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new ProviderError.
func NewProviderError(provider, symbol string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Symbol:   symbol,
		Err:      err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
