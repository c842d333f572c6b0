package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the calculation layer. Callers branch with
// errors.Is rather than string matching.
var (
	ErrPriceNotFound     = errors.New("price not found")
	ErrInsufficientData  = errors.New("insufficient data for regression")
	ErrDuplicateRun      = errors.New("run already in progress for job type")
	ErrRunNotFound       = errors.New("run not found")
	ErrMissingConfig     = errors.New("missing required configuration")
	ErrProviderExhausted = errors.New("all data providers failed")
)

// TransientProviderError marks a provider failure worth retrying
// (timeouts, rate limits). Anything else from a provider is treated
// as persistent and fails the job immediately.
type TransientProviderError struct {
	Provider string
	Err      error
}

func (e TransientProviderError) Error() string {
	return fmt.Sprintf("transient error from provider %s: %v", e.Provider, e.Err)
}

func (e TransientProviderError) Unwrap() error {
	return e.Err
}

func NewTransientProviderError(provider string, err error) error {
	return TransientProviderError{Provider: provider, Err: err}
}

func IsTransient(err error) bool {
	var t TransientProviderError
	return errors.As(err, &t)
}

// PriceMissingError wraps ErrPriceNotFound with lookup context so the
// orchestrator can log which symbol/date degraded a calculation.
type PriceMissingError struct {
	Symbol string
	Date   time.Time
}

func (e PriceMissingError) Error() string {
	return fmt.Sprintf("no price for %s on %s", e.Symbol, e.Date.Format(time.DateOnly))
}

func (e PriceMissingError) Is(target error) bool {
	return target == ErrPriceNotFound
}
