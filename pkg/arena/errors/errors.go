// Package errors provides domain-specific error types for the comparison engine
package errors

import (
	"errors"
	"fmt"
)

// Standard errors that can be used with errors.Is()
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrModelNotFound indicates no configured provider serves the model
	ErrModelNotFound = errors.New("model not found")

	// ErrProviderUnavailable indicates the provider is not available
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrTransport indicates the request never produced a provider response
	// (connection refused, DNS failure, aborted stream). Transport failures
	// are transient and eligible for retry.
	ErrTransport = errors.New("transport failure")

	// ErrApplication indicates the provider answered with a structured error
	// body. Application failures are terminal for the call; retrying would
	// not change the outcome.
	ErrApplication = errors.New("provider reported an error")

	// ErrEmptyResponse indicates the provider returned a response with no text
	ErrEmptyResponse = errors.New("empty response from provider")
)

// CallError wraps provider call errors with context
type CallError struct {
	// Provider is the name of the provider (e.g., "openai", "gemini")
	Provider string

	// Op being performed (e.g., "complete", "resolve")
	Op string

	// Underlying error
	Err error
}

// Error implements the error interface
func (e *CallError) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *CallError) Unwrap() error {
	return e.Err
}

// New creates a new CallError
func New(provider, op string, err error) error {
	return &CallError{
		Provider: provider,
		Op:       op,
		Err:      err,
	}
}

// Wrap adds provider context to an existing error
func Wrap(err error, provider, op string) error {
	if err == nil {
		return nil
	}
	return &CallError{
		Provider: provider,
		Op:       op,
		Err:      err,
	}
}

// Is enables custom error matching
func (e *CallError) Is(target error) bool {
	if errors.Is(e.Err, target) {
		return true
	}

	t, ok := target.(*CallError)
	if !ok {
		return false
	}

	if t.Provider != "" && t.Provider != e.Provider {
		return false
	}
	if t.Op != "" && t.Op != e.Op {
		return false
	}

	if t.Provider != "" || t.Op != "" {
		return true
	}

	return errors.Is(e.Err, t.Err)
}
