package domain

import (
	"errors"
	"fmt"
)

// Validation errors. The presentation layer maps these to 400s with a
// user-visible message; none of them reach a provider.
var (
	ErrInstructionRequired = errors.New("extraction instructions are required in manual mode")
	ErrUnsupportedImage    = errors.New("unsupported image format: only PNG and JPEG are accepted")
	ErrNoInsight           = errors.New("no image insight available: process an image first")
	ErrEmptyQuestion       = errors.New("question must not be empty")
)

// ErrProviderNotConfigured marks a provider selected without its API key
// being set. Surfaced on the first call that needs the provider.
var ErrProviderNotConfigured = errors.New("provider not configured: missing API key")

// ProviderError wraps a failed model call: network failure, auth rejection,
// rate limiting, or a malformed response. Calls are never retried.
type ProviderError struct {
	Provider Provider
	Status   int // HTTP status from the provider, 0 if the call never completed
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// SearchError wraps a failed web search. It is the one recoverable failure
// in the system: the chat orchestrator degrades to answering without search
// context instead of aborting the turn.
type SearchError struct {
	Query string
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %q: %v", e.Query, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }
