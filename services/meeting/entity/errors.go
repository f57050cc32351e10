package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing meeting record or audio file.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks bad or missing upload data, an empty audio
	// file, or an empty transcript.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPreconditionFailed marks an action that requires a completed
	// meeting.
	ErrPreconditionFailed = errors.New("precondition failed")
)

// ProviderError wraps an upstream transcription or language-model failure so
// transport-level errors never leak raw to callers.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err as a failure of the named provider.
func NewProviderError(provider string, err error) error {
	return &ProviderError{Provider: provider, Err: err}
}
