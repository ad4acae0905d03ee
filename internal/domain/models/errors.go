package models

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is reported when no API key is configured.
var ErrMissingCredential = errors.New("no API key found in environment variables (GEMINI_API_KEY or GOOGLE_API_KEY)")

// ErrRefreshLocked is returned when another writer holds the refresh lock.
var ErrRefreshLocked = errors.New("refresh lock held by another writer")

// ConfigurationError aborts a generation attempt before any network call.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string { return "configuration: " + e.Err.Error() }

func (e *ConfigurationError) Unwrap() error { return e.Err }

// GenerationError covers transport, response and schema failures of the
// generative service. Message is what ends up in status.last_error.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// NewGenerationError wraps err unless it already is a GenerationError.
func NewGenerationError(op string, err error) error {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return err
	}
	return &GenerationError{Op: op, Err: err}
}

// PersistenceError is a failed snapshot read or write.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
