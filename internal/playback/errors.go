package playback

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy indicates a playback run is already in progress.
	ErrBusy = errors.New("playback already running")

	// ErrOtherDocument indicates the running session belongs to another document.
	ErrOtherDocument = errors.New("session is running for a different document")

	// ErrNotRunning indicates a command that needs an active run found none.
	ErrNotRunning = errors.New("playback is not running")

	// ErrNoSession indicates there is no unit sequence to move through.
	ErrNoSession = errors.New("no playback session")

	// ErrInvalidConfig indicates a rejected playback configuration.
	ErrInvalidConfig = errors.New("invalid playback configuration")

	// ErrDefineUnavailable indicates a definition cannot be looked up in
	// the current state.
	ErrDefineUnavailable = errors.New("definitions are only available while idle in single-word mode")

	// ErrClosed indicates the controller has been closed.
	ErrClosed = errors.New("controller closed")
)

// ConfigError describes a rejected configuration field.
type ConfigError struct {
	Field string
	Value any
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s=%v: %v", ErrInvalidConfig, e.Field, e.Value, e.Cause)
	}
	return fmt.Sprintf("%s: %s=%v", ErrInvalidConfig, e.Field, e.Value)
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports ErrInvalidConfig as a match so callers can test with errors.Is.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
