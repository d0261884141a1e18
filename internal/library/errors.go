package library

import "errors"

var (
	// ErrNotFound indicates no document has the requested ID.
	ErrNotFound = errors.New("document not found")

	// ErrUnknownBackend indicates an unsupported store backend name.
	ErrUnknownBackend = errors.New("unknown library backend")

	// ErrEmptyDocument indicates a document without an ID or text.
	ErrEmptyDocument = errors.New("document has no text")
)
