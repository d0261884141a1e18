// Package library keeps the documents a reader has opened together with
// their saved reading offsets.
package library

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/sahilm/fuzzy"
)

const hashBytes = 8192 // First 8KB for content hash

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Document is a stored text with one saved offset per grouping mode.
// Offsets are unit indices, not word positions.
type Document struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Source        string    `json:"source,omitempty"`
	Text          string    `json:"text"`
	WordIndex     int       `json:"word_index"`
	SentenceIndex int       `json:"sentence_index"`
	AddedAt       time.Time `json:"added_at"`
}

// Store is implemented by every library backend. Its Text, Offsets and
// SaveOffsets methods satisfy playback.Store.
type Store interface {
	// Add stores doc. Adding an existing ID refreshes its title, source
	// and text but keeps the saved offsets and AddedAt.
	Add(ctx context.Context, doc Document) (Document, error)
	Get(ctx context.Context, id string) (Document, error)
	// List returns all documents, oldest first.
	List(ctx context.Context) ([]Document, error)
	Remove(ctx context.Context, id string) error
	Rename(ctx context.Context, id, title string) error

	Text(ctx context.Context, id string) (string, error)
	Offsets(ctx context.Context, id string) (word, sentence int, err error)
	SaveOffsets(ctx context.Context, id string, word, sentence int) error

	Close() error
}

// Open opens the named backend at path. An empty path selects the default
// file under the state directory and a leading ~ is expanded.
func Open(backend, path string) (Store, error) {
	if backend == "" {
		backend = BackendJSON
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expand library path: %w", err)
	}
	if path == "" {
		p, err := DefaultPath(backend)
		if err != nil {
			return nil, err
		}
		path = p
	}
	switch backend {
	case BackendJSON:
		return OpenJSON(path)
	case BackendSQLite:
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// DefaultPath returns the library file for backend under StateDir.
func DefaultPath(backend string) (string, error) {
	switch backend {
	case BackendJSON:
		return filepath.Join(StateDir(), "library.json"), nil
	case BackendSQLite:
		return filepath.Join(StateDir(), "library.db"), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// StateDir returns XDG_STATE_HOME/pacer or ~/.local/state/pacer
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "pacer")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "pacer")
}

// HashText derives a document ID from the first 8KB of text.
func HashText(text string) string {
	b := []byte(text)
	if len(b) > hashBytes {
		b = b[:hashBytes]
	}
	return hashPrefix(b)
}

// HashFile derives a document ID from the first 8KB of a file, so the ID
// is stable regardless of how the text is extracted.
func HashFile(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, hashBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	return hashPrefix(buf[:n]), nil
}

func hashPrefix(b []byte) string {
	hash := sha256.Sum256(b)
	return hex.EncodeToString(hash[:16]) // First 16 bytes = 32 hex chars
}

// Find fuzzy-matches query against document titles, best match first.
// An empty query returns every document.
func Find(ctx context.Context, s Store, query string) ([]Document, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return docs, nil
	}
	matches := fuzzy.FindFrom(query, titles(docs))
	found := make([]Document, len(matches))
	for i, m := range matches {
		found[i] = docs[m.Index]
	}
	return found, nil
}

type titles []Document

func (t titles) String(i int) string { return t[i].Title }
func (t titles) Len() int            { return len(t) }

// prepare fills in the ID and AddedAt of a new document.
func prepare(doc Document, now time.Time) (Document, error) {
	if doc.ID == "" {
		if doc.Text == "" {
			return doc, ErrEmptyDocument
		}
		doc.ID = HashText(doc.Text)
	}
	if doc.Title == "" {
		doc.Title = untitled(doc.Text)
	}
	if doc.AddedAt.IsZero() {
		doc.AddedAt = now
	}
	return doc, nil
}

// untitled builds a title from the first few words of text.
func untitled(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return "Untitled"
	}
	if len(words) > 6 {
		return strings.Join(words[:6], " ") + "…"
	}
	return strings.Join(words, " ")
}
