package library

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// JSONStore keeps the library in a single JSON file keyed by document ID.
// Every change is written through to disk.
type JSONStore struct {
	path string
	data map[string]Document
	mu   sync.RWMutex
	now  func() time.Time
}

// OpenJSON creates or loads the library file at path.
func OpenJSON(path string) (*JSONStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	store := &JSONStore{
		path: path,
		data: make(map[string]Document),
		now:  time.Now,
	}
	if err := store.load(); err != nil {
		return nil, fmt.Errorf("load library %s: %w", path, err)
	}
	return store, nil
}

// Path returns the library file location.
func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) Add(_ context.Context, doc Document) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := prepare(doc, s.now())
	if err != nil {
		return Document{}, err
	}
	if old, ok := s.data[doc.ID]; ok {
		doc.WordIndex = old.WordIndex
		doc.SentenceIndex = old.SentenceIndex
		doc.AddedAt = old.AddedAt
	}
	s.data[doc.ID] = doc
	return doc, s.save()
}

func (s *JSONStore) Get(_ context.Context, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.data[id]
	if !ok {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc, nil
}

func (s *JSONStore) List(_ context.Context) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]Document, 0, len(s.data))
	for _, doc := range s.data {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].AddedAt.Equal(docs[j].AddedAt) {
			return docs[i].AddedAt.Before(docs[j].AddedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

func (s *JSONStore) Remove(_ context.Context, id string) error {
	return s.update(id, func(*Document) bool { return false })
}

func (s *JSONStore) Rename(_ context.Context, id, title string) error {
	return s.update(id, func(doc *Document) bool {
		doc.Title = title
		return true
	})
}

func (s *JSONStore) Text(ctx context.Context, id string) (string, error) {
	doc, err := s.Get(ctx, id)
	return doc.Text, err
}

func (s *JSONStore) Offsets(ctx context.Context, id string) (int, int, error) {
	doc, err := s.Get(ctx, id)
	return doc.WordIndex, doc.SentenceIndex, err
}

func (s *JSONStore) SaveOffsets(_ context.Context, id string, word, sentence int) error {
	return s.update(id, func(doc *Document) bool {
		doc.WordIndex = word
		doc.SentenceIndex = sentence
		return true
	})
}

// Close is a no-op; every change is already on disk.
func (s *JSONStore) Close() error {
	return nil
}

// update applies fn to the stored document and saves. fn returning false
// deletes the document.
func (s *JSONStore) update(id string, fn func(*Document) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.data[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if fn(&doc) {
		s.data[id] = doc
	} else {
		delete(s.data, id)
	}
	return s.save()
}

func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, &s.data)
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
