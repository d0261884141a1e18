package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore keeps the library in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates the database at path and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate library %s: %w", path, err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL,
			word_index INTEGER NOT NULL DEFAULT 0,
			sentence_index INTEGER NOT NULL DEFAULT 0,
			added_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_added_at ON documents(added_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Add(ctx context.Context, doc Document) (Document, error) {
	doc, err := prepare(doc, s.now())
	if err != nil {
		return Document{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, source, body, word_index, sentence_index, added_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			source = excluded.source,
			body = excluded.body`,
		doc.ID, doc.Title, doc.Source, doc.Text,
		doc.WordIndex, doc.SentenceIndex, doc.AddedAt.UnixNano(),
	)
	if err != nil {
		return Document{}, err
	}
	return s.Get(ctx, doc.ID)
}

const documentColumns = `id, title, source, body, word_index, sentence_index, added_at`

func (s *SQLiteStore) Get(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc, err
}

func (s *SQLiteStore) List(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY added_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	return s.exec(ctx, id, `DELETE FROM documents WHERE id = ?`, id)
}

func (s *SQLiteStore) Rename(ctx context.Context, id, title string) error {
	return s.exec(ctx, id, `UPDATE documents SET title = ? WHERE id = ?`, title, id)
}

func (s *SQLiteStore) Text(ctx context.Context, id string) (string, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return body, err
}

func (s *SQLiteStore) Offsets(ctx context.Context, id string) (int, int, error) {
	var word, sentence int
	err := s.db.QueryRowContext(ctx,
		`SELECT word_index, sentence_index FROM documents WHERE id = ?`, id,
	).Scan(&word, &sentence)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return word, sentence, err
}

func (s *SQLiteStore) SaveOffsets(ctx context.Context, id string, word, sentence int) error {
	return s.exec(ctx, id,
		`UPDATE documents SET word_index = ?, sentence_index = ? WHERE id = ?`,
		word, sentence, id)
}

// exec runs a single-row statement and maps zero affected rows to
// ErrNotFound.
func (s *SQLiteStore) exec(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (Document, error) {
	var (
		doc   Document
		added int64
	)
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Source, &doc.Text,
		&doc.WordIndex, &doc.SentenceIndex, &added); err != nil {
		return Document{}, err
	}
	doc.AddedAt = time.Unix(0, added)
	return doc, nil
}
