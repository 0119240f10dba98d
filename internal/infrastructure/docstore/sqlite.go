package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pouchpalace/backend/internal/domain"
)

// SQLiteStore is an embedded keyed document store. Each document is kept as
// a JSON body under (collection, id).
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates or opens a document store at dbPath
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; sqlite serializes anyway
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		body TEXT NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (collection, id)
	);
	CREATE INDEX IF NOT EXISTS idx_documents_updated ON documents(updated_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// UpsertDocument inserts doc or replaces the existing document with the same id
func (s *SQLiteStore) UpsertDocument(ctx context.Context, collection string, doc domain.Document) error {
	if collection == "" || doc.ID == "" {
		return fmt.Errorf("%w: collection and id are required", domain.ErrInvalidRequest)
	}

	body, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", doc.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, body, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at`,
		collection, doc.ID, string(body), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDocumentStoreFailure, err)
	}
	return nil
}

// GetDocument returns the document stored under collection/id
func (s *SQLiteStore) GetDocument(ctx context.Context, collection, id string) (*domain.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`,
		collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentStoreFailure, err)
	}

	doc := &domain.Document{ID: id}
	if err := json.Unmarshal([]byte(body), &doc.Fields); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return doc, nil
}

// ListDocuments returns every document in collection ordered by id
func (s *SQLiteStore) ListDocuments(ctx context.Context, collection string) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, body FROM documents WHERE collection = ? ORDER BY id`,
		collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentStoreFailure, err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		doc := domain.Document{ID: id}
		if err := json.Unmarshal([]byte(body), &doc.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Count returns the number of documents in collection
func (s *SQLiteStore) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE collection = ?`, collection).Scan(&n)
	return n, err
}
