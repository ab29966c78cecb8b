package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema is the SQL DDL for the documents table. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS documents (
    id         TEXT PRIMARY KEY,
    title      TEXT NOT NULL DEFAULT '',
    content    TEXT NOT NULL DEFAULT '',
    decisions  JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_documents_title ON documents(title);
`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore is a [Store] backed by a PostgreSQL database. Decision
// records are serialised as JSONB.
type PostgresStore struct {
	db DB
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a new [PostgresStore] that uses the given
// database connection or pool. The caller is responsible for calling
// [PostgresStore.Migrate] to ensure the schema exists before issuing
// queries.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate executes the [Schema] DDL against the database, creating the
// documents table and index if they do not already exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, Schema)
	if err != nil {
		return fmt.Errorf("document: migrate: %w", err)
	}
	return nil
}

// Save creates or replaces a document. The document is validated before
// persistence.
func (s *PostgresStore) Save(ctx context.Context, doc *Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	decJSON, err := json.Marshal(emptyDecisions(doc.Decisions))
	if err != nil {
		return fmt.Errorf("document: marshal decisions: %w", err)
	}

	const query = `
		INSERT INTO documents (id, title, content, decisions)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			decisions = EXCLUDED.decisions,
			updated_at = now()
		RETURNING created_at, updated_at`

	err = s.db.QueryRow(ctx, query,
		doc.ID, doc.Title, doc.Text, decJSON,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("document: save: %w", err)
	}
	return nil
}

// Get retrieves a document by ID. Returns (nil, nil) if not found.
func (s *PostgresStore) Get(ctx context.Context, id string) (*Document, error) {
	const query = `
		SELECT id, title, content, decisions, created_at, updated_at
		FROM documents
		WHERE id = $1`

	var doc Document
	var decJSON []byte

	err := s.db.QueryRow(ctx, query, id).Scan(
		&doc.ID, &doc.Title, &doc.Text, &decJSON, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("document: get %q: %w", id, err)
	}

	if err := json.Unmarshal(decJSON, &doc.Decisions); err != nil {
		return nil, fmt.Errorf("document: unmarshal decisions: %w", err)
	}
	return &doc, nil
}

// List returns all documents ordered by title, content omitted.
func (s *PostgresStore) List(ctx context.Context) ([]Document, error) {
	const query = `
		SELECT id, title, decisions, created_at, updated_at
		FROM documents
		ORDER BY title, id`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("document: list: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var decJSON []byte

		if err := rows.Scan(&doc.ID, &doc.Title, &decJSON, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("document: list scan: %w", err)
		}
		if err := json.Unmarshal(decJSON, &doc.Decisions); err != nil {
			return nil, fmt.Errorf("document: unmarshal decisions: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("document: list: %w", err)
	}
	return docs, nil
}

// Delete removes a document by ID. Deleting a non-existent document is
// not an error.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM documents WHERE id = $1`
	_, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("document: delete %q: %w", id, err)
	}
	return nil
}

// emptyDecisions returns d if non-nil, otherwise an empty non-nil slice.
// This ensures JSON marshalling produces "[]" instead of "null".
func emptyDecisions(d []DecisionRecord) []DecisionRecord {
	if d == nil {
		return []DecisionRecord{}
	}
	return d
}
