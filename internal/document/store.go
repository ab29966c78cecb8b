// Package document persists documents and their per-session analysis
// state. The session auto-saves through a [Store] after edits settle; on
// load the saved decision records restore which suggestions the user
// already resolved.
package document

import (
	"context"
	"fmt"
	"time"
)

// Document is one persisted piece of writing.
type Document struct {
	// ID is the caller-assigned document identifier.
	ID string

	// Title is the user-visible document name.
	Title string

	// Text is the plain-text document content.
	Text string

	// Decisions holds the session's resolved suggestion keys, serialised
	// as kind/original-text/action triples, so accepted and dismissed
	// suggestions stay resolved across reloads.
	Decisions []DecisionRecord

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DecisionRecord is one persisted accept/dismiss outcome.
type DecisionRecord struct {
	Kind         string `json:"kind"`
	OriginalText string `json:"originalText"`
	Action       string `json:"action"`
}

// Validate checks the invariants a Document must satisfy before
// persistence.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("document: id must not be empty")
	}
	return nil
}

// Store provides persistence for documents.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save creates or replaces a document. The document is validated
	// before persistence.
	Save(ctx context.Context, doc *Document) error

	// Get retrieves a document by ID. Returns (nil, nil) if not found.
	Get(ctx context.Context, id string) (*Document, error)

	// List returns all documents ordered by title, content omitted.
	List(ctx context.Context) ([]Document, error)

	// Delete removes a document by ID. Deleting a non-existent document
	// is not an error.
	Delete(ctx context.Context, id string) error
}
