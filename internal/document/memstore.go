package document

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemStore is an in-memory [Store]. It backs tests and deployments that
// run without a database; documents do not survive a restart.
type MemStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[string]*Document)}
}

// Save creates or replaces a document.
func (s *MemStore) Save(_ context.Context, doc *Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, ok := s.docs[doc.ID]; ok {
		doc.CreatedAt = existing.CreatedAt
	} else {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	s.docs[doc.ID] = copyDoc(doc)
	return nil
}

// Get retrieves a document by ID. Returns (nil, nil) if not found.
func (s *MemStore) Get(_ context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, nil
	}
	return copyDoc(doc), nil
}

// List returns all documents ordered by title, content omitted.
func (s *MemStore) List(_ context.Context) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Document, 0, len(s.docs))
	for _, doc := range s.docs {
		d := *copyDoc(doc)
		d.Text = ""
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete removes a document by ID. Deleting a non-existent document is
// not an error.
func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

// copyDoc deep-copies a document so callers cannot mutate stored state.
func copyDoc(doc *Document) *Document {
	cp := *doc
	cp.Decisions = make([]DecisionRecord, len(doc.Decisions))
	copy(cp.Decisions, doc.Decisions)
	return &cp
}
