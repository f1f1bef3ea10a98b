package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryBackend implements Backend in process memory. Documents are lost
// when the process exits.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string]*Document

	// now is replaced in tests
	now func() time.Time
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		docs: make(map[string]*Document),
		now:  time.Now,
	}
}

// Save creates or replaces a document.
func (m *MemoryBackend) Save(ctx context.Context, doc *Document) error {
	if err := validateDocument(doc); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	stored := &Document{ID: doc.ID, Text: doc.Text, CreatedAt: now, UpdatedAt: now}
	if !doc.UpdatedAt.IsZero() {
		stored.UpdatedAt = doc.UpdatedAt
	}
	if existing, ok := m.docs[doc.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if !doc.CreatedAt.IsZero() {
		stored.CreatedAt = doc.CreatedAt
	}

	m.docs[doc.ID] = stored
	return nil
}

// Load returns a copy of the document, or nil if it does not exist.
func (m *MemoryBackend) Load(ctx context.Context, id string) (*Document, error) {
	if id == "" {
		return nil, fmt.Errorf("id cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	cp := *doc
	return &cp, nil
}

// Delete removes a document.
func (m *MemoryBackend) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("id cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.docs, id)
	return nil
}

// List returns copies of every document ordered by id.
func (m *MemoryBackend) List(ctx context.Context) ([]*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*Document, 0, len(m.docs))
	for _, doc := range m.docs {
		cp := *doc
		docs = append(docs, &cp)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	return docs, nil
}

// Count returns the number of stored documents.
func (m *MemoryBackend) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.docs), nil
}

// Cleanup removes documents last updated before olderThan.
func (m *MemoryBackend) Cleanup(ctx context.Context, olderThan time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for id, doc := range m.docs {
		if doc.UpdatedAt.Before(olderThan) {
			delete(m.docs, id)
			deleted++
		}
	}

	return deleted, nil
}

// Close is a no-op for the memory backend.
func (m *MemoryBackend) Close() error {
	return nil
}

func validateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("document cannot be nil")
	}
	if doc.ID == "" {
		return fmt.Errorf("id cannot be empty")
	}
	return nil
}
