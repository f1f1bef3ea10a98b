package store

import (
	"context"
	"time"
)

// Backend persists the latest text of named layout documents.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Save creates or replaces a document. CreatedAt is kept from the first save.
	Save(ctx context.Context, doc *Document) error

	// Load returns the document with the given id, or nil if none exists.
	Load(ctx context.Context, id string) (*Document, error)

	// Delete removes a document. No-op if it does not exist.
	Delete(ctx context.Context, id string) error

	// List returns every document ordered by id.
	List(ctx context.Context) ([]*Document, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Cleanup removes documents last updated before olderThan and returns
	// the number deleted.
	Cleanup(ctx context.Context, olderThan time.Time) (int, error)

	// Close releases any resources held by the backend.
	Close() error
}

// Document is one persisted layout text.
type Document struct {
	// ID names the document (the {id} of the HTTP API).
	ID string

	// Text is the raw YAML as last submitted.
	Text string

	// CreatedAt is when the document was first saved.
	CreatedAt time.Time

	// UpdatedAt is when the text was last replaced.
	UpdatedAt time.Time
}
