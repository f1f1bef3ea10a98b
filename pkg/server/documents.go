package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"sync"
	"time"

	"webviz-hq/layoutd/pkg/worker"
)

var (
	errTooManyDocuments = errors.New("document limit reached")

	documentIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)
)

// validateDocumentID checks that id is usable as a path segment and a log
// field.
func validateDocumentID(id string) error {
	if !documentIDPattern.MatchString(id) {
		return fmt.Errorf("invalid document id %q: use up to 128 letters, digits, '.', '_' or '-'", id)
	}
	return nil
}

// document is one open layout buffer and the worker that owns its parse.
type document struct {
	id     string
	worker *worker.Worker

	// mu serializes writers so text and result always describe the same parse
	mu        sync.Mutex
	text      string
	result    worker.Response
	updatedAt time.Time
}

func (d *document) snapshot() (string, worker.Response, time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text, d.result, d.updatedAt
}

// registry holds the open documents, bounded by max.
type registry struct {
	ctx       context.Context
	max       int
	newWorker func(id string) *worker.Worker
	logger    *slog.Logger
	onChange  func(open int)

	mu   sync.Mutex
	docs map[string]*document
}

func newRegistry(ctx context.Context, max int, newWorker func(string) *worker.Worker, logger *slog.Logger, onChange func(int)) *registry {
	return &registry{
		ctx:       ctx,
		max:       max,
		newWorker: newWorker,
		logger:    logger,
		onChange:  onChange,
		docs:      make(map[string]*document),
	}
}

func (r *registry) get(id string) (*document, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	return doc, ok
}

// getOrCreate returns the document for id, starting a worker for it if it
// is not open yet.
func (r *registry) getOrCreate(id string) (*document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if doc, ok := r.docs[id]; ok {
		return doc, nil
	}
	if len(r.docs) >= r.max {
		return nil, errTooManyDocuments
	}

	w := r.newWorker(id)
	if err := w.Start(r.ctx); err != nil {
		return nil, fmt.Errorf("failed to start worker for %q: %w", id, err)
	}

	doc := &document{id: id, worker: w}
	r.docs[id] = doc
	r.onChange(len(r.docs))

	r.logger.Debug("document opened", "document_id", id, "open_documents", len(r.docs))
	return doc, nil
}

// remove stops the worker of id. It reports whether the document was open.
func (r *registry) remove(id string) bool {
	r.mu.Lock()
	doc, ok := r.docs[id]
	if ok {
		delete(r.docs, id)
		r.onChange(len(r.docs))
	}
	r.mu.Unlock()

	if ok {
		doc.worker.Stop()
	}
	return ok
}

// list returns the open documents ordered by id.
func (r *registry) list() []*document {
	r.mu.Lock()
	docs := make([]*document, 0, len(r.docs))
	for _, doc := range r.docs {
		docs = append(docs, doc)
	}
	r.mu.Unlock()

	sort.Slice(docs, func(i, j int) bool { return docs[i].id < docs[j].id })
	return docs
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

// closeAll stops every worker.
func (r *registry) closeAll() {
	r.mu.Lock()
	docs := r.docs
	r.docs = make(map[string]*document)
	r.onChange(0)
	r.mu.Unlock()

	for _, doc := range docs {
		doc.worker.Stop()
	}
}
