package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"webviz-hq/layoutd/pkg/layout/ast"
	"webviz-hq/layoutd/pkg/layout/parser"
	"webviz-hq/layoutd/pkg/telemetry/metrics"
	"webviz-hq/layoutd/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/trace"
)

// DefaultQueueSize is the number of requests that may wait for the worker.
const DefaultQueueSize = 16

var (
	// ErrNotRunning is returned by Do before Start or after the worker
	// has stopped.
	ErrNotRunning = errors.New("worker is not running")
)

// Worker owns one parsed document and serves requests against it one at a
// time, in arrival order. The document is only touched by the worker
// goroutine, so a re-parse is never observed half done.
type Worker struct {
	parser     *parser.Parser
	logger     *slog.Logger
	metrics    *metrics.Collector
	tracer     *tracing.Tracer
	documentID string
	queueSize  int

	requests chan call
	done     chan struct{}
	finished chan struct{}

	mu       sync.Mutex
	started  bool
	stopOnce sync.Once

	// doc is owned by the run goroutine
	doc *ast.Document
}

type call struct {
	ctx   context.Context
	req   Request
	reply chan Response
}

// Option configures a Worker.
type Option func(*Worker)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithMetrics records parses and lookups in collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(w *Worker) { w.metrics = collector }
}

// WithTracer wraps every request in a span.
func WithTracer(tracer *tracing.Tracer) Option {
	return func(w *Worker) {
		if tracer != nil {
			w.tracer = tracer
		}
	}
}

// WithQueueSize sets how many requests may wait while one is served.
func WithQueueSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.queueSize = n
		}
	}
}

// WithDocumentID names the document in logs and spans.
func WithDocumentID(id string) Option {
	return func(w *Worker) { w.documentID = id }
}

// New creates a worker around p. The worker starts with an empty document.
func New(p *parser.Parser, opts ...Option) *Worker {
	if p == nil {
		p = parser.NewParser()
	}

	w := &Worker{
		parser:    p,
		logger:    slog.Default(),
		tracer:    tracing.Noop(),
		queueSize: DefaultQueueSize,
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		doc:       ast.Empty(),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.logger = w.logger.With("component", "worker")
	if w.documentID != "" {
		w.logger = w.logger.With("document_id", w.documentID)
	}
	w.requests = make(chan call, w.queueSize)

	return w
}

// Start launches the worker goroutine. It runs until ctx is cancelled or
// Stop is called.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return errors.New("worker already started")
	}
	w.started = true

	go w.run(ctx)

	w.logger.Debug("worker started", "queue_size", w.queueSize)
	return nil
}

// Do submits req and waits for its response. It returns ctx.Err() if ctx
// ends first and ErrNotRunning if the worker is not serving requests.
func (w *Worker) Do(ctx context.Context, req Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}

	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if !started {
		return Response{}, ErrNotRunning
	}

	c := call{ctx: ctx, req: req, reply: make(chan Response, 1)}

	select {
	case w.requests <- c:
	case <-ctx.Done():
		return Response{}, ctx.Err()
	case <-w.finished:
		return Response{}, ErrNotRunning
	}

	select {
	case resp := <-c.reply:
		return resp, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	case <-w.finished:
		// The reply may have been sent just before the worker exited
		select {
		case resp := <-c.reply:
			return resp, nil
		default:
			return Response{}, ErrNotRunning
		}
	}
}

// Stop stops the worker and waits for the request in progress to finish.
// Queued requests are abandoned with ErrNotRunning.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)

		w.mu.Lock()
		started := w.started
		w.mu.Unlock()

		if started {
			<-w.finished
		}
		w.logger.Debug("worker stopped")
	})
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.finished)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case c := <-w.requests:
			if c.ctx.Err() != nil {
				// The caller gave up while the request was queued
				continue
			}
			c.reply <- w.handle(c.ctx, c.req)
		}
	}
}

func (w *Worker) handle(ctx context.Context, req Request) Response {
	ctx, span := w.tracer.Start(ctx, "worker."+string(req.Type))
	defer span.End()

	if w.documentID != "" {
		size := -1
		if req.Type == RequestParse || req.Type == RequestParseAndSetSelection {
			size = len(req.Text)
		}
		tracing.SetDocumentAttributes(span, w.documentID, size)
	}

	w.logger.DebugContext(ctx, "worker request",
		"type", string(req.Type),
		"start", req.StartLineNumber,
		"end", req.EndLineNumber,
	)

	switch req.Type {
	case RequestParse:
		w.parse(span, req.Text)
		return w.parsed(ResponseParsed)

	case RequestParseAndSetSelection:
		w.parse(span, req.Text)
		resp := w.parsed(ResponseParsedAndSetSelection)
		resp.Object, resp.Page = w.closest(span, req.StartLineNumber, req.EndLineNumber)
		return resp

	case RequestGetClosestObject:
		resp := Response{Type: ResponseClosestObject}
		resp.Object, resp.Page = w.closest(span, req.StartLineNumber, req.EndLineNumber)
		return resp

	default:
		resp := Response{Type: ResponseObjectByID}
		page := w.doc.ObjectByID(req.ID)
		w.metrics.RecordLookup("id", page != nil)
		if page != nil {
			resp.Object = page
			tracing.SetLookupAttributes(span, page.Span.Start, page.Span.End, page.ID, string(page.Type))
		}
		return resp
	}
}

func (w *Worker) parse(span trace.Span, text string) {
	doc, stats := w.parser.ParseWithStats(text)
	w.doc = doc

	result := metrics.ParseResultOK
	switch {
	case stats.Failed:
		result = metrics.ParseResultFailed
	case stats.Recoveries > 0:
		result = metrics.ParseResultRecovered
	}

	w.metrics.RecordParse(result, stats.Duration, countByType(doc), stats.Omitted)
	tracing.SetParseAttributes(span, stats.Recoveries, stats.Omitted, len(doc.Index()), stats.Failed)

	w.logger.Debug("document parsed",
		"result", result,
		"objects", len(doc.Index()),
		"omitted", stats.Omitted,
		"duration_ms", stats.Duration.Milliseconds(),
	)
}

func (w *Worker) parsed(typ ResponseType) Response {
	return Response{
		Type:       typ,
		Objects:    w.doc.Objects(),
		Title:      w.doc.Title(),
		Navigation: w.doc.Navigation(),
	}
}

func (w *Worker) closest(span trace.Span, start, end int) (ast.Node, *ast.LayoutObject) {
	object := w.doc.FindClosestObject(start, end)
	page := w.doc.FindClosestPage(start, end)

	w.metrics.RecordLookup("object", object != nil)
	w.metrics.RecordLookup("page", page != nil)

	if object != nil {
		tracing.SetLookupAttributes(span, start, end, object.ObjectID(), string(object.ObjectType()))
	} else {
		tracing.SetLookupAttributes(span, start, end, "", "")
	}
	return object, page
}

func countByType(doc *ast.Document) map[string]int {
	counts := make(map[string]int)
	for _, entry := range doc.Index() {
		counts[string(entry.Object.ObjectType())]++
	}
	return counts
}
