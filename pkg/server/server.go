package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"webviz-hq/layoutd/pkg/config"
	"webviz-hq/layoutd/pkg/layout/parser"
	"webviz-hq/layoutd/pkg/server/middleware"
	"webviz-hq/layoutd/pkg/store"
	"webviz-hq/layoutd/pkg/telemetry/health"
	"webviz-hq/layoutd/pkg/telemetry/metrics"
	"webviz-hq/layoutd/pkg/telemetry/tracing"
	"webviz-hq/layoutd/pkg/worker"
)

// Options holds the collaborators of a Server. Nil fields get working
// defaults: a default parser, an in-memory store, slog.Default, no metrics
// and a noop tracer.
type Options struct {
	Parser  *parser.Parser
	Store   store.Backend
	Logger  *slog.Logger
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer

	// Version, Commit and BuildTime are reported by /version.
	Version   string
	Commit    string
	BuildTime string
}

// Server is the layoutd HTTP API. Each open document is served by its own
// worker.
type Server struct {
	config  *config.Config
	parser  *parser.Parser
	store   store.Backend
	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	health  *health.Checker
	opts    Options

	documents *registry
	restored  atomic.Bool

	// cancel stops the workers' shared context on shutdown
	cancel context.CancelFunc

	handlerOnce sync.Once
	mux         *http.ServeMux
	handler     http.Handler

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a server from the configuration.
func NewServer(cfg *config.Config, opts Options) *Server {
	if opts.Parser == nil {
		opts.Parser = parser.NewParser()
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryBackend()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Tracer == nil {
		opts.Tracer = tracing.Noop()
	}

	s := &Server{
		config:  cfg,
		parser:  opts.Parser,
		store:   opts.Store,
		logger:  opts.Logger.With("component", "server"),
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
		health:  health.New(cfg.Server.RequestTimeout),
		opts:    opts,
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.documents = newRegistry(ctx, cfg.Server.MaxDocuments, s.newWorker, s.logger, s.metrics.SetOpenDocuments)

	s.health.RegisterCheck("store", func(ctx context.Context) error {
		_, err := s.store.Count(ctx)
		return err
	})
	s.health.RegisterCheck("documents", func(context.Context) error {
		if !s.restored.Load() {
			return errors.New("documents are being restored")
		}
		return nil
	})

	return s
}

func (s *Server) newWorker(id string) *worker.Worker {
	return worker.New(s.parser,
		worker.WithLogger(s.opts.Logger),
		worker.WithMetrics(s.metrics),
		worker.WithTracer(s.tracer),
		worker.WithQueueSize(s.config.Worker.QueueSize),
		worker.WithDocumentID(id),
	)
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve restores stored documents and serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		ln.Close()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.config.Server.ReadTimeout,
		ReadHeaderTimeout: s.config.Server.ReadTimeout,
		WriteTimeout:      s.config.Server.WriteTimeout,
		IdleTimeout:       s.config.Server.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting layoutd API server", "address", ln.Addr().String())

		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	if err := s.Restore(ctx); err != nil {
		s.logger.Error("failed to restore documents", "error", err)
	}

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		_ = s.Shutdown(context.Background())
		return err
	}
}

// Restore reopens every document in the store. Documents beyond the
// document limit stay in the store but are not served.
func (s *Server) Restore(ctx context.Context) error {
	defer s.restored.Store(true)

	docs, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stored documents: %w", err)
	}

	restored := 0
	for _, stored := range docs {
		doc, err := s.documents.getOrCreate(stored.ID)
		if errors.Is(err, errTooManyDocuments) {
			s.logger.Warn("document limit reached, not restoring remaining documents",
				"restored", restored,
				"stored", len(docs),
			)
			break
		}
		if err != nil {
			return err
		}

		doc.mu.Lock()
		resp, err := doc.worker.Do(ctx, worker.ParseRequest(stored.Text))
		if err == nil {
			doc.text, doc.result, doc.updatedAt = stored.Text, resp, stored.UpdatedAt
		}
		doc.mu.Unlock()
		if err != nil {
			return fmt.Errorf("failed to parse stored document %q: %w", stored.ID, err)
		}
		restored++
	}

	s.logger.Info("documents restored", "count", restored)
	return nil
}

// Shutdown gracefully stops the HTTP server and every document worker.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		httpServer := s.httpServer
		s.mu.RUnlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if httpServer != nil {
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.documents.closeAll()
		s.cancel()

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("layoutd API server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Health returns the readiness checker, for callers that add checks.
func (s *Server) Health() *health.Checker {
	return s.health
}

// Handler returns the API handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	s.handlerOnce.Do(func() {
		s.mux = s.setupRoutes()
		s.handler = s.wrap(s.mux)
	})
	return s.handler
}

// setupRoutes registers the API, health and metrics routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/documents", s.handleListDocuments)
	mux.HandleFunc("PUT /v1/documents/{id}", s.handlePutDocument)
	mux.HandleFunc("GET /v1/documents/{id}", s.handleGetDocument)
	mux.HandleFunc("DELETE /v1/documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("GET /v1/documents/{id}/closest", s.handleClosest)
	mux.HandleFunc("GET /v1/documents/{id}/objects/{objectID}", s.handleObjectByID)

	health.Register(mux, s.health, s.opts.Version, s.opts.Commit, s.opts.BuildTime)

	if metricsCfg := s.config.Telemetry.Metrics; metricsCfg.Enabled && s.metrics != nil {
		mux.Handle("GET "+metricsCfg.Path, s.metrics.Handler())
	}

	return mux
}

// wrap applies the middleware chain, outermost last.
func (s *Server) wrap(mux *http.ServeMux) http.Handler {
	var handler http.Handler = mux

	handler = middleware.TimeoutMiddleware(s.config.Server.RequestTimeout)(handler)
	handler = middleware.CORSMiddleware(&s.config.Server.CORS)(handler)
	handler = middleware.MetricsMiddleware(s.metrics, s.route)(handler)
	handler = middleware.LoggingMiddleware(s.logger)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = tracing.HTTPMiddleware(s.tracer, s.route)(handler)
	handler = middleware.RecoveryMiddleware(s.logger)(handler)

	return handler
}

// route returns the path pattern that matches r, without its method, so
// metrics and span names never carry raw document ids.
func (s *Server) route(r *http.Request) string {
	_, pattern := s.mux.Handler(r)
	if pattern == "" {
		return "unmatched"
	}
	if i := strings.IndexByte(pattern, ' '); i >= 0 {
		pattern = pattern[i+1:]
	}
	return pattern
}
