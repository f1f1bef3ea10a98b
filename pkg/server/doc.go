// Package server provides the layoutd HTTP API.
//
// The API keeps one parse worker per open document, so an editor can push
// every edit of a buffer and ask selection questions against the latest
// parse without re-sending the text.
//
// # Routes
//
//	GET    /v1/documents                              list open documents
//	PUT    /v1/documents/{id}                         body = YAML text; parse and persist
//	GET    /v1/documents/{id}                         last parse result
//	DELETE /v1/documents/{id}                         close and forget the document
//	GET    /v1/documents/{id}/closest?start=N&end=M   closest object and page
//	GET    /v1/documents/{id}/objects/{objectID}      page by id
//	GET    /health, /ready, /version                  probes
//	GET    /metrics                                   Prometheus metrics, when enabled
//
// Errors use the envelope defined in package types.
//
// # Basic Usage
//
//	backend, err := store.Open(cfg.Store)
//	if err != nil {
//	    return err
//	}
//	defer backend.Close()
//
//	srv := server.NewServer(cfg, server.Options{
//	    Store:   backend,
//	    Logger:  logger.Slog(),
//	    Metrics: collector,
//	})
//	return srv.Start(ctx) // blocks until ctx is cancelled
//
// Documents persisted by a previous run are restored before /ready reports
// ready. Shutdown waits for in-flight requests up to the configured
// shutdown timeout and then stops every worker.
package server
