// Package logging provides structured logging for layoutd.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON, text and console output formats
//   - Context-aware logging with request and document ids
//   - Configurable log levels (debug, info, warn, error)
//
// Library packages (parser, worker, store) accept a plain *slog.Logger;
// use Logger.Slog to hand them the configured logger.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logger.Info("document parsed",
//	    "document_id", "sales",
//	    "objects", 12,
//	)
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.WithContext(ctx).Info("processing") // Includes request_id
//
//	p := parser.NewParser().WithLogger(logger.Slog())
package logging
