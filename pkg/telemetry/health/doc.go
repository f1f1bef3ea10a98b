// Package health provides the liveness, readiness and version endpoints of
// the layoutd daemon.
//
//   - /health: the process is running
//   - /ready: every registered component check passes
//   - /version: build information
//
// # Usage
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("store", func(ctx context.Context) error {
//	    _, err := backend.Count(ctx)
//	    return err
//	})
//	health.Register(mux, checker, version, commit, buildTime)
//
// Readiness checks run concurrently, each bounded by the checker's timeout.
// A check that fails or times out marks the daemon degraded and the
// readiness endpoint answers 503.
package health
