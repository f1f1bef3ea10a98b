package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"webviz-hq/layoutd/pkg/telemetry/metrics"

	"github.com/robfig/cron/v3"
)

// Scheduler prunes documents that have not been updated within MaxAge on a
// cron schedule.
type Scheduler struct {
	backend  Backend
	schedule string
	maxAge   time.Duration
	metrics  *metrics.Collector
	logger   *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool

	// now is replaced in tests
	now func() time.Time
}

// NewScheduler creates a retention scheduler. schedule is a standard
// 5-field cron expression such as "0 3 * * *" (daily at 03:00).
func NewScheduler(backend Backend, schedule string, maxAge time.Duration, logger *slog.Logger, collector *metrics.Collector) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		backend:  backend,
		schedule: schedule,
		maxAge:   maxAge,
		metrics:  collector,
		logger:   logger.With("component", "store.retention"),
		cron:     cron.New(),
		now:      time.Now,
	}
}

// Start schedules pruning and returns immediately. The caller must call Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if s.maxAge <= 0 {
		return fmt.Errorf("retention max age must be positive, got %s", s.maxAge)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		_, _ = s.Prune(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		"schedule", s.schedule,
		"max_age", s.maxAge.String(),
	)

	return nil
}

// Run starts the scheduler and blocks until ctx is cancelled, then stops it.
// It fits an errgroup next to the HTTP server.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

// Prune deletes every document last updated more than MaxAge ago.
func (s *Scheduler) Prune(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.maxAge)

	deleted, err := s.backend.Cleanup(ctx, cutoff)
	s.metrics.RecordRetentionRun(deleted, err)
	if err != nil {
		s.logger.Error("retention pruning failed", "error", err)
		return 0, err
	}

	if deleted > 0 {
		s.logger.Info("retention pruning completed", "deleted_count", deleted, "cutoff", cutoff)
	} else {
		s.logger.Debug("retention pruning completed, no documents deleted")
	}
	return deleted, nil
}

// Stop stops the scheduler and waits for a running prune to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("retention scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled pruning time, or nil when not running.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if !s.running || len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
