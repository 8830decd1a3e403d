package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Runner is anything that can execute one refresh cycle.
type Runner interface {
	RunOnce(ctx context.Context) Outcome
}

// Stats counts scheduler outcomes since startup.
type Stats struct {
	Succeeded   int64
	Skipped     int64
	Exhausted   int64
	LastSuccess time.Time // zero until the first successful run
}

// Scheduler drives a Runner once at startup and then on a fixed
// interval. Runs execute sequentially on a single goroutine, so a tick
// arriving mid-run coalesces into the ticker and is effectively skipped.
type Scheduler struct {
	interval time.Duration
	runner   Runner
	logger   *slog.Logger

	statsMu sync.Mutex
	stats   Stats

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a Scheduler.
func NewScheduler(interval time.Duration, runner Runner, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		interval: interval,
		runner:   runner,
		logger:   logger,
	}
}

// Start begins the refresh loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("refresh scheduler started", "interval", s.interval)
	return nil
}

// Stop shuts down the scheduler, abandoning any in-flight backoff sleep.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("refresh scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns outcome counters since startup.
func (s *Scheduler) Stats() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}

// run is the scheduler timeline: one immediate run, then one per tick.
func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Refresh immediately on start.
	s.runOnce()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

// runOnce executes one cycle and records its outcome. Outcomes are
// logged, never fatal; the loop keeps ticking after exhaustion.
func (s *Scheduler) runOnce() {
	start := time.Now()
	outcome := s.runner.RunOnce(s.ctx)

	s.statsMu.Lock()
	switch outcome.Result {
	case Succeeded:
		s.stats.Succeeded++
		s.stats.LastSuccess = time.Now().UTC()
	case Skipped:
		s.stats.Skipped++
	case Exhausted:
		s.stats.Exhausted++
	}
	s.statsMu.Unlock()

	s.logger.Info("refresh cycle complete",
		"result", outcome.Result.String(),
		"attempts", outcome.Attempts,
		"duration", time.Since(start),
	)
}
