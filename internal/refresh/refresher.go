package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/optiondata/chaincache/internal/dhan"
	"github.com/optiondata/chaincache/internal/model"
	"github.com/optiondata/chaincache/internal/store"
	"github.com/optiondata/chaincache/internal/transform"
)

// MarketClock gates refreshes on the trading window.
type MarketClock interface {
	IsOpen(now time.Time) bool
}

// ChainFetcher fetches one raw option chain.
type ChainFetcher interface {
	OptionChain(ctx context.Context, req dhan.OptionChainRequest) (*model.RawChain, error)
}

// Result classifies one refresh run.
type Result int

const (
	// Skipped: the market was closed, nothing was fetched.
	Skipped Result = iota
	// Succeeded: exactly one snapshot was appended.
	Succeeded
	// Exhausted: every attempt failed, the store is untouched.
	Exhausted
)

func (r Result) String() string {
	switch r {
	case Skipped:
		return "skipped"
	case Succeeded:
		return "succeeded"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Outcome reports what one refresh run did.
type Outcome struct {
	Result   Result
	Attempts int
	Err      error           // last error when Result == Exhausted
	Snapshot *model.Snapshot // appended snapshot when Result == Succeeded
}

// Config holds refresher settings.
type Config struct {
	Request    dhan.OptionChainRequest // what to fetch
	MaxRetries int                     // fetch+transform attempts per run (default: 3)
	BaseDelay  time.Duration           // backoff base (default: 5s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  5 * time.Second,
	}
}

// Refresher orchestrates one refresh cycle. All collaborators are
// injected; there is no ambient global state.
type Refresher struct {
	cfg     Config
	clock   MarketClock
	fetcher ChainFetcher
	store   store.Store
	logger  *slog.Logger

	// Injection points for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Refresher.
func New(cfg Config, clock MarketClock, fetcher ChainFetcher, st store.Store, logger *slog.Logger) *Refresher {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultConfig().MaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultConfig().BaseDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		cfg:     cfg,
		clock:   clock,
		fetcher: fetcher,
		store:   st,
		logger:  logger,
		now:     time.Now,
		sleep:   sleepCtx,
	}
}

// RunOnce executes one refresh cycle: Gated -> Attempting(n) ->
// {Succeeded | Exhausted}. Exactly one snapshot is appended on success;
// none otherwise. Failures never propagate to the caller beyond the
// Outcome.
func (r *Refresher) RunOnce(ctx context.Context) Outcome {
	if !r.clock.IsOpen(r.now()) {
		r.logger.Info("market closed, serving existing snapshot")
		return Outcome{Result: Skipped}
	}

	var lastErr error
	for attempt := 0; attempt < r.cfg.MaxRetries; attempt++ {
		snap, err := r.fetchAndTransform(ctx)
		if err == nil {
			if err := r.store.Append(ctx, snap); err != nil {
				// The store is down; retrying the fetch cannot help.
				// The next scheduled tick tries again.
				r.logger.Error("snapshot store unavailable", "err", err)
				return Outcome{
					Result:   Exhausted,
					Attempts: attempt + 1,
					Err:      fmt.Errorf("append snapshot: %w", err),
				}
			}
			r.logger.Info("snapshot refreshed",
				"attempt", attempt+1,
				"atm_strike", snap.ATMStrike,
				"rows", len(snap.Rows),
			)
			return Outcome{Result: Succeeded, Attempts: attempt + 1, Snapshot: snap}
		}

		lastErr = err
		r.logger.Warn("refresh attempt failed",
			"attempt", attempt+1,
			"max_retries", r.cfg.MaxRetries,
			"err", err,
		)

		// Back off only if an attempt remains; never sleep after the
		// final failure.
		if attempt < r.cfg.MaxRetries-1 {
			delay := r.cfg.BaseDelay * time.Duration(1<<attempt)
			r.logger.Info("retrying refresh", "delay", delay)
			if err := r.sleep(ctx, delay); err != nil {
				return Outcome{
					Result:   Exhausted,
					Attempts: attempt + 1,
					Err:      fmt.Errorf("backoff interrupted: %w", err),
				}
			}
		}
	}

	r.logger.Error("refresh exhausted all attempts, serving stale snapshot",
		"attempts", r.cfg.MaxRetries,
		"err", lastErr,
	)
	return Outcome{Result: Exhausted, Attempts: r.cfg.MaxRetries, Err: lastErr}
}

// fetchAndTransform performs one fetch attempt and builds the snapshot.
func (r *Refresher) fetchAndTransform(ctx context.Context) (*model.Snapshot, error) {
	raw, err := r.fetcher.OptionChain(ctx, r.cfg.Request)
	if err != nil {
		return nil, fmt.Errorf("fetch chain: %w", err)
	}

	snap, err := transform.Chain(raw, r.now())
	if err != nil {
		// Transform failures usually mean a transiently malformed
		// payload, so they are retried like fetch failures.
		return nil, fmt.Errorf("transform chain: %w", err)
	}

	return snap, nil
}

// sleepCtx suspends only the refresh task; readers are untouched.
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
