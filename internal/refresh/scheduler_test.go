package refresh

import (
	"context"
	"testing"
	"time"
)

// fakeRunner signals each run on a channel.
type fakeRunner struct {
	outcome Outcome
	runs    chan struct{}
}

func (f *fakeRunner) RunOnce(ctx context.Context) Outcome {
	select {
	case f.runs <- struct{}{}:
	default:
	}
	return f.outcome
}

func TestScheduler_RunsImmediatelyAndOnTicks(t *testing.T) {
	runner := &fakeRunner{
		outcome: Outcome{Result: Succeeded, Attempts: 1},
		runs:    make(chan struct{}, 16),
	}
	s := NewScheduler(10*time.Millisecond, runner, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Immediate run plus at least two ticks.
	for i := 0; i < 3; i++ {
		select {
		case <-runner.runs:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for run %d", i+1)
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	stats := s.Stats()
	if stats.Succeeded < 3 {
		t.Errorf("Succeeded = %d, want >= 3", stats.Succeeded)
	}
	if stats.LastSuccess.IsZero() {
		t.Error("LastSuccess is zero after successful runs")
	}
}

func TestScheduler_ExhaustionIsNotFatal(t *testing.T) {
	runner := &fakeRunner{
		outcome: Outcome{Result: Exhausted, Attempts: 3},
		runs:    make(chan struct{}, 16),
	}
	s := NewScheduler(10*time.Millisecond, runner, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// The loop keeps ticking after exhausted runs.
	for i := 0; i < 3; i++ {
		select {
		case <-runner.runs:
		case <-time.After(2 * time.Second):
			t.Fatalf("scheduler stopped ticking after exhaustion (run %d)", i+1)
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	stats := s.Stats()
	if stats.Exhausted < 3 {
		t.Errorf("Exhausted = %d, want >= 3", stats.Exhausted)
	}
	if stats.Succeeded != 0 {
		t.Errorf("Succeeded = %d, want 0", stats.Succeeded)
	}
	if !stats.LastSuccess.IsZero() {
		t.Errorf("LastSuccess = %v, want zero", stats.LastSuccess)
	}
}

func TestScheduler_StopAbandonsLoop(t *testing.T) {
	runner := &fakeRunner{
		outcome: Outcome{Result: Skipped},
		runs:    make(chan struct{}, 16),
	}
	s := NewScheduler(time.Hour, runner, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Wait for the immediate run, then stop; the hour-long tick never fires.
	select {
	case <-runner.runs:
	case <-time.After(2 * time.Second):
		t.Fatal("immediate run never happened")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if got := s.Stats().Skipped; got != 1 {
		t.Errorf("Skipped = %d, want 1", got)
	}
}
