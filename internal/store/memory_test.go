package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/optiondata/chaincache/internal/model"
)

func snapshotAt(takenAt time.Time) *model.Snapshot {
	return &model.Snapshot{
		ID:        uuid.New(),
		TakenAt:   takenAt,
		ATMStrike: 48200,
		Rows: []model.StrikeRow{
			{Strike: 48100, CallOI: 1.2, PutOI: 2.5},
			{Strike: 48200, CallOI: 0.9, PutOI: 1.1},
		},
	}
}

func TestMemoryStore_EmptyLatest(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Latest(context.Background())
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("Latest on empty store: err = %v, want ErrEmpty", err)
	}
}

func TestMemoryStore_AppendRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	snap := snapshotAt(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	if err := s.Append(ctx, snap); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got.ID != snap.ID {
		t.Errorf("Latest().ID = %v, want %v", got.ID, snap.ID)
	}
	if !got.TakenAt.Equal(snap.TakenAt) {
		t.Errorf("Latest().TakenAt = %v, want %v", got.TakenAt, snap.TakenAt)
	}
	if len(got.Rows) != 2 || got.Rows[0] != snap.Rows[0] {
		t.Errorf("Latest().Rows = %+v, want %+v", got.Rows, snap.Rows)
	}
}

func TestMemoryStore_LatestIsGreatestTakenAt(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := snapshotAt(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	second := snapshotAt(time.Date(2025, 1, 15, 10, 1, 0, 0, time.UTC))

	// Append out of order; greatest TakenAt still wins.
	if err := s.Append(ctx, second); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append(ctx, first); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got.ID != second.ID {
		t.Errorf("Latest() = snapshot taken at %v, want %v", got.TakenAt, second.TakenAt)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (append-only)", s.Len())
	}
}

func TestMemoryStore_ConcurrentReaders(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			s.Append(ctx, snapshotAt(time.Now().UTC()))
		}
	}()

	for i := 0; i < 100; i++ {
		snap, err := s.Latest(ctx)
		if errors.Is(err, ErrEmpty) {
			continue
		}
		if err != nil {
			t.Fatalf("Latest: %v", err)
		}
		// A visible snapshot is always fully formed.
		if len(snap.Rows) != 2 {
			t.Fatalf("reader observed partial snapshot: %d rows", len(snap.Rows))
		}
	}
	<-done
}
