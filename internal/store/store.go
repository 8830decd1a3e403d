package store

import (
	"context"
	"errors"

	"github.com/optiondata/chaincache/internal/model"
)

// ErrEmpty is returned by Latest when no snapshot has ever been
// appended. Callers must treat this as a distinct "no data yet"
// condition, not an internal failure.
var ErrEmpty = errors.New("store: no snapshot available")

// Store is an append-only snapshot store.
type Store interface {
	// Append durably persists a new, immutable snapshot. It never
	// overwrites or mutates prior records.
	Append(ctx context.Context, snap *model.Snapshot) error

	// Latest returns the snapshot with the greatest TakenAt, or ErrEmpty
	// if the store holds none.
	Latest(ctx context.Context) (*model.Snapshot, error)
}
