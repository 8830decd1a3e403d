package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optiondata/chaincache/internal/model"
)

// PostgresStore persists snapshots in two append-only tables (snapshots
// + snapshot_rows, see schema.sql). Each Append is a single transaction,
// so the commit point is the moment the new snapshot becomes visible to
// readers.
type PostgresStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore creates a store over an existing connection pool.
func NewPostgresStore(db *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{db: db, logger: logger}
}

// Append inserts the snapshot header and all strike rows in one
// transaction.
func (s *PostgresStore) Append(ctx context.Context, snap *model.Snapshot) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO snapshots (id, taken_at, atm_strike)
		VALUES ($1, $2, $3)
	`, snap.ID, snap.TakenAt, snap.ATMStrike)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	batch := &pgx.Batch{}
	for _, r := range snap.Rows {
		batch.Queue(`
			INSERT INTO snapshot_rows (
				snapshot_id, strike,
				call_last_price, call_oi, call_change_in_oi, call_iv, call_delta, call_gamma, call_spread_pct,
				put_last_price, put_oi, put_change_in_oi, put_iv, put_delta, put_gamma, put_spread_pct,
				put_minus_call_oi, trending_oi, call_volume, put_volume, volume_difference
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		`, snap.ID, r.Strike,
			r.CallLastPrice, r.CallOI, r.CallChangeInOI, r.CallIV, r.CallDelta, r.CallGamma, r.CallSpreadPct,
			r.PutLastPrice, r.PutOI, r.PutChangeInOI, r.PutIV, r.PutDelta, r.PutGamma, r.PutSpreadPct,
			r.PutMinusCallOI, r.TrendingOI, r.CallVolume, r.PutVolume, r.VolumeDifference)
	}

	results := tx.SendBatch(ctx, batch)
	for range snap.Rows {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert snapshot row: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close row batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}

	s.logger.Debug("snapshot appended",
		"id", snap.ID,
		"taken_at", snap.TakenAt,
		"atm_strike", snap.ATMStrike,
		"rows", len(snap.Rows),
	)
	return nil
}

// Latest returns the most recent snapshot with its rows ordered by
// ascending strike.
func (s *PostgresStore) Latest(ctx context.Context) (*model.Snapshot, error) {
	var snap model.Snapshot
	err := s.db.QueryRow(ctx, `
		SELECT id, taken_at, atm_strike
		FROM snapshots
		ORDER BY taken_at DESC
		LIMIT 1
	`).Scan(&snap.ID, &snap.TakenAt, &snap.ATMStrike)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	snap.TakenAt = snap.TakenAt.UTC()

	rows, err := s.db.Query(ctx, `
		SELECT strike,
			call_last_price, call_oi, call_change_in_oi, call_iv, call_delta, call_gamma, call_spread_pct,
			put_last_price, put_oi, put_change_in_oi, put_iv, put_delta, put_gamma, put_spread_pct,
			put_minus_call_oi, trending_oi, call_volume, put_volume, volume_difference
		FROM snapshot_rows
		WHERE snapshot_id = $1
		ORDER BY strike ASC
	`, snap.ID)
	if err != nil {
		return nil, fmt.Errorf("query snapshot rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r model.StrikeRow
		if err := rows.Scan(&r.Strike,
			&r.CallLastPrice, &r.CallOI, &r.CallChangeInOI, &r.CallIV, &r.CallDelta, &r.CallGamma, &r.CallSpreadPct,
			&r.PutLastPrice, &r.PutOI, &r.PutChangeInOI, &r.PutIV, &r.PutDelta, &r.PutGamma, &r.PutSpreadPct,
			&r.PutMinusCallOI, &r.TrendingOI, &r.CallVolume, &r.PutVolume, &r.VolumeDifference); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		snap.Rows = append(snap.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return &snap, nil
}
