package postgres

import (
	"context"
	"fmt"

	"meanrev-lab/internal/domain"
	"meanrev-lab/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO trades (
			trade_id, run_id, symbol,
			entry_date, entry_price, exit_date, exit_price,
			return_pct, exit_reason
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			$8, $9
		)
	`

	for _, t := range trades {
		_, err := tx.Exec(ctx, query,
			t.TradeID, t.RunID, t.Symbol,
			t.EntryDate, t.EntryPrice, t.ExitDate, t.ExitPrice,
			t.ReturnPct, t.ExitReason,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByRunID retrieves all trades for a run ordered by entry date.
func (s *TradeStore) GetByRunID(ctx context.Context, runID string) ([]*domain.Trade, error) {
	query := `
		SELECT
			trade_id, run_id, symbol,
			entry_date, entry_price, exit_date, exit_price,
			return_pct, exit_reason
		FROM trades
		WHERE run_id = $1
		ORDER BY entry_date ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get trades by run id: %w", err)
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		var t domain.Trade

		err := rows.Scan(
			&t.TradeID, &t.RunID, &t.Symbol,
			&t.EntryDate, &t.EntryPrice, &t.ExitDate, &t.ExitPrice,
			&t.ReturnPct, &t.ExitReason,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}

		trades = append(trades, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return trades, nil
}
