package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"meanrev-lab/internal/domain"
	"meanrev-lab/internal/storage"
)

// BacktestRunStore implements storage.BacktestRunStore using PostgreSQL.
type BacktestRunStore struct {
	pool *Pool
}

// NewBacktestRunStore creates a new BacktestRunStore.
func NewBacktestRunStore(pool *Pool) *BacktestRunStore {
	return &BacktestRunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BacktestRunStore = (*BacktestRunStore)(nil)

// Insert adds a new backtest run. Returns ErrDuplicateKey if run_id exists.
func (s *BacktestRunStore) Insert(ctx context.Context, r *domain.BacktestRun) error {
	query := `
		INSERT INTO backtest_runs (
			run_id, symbol,
			buy_threshold_pct, take_profit_pct, stop_loss_pct, transaction_cost_pct,
			first_date, last_date, bar_count,
			total_return, sharpe_ratio, max_drawdown, profit_factor, win_rate, trade_count,
			created_at
		) VALUES (
			$1, $2,
			$3, $4, $5, $6,
			$7, $8, $9,
			$10, $11, $12, $13, $14, $15,
			$16
		)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID, r.Symbol,
		r.Config.BuyThresholdPct, r.Config.TakeProfitPct, r.Config.StopLossPct, r.Config.TransactionCostPct,
		r.FirstDate, r.LastDate, r.BarCount,
		r.Metrics.TotalReturn, r.Metrics.SharpeRatio, r.Metrics.MaxDrawdown, r.Metrics.ProfitFactor, r.Metrics.WinRate, r.Metrics.TradeCount,
		r.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert backtest run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *BacktestRunStore) GetByID(ctx context.Context, runID string) (*domain.BacktestRun, error) {
	query := `
		SELECT
			run_id, symbol,
			buy_threshold_pct, take_profit_pct, stop_loss_pct, transaction_cost_pct,
			first_date, last_date, bar_count,
			total_return, sharpe_ratio, max_drawdown, profit_factor, win_rate, trade_count,
			created_at
		FROM backtest_runs
		WHERE run_id = $1
	`

	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanBacktestRun(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get backtest run by id: %w", err)
	}
	return r, nil
}

// GetAll retrieves all runs ordered by creation time.
func (s *BacktestRunStore) GetAll(ctx context.Context) ([]*domain.BacktestRun, error) {
	query := `
		SELECT
			run_id, symbol,
			buy_threshold_pct, take_profit_pct, stop_loss_pct, transaction_cost_pct,
			first_date, last_date, bar_count,
			total_return, sharpe_ratio, max_drawdown, profit_factor, win_rate, trade_count,
			created_at
		FROM backtest_runs
		ORDER BY created_at ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all backtest runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.BacktestRun
	for rows.Next() {
		r, err := scanBacktestRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backtest run row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate backtest run rows: %w", err)
	}

	return runs, nil
}

// scanBacktestRun scans a single row into a BacktestRun.
func scanBacktestRun(row pgx.Row) (*domain.BacktestRun, error) {
	var r domain.BacktestRun

	err := row.Scan(
		&r.RunID, &r.Symbol,
		&r.Config.BuyThresholdPct, &r.Config.TakeProfitPct, &r.Config.StopLossPct, &r.Config.TransactionCostPct,
		&r.FirstDate, &r.LastDate, &r.BarCount,
		&r.Metrics.TotalReturn, &r.Metrics.SharpeRatio, &r.Metrics.MaxDrawdown, &r.Metrics.ProfitFactor, &r.Metrics.WinRate, &r.Metrics.TradeCount,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &r, nil
}
