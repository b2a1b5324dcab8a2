package storage

import (
	"context"
	"time"

	"meanrev-lab/internal/domain"
)

// PriceBarStore provides access to price_bars storage.
type PriceBarStore interface {
	// InsertBulk adds multiple bars. Fails entire batch on duplicate (symbol, date).
	InsertBulk(ctx context.Context, bars []domain.PriceBar) error

	// GetBySymbol retrieves all bars for a symbol, ordered by date ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]domain.PriceBar, error)

	// GetByDateRange retrieves bars for a symbol within [start, end] (inclusive).
	GetByDateRange(ctx context.Context, symbol string, start, end time.Time) ([]domain.PriceBar, error)
}

// BacktestRunStore provides access to backtest_runs storage.
type BacktestRunStore interface {
	// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.BacktestRun) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.BacktestRun, error)

	// GetAll retrieves all runs, ordered by created_at ASC, run_id ASC.
	GetAll(ctx context.Context) ([]*domain.BacktestRun, error)
}

// TradeStore provides access to trades storage.
type TradeStore interface {
	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.Trade) error

	// GetByRunID retrieves all trades for a run, ordered by entry date ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.Trade, error)
}

// EquityCurveStore provides access to equity_curve storage.
type EquityCurveStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate (run_id, date).
	InsertBulk(ctx context.Context, points []domain.EquityPoint) error

	// GetByRunID retrieves all points for a run, ordered by date ASC.
	GetByRunID(ctx context.Context, runID string) ([]domain.EquityPoint, error)
}
