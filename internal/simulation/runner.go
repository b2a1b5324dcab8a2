package simulation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"meanrev-lab/internal/domain"
	"meanrev-lab/internal/metrics"
	"meanrev-lab/internal/observability"
	"meanrev-lab/internal/storage"
)

// Runner orchestrates a full backtest: load the series, simulate, compute
// metrics, and optionally persist the results.
type Runner struct {
	barStore    storage.PriceBarStore
	runStore    storage.BacktestRunStore
	tradeStore  storage.TradeStore
	equityStore storage.EquityCurveStore
	metricsOpts metrics.Options
	logger      *log.Logger
	clock       func() time.Time
}

// RunnerOptions contains configuration for creating a Runner. All stores are
// optional: without a PriceBarStore only RunBars works, and without the
// result stores nothing is persisted.
type RunnerOptions struct {
	BarStore    storage.PriceBarStore
	RunStore    storage.BacktestRunStore
	TradeStore  storage.TradeStore
	EquityStore storage.EquityCurveStore
	MetricsOpts metrics.Options
	Logger      *log.Logger
}

// NewRunner creates a new backtest runner.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Runner{
		barStore:    opts.BarStore,
		runStore:    opts.RunStore,
		tradeStore:  opts.TradeStore,
		equityStore: opts.EquityStore,
		metricsOpts: opts.MetricsOpts,
		logger:      logger,
		clock:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic run records.
func (r *Runner) WithClock(clock func() time.Time) *Runner {
	r.clock = clock
	return r
}

// RunOutput bundles everything one backtest produces.
type RunOutput struct {
	Result  *Result
	Metrics *domain.Metrics
	Run     *domain.BacktestRun
}

// RunSymbol loads the full stored series for a symbol and backtests it.
func (r *Runner) RunSymbol(ctx context.Context, symbol string, cfg domain.StrategyConfig) (*RunOutput, error) {
	if r.barStore == nil {
		return nil, fmt.Errorf("no price bar store configured")
	}

	bars, err := r.barStore.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("load bars for %s: %w", symbol, err)
	}

	return r.RunBars(ctx, bars, cfg)
}

// RunRange loads a date-bounded slice of the stored series and backtests it.
func (r *Runner) RunRange(ctx context.Context, symbol string, start, end time.Time, cfg domain.StrategyConfig) (*RunOutput, error) {
	if r.barStore == nil {
		return nil, fmt.Errorf("no price bar store configured")
	}

	bars, err := r.barStore.GetByDateRange(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("load bars for %s: %w", symbol, err)
	}

	return r.RunBars(ctx, bars, cfg)
}

// RunBars backtests an in-memory series and persists results through any
// configured stores.
func (r *Runner) RunBars(ctx context.Context, bars []domain.PriceBar, cfg domain.StrategyConfig) (*RunOutput, error) {
	started := time.Now()

	res, err := Simulate(bars, cfg)
	if err != nil {
		observability.RecordBacktest("error", 0, time.Since(started).Seconds())
		return nil, err
	}

	m, err := metrics.Compute(res.EquityPoints, res.Trades, r.metricsOpts)
	if err != nil {
		observability.RecordBacktest("error", len(res.Trades), time.Since(started).Seconds())
		return nil, fmt.Errorf("compute metrics for run %s: %w", res.RunID, err)
	}

	run := &domain.BacktestRun{
		RunID:     res.RunID,
		Symbol:    res.Symbol,
		Config:    cfg,
		FirstDate: bars[0].Date,
		LastDate:  bars[len(bars)-1].Date,
		BarCount:  len(bars),
		Metrics:   *m,
		CreatedAt: r.clock(),
	}

	if err := r.persist(ctx, res, run); err != nil {
		observability.RecordBacktest("error", len(res.Trades), time.Since(started).Seconds())
		return nil, err
	}

	observability.RecordBacktest("ok", len(res.Trades), time.Since(started).Seconds())
	r.logger.Printf("run %s: %d bars, %d trades, total return %.4f",
		res.RunID, len(bars), len(res.Trades), m.TotalReturn)

	return &RunOutput{Result: res, Metrics: m, Run: run}, nil
}

// persist writes the run record, trades, and equity curve to whichever
// stores are configured. A run that already exists is not an error: the
// run ID is deterministic, so a repeat of the same backtest is a no-op.
func (r *Runner) persist(ctx context.Context, res *Result, run *domain.BacktestRun) error {
	if r.runStore != nil {
		err := r.runStore.Insert(ctx, run)
		if errors.Is(err, storage.ErrDuplicateKey) {
			r.logger.Printf("run %s already stored, skipping persist", run.RunID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("persist run %s: %w", run.RunID, err)
		}
	}

	if r.tradeStore != nil {
		if err := r.tradeStore.InsertBulk(ctx, res.Trades); err != nil {
			return fmt.Errorf("persist trades for run %s: %w", run.RunID, err)
		}
	}

	if r.equityStore != nil {
		if err := r.equityStore.InsertBulk(ctx, res.EquityPoints); err != nil {
			return fmt.Errorf("persist equity curve for run %s: %w", run.RunID, err)
		}
	}

	return nil
}
