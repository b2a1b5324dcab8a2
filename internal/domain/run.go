package domain

import "time"

// BacktestRun records one completed engine invocation: the series it covered,
// the config it used and the resulting metrics.
// Corresponds to the backtest_runs table in PostgreSQL.
type BacktestRun struct {
	RunID     string         `json:"run_id"` // deterministic hash of (symbol, config, date range)
	Symbol    string         `json:"symbol"`
	Config    StrategyConfig `json:"config"`
	FirstDate time.Time      `json:"first_date"`
	LastDate  time.Time      `json:"last_date"`
	BarCount  int            `json:"bar_count"`
	Metrics   Metrics        `json:"metrics"`
	CreatedAt time.Time      `json:"created_at"`
}
