package domain

import "time"

// Trade represents one closed round-trip. Created exactly once when a
// position closes; never mutated afterwards.
// Corresponds to the trades table in PostgreSQL.
type Trade struct {
	TradeID string `json:"trade_id"` // deterministic hash
	RunID   string `json:"run_id"`   // owning backtest run
	Symbol  string `json:"symbol"`

	EntryDate  time.Time `json:"entry_date"`
	EntryPrice float64   `json:"entry_price"` // cost-adjusted: close * (1 + TransactionCostPct)
	ExitDate   time.Time `json:"exit_date"`
	ExitPrice  float64   `json:"exit_price"` // cost-adjusted: close * (1 - TransactionCostPct)

	ReturnPct  float64 `json:"return_pct"`  // ExitPrice / EntryPrice - 1
	ExitReason string  `json:"exit_reason"` // reason code
}

// Exit reason codes
const (
	ExitReasonTakeProfit  = "TAKE_PROFIT"
	ExitReasonStopLoss    = "STOP_LOSS"
	ExitReasonEndOfSeries = "END_OF_SERIES"
)
