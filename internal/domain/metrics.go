package domain

// Metrics holds the performance summary for one backtest run.
//
// WinRate and ProfitFactor are nil when the run produced no trades; the
// presentation layer renders nil as "N/A" without special-casing errors.
// ProfitFactor is +Inf when there are winners and the loss sum is exactly
// zero.
type Metrics struct {
	TotalReturn  float64  `json:"total_return"`
	SharpeRatio  float64  `json:"sharpe_ratio"`
	MaxDrawdown  float64  `json:"max_drawdown"` // non-positive fraction
	ProfitFactor *float64 `json:"profit_factor,omitempty"`
	WinRate      *float64 `json:"win_rate,omitempty"`
	TradeCount   int      `json:"trade_count"`
}
