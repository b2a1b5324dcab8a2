package domain

import "time"

// EquityPoint is one day of the realized-return equity curve. Equity is a
// cumulative capital multiplier starting at 1.0 and moves only when a trade
// closes; open positions are not marked to market.
// Corresponds to the equity_curve table in ClickHouse.
type EquityPoint struct {
	RunID  string    `json:"run_id"`
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
}

// DrawdownPoint is the percentage decline of equity from its running peak
// on one day. Always <= 0. Derived deterministically from the equity curve.
type DrawdownPoint struct {
	Date        time.Time `json:"date"`
	DrawdownPct float64   `json:"drawdown_pct"`
}
