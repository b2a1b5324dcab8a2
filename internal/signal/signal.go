// Package signal derives per-day trading predicates from a price series and
// a strategy config. The entry predicate depends only on fixed prior-day
// data, so it is evaluated for every day up front; the exit predicates
// depend on the entry price of the currently open position and are evaluated
// incrementally by the simulator.
package signal

import "meanrev-lab/internal/domain"

// EntrySignals computes the buy-eligibility predicate for every day of the
// series: close(t) <= close(t-1) * (1 - BuyThresholdPct). The returned slice
// has the same length as bars; index 0 is always false since no previous
// close exists. Uses only the prior bar, never data after t.
func EntrySignals(bars []domain.PriceBar, cfg domain.StrategyConfig) []bool {
	signals := make([]bool, len(bars))
	for t := 1; t < len(bars); t++ {
		signals[t] = bars[t].Close <= bars[t-1].Close*(1-cfg.BuyThresholdPct)
	}
	return signals
}

// TakeProfit reports whether close has reached the profit target above the
// open position's entry price.
func TakeProfit(close, entryPrice float64, cfg domain.StrategyConfig) bool {
	return close >= entryPrice*(1+cfg.TakeProfitPct)
}

// StopLoss reports whether close has breached the stop level below the open
// position's entry price.
func StopLoss(close, entryPrice float64, cfg domain.StrategyConfig) bool {
	return close <= entryPrice*(1-cfg.StopLossPct)
}
