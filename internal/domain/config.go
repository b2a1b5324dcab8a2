package domain

import (
	"errors"
	"fmt"
)

// StrategyConfig holds the mean-reversion strategy parameters.
// All percentages are fractions of price (0.02 = 2%). Values are immutable
// once validated; each engine invocation receives its own copy.
type StrategyConfig struct {
	BuyThresholdPct    float64 `json:"buy_threshold_pct"`    // entry: close <= prevClose * (1 - BuyThresholdPct)
	TakeProfitPct      float64 `json:"take_profit_pct"`      // exit: close >= entry * (1 + TakeProfitPct)
	StopLossPct        float64 `json:"stop_loss_pct"`        // exit: close <= entry * (1 - StopLossPct)
	TransactionCostPct float64 `json:"transaction_cost_pct"` // applied per entry and per exit
}

// Configuration errors. A fraction >= 1 means a 100%+ move threshold,
// which is rejected as a configuration mistake.
var (
	ErrInvalidConfig         = errors.New("invalid strategy config")
	ErrBuyThresholdRange     = fmt.Errorf("%w: buy threshold must be in (0, 1)", ErrInvalidConfig)
	ErrTakeProfitRange       = fmt.Errorf("%w: take profit must be in (0, 1)", ErrInvalidConfig)
	ErrStopLossRange         = fmt.Errorf("%w: stop loss must be in (0, 1)", ErrInvalidConfig)
	ErrTransactionCostRange  = fmt.Errorf("%w: transaction cost must be in [0, 1)", ErrInvalidConfig)
)

// Validate checks parameter ranges. Validation failures abort a run before
// any simulation state is created.
func (c StrategyConfig) Validate() error {
	if c.BuyThresholdPct <= 0 || c.BuyThresholdPct >= 1 {
		return ErrBuyThresholdRange
	}
	if c.TakeProfitPct <= 0 || c.TakeProfitPct >= 1 {
		return ErrTakeProfitRange
	}
	if c.StopLossPct <= 0 || c.StopLossPct >= 1 {
		return ErrStopLossRange
	}
	if c.TransactionCostPct < 0 || c.TransactionCostPct >= 1 {
		return ErrTransactionCostRange
	}
	return nil
}

// ID returns the strategy identifier including parameters.
func (c StrategyConfig) ID() string {
	return fmt.Sprintf("MEAN_REVERSION_buy%.2f_tp%.2f_sl%.2f_fee%.3f",
		c.BuyThresholdPct*100,
		c.TakeProfitPct*100,
		c.StopLossPct*100,
		c.TransactionCostPct*100)
}
