// Package metrics computes risk and performance statistics from an equity
// trajectory and a trade list. Every metric is a single pass or closed-form
// computation over already-materialized data.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"meanrev-lab/internal/domain"
)

// ErrUndefinedMetric is returned when the Sharpe ratio has fewer than 2
// return observations to work with. All other undefined states are encoded
// as sentinel values in the Metrics record instead of errors.
var ErrUndefinedMetric = errors.New("metric undefined")

// DefaultAnnualizationFactor is the trading-days-per-year convention used to
// annualize the Sharpe ratio.
const DefaultAnnualizationFactor = 252

// Options configures metric computation. The zero value selects the
// defaults; the annualization factor is overridable so tests can pin a
// different convention.
type Options struct {
	AnnualizationFactor float64
}

func (o Options) annualization() float64 {
	if o.AnnualizationFactor > 0 {
		return o.AnnualizationFactor
	}
	return DefaultAnnualizationFactor
}

// Compute derives all metrics from the equity curve and trade list.
// The equity curve must be chronological with at least 2 points.
func Compute(equity []domain.EquityPoint, trades []*domain.Trade, opts Options) (*domain.Metrics, error) {
	if len(equity) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 equity points, got %d", ErrUndefinedMetric, len(equity))
	}

	dailyReturns := make([]float64, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		dailyReturns[i-1] = equity[i].Equity/equity[i-1].Equity - 1
	}

	sharpe, err := sharpeRatio(dailyReturns, opts.annualization())
	if err != nil {
		return nil, err
	}

	m := &domain.Metrics{
		TotalReturn:  equity[len(equity)-1].Equity/equity[0].Equity - 1,
		SharpeRatio:  sharpe,
		MaxDrawdown:  maxDrawdown(equity),
		ProfitFactor: profitFactor(trades),
		WinRate:      winRate(trades),
		TradeCount:   len(trades),
	}
	return m, nil
}

// sharpeRatio annualizes mean(returns) / sampleStddev(returns). The sample
// standard deviation (n-1 denominator) is used for an unbiased estimator.
// A flat return series (zero mean, zero variance) yields 0 rather than NaN.
func sharpeRatio(returns []float64, annualization float64) (float64, error) {
	if len(returns) < 2 {
		return 0, fmt.Errorf("%w: sharpe needs at least 2 return observations, got %d", ErrUndefinedMetric, len(returns))
	}

	mean := computeMean(returns)
	stddev := computeStddev(returns, mean)

	if stddev == 0 {
		return 0, nil
	}
	return mean / stddev * math.Sqrt(annualization), nil
}

// maxDrawdown is the worst equity decline from its running peak, reported
// as a non-positive fraction. Zero for a non-decreasing curve.
func maxDrawdown(equity []domain.EquityPoint) float64 {
	peak := equity[0].Equity
	maxDD := 0.0
	for _, p := range equity {
		if p.Equity > peak {
			peak = p.Equity
		}
		dd := p.Equity/peak - 1
		if dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// profitFactor is sum(winning returns) / abs(sum(losing returns)).
// nil when there are no trades; +Inf when winners exist and the loss sum is
// exactly zero; 0 when trades exist but none won.
func profitFactor(trades []*domain.Trade) *float64 {
	if len(trades) == 0 {
		return nil
	}

	grossWin := 0.0
	grossLoss := 0.0
	for _, t := range trades {
		if t.ReturnPct > 0 {
			grossWin += t.ReturnPct
		} else if t.ReturnPct < 0 {
			grossLoss += t.ReturnPct
		}
	}

	var pf float64
	switch {
	case grossLoss == 0 && grossWin > 0:
		pf = math.Inf(1)
	case grossLoss == 0:
		pf = 0
	default:
		pf = grossWin / math.Abs(grossLoss)
	}
	return &pf
}

// winRate is count(winning trades) / count(all trades); nil with no trades.
func winRate(trades []*domain.Trade) *float64 {
	if len(trades) == 0 {
		return nil
	}
	wins := 0
	for _, t := range trades {
		if t.ReturnPct > 0 {
			wins++
		}
	}
	rate := float64(wins) / float64(len(trades))
	return &rate
}

// computeMean calculates the arithmetic mean.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev calculates the sample standard deviation (n-1 denominator).
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}
