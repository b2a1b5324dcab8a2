// Package reporting assembles simulator and metrics output into immutable
// result values and renders them for humans and spreadsheets.
package reporting

import (
	"time"

	"meanrev-lab/internal/domain"
	"meanrev-lab/internal/simulation"
)

// Assembler packages simulation results into Reports.
type Assembler struct {
	now func() time.Time // injectable clock for deterministic output
}

// NewAssembler creates a report assembler.
func NewAssembler() *Assembler {
	return &Assembler{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock sets a custom clock function for deterministic output.
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Assemble builds a Report from a simulation result and its metrics. Inputs
// are copied, never retained or mutated; the drawdown curve is the only
// derivation performed here.
func (a *Assembler) Assemble(res *simulation.Result, cfg domain.StrategyConfig, m *domain.Metrics) *Report {
	equity := make([]domain.EquityPoint, len(res.EquityPoints))
	copy(equity, res.EquityPoints)

	trades := make([]*domain.Trade, len(res.Trades))
	for i, t := range res.Trades {
		tradeCopy := *t
		trades[i] = &tradeCopy
	}

	return &Report{
		GeneratedAt:   a.now(),
		RunID:         res.RunID,
		Symbol:        res.Symbol,
		Config:        cfg,
		EquityCurve:   equity,
		DrawdownCurve: DeriveDrawdown(equity),
		Trades:        trades,
		Metrics:       *m,
	}
}

// DeriveDrawdown computes the drawdown curve from an equity curve:
// drawdown(t) = equity(t) / runningPeak(t) - 1. Pure function of the
// equity history, always <= 0 pointwise.
func DeriveDrawdown(equity []domain.EquityPoint) []domain.DrawdownPoint {
	drawdown := make([]domain.DrawdownPoint, len(equity))
	peak := 0.0
	for i, p := range equity {
		if p.Equity > peak {
			peak = p.Equity
		}
		drawdown[i] = domain.DrawdownPoint{
			Date:        p.Date,
			DrawdownPct: p.Equity/peak - 1,
		}
	}
	return drawdown
}
