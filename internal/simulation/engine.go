// Package simulation walks a price series once and resolves entries and
// exits into realized trades and a daily equity trajectory.
package simulation

import (
	"time"

	"meanrev-lab/internal/domain"
	"meanrev-lab/internal/idhash"
	"meanrev-lab/internal/signal"
)

// Result holds the simulator output for one run.
type Result struct {
	RunID        string
	Symbol       string
	EquityPoints []domain.EquityPoint // one per bar, starting at 1.0
	Trades       []*domain.Trade      // chronological
}

// position is the open-position state carried between days. nil means FLAT;
// at most one position is open at any time.
type position struct {
	entryDate  time.Time
	entryPrice float64 // cost-adjusted
}

// state is the fold accumulator: (open position, running equity).
type state struct {
	open   *position
	equity float64
}

// advance applies one day to the state and returns the updated state plus
// the trade emitted on that day, if any. It is a pure transition function:
// the same (state, bar) pair always yields the same output.
//
// Exit evaluation uses the current day's close against the open position's
// entry price. When the take-profit and stop-loss conditions are both true
// on the same day, stop-loss wins. That is an explicit risk-first rule, not
// a side effect of evaluation order: we check the stop condition before even
// looking at the profit target.
//
// A position opened today is not eligible for exit until a later day, and
// re-entry after an exit is only evaluated on subsequent days, so one
// position never round-trips within a single bar.
func advance(st state, bar domain.PriceBar, entrySignal, lastBar bool, cfg domain.StrategyConfig, runID string) (state, *domain.Trade) {
	var closed *domain.Trade

	switch {
	case st.open != nil:
		exitReason := ""
		if signal.StopLoss(bar.Close, st.open.entryPrice, cfg) {
			exitReason = domain.ExitReasonStopLoss
		} else if signal.TakeProfit(bar.Close, st.open.entryPrice, cfg) {
			exitReason = domain.ExitReasonTakeProfit
		} else if lastBar {
			exitReason = domain.ExitReasonEndOfSeries
		}

		if exitReason != "" {
			exitPrice := bar.Close * (1 - cfg.TransactionCostPct)
			closed = &domain.Trade{
				TradeID:    idhash.ComputeTradeID(runID, bar.Symbol, st.open.entryDate),
				RunID:      runID,
				Symbol:     bar.Symbol,
				EntryDate:  st.open.entryDate,
				EntryPrice: st.open.entryPrice,
				ExitDate:   bar.Date,
				ExitPrice:  exitPrice,
				ReturnPct:  exitPrice/st.open.entryPrice - 1,
				ExitReason: exitReason,
			}
			st.open = nil
		}

	case entrySignal && !lastBar:
		// Entry on the final bar is skipped: no later bar exists on which
		// the position could exit, and equity never reflects open positions.
		st.open = &position{
			entryDate:  bar.Date,
			entryPrice: bar.Close * (1 + cfg.TransactionCostPct),
		}
	}

	// Capital compounds only on realized trade close; it sits idle while
	// FLAT and open positions are not marked to market.
	if closed != nil {
		st.equity *= 1 + closed.ReturnPct
	}

	return st, closed
}

// Simulate runs the single-position state machine over the series in one
// chronological pass. It validates the config and series up front and
// returns without creating any simulation state when either is invalid.
// Output is deterministic: identical inputs yield identical Results.
func Simulate(bars []domain.PriceBar, cfg domain.StrategyConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateSeries(bars); err != nil {
		return nil, err
	}

	symbol := bars[0].Symbol
	runID := idhash.ComputeRunID(symbol, cfg, bars[0].Date, bars[len(bars)-1].Date)

	// The entry predicate depends only on fixed prior-day data, so it is
	// evaluated for the whole series up front. Exit resolution carries a
	// path-dependent entry price and stays sequential.
	entries := signal.EntrySignals(bars, cfg)

	res := &Result{
		RunID:        runID,
		Symbol:       symbol,
		EquityPoints: make([]domain.EquityPoint, 0, len(bars)),
		Trades:       make([]*domain.Trade, 0),
	}

	st := state{equity: 1.0}
	for t, bar := range bars {
		var closed *domain.Trade
		st, closed = advance(st, bar, entries[t], t == len(bars)-1, cfg, runID)
		if closed != nil {
			res.Trades = append(res.Trades, closed)
		}
		res.EquityPoints = append(res.EquityPoints, domain.EquityPoint{
			RunID:  runID,
			Date:   bar.Date,
			Equity: st.equity,
		})
	}

	return res, nil
}
