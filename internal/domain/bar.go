package domain

import (
	"errors"
	"fmt"
	"time"
)

// PriceBar represents one daily close observation for a symbol.
// Corresponds to the price_bars table in ClickHouse.
type PriceBar struct {
	Symbol string    // instrument identifier
	Date   time.Time // trading day, UTC midnight
	Close  float64   // closing price, must be positive
}

// Series validation errors.
var (
	ErrInsufficientData = errors.New("price series needs at least 2 bars")
	ErrSeriesUnordered  = errors.New("price series must be strictly ascending by date")
	ErrNonPositiveClose = errors.New("price series contains a non-positive close")
)

// MinSeriesLen is the minimum number of bars required to produce a signal;
// the entry predicate needs a previous close to compare against.
const MinSeriesLen = 2

// ValidateSeries checks the series invariants: at least MinSeriesLen bars,
// strictly ascending unique dates, positive closes.
func ValidateSeries(bars []PriceBar) error {
	if len(bars) < MinSeriesLen {
		return fmt.Errorf("%w: got %d", ErrInsufficientData, len(bars))
	}
	for i, b := range bars {
		if b.Close <= 0 {
			return fmt.Errorf("%w: bar %d (%s)", ErrNonPositiveClose, i, b.Date.Format("2006-01-02"))
		}
		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			return fmt.Errorf("%w: bar %d (%s) not after bar %d (%s)",
				ErrSeriesUnordered, i, b.Date.Format("2006-01-02"), i-1, bars[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}
