package signal

import (
	"testing"
	"time"

	"meanrev-lab/internal/domain"
)

func makeBars(closes []float64) []domain.PriceBar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]domain.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = domain.PriceBar{Symbol: "TEST", Date: start.AddDate(0, 0, i), Close: c}
	}
	return bars
}

func cfg() domain.StrategyConfig {
	return domain.StrategyConfig{
		BuyThresholdPct: 0.02,
		TakeProfitPct:   0.03,
		StopLossPct:     0.02,
	}
}

func TestEntrySignals_FirstDayNeverFires(t *testing.T) {
	// Even a huge drop on day 0 cannot fire: no previous close exists
	signals := EntrySignals(makeBars([]float64{1, 100}), cfg())
	if signals[0] {
		t.Error("day 0 must never fire an entry signal")
	}
}

func TestEntrySignals_ConstantPriceNeverFires(t *testing.T) {
	signals := EntrySignals(makeBars([]float64{100, 100, 100, 100, 100}), cfg())
	for i, s := range signals {
		if s {
			t.Errorf("constant series fired entry signal on day %d", i)
		}
	}
}

func TestEntrySignals_ThresholdBoundary(t *testing.T) {
	// 100 -> 98 is exactly the 2% threshold (inclusive); 100 -> 98.01 is not
	signals := EntrySignals(makeBars([]float64{100, 98, 100, 98.01}), cfg())
	if !signals[1] {
		t.Error("close exactly at threshold must fire")
	}
	if signals[3] {
		t.Error("close above threshold must not fire")
	}
}

func TestEntrySignals_ReboundScenario(t *testing.T) {
	// prices [100, 97, 97.5, 103, 102]: only day 1 (97 <= 98) fires
	signals := EntrySignals(makeBars([]float64{100, 97, 97.5, 103, 102}), cfg())
	want := []bool{false, true, false, false, false}
	for i := range want {
		if signals[i] != want[i] {
			t.Errorf("day %d: got %v, want %v", i, signals[i], want[i])
		}
	}
}

func TestExitPredicates(t *testing.T) {
	c := cfg()
	entry := 97.0

	// Take profit target: 97 * 1.03 = 99.91
	if TakeProfit(99.90, entry, c) {
		t.Error("below target must not take profit")
	}
	if !TakeProfit(99.91, entry, c) {
		t.Error("at target must take profit")
	}

	// Stop level: 97 * 0.98 = 95.06
	if StopLoss(95.07, entry, c) {
		t.Error("above stop must not trigger")
	}
	if !StopLoss(95.06, entry, c) {
		t.Error("at stop must trigger")
	}
}
