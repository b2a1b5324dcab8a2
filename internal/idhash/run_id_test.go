package idhash

import (
	"testing"
	"time"

	"meanrev-lab/internal/domain"
)

func TestComputeRunID_Deterministic(t *testing.T) {
	cfg := domain.StrategyConfig{BuyThresholdPct: 0.02, TakeProfitPct: 0.03, StopLossPct: 0.02}
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	id1 := ComputeRunID("SPY", cfg, first, last)
	id2 := ComputeRunID("SPY", cfg, first, last)
	if id1 != id2 {
		t.Errorf("same inputs produced different run IDs: %s vs %s", id1, id2)
	}
	if id1 == "" {
		t.Error("run ID must not be empty")
	}
}

func TestComputeRunID_DistinguishesInputs(t *testing.T) {
	cfg := domain.StrategyConfig{BuyThresholdPct: 0.02, TakeProfitPct: 0.03, StopLossPct: 0.02}
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	base := ComputeRunID("SPY", cfg, first, last)

	if ComputeRunID("QQQ", cfg, first, last) == base {
		t.Error("different symbols must produce different run IDs")
	}

	cfg2 := cfg
	cfg2.StopLossPct = 0.05
	if ComputeRunID("SPY", cfg2, first, last) == base {
		t.Error("different configs must produce different run IDs")
	}

	if ComputeRunID("SPY", cfg, first, last.AddDate(0, 0, 1)) == base {
		t.Error("different date ranges must produce different run IDs")
	}
}

func TestComputeTradeID_Deterministic(t *testing.T) {
	entry := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	id1 := ComputeTradeID("run1", "SPY", entry)
	id2 := ComputeTradeID("run1", "SPY", entry)
	if id1 != id2 {
		t.Errorf("same inputs produced different trade IDs: %s vs %s", id1, id2)
	}
	if len(id1) != 64 {
		t.Errorf("expected 64-char hex trade ID, got %d chars", len(id1))
	}
	if ComputeTradeID("run1", "SPY", entry.AddDate(0, 0, 1)) == id1 {
		t.Error("different entry dates must produce different trade IDs")
	}
}
