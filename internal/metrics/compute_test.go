package metrics

import (
	"errors"
	"math"
	"testing"
	"time"

	"meanrev-lab/internal/domain"
)

func equityCurve(values []float64) []domain.EquityPoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]domain.EquityPoint, len(values))
	for i, v := range values {
		points[i] = domain.EquityPoint{RunID: "run", Date: start.AddDate(0, 0, i), Equity: v}
	}
	return points
}

func tradeWithReturn(r float64) *domain.Trade {
	return &domain.Trade{ReturnPct: r}
}

func TestCompute_TotalReturn(t *testing.T) {
	m, err := Compute(equityCurve([]float64{1, 1, 1.05, 1.05, 1.0619}), nil, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if math.Abs(m.TotalReturn-0.0619) > 1e-9 {
		t.Errorf("total return: got %f, want 0.0619", m.TotalReturn)
	}
}

func TestCompute_FlatCurveSharpeIsZero(t *testing.T) {
	m, err := Compute(equityCurve([]float64{1, 1, 1, 1}), nil, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if m.SharpeRatio != 0 {
		t.Errorf("flat curve sharpe: got %f, want 0", m.SharpeRatio)
	}
	if m.TotalReturn != 0 {
		t.Errorf("flat curve total return: got %f, want 0", m.TotalReturn)
	}
	if m.MaxDrawdown != 0 {
		t.Errorf("flat curve max drawdown: got %f, want 0", m.MaxDrawdown)
	}
}

func TestCompute_SharpeKnownValue(t *testing.T) {
	// Daily returns: +1%, -1%, +1% -> mean = 1/300, sample stddev with n-1.
	curve := equityCurve([]float64{1, 1.01, 0.9999, 1.009899})
	m, err := Compute(curve, nil, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	returns := []float64{0.01, -0.01, 0.01}
	mean := (returns[0] + returns[1] + returns[2]) / 3
	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	stddev := math.Sqrt(variance / 2) // n-1 = 2
	want := mean / stddev * math.Sqrt(252)

	if math.Abs(m.SharpeRatio-want) > 1e-6 {
		t.Errorf("sharpe: got %f, want %f", m.SharpeRatio, want)
	}
}

func TestCompute_AnnualizationOverride(t *testing.T) {
	curve := equityCurve([]float64{1, 1.01, 0.9999, 1.009899})

	base, err := Compute(curve, nil, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	overridden, err := Compute(curve, nil, Options{AnnualizationFactor: 365})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	ratio := overridden.SharpeRatio / base.SharpeRatio
	want := math.Sqrt(365.0 / 252.0)
	if math.Abs(ratio-want) > 1e-9 {
		t.Errorf("annualization ratio: got %f, want %f", ratio, want)
	}
}

func TestCompute_TooFewPoints(t *testing.T) {
	_, err := Compute(equityCurve([]float64{1}), nil, Options{})
	if !errors.Is(err, ErrUndefinedMetric) {
		t.Errorf("expected ErrUndefinedMetric for 1 point, got %v", err)
	}

	// 2 equity points give only 1 daily return: still undefined for Sharpe.
	_, err = Compute(equityCurve([]float64{1, 1.01}), nil, Options{})
	if !errors.Is(err, ErrUndefinedMetric) {
		t.Errorf("expected ErrUndefinedMetric for 1 return, got %v", err)
	}
}

func TestMaxDrawdown(t *testing.T) {
	// Peak 1.2, trough 0.9 -> drawdown 0.9/1.2 - 1 = -0.25
	m, err := Compute(equityCurve([]float64{1, 1.2, 0.9, 1.0, 1.3}), nil, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if math.Abs(m.MaxDrawdown-(-0.25)) > 1e-9 {
		t.Errorf("max drawdown: got %f, want -0.25", m.MaxDrawdown)
	}
	if m.MaxDrawdown > 0 {
		t.Error("max drawdown must be non-positive")
	}
}

func TestMaxDrawdown_NonDecreasingCurveIsZero(t *testing.T) {
	m, err := Compute(equityCurve([]float64{1, 1.1, 1.1, 1.2}), nil, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if m.MaxDrawdown != 0 {
		t.Errorf("non-decreasing curve drawdown: got %f, want 0", m.MaxDrawdown)
	}
}

func TestProfitFactor_Sentinels(t *testing.T) {
	curve := equityCurve([]float64{1, 1, 1})

	// No trades -> nil (undefined)
	m, err := Compute(curve, nil, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if m.ProfitFactor != nil {
		t.Errorf("expected nil profit factor for no trades, got %v", *m.ProfitFactor)
	}
	if m.WinRate != nil {
		t.Errorf("expected nil win rate for no trades, got %v", *m.WinRate)
	}
	if m.TradeCount != 0 {
		t.Errorf("trade count: got %d, want 0", m.TradeCount)
	}

	// Winners, zero losers -> +Inf
	m, err = Compute(curve, []*domain.Trade{tradeWithReturn(0.05), tradeWithReturn(0.02)}, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if m.ProfitFactor == nil || !math.IsInf(*m.ProfitFactor, 1) {
		t.Errorf("expected +Inf profit factor, got %v", m.ProfitFactor)
	}

	// Trades but no winners -> 0
	m, err = Compute(curve, []*domain.Trade{tradeWithReturn(-0.05)}, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if m.ProfitFactor == nil || *m.ProfitFactor != 0 {
		t.Errorf("expected 0 profit factor, got %v", m.ProfitFactor)
	}
}

func TestProfitFactor_Ratio(t *testing.T) {
	trades := []*domain.Trade{
		tradeWithReturn(0.06),
		tradeWithReturn(-0.02),
		tradeWithReturn(0.04),
		tradeWithReturn(-0.03),
	}
	m, err := Compute(equityCurve([]float64{1, 1, 1}), trades, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	want := 0.10 / 0.05
	if m.ProfitFactor == nil || math.Abs(*m.ProfitFactor-want) > 1e-9 {
		t.Errorf("profit factor: got %v, want %f", m.ProfitFactor, want)
	}
	if m.WinRate == nil || *m.WinRate != 0.5 {
		t.Errorf("win rate: got %v, want 0.5", m.WinRate)
	}
	if m.TradeCount != 4 {
		t.Errorf("trade count: got %d, want 4", m.TradeCount)
	}
}

func TestWinRate_BreakEvenTradeIsNotAWin(t *testing.T) {
	trades := []*domain.Trade{tradeWithReturn(0), tradeWithReturn(0.01)}
	m, err := Compute(equityCurve([]float64{1, 1, 1}), trades, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if m.WinRate == nil || *m.WinRate != 0.5 {
		t.Errorf("win rate: got %v, want 0.5", m.WinRate)
	}
}
