package reporting

import (
	"time"

	"meanrev-lab/internal/domain"
)

// Report packages everything a presentation layer needs for one run: the
// equity curve, the derived drawdown curve, the trade list and the metrics.
// Consumers must treat it as read-only and must not recompute metrics.
type Report struct {
	GeneratedAt time.Time             `json:"generated_at"`
	RunID       string                `json:"run_id"`
	Symbol      string                `json:"symbol"`
	Config      domain.StrategyConfig `json:"config"`

	EquityCurve   []domain.EquityPoint   `json:"equity_curve"`
	DrawdownCurve []domain.DrawdownPoint `json:"drawdown_curve"`
	Trades        []*domain.Trade        `json:"trades"`
	Metrics       domain.Metrics         `json:"metrics"`
}
