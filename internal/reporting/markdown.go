package reporting

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// RenderMarkdown renders a report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Backtest Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s | Symbol: %s | Strategy: %s\n\n", r.RunID, r.Symbol, r.Config.ID()))

	sb.WriteString("## Parameters\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Buy Threshold | %.2f%% |\n", r.Config.BuyThresholdPct*100))
	sb.WriteString(fmt.Sprintf("| Take Profit | %.2f%% |\n", r.Config.TakeProfitPct*100))
	sb.WriteString(fmt.Sprintf("| Stop Loss | %.2f%% |\n", r.Config.StopLossPct*100))
	sb.WriteString(fmt.Sprintf("| Transaction Cost | %.3f%% |\n", r.Config.TransactionCostPct*100))
	sb.WriteString("\n")

	sb.WriteString("## Metrics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Return | %.2f%% |\n", r.Metrics.TotalReturn*100))
	sb.WriteString(fmt.Sprintf("| Sharpe Ratio | %.4f |\n", r.Metrics.SharpeRatio))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.2f%% |\n", r.Metrics.MaxDrawdown*100))
	sb.WriteString(fmt.Sprintf("| Profit Factor | %s |\n", formatNullable(r.Metrics.ProfitFactor)))
	sb.WriteString(fmt.Sprintf("| Win Rate | %s |\n", formatNullablePct(r.Metrics.WinRate)))
	sb.WriteString(fmt.Sprintf("| Trades | %d |\n", r.Metrics.TradeCount))
	sb.WriteString("\n")

	sb.WriteString("## Trades\n\n")
	if len(r.Trades) > 0 {
		sb.WriteString("| Entry | Exit | Entry Price | Exit Price | Return | Reason |\n")
		sb.WriteString("|-------|------|-------------|------------|--------|--------|\n")
		for _, t := range r.Trades {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.4f | %.4f | %.2f%% | %s |\n",
				t.EntryDate.Format("2006-01-02"), t.ExitDate.Format("2006-01-02"),
				t.EntryPrice, t.ExitPrice, t.ReturnPct*100, t.ExitReason))
		}
	} else {
		sb.WriteString("No trades executed with these parameters.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// formatNullable renders nil as N/A and +Inf as "inf".
func formatNullable(v *float64) string {
	if v == nil {
		return "N/A"
	}
	if math.IsInf(*v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.4f", *v)
}

func formatNullablePct(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}
