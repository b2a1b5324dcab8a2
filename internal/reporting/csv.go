package reporting

import (
	"fmt"
	"strings"

	"meanrev-lab/internal/domain"
)

// RenderTradesCSV renders the trade log as a CSV string.
func RenderTradesCSV(trades []*domain.Trade) string {
	var sb strings.Builder

	sb.WriteString("trade_id,run_id,symbol,entry_date,exit_date,entry_price,exit_price,return_pct,exit_reason\n")

	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%.6f,%.6f,%.6f,%s\n",
			t.TradeID,
			t.RunID,
			t.Symbol,
			t.EntryDate.Format("2006-01-02"),
			t.ExitDate.Format("2006-01-02"),
			t.EntryPrice,
			t.ExitPrice,
			t.ReturnPct,
			t.ExitReason,
		))
	}

	return sb.String()
}

// RenderEquityCSV renders the equity curve with its derived drawdown as a
// CSV string. Rows align one-to-one with the input curves.
func RenderEquityCSV(equity []domain.EquityPoint, drawdown []domain.DrawdownPoint) string {
	var sb strings.Builder

	sb.WriteString("date,equity,drawdown_pct\n")

	for i, p := range equity {
		dd := 0.0
		if i < len(drawdown) {
			dd = drawdown[i].DrawdownPct
		}
		sb.WriteString(fmt.Sprintf("%s,%.6f,%.6f\n", p.Date.Format("2006-01-02"), p.Equity, dd))
	}

	return sb.String()
}
