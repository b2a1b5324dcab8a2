package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"meanrev-lab/internal/domain"
	"meanrev-lab/internal/marketdata"
	"meanrev-lab/internal/reporting"
	"meanrev-lab/internal/simulation"
	"meanrev-lab/internal/storage"
	chstore "meanrev-lab/internal/storage/clickhouse"
	"meanrev-lab/internal/storage/memory"
	"meanrev-lab/internal/storage/migrations"
	pgstore "meanrev-lab/internal/storage/postgres"
)

func main() {
	// Input
	csvPath := flag.String("csv", "", "Path to a date,close CSV file (alternative to stored bars)")
	symbol := flag.String("symbol", "", "Symbol to backtest (required)")

	// Strategy parameters
	buyThreshold := flag.Float64("buy-threshold", 0.02, "Entry drop threshold vs prior close (fraction)")
	takeProfit := flag.Float64("take-profit", 0.03, "Take-profit threshold above entry (fraction)")
	stopLoss := flag.Float64("stop-loss", 0.02, "Stop-loss threshold below entry (fraction)")
	txCost := flag.Float64("transaction-cost", 0.0, "Per-side transaction cost (fraction)")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")

	// Output
	outputJSON := flag.Bool("json", false, "Output full report as JSON")
	markdownPath := flag.String("markdown", "", "Write markdown report to this path")
	tradesCSVPath := flag.String("trades-csv", "", "Write trade log CSV to this path")
	persistResult := flag.Bool("persist", false, "Persist run, trades and equity curve to storage")

	flag.Parse()

	logger := log.New(os.Stderr, "[backtest] ", log.LstdFlags)

	if *symbol == "" {
		logger.Fatal("--symbol is required")
	}
	if *csvPath == "" && *clickhouseDSN == "" {
		logger.Fatal("either --csv or --clickhouse-dsn is required for price data")
	}
	if *persistResult && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required with --persist (runs and trades)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	cfg := domain.StrategyConfig{
		BuyThresholdPct:    *buyThreshold,
		TakeProfitPct:      *takeProfit,
		StopLossPct:        *stopLoss,
		TransactionCostPct: *txCost,
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid strategy config: %v", err)
	}

	// Result stores default to memory so dry runs work without databases.
	var runStore storage.BacktestRunStore = memory.NewBacktestRunStore()
	var tradeStore storage.TradeStore = memory.NewTradeStore()
	var equityStore storage.EquityCurveStore = memory.NewEquityCurveStore()
	var barStore storage.PriceBarStore

	if *persistResult {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("apply postgres migrations: %v", err)
		}

		runStore = pgstore.NewBacktestRunStore(pool)
		tradeStore = pgstore.NewTradeStore(pool)
	}

	if *clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()

		barStore = chstore.NewPriceBarStore(conn)
		if *persistResult {
			equityStore = chstore.NewEquityCurveStore(conn)
		}
	}

	runnerOpts := simulation.RunnerOptions{
		BarStore: barStore,
		Logger:   logger,
	}
	if *persistResult {
		runnerOpts.RunStore = runStore
		runnerOpts.TradeStore = tradeStore
		runnerOpts.EquityStore = equityStore
	}
	runner := simulation.NewRunner(runnerOpts)

	var out *simulation.RunOutput
	var err error
	if *csvPath != "" {
		bars, loadErr := marketdata.LoadCSV(*csvPath, *symbol)
		if loadErr != nil {
			logger.Fatalf("load csv: %v", loadErr)
		}
		logger.Printf("Loaded %d bars from %s", len(bars), *csvPath)
		out, err = runner.RunBars(ctx, bars, cfg)
	} else {
		out, err = runner.RunSymbol(ctx, *symbol, cfg)
	}
	if err != nil {
		logger.Fatalf("backtest failed: %v", err)
	}

	report := reporting.NewAssembler().Assemble(out.Result, cfg, out.Metrics)

	if *markdownPath != "" {
		if err := os.WriteFile(*markdownPath, []byte(reporting.RenderMarkdown(report)), 0644); err != nil {
			logger.Fatalf("write markdown report: %v", err)
		}
		logger.Printf("Wrote markdown report to %s", *markdownPath)
	}
	if *tradesCSVPath != "" {
		if err := os.WriteFile(*tradesCSVPath, []byte(reporting.RenderTradesCSV(report.Trades)), 0644); err != nil {
			logger.Fatalf("write trades csv: %v", err)
		}
		logger.Printf("Wrote trade log to %s", *tradesCSVPath)
	}

	if *outputJSON {
		output, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(output))
	} else {
		printSummary(report)
	}
}

// printSummary outputs a human-readable run summary.
func printSummary(r *reporting.Report) {
	fmt.Println()
	fmt.Println("=== Backtest Result ===")
	fmt.Printf("Run ID:         %s\n", r.RunID)
	fmt.Printf("Symbol:         %s\n", r.Symbol)
	fmt.Printf("Strategy:       %s\n", r.Config.ID())
	fmt.Println()

	fmt.Println("Metrics:")
	fmt.Printf("  Total Return:   %.2f%%\n", r.Metrics.TotalReturn*100)
	fmt.Printf("  Sharpe Ratio:   %.4f\n", r.Metrics.SharpeRatio)
	fmt.Printf("  Max Drawdown:   %.2f%%\n", r.Metrics.MaxDrawdown*100)
	if r.Metrics.ProfitFactor != nil {
		fmt.Printf("  Profit Factor:  %.4f\n", *r.Metrics.ProfitFactor)
	} else {
		fmt.Printf("  Profit Factor:  N/A\n")
	}
	if r.Metrics.WinRate != nil {
		fmt.Printf("  Win Rate:       %.2f%%\n", *r.Metrics.WinRate*100)
	} else {
		fmt.Printf("  Win Rate:       N/A\n")
	}
	fmt.Printf("  Trades:         %d\n", r.Metrics.TradeCount)
	fmt.Println()

	if len(r.Trades) == 0 {
		fmt.Println("No trades executed with these parameters.")
		return
	}

	fmt.Println("Trades:")
	for _, t := range r.Trades {
		fmt.Printf("  %s -> %s  entry %.4f  exit %.4f  return %+.2f%%  %s\n",
			t.EntryDate.Format("2006-01-02"), t.ExitDate.Format("2006-01-02"),
			t.EntryPrice, t.ExitPrice, t.ReturnPct*100, t.ExitReason)
	}
}
