package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"meanrev-lab/internal/domain"
	"meanrev-lab/internal/observability"
	"meanrev-lab/internal/reporting"
	"meanrev-lab/internal/simulation"
	chstore "meanrev-lab/internal/storage/clickhouse"
	"meanrev-lab/internal/storage/migrations"
	pgstore "meanrev-lab/internal/storage/postgres"
)

func main() {
	runID := flag.String("run-id", "", "Run ID to report on (omit with --list)")
	listRuns := flag.Bool("list", false, "List stored runs and exit")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (required)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (required unless --list)")
	outputDir := flag.String("out", "reports", "Output directory for report files")

	flag.Parse()

	logger := log.New(os.Stderr, "[report] ", log.LstdFlags)

	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required")
	}
	if !*listRuns && *runID == "" {
		logger.Fatal("--run-id is required (or use --list)")
	}
	if !*listRuns && *clickhouseDSN == "" {
		logger.Fatal("--clickhouse-dsn is required for the equity curve")
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

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	runStore := pgstore.NewBacktestRunStore(pool)

	if *listRuns {
		runs, err := runStore.GetAll(ctx)
		if err != nil {
			logger.Fatalf("list runs: %v", err)
		}
		if len(runs) == 0 {
			fmt.Println("No stored runs.")
			return
		}
		for _, r := range runs {
			fmt.Printf("%s  %-6s  %s  bars=%d trades=%d return=%+.2f%%\n",
				r.CreatedAt.Format("2006-01-02 15:04"), r.Symbol, r.RunID,
				r.BarCount, r.Metrics.TradeCount, r.Metrics.TotalReturn*100)
		}
		return
	}

	run, err := runStore.GetByID(ctx, *runID)
	if err != nil {
		logger.Fatalf("load run %s: %v", *runID, err)
	}

	tradeStore := pgstore.NewTradeStore(pool)
	trades, err := tradeStore.GetByRunID(ctx, *runID)
	if err != nil {
		logger.Fatalf("load trades for %s: %v", *runID, err)
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
	if err != nil {
		logger.Fatalf("connect to clickhouse: %v", err)
	}
	defer conn.Close()

	equityStore := chstore.NewEquityCurveStore(conn)
	equity, err := equityStore.GetByRunID(ctx, *runID)
	if err != nil {
		logger.Fatalf("load equity curve for %s: %v", *runID, err)
	}
	if len(equity) == 0 {
		logger.Fatalf("no equity curve stored for run %s", *runID)
	}

	report := reporting.NewAssembler().Assemble(&simulation.Result{
		RunID:        run.RunID,
		Symbol:       run.Symbol,
		EquityPoints: equity,
		Trades:       trades,
	}, run.Config, &run.Metrics)

	if err := writeReportFiles(*outputDir, run, report); err != nil {
		logger.Fatalf("write report files: %v", err)
	}
	observability.RecordReportGenerated()
	logger.Printf("Wrote report for run %s to %s", run.RunID, *outputDir)
}

// writeReportFiles renders the markdown report plus trade and equity CSVs.
func writeReportFiles(dir string, run *domain.BacktestRun, report *reporting.Report) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	prefix := fmt.Sprintf("%s_%s", run.Symbol, run.RunID)

	files := map[string]string{
		prefix + "_report.md":  reporting.RenderMarkdown(report),
		prefix + "_trades.csv": reporting.RenderTradesCSV(report.Trades),
		prefix + "_equity.csv": reporting.RenderEquityCSV(report.EquityCurve, report.DrawdownCurve),
	}

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
