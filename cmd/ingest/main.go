package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"meanrev-lab/internal/marketdata"
	"meanrev-lab/internal/observability"
	"meanrev-lab/internal/storage"
	chstore "meanrev-lab/internal/storage/clickhouse"
	"meanrev-lab/internal/storage/migrations"
)

func main() {
	csvPath := flag.String("csv", "", "Path to a date,close CSV file (required)")
	symbol := flag.String("symbol", "", "Symbol to ingest the series under (required)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (required)")

	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags|log.Lshortfile)

	if *csvPath == "" {
		logger.Fatal("--csv is required")
	}
	if *symbol == "" {
		logger.Fatal("--symbol is required")
	}
	if *clickhouseDSN == "" {
		logger.Fatal("--clickhouse-dsn is required")
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

	bars, err := marketdata.LoadCSV(*csvPath, *symbol)
	if err != nil {
		observability.RecordIngestionError()
		logger.Fatalf("load csv: %v", err)
	}
	logger.Printf("Loaded %d bars for %s from %s", len(bars), *symbol, *csvPath)

	conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
	if err != nil {
		logger.Fatalf("connect to clickhouse: %v", err)
	}
	defer conn.Close()

	store := chstore.NewPriceBarStore(conn)
	if err := store.InsertBulk(ctx, bars); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			logger.Fatalf("series overlaps bars already stored for %s, refusing partial ingest", *symbol)
		}
		observability.RecordIngestionError()
		logger.Fatalf("store bars: %v", err)
	}

	observability.RecordBarsIngested(len(bars))
	logger.Printf("Ingested %d bars for %s (%s .. %s)",
		len(bars), *symbol,
		bars[0].Date.Format("2006-01-02"),
		bars[len(bars)-1].Date.Format("2006-01-02"))
}
