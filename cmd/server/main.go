// Package main runs the backtesting service: REST endpoints for running
// and inspecting backtests, the tuning WebSocket, and Prometheus metrics.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"meanrev-lab/internal/api"
	"meanrev-lab/internal/simulation"
	"meanrev-lab/internal/storage"
	chstore "meanrev-lab/internal/storage/clickhouse"
	"meanrev-lab/internal/storage/memory"
	"meanrev-lab/internal/storage/migrations"
	pgstore "meanrev-lab/internal/storage/postgres"
)

func main() {
	// Load .env if present; system env vars take precedence.
	_ = godotenv.Load()

	// Parse flags (env vars as defaults)
	port := flag.Int("port", envInt("PORT", 8080), "HTTP listen port")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of databases")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var barStore storage.PriceBarStore
	var runStore storage.BacktestRunStore
	var tradeStore storage.TradeStore
	var equityStore storage.EquityCurveStore

	if *useMemory {
		barStore = memory.NewPriceBarStore()
		runStore = memory.NewBacktestRunStore()
		tradeStore = memory.NewTradeStore()
		equityStore = memory.NewEquityCurveStore()
		logger.Println("using in-memory storage")
	} else {
		if *postgresDSN == "" {
			logger.Fatal("--postgres-dsn is required when not using --use-memory")
		}
		if *clickhouseDSN == "" {
			logger.Fatal("--clickhouse-dsn is required when not using --use-memory")
		}

		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("apply postgres migrations: %v", err)
		}

		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()

		barStore = chstore.NewPriceBarStore(conn)
		equityStore = chstore.NewEquityCurveStore(conn)
		runStore = pgstore.NewBacktestRunStore(pool)
		tradeStore = pgstore.NewTradeStore(pool)
	}

	runner := simulation.NewRunner(simulation.RunnerOptions{
		BarStore:    barStore,
		RunStore:    runStore,
		TradeStore:  tradeStore,
		EquityStore: equityStore,
		Logger:      logger,
	})

	srv := api.NewServer(api.ServerOptions{
		Port:       *port,
		Runner:     runner,
		RunStore:   runStore,
		TradeStore: tradeStore,
		Logger:     logger,
	})

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		if err := srv.Shutdown(); err != nil {
			logger.Printf("shutdown: %v", err)
		}
		cancel()
	}()

	if err := srv.Start(); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
	logger.Println("server stopped")
}

// envInt reads an integer env var, falling back to def.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
