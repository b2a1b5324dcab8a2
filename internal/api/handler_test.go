package api

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meanrev-lab/internal/domain"
	"meanrev-lab/internal/simulation"
	"meanrev-lab/internal/storage/memory"
)

func setupServer(t *testing.T) (*Server, *memory.BacktestRunStore) {
	t.Helper()

	ctx := context.Background()
	barStore := memory.NewPriceBarStore()

	closes := []float64{100, 97, 97.5, 103, 102}
	bars := make([]domain.PriceBar, len(closes))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = domain.PriceBar{Symbol: "SPY", Date: base.AddDate(0, 0, i), Close: c}
	}
	require.NoError(t, barStore.InsertBulk(ctx, bars))

	runStore := memory.NewBacktestRunStore()
	tradeStore := memory.NewTradeStore()

	runner := simulation.NewRunner(simulation.RunnerOptions{
		BarStore:   barStore,
		RunStore:   runStore,
		TradeStore: tradeStore,
		Logger:     log.New(io.Discard, "", 0),
	})

	srv := NewServer(ServerOptions{
		Port:       0,
		Runner:     runner,
		RunStore:   runStore,
		TradeStore: tradeStore,
		Logger:     log.New(io.Discard, "", 0),
	})
	return srv, runStore
}

func doRequest(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv, _ := setupServer(t)

	w := doRequest(srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestRunBacktest(t *testing.T) {
	srv, _ := setupServer(t)

	body := `{"symbol":"SPY","config":{"buy_threshold_pct":0.02,"take_profit_pct":0.03,"stop_loss_pct":0.02}}`
	w := doRequest(srv, http.MethodPost, "/api/backtest", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Report struct {
			RunID   string `json:"run_id"`
			Symbol  string `json:"symbol"`
			Metrics struct {
				TradeCount int `json:"trade_count"`
			} `json:"metrics"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Report.RunID)
	assert.Equal(t, "SPY", resp.Report.Symbol)
	assert.Equal(t, 1, resp.Report.Metrics.TradeCount)
}

func TestRunBacktest_InvalidConfigRejected(t *testing.T) {
	srv, _ := setupServer(t)

	body := `{"symbol":"SPY","config":{"buy_threshold_pct":1.5,"take_profit_pct":0.03,"stop_loss_pct":0.02}}`
	w := doRequest(srv, http.MethodPost, "/api/backtest", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRunBacktest_MissingSymbolRejected(t *testing.T) {
	srv, _ := setupServer(t)

	body := `{"config":{"buy_threshold_pct":0.02,"take_profit_pct":0.03,"stop_loss_pct":0.02}}`
	w := doRequest(srv, http.MethodPost, "/api/backtest", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAndGetRuns(t *testing.T) {
	srv, _ := setupServer(t)

	// Persist a run through the backtest endpoint first
	body := `{"symbol":"SPY","config":{"buy_threshold_pct":0.02,"take_profit_pct":0.03,"stop_loss_pct":0.02}}`
	w := doRequest(srv, http.MethodPost, "/api/backtest", body)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(srv, http.MethodGet, "/api/runs", "")
	require.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Count int `json:"count"`
		Runs  []struct {
			RunID string `json:"run_id"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Equal(t, 1, listResp.Count)

	w = doRequest(srv, http.MethodGet, "/api/runs/"+listResp.Runs[0].RunID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var getResp struct {
		Run struct {
			Symbol string `json:"symbol"`
		} `json:"run"`
		Trades []struct {
			ExitReason string `json:"exit_reason"`
		} `json:"trades"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &getResp))
	assert.Equal(t, "SPY", getResp.Run.Symbol)
	require.Len(t, getResp.Trades, 1)
	assert.Equal(t, domain.ExitReasonTakeProfit, getResp.Trades[0].ExitReason)
}

func TestGetRun_NotFound(t *testing.T) {
	srv, _ := setupServer(t)

	w := doRequest(srv, http.MethodGet, "/api/runs/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
