package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"meanrev-lab/internal/domain"
	"meanrev-lab/internal/reporting"
	"meanrev-lab/internal/simulation"
	"meanrev-lab/internal/storage"
)

// Handler serves the REST endpoints.
type Handler struct {
	runner     *simulation.Runner
	runStore   storage.BacktestRunStore
	tradeStore storage.TradeStore
	assembler  *reporting.Assembler
}

// NewHandler creates a Handler.
func NewHandler(runner *simulation.Runner, runStore storage.BacktestRunStore, tradeStore storage.TradeStore) *Handler {
	return &Handler{
		runner:     runner,
		runStore:   runStore,
		tradeStore: tradeStore,
		assembler:  reporting.NewAssembler(),
	}
}

// BacktestRequest is the POST /api/backtest body.
type BacktestRequest struct {
	Symbol string                `json:"symbol" binding:"required"`
	Config domain.StrategyConfig `json:"config"`
}

// RunBacktest runs a backtest against the stored series for a symbol and
// returns the full report.
func (h *Handler) RunBacktest(c *gin.Context) {
	var req BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.runner.RunSymbol(c.Request.Context(), req.Symbol, req.Config)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidConfig) ||
			errors.Is(err, domain.ErrInsufficientData) ||
			errors.Is(err, domain.ErrSeriesUnordered) ||
			errors.Is(err, domain.ErrNonPositiveClose) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	report := h.assembler.Assemble(out.Result, req.Config, out.Metrics)
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// ListRuns returns all stored backtest runs.
func (h *Handler) ListRuns(c *gin.Context) {
	if h.runStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run storage not configured"})
		return
	}

	runs, err := h.runStore.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

// GetRun returns one stored run and its trades.
func (h *Handler) GetRun(c *gin.Context) {
	if h.runStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run storage not configured"})
		return
	}

	runID := c.Param("id")
	run, err := h.runStore.GetByID(c.Request.Context(), runID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var trades []*domain.Trade
	if h.tradeStore != nil {
		trades, err = h.tradeStore.GetByRunID(c.Request.Context(), runID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"run": run, "trades": trades})
}
