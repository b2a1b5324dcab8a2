// Package livetune serves interactive parameter tuning over WebSocket.
// Each inbound message is a strategy config; the reply is a full report
// for that config against the requested series. Every message runs a
// fresh backtest, so tweaking a parameter never leaks state from the
// previous run.
package livetune

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"meanrev-lab/internal/domain"
	"meanrev-lab/internal/observability"
	"meanrev-lab/internal/reporting"
	"meanrev-lab/internal/simulation"
)

// TuneRequest is one inbound tuning message.
type TuneRequest struct {
	Symbol string                `json:"symbol"`
	Config domain.StrategyConfig `json:"config"`
}

// TuneResponse is the reply to one tuning message. Exactly one of Report
// and Error is set.
type TuneResponse struct {
	Report *reporting.Report `json:"report,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Handler upgrades HTTP connections and answers tuning requests.
type Handler struct {
	runner    *simulation.Runner
	assembler *reporting.Assembler
	upgrader  websocket.Upgrader
	logger    *log.Logger

	// readTimeout bounds how long a session may sit idle.
	readTimeout time.Duration
}

// NewHandler creates a tuning handler backed by the given runner.
func NewHandler(runner *simulation.Runner, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}

	return &Handler{
		runner:    runner,
		assembler: reporting.NewAssembler(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:      logger,
		readTimeout: 10 * time.Minute,
	}
}

// ServeHTTP upgrades the connection and runs the session loop until the
// client disconnects or goes idle.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	observability.DefaultMetrics.WSSessionsActive.Inc()
	defer observability.DefaultMetrics.WSSessionsActive.Dec()

	ctx := r.Context()
	for {
		if err := conn.SetReadDeadline(time.Now().Add(h.readTimeout)); err != nil {
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Printf("ws read failed: %v", err)
			}
			return
		}

		resp := h.handleMessage(ctx, data)
		if err := conn.WriteJSON(resp); err != nil {
			h.logger.Printf("ws write failed: %v", err)
			return
		}
	}
}

// handleMessage runs one tuning request and never panics the session:
// malformed input and failed backtests both come back as error replies.
func (h *Handler) handleMessage(ctx context.Context, data []byte) TuneResponse {
	var req TuneRequest
	if err := json.Unmarshal(data, &req); err != nil {
		observability.DefaultMetrics.WSTuneRequests.WithLabelValues("bad_request").Inc()
		return TuneResponse{Error: "malformed request: " + err.Error()}
	}

	out, err := h.runner.RunSymbol(ctx, req.Symbol, req.Config)
	if err != nil {
		observability.DefaultMetrics.WSTuneRequests.WithLabelValues("error").Inc()
		return TuneResponse{Error: err.Error()}
	}

	report := h.assembler.Assemble(out.Result, req.Config, out.Metrics)
	observability.DefaultMetrics.WSTuneRequests.WithLabelValues("ok").Inc()
	return TuneResponse{Report: report}
}
