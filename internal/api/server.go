// Package api exposes backtesting over HTTP: a small REST surface for
// running and inspecting backtests plus the tuning WebSocket.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"meanrev-lab/internal/livetune"
	"meanrev-lab/internal/observability"
	"meanrev-lab/internal/simulation"
	"meanrev-lab/internal/storage"
)

// Server wraps the gin engine and its http.Server.
type Server struct {
	engine *gin.Engine
	server *http.Server
	logger *log.Logger
}

// ServerOptions contains dependencies for creating a Server.
type ServerOptions struct {
	Port       int
	Runner     *simulation.Runner
	RunStore   storage.BacktestRunStore
	TradeStore storage.TradeStore
	Logger     *log.Logger
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))

	s := &Server{
		engine: engine,
		logger: logger,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", opts.Port),
			Handler: engine,
		},
	}

	handler := NewHandler(opts.Runner, opts.RunStore, opts.TradeStore)
	tune := livetune.NewHandler(opts.Runner, logger)

	api := engine.Group("/api")
	{
		api.POST("/backtest", handler.RunBacktest)
		api.GET("/runs", handler.ListRuns)
		api.GET("/runs/:id", handler.GetRun)
	}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/ws/tune", gin.WrapH(tune))
	engine.GET("/metrics", gin.WrapH(observability.Handler()))

	return s
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	s.logger.Printf("listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Engine exposes the gin engine for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// requestLogger logs each request with status and latency.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Printf("%s %s %d %v", c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
