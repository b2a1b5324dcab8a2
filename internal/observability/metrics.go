// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Backtest metrics
	BacktestsRun       *prometheus.CounterVec
	TradesSimulated    prometheus.Counter
	SimulationDuration prometheus.Histogram

	// Reporting metrics
	ReportsGenerated prometheus.Counter

	// Ingestion metrics
	BarsIngested    prometheus.Counter
	IngestionErrors prometheus.Counter

	// Server metrics
	WSSessionsActive prometheus.Gauge
	WSTuneRequests   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "meanrev_lab"
	}

	return &Metrics{
		// Backtest metrics
		BacktestsRun: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "runs_total",
			Help:      "Total number of backtests run by status",
		}, []string{"status"}),
		TradesSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "trades_simulated_total",
			Help:      "Total number of trades simulated",
		}),
		SimulationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "simulation_duration_seconds",
			Help:      "Simulation execution duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Reporting metrics
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		// Ingestion metrics
		BarsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "bars_ingested_total",
			Help:      "Total number of price bars ingested",
		}),
		IngestionErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "errors_total",
			Help:      "Total number of ingestion errors",
		}),

		// Server metrics
		WSSessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "ws_sessions_active",
			Help:      "Number of active tuning WebSocket sessions",
		}),
		WSTuneRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "ws_tune_requests_total",
			Help:      "Total number of tuning requests by status",
		}, []string{"status"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordBacktest records a completed backtest and its simulated trades.
func RecordBacktest(status string, tradeCount int, durationSeconds float64) {
	DefaultMetrics.BacktestsRun.WithLabelValues(status).Inc()
	DefaultMetrics.TradesSimulated.Add(float64(tradeCount))
	DefaultMetrics.SimulationDuration.Observe(durationSeconds)
}

// RecordReportGenerated increments the reports generated counter.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}

// RecordBarsIngested adds to the bars ingested counter.
func RecordBarsIngested(n int) {
	DefaultMetrics.BarsIngested.Add(float64(n))
}

// RecordIngestionError increments the ingestion errors counter.
func RecordIngestionError() {
	DefaultMetrics.IngestionErrors.Inc()
}
