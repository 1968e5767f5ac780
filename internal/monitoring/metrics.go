package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Evaluation metrics
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_lab_runs_total",
			Help: "Total number of evaluation runs completed",
		},
		[]string{"asset", "model", "regime"},
	)

	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forecast_lab_run_duration_seconds",
			Help:    "Distribution of evaluation run durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"regime"},
	)

	// Rolling engine metrics
	refitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_lab_refits_total",
			Help: "Total number of per-step model refits",
		},
		[]string{"model"},
	)

	// Grid sweep metrics
	sweepCandidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_lab_sweep_candidates_total",
			Help: "Total number of grid sweep candidates evaluated",
		},
		[]string{"asset", "outcome"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_lab_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(runsTotal)
	prometheus.MustRegister(runDuration)
	prometheus.MustRegister(refitsTotal)
	prometheus.MustRegister(sweepCandidatesTotal)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordRun records a completed evaluation run
func RecordRun(asset, model, regime string, seconds float64) {
	runsTotal.WithLabelValues(asset, model, regime).Inc()
	runDuration.WithLabelValues(regime).Observe(seconds)
}

// RecordRefit records a single per-step model refit
func RecordRefit(model string) {
	refitsTotal.WithLabelValues(model).Inc()
}

// RecordSweepCandidate records one grid sweep candidate outcome ("ok" or "failed")
func RecordSweepCandidate(asset, outcome string) {
	sweepCandidatesTotal.WithLabelValues(asset, outcome).Inc()
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
