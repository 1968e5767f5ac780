package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker tracks the progress of an evaluation batch for the /health
// endpoint.
type HealthChecker struct {
	mu        sync.RWMutex
	lastRun   time.Time
	runsDone  int
	runsTotal int
	errors    []string
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	LastRun   time.Time `json:"last_run"`
	RunsDone  int       `json:"runs_done"`
	RunsTotal int       `json:"runs_total"`
	Uptime    string    `json:"uptime"`
	Errors    []string  `json:"errors,omitempty"`
}

func NewHealthChecker(runsTotal int) *HealthChecker {
	return &HealthChecker{
		runsTotal: runsTotal,
		errors:    make([]string, 0),
	}
}

// RunCompleted marks one evaluation run as finished.
func (h *HealthChecker) RunCompleted() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runsDone++
	h.lastRun = time.Now()
}

// RunFailed records a run failure.
func (h *HealthChecker) RunFailed(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if len(h.errors) > 0 {
		status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	health := HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		LastRun:   h.lastRun,
		RunsDone:  h.runsDone,
		RunsTotal: h.runsTotal,
		Uptime:    time.Since(startTime).String(),
		Errors:    h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// Serve exposes the metrics and health endpoints on addr in the background.
func Serve(addr string, checker *HealthChecker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", NewMetricsHandler())
	if checker != nil {
		mux.Handle("/health", checker)
	}

	srv := &http.Server{Addr: addr, Handler: mux}
	go srv.ListenAndServe()
	return srv
}
