package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kevin07696/authnet-service/pkg/timeutil"
)

const checkTimeout = 2 * time.Second

// HealthStatus is the body of /health.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckFunc reports a dependency failure.
type CheckFunc func(ctx context.Context) error

// HealthChecker runs named dependency checks and tracks readiness.
type HealthChecker struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc
	ready  atomic.Bool
}

// NewHealthChecker creates a checker that is ready and, when db is non-nil,
// pings it under the "database" check.
func NewHealthChecker(db Pinger) *HealthChecker {
	h := &HealthChecker{checks: make(map[string]CheckFunc)}
	h.ready.Store(true)
	if db != nil {
		h.AddCheck("database", db.Ping)
	}
	return h
}

// AddCheck registers or replaces a named check.
func (h *HealthChecker) AddCheck(name string, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = fn
}

// SetReady controls /ready. It is cleared at the start of shutdown so load
// balancers drain the instance before the listener closes.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// Check runs every check with a short timeout each.
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	h.mu.RUnlock()
	sort.Strings(names)

	status := HealthStatus{Status: "healthy", Timestamp: timeutil.Now(), Checks: make(map[string]string, len(names))}
	for _, name := range names {
		h.mu.RLock()
		fn := h.checks[name]
		h.mu.RUnlock()

		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := fn(checkCtx)
		cancel()

		if err != nil {
			status.Checks[name] = "unhealthy: " + err.Error()
			status.Status = "unhealthy"
			continue
		}
		status.Checks[name] = "healthy"
	}
	return status
}

// HealthHandler serves the Check result, 503 when any check fails.
func (h *HealthChecker) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := h.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if status.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(status)
	}
}

// ReadyHandler answers 200 "ready" until SetReady(false).
func (h *HealthChecker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.ready.Load() {
			http.Error(w, "draining", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ready"))
	}
}
