package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// HealthChecker defines interface for health checking
type HealthChecker interface {
	Check(ctx context.Context) error
}

// DatabaseHealthChecker checks database health
type DatabaseHealthChecker struct {
	DB *sql.DB
}

func (d *DatabaseHealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.DB.PingContext(ctx)
}

// CheckFunc adapts a plain function, e.g. the AI credential check, to HealthChecker
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

// HealthCheck is one named dependency. A failing Optional check reports
// "degraded" with 200 instead of 503.
type HealthCheck struct {
	Checker  HealthChecker
	Optional bool
}

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthStatus represents the health status
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
}

// CheckStatus represents individual check status
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthHandler runs all checks concurrently. Only a failing required check
// turns the response into 503.
func HealthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := HealthStatus{
			Status:    statusHealthy,
			Timestamp: time.Now(),
			Checks:    make(map[string]CheckStatus, len(checks)),
		}

		var (
			mu sync.Mutex
			wg sync.WaitGroup
		)
		for name, hc := range checks {
			wg.Add(1)
			go func(name string, hc HealthCheck) {
				defer wg.Done()
				err := hc.Checker.Check(ctx)

				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					health.Checks[name] = CheckStatus{Status: statusHealthy}
					return
				}
				health.Checks[name] = CheckStatus{Status: statusUnhealthy, Message: err.Error()}
				switch {
				case !hc.Optional:
					health.Status = statusUnhealthy
				case health.Status == statusHealthy:
					health.Status = statusDegraded
				}
			}(name, hc)
		}
		wg.Wait()

		statusCode := http.StatusOK
		if health.Status == statusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(health)
	}
}

// ReadinessHandler creates a readiness check handler (simpler than health)
func ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now(),
	})
}

// LivenessHandler creates a liveness check handler (simplest check)
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
