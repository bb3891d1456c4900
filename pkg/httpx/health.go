package httpx

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker is satisfied by any infrastructure dependency that exposes
// a Ping method (database.Database, cache.RedisClient, events.EventBus and
// workflows.TemporalClient all qualify).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks lists the dependencies the health endpoint probes. A nil
// checker is reported as "disabled" and does not degrade the status; the
// memory backend runs without Database and EventBus.
type HealthChecks struct {
	Storage  string
	Database HealthChecker
	Redis    HealthChecker
	EventBus HealthChecker
	Temporal HealthChecker
}

type healthResponse struct {
	Status   string `json:"status"`
	Storage  string `json:"storage,omitempty"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
	EventBus string `json:"event_bus"`
	Temporal string `json:"temporal"`
}

// HealthHandler probes every configured dependency concurrently and answers
// 503 when any of them fails.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		deps := []HealthChecker{checks.Database, checks.Redis, checks.EventBus, checks.Temporal}
		results := make([]string, len(deps))
		done := make(chan struct{}, len(deps))
		for i, c := range deps {
			go func() {
				results[i] = probe(ctx, c)
				done <- struct{}{}
			}()
		}
		for range deps {
			<-done
		}

		resp := healthResponse{
			Status:   "ok",
			Storage:  checks.Storage,
			Database: results[0],
			Redis:    results[1],
			EventBus: results[2],
			Temporal: results[3],
		}
		status := http.StatusOK
		for _, res := range results {
			if res == "unreachable" {
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
			}
		}
		JSON(w, status, resp)
	}
}

func probe(ctx context.Context, c HealthChecker) string {
	if c == nil {
		return "disabled"
	}
	if err := c.Ping(ctx); err != nil {
		return "unreachable"
	}
	return "ok"
}
