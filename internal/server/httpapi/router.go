// Package httpapi serves the docstore's operational endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/myday/internal/logging"
	"github.com/dmitrijs2005/myday/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps groups what NewRouter needs.
type RouterDeps struct {
	Store    Pinger
	Gatherer prometheus.Gatherer
	Logger   logging.Logger
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// NewRouter returns a chi router with
//
//	GET /healthz  200 {"status":"ok"} or 503 when the store is unreachable
//	GET /metrics  Prometheus exposition of Gatherer
func NewRouter(deps RouterDeps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = logging.Nop{}
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.NewRegistry()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		resp := healthResponse{Status: "ok"}
		code := http.StatusOK
		if deps.Store != nil {
			if err := deps.Store.Ping(req.Context()); err != nil {
				deps.Logger.Warn(req.Context(), "health check failed", "error", err)
				resp = healthResponse{Status: "unavailable", Error: err.Error()}
				code = http.StatusServiceUnavailable
			}
		}
		writeJSON(w, code, resp)
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
