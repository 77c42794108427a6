package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flowmint/internal/platform/metrics"
	"flowmint/internal/platform/middleware"
	"flowmint/pkg/platform/httputil"
)

// HealthChecker reports whether a backing dependency can serve requests.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Route mounts a module's endpoints on the router.
type Route interface {
	Register(r chi.Router)
}

// Deps carries everything the router needs.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Health         HealthChecker
	RequestTimeout time.Duration
	Routes         []Route
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// NewRouter wires middleware, the operational endpoints and every module route.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.LatencyMiddleware(deps.Metrics))
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}

	r.Get("/health", healthHandler(deps.Health, deps.Logger))

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	for _, route := range deps.Routes {
		route.Register(r)
	}
	return r
}

func healthHandler(checker HealthChecker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.Health(r.Context()); err != nil {
				logger.WarnContext(r.Context(), "health check failed",
					"error", err,
					"request_id", middleware.GetRequestID(r.Context()),
				)
				httputil.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: "store unreachable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
