package routes

import (
	"net/http"

	"github.com/claimsight/revcycle-analytics/internal/api/handlers"
	"github.com/claimsight/revcycle-analytics/internal/api/middleware"
	"github.com/claimsight/revcycle-analytics/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	metricsHandler *handlers.MetricsHandler
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(metricsHandler *handlers.MetricsHandler, metrics *observability.Metrics) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		metricsHandler: metricsHandler,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Report endpoints
	r.mux.HandleFunc("GET /api/reports/latest", r.metricsHandler.GetReport)
	r.mux.HandleFunc("GET /api/reports/executive-summary", r.metricsHandler.GetExecutiveSummary)
	r.mux.HandleFunc("DELETE /api/reports/cache", r.metricsHandler.InvalidateReportCache)

	// Metric view endpoints
	r.mux.HandleFunc("GET /api/metrics/funnel", r.metricsHandler.GetFunnel)
	r.mux.HandleFunc("GET /api/metrics/ar-aging", r.metricsHandler.GetARAging)
	r.mux.HandleFunc("GET /api/metrics/denials/reasons", r.metricsHandler.GetTopDenialReasons)
	r.mux.HandleFunc("GET /api/metrics/denials/trend", r.metricsHandler.GetDenialTrend)
	r.mux.HandleFunc("GET /api/metrics/payers", r.metricsHandler.GetPayerScorecards)
	r.mux.HandleFunc("GET /api/metrics/providers", r.metricsHandler.GetProviderScorecards)
	r.mux.HandleFunc("GET /api/metrics/leakage", r.metricsHandler.GetLeakage)
	r.mux.HandleFunc("GET /api/metrics/reconciliation", r.metricsHandler.GetUnreconciledPayments)
	r.mux.HandleFunc("GET /api/metrics/kpis", r.metricsHandler.GetKPIs)

	var handler http.Handler = r.mux
	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}
	handler = middleware.LoggingMiddleware(handler)

	return handler
}
