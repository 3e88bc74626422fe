package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/claimsight/revcycle-analytics/internal/application/services"
	apperrors "github.com/claimsight/revcycle-analytics/pkg/errors"
)

// MetricsHandler serves the revenue-cycle metric views
type MetricsHandler struct {
	analytics *services.AnalyticsService
	reports   *services.ReportService
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(analytics *services.AnalyticsService, reports *services.ReportService) *MetricsHandler {
	return &MetricsHandler{
		analytics: analytics,
		reports:   reports,
	}
}

// GetReport handles GET /api/reports/latest
func (h *MetricsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Report(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to generate report")
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

// GetExecutiveSummary handles GET /api/reports/executive-summary
func (h *MetricsHandler) GetExecutiveSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.ExecutiveSummary(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to generate executive summary")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(summary))
}

// InvalidateReportCache handles DELETE /api/reports/cache
func (h *MetricsHandler) InvalidateReportCache(w http.ResponseWriter, r *http.Request) {
	if err := h.reports.InvalidateCache(r.Context()); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to invalidate report cache")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

// GetFunnel handles GET /api/metrics/funnel
func (h *MetricsHandler) GetFunnel(w http.ResponseWriter, r *http.Request) {
	funnel, err := h.analytics.Funnel(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to compute claims funnel")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"funnel": funnel,
		"months": len(funnel),
	})
}

// GetARAging handles GET /api/metrics/ar-aging
func (h *MetricsHandler) GetARAging(w http.ResponseWriter, r *http.Request) {
	aging, err := h.analytics.Aging(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to compute AR aging")
		return
	}
	respondWithJSON(w, http.StatusOK, aging)
}

// GetTopDenialReasons handles GET /api/metrics/denials/reasons
func (h *MetricsHandler) GetTopDenialReasons(w http.ResponseWriter, r *http.Request) {
	reasons, err := h.analytics.TopDenialReasons(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to compute denial reasons")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reasons": reasons,
		"count":   len(reasons),
	})
}

// GetDenialTrend handles GET /api/metrics/denials/trend
func (h *MetricsHandler) GetDenialTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := h.analytics.DenialTrend(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to compute denial trend")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"trend": trend,
		"count": len(trend),
	})
}

// GetPayerScorecards handles GET /api/metrics/payers
func (h *MetricsHandler) GetPayerScorecards(w http.ResponseWriter, r *http.Request) {
	scorecards, err := h.analytics.PayerScorecards(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to compute payer scorecards")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"payers": scorecards,
		"count":  len(scorecards),
	})
}

// GetProviderScorecards handles GET /api/metrics/providers
func (h *MetricsHandler) GetProviderScorecards(w http.ResponseWriter, r *http.Request) {
	scorecards, err := h.analytics.ProviderScorecards(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to compute provider scorecards")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"providers": scorecards,
		"count":     len(scorecards),
	})
}

// GetLeakage handles GET /api/metrics/leakage
func (h *MetricsHandler) GetLeakage(w http.ResponseWriter, r *http.Request) {
	leakage, err := h.analytics.Leakage(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to compute revenue leakage")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"unbilled_encounters": leakage.UnbilledEncounters,
		"payment_variances":   leakage.PaymentVariances,
		"old_ar":              leakage.OldAR,
		"total_at_risk":       leakage.TotalAtRisk(),
	})
}

// GetUnreconciledPayments handles GET /api/metrics/reconciliation
func (h *MetricsHandler) GetUnreconciledPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.analytics.UnreconciledPayments(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to compute unreconciled payments")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"payments": payments,
		"count":    len(payments),
	})
}

// GetKPIs handles GET /api/metrics/kpis
func (h *MetricsHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Report(r.Context())
	if err != nil {
		respondWithAppError(w, err, "failed to compute executive KPIs")
		return
	}
	respondWithJSON(w, http.StatusOK, report.KPI)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps application error types onto HTTP status codes,
// falling back to a generic 500 for anything unclassified.
func respondWithAppError(w http.ResponseWriter, err error, fallback string) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
			return
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusUnprocessableEntity, appErr.Message)
			return
		}
	}
	respondWithError(w, http.StatusInternalServerError, fallback)
}
