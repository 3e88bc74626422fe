package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/claimsight/revcycle-analytics/internal/analytics"
	"github.com/claimsight/revcycle-analytics/internal/domain/providers"
	"github.com/claimsight/revcycle-analytics/internal/infrastructure/observability"
)

const (
	reportCacheKeyPrefix  = "report:"
	summaryCacheKeyPrefix = "executive_summary:"
	summaryDenialLimit    = 5
	summaryPayerLimit     = 5
)

// ReportService wraps the analytics service with report caching and the
// plain-text executive summary rendering. Cache failures degrade to a
// recompute, never to an error.
type ReportService struct {
	analytics *AnalyticsService
	cache     providers.CacheProvider
	metrics   *observability.Metrics
	ttl       int
}

// NewReportService creates a new report service. Cache and metrics may be
// nil; both are optional.
func NewReportService(analyticsService *AnalyticsService, cache providers.CacheProvider, metrics *observability.Metrics, ttlSeconds int) *ReportService {
	return &ReportService{
		analytics: analyticsService,
		cache:     cache,
		metrics:   metrics,
		ttl:       ttlSeconds,
	}
}

// Report returns the full metrics report, serving from cache when a report
// generated today is still live.
func (s *ReportService) Report(ctx context.Context) (*analytics.Report, error) {
	key := reportCacheKeyPrefix + s.analytics.now().Format("2006-01-02")

	if data, ok := s.cacheGet(ctx, key); ok {
		var report analytics.Report
		if err := json.Unmarshal(data, &report); err == nil {
			return &report, nil
		}
		observability.LoggerFromContext(ctx).Warn().
			Str("key", key).
			Msg("cached report is not valid JSON; recomputing")
	}

	start := time.Now()
	report, err := s.analytics.GenerateReport(ctx)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ReportDuration.Record(ctx, float64(time.Since(start).Milliseconds()))
	}

	s.cacheSet(ctx, key, report)
	return report, nil
}

// ExecutiveSummary renders the report as a plain-text briefing, cached per
// calendar day.
func (s *ReportService) ExecutiveSummary(ctx context.Context) (string, error) {
	key := summaryCacheKeyPrefix + s.analytics.now().Format("2006-01-02")

	if data, ok := s.cacheGet(ctx, key); ok {
		return string(data), nil
	}

	report, err := s.Report(ctx)
	if err != nil {
		return "", err
	}

	summary := RenderExecutiveSummary(report)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, []byte(summary), s.ttl); err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("key", key).
				Msg("failed to cache executive summary")
		}
	}
	return summary, nil
}

// InvalidateCache drops today's cached report and summary.
func (s *ReportService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	day := s.analytics.now().Format("2006-01-02")
	if err := s.cache.Delete(ctx, reportCacheKeyPrefix+day); err != nil {
		return err
	}
	return s.cache.Delete(ctx, summaryCacheKeyPrefix+day)
}

func (s *ReportService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		if s.metrics != nil {
			observability.RecordCacheMiss(ctx, s.metrics, key)
		}
		return nil, false
	}
	if s.metrics != nil {
		observability.RecordCacheHit(ctx, s.metrics, key)
	}
	return data, true
}

func (s *ReportService) cacheSet(ctx context.Context, key string, report *analytics.Report) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Msg("failed to serialize report for caching")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("key", key).
			Msg("failed to cache report")
	}
}

const summaryRule = "======================================================================"

// RenderExecutiveSummary formats a report as the plain-text executive
// briefing handed to leadership.
func RenderExecutiveSummary(report *analytics.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "REVENUE CYCLE EXECUTIVE SUMMARY\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))

	b.WriteString(summaryRule + "\n")
	b.WriteString("KEY PERFORMANCE INDICATORS\n")
	b.WriteString(summaryRule + "\n\n")

	kpi := report.KPI
	if kpi != nil {
		b.WriteString("Volume Metrics:\n")
		fmt.Fprintf(&b, "  - MTD Claims Submitted: %s (%s vs prior month)\n",
			formatCount(kpi.MTDClaimVolume), formatChange(kpi.ClaimVolumeChange))
		fmt.Fprintf(&b, "  - Prior Month Claims: %s\n\n", formatCount(kpi.PriorMonthClaimVolume))

		b.WriteString("Financial Performance:\n")
		fmt.Fprintf(&b, "  - MTD Collections: %s (%s vs prior month)\n",
			formatMoney(kpi.MTDCollections), formatChange(kpi.CollectionsChange))
		fmt.Fprintf(&b, "  - Prior Month Collections: %s\n\n", formatMoney(kpi.PriorMonthCollections))

		b.WriteString("Quality Metrics:\n")
		fmt.Fprintf(&b, "  - MTD Denial Rate: %s\n\n", formatPercent(kpi.MTDDenialRate))

		b.WriteString("Accounts Receivable:\n")
		fmt.Fprintf(&b, "  - Total AR: %s\n", formatMoney(kpi.TotalAR))
		fmt.Fprintf(&b, "  - Days in AR: %s days\n", formatRate(kpi.DaysInAR))
	} else {
		b.WriteString("No KPI data available for the current period.\n")
	}

	b.WriteString("\n" + summaryRule + "\n")
	b.WriteString("TOP DENIAL REASONS\n")
	b.WriteString(summaryRule + "\n")

	reasons := report.TopDenialReasons
	if len(reasons) > summaryDenialLimit {
		reasons = reasons[:summaryDenialLimit]
	}
	if len(reasons) == 0 {
		b.WriteString("\nNo denials recorded in the analysis window.\n")
	}
	for i, r := range reasons {
		fmt.Fprintf(&b, "\n%d. %s - %s\n", i+1, r.Category, r.ReasonDescription)
		fmt.Fprintf(&b, "   Count: %d | Amount: %s\n", r.DenialCount, formatMoney(r.TotalDenied))
		fmt.Fprintf(&b, "   Appeal Success: %s | Recovered: %s\n",
			formatPercent(r.AppealSuccessRate), formatMoney(r.TotalRecovered))
	}

	b.WriteString("\n" + summaryRule + "\n")
	b.WriteString("REVENUE LEAKAGE OPPORTUNITIES\n")
	b.WriteString(summaryRule + "\n\n")

	leakage := report.Leakage
	if leakage == nil {
		leakage = &analytics.LeakageReport{}
	}
	unbilledTotal := 0.0
	for _, e := range leakage.UnbilledEncounters {
		unbilledTotal += e.RevenueAtRisk
	}
	varianceTotal := 0.0
	for _, v := range leakage.PaymentVariances {
		varianceTotal += v.Variance
	}
	oldARTotal := 0.0
	for _, c := range leakage.OldAR {
		oldARTotal += c.Outstanding
	}

	fmt.Fprintf(&b, "Unbilled Encounters: %d encounters\n", len(leakage.UnbilledEncounters))
	fmt.Fprintf(&b, "  - Potential Revenue: %s\n\n", formatMoney(unbilledTotal))
	fmt.Fprintf(&b, "Payment Variances: %d claims\n", len(leakage.PaymentVariances))
	fmt.Fprintf(&b, "  - Variance Amount: %s\n\n", formatMoney(varianceTotal))
	fmt.Fprintf(&b, "Old AR (>90 days): %d claims\n", len(leakage.OldAR))
	fmt.Fprintf(&b, "  - Outstanding Amount: %s\n\n", formatMoney(oldARTotal))
	fmt.Fprintf(&b, "TOTAL AT RISK: %s\n", formatMoney(leakage.TotalAtRisk()))

	b.WriteString("\n" + summaryRule + "\n")
	b.WriteString("TOP PERFORMING PAYERS\n")
	b.WriteString(summaryRule + "\n")

	payers := report.PayerScorecards
	if len(payers) > summaryPayerLimit {
		payers = payers[:summaryPayerLimit]
	}
	if len(payers) == 0 {
		b.WriteString("\nNo payer met the scorecard volume floor.\n")
	}
	for i, p := range payers {
		fmt.Fprintf(&b, "\n%d. %s (%s)\n", i+1, p.PayerName, p.PayerType)
		fmt.Fprintf(&b, "   Collections: %s | Rating: %s\n", formatMoney(p.TotalPayments), p.PerformanceRating)
		fmt.Fprintf(&b, "   Denial Rate: %s | Days to Payment: %s\n",
			formatPercent(p.DenialRate), formatRate(p.AvgDaysToPayment))
	}

	b.WriteString("\n" + summaryRule + "\n")
	return b.String()
}

// formatMoney renders a dollar amount with thousands separators.
func formatMoney(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	s := fmt.Sprintf("%.2f", amount)
	whole, frac, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return sign + "$" + grouped.String() + "." + frac
}

func formatCount(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var grouped strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}
	return grouped.String()
}

func formatPercent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func formatRate(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *v)
}

func formatChange(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", *v)
}
