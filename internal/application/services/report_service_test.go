package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimsight/revcycle-analytics/internal/analytics"
	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
)

type stubCache struct {
	store    map[string][]byte
	getCalls int
	setCalls int
	failSet  bool
}

func newStubCache() *stubCache {
	return &stubCache{store: map[string][]byte{}}
}

func (c *stubCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.getCalls++
	data, ok := c.store[key]
	if !ok {
		return nil, nil
	}
	return data, nil
}

func (c *stubCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.setCalls++
	if c.failSet {
		return errors.New("cache unavailable")
	}
	c.store[key] = value
	return nil
}

func (c *stubCache) Delete(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

func (c *stubCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.store[key]
	return ok, nil
}

func sampleReport() *analytics.Report {
	return &analytics.Report{
		ReportID:    "report-1",
		GeneratedAt: testAsOf,
		KPI: &analytics.ExecutiveKPI{
			AsOf:                  testAsOf,
			MTDClaimVolume:        1250,
			PriorMonthClaimVolume: 1000,
			ClaimVolumeChange:     fptr(25.0),
			MTDCollections:        482500.75,
			PriorMonthCollections: 460000,
			CollectionsChange:     fptr(4.89),
			MTDDenialRate:         fptr(8.2),
			TotalAR:               1203400.50,
			DaysInAR:              fptr(42.3),
		},
		TopDenialReasons: []analytics.DenialReasonMetric{
			{
				Category:          entities.DenialCategoryAuthorization,
				ReasonCode:        "CO-197",
				ReasonDescription: "Precertification absent",
				DenialCount:       40,
				TotalDenied:       52000,
				AppealSuccessRate: fptr(50.0),
				TotalRecovered:    9000,
			},
		},
		PayerScorecards: []analytics.PayerScorecard{
			{
				PayerID:           "payer-1",
				PayerName:         "Acme Health",
				PayerType:         entities.PayerTypeCommercial,
				TotalPayments:     320000,
				DenialRate:        fptr(4.5),
				AvgDaysToPayment:  fptr(21.4),
				PerformanceRating: "Excellent",
			},
		},
		Leakage: &analytics.LeakageReport{
			UnbilledEncounters: []analytics.UnbilledEncounter{
				{EncounterID: "enc-1", RevenueAtRisk: 1500},
			},
			PaymentVariances: []analytics.PaymentVariance{
				{ClaimID: "claim-1", Variance: 250},
			},
			OldAR: []analytics.OldARClaim{
				{ClaimID: "claim-2", Outstanding: 800},
			},
		},
	}
}

func TestExecutiveSummaryRendersAllSections(t *testing.T) {
	summary := RenderExecutiveSummary(sampleReport())

	assert.Contains(t, summary, "REVENUE CYCLE EXECUTIVE SUMMARY")
	assert.Contains(t, summary, "KEY PERFORMANCE INDICATORS")
	assert.Contains(t, summary, "MTD Claims Submitted: 1,250 (+25.0% vs prior month)")
	assert.Contains(t, summary, "MTD Collections: $482,500.75")
	assert.Contains(t, summary, "MTD Denial Rate: 8.2%")
	assert.Contains(t, summary, "Total AR: $1,203,400.50")
	assert.Contains(t, summary, "Days in AR: 42.3 days")

	assert.Contains(t, summary, "TOP DENIAL REASONS")
	assert.Contains(t, summary, "1. authorization - Precertification absent")
	assert.Contains(t, summary, "Count: 40 | Amount: $52,000.00")
	assert.Contains(t, summary, "Appeal Success: 50.0%")

	assert.Contains(t, summary, "REVENUE LEAKAGE OPPORTUNITIES")
	assert.Contains(t, summary, "Unbilled Encounters: 1 encounters")
	assert.Contains(t, summary, "TOTAL AT RISK: $2,550.00")

	assert.Contains(t, summary, "TOP PERFORMING PAYERS")
	assert.Contains(t, summary, "1. Acme Health (commercial)")
	assert.Contains(t, summary, "Collections: $320,000.00 | Rating: Excellent")
}

func TestExecutiveSummaryHandlesEmptyReport(t *testing.T) {
	report := &analytics.Report{GeneratedAt: testAsOf}

	summary := RenderExecutiveSummary(report)

	assert.Contains(t, summary, "No KPI data available")
	assert.Contains(t, summary, "No denials recorded")
	assert.Contains(t, summary, "No payer met the scorecard volume floor")
	assert.Contains(t, summary, "TOTAL AT RISK: $0.00")
}

func TestExecutiveSummaryTruncatesToTopFive(t *testing.T) {
	report := sampleReport()
	for i := 0; i < 8; i++ {
		report.TopDenialReasons = append(report.TopDenialReasons, analytics.DenialReasonMetric{
			Category:          entities.DenialCategoryCodingError,
			ReasonCode:        "CO-16",
			ReasonDescription: "Missing information",
		})
	}

	summary := RenderExecutiveSummary(report)

	assert.Contains(t, summary, "\n5. ")
	assert.NotContains(t, summary, "\n6. ")
}

func TestReportServiceCachesReport(t *testing.T) {
	cache := newStubCache()
	svc := NewReportService(newTestService([]*entities.Claim{validClaim("claim-1")}, []*entities.Payer{validPayer("payer-1", "Acme Health")}), cache, nil, 900)

	first, err := svc.Report(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, cache.setCalls)

	second, err := svc.Report(context.Background())
	require.NoError(t, err)

	// Second call is served from cache, so the random report ID survives.
	assert.Equal(t, first.ReportID, second.ReportID)
	assert.Equal(t, 1, cache.setCalls)
}

func TestReportServiceWorksWithoutCache(t *testing.T) {
	svc := NewReportService(newTestService(nil, nil), nil, nil, 900)

	report, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, report.ReportID)

	summary, err := svc.ExecutiveSummary(context.Background())
	require.NoError(t, err)
	assert.Contains(t, summary, "REVENUE CYCLE EXECUTIVE SUMMARY")
}

func TestReportServiceToleratesCacheWriteFailure(t *testing.T) {
	cache := newStubCache()
	cache.failSet = true
	svc := NewReportService(newTestService(nil, nil), cache, nil, 900)

	report, err := svc.Report(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, report.ReportID)
}

func TestExecutiveSummaryServedFromCache(t *testing.T) {
	cache := newStubCache()
	key := summaryCacheKeyPrefix + testAsOf.Format("2006-01-02")
	cache.store[key] = []byte("cached summary text")

	svc := NewReportService(newTestService(nil, nil), cache, nil, 900)

	summary, err := svc.ExecutiveSummary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "cached summary text", summary)
}

func TestInvalidateCacheDropsTodaysKeys(t *testing.T) {
	cache := newStubCache()
	day := testAsOf.Format("2006-01-02")
	cache.store[reportCacheKeyPrefix+day] = []byte("{}")
	cache.store[summaryCacheKeyPrefix+day] = []byte("text")

	svc := NewReportService(newTestService(nil, nil), cache, nil, 900)

	require.NoError(t, svc.InvalidateCache(context.Background()))
	assert.Empty(t, cache.store)
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{999.9, "$999.90"},
		{1000, "$1,000.00"},
		{1234567.891, "$1,234,567.89"},
		{-2500.5, "-$2,500.50"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatMoney(tc.in), "formatMoney(%v)", tc.in)
	}
}

func TestFormatHelpersNilSafety(t *testing.T) {
	assert.Equal(t, "n/a", formatPercent(nil))
	assert.Equal(t, "n/a", formatRate(nil))
	assert.Equal(t, "n/a", formatChange(nil))
	assert.Equal(t, "-3.5%", formatChange(fptr(-3.5)))
}

func TestReportCacheRoundTripPreservesMetrics(t *testing.T) {
	cache := newStubCache()
	svc := NewReportService(newTestService([]*entities.Claim{validClaim("claim-1")}, []*entities.Payer{validPayer("payer-1", "Acme Health")}), cache, nil, 900)

	first, err := svc.Report(context.Background())
	require.NoError(t, err)
	second, err := svc.Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Funnel, second.Funnel)
	require.NotNil(t, second.KPI)
	assert.Equal(t, first.KPI.TotalAR, second.KPI.TotalAR)
}

func TestReportGeneratedAtUsesClock(t *testing.T) {
	svc := NewReportService(newTestService(nil, nil), nil, nil, 900)

	report, err := svc.Report(context.Background())

	require.NoError(t, err)
	assert.Equal(t, testAsOf, report.GeneratedAt)
	assert.True(t, report.GeneratedAt.Equal(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)))
}
