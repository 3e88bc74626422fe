package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claimsight/revcycle-analytics/internal/analytics"
	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
	"github.com/claimsight/revcycle-analytics/internal/domain/repositories"
	"github.com/claimsight/revcycle-analytics/internal/infrastructure/observability"
)

// Window spans for each calculator, in months or days.
const (
	funnelWindowMonths       = 12
	arChargeWindowMonths     = 12
	denialReasonWindowMonths = 6
	denialTrendWindowMonths  = 12
	payerWindowMonths        = 12
	providerWindowMonths     = 6
	varianceWindowDays       = 90
)

// AnalyticsService materializes entity snapshots and runs the metrics
// engine over them. The calculators themselves are pure; this service owns
// snapshot retrieval, input validation, data-quality logging and the
// parallel fan-out.
type AnalyticsService struct {
	claims     repositories.ClaimRepository
	payments   repositories.PaymentRepository
	denials    repositories.DenialRepository
	encounters repositories.EncounterRepository
	payers     repositories.PayerRepository
	now        func() time.Time
}

// NewAnalyticsService creates a new analytics service. A nil clock defaults
// to time.Now; tests inject a fixed clock to pin "today".
func NewAnalyticsService(
	claims repositories.ClaimRepository,
	payments repositories.PaymentRepository,
	denials repositories.DenialRepository,
	encounters repositories.EncounterRepository,
	payers repositories.PayerRepository,
	clock func() time.Time,
) *AnalyticsService {
	if clock == nil {
		clock = time.Now
	}
	return &AnalyticsService{
		claims:     claims,
		payments:   payments,
		denials:    denials,
		encounters: encounters,
		payers:     payers,
		now:        clock,
	}
}

// LoadSnapshot retrieves all five collections, validates them, and logs
// referential-integrity gaps as data-quality signals. Validation failures
// abort; dangling references do not.
func (s *AnalyticsService) LoadSnapshot(ctx context.Context) (*analytics.Snapshot, error) {
	ctx, span := observability.StartSpan(ctx, "analytics.load_snapshot")
	defer span.End()

	snapshot := &analytics.Snapshot{}

	var err error
	if snapshot.Claims, err = s.claims.List(ctx); err != nil {
		return nil, err
	}
	if snapshot.Payments, err = s.payments.List(ctx); err != nil {
		return nil, err
	}
	if snapshot.Denials, err = s.denials.List(ctx); err != nil {
		return nil, err
	}
	if snapshot.Encounters, err = s.encounters.List(ctx); err != nil {
		return nil, err
	}
	if snapshot.Payers, err = s.payers.List(ctx); err != nil {
		return nil, err
	}

	if err := validateSnapshot(snapshot); err != nil {
		return nil, err
	}
	s.logDataQuality(ctx, snapshot)

	return snapshot, nil
}

func validateSnapshot(snapshot *analytics.Snapshot) error {
	for _, c := range snapshot.Claims {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	for _, p := range snapshot.Payments {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, d := range snapshot.Denials {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	for _, e := range snapshot.Encounters {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	for _, p := range snapshot.Payers {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// logDataQuality surfaces inconsistent references as warnings. The
// calculators exclude these rows on their own; nothing here fails the run.
func (s *AnalyticsService) logDataQuality(ctx context.Context, snapshot *analytics.Snapshot) {
	claimIDs := make(map[string]struct{}, len(snapshot.Claims))
	paidWithPayment := make(map[string]struct{})
	payerIDs := make(map[string]struct{}, len(snapshot.Payers))

	for _, c := range snapshot.Claims {
		claimIDs[c.ID] = struct{}{}
	}
	for _, p := range snapshot.Payers {
		payerIDs[p.ID] = struct{}{}
	}
	for _, p := range snapshot.Payments {
		paidWithPayment[p.ClaimID] = struct{}{}
	}

	orphanDenials := 0
	for _, d := range snapshot.Denials {
		if _, ok := claimIDs[d.ClaimID]; !ok {
			orphanDenials++
		}
	}

	orphanPayments := 0
	for _, p := range snapshot.Payments {
		if _, ok := claimIDs[p.ClaimID]; !ok {
			orphanPayments++
		}
	}

	paidWithoutPayment := 0
	unknownPayer := 0
	for _, c := range snapshot.Claims {
		if c.Status == entities.ClaimStatusPaid {
			if _, ok := paidWithPayment[c.ID]; !ok {
				paidWithoutPayment++
			}
		}
		if _, ok := payerIDs[c.PayerID]; !ok {
			unknownPayer++
		}
	}

	if orphanDenials+orphanPayments+paidWithoutPayment+unknownPayer > 0 {
		observability.LoggerFromContext(ctx).Warn().
			Int("denials_without_claim", orphanDenials).
			Int("payments_without_claim", orphanPayments).
			Int("paid_claims_without_payment", paidWithoutPayment).
			Int("claims_with_unknown_payer", unknownPayer).
			Msg("snapshot has unresolvable references; affected rows excluded from joins")
	}
}

// GenerateReport runs every calculator over one snapshot and composes the
// results. The calculators are independent and read-only, so they fan out
// in parallel; the KPI aggregator runs last because it consumes the funnel
// and aging outputs rather than re-deriving them.
func (s *AnalyticsService) GenerateReport(ctx context.Context) (*analytics.Report, error) {
	ctx, span := observability.StartSpan(ctx, "analytics.generate_report")
	defer span.End()

	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	asOf := s.now()
	report := &analytics.Report{
		ReportID:    uuid.New().String(),
		GeneratedAt: asOf,
		Leakage:     &analytics.LeakageReport{},
	}

	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() {
		report.Funnel = analytics.MonthlyFunnel(snapshot.Claims, analytics.TrailingMonths(asOf, funnelWindowMonths))
	})
	run(func() {
		report.Aging = analytics.ARAging(snapshot.Claims, analytics.TrailingMonths(asOf, arChargeWindowMonths), asOf)
	})
	run(func() {
		report.TopDenialReasons = analytics.TopDenialReasons(snapshot.Denials, snapshot.Claims, analytics.TrailingMonths(asOf, denialReasonWindowMonths))
	})
	run(func() {
		report.DenialTrend = analytics.DenialTrend(snapshot.Denials, analytics.TrailingMonths(asOf, denialTrendWindowMonths))
	})
	run(func() {
		report.PayerScorecards = analytics.PayerScorecards(snapshot.Claims, snapshot.Denials, snapshot.Payers, analytics.TrailingMonths(asOf, payerWindowMonths))
	})
	run(func() {
		report.ProviderScorecards = analytics.ProviderScorecards(snapshot.Claims, snapshot.Denials, snapshot.Encounters, analytics.TrailingMonths(asOf, providerWindowMonths))
	})
	run(func() {
		report.Leakage.UnbilledEncounters = analytics.UnbilledEncounters(snapshot.Encounters, asOf)
	})
	run(func() {
		report.Leakage.PaymentVariances = analytics.PaymentVariances(snapshot.Claims, analytics.TrailingDays(asOf, varianceWindowDays))
	})
	run(func() {
		report.Leakage.OldAR = analytics.OldAR(snapshot.Claims, asOf)
	})
	run(func() {
		report.UnreconciledPayments = analytics.UnreconciledPayments(snapshot.Payments, snapshot.Claims, asOf)
	})
	wg.Wait()

	report.KPI = analytics.ExecutiveKPIs(report.Funnel, report.Aging, asOf)

	observability.LoggerFromContext(ctx).Info().
		Str("report_id", report.ReportID).
		Int("claims", len(snapshot.Claims)).
		Int("funnel_months", len(report.Funnel)).
		Int("payer_scorecards", len(report.PayerScorecards)).
		Msg("metrics report generated")

	return report, nil
}

// Funnel computes only the monthly funnel view.
func (s *AnalyticsService) Funnel(ctx context.Context) ([]analytics.FunnelMetric, error) {
	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.MonthlyFunnel(snapshot.Claims, analytics.TrailingMonths(s.now(), funnelWindowMonths)), nil
}

// Aging computes only the AR aging view.
func (s *AnalyticsService) Aging(ctx context.Context) (*analytics.AgingReport, error) {
	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	asOf := s.now()
	return analytics.ARAging(snapshot.Claims, analytics.TrailingMonths(asOf, arChargeWindowMonths), asOf), nil
}

// TopDenialReasons computes only the ranked denial reason view.
func (s *AnalyticsService) TopDenialReasons(ctx context.Context) ([]analytics.DenialReasonMetric, error) {
	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.TopDenialReasons(snapshot.Denials, snapshot.Claims, analytics.TrailingMonths(s.now(), denialReasonWindowMonths)), nil
}

// DenialTrend computes only the denial trend view.
func (s *AnalyticsService) DenialTrend(ctx context.Context) ([]analytics.DenialTrendMetric, error) {
	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.DenialTrend(snapshot.Denials, analytics.TrailingMonths(s.now(), denialTrendWindowMonths)), nil
}

// PayerScorecards computes only the payer scorecard view.
func (s *AnalyticsService) PayerScorecards(ctx context.Context) ([]analytics.PayerScorecard, error) {
	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.PayerScorecards(snapshot.Claims, snapshot.Denials, snapshot.Payers, analytics.TrailingMonths(s.now(), payerWindowMonths)), nil
}

// ProviderScorecards computes only the provider scorecard view.
func (s *AnalyticsService) ProviderScorecards(ctx context.Context) ([]analytics.ProviderScorecard, error) {
	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.ProviderScorecards(snapshot.Claims, snapshot.Denials, snapshot.Encounters, analytics.TrailingMonths(s.now(), providerWindowMonths)), nil
}

// Leakage computes only the revenue-leakage views.
func (s *AnalyticsService) Leakage(ctx context.Context) (*analytics.LeakageReport, error) {
	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	asOf := s.now()
	return &analytics.LeakageReport{
		UnbilledEncounters: analytics.UnbilledEncounters(snapshot.Encounters, asOf),
		PaymentVariances:   analytics.PaymentVariances(snapshot.Claims, analytics.TrailingDays(asOf, varianceWindowDays)),
		OldAR:              analytics.OldAR(snapshot.Claims, asOf),
	}, nil
}

// UnreconciledPayments computes only the reconciliation variance view.
func (s *AnalyticsService) UnreconciledPayments(ctx context.Context) ([]analytics.UnreconciledPayment, error) {
	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.UnreconciledPayments(snapshot.Payments, snapshot.Claims, s.now()), nil
}
