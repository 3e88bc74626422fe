package analytics

import (
	"time"

	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
)

// TimeWindow is an explicit half-open-less date range [Start, End] used to
// scope a calculator. Trailing-N-month windows are resolved by the caller so
// the calculators stay deterministic under an injected "current date".
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window, bounds inclusive.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// TrailingMonths returns the window covering the n calendar months up to asOf.
func TrailingMonths(asOf time.Time, n int) TimeWindow {
	return TimeWindow{Start: asOf.AddDate(0, -n, 0), End: asOf}
}

// TrailingDays returns the window covering the n days up to asOf.
func TrailingDays(asOf time.Time, n int) TimeWindow {
	return TimeWindow{Start: asOf.AddDate(0, 0, -n), End: asOf}
}

// Snapshot is the immutable set of entity collections a computation run
// operates on. The engine never mutates it.
type Snapshot struct {
	Claims     []*entities.Claim
	Payments   []*entities.Payment
	Denials    []*entities.Denial
	Encounters []*entities.Encounter
	Payers     []*entities.Payer
}

// FunnelMetric is one month of the submission -> processed -> paid funnel.
// Rate fields are 0-100 scale, rounded to 2 decimals, and nil when the
// denominator for that month is zero.
type FunnelMetric struct {
	Month               time.Time `json:"month"`
	SubmittedClaims     int       `json:"submitted_claims"`
	ProcessedClaims     int       `json:"processed_claims"`
	PaidClaims          int       `json:"paid_claims"`
	DeniedClaims        int       `json:"denied_claims"`
	ProcessRate         *float64  `json:"process_rate"`
	CleanClaimRate      *float64  `json:"clean_claim_rate"`
	DenialRate          *float64  `json:"denial_rate"`
	TotalCharges        float64   `json:"total_charges"`
	TotalAllowed        float64   `json:"total_allowed"`
	TotalPayments       float64   `json:"total_payments"`
	TotalAdjustments    float64   `json:"total_adjustments"`
	GrossCollectionRate *float64  `json:"gross_collection_rate"`
	NetCollectionRate   *float64  `json:"net_collection_rate"`
}

// AgingBucketMetric is the AR distribution for a single aging bucket.
// PercentOfTotal is the bucket's share of total open AR across all buckets.
type AgingBucketMetric struct {
	Bucket             string   `json:"bucket"`
	Ordinal            int      `json:"ordinal"`
	ClaimCount         int      `json:"claim_count"`
	TotalOutstanding   float64  `json:"total_outstanding"`
	AvgOutstanding     float64  `json:"avg_outstanding"`
	AvgDaysOutstanding float64  `json:"avg_days_outstanding"`
	PercentOfTotal     *float64 `json:"percent_of_total"`
}

// AgingReport is the full AR aging view. DaysInAR uses the precise
// trailing-12-month formula: total_open_ar / (trailing_charges / 365).
type AgingReport struct {
	Buckets     []AgingBucketMetric `json:"buckets"`
	TotalOpenAR float64             `json:"total_open_ar"`
	DaysInAR    *float64            `json:"days_in_ar"`
}

// DenialReasonMetric ranks one (category, reason code) group by financial
// impact.
type DenialReasonMetric struct {
	Category          entities.DenialCategory `json:"category"`
	ReasonCode        string                  `json:"reason_code"`
	ReasonDescription string                  `json:"reason_description"`
	DenialCount       int                     `json:"denial_count"`
	AffectedPatients  int                     `json:"affected_patients"`
	AffectedProviders int                     `json:"affected_providers"`
	TotalDenied       float64                 `json:"total_denied"`
	AvgDenied         float64                 `json:"avg_denied"`
	ResolvedCount     int                     `json:"resolved_count"`
	AppealsWon        int                     `json:"appeals_won"`
	AppealSuccessRate *float64                `json:"appeal_success_rate"`
	TotalRecovered    float64                 `json:"total_recovered"`
	RecoveryRate      *float64                `json:"recovery_rate"`
}

// DenialTrendMetric is one (month, category) cell of the denial trend.
type DenialTrendMetric struct {
	Month       time.Time               `json:"month"`
	Category    entities.DenialCategory `json:"category"`
	DenialCount int                     `json:"denial_count"`
	TotalDenied float64                 `json:"total_denied"`
	AvgDenied   float64                 `json:"avg_denied"`
}

// PayerScorecard aggregates a payer's volume, financial and timing
// performance over the scorecard window.
type PayerScorecard struct {
	PayerID           string             `json:"payer_id"`
	PayerName         string             `json:"payer_name"`
	PayerType         entities.PayerType `json:"payer_type"`
	TotalClaims       int                `json:"total_claims"`
	TotalPatients     int                `json:"total_patients"`
	TotalCharges      float64            `json:"total_charges"`
	TotalAllowed      float64            `json:"total_allowed"`
	TotalPayments     float64            `json:"total_payments"`
	DeniedClaims      int                `json:"denied_claims"`
	DeniedAmount      float64            `json:"denied_amount"`
	CleanClaims       int                `json:"clean_claims"`
	AvgDaysToPayment  *float64           `json:"avg_days_to_payment"`
	ReimbursementRate *float64           `json:"reimbursement_rate"`
	DenialRate        *float64           `json:"denial_rate"`
	CleanClaimRate    *float64           `json:"clean_claim_rate"`
	PerformanceRating string             `json:"performance_rating"`
}

// ProviderScorecard mirrors the payer scorecard per rendering provider,
// without a performance tier.
type ProviderScorecard struct {
	ProviderID        string   `json:"provider_id"`
	TotalClaims       int      `json:"total_claims"`
	TotalPatients     int      `json:"total_patients"`
	TotalCharges      float64  `json:"total_charges"`
	TotalAllowed      float64  `json:"total_allowed"`
	TotalPayments     float64  `json:"total_payments"`
	DeniedClaims      int      `json:"denied_claims"`
	DeniedAmount      float64  `json:"denied_amount"`
	CleanClaims       int      `json:"clean_claims"`
	AvgDaysToPayment  *float64 `json:"avg_days_to_payment"`
	AvgDaysToSubmit   *float64 `json:"avg_days_to_submit"`
	ReimbursementRate *float64 `json:"reimbursement_rate"`
	DenialRate        *float64 `json:"denial_rate"`
	CleanClaimRate    *float64 `json:"clean_claim_rate"`
}

// UnbilledEncounter flags an encounter stuck in the charge-capture pipeline.
type UnbilledEncounter struct {
	EncounterID   string    `json:"encounter_id"`
	PatientID     string    `json:"patient_id"`
	ProviderID    string    `json:"provider_id"`
	EncounterDate time.Time `json:"encounter_date"`
	DaysUnbilled  int       `json:"days_unbilled"`
	Bottleneck    string    `json:"bottleneck"`
	RevenueAtRisk float64   `json:"revenue_at_risk"`
}

// PaymentVariance flags a paid claim whose payment differs materially from
// the expected insurance payment (allowed - patient responsibility).
type PaymentVariance struct {
	ClaimID               string     `json:"claim_id"`
	PatientID             string     `json:"patient_id"`
	PayerID               string     `json:"payer_id"`
	SubmissionDate        *time.Time `json:"submission_date,omitempty"`
	AllowedAmount         float64    `json:"allowed_amount"`
	PatientResponsibility float64    `json:"patient_responsibility"`
	PaidAmount            float64    `json:"paid_amount"`
	ExpectedPayment       float64    `json:"expected_payment"`
	Variance              float64    `json:"variance"`
	VariancePct           *float64   `json:"variance_pct"`
}

// OldARClaim is an open claim more than 90 days past submission with a
// positive balance still on the books.
type OldARClaim struct {
	ClaimID         string               `json:"claim_id"`
	PatientID       string               `json:"patient_id"`
	PayerID         string               `json:"payer_id"`
	SubmissionDate  time.Time            `json:"submission_date"`
	Outstanding     float64              `json:"outstanding"`
	DaysOutstanding int                  `json:"days_outstanding"`
	Status          entities.ClaimStatus `json:"status"`
}

// LeakageReport groups the three revenue-leakage views.
type LeakageReport struct {
	UnbilledEncounters []UnbilledEncounter `json:"unbilled_encounters"`
	PaymentVariances   []PaymentVariance   `json:"payment_variances"`
	OldAR              []OldARClaim        `json:"old_ar"`
}

// TotalAtRisk sums the three leakage views into a single exposure figure.
func (r *LeakageReport) TotalAtRisk() float64 {
	total := 0.0
	for _, e := range r.UnbilledEncounters {
		total += e.RevenueAtRisk
	}
	for _, v := range r.PaymentVariances {
		total += v.Variance
	}
	for _, c := range r.OldAR {
		total += c.Outstanding
	}
	return total
}

// UnreconciledPayment is a pending payment whose amount differs from the
// expected insurance payment on its claim.
type UnreconciledPayment struct {
	PaymentID        string    `json:"payment_id"`
	ClaimID          string    `json:"claim_id"`
	PaymentDate      time.Time `json:"payment_date"`
	Amount           float64   `json:"amount"`
	ExpectedPayment  float64   `json:"expected_payment"`
	Variance         float64   `json:"variance"`
	DaysUnreconciled int       `json:"days_unreconciled"`
}

// ExecutiveKPI compares the running month against the prior calendar month.
// DaysInAR here is the annualized MTD run-rate approximation
// (total_ar / ((mtd_collections * 12) / 365)), intentionally distinct from
// the trailing-12-month formula on AgingReport.
type ExecutiveKPI struct {
	AsOf                  time.Time `json:"as_of"`
	MTDClaimVolume        int       `json:"mtd_claim_volume"`
	PriorMonthClaimVolume int       `json:"prior_month_claim_volume"`
	ClaimVolumeChange     *float64  `json:"claim_volume_change"`
	MTDCollections        float64   `json:"mtd_collections"`
	PriorMonthCollections float64   `json:"prior_month_collections"`
	CollectionsChange     *float64  `json:"collections_change"`
	MTDDenialRate         *float64  `json:"mtd_denial_rate"`
	TotalAR               float64   `json:"total_ar"`
	DaysInAR              *float64  `json:"days_in_ar"`
}

// Report bundles one full snapshot-to-metrics computation.
type Report struct {
	ReportID            string                `json:"report_id"`
	GeneratedAt         time.Time             `json:"generated_at"`
	Funnel              []FunnelMetric        `json:"funnel"`
	Aging               *AgingReport          `json:"aging"`
	TopDenialReasons    []DenialReasonMetric  `json:"top_denial_reasons"`
	DenialTrend         []DenialTrendMetric   `json:"denial_trend"`
	PayerScorecards     []PayerScorecard      `json:"payer_scorecards"`
	ProviderScorecards  []ProviderScorecard   `json:"provider_scorecards"`
	Leakage             *LeakageReport        `json:"leakage"`
	UnreconciledPayments []UnreconciledPayment `json:"unreconciled_payments"`
	KPI                 *ExecutiveKPI         `json:"kpi"`
}
