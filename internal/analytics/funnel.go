package analytics

import (
	"sort"
	"time"

	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
)

// MonthlyFunnel computes the submission -> processed -> paid funnel for
// claims submitted inside the window, grouped by submission month. Each
// claim counts once per status category regardless of how many line items
// or denials it accumulated. Results are ordered by month descending.
func MonthlyFunnel(claims []*entities.Claim, window TimeWindow) []FunnelMetric {
	type accumulator struct {
		submitted map[string]struct{}
		processed map[string]struct{}
		paid      map[string]struct{}
		denied    map[string]struct{}
		charges   float64
		allowed   float64
		payments  float64
		adjusted  float64
	}

	months := make(map[time.Time]*accumulator)

	for _, c := range claims {
		if c.SubmissionDate == nil || !window.Contains(*c.SubmissionDate) {
			continue
		}

		month := MonthStart(*c.SubmissionDate)
		acc, ok := months[month]
		if !ok {
			acc = &accumulator{
				submitted: make(map[string]struct{}),
				processed: make(map[string]struct{}),
				paid:      make(map[string]struct{}),
				denied:    make(map[string]struct{}),
			}
			months[month] = acc
		}

		acc.submitted[c.ID] = struct{}{}
		acc.charges += c.ChargeAmount
		if c.AdjustmentAmount != nil {
			acc.adjusted += *c.AdjustmentAmount
		}

		switch c.Status {
		case entities.ClaimStatusProcessed:
			acc.processed[c.ID] = struct{}{}
		case entities.ClaimStatusPaid:
			acc.processed[c.ID] = struct{}{}
			acc.paid[c.ID] = struct{}{}
			if c.AllowedAmount != nil {
				acc.allowed += *c.AllowedAmount
			}
			if c.PaidAmount != nil {
				acc.payments += *c.PaidAmount
			}
		case entities.ClaimStatusDenied:
			acc.denied[c.ID] = struct{}{}
		}
	}

	metrics := make([]FunnelMetric, 0, len(months))
	for month, acc := range months {
		submitted := len(acc.submitted)
		metrics = append(metrics, FunnelMetric{
			Month:               month,
			SubmittedClaims:     submitted,
			ProcessedClaims:     len(acc.processed),
			PaidClaims:          len(acc.paid),
			DeniedClaims:        len(acc.denied),
			ProcessRate:         SafePercent(float64(len(acc.processed)), float64(submitted), 2),
			CleanClaimRate:      SafePercent(float64(len(acc.paid)), float64(submitted), 2),
			DenialRate:          SafePercent(float64(len(acc.denied)), float64(submitted), 2),
			TotalCharges:        Round2(acc.charges),
			TotalAllowed:        Round2(acc.allowed),
			TotalPayments:       Round2(acc.payments),
			TotalAdjustments:    Round2(acc.adjusted),
			GrossCollectionRate: SafePercent(acc.payments, acc.charges, 2),
			NetCollectionRate:   SafePercent(acc.payments, acc.allowed, 2),
		})
	}

	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].Month.After(metrics[j].Month)
	})

	return metrics
}
