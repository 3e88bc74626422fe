package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
)

// UnreconciledPayments compares each pending payment against the expected
// insurance payment on its claim (allowed - patient responsibility) and
// reports those off by more than the rounding epsilon. Payments whose claim
// is missing from the snapshot, or whose claim has no allowed amount to
// form an expectation, are excluded. Ordered by payment date ascending so
// the oldest variances are worked first.
func UnreconciledPayments(payments []*entities.Payment, claims []*entities.Claim, asOf time.Time) []UnreconciledPayment {
	claimsByID := make(map[string]*entities.Claim, len(claims))
	for _, c := range claims {
		claimsByID[c.ID] = c
	}

	unreconciled := make([]UnreconciledPayment, 0)
	for _, p := range payments {
		if p.ReconciliationStatus != entities.ReconciliationStatusPending {
			continue
		}
		claim, ok := claimsByID[p.ClaimID]
		if !ok || claim.AllowedAmount == nil {
			continue
		}

		patientResp := 0.0
		if claim.PatientResponsibility != nil {
			patientResp = *claim.PatientResponsibility
		}
		expected := *claim.AllowedAmount - patientResp
		variance := p.Amount - expected
		if math.Abs(variance) <= varianceEpsilon {
			continue
		}

		unreconciled = append(unreconciled, UnreconciledPayment{
			PaymentID:        p.ID,
			ClaimID:          p.ClaimID,
			PaymentDate:      p.PaymentDate,
			Amount:           p.Amount,
			ExpectedPayment:  Round2(expected),
			Variance:         Round2(variance),
			DaysUnreconciled: DaysBetween(p.PaymentDate, asOf),
		})
	}

	sort.Slice(unreconciled, func(i, j int) bool {
		if !unreconciled[i].PaymentDate.Equal(unreconciled[j].PaymentDate) {
			return unreconciled[i].PaymentDate.Before(unreconciled[j].PaymentDate)
		}
		return unreconciled[i].PaymentID < unreconciled[j].PaymentID
	})

	return unreconciled
}
