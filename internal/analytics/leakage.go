package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
)

const (
	// unbilledMinAgeDays gives the charge-capture pipeline a grace period
	// before an encounter counts as stuck.
	unbilledMinAgeDays = 7

	// unbilledMaxAgeDays bounds the lookback for unbilled encounters.
	unbilledMaxAgeDays = 90

	// varianceEpsilon absorbs currency rounding noise.
	varianceEpsilon = 0.01

	// varianceFloor is the materiality threshold below which an
	// under/overpayment is not worth working.
	varianceFloor = 10.0

	// oldARDays marks the point where open AR counts as aged.
	oldARDays = 90
)

// Bottleneck labels for the charge-capture pipeline, in prerequisite order.
const (
	BottleneckDocumentation  = "Missing Documentation"
	BottleneckCoding         = "Coding Incomplete"
	BottleneckChargeEntry    = "Charges Not Entered"
	BottleneckClaimGenerated = "Claim Not Generated"
)

// bottleneckRules evaluate the completion chain in prerequisite order, so
// the first unmet stage wins even when later stages are also incomplete.
var bottleneckRules = []Rule[*entities.Encounter]{
	{Match: func(e *entities.Encounter) bool { return !e.DocumentationComplete }, Label: BottleneckDocumentation},
	{Match: func(e *entities.Encounter) bool { return !e.CodingComplete }, Label: BottleneckCoding},
	{Match: func(e *entities.Encounter) bool { return !e.ChargeEntered }, Label: BottleneckChargeEntry},
}

// BottleneckFor returns the first unmet stage of the charge-capture chain.
func BottleneckFor(e *entities.Encounter) string {
	return FirstMatch(bottleneckRules, e, BottleneckClaimGenerated)
}

// UnbilledEncounters flags encounters 7-90 days old that have not produced
// a claim, labeled with the pipeline stage blocking them. The expected
// charge is the revenue at risk. Ordered by revenue at risk descending.
func UnbilledEncounters(encounters []*entities.Encounter, asOf time.Time) []UnbilledEncounter {
	flagged := make([]UnbilledEncounter, 0)
	for _, e := range encounters {
		if e.ClaimGenerated {
			continue
		}
		age := DaysBetween(e.EncounterDate, asOf)
		if age < unbilledMinAgeDays || age > unbilledMaxAgeDays {
			continue
		}
		flagged = append(flagged, UnbilledEncounter{
			EncounterID:   e.ID,
			PatientID:     e.PatientID,
			ProviderID:    e.ProviderID,
			EncounterDate: e.EncounterDate,
			DaysUnbilled:  age,
			Bottleneck:    BottleneckFor(e),
			RevenueAtRisk: e.ExpectedCharge,
		})
	}

	sort.Slice(flagged, func(i, j int) bool {
		if flagged[i].RevenueAtRisk != flagged[j].RevenueAtRisk {
			return flagged[i].RevenueAtRisk > flagged[j].RevenueAtRisk
		}
		return flagged[i].EncounterID < flagged[j].EncounterID
	})

	return flagged
}

// PaymentVariances surfaces paid claims from the window whose payment
// differs from expected (allowed - patient responsibility) by more than
// both the rounding epsilon and the materiality floor. Claims with no
// allowed amount on file cannot form an expectation and are skipped.
// Ordered by absolute variance descending.
func PaymentVariances(claims []*entities.Claim, window TimeWindow) []PaymentVariance {
	variances := make([]PaymentVariance, 0)
	for _, c := range claims {
		if c.Status != entities.ClaimStatusPaid || c.AllowedAmount == nil {
			continue
		}
		if c.PaymentDate == nil || !window.Contains(*c.PaymentDate) {
			continue
		}

		patientResp := 0.0
		if c.PatientResponsibility != nil {
			patientResp = *c.PatientResponsibility
		}
		paid := 0.0
		if c.PaidAmount != nil {
			paid = *c.PaidAmount
		}

		expected := *c.AllowedAmount - patientResp
		variance := expected - paid
		if math.Abs(variance) <= varianceEpsilon || math.Abs(variance) <= varianceFloor {
			continue
		}

		variances = append(variances, PaymentVariance{
			ClaimID:               c.ID,
			PatientID:             c.PatientID,
			PayerID:               c.PayerID,
			SubmissionDate:        c.SubmissionDate,
			AllowedAmount:         *c.AllowedAmount,
			PatientResponsibility: patientResp,
			PaidAmount:            paid,
			ExpectedPayment:       Round2(expected),
			Variance:              Round2(variance),
			VariancePct:           SafePercent(variance, expected, 2),
		})
	}

	sort.Slice(variances, func(i, j int) bool {
		absI, absJ := math.Abs(variances[i].Variance), math.Abs(variances[j].Variance)
		if absI != absJ {
			return absI > absJ
		}
		return variances[i].ClaimID < variances[j].ClaimID
	})

	return variances
}

// OldAR lists open claims more than 90 days past submission that still
// carry a positive balance, ordered by outstanding amount descending.
func OldAR(claims []*entities.Claim, asOf time.Time) []OldARClaim {
	aged := make([]OldARClaim, 0)
	for _, c := range claims {
		if !c.Status.IsOpen() || c.SubmissionDate == nil {
			continue
		}
		outstanding := c.Outstanding()
		days := DaysBetween(*c.SubmissionDate, asOf)
		if days <= oldARDays || outstanding <= 0 {
			continue
		}
		aged = append(aged, OldARClaim{
			ClaimID:         c.ID,
			PatientID:       c.PatientID,
			PayerID:         c.PayerID,
			SubmissionDate:  *c.SubmissionDate,
			Outstanding:     Round2(outstanding),
			DaysOutstanding: days,
			Status:          c.Status,
		})
	}

	sort.Slice(aged, func(i, j int) bool {
		if aged[i].Outstanding != aged[j].Outstanding {
			return aged[i].Outstanding > aged[j].Outstanding
		}
		return aged[i].ClaimID < aged[j].ClaimID
	})

	return aged
}
