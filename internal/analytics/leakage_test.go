package analytics

import (
	"testing"
	"time"

	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encounter(id string, date time.Time, expectedCharge float64) *entities.Encounter {
	return &entities.Encounter{
		ID:             id,
		PatientID:      "pat-" + id,
		ProviderID:     "prov-1",
		EncounterDate:  date,
		ExpectedCharge: expectedCharge,
	}
}

func TestBottleneckFor_FirstUnmetStageWins(t *testing.T) {
	e := encounter("e1", asOf.AddDate(0, 0, -10), 100)
	// Documentation and coding are both incomplete; documentation is the
	// earlier prerequisite, so it is the bottleneck.
	assert.Equal(t, BottleneckDocumentation, BottleneckFor(e))

	e.DocumentationComplete = true
	assert.Equal(t, BottleneckCoding, BottleneckFor(e))

	e.CodingComplete = true
	assert.Equal(t, BottleneckChargeEntry, BottleneckFor(e))

	e.ChargeEntered = true
	assert.Equal(t, BottleneckClaimGenerated, BottleneckFor(e))
}

func TestUnbilledEncounters_AgeWindow(t *testing.T) {
	tooFresh := encounter("fresh", asOf.AddDate(0, 0, -6), 100)
	inRangeLow := encounter("low", asOf.AddDate(0, 0, -7), 100)
	inRangeHigh := encounter("high", asOf.AddDate(0, 0, -90), 200)
	tooOld := encounter("old", asOf.AddDate(0, 0, -91), 100)
	billed := encounter("billed", asOf.AddDate(0, 0, -30), 100)
	billed.DocumentationComplete = true
	billed.CodingComplete = true
	billed.ChargeEntered = true
	billed.ClaimGenerated = true

	flagged := UnbilledEncounters([]*entities.Encounter{tooFresh, inRangeLow, inRangeHigh, tooOld, billed}, asOf)
	require.Len(t, flagged, 2)

	// Highest revenue at risk first.
	assert.Equal(t, "high", flagged[0].EncounterID)
	assert.Equal(t, 200.0, flagged[0].RevenueAtRisk)
	assert.Equal(t, 90, flagged[0].DaysUnbilled)
	assert.Equal(t, "low", flagged[1].EncounterID)
}

func TestPaymentVariances_Thresholds(t *testing.T) {
	window := TrailingDays(asOf, 90)
	paidOn := asOf.AddDate(0, 0, -10)

	exact := paidClaim("exact", paidOn.AddDate(0, 0, -14), 100, 90, 90)
	pennies := paidClaim("pennies", paidOn.AddDate(0, 0, -14), 100, 90, 89.98) // off by 0.02: immaterial
	underpaid := paidClaim("under", paidOn.AddDate(0, 0, -14), 500, 400, 350)  // off by 50
	overpaid := paidClaim("over", paidOn.AddDate(0, 0, -14), 500, 400, 425)    // off by -25
	noAllowed := paidClaim("noallowed", paidOn.AddDate(0, 0, -14), 500, 0, 350)
	noAllowed.AllowedAmount = nil

	variances := PaymentVariances([]*entities.Claim{exact, pennies, underpaid, overpaid, noAllowed}, window)
	require.Len(t, variances, 2)

	assert.Equal(t, "under", variances[0].ClaimID)
	assert.Equal(t, 50.0, variances[0].Variance)
	require.NotNil(t, variances[0].VariancePct)
	assert.Equal(t, 12.5, *variances[0].VariancePct)
	assert.Equal(t, "over", variances[1].ClaimID)
	assert.Equal(t, -25.0, variances[1].Variance)
}

func TestPaymentVariances_PatientResponsibilityOffset(t *testing.T) {
	window := TrailingDays(asOf, 90)
	c := paidClaim("c1", asOf.AddDate(0, 0, -30), 500, 400, 300)
	c.PatientResponsibility = fptr(50)

	variances := PaymentVariances([]*entities.Claim{c}, window)
	require.Len(t, variances, 1)
	assert.Equal(t, 350.0, variances[0].ExpectedPayment)
	assert.Equal(t, 50.0, variances[0].Variance)
}

func TestOldAR(t *testing.T) {
	young := openClaim("young", asOf.AddDate(0, 0, -90), 100)
	aged1 := openClaim("aged1", asOf.AddDate(0, 0, -91), 100)
	aged2 := openClaim("aged2", asOf.AddDate(0, 0, -200), 400)
	collected := openClaim("collected", asOf.AddDate(0, 0, -200), 400)
	collected.PaidAmount = fptr(400)

	aged := OldAR([]*entities.Claim{young, aged1, aged2, collected}, asOf)
	require.Len(t, aged, 2)
	assert.Equal(t, "aged2", aged[0].ClaimID)
	assert.Equal(t, 400.0, aged[0].Outstanding)
	assert.Equal(t, 200, aged[0].DaysOutstanding)
	assert.Equal(t, "aged1", aged[1].ClaimID)
}

func TestLeakageReport_TotalAtRisk(t *testing.T) {
	report := &LeakageReport{
		UnbilledEncounters: []UnbilledEncounter{{RevenueAtRisk: 100}},
		PaymentVariances:   []PaymentVariance{{Variance: 50}},
		OldAR:              []OldARClaim{{Outstanding: 400}},
	}
	assert.Equal(t, 550.0, report.TotalAtRisk())
}
