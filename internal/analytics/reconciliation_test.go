package analytics

import (
	"testing"
	"time"

	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingPayment(id, claimID string, date time.Time, amount float64) *entities.Payment {
	return &entities.Payment{
		ID:                   id,
		ClaimID:              claimID,
		PaymentDate:          date,
		PaymentMethod:        "eft",
		Amount:               amount,
		PayerID:              "payer-1",
		BatchID:              "batch-1",
		ReconciliationStatus: entities.ReconciliationStatusPending,
	}
}

func TestUnreconciledPayments_VarianceEpsilon(t *testing.T) {
	claim := paidClaim("c1", asOf.AddDate(0, 0, -40), 500, 400, 400)
	claim.PatientResponsibility = fptr(50) // expected insurance payment: 350

	exact := pendingPayment("p-exact", "c1", asOf.AddDate(0, 0, -20), 350)
	twoCents := pendingPayment("p-cents", "c1", asOf.AddDate(0, 0, -10), 350.02)

	result := UnreconciledPayments([]*entities.Payment{exact, twoCents}, []*entities.Claim{claim}, asOf)
	require.Len(t, result, 1, "an exact match is reconciled; a 2-cent variance is not")

	assert.Equal(t, "p-cents", result[0].PaymentID)
	assert.Equal(t, 350.0, result[0].ExpectedPayment)
	assert.Equal(t, 0.02, result[0].Variance)
	assert.Equal(t, 10, result[0].DaysUnreconciled)
}

func TestUnreconciledPayments_FIFOOrdering(t *testing.T) {
	claim := paidClaim("c1", asOf.AddDate(0, 0, -90), 500, 400, 400)

	newer := pendingPayment("p-new", "c1", asOf.AddDate(0, 0, -5), 300)
	older := pendingPayment("p-old", "c1", asOf.AddDate(0, 0, -60), 300)

	result := UnreconciledPayments([]*entities.Payment{newer, older}, []*entities.Claim{claim}, asOf)
	require.Len(t, result, 2)
	assert.Equal(t, "p-old", result[0].PaymentID)
	assert.Equal(t, "p-new", result[1].PaymentID)
}

func TestUnreconciledPayments_SkipsNonPendingAndUnresolvable(t *testing.T) {
	claim := paidClaim("c1", asOf.AddDate(0, 0, -40), 500, 400, 400)
	noExpectation := openClaim("c2", asOf.AddDate(0, 0, -40), 500) // no allowed amount yet

	matched := pendingPayment("p1", "c1", asOf.AddDate(0, 0, -20), 300)
	matched.ReconciliationStatus = entities.ReconciliationStatusMatched
	orphan := pendingPayment("p2", "gone", asOf.AddDate(0, 0, -20), 300)
	unexpected := pendingPayment("p3", "c2", asOf.AddDate(0, 0, -20), 300)
	flagged := pendingPayment("p4", "c1", asOf.AddDate(0, 0, -20), 300)

	result := UnreconciledPayments(
		[]*entities.Payment{matched, orphan, unexpected, flagged},
		[]*entities.Claim{claim, noExpectation}, asOf)

	require.Len(t, result, 1)
	assert.Equal(t, "p4", result[0].PaymentID)
	assert.Equal(t, -100.0, result[0].Variance)
}
