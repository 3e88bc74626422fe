package analytics

import (
	"time"

	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
)

// asOf is the injected "current date" used across the calculator tests.
var asOf = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func fptr(v float64) *float64 { return &v }

func sptr(v string) *string { return &v }

func tptr(v time.Time) *time.Time { return &v }

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func paidClaim(id string, submitted time.Time, charge, allowed, paid float64) *entities.Claim {
	paymentDate := submitted.AddDate(0, 0, 14)
	return &entities.Claim{
		ID:             id,
		PatientID:      "pat-" + id,
		ProviderID:     "prov-1",
		PayerID:        "payer-1",
		ClaimType:      "professional",
		ServiceDate:    submitted.AddDate(0, 0, -3),
		SubmissionDate: tptr(submitted),
		ProcessedDate:  tptr(submitted.AddDate(0, 0, 7)),
		PaymentDate:    tptr(paymentDate),
		ChargeAmount:   charge,
		AllowedAmount:  fptr(allowed),
		PaidAmount:     fptr(paid),
		Status:         entities.ClaimStatusPaid,
	}
}

func openClaim(id string, submitted time.Time, charge float64) *entities.Claim {
	return &entities.Claim{
		ID:             id,
		PatientID:      "pat-" + id,
		ProviderID:     "prov-1",
		PayerID:        "payer-1",
		ClaimType:      "professional",
		ServiceDate:    submitted.AddDate(0, 0, -3),
		SubmissionDate: tptr(submitted),
		ChargeAmount:   charge,
		Status:         entities.ClaimStatusSubmitted,
	}
}

func deniedClaim(id string, submitted time.Time, charge float64) *entities.Claim {
	c := openClaim(id, submitted, charge)
	c.Status = entities.ClaimStatusDenied
	return c
}
