package entities

import (
	"fmt"
	"time"

	apperrors "github.com/claimsight/revcycle-analytics/pkg/errors"
)

// ReconciliationStatus represents where a payment sits in the
// reconciliation workflow
type ReconciliationStatus string

const (
	ReconciliationStatusPending               ReconciliationStatus = "pending"
	ReconciliationStatusMatched               ReconciliationStatus = "matched"
	ReconciliationStatusVarianceApproved      ReconciliationStatus = "variance_approved"
	ReconciliationStatusVarianceInvestigating ReconciliationStatus = "variance_investigating"
	ReconciliationStatusUnmatched             ReconciliationStatus = "unmatched"
)

// IsValid checks if the status is one of the defined constants.
func (s ReconciliationStatus) IsValid() bool {
	switch s {
	case ReconciliationStatusPending, ReconciliationStatusMatched,
		ReconciliationStatusVarianceApproved, ReconciliationStatusVarianceInvestigating,
		ReconciliationStatusUnmatched:
		return true
	}
	return false
}

// Payment represents a remittance received against a single claim.
type Payment struct {
	ID                   string               `json:"id" db:"id"`
	ClaimID              string               `json:"claim_id" db:"claim_id"`
	PaymentDate          time.Time            `json:"payment_date" db:"payment_date"`
	PaymentMethod        string               `json:"payment_method" db:"payment_method"`
	Amount               float64              `json:"amount" db:"amount"`
	PayerID              string               `json:"payer_id" db:"payer_id"`
	BatchID              string               `json:"batch_id" db:"batch_id"`
	ReconciliationStatus ReconciliationStatus `json:"reconciliation_status" db:"reconciliation_status"`
	CreatedAt            time.Time            `json:"created_at" db:"created_at"`
}

// Validate checks the non-nullable fields required by the analytics engine.
func (p *Payment) Validate() error {
	if p.ID == "" {
		return apperrors.NewValidationError("payment: missing id")
	}
	if p.ClaimID == "" {
		return apperrors.NewValidationError(fmt.Sprintf("payment %s: missing claim_id", p.ID))
	}
	if p.PaymentDate.IsZero() {
		return apperrors.NewValidationError(fmt.Sprintf("payment %s: missing payment_date", p.ID))
	}
	if !p.ReconciliationStatus.IsValid() {
		return apperrors.NewValidationError(fmt.Sprintf("payment %s: invalid reconciliation_status %q", p.ID, p.ReconciliationStatus))
	}
	return nil
}
