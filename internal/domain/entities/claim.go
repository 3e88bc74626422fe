package entities

import (
	"fmt"
	"time"

	apperrors "github.com/claimsight/revcycle-analytics/pkg/errors"
)

// ClaimStatus represents the lifecycle status of a claim
type ClaimStatus string

const (
	ClaimStatusReadyToSubmit ClaimStatus = "ready_to_submit"
	ClaimStatusSubmitted     ClaimStatus = "submitted"
	ClaimStatusAccepted      ClaimStatus = "accepted"
	ClaimStatusProcessed     ClaimStatus = "processed"
	ClaimStatusPaid          ClaimStatus = "paid"
	ClaimStatusDenied        ClaimStatus = "denied"
	ClaimStatusAppealed      ClaimStatus = "appealed"
	ClaimStatusWrittenOff    ClaimStatus = "written_off"
)

// IsValid checks if the status is one of the defined constants.
func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimStatusReadyToSubmit, ClaimStatusSubmitted, ClaimStatusAccepted,
		ClaimStatusProcessed, ClaimStatusPaid, ClaimStatusDenied,
		ClaimStatusAppealed, ClaimStatusWrittenOff:
		return true
	}
	return false
}

// IsOpen reports whether the claim still carries collectible balance.
// Paid and written-off claims are terminal for AR purposes.
func (s ClaimStatus) IsOpen() bool {
	return s != ClaimStatusPaid && s != ClaimStatusWrittenOff
}

// Claim represents a billing claim submitted to a payer.
// Monetary pointer fields are nil until the corresponding lifecycle stage is
// reached (e.g. PaidAmount is only set once the claim is paid).
type Claim struct {
	ID                    string      `json:"id" db:"id"`
	PatientID             string      `json:"patient_id" db:"patient_id"`
	ProviderID            string      `json:"provider_id" db:"provider_id"`
	PayerID               string      `json:"payer_id" db:"payer_id"`
	EncounterID           *string     `json:"encounter_id,omitempty" db:"encounter_id"`
	ClaimType             string      `json:"claim_type" db:"claim_type"`
	ServiceDate           time.Time   `json:"service_date" db:"service_date"`
	SubmissionDate        *time.Time  `json:"submission_date,omitempty" db:"submission_date"`
	ProcessedDate         *time.Time  `json:"processed_date,omitempty" db:"processed_date"`
	PaymentDate           *time.Time  `json:"payment_date,omitempty" db:"payment_date"`
	ChargeAmount          float64     `json:"charge_amount" db:"charge_amount"`
	AllowedAmount         *float64    `json:"allowed_amount,omitempty" db:"allowed_amount"`
	PaidAmount            *float64    `json:"paid_amount,omitempty" db:"paid_amount"`
	PatientResponsibility *float64    `json:"patient_responsibility,omitempty" db:"patient_responsibility"`
	AdjustmentAmount      *float64    `json:"adjustment_amount,omitempty" db:"adjustment_amount"`
	Status                ClaimStatus `json:"status" db:"status"`
	DenialReason          *string     `json:"denial_reason,omitempty" db:"denial_reason"`
	AppealStatus          *string     `json:"appeal_status,omitempty" db:"appeal_status"`
	CreatedAt             time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at" db:"updated_at"`
}

// Outstanding returns the uncollected balance, treating a missing paid
// amount as zero.
func (c *Claim) Outstanding() float64 {
	paid := 0.0
	if c.PaidAmount != nil {
		paid = *c.PaidAmount
	}
	return c.ChargeAmount - paid
}

// Validate checks the non-nullable fields required by the analytics engine.
func (c *Claim) Validate() error {
	if c.ID == "" {
		return apperrors.NewValidationError("claim: missing id")
	}
	if c.PatientID == "" {
		return apperrors.NewValidationError(fmt.Sprintf("claim %s: missing patient_id", c.ID))
	}
	if c.ProviderID == "" {
		return apperrors.NewValidationError(fmt.Sprintf("claim %s: missing provider_id", c.ID))
	}
	if c.PayerID == "" {
		return apperrors.NewValidationError(fmt.Sprintf("claim %s: missing payer_id", c.ID))
	}
	if c.ServiceDate.IsZero() {
		return apperrors.NewValidationError(fmt.Sprintf("claim %s: missing service_date", c.ID))
	}
	if c.ChargeAmount < 0 {
		return apperrors.NewValidationError(fmt.Sprintf("claim %s: negative charge_amount", c.ID))
	}
	if !c.Status.IsValid() {
		return apperrors.NewValidationError(fmt.Sprintf("claim %s: invalid status %q", c.ID, c.Status))
	}
	return nil
}
