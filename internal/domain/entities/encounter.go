package entities

import (
	"fmt"
	"time"

	apperrors "github.com/claimsight/revcycle-analytics/pkg/errors"
)

// Encounter represents a patient visit moving through the charge-capture
// pipeline. The four completion flags form a strict prerequisite chain:
// documentation -> coding -> charge entry -> claim generation.
type Encounter struct {
	ID                       string     `json:"id" db:"id"`
	PatientID                string     `json:"patient_id" db:"patient_id"`
	ProviderID               string     `json:"provider_id" db:"provider_id"`
	EncounterDate            time.Time  `json:"encounter_date" db:"encounter_date"`
	ExpectedCharge           float64    `json:"expected_charge" db:"expected_charge"`
	DocumentationComplete    bool       `json:"documentation_complete" db:"documentation_complete"`
	DocumentationCompletedAt *time.Time `json:"documentation_completed_at,omitempty" db:"documentation_completed_at"`
	CodingComplete           bool       `json:"coding_complete" db:"coding_complete"`
	CodingCompletedAt        *time.Time `json:"coding_completed_at,omitempty" db:"coding_completed_at"`
	ChargeEntered            bool       `json:"charge_entered" db:"charge_entered"`
	ChargeEnteredAt          *time.Time `json:"charge_entered_at,omitempty" db:"charge_entered_at"`
	ClaimGenerated           bool       `json:"claim_generated" db:"claim_generated"`
	ClaimGeneratedAt         *time.Time `json:"claim_generated_at,omitempty" db:"claim_generated_at"`
	CreatedAt                time.Time  `json:"created_at" db:"created_at"`
}

// Validate checks the non-nullable fields required by the analytics engine.
func (e *Encounter) Validate() error {
	if e.ID == "" {
		return apperrors.NewValidationError("encounter: missing id")
	}
	if e.PatientID == "" {
		return apperrors.NewValidationError(fmt.Sprintf("encounter %s: missing patient_id", e.ID))
	}
	if e.ProviderID == "" {
		return apperrors.NewValidationError(fmt.Sprintf("encounter %s: missing provider_id", e.ID))
	}
	if e.EncounterDate.IsZero() {
		return apperrors.NewValidationError(fmt.Sprintf("encounter %s: missing encounter_date", e.ID))
	}
	return nil
}
