package entities

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/claimsight/revcycle-analytics/pkg/errors"
)

// DenialCategory classifies a denial by root cause
type DenialCategory string

const (
	DenialCategoryAuthorization     DenialCategory = "authorization"
	DenialCategoryEligibility       DenialCategory = "eligibility"
	DenialCategoryMedicalNecessity  DenialCategory = "medical_necessity"
	DenialCategoryCodingError       DenialCategory = "coding_error"
	DenialCategoryTimelyFiling      DenialCategory = "timely_filing"
	DenialCategoryDuplicate         DenialCategory = "duplicate"
	DenialCategoryCoordinationOfBen DenialCategory = "coordination_of_benefits"
	DenialCategoryMissingInfo       DenialCategory = "missing_information"
)

// IsValid checks if the category is one of the defined constants.
func (c DenialCategory) IsValid() bool {
	switch c {
	case DenialCategoryAuthorization, DenialCategoryEligibility,
		DenialCategoryMedicalNecessity, DenialCategoryCodingError,
		DenialCategoryTimelyFiling, DenialCategoryDuplicate,
		DenialCategoryCoordinationOfBen, DenialCategoryMissingInfo:
		return true
	}
	return false
}

// DenialWorkStatus tracks the denial worklist state
type DenialWorkStatus string

const (
	DenialWorkStatusNew        DenialWorkStatus = "new"
	DenialWorkStatusInProgress DenialWorkStatus = "in_progress"
	DenialWorkStatusResolved   DenialWorkStatus = "resolved"
)

// Denial resolution types. A denial stays unresolved (nil resolution) until
// the worklist closes it out.
const (
	ResolutionAppealedWon         = "appealed_won"
	ResolutionAppealedLost        = "appealed_lost"
	ResolutionCorrectedResubmitted = "corrected_resubmitted"
	ResolutionWrittenOff          = "written_off"
)

// Denial represents a payer denial against a claim. A claim can accrue
// multiple denials over its lifetime if it is resubmitted and denied again.
type Denial struct {
	ID                string           `json:"id" db:"id"`
	ClaimID           string           `json:"claim_id" db:"claim_id"`
	DenialDate        time.Time        `json:"denial_date" db:"denial_date"`
	Category          DenialCategory   `json:"category" db:"category"`
	ReasonCode        string           `json:"reason_code" db:"reason_code"`
	ReasonDescription string           `json:"reason_description" db:"reason_description"`
	DeniedAmount      float64          `json:"denied_amount" db:"denied_amount"`
	WorkStatus        DenialWorkStatus `json:"work_status" db:"work_status"`
	ResolutionType    *string          `json:"resolution_type,omitempty" db:"resolution_type"`
	RecoveredAmount   *float64         `json:"recovered_amount,omitempty" db:"recovered_amount"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
}

// WasAppealed reports whether the denial went through the appeal path,
// regardless of outcome.
func (d *Denial) WasAppealed() bool {
	return d.ResolutionType != nil && strings.HasPrefix(*d.ResolutionType, "appealed")
}

// Validate checks the non-nullable fields required by the analytics engine.
func (d *Denial) Validate() error {
	if d.ID == "" {
		return apperrors.NewValidationError("denial: missing id")
	}
	if d.ClaimID == "" {
		return apperrors.NewValidationError(fmt.Sprintf("denial %s: missing claim_id", d.ID))
	}
	if d.DenialDate.IsZero() {
		return apperrors.NewValidationError(fmt.Sprintf("denial %s: missing denial_date", d.ID))
	}
	if !d.Category.IsValid() {
		return apperrors.NewValidationError(fmt.Sprintf("denial %s: invalid category %q", d.ID, d.Category))
	}
	return nil
}
