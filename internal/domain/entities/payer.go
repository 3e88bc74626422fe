package entities

import (
	"fmt"
	"time"

	apperrors "github.com/claimsight/revcycle-analytics/pkg/errors"
)

// PayerType represents the line of business of a payer
type PayerType string

const (
	PayerTypeCommercial PayerType = "commercial"
	PayerTypeMedicare   PayerType = "medicare"
	PayerTypeMedicaid   PayerType = "medicaid"
	PayerTypeSelfPay    PayerType = "self_pay"
	PayerTypeOther      PayerType = "other"
)

// IsValid checks if the payer type is one of the defined constants.
func (t PayerType) IsValid() bool {
	switch t {
	case PayerTypeCommercial, PayerTypeMedicare, PayerTypeMedicaid,
		PayerTypeSelfPay, PayerTypeOther:
		return true
	}
	return false
}

// Payer represents an insurance payer under contract.
type Payer struct {
	ID             string     `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Type           PayerType  `json:"type" db:"type"`
	ContractNumber string     `json:"contract_number" db:"contract_number"`
	ContractStart  *time.Time `json:"contract_start,omitempty" db:"contract_start"`
	ContractEnd    *time.Time `json:"contract_end,omitempty" db:"contract_end"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// Validate checks the non-nullable fields required by the analytics engine.
func (p *Payer) Validate() error {
	if p.ID == "" {
		return apperrors.NewValidationError("payer: missing id")
	}
	if p.Name == "" {
		return apperrors.NewValidationError(fmt.Sprintf("payer %s: missing name", p.ID))
	}
	if !p.Type.IsValid() {
		return apperrors.NewValidationError(fmt.Sprintf("payer %s: invalid type %q", p.ID, p.Type))
	}
	return nil
}
