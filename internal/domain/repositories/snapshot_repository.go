package repositories

import (
	"context"

	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
)

// The snapshot repositories are the engine's only boundary to durable
// storage. Each returns a read-only collection; the analytics engine never
// writes back.

// ClaimRepository defines read access to the claim collection
type ClaimRepository interface {
	// List retrieves the full claim snapshot
	List(ctx context.Context) ([]*entities.Claim, error)
}

// PaymentRepository defines read access to the payment collection
type PaymentRepository interface {
	// List retrieves the full payment snapshot
	List(ctx context.Context) ([]*entities.Payment, error)
}

// DenialRepository defines read access to the denial collection
type DenialRepository interface {
	// List retrieves the full denial snapshot
	List(ctx context.Context) ([]*entities.Denial, error)
}

// EncounterRepository defines read access to the encounter collection
type EncounterRepository interface {
	// List retrieves the full encounter snapshot
	List(ctx context.Context) ([]*entities.Encounter, error)
}

// PayerRepository defines read access to the payer reference set
type PayerRepository interface {
	// List retrieves all payers
	List(ctx context.Context) ([]*entities.Payer, error)
}
