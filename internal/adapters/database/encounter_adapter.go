package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
	"github.com/claimsight/revcycle-analytics/internal/domain/repositories"
	"github.com/claimsight/revcycle-analytics/internal/infrastructure/clients/postgres"
	apperrors "github.com/claimsight/revcycle-analytics/pkg/errors"
)

// EncounterAdapter implements the EncounterRepository interface
type EncounterAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewEncounterAdapter creates a new encounter adapter
func NewEncounterAdapter(client *postgres.Client) repositories.EncounterRepository {
	return &EncounterAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// List retrieves the full encounter snapshot
func (a *EncounterAdapter) List(ctx context.Context) ([]*entities.Encounter, error) {
	query, args, err := a.db.Select(
		"id", "patient_id", "provider_id", "encounter_date", "expected_charge",
		"documentation_complete", "documentation_completed_at",
		"coding_complete", "coding_completed_at",
		"charge_entered", "charge_entered_at",
		"claim_generated", "claim_generated_at",
		"created_at",
	).From("encounters").
		Order(goqu.I("encounter_date").Asc(), goqu.I("id").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build encounters query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list encounters", err)
	}
	defer rows.Close()

	var encounters []*entities.Encounter
	for rows.Next() {
		encounter := &entities.Encounter{}
		var documentationAt, codingAt, chargeAt, claimAt sql.NullTime

		err := rows.Scan(
			&encounter.ID,
			&encounter.PatientID,
			&encounter.ProviderID,
			&encounter.EncounterDate,
			&encounter.ExpectedCharge,
			&encounter.DocumentationComplete,
			&documentationAt,
			&encounter.CodingComplete,
			&codingAt,
			&encounter.ChargeEntered,
			&chargeAt,
			&encounter.ClaimGenerated,
			&claimAt,
			&encounter.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan encounter row", err)
		}

		if documentationAt.Valid {
			encounter.DocumentationCompletedAt = &documentationAt.Time
		}
		if codingAt.Valid {
			encounter.CodingCompletedAt = &codingAt.Time
		}
		if chargeAt.Valid {
			encounter.ChargeEnteredAt = &chargeAt.Time
		}
		if claimAt.Valid {
			encounter.ClaimGeneratedAt = &claimAt.Time
		}

		encounters = append(encounters, encounter)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate encounter rows", err)
	}

	return encounters, nil
}
