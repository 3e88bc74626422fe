package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
	"github.com/claimsight/revcycle-analytics/internal/domain/repositories"
	"github.com/claimsight/revcycle-analytics/internal/infrastructure/clients/postgres"
	apperrors "github.com/claimsight/revcycle-analytics/pkg/errors"
)

// ClaimAdapter implements the ClaimRepository interface
type ClaimAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewClaimAdapter creates a new claim adapter
func NewClaimAdapter(client *postgres.Client) repositories.ClaimRepository {
	return &ClaimAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// List retrieves the full claim snapshot
func (a *ClaimAdapter) List(ctx context.Context) ([]*entities.Claim, error) {
	query, args, err := a.db.Select(
		"id", "patient_id", "provider_id", "payer_id", "encounter_id",
		"claim_type", "service_date", "submission_date", "processed_date",
		"payment_date", "charge_amount", "allowed_amount", "paid_amount",
		"patient_responsibility", "adjustment_amount", "status",
		"denial_reason", "appeal_status", "created_at", "updated_at",
	).From("claims").
		Order(goqu.I("id").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build claims query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list claims", err)
	}
	defer rows.Close()

	var claims []*entities.Claim
	for rows.Next() {
		claim := &entities.Claim{}
		var encounterID, denialReason, appealStatus sql.NullString
		var submissionDate, processedDate, paymentDate sql.NullTime
		var allowedAmount, paidAmount, patientResponsibility, adjustmentAmount sql.NullFloat64

		err := rows.Scan(
			&claim.ID,
			&claim.PatientID,
			&claim.ProviderID,
			&claim.PayerID,
			&encounterID,
			&claim.ClaimType,
			&claim.ServiceDate,
			&submissionDate,
			&processedDate,
			&paymentDate,
			&claim.ChargeAmount,
			&allowedAmount,
			&paidAmount,
			&patientResponsibility,
			&adjustmentAmount,
			&claim.Status,
			&denialReason,
			&appealStatus,
			&claim.CreatedAt,
			&claim.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan claim row", err)
		}

		if encounterID.Valid {
			claim.EncounterID = &encounterID.String
		}
		if submissionDate.Valid {
			claim.SubmissionDate = &submissionDate.Time
		}
		if processedDate.Valid {
			claim.ProcessedDate = &processedDate.Time
		}
		if paymentDate.Valid {
			claim.PaymentDate = &paymentDate.Time
		}
		if allowedAmount.Valid {
			claim.AllowedAmount = &allowedAmount.Float64
		}
		if paidAmount.Valid {
			claim.PaidAmount = &paidAmount.Float64
		}
		if patientResponsibility.Valid {
			claim.PatientResponsibility = &patientResponsibility.Float64
		}
		if adjustmentAmount.Valid {
			claim.AdjustmentAmount = &adjustmentAmount.Float64
		}
		if denialReason.Valid {
			claim.DenialReason = &denialReason.String
		}
		if appealStatus.Valid {
			claim.AppealStatus = &appealStatus.String
		}

		claims = append(claims, claim)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate claim rows", err)
	}

	return claims, nil
}
