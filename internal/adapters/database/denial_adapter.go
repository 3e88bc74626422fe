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

// DenialAdapter implements the DenialRepository interface
type DenialAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDenialAdapter creates a new denial adapter
func NewDenialAdapter(client *postgres.Client) repositories.DenialRepository {
	return &DenialAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// List retrieves the full denial snapshot
func (a *DenialAdapter) List(ctx context.Context) ([]*entities.Denial, error) {
	query, args, err := a.db.Select(
		"id", "claim_id", "denial_date", "category", "reason_code",
		"reason_description", "denied_amount", "work_status",
		"resolution_type", "recovered_amount", "created_at",
	).From("denials").
		Order(goqu.I("denial_date").Asc(), goqu.I("id").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build denials query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list denials", err)
	}
	defer rows.Close()

	var denials []*entities.Denial
	for rows.Next() {
		denial := &entities.Denial{}
		var resolutionType sql.NullString
		var recoveredAmount sql.NullFloat64

		err := rows.Scan(
			&denial.ID,
			&denial.ClaimID,
			&denial.DenialDate,
			&denial.Category,
			&denial.ReasonCode,
			&denial.ReasonDescription,
			&denial.DeniedAmount,
			&denial.WorkStatus,
			&resolutionType,
			&recoveredAmount,
			&denial.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan denial row", err)
		}

		if resolutionType.Valid {
			denial.ResolutionType = &resolutionType.String
		}
		if recoveredAmount.Valid {
			denial.RecoveredAmount = &recoveredAmount.Float64
		}

		denials = append(denials, denial)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate denial rows", err)
	}

	return denials, nil
}
