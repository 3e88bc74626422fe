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

// PayerAdapter implements the PayerRepository interface
type PayerAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPayerAdapter creates a new payer adapter
func NewPayerAdapter(client *postgres.Client) repositories.PayerRepository {
	return &PayerAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// List retrieves all payers
func (a *PayerAdapter) List(ctx context.Context) ([]*entities.Payer, error) {
	query, args, err := a.db.Select(
		"id", "name", "type", "contract_number",
		"contract_start", "contract_end", "created_at",
	).From("payers").
		Order(goqu.I("name").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build payers query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list payers", err)
	}
	defer rows.Close()

	var payers []*entities.Payer
	for rows.Next() {
		payer := &entities.Payer{}
		var contractNumber sql.NullString
		var contractStart, contractEnd sql.NullTime

		err := rows.Scan(
			&payer.ID,
			&payer.Name,
			&payer.Type,
			&contractNumber,
			&contractStart,
			&contractEnd,
			&payer.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan payer row", err)
		}

		payer.ContractNumber = contractNumber.String
		if contractStart.Valid {
			payer.ContractStart = &contractStart.Time
		}
		if contractEnd.Valid {
			payer.ContractEnd = &contractEnd.Time
		}

		payers = append(payers, payer)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate payer rows", err)
	}

	return payers, nil
}
