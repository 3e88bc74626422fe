package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
	"github.com/claimsight/revcycle-analytics/internal/domain/repositories"
	"github.com/claimsight/revcycle-analytics/internal/infrastructure/clients/postgres"
	apperrors "github.com/claimsight/revcycle-analytics/pkg/errors"
)

// PaymentAdapter implements the PaymentRepository interface
type PaymentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPaymentAdapter creates a new payment adapter
func NewPaymentAdapter(client *postgres.Client) repositories.PaymentRepository {
	return &PaymentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// List retrieves the full payment snapshot
func (a *PaymentAdapter) List(ctx context.Context) ([]*entities.Payment, error) {
	query, args, err := a.db.Select(
		"id", "claim_id", "payment_date", "payment_method", "amount",
		"payer_id", "batch_id", "reconciliation_status", "created_at",
	).From("payments").
		Order(goqu.I("payment_date").Asc(), goqu.I("id").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build payments query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list payments", err)
	}
	defer rows.Close()

	var payments []*entities.Payment
	for rows.Next() {
		payment := &entities.Payment{}
		err := rows.Scan(
			&payment.ID,
			&payment.ClaimID,
			&payment.PaymentDate,
			&payment.PaymentMethod,
			&payment.Amount,
			&payment.PayerID,
			&payment.BatchID,
			&payment.ReconciliationStatus,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan payment row", err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate payment rows", err)
	}

	return payments, nil
}
