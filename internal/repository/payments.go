package repository

import (
	"context"
	"database/sql"
	"fmt"

	"eventide/internal/database"
	"eventide/internal/models"
)

type PaymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (ticket_id, event_id, amount_minor, currency, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		payment.TicketID,
		payment.EventID,
		payment.AmountMinor,
		payment.Currency,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
}

// Delete removes a tentative payment row after a failed gateway call so no
// orphan pending payments accumulate.
func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	return err
}

func (r *PaymentRepository) SetGatewayReference(ctx context.Context, id, reference string) error {
	query := `UPDATE payments SET gateway_reference = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, reference, id)
	return err
}

func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `
		SELECT id, ticket_id, event_id, amount_minor, currency, status,
		       gateway_reference, gateway_data, created_at, updated_at
		FROM payments
		WHERE gateway_reference = $1`

	err := r.db.QueryRowContext(ctx, query, reference).Scan(
		&payment.ID,
		&payment.TicketID,
		&payment.EventID,
		&payment.AmountMinor,
		&payment.Currency,
		&payment.Status,
		&payment.GatewayReference,
		&payment.GatewayData,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return payment, err
}

// MarkSucceeded applies a settled webhook in one transaction: the payment
// flips to SUCCESS with the raw gateway payload kept for audit, and the
// linked ticket flips PENDING -> PAID. Both updates are conditional on the
// current state, so replaying a settlement changes nothing.
func (r *PaymentRepository) MarkSucceeded(ctx context.Context, paymentID, ticketID string, gatewayData []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE payments SET status = 'SUCCESS', gateway_data = $1, updated_at = NOW()
		WHERE id = $2 AND status <> 'SUCCESS'`,
		gatewayData, paymentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE tickets SET status = 'PAID', updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'`,
		ticketID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}

	return nil
}
