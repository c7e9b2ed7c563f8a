package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"eventide/internal/apperrors"
	"eventide/internal/database"
	"eventide/internal/models"
)

const uniqueViolation = "23505"

type TicketRepository struct {
	db *database.DB
}

func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// CreatePending admits a new ticket for (userID, eventID) inside a single
// transaction. The event row is locked FOR UPDATE so concurrent purchase
// attempts for the same event serialize here; purchases for different
// events never contend. Both the duplicate-ownership and capacity checks
// run again under the lock: the service-level prechecks only order the
// failure modes, this transaction is what actually enforces them.
//
// Capacity counts tickets in PENDING or PAID. Counting PAID alone would
// let concurrent buyers race past the last slot as pending tickets and
// all settle later, breaking the paid <= capacity invariant.
func (r *TicketRepository) CreatePending(ctx context.Context, userID, eventID, qrToken string) (*models.Ticket, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var capacity int
	err = tx.QueryRowContext(ctx,
		`SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, eventID,
	).Scan(&capacity)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock event: %w", err)
	}

	var hasActive bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM tickets
			WHERE user_id = $1 AND event_id = $2 AND status IN ('PENDING', 'PAID')
		)`, userID, eventID,
	).Scan(&hasActive)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing ticket: %w", err)
	}
	if hasActive {
		return nil, apperrors.ErrDuplicateTicket
	}

	var active int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tickets
		WHERE event_id = $1 AND status IN ('PENDING', 'PAID')`, eventID,
	).Scan(&active)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}
	if active >= capacity {
		return nil, apperrors.ErrSoldOut
	}

	ticket := &models.Ticket{
		UserID:  userID,
		EventID: eventID,
		Status:  models.TicketStatusPending,
		QRToken: qrToken,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO tickets (user_id, event_id, status, qr_token)
		VALUES ($1, $2, 'PENDING', $3)
		RETURNING id, created_at, updated_at`,
		userID, eventID, qrToken,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			// Partial unique index backstop; reachable only if another
			// connection committed between our check and insert.
			return nil, apperrors.ErrDuplicateTicket
		}
		return nil, fmt.Errorf("failed to insert ticket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ticket: %w", err)
	}

	return ticket, nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	query := `
		SELECT id, user_id, event_id, status, qr_token, qr_code, scanned_at,
		       created_at, updated_at
		FROM tickets
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.EventID,
		&ticket.Status,
		&ticket.QRToken,
		&ticket.QRCode,
		&ticket.ScannedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return ticket, err
}

func (r *TicketRepository) SetQRCode(ctx context.Context, id, qrCode string) error {
	query := `UPDATE tickets SET qr_code = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, qrCode, id)
	return err
}

// Cancel moves a ticket to CANCELLED only while it is still active. The
// status condition keeps a scanned ticket terminal even if two cancel
// requests race.
func (r *TicketRepository) Cancel(ctx context.Context, id string) error {
	query := `
		UPDATE tickets SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = $1 AND status IN ('PENDING', 'PAID')`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// MarkScanned records the scan outcome after a redemption token has been
// consumed. The coordination store is the source of truth for "already
// redeemed"; this is bookkeeping and is conditional so replays are no-ops.
func (r *TicketRepository) MarkScanned(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE tickets SET status = 'SCANNED', scanned_at = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'PAID'`
	_, err := r.db.ExecContext(ctx, query, id, at)
	return err
}
