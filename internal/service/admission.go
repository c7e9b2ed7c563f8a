package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventide/internal/apperrors"
	"eventide/internal/cache"
	"eventide/internal/logger"
	"eventide/internal/metrics"
	"eventide/internal/models"
	"eventide/internal/signature"
)

const qrTokenBytes = 32

// AdmissionService decides whether a new ticket may be issued for an event
type AdmissionService struct {
	events    eventStore
	tickets   ticketStore
	store     coordinationStore
	publisher eventPublisher
}

func NewAdmissionService(events eventStore, tickets ticketStore, store coordinationStore, publisher eventPublisher) *AdmissionService {
	return &AdmissionService{
		events:    events,
		tickets:   tickets,
		store:     store,
		publisher: publisher,
	}
}

// Purchase admits userID to eventID with a fresh PENDING ticket. The
// preconditions fail in a fixed order: event availability, duplicate
// ownership, capacity. The last two are enforced inside the store
// transaction; see TicketRepository.CreatePending.
func (s *AdmissionService) Purchase(ctx context.Context, userID, eventID string) (*models.Ticket, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		metrics.PurchaseAttempt("not_found")
		return nil, apperrors.ErrEventNotFound
	}
	if event.Status != models.EventStatusPublished {
		metrics.PurchaseAttempt("not_on_sale")
		return nil, apperrors.ErrEventNotOnSale
	}
	if !event.StartTime.After(time.Now()) {
		metrics.PurchaseAttempt("not_on_sale")
		return nil, apperrors.ErrEventNotOnSale
	}

	token, err := signature.NewToken(qrTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate redemption token: %w", err)
	}

	ticket, err := s.tickets.CreatePending(ctx, userID, eventID, token)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicateTicket):
			metrics.PurchaseAttempt("duplicate")
		case errors.Is(err, apperrors.ErrSoldOut):
			metrics.PurchaseAttempt("sold_out")
		default:
			metrics.PurchaseAttempt("error")
		}
		return nil, err
	}
	metrics.PurchaseAttempt("created")

	if s.publisher != nil {
		evt := models.TicketCreatedEvent{
			TicketID:  ticket.ID,
			EventID:   ticket.EventID,
			UserID:    ticket.UserID,
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(models.EventTicketCreated, evt); err != nil {
			logger.WithContext(ctx).Error("Failed to publish ticket created event",
				"error", err,
				"ticket_id", ticket.ID)
		}
	}

	return ticket, nil
}

// Cancel lets the owner abandon a ticket that has not been scanned. Any
// outstanding redemption claim is revoked from the coordination store so a
// cancelled ticket cannot be scanned afterwards.
func (s *AdmissionService) Cancel(ctx context.Context, ticketID, userID string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return apperrors.ErrTicketNotFound
	}
	if ticket.UserID != userID {
		return apperrors.ErrForbidden
	}
	if ticket.Status == models.TicketStatusScanned {
		return apperrors.ErrTicketScanned
	}

	if err := s.tickets.Cancel(ctx, ticketID); err != nil {
		return fmt.Errorf("failed to cancel ticket: %w", err)
	}

	if err := s.store.Delete(ctx, cache.RedemptionKey(ticket.QRToken)); err != nil {
		logger.WithContext(ctx).Error("Failed to revoke redemption claim for cancelled ticket",
			"error", err,
			"ticket_id", ticketID)
	}

	if s.publisher != nil {
		evt := models.TicketCancelledEvent{
			TicketID:  ticket.ID,
			EventID:   ticket.EventID,
			UserID:    ticket.UserID,
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(models.EventTicketCancelled, evt); err != nil {
			logger.WithContext(ctx).Error("Failed to publish ticket cancelled event",
				"error", err,
				"ticket_id", ticket.ID)
		}
	}

	return nil
}
