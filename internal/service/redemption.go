package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eventide/internal/apperrors"
	"eventide/internal/cache"
	"eventide/internal/logger"
	"eventide/internal/metrics"
	"eventide/internal/models"
	"eventide/internal/qr"
)

// RedemptionService mints single-use redemption artifacts and consumes
// them exactly once at scan time.
type RedemptionService struct {
	tickets   ticketStore
	events    eventStore
	store     coordinationStore
	publisher eventPublisher
	cfg       Config
}

func NewRedemptionService(tickets ticketStore, events eventStore, store coordinationStore, publisher eventPublisher, cfg Config) *RedemptionService {
	if cfg.RedemptionGrace == 0 {
		cfg.RedemptionGrace = 24 * time.Hour
	}
	return &RedemptionService{
		tickets:   tickets,
		events:    events,
		store:     store,
		publisher: publisher,
		cfg:       cfg,
	}
}

// IssueArtifact stores the ticket's verification payload in the
// coordination store under its redemption token and renders the QR
// artifact that encodes the verification URL. The claim expires a grace
// window after the event ends, so staff can still scan shortly after, and
// nothing stays redeemable past that regardless of whether it was scanned.
func (s *RedemptionService) IssueArtifact(ctx context.Context, ticketID string) (string, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return "", fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return "", apperrors.ErrTicketNotFound
	}
	// Only settled tickets get a claim. A ticket cancelled between
	// checkout and webhook delivery must never become scannable.
	if ticket.Status != models.TicketStatusPaid {
		return "", apperrors.ErrTicketNotPaid
	}

	event, err := s.events.GetByID(ctx, ticket.EventID)
	if err != nil {
		return "", fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return "", apperrors.ErrEventNotFound
	}

	claim := models.RedemptionClaim{
		TicketID:  ticket.ID,
		EventID:   ticket.EventID,
		EventName: event.Title,
	}
	payload, err := json.Marshal(claim)
	if err != nil {
		return "", fmt.Errorf("failed to marshal redemption claim: %w", err)
	}

	ttl := time.Until(event.EndTime)
	if ttl < 0 {
		ttl = 0
	}
	ttl += s.cfg.RedemptionGrace

	if err := s.store.Set(ctx, cache.RedemptionKey(ticket.QRToken), string(payload), ttl); err != nil {
		return "", fmt.Errorf("failed to store redemption claim: %w", err)
	}

	artifact, err := qr.Render(s.cfg.VerifyBaseURL + "/verify/" + ticket.QRToken)
	if err != nil {
		return "", fmt.Errorf("failed to render QR artifact: %w", err)
	}

	if err := s.tickets.SetQRCode(ctx, ticket.ID, artifact); err != nil {
		return "", fmt.Errorf("failed to persist QR artifact: %w", err)
	}

	return artifact, nil
}

// Redeem consumes a redemption token. The single GETDEL is the
// exactly-once guarantee: of N concurrent scans of the same token, only
// the one that observes-and-deletes the claim succeeds. The durable-store
// update afterwards is best-effort bookkeeping.
func (s *RedemptionService) Redeem(ctx context.Context, token string) (*models.RedeemTicketResponse, error) {
	val, found, err := s.store.GetDel(ctx, cache.RedemptionKey(token))
	if err != nil {
		return nil, fmt.Errorf("failed to consume redemption claim: %w", err)
	}
	if !found {
		metrics.Redemption("rejected")
		return nil, apperrors.ErrInvalidOrExpired
	}

	var claim models.RedemptionClaim
	if err := json.Unmarshal([]byte(val), &claim); err != nil {
		return nil, fmt.Errorf("failed to parse redemption claim: %w", err)
	}

	if err := s.tickets.MarkScanned(ctx, claim.TicketID, time.Now()); err != nil {
		logger.WithContext(ctx).Error("Failed to record scan on ticket",
			"error", err,
			"ticket_id", claim.TicketID)
	}

	if s.publisher != nil {
		evt := models.TicketScannedEvent{
			TicketID:  claim.TicketID,
			EventID:   claim.EventID,
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(models.EventTicketScanned, evt); err != nil {
			logger.WithContext(ctx).Error("Failed to publish ticket scanned event",
				"error", err,
				"ticket_id", claim.TicketID)
		}
	}

	metrics.Redemption("redeemed")
	return &models.RedeemTicketResponse{
		Valid:     true,
		TicketID:  claim.TicketID,
		EventID:   claim.EventID,
		EventName: claim.EventName,
	}, nil
}
