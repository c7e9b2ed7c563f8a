package service

import (
	"context"
	"encoding/json"
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

// amountTolerance allows ±1 minor unit between the submitted amount and
// the event price. It compensates for rounding slack in upstream price
// conversion; do not widen it.
const amountTolerance = 1

// SettlementService initializes payment intents against the gateway and
// reconciles its asynchronous webhook deliveries into terminal
// ticket/payment state, exactly once per logical payment event.
type SettlementService struct {
	tickets    ticketStore
	events     eventStore
	payments   paymentStore
	store      coordinationStore
	gateway    checkoutGateway
	redemption *RedemptionService
	publisher  eventPublisher
	cfg        Config
}

func NewSettlementService(tickets ticketStore, events eventStore, payments paymentStore, store coordinationStore, gateway checkoutGateway, redemption *RedemptionService, publisher eventPublisher, cfg Config) *SettlementService {
	if cfg.WebhookDedupTTL == 0 {
		cfg.WebhookDedupTTL = time.Hour
	}
	if cfg.Currency == "" {
		cfg.Currency = "NGN"
	}
	return &SettlementService{
		tickets:    tickets,
		events:     events,
		payments:   payments,
		store:      store,
		gateway:    gateway,
		redemption: redemption,
		publisher:  publisher,
		cfg:        cfg,
	}
}

// Initialize opens a checkout session for a pending ticket. The payment row
// is created first and its id used as the gateway reference, so the webhook
// can be correlated back; if the gateway call fails the row is rolled back
// and the gateway error surfaced.
func (s *SettlementService) Initialize(ctx context.Context, userID, ticketID, email string, amountMinor int64) (*models.InitializePaymentResponse, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, apperrors.ErrTicketNotFound
	}
	if ticket.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if ticket.Status != models.TicketStatusPending {
		return nil, apperrors.ErrTicketNotPending
	}

	event, err := s.events.GetByID(ctx, ticket.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}

	if diff := amountMinor - event.PriceMinor; diff > amountTolerance || diff < -amountTolerance {
		return nil, apperrors.ErrAmountMismatch
	}

	payment := &models.Payment{
		TicketID:    ticket.ID,
		EventID:     ticket.EventID,
		AmountMinor: amountMinor,
		Currency:    s.cfg.Currency,
		Status:      models.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	session, err := s.gateway.InitializeCheckout(ctx, payment.ID, amountMinor, email)
	if err != nil {
		if delErr := s.payments.Delete(ctx, payment.ID); delErr != nil {
			logger.WithContext(ctx).Error("Failed to roll back payment after gateway error",
				"error", delErr,
				"payment_id", payment.ID)
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrGateway, err)
	}

	if err := s.payments.SetGatewayReference(ctx, payment.ID, session.Reference); err != nil {
		// Without the reference the webhook can never correlate back to
		// this row; drop it and log the orphaned checkout session.
		if delErr := s.payments.Delete(ctx, payment.ID); delErr != nil {
			logger.WithContext(ctx).Error("Failed to roll back payment after reference persist error",
				"error", delErr,
				"payment_id", payment.ID)
		}
		logger.WithContext(ctx).Error("Abandoned gateway checkout session",
			"payment_id", payment.ID,
			"reference", session.Reference)
		return nil, fmt.Errorf("failed to persist gateway reference: %w", err)
	}

	if s.publisher != nil {
		evt := models.PaymentInitiatedEvent{
			PaymentID:   payment.ID,
			TicketID:    ticket.ID,
			AmountMinor: amountMinor,
			Timestamp:   time.Now(),
		}
		if err := s.publisher.Publish(models.EventPaymentInitiated, evt); err != nil {
			logger.WithContext(ctx).Error("Failed to publish payment initiated event",
				"error", err,
				"payment_id", payment.ID)
		}
	}

	return &models.InitializePaymentResponse{
		AuthorizationURL: session.AuthorizationURL,
		PaymentID:        payment.ID,
		Reference:        session.Reference,
	}, nil
}

// Verify fetches the gateway's view of a transaction for manual
// reconciliation.
func (s *SettlementService) Verify(ctx context.Context, reference string) (json.RawMessage, error) {
	data, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrGateway, err)
	}
	return data, nil
}

// Reconcile applies one webhook delivery. The gateway delivers at least
// once; the dedup marker plus the terminal-state guard make every
// redelivery of the same logical event produce the same observable
// outcome. Business non-events come back as negative WebhookResults, not
// errors - only signature failures and infrastructure faults are errors.
func (s *SettlementService) Reconcile(ctx context.Context, rawBody []byte, sig string) (*models.WebhookResult, error) {
	if !signature.Verify(rawBody, sig, s.cfg.WebhookSecret) {
		metrics.SignatureFailure()
		logger.WithContext(ctx).Error("Webhook signature verification failed",
			"body_len", len(rawBody))
		return nil, apperrors.ErrInvalidSignature
	}

	var evt models.WebhookEvent
	if err := json.Unmarshal(rawBody, &evt); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	dedupKey := cache.WebhookKey(evt.ID.String())
	claimed, err := s.store.SetIfAbsent(ctx, dedupKey, "1", s.cfg.WebhookDedupTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to claim webhook dedup marker: %w", err)
	}
	if !claimed {
		metrics.WebhookResult(models.WebhookReasonDuplicate)
		return &models.WebhookResult{Processed: false, Reason: models.WebhookReasonDuplicate}, nil
	}

	if evt.Event != "charge.success" {
		metrics.WebhookResult(models.WebhookReasonNonSuccessEvent)
		return &models.WebhookResult{Processed: false, Reason: models.WebhookReasonNonSuccessEvent}, nil
	}

	var charge models.WebhookCharge
	if err := json.Unmarshal(evt.Data, &charge); err != nil {
		return nil, fmt.Errorf("failed to parse webhook charge: %w", err)
	}
	if charge.Status != "success" {
		metrics.WebhookResult(models.WebhookReasonFailedPayment)
		return &models.WebhookResult{Processed: false, Reason: models.WebhookReasonFailedPayment}, nil
	}

	payment, err := s.payments.GetByReference(ctx, charge.Reference)
	if err != nil {
		return nil, fmt.Errorf("failed to look up payment: %w", err)
	}
	if payment == nil {
		// The payment row may not be committed yet if initialization is
		// still in flight. Release the marker so the gateway's redelivery
		// can succeed once the row is visible.
		s.releaseDedupMarker(ctx, dedupKey)
		metrics.WebhookResult(models.WebhookReasonPaymentNotFound)
		return &models.WebhookResult{Processed: false, Reason: models.WebhookReasonPaymentNotFound}, nil
	}

	if payment.Status == models.PaymentStatusSuccess {
		// Defense in depth past dedup marker expiry. If an earlier delivery
		// settled the payment but died before minting the artifact, repair
		// it here without re-charging.
		s.repairMissingArtifact(ctx, payment.TicketID)
		metrics.WebhookResult(models.WebhookReasonAlreadyProcessed)
		return &models.WebhookResult{Processed: false, Reason: models.WebhookReasonAlreadyProcessed}, nil
	}

	if err := s.payments.MarkSucceeded(ctx, payment.ID, payment.TicketID, evt.Data); err != nil {
		s.releaseDedupMarker(ctx, dedupKey)
		return nil, fmt.Errorf("failed to settle payment: %w", err)
	}

	if _, err := s.redemption.IssueArtifact(ctx, payment.TicketID); err != nil {
		if errors.Is(err, apperrors.ErrTicketNotPaid) {
			// The ticket was cancelled between checkout and settlement.
			// The payment stays settled for refund handling; nothing
			// becomes scannable.
			metrics.WebhookResult(models.WebhookReasonTicketCancelled)
			logger.WithContext(ctx).Warn("Settled payment for a cancelled ticket",
				"payment_id", payment.ID,
				"ticket_id", payment.TicketID)
			return &models.WebhookResult{Processed: false, Reason: models.WebhookReasonTicketCancelled, PaymentID: payment.ID}, nil
		}
		// The payment is settled; releasing the marker lets the gateway's
		// redelivery retry artifact generation via the already-processed
		// path above.
		s.releaseDedupMarker(ctx, dedupKey)
		return nil, fmt.Errorf("failed to issue redemption artifact: %w", err)
	}

	if s.publisher != nil {
		completed := models.PaymentCompletedEvent{
			PaymentID: payment.ID,
			TicketID:  payment.TicketID,
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(models.EventPaymentCompleted, completed); err != nil {
			logger.WithContext(ctx).Error("Failed to publish payment completed event",
				"error", err,
				"payment_id", payment.ID)
		}
	}

	metrics.WebhookResult(models.WebhookReasonProcessed)
	return &models.WebhookResult{Processed: true, PaymentID: payment.ID}, nil
}

func (s *SettlementService) releaseDedupMarker(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		logger.WithContext(ctx).Error("Failed to release webhook dedup marker",
			"error", err,
			"key", key)
	}
}

func (s *SettlementService) repairMissingArtifact(ctx context.Context, ticketID string) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil || ticket == nil {
		return
	}
	if ticket.Status != models.TicketStatusPaid || ticket.QRCode != nil {
		return
	}
	if _, err := s.redemption.IssueArtifact(ctx, ticketID); err != nil {
		logger.WithContext(ctx).Error("Failed to repair missing redemption artifact",
			"error", err,
			"ticket_id", ticketID)
	}
}
