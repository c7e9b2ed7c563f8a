// Package service implements the ticketing core: admission control,
// payment settlement reconciliation, and one-time ticket redemption.
package service

import (
	"context"
	"encoding/json"
	"time"

	"eventide/internal/cache"
	"eventide/internal/external"
	"eventide/internal/messaging"
	"eventide/internal/models"
	"eventide/internal/repository"
)

// Store interfaces are defined on the consumer side so the services can be
// unit-tested against mocks; the repository and cache types satisfy them.

type eventStore interface {
	GetByID(ctx context.Context, id string) (*models.Event, error)
}

type ticketStore interface {
	CreatePending(ctx context.Context, userID, eventID, qrToken string) (*models.Ticket, error)
	GetByID(ctx context.Context, id string) (*models.Ticket, error)
	SetQRCode(ctx context.Context, id, qrCode string) error
	Cancel(ctx context.Context, id string) error
	MarkScanned(ctx context.Context, id string, at time.Time) error
}

type paymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id string) error
	SetGatewayReference(ctx context.Context, id, reference string) error
	GetByReference(ctx context.Context, reference string) (*models.Payment, error)
	MarkSucceeded(ctx context.Context, paymentID, ticketID string, gatewayData []byte) error
}

type coordinationStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	GetDel(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

type checkoutGateway interface {
	InitializeCheckout(ctx context.Context, reference string, amountMinor int64, email string) (*external.CheckoutSession, error)
	VerifyTransaction(ctx context.Context, reference string) (json.RawMessage, error)
}

type eventPublisher interface {
	Publish(subject string, data interface{}) error
}

// Config carries the tunables of the core flows
type Config struct {
	// WebhookSecret is the shared HMAC key the gateway signs payloads with
	WebhookSecret string
	// WebhookDedupTTL bounds the replay window of the dedup marker
	WebhookDedupTTL time.Duration
	// VerifyBaseURL is the frontend origin embedded in QR verification links
	VerifyBaseURL string
	// RedemptionGrace keeps tickets scannable for a while after the event ends
	RedemptionGrace time.Duration
	// Currency for payment rows, in ISO 4217
	Currency string
}

type Services struct {
	Admission  *AdmissionService
	Settlement *SettlementService
	Redemption *RedemptionService
}

func NewServices(repos *repository.Repositories, store *cache.Client, gateway *external.PaystackClient, publisher *messaging.NATSClient, cfg Config) *Services {
	redemption := NewRedemptionService(repos.Tickets, repos.Events, store, publisher, cfg)
	return &Services{
		Admission:  NewAdmissionService(repos.Events, repos.Tickets, store, publisher),
		Settlement: NewSettlementService(repos.Tickets, repos.Events, repos.Payments, store, gateway, redemption, publisher, cfg),
		Redemption: redemption,
	}
}
