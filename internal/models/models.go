package models

import "encoding/json"

// PurchaseTicketRequest - request to claim a ticket for an event
type PurchaseTicketRequest struct {
	EventID string `json:"event_id" binding:"required"`
}

// CancelTicketRequest - request to cancel a ticket
type CancelTicketRequest struct {
	TicketID string `json:"ticket_id" binding:"required"`
}

// InitializePaymentRequest - request to open a checkout session for a ticket
type InitializePaymentRequest struct {
	TicketID    string `json:"ticket_id" binding:"required"`
	Email       string `json:"email" binding:"required"`
	AmountMinor int64  `json:"amount" binding:"required"`
}

// InitializePaymentResponse - checkout session returned to the caller
type InitializePaymentResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	PaymentID        string `json:"payment_id"`
	Reference        string `json:"reference"`
}

// Webhook short-circuit reasons. These are expected steady-state outcomes
// under at-least-once delivery, not errors.
const (
	WebhookReasonDuplicate        = "duplicate"
	WebhookReasonNonSuccessEvent  = "non_success_event"
	WebhookReasonFailedPayment    = "failed_payment"
	WebhookReasonPaymentNotFound  = "payment_not_found"
	WebhookReasonAlreadyProcessed = "already_processed"
	WebhookReasonTicketCancelled  = "ticket_cancelled"
)

// WebhookReasonProcessed labels the single successful settlement of a
// logical payment event.
const WebhookReasonProcessed = "processed"

// WebhookResult - structured outcome of one webhook delivery
type WebhookResult struct {
	Processed bool   `json:"processed"`
	Reason    string `json:"reason,omitempty"`
	PaymentID string `json:"payment_id,omitempty"`
}

// WebhookEvent - gateway webhook envelope. Data is kept raw so the exact
// bytes can be stored for audit.
type WebhookEvent struct {
	ID    json.Number     `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// WebhookCharge - the nested charge object of a webhook event
type WebhookCharge struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

// RedeemTicketResponse - the verification payload returned to scanning staff
type RedeemTicketResponse struct {
	Valid     bool   `json:"valid"`
	TicketID  string `json:"ticket_id"`
	EventID   string `json:"event_id"`
	EventName string `json:"event_name"`
}

// RedemptionClaim - the value stored in the coordination store under a
// ticket's redemption token while the ticket is still redeemable
type RedemptionClaim struct {
	TicketID  string `json:"ticket_id"`
	EventID   string `json:"event_id"`
	EventName string `json:"event_name"`
}
