package models

import "time"

// NATS subjects for domain events
const (
	EventTicketCreated    = "ticket.created"
	EventTicketCancelled  = "ticket.cancelled"
	EventTicketScanned    = "ticket.scanned"
	EventPaymentInitiated = "payment.initiated"
	EventPaymentCompleted = "payment.completed"
)

// TicketCreatedEvent is published after admission creates a pending ticket
type TicketCreatedEvent struct {
	TicketID  string    `json:"ticket_id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// TicketCancelledEvent is published after an owner cancels a ticket
type TicketCancelledEvent struct {
	TicketID  string    `json:"ticket_id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// TicketScannedEvent is published after a redemption token is consumed
type TicketScannedEvent struct {
	TicketID  string    `json:"ticket_id"`
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentInitiatedEvent is published after a checkout session is registered
type PaymentInitiatedEvent struct {
	PaymentID   string    `json:"payment_id"`
	TicketID    string    `json:"ticket_id"`
	AmountMinor int64     `json:"amount_minor"`
	Timestamp   time.Time `json:"timestamp"`
}

// PaymentCompletedEvent is published after a webhook settles a payment
type PaymentCompletedEvent struct {
	PaymentID string    `json:"payment_id"`
	TicketID  string    `json:"ticket_id"`
	Timestamp time.Time `json:"timestamp"`
}
