package models

import (
	"encoding/json"
	"time"
)

// Event lifecycle states
const (
	EventStatusDraft     = "DRAFT"
	EventStatusPublished = "PUBLISHED"
	EventStatusCancelled = "CANCELLED"
	EventStatusCompleted = "COMPLETED"
)

// Ticket lifecycle states
const (
	TicketStatusPending   = "PENDING"
	TicketStatusPaid      = "PAID"
	TicketStatusScanned   = "SCANNED"
	TicketStatusCancelled = "CANCELLED"
)

// Payment lifecycle states
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusSuccess  = "SUCCESS"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

// User represents an account in the system. Token issuance lives outside
// this service; user rows exist here for ownership checks.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	FirstName *string   `json:"first_name" db:"first_name"`
	LastName  *string   `json:"last_name" db:"last_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Event represents an event tickets are sold for
type Event struct {
	ID          string    `json:"id" db:"id"`
	CreatorID   string    `json:"creator_id" db:"creator_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Location    string    `json:"location" db:"location"`
	StartTime   time.Time `json:"start_time" db:"start_time"`
	EndTime     time.Time `json:"end_time" db:"end_time"`
	Capacity    int       `json:"capacity" db:"capacity"`
	PriceMinor  int64     `json:"price_minor" db:"price_minor"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Ticket represents a single admission claim for one user and one event.
// QRToken is generated once at creation and never reused across tickets.
type Ticket struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	EventID   string     `json:"event_id" db:"event_id"`
	Status    string     `json:"status" db:"status"`
	QRToken   string     `json:"-" db:"qr_token"`
	QRCode    *string    `json:"qr_code,omitempty" db:"qr_code"`
	ScannedAt *time.Time `json:"scanned_at" db:"scanned_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// Payment represents one settlement attempt for a ticket. A new row is
// created per initialization attempt; GatewayReference is unique once set.
type Payment struct {
	ID               string          `json:"id" db:"id"`
	TicketID         string          `json:"ticket_id" db:"ticket_id"`
	EventID          string          `json:"event_id" db:"event_id"`
	AmountMinor      int64           `json:"amount_minor" db:"amount_minor"`
	Currency         string          `json:"currency" db:"currency"`
	Status           string          `json:"status" db:"status"`
	GatewayReference *string         `json:"gateway_reference" db:"gateway_reference"`
	GatewayData      json.RawMessage `json:"-" db:"gateway_data"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}
