package repository

import (
	"eventide/internal/database"
)

type Repositories struct {
	Events   *EventRepository
	Tickets  *TicketRepository
	Payments *PaymentRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Events:   NewEventRepository(db),
		Tickets:  NewTicketRepository(db),
		Payments: NewPaymentRepository(db),
	}
}
