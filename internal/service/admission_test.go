package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventide/internal/apperrors"
	"eventide/internal/models"
)

func futureEvent() *models.Event {
	return &models.Event{
		ID:         "evt-1",
		Title:      "Go Conference",
		StartTime:  time.Now().Add(24 * time.Hour),
		EndTime:    time.Now().Add(30 * time.Hour),
		Capacity:   100,
		PriceMinor: 1000000,
		Status:     models.EventStatusPublished,
	}
}

func setupAdmission() (*AdmissionService, *mockEventStore, *mockTicketStore, *mockCoordinationStore, *mockPublisher) {
	events := &mockEventStore{}
	tickets := &mockTicketStore{}
	store := &mockCoordinationStore{}
	publisher := &mockPublisher{}
	svc := &AdmissionService{
		events:    events,
		tickets:   tickets,
		store:     store,
		publisher: publisher,
	}
	return svc, events, tickets, store, publisher
}

func TestAdmission_Purchase_Success(t *testing.T) {
	svc, events, tickets, _, publisher := setupAdmission()
	ctx := context.Background()

	event := futureEvent()
	events.On("GetByID", ctx, event.ID).Return(event, nil)
	tickets.On("CreatePending", ctx, "user-1", event.ID, mock.AnythingOfType("string")).
		Return(&models.Ticket{
			ID:      "tkt-1",
			UserID:  "user-1",
			EventID: event.ID,
			Status:  models.TicketStatusPending,
		}, nil)
	publisher.On("Publish", models.EventTicketCreated, mock.Anything).Return(nil)

	ticket, err := svc.Purchase(ctx, "user-1", event.ID)

	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusPending, ticket.Status)
	tickets.AssertExpectations(t)
	publisher.AssertExpectations(t)

	// The token handed to the store must be fresh and high-entropy.
	token := tickets.Calls[0].Arguments.String(3)
	assert.Len(t, token, qrTokenBytes*2)
}

func TestAdmission_Purchase_EventNotFound(t *testing.T) {
	svc, events, tickets, _, _ := setupAdmission()
	ctx := context.Background()

	events.On("GetByID", ctx, "missing").Return(nil, nil)

	_, err := svc.Purchase(ctx, "user-1", "missing")

	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	tickets.AssertNotCalled(t, "CreatePending", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdmission_Purchase_NotPublished(t *testing.T) {
	svc, events, _, _, _ := setupAdmission()
	ctx := context.Background()

	event := futureEvent()
	event.Status = models.EventStatusDraft
	events.On("GetByID", ctx, event.ID).Return(event, nil)

	_, err := svc.Purchase(ctx, "user-1", event.ID)

	assert.ErrorIs(t, err, apperrors.ErrEventNotOnSale)
}

func TestAdmission_Purchase_AlreadyStarted(t *testing.T) {
	svc, events, _, _, _ := setupAdmission()
	ctx := context.Background()

	event := futureEvent()
	event.StartTime = time.Now().Add(-time.Hour)
	events.On("GetByID", ctx, event.ID).Return(event, nil)

	_, err := svc.Purchase(ctx, "user-1", event.ID)

	assert.ErrorIs(t, err, apperrors.ErrEventNotOnSale)
}

func TestAdmission_Purchase_Duplicate(t *testing.T) {
	svc, events, tickets, _, _ := setupAdmission()
	ctx := context.Background()

	event := futureEvent()
	events.On("GetByID", ctx, event.ID).Return(event, nil)
	tickets.On("CreatePending", ctx, "user-1", event.ID, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrDuplicateTicket)

	_, err := svc.Purchase(ctx, "user-1", event.ID)

	assert.ErrorIs(t, err, apperrors.ErrDuplicateTicket)
}

func TestAdmission_Purchase_SoldOut(t *testing.T) {
	svc, events, tickets, _, _ := setupAdmission()
	ctx := context.Background()

	event := futureEvent()
	events.On("GetByID", ctx, event.ID).Return(event, nil)
	tickets.On("CreatePending", ctx, "user-1", event.ID, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrSoldOut)

	_, err := svc.Purchase(ctx, "user-1", event.ID)

	assert.ErrorIs(t, err, apperrors.ErrSoldOut)
}

func TestAdmission_Cancel_Success(t *testing.T) {
	svc, _, tickets, store, publisher := setupAdmission()
	ctx := context.Background()

	tickets.On("GetByID", ctx, "tkt-1").Return(&models.Ticket{
		ID:      "tkt-1",
		UserID:  "user-1",
		EventID: "evt-1",
		Status:  models.TicketStatusPaid,
		QRToken: "tok-1",
	}, nil)
	tickets.On("Cancel", ctx, "tkt-1").Return(nil)
	store.On("Delete", ctx, "qr:verify:tok-1").Return(nil)
	publisher.On("Publish", models.EventTicketCancelled, mock.Anything).Return(nil)

	err := svc.Cancel(ctx, "tkt-1", "user-1")

	require.NoError(t, err)
	store.AssertExpectations(t)
	tickets.AssertExpectations(t)
}

func TestAdmission_Cancel_Forbidden(t *testing.T) {
	svc, _, tickets, _, _ := setupAdmission()
	ctx := context.Background()

	tickets.On("GetByID", ctx, "tkt-1").Return(&models.Ticket{
		ID:     "tkt-1",
		UserID: "someone-else",
		Status: models.TicketStatusPending,
	}, nil)

	err := svc.Cancel(ctx, "tkt-1", "user-1")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	tickets.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestAdmission_Cancel_ScannedIsTerminal(t *testing.T) {
	svc, _, tickets, _, _ := setupAdmission()
	ctx := context.Background()

	tickets.On("GetByID", ctx, "tkt-1").Return(&models.Ticket{
		ID:     "tkt-1",
		UserID: "user-1",
		Status: models.TicketStatusScanned,
	}, nil)

	err := svc.Cancel(ctx, "tkt-1", "user-1")

	assert.ErrorIs(t, err, apperrors.ErrTicketScanned)
	tickets.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}
