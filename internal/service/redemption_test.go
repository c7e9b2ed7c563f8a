package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventide/internal/apperrors"
	"eventide/internal/models"
)

func setupRedemption() (*RedemptionService, *mockTicketStore, *mockEventStore, *mockCoordinationStore) {
	tickets := &mockTicketStore{}
	events := &mockEventStore{}
	store := &mockCoordinationStore{}
	svc := NewRedemptionService(tickets, events, store, nil, Config{
		VerifyBaseURL:   "https://tickets.example.com",
		RedemptionGrace: 24 * time.Hour,
	})
	return svc, tickets, events, store
}

func TestRedemption_IssueArtifact(t *testing.T) {
	svc, tickets, events, store := setupRedemption()
	ctx := context.Background()

	event := futureEvent()
	tickets.On("GetByID", ctx, "tkt-1").Return(paidTicket(), nil)
	events.On("GetByID", ctx, "evt-1").Return(event, nil)

	var storedValue string
	var storedTTL time.Duration
	store.On("Set", ctx, "qr:verify:tok-1", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			storedValue = args.String(2)
			storedTTL = args.Get(3).(time.Duration)
		}).Return(nil)
	tickets.On("SetQRCode", ctx, "tkt-1", mock.Anything).Return(nil)

	artifact, err := svc.IssueArtifact(ctx, "tkt-1")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(artifact, "data:image/png;base64,"))

	var claim models.RedemptionClaim
	require.NoError(t, json.Unmarshal([]byte(storedValue), &claim))
	assert.Equal(t, "tkt-1", claim.TicketID)
	assert.Equal(t, "evt-1", claim.EventID)
	assert.Equal(t, event.Title, claim.EventName)

	// TTL covers until event end (30h out) plus the 24h grace window.
	assert.Greater(t, storedTTL, 53*time.Hour)
	assert.LessOrEqual(t, storedTTL, 54*time.Hour)
}

func TestRedemption_IssueArtifact_EndedEventKeepsGraceWindow(t *testing.T) {
	svc, tickets, events, store := setupRedemption()
	ctx := context.Background()

	event := futureEvent()
	event.StartTime = time.Now().Add(-3 * time.Hour)
	event.EndTime = time.Now().Add(-time.Hour)
	tickets.On("GetByID", ctx, "tkt-1").Return(paidTicket(), nil)
	events.On("GetByID", ctx, "evt-1").Return(event, nil)

	var storedTTL time.Duration
	store.On("Set", ctx, "qr:verify:tok-1", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			storedTTL = args.Get(3).(time.Duration)
		}).Return(nil)
	tickets.On("SetQRCode", ctx, "tkt-1", mock.Anything).Return(nil)

	_, err := svc.IssueArtifact(ctx, "tkt-1")

	require.NoError(t, err)
	// The elapsed end time never produces a negative TTL; staff still get
	// the full grace window.
	assert.Equal(t, 24*time.Hour, storedTTL)
}

func TestRedemption_IssueArtifact_RequiresPaidTicket(t *testing.T) {
	svc, tickets, _, store := setupRedemption()
	ctx := context.Background()

	for _, status := range []string{
		models.TicketStatusPending,
		models.TicketStatusCancelled,
	} {
		ticket := pendingTicket()
		ticket.Status = status
		tickets.ExpectedCalls = nil
		tickets.On("GetByID", ctx, "tkt-1").Return(ticket, nil)

		_, err := svc.IssueArtifact(ctx, "tkt-1")

		assert.ErrorIs(t, err, apperrors.ErrTicketNotPaid, "status %s", status)
	}
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRedemption_Redeem_Success(t *testing.T) {
	svc, tickets, _, store := setupRedemption()
	ctx := context.Background()

	claim, _ := json.Marshal(models.RedemptionClaim{
		TicketID:  "tkt-1",
		EventID:   "evt-1",
		EventName: "Go Conference",
	})
	store.On("GetDel", ctx, "qr:verify:tok-1").Return(string(claim), true, nil)
	tickets.On("MarkScanned", ctx, "tkt-1", mock.AnythingOfType("time.Time")).Return(nil)

	result, err := svc.Redeem(ctx, "tok-1")

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "tkt-1", result.TicketID)
	assert.Equal(t, "Go Conference", result.EventName)
	tickets.AssertExpectations(t)
}

func TestRedemption_Redeem_ConsumedExactlyOnce(t *testing.T) {
	svc, tickets, _, store := setupRedemption()
	ctx := context.Background()

	claim, _ := json.Marshal(models.RedemptionClaim{TicketID: "tkt-1", EventID: "evt-1"})
	// The store hands the claim to exactly one caller; everyone after
	// observes nothing.
	store.On("GetDel", ctx, "qr:verify:tok-1").Return(string(claim), true, nil).Once()
	store.On("GetDel", ctx, "qr:verify:tok-1").Return("", false, nil)
	tickets.On("MarkScanned", ctx, "tkt-1", mock.AnythingOfType("time.Time")).Return(nil)

	_, err := svc.Redeem(ctx, "tok-1")
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, "tok-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpired)
	_, err = svc.Redeem(ctx, "tok-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpired)
}

func TestRedemption_Redeem_UnknownToken(t *testing.T) {
	svc, tickets, _, store := setupRedemption()
	ctx := context.Background()

	store.On("GetDel", ctx, "qr:verify:nope").Return("", false, nil)

	_, err := svc.Redeem(ctx, "nope")

	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpired)
	tickets.AssertNotCalled(t, "MarkScanned", mock.Anything, mock.Anything, mock.Anything)
}

func TestRedemption_Redeem_BookkeepingFailureStillSucceeds(t *testing.T) {
	svc, tickets, _, store := setupRedemption()
	ctx := context.Background()

	claim, _ := json.Marshal(models.RedemptionClaim{TicketID: "tkt-1", EventID: "evt-1"})
	store.On("GetDel", ctx, "qr:verify:tok-1").Return(string(claim), true, nil)
	tickets.On("MarkScanned", ctx, "tkt-1", mock.AnythingOfType("time.Time")).
		Return(assert.AnError)

	// The coordination store already consumed the claim; the durable-store
	// update is bookkeeping and must not fail the scan.
	result, err := svc.Redeem(ctx, "tok-1")

	require.NoError(t, err)
	assert.True(t, result.Valid)
}
