package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"eventide/internal/external"
	"eventide/internal/models"
)

type mockEventStore struct {
	mock.Mock
}

func (m *mockEventStore) GetByID(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if ev, ok := args.Get(0).(*models.Event); ok {
		return ev, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockTicketStore struct {
	mock.Mock
}

func (m *mockTicketStore) CreatePending(ctx context.Context, userID, eventID, qrToken string) (*models.Ticket, error) {
	args := m.Called(ctx, userID, eventID, qrToken)
	if t, ok := args.Get(0).(*models.Ticket); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTicketStore) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*models.Ticket); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTicketStore) SetQRCode(ctx context.Context, id, qrCode string) error {
	args := m.Called(ctx, id, qrCode)
	return args.Error(0)
}

func (m *mockTicketStore) Cancel(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTicketStore) MarkScanned(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type mockPaymentStore struct {
	mock.Mock
}

func (m *mockPaymentStore) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *mockPaymentStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPaymentStore) SetGatewayReference(ctx context.Context, id, reference string) error {
	args := m.Called(ctx, id, reference)
	return args.Error(0)
}

func (m *mockPaymentStore) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	args := m.Called(ctx, reference)
	if p, ok := args.Get(0).(*models.Payment); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentStore) MarkSucceeded(ctx context.Context, paymentID, ticketID string, gatewayData []byte) error {
	args := m.Called(ctx, paymentID, ticketID, gatewayData)
	return args.Error(0)
}

type mockCoordinationStore struct {
	mock.Mock
}

func (m *mockCoordinationStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockCoordinationStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockCoordinationStore) GetDel(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockCoordinationStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) InitializeCheckout(ctx context.Context, reference string, amountMinor int64, email string) (*external.CheckoutSession, error) {
	args := m.Called(ctx, reference, amountMinor, email)
	if s, ok := args.Get(0).(*external.CheckoutSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) VerifyTransaction(ctx context.Context, reference string) (json.RawMessage, error) {
	args := m.Called(ctx, reference)
	if d, ok := args.Get(0).(json.RawMessage); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(subject string, data interface{}) error {
	args := m.Called(subject, data)
	return args.Error(0)
}
