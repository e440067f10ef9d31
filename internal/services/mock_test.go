package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"event-ticketing-storefront/internal/models"
)

// MockBackend is a mock implementation of CheckoutAPI and OutcomeAPI
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) CreatePayment(ctx context.Context, provider models.PaymentProvider, req models.CreatePaymentRequest) (*models.PaymentSession, error) {
	args := m.Called(ctx, provider, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentSession), args.Error(1)
}

func (m *MockBackend) SuccessPayment(ctx context.Context, orderCode string) (*models.PaymentCheckResult, error) {
	args := m.Called(ctx, orderCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentCheckResult), args.Error(1)
}

func (m *MockBackend) FailPayment(ctx context.Context, orderCode string) (*models.PaymentCheckResult, error) {
	args := m.Called(ctx, orderCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentCheckResult), args.Error(1)
}

// recordingOpener remembers every URL it was asked to open
type recordingOpener struct {
	opened []string
	err    error
}

func (o *recordingOpener) Open(url string) error {
	o.opened = append(o.opened, url)
	return o.err
}

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) Replace(path string) {
	n.paths = append(n.paths, path)
}

// concertEvent has VIP at 100000 and General at 50000
func concertEvent() *models.Event {
	return &models.Event{
		ID:    7,
		Title: "Concert",
		TicketTypes: []models.TicketType{
			{ID: 11, TypeName: "VIP", Price: 100000, Quantity: 10},
			{ID: 12, TypeName: "General", Price: 50000, Quantity: 100},
		},
	}
}

func validContact() models.Contact {
	return models.Contact{FullName: "Nguyen Van A", Email: "a@example.com", Phone: "0901234567"}
}
