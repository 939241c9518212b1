package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"rentwheels-backend/internal/domain"
	"rentwheels-backend/internal/payment"
)

type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rt *domain.Rental) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}

func (m *MockRentalRepo) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalRepo) Update(ctx context.Context, rt *domain.Rental) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}

func (m *MockRentalRepo) ListByRenter(ctx context.Context, renterID int64, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, renterID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}

func (m *MockRentalRepo) ListByCar(ctx context.Context, carID int64, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, carID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}

func (m *MockRentalRepo) FindOverlapping(ctx context.Context, carID int64, start, end time.Time, excludeID int64) ([]domain.Rental, error) {
	args := m.Called(ctx, carID, start, end, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}

func (m *MockRentalRepo) ConfirmExclusive(ctx context.Context, rt *domain.Rental, evt *domain.Event) error {
	args := m.Called(ctx, rt, evt)
	return args.Error(0)
}

func (m *MockRentalRepo) UpdateWithEvent(ctx context.Context, rt *domain.Rental, evt *domain.Event) error {
	args := m.Called(ctx, rt, evt)
	return args.Error(0)
}

func (m *MockRentalRepo) FinishWithRelease(ctx context.Context, rt *domain.Rental, carStatus domain.CarStatus, evt *domain.Event) error {
	args := m.Called(ctx, rt, carStatus, evt)
	return args.Error(0)
}

func (m *MockRentalRepo) ListInUsePastEnd(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}

func (m *MockRentalRepo) ListUnpaidPenalties(ctx context.Context) ([]domain.Rental, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}

type MockCarRepo struct {
	mock.Mock
}

func (m *MockCarRepo) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) Update(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepo) GetLatestByRental(ctx context.Context, rentalID int64, purpose domain.PaymentPurpose) (*domain.Payment, error) {
	args := m.Called(ctx, rentalID, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

type MockWaiverRepo struct {
	mock.Mock
}

func (m *MockWaiverRepo) CreateWithRentalAdjustment(ctx context.Context, w *domain.PenaltyWaiver, rt *domain.Rental, evt *domain.Event) error {
	args := m.Called(ctx, w, rt, evt)
	return args.Error(0)
}

func (m *MockWaiverRepo) ListByRental(ctx context.Context, rentalID int64) ([]domain.PenaltyWaiver, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PenaltyWaiver), args.Error(1)
}

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Append(ctx context.Context, evt *domain.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockOutboxRepo) ListPending(ctx context.Context, limit int32) ([]domain.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockOutboxRepo) MarkDelivered(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepo) MarkFailed(ctx context.Context, id int64, attempts int32, lastError string, terminal bool) error {
	args := m.Called(ctx, id, attempts, lastError, terminal)
	return args.Error(0)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Authorize(ctx context.Context, amountCents int64, currency, payerRef, idempotencyKey string) (payment.Result, error) {
	args := m.Called(ctx, amountCents, currency, payerRef, idempotencyKey)
	return args.Get(0).(payment.Result), args.Error(1)
}

func (m *MockPaymentGateway) Capture(ctx context.Context, transactionID string, amountCents int64, idempotencyKey string) (payment.Result, error) {
	args := m.Called(ctx, transactionID, amountCents, idempotencyKey)
	return args.Get(0).(payment.Result), args.Error(1)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, transactionID string, amountCents int64, idempotencyKey string) (payment.Result, error) {
	args := m.Called(ctx, transactionID, amountCents, idempotencyKey)
	return args.Get(0).(payment.Result), args.Error(1)
}

type MockEventSink struct {
	mock.Mock
}

func (m *MockEventSink) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockEventSink) Deliver(ctx context.Context, evt *domain.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}
