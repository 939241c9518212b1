package service

import (
	"context"

	"rentwheels-backend/internal/domain"
)

type RentalService interface {
	RequestRental(ctx context.Context, renterID, carID int64, startDate, endDate string) (*domain.Rental, error)
	ConfirmRental(ctx context.Context, rentalID int64) (*domain.Rental, error)
	PickupRental(ctx context.Context, rentalID int64, notes string) (*domain.Rental, error)
	ReturnRental(ctx context.Context, rentalID int64, notes string) (*domain.Rental, error)
	CancelRental(ctx context.Context, rentalID, callerID int64, isAdmin bool) (*domain.Rental, error)
	GetRental(ctx context.Context, rentalID int64) (*domain.Rental, error)
	ListRentals(ctx context.Context, renterID int64, page, pageSize int32) ([]domain.Rental, int32, error)
	ListCarRentals(ctx context.Context, carID int64, page, pageSize int32) ([]domain.Rental, int32, error)
}

type WaiverService interface {
	WaiveFullPenalty(ctx context.Context, rentalID int64, reason string, adminID int64) (*domain.PenaltyWaiver, error)
	WaivePartialPenalty(ctx context.Context, rentalID, amountCents int64, reason string, adminID int64) (*domain.PenaltyWaiver, error)
	GetPenaltyHistory(ctx context.Context, rentalID int64) ([]domain.PenaltyWaiver, error)
}

// EventSink is one delivery channel of the notifier fan-out. Sink failures
// are retried by the dispatcher and never reach the lifecycle caller.
type EventSink interface {
	Name() string
	Deliver(ctx context.Context, evt *domain.Event) error
}

type EmailService interface {
	SendLifecycleNotice(ctx context.Context, subject, body string) error
}
