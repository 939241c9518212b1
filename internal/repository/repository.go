package repository

import (
	"context"
	"time"

	"rentwheels-backend/internal/domain"
)

// CarRepository is read-only here; fleet management owns car writes, and
// the status flips tied to the rental lifecycle happen inside the rental
// repository's transactions.
type CarRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
}

// RentalRepository is plain CRUD plus the transactional unit-of-work methods
// the lifecycle needs. Update and the tx methods guard on the rental's
// optimistic version; a version mismatch fails with a CONFLICT error and is
// never retried here.
type RentalRepository interface {
	Create(ctx context.Context, rt *domain.Rental) error
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	Update(ctx context.Context, rt *domain.Rental) error
	ListByRenter(ctx context.Context, renterID int64, page, pageSize int32) ([]domain.Rental, int32, error)
	ListByCar(ctx context.Context, carID int64, page, pageSize int32) ([]domain.Rental, int32, error)

	// FindOverlapping returns CONFIRMED/IN_USE rentals of the car whose
	// half-open date ranges intersect [start, end), excluding excludeID.
	FindOverlapping(ctx context.Context, carID int64, start, end time.Time, excludeID int64) ([]domain.Rental, error)

	// ConfirmExclusive atomically re-checks the overlap condition under a
	// car row lock, writes the rental, reserves the car and appends the
	// outbox event. An overlap found inside the transaction surfaces as a
	// DATE_OVERLAP error.
	ConfirmExclusive(ctx context.Context, rt *domain.Rental, evt *domain.Event) error

	// UpdateWithEvent writes the rental and appends the outbox event in one
	// transaction (pickup, cancel-from-REQUESTED).
	UpdateWithEvent(ctx context.Context, rt *domain.Rental, evt *domain.Event) error

	// FinishWithRelease writes the rental, moves the car to carStatus and
	// appends the outbox event in one transaction (return, cancel).
	FinishWithRelease(ctx context.Context, rt *domain.Rental, carStatus domain.CarStatus, evt *domain.Event) error

	// ListInUsePastEnd feeds the overdue sweep: IN_USE rentals whose
	// scheduled end is before asOf and which are not yet flagged late.
	ListInUsePastEnd(ctx context.Context, asOf time.Time) ([]domain.Rental, error)

	// ListUnpaidPenalties feeds the reconciliation report.
	ListUnpaidPenalties(ctx context.Context) ([]domain.Rental, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	Update(ctx context.Context, p *domain.Payment) error
	GetLatestByRental(ctx context.Context, rentalID int64, purpose domain.PaymentPurpose) (*domain.Payment, error)
}

type WaiverRepository interface {
	// CreateWithRentalAdjustment inserts the waiver, reduces the rental's
	// outstanding penalty and appends the outbox event in one transaction,
	// so the conservation invariant can never be observed broken.
	CreateWithRentalAdjustment(ctx context.Context, w *domain.PenaltyWaiver, rt *domain.Rental, evt *domain.Event) error
	ListByRental(ctx context.Context, rentalID int64) ([]domain.PenaltyWaiver, error)
}

type OutboxRepository interface {
	Append(ctx context.Context, evt *domain.Event) error
	ListPending(ctx context.Context, limit int32) ([]domain.Event, error)
	MarkDelivered(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, attempts int32, lastError string, terminal bool) error
}
