package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rentwheels-backend/internal/domain"
	"rentwheels-backend/internal/repository"
)

const rentalColumns = `id, car_id, renter_id, start_date, end_date, currency, status,
	daily_price_cents, total_price_cents, pickup_note, return_note,
	late_status, late_hours, penalty_cents, penalty_paid, penalty_fail_reason,
	actual_return, payment_id, penalty_payment_id, version, archived_on, created_on, updated_on`

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(&rt.ID, &rt.CarID, &rt.RenterID, &rt.StartDate, &rt.EndDate, &rt.Currency, &rt.Status,
		&rt.DailyPriceCents, &rt.TotalPriceCents, &rt.PickupNote, &rt.ReturnNote,
		&rt.LateStatus, &rt.LateHours, &rt.PenaltyCents, &rt.PenaltyPaid, &rt.PenaltyFailReason,
		&rt.ActualReturn, &rt.PaymentID, &rt.PenaltyPaymentID, &rt.Version, &rt.ArchivedOn, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (car_id, renter_id, start_date, end_date, currency, status,
	            daily_price_cents, total_price_cents, late_status, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $11) RETURNING id`
	now := time.Now()
	rt.Version = 1
	return r.db.QueryRowContext(ctx, query, rt.CarID, rt.RenterID, rt.StartDate, rt.EndDate, rt.Currency, rt.Status,
		rt.DailyPriceCents, rt.TotalPriceCents, domain.LateStatusNone, now, now).Scan(&rt.ID)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("rental", id)
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

const rentalUpdateSQL = `UPDATE rentals SET status=$1, daily_price_cents=$2, total_price_cents=$3,
	pickup_note=$4, return_note=$5, late_status=$6, late_hours=$7, penalty_cents=$8,
	penalty_paid=$9, penalty_fail_reason=$10, actual_return=$11, payment_id=$12,
	penalty_payment_id=$13, archived_on=$14, version=version+1, updated_on=$15
	WHERE id=$16 AND version=$17`

func rentalUpdateArgs(rt *domain.Rental) []any {
	return []any{rt.Status, rt.DailyPriceCents, rt.TotalPriceCents,
		rt.PickupNote, rt.ReturnNote, rt.LateStatus, rt.LateHours, rt.PenaltyCents,
		rt.PenaltyPaid, rt.PenaltyFailReason, rt.ActualReturn, rt.PaymentID,
		rt.PenaltyPaymentID, rt.ArchivedOn, time.Now(), rt.ID, rt.Version}
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	res, err := r.db.ExecContext(ctx, rentalUpdateSQL, rentalUpdateArgs(rt)...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewConflict("rental was modified concurrently")
	}
	rt.Version++
	return nil
}

const overlapSQL = `SELECT ` + rentalColumns + ` FROM rentals
	WHERE car_id = $1 AND status IN ('CONFIRMED', 'IN_USE')
	  AND start_date < $3 AND $2 < end_date AND id <> $4`

func (r *rentalRepository) FindOverlapping(ctx context.Context, carID int64, start, end time.Time, excludeID int64) ([]domain.Rental, error) {
	rows, err := r.db.QueryContext(ctx, overlapSQL, carID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

func (r *rentalRepository) ConfirmExclusive(ctx context.Context, rt *domain.Rental, evt *domain.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Serialize racing confirms for the same car on its row lock, then
	// re-run the overlap check inside the transaction.
	var carStatus domain.CarStatus
	if err := tx.QueryRowContext(ctx, `SELECT status FROM cars WHERE id = $1 FOR UPDATE`, rt.CarID).Scan(&carStatus); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewNotFound("car", rt.CarID)
		}
		return err
	}

	var conflicts int
	if err := tx.QueryRowContext(ctx,
		`SELECT count(*) FROM rentals
		 WHERE car_id = $1 AND status IN ('CONFIRMED', 'IN_USE')
		   AND start_date < $3 AND $2 < end_date AND id <> $4`,
		rt.CarID, rt.StartDate, rt.EndDate, rt.ID).Scan(&conflicts); err != nil {
		return err
	}
	if conflicts > 0 {
		return domain.NewDateOverlap(rt.CarID, rt.StartDate, rt.EndDate)
	}

	if err := execRentalUpdate(ctx, tx, rt); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE cars SET status=$1, updated_on=$2 WHERE id=$3`,
		domain.CarStatusReserved, time.Now(), rt.CarID); err != nil {
		return err
	}
	if err := insertEvent(ctx, tx, evt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	rt.Version++
	return nil
}

func (r *rentalRepository) UpdateWithEvent(ctx context.Context, rt *domain.Rental, evt *domain.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := execRentalUpdate(ctx, tx, rt); err != nil {
		return err
	}
	if err := insertEvent(ctx, tx, evt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	rt.Version++
	return nil
}

func (r *rentalRepository) FinishWithRelease(ctx context.Context, rt *domain.Rental, carStatus domain.CarStatus, evt *domain.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := execRentalUpdate(ctx, tx, rt); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE cars SET status=$1, updated_on=$2 WHERE id=$3`,
		carStatus, time.Now(), rt.CarID); err != nil {
		return err
	}
	if err := insertEvent(ctx, tx, evt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	rt.Version++
	return nil
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renterID int64, page, pageSize int32) ([]domain.Rental, int32, error) {
	return r.list(ctx, "renter_id", renterID, page, pageSize)
}

func (r *rentalRepository) ListByCar(ctx context.Context, carID int64, page, pageSize int32) ([]domain.Rental, int32, error) {
	return r.list(ctx, "car_id", carID, page, pageSize)
}

func (r *rentalRepository) list(ctx context.Context, column string, id int64, page, pageSize int32) ([]domain.Rental, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	countSQL := fmt.Sprintf(`SELECT count(*) FROM rentals WHERE %s = $1`, column)
	if err := r.db.QueryRowContext(ctx, countSQL, id).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM rentals WHERE %s = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`, rentalColumns, column)
	rows, err := r.db.QueryContext(ctx, query, id, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rentals, err := collectRentals(rows)
	if err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}

func (r *rentalRepository) ListInUsePastEnd(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE status = 'IN_USE' AND end_date < $1 AND late_status <> 'LATE'`
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

func (r *rentalRepository) ListUnpaidPenalties(ctx context.Context) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE status = 'RETURNED' AND penalty_cents > 0 AND penalty_paid = false`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

func collectRentals(rows *sql.Rows) ([]domain.Rental, error) {
	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func execRentalUpdate(ctx context.Context, tx *sql.Tx, rt *domain.Rental) error {
	res, err := tx.ExecContext(ctx, rentalUpdateSQL, rentalUpdateArgs(rt)...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewConflict("rental was modified concurrently")
	}
	return nil
}

func insertEvent(ctx context.Context, tx *sql.Tx, evt *domain.Event) error {
	if evt == nil {
		return nil
	}
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return err
	}
	query := `INSERT INTO outbox_events (rental_id, type, payload, status, attempts, created_on)
	          VALUES ($1, $2, $3, $4, 0, $5) RETURNING id`
	return tx.QueryRowContext(ctx, query, evt.RentalID, evt.Type, payload, domain.EventStatusPending, time.Now()).Scan(&evt.ID)
}
