package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentwheels-backend/internal/domain"
	"rentwheels-backend/internal/repository"
)

const paymentColumns = `id, rental_id, purpose, amount_cents, refunded_cents, currency, status, transaction_id, failure_reason, created_on, updated_on`

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	p := &domain.Payment{}
	err := row.Scan(&p.ID, &p.RentalID, &p.Purpose, &p.AmountCents, &p.RefundedCents, &p.Currency, &p.Status, &p.TransactionID, &p.FailureReason, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (rental_id, purpose, amount_cents, refunded_cents, currency, status, transaction_id, failure_reason, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, p.RentalID, p.Purpose, p.AmountCents, p.RefundedCents, p.Currency, p.Status, p.TransactionID, p.FailureReason, now, now).Scan(&p.ID)
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("payment", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	query := `UPDATE payments SET status=$1, transaction_id=$2, refunded_cents=$3, failure_reason=$4, updated_on=$5 WHERE id=$6`
	res, err := r.db.ExecContext(ctx, query, p.Status, p.TransactionID, p.RefundedCents, p.FailureReason, time.Now(), p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NewNotFound("payment", p.ID)
	}
	return nil
}

func (r *paymentRepository) GetLatestByRental(ctx context.Context, rentalID int64, purpose domain.PaymentPurpose) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE rental_id = $1 AND purpose = $2 ORDER BY id DESC LIMIT 1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, rentalID, purpose))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("payment", rentalID)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
