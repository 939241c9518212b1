package postgres

import (
	"context"
	"database/sql"
	"time"

	"rentwheels-backend/internal/domain"
	"rentwheels-backend/internal/repository"
)

type waiverRepository struct {
	db *sql.DB
}

func NewWaiverRepository(db *sql.DB) repository.WaiverRepository {
	return &waiverRepository{db: db}
}

func (r *waiverRepository) CreateWithRentalAdjustment(ctx context.Context, w *domain.PenaltyWaiver, rt *domain.Rental, evt *domain.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO penalty_waivers (rental_id, original_cents, waived_cents, remaining_cents, admin_id, reason, refund_initiated, refund_tx_id, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, w.RentalID, w.OriginalCents, w.WaivedCents, w.RemainingCents, w.AdminID, w.Reason, w.RefundInitiated, w.RefundTxID, time.Now()).Scan(&w.ID); err != nil {
		return err
	}

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

func (r *waiverRepository) ListByRental(ctx context.Context, rentalID int64) ([]domain.PenaltyWaiver, error) {
	query := `SELECT id, rental_id, original_cents, waived_cents, remaining_cents, admin_id, reason, refund_initiated, refund_tx_id, created_on
	          FROM penalty_waivers WHERE rental_id = $1 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var waivers []domain.PenaltyWaiver
	for rows.Next() {
		var w domain.PenaltyWaiver
		if err := rows.Scan(&w.ID, &w.RentalID, &w.OriginalCents, &w.WaivedCents, &w.RemainingCents, &w.AdminID, &w.Reason, &w.RefundInitiated, &w.RefundTxID, &w.CreatedOn); err != nil {
			return nil, err
		}
		waivers = append(waivers, w)
	}
	return waivers, rows.Err()
}
