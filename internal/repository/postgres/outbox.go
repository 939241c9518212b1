package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"rentwheels-backend/internal/domain"
	"rentwheels-backend/internal/repository"
)

type outboxRepository struct {
	db *sql.DB
}

func NewOutboxRepository(db *sql.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Append(ctx context.Context, evt *domain.Event) error {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return err
	}
	query := `INSERT INTO outbox_events (rental_id, type, payload, status, attempts, created_on)
	          VALUES ($1, $2, $3, $4, 0, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, evt.RentalID, evt.Type, payload, domain.EventStatusPending, time.Now()).Scan(&evt.ID)
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int32) ([]domain.Event, error) {
	query := `SELECT id, rental_id, type, payload, status, attempts, last_error, created_on, delivered_on
	          FROM outbox_events WHERE status = 'PENDING' ORDER BY created_on ASC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var evt domain.Event
		var payload []byte
		if err := rows.Scan(&evt.ID, &evt.RentalID, &evt.Type, &payload, &evt.Status, &evt.Attempts, &evt.LastError, &evt.CreatedOn, &evt.DeliveredOn); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &evt.Payload); err != nil {
				return nil, err
			}
		}
		events = append(events, evt)
	}
	return events, rows.Err()
}

func (r *outboxRepository) MarkDelivered(ctx context.Context, id int64) error {
	query := `UPDATE outbox_events SET status='DELIVERED', delivered_on=$1 WHERE id=$2`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id int64, attempts int32, lastError string, terminal bool) error {
	status := domain.EventStatusPending
	if terminal {
		status = domain.EventStatusFailed
	}
	query := `UPDATE outbox_events SET status=$1, attempts=$2, last_error=$3 WHERE id=$4`
	_, err := r.db.ExecContext(ctx, query, status, attempts, lastError, id)
	return err
}
