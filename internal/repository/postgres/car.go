package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rentwheels-backend/internal/domain"
	"rentwheels-backend/internal/repository"
)

type carRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) repository.CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	car := &domain.Car{}
	query := `SELECT id, plate, model, category, daily_rate_cents, currency, status, created_on, updated_on FROM cars WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&car.ID, &car.Plate, &car.Model, &car.Category, &car.DailyRateCents, &car.Currency, &car.Status, &car.CreatedOn, &car.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("car", id)
	}
	if err != nil {
		return nil, err
	}
	return car, nil
}
