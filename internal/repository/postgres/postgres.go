package postgres

import (
	"database/sql"

	"rentwheels-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.CarRepository
	repository.RentalRepository
	repository.PaymentRepository
	repository.WaiverRepository
	repository.OutboxRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		CarRepository:     NewCarRepository(db),
		RentalRepository:  NewRentalRepository(db),
		PaymentRepository: NewPaymentRepository(db),
		WaiverRepository:  NewWaiverRepository(db),
		OutboxRepository:  NewOutboxRepository(db),
	}
}
