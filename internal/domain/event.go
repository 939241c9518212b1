package domain

import "time"

type EventType string

const (
	EventRentalConfirmed EventType = "RENTAL_CONFIRMED"
	EventRentalPickedUp  EventType = "RENTAL_PICKED_UP"
	EventRentalReturned  EventType = "RENTAL_RETURNED"
	EventRentalCancelled EventType = "RENTAL_CANCELLED"
	EventRentalOverdue   EventType = "RENTAL_OVERDUE"
	EventPenaltyAssessed EventType = "PENALTY_ASSESSED"
	EventPenaltyWaived   EventType = "PENALTY_WAIVED"
)

type EventStatus string

const (
	EventStatusPending   EventStatus = "PENDING"
	EventStatusDelivered EventStatus = "DELIVERED"
	EventStatusFailed    EventStatus = "FAILED"
)

// Event is an outbox row. Lifecycle operations append it in the same
// transaction as their state write; the dispatcher job delivers it later so
// notification failures can never fail the lifecycle operation itself.
type Event struct {
	ID          int64             `json:"id"`
	RentalID    int64             `json:"rental_id"`
	Type        EventType         `json:"type"`
	Payload     map[string]string `json:"payload"`
	Status      EventStatus       `json:"status"`
	Attempts    int32             `json:"attempts"`
	LastError   string            `json:"last_error,omitempty"`
	CreatedOn   time.Time         `json:"created_on"`
	DeliveredOn *time.Time        `json:"delivered_on,omitempty"`
}
