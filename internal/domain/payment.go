package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusAuthorized PaymentStatus = "AUTHORIZED"
	PaymentStatusCaptured   PaymentStatus = "CAPTURED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
)

type PaymentPurpose string

const (
	PaymentPurposeRental  PaymentPurpose = "RENTAL"
	PaymentPurposePenalty PaymentPurpose = "PENALTY"
)

type Payment struct {
	ID            int64          `json:"id"`
	RentalID      int64          `json:"rental_id"`
	Purpose       PaymentPurpose `json:"purpose"`
	AmountCents   int64          `json:"amount_cents"`
	RefundedCents int64          `json:"refunded_cents"`
	Currency      string         `json:"currency"`
	Status        PaymentStatus  `json:"status"`
	TransactionID string         `json:"transaction_id"`
	FailureReason string         `json:"failure_reason,omitempty"`
	CreatedOn     time.Time      `json:"created_on"`
	UpdatedOn     time.Time      `json:"updated_on"`
}
