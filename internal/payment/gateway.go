package payment

import "context"

// Result is the uniform shape of every gateway outcome. Success=false is a
// decline; a non-nil error is a transport or ambiguous failure. Callers
// treat both as failure and never advance state on them.
type Result struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

// Gateway abstracts the external payment processor behind the two-phase
// authorize/capture protocol plus refunds. Every call carries a
// caller-supplied idempotency key so a retry after a timeout cannot
// double-charge.
type Gateway interface {
	Authorize(ctx context.Context, amountCents int64, currency, payerRef, idempotencyKey string) (Result, error)
	Capture(ctx context.Context, transactionID string, amountCents int64, idempotencyKey string) (Result, error)
	Refund(ctx context.Context, transactionID string, amountCents int64, idempotencyKey string) (Result, error)
}
