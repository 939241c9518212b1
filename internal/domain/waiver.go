package domain

import "time"

// PenaltyWaiver records an administrative reduction of an assessed late
// penalty. Records are append-only; a correction is a new waiver, never an
// edit. Invariant: WaivedCents + RemainingCents == OriginalCents.
type PenaltyWaiver struct {
	ID             int64  `json:"id"`
	RentalID       int64  `json:"rental_id"`
	OriginalCents  int64  `json:"original_cents"`
	WaivedCents    int64  `json:"waived_cents"`
	RemainingCents int64  `json:"remaining_cents"`
	AdminID        int64  `json:"admin_id"`
	Reason         string `json:"reason"`

	RefundInitiated bool   `json:"refund_initiated"`
	RefundTxID      string `json:"refund_tx_id,omitempty"`

	CreatedOn time.Time `json:"created_on"`
}
