package domain

import "time"

type RentalStatus string

const (
	RentalStatusRequested RentalStatus = "REQUESTED"
	RentalStatusConfirmed RentalStatus = "CONFIRMED"
	RentalStatusInUse     RentalStatus = "IN_USE"
	RentalStatusReturned  RentalStatus = "RETURNED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

type LateStatus string

const (
	LateStatusNone   LateStatus = "NONE"
	LateStatusOnTime LateStatus = "ON_TIME"
	LateStatusLate   LateStatus = "LATE"
)

type Rental struct {
	ID        int64     `json:"id"`
	CarID     int64     `json:"car_id"`
	RenterID  int64     `json:"renter_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Currency  string    `json:"currency"`

	Status          RentalStatus `json:"status"`
	DailyPriceCents int64        `json:"daily_price_cents"`
	TotalPriceCents int64        `json:"total_price_cents"`

	PickupNote string `json:"pickup_note"`
	ReturnNote string `json:"return_note"`

	LateStatus        LateStatus `json:"late_status"`
	LateHours         int32      `json:"late_hours"`
	PenaltyCents      int64      `json:"penalty_cents"`
	PenaltyPaid       bool       `json:"penalty_paid"`
	PenaltyFailReason string     `json:"penalty_fail_reason,omitempty"`

	ActualReturn     *time.Time `json:"actual_return,omitempty"`
	PaymentID        *int64     `json:"payment_id,omitempty"`
	PenaltyPaymentID *int64     `json:"penalty_payment_id,omitempty"`

	Version    int32      `json:"version"`
	ArchivedOn *time.Time `json:"archived_on,omitempty"`
	CreatedOn  time.Time  `json:"created_on"`
	UpdatedOn  time.Time  `json:"updated_on"`
}

// forwardTransitions is the only legal movement through the lifecycle.
// CANCELLED is reachable from every non-terminal state.
var forwardTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusRequested: {RentalStatusConfirmed, RentalStatusCancelled},
	RentalStatusConfirmed: {RentalStatusInUse, RentalStatusCancelled},
	RentalStatusInUse:     {RentalStatusReturned, RentalStatusCancelled},
	RentalStatusReturned:  {},
	RentalStatusCancelled: {},
}

func (r *Rental) CanTransitionTo(next RentalStatus) bool {
	for _, s := range forwardTransitions[r.Status] {
		if s == next {
			return true
		}
	}
	return false
}

func (r *Rental) IsTerminal() bool {
	return r.Status == RentalStatusReturned || r.Status == RentalStatusCancelled
}

// Days returns the booked length in whole days (end - start), floored at 1
// so a same-day rental still bills a single day. Pricing, weekend/season
// weighting and cancellation proration all share this convention.
func (r *Rental) Days() int {
	d := int(r.EndDate.Sub(r.StartDate).Hours() / 24)
	if d < 1 {
		return 1
	}
	return d
}

// Overlaps reports whether [start, end) shares at least one day with the
// rental's own half-open range.
func (r *Rental) Overlaps(start, end time.Time) bool {
	return r.StartDate.Before(end) && start.Before(r.EndDate)
}
