package penalty

import (
	"fmt"
	"math"
	"time"

	"rentwheels-backend/internal/config"
)

// Result is the outcome of a late-return assessment.
type Result struct {
	LateHours      int32  `json:"late_hours"`
	LateDays       int32  `json:"late_days"`
	DailyRateCents int64  `json:"daily_rate_cents"`
	PenaltyCents   int64  `json:"penalty_cents"`
	Capped         bool   `json:"capped"`
	Breakdown      string `json:"breakdown"`
}

func (r Result) IsLate() bool { return r.LateHours > 0 }

// Calculator is a pure late-return penalty function: hours are rounded up,
// days are rounded up from hours, and the charge is capped.
type Calculator struct {
	dailyRateCents int64
	maxCents       int64
}

func NewCalculator(cfg config.PenaltyConfig) *Calculator {
	return &Calculator{dailyRateCents: cfg.DailyRateCents, maxCents: cfg.MaxCents}
}

// Assess computes the penalty for returning at actualReturn against a
// scheduled end of scheduledEnd. An on-time return yields a zero Result.
func (c *Calculator) Assess(scheduledEnd, actualReturn time.Time) Result {
	overdue := actualReturn.Sub(scheduledEnd)
	if overdue <= 0 {
		return Result{
			DailyRateCents: c.dailyRateCents,
			Breakdown:      "returned on time, no penalty",
		}
	}

	lateHours := int32(math.Ceil(overdue.Hours()))
	lateDays := int32(math.Ceil(float64(lateHours) / 24.0))

	amount := int64(lateDays) * c.dailyRateCents
	capped := false
	if amount > c.maxCents {
		amount = c.maxCents
		capped = true
	}

	breakdown := fmt.Sprintf("%d late hours -> %d late days x %d cents/day = %d cents",
		lateHours, lateDays, c.dailyRateCents, int64(lateDays)*c.dailyRateCents)
	if capped {
		breakdown += fmt.Sprintf(", capped at %d cents", c.maxCents)
	} else {
		breakdown += ", cap not reached"
	}

	return Result{
		LateHours:      lateHours,
		LateDays:       lateDays,
		DailyRateCents: c.dailyRateCents,
		PenaltyCents:   amount,
		Capped:         capped,
		Breakdown:      breakdown,
	}
}
