package pricing

import (
	"time"

	"rentwheels-backend/internal/domain"
)

// Context is the shared input every modifier strategy evaluates against.
type Context struct {
	CarID          int64
	Category       domain.CarCategory
	BaseDailyCents int64
	StartDate      time.Time
	EndDate        time.Time
	QuoteDate      time.Time
	Days           int
	LeadDays       int
}

// Strategy produces exactly one modifier per quote. A strategy with nothing
// to contribute returns multiplier 1.0 rather than skipping, so the quote
// always carries one entry per enabled strategy.
type Strategy interface {
	Name() string
	Priority() int
	Apply(ctx Context) domain.PriceModifier
}
