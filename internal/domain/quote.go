package domain

import "time"

// PriceModifier is one strategy's contribution to a quote. An enabled
// strategy always contributes exactly one modifier, multiplier 1.0 when it
// has nothing to say.
type PriceModifier struct {
	Name        string  `json:"name"`
	Multiplier  float64 `json:"multiplier"`
	Discount    bool    `json:"discount"`
	Description string  `json:"description"`
}

// PriceQuote is ephemeral: computed at request time, snapshotted onto the
// rental, never persisted on its own.
type PriceQuote struct {
	CarID              int64           `json:"car_id"`
	Days               int             `json:"days"`
	BaseCents          int64           `json:"base_cents"`
	Modifiers          []PriceModifier `json:"modifiers"`
	CombinedMultiplier float64         `json:"combined_multiplier"`
	FinalCents         int64           `json:"final_cents"`
	QuotedAt           time.Time       `json:"quoted_at"`
}
