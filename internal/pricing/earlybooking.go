package pricing

import (
	"fmt"
	"sort"

	"rentwheels-backend/internal/config"
	"rentwheels-backend/internal/domain"
)

// EarlyBookingStrategy discounts by lead time: booking >= 30 days ahead is
// cheaper than >= 14, which beats >= 7. Thresholds are inclusive.
type EarlyBookingStrategy struct {
	tiers []config.RateTier // sorted by MinDays descending
}

func NewEarlyBookingStrategy(tiers []config.RateTier) *EarlyBookingStrategy {
	sorted := make([]config.RateTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinDays > sorted[j].MinDays })
	return &EarlyBookingStrategy{tiers: sorted}
}

func (s *EarlyBookingStrategy) Name() string  { return "early_booking" }
func (s *EarlyBookingStrategy) Priority() int { return 20 }

func (s *EarlyBookingStrategy) Apply(ctx Context) domain.PriceModifier {
	for _, t := range s.tiers {
		if ctx.LeadDays >= t.MinDays {
			return domain.PriceModifier{
				Name:        s.Name(),
				Multiplier:  t.Multiplier,
				Discount:    t.Multiplier < 1.0,
				Description: fmt.Sprintf("early booking discount (%d days lead, >= %d days tier)", ctx.LeadDays, t.MinDays),
			}
		}
	}
	return domain.PriceModifier{
		Name:        s.Name(),
		Multiplier:  1.0,
		Description: fmt.Sprintf("no early booking discount (%d days lead)", ctx.LeadDays),
	}
}
