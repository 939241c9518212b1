package pricing

import (
	"fmt"
	"sort"

	"rentwheels-backend/internal/config"
	"rentwheels-backend/internal/domain"
)

// DurationStrategy discounts long rentals by total booked day count.
type DurationStrategy struct {
	tiers []config.RateTier // sorted by MinDays descending
}

func NewDurationStrategy(tiers []config.RateTier) *DurationStrategy {
	sorted := make([]config.RateTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinDays > sorted[j].MinDays })
	return &DurationStrategy{tiers: sorted}
}

func (s *DurationStrategy) Name() string  { return "duration_discount" }
func (s *DurationStrategy) Priority() int { return 30 }

func (s *DurationStrategy) Apply(ctx Context) domain.PriceModifier {
	for _, t := range s.tiers {
		if ctx.Days >= t.MinDays {
			return domain.PriceModifier{
				Name:        s.Name(),
				Multiplier:  t.Multiplier,
				Discount:    t.Multiplier < 1.0,
				Description: fmt.Sprintf("duration discount (%d days, >= %d days tier)", ctx.Days, t.MinDays),
			}
		}
	}
	return domain.PriceModifier{
		Name:        s.Name(),
		Multiplier:  1.0,
		Description: fmt.Sprintf("no duration discount (%d days)", ctx.Days),
	}
}
