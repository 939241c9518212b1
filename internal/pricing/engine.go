package pricing

import (
	"sort"
	"time"

	"rentwheels-backend/internal/config"
	"rentwheels-backend/internal/domain"
)

// Engine computes a quote from the car's daily rate and the fixed, ordered
// chain of enabled modifier strategies. Pure: same inputs, same quote.
type Engine struct {
	strategies []Strategy
}

func NewEngine(cfg config.PricingConfig) *Engine {
	var strategies []Strategy
	if cfg.Season.Enabled {
		strategies = append(strategies, NewSeasonStrategy(cfg.Season.Windows))
	}
	if cfg.EarlyBooking.Enabled {
		strategies = append(strategies, NewEarlyBookingStrategy(cfg.EarlyBooking.Tiers))
	}
	if cfg.Duration.Enabled {
		strategies = append(strategies, NewDurationStrategy(cfg.Duration.Tiers))
	}
	if cfg.Weekend.Enabled {
		strategies = append(strategies, NewWeekendStrategy(cfg.Weekend.Days, cfg.Weekend.Multiplier))
	}

	// Evaluation order is fixed by priority so explanations come out
	// deterministically; multiplication itself is order-independent.
	sort.SliceStable(strategies, func(i, j int) bool {
		return strategies[i].Priority() < strategies[j].Priority()
	})

	return &Engine{strategies: strategies}
}

// ComputePrice quotes a rental of car from start to end as priced at
// quoteDate. Day count is end - start in whole days, floored at 1.
func (e *Engine) ComputePrice(car *domain.Car, start, end, quoteDate time.Time) (*domain.PriceQuote, error) {
	if end.Before(start) {
		return nil, domain.NewValidation("end date must not be before start date")
	}

	days := wholeDays(start, end)
	if days < 1 {
		days = 1
	}
	leadDays := wholeDays(quoteDate, start)
	if leadDays < 0 {
		leadDays = 0
	}

	ctx := Context{
		CarID:          car.ID,
		Category:       car.Category,
		BaseDailyCents: car.DailyRateCents,
		StartDate:      start,
		EndDate:        end,
		QuoteDate:      quoteDate,
		Days:           days,
		LeadDays:       leadDays,
	}

	baseCents := car.DailyRateCents * int64(days)

	combined := 1.0
	modifiers := make([]domain.PriceModifier, 0, len(e.strategies))
	for _, s := range e.strategies {
		m := s.Apply(ctx)
		modifiers = append(modifiers, m)
		combined *= m.Multiplier
	}

	return &domain.PriceQuote{
		CarID:              car.ID,
		Days:               days,
		BaseCents:          baseCents,
		Modifiers:          modifiers,
		CombinedMultiplier: combined,
		FinalCents:         domain.CentsRoundHalfUp(float64(baseCents) * combined),
		QuotedAt:           quoteDate,
	}, nil
}

func wholeDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
