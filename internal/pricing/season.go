package pricing

import (
	"fmt"
	"strings"
	"time"

	"rentwheels-backend/internal/config"
	"rentwheels-backend/internal/domain"
)

// SeasonStrategy weights per-day season multipliers by day count. A rental
// spanning 5 peak and 7 regular days out of 12 yields (5*1.25 + 7*1.0)/12,
// not a geometric composition.
type SeasonStrategy struct {
	windows []config.SeasonWindow
}

func NewSeasonStrategy(windows []config.SeasonWindow) *SeasonStrategy {
	return &SeasonStrategy{windows: windows}
}

func (s *SeasonStrategy) Name() string  { return "season" }
func (s *SeasonStrategy) Priority() int { return 10 }

func (s *SeasonStrategy) Apply(ctx Context) domain.PriceModifier {
	type classTally struct {
		name       string
		multiplier float64
		days       int
	}

	tallies := []classTally{}
	index := map[string]int{}

	day := ctx.StartDate
	for i := 0; i < ctx.Days; i++ {
		name, mult := s.classify(day)
		if at, ok := index[name]; ok {
			tallies[at].days++
		} else {
			index[name] = len(tallies)
			tallies = append(tallies, classTally{name: name, multiplier: mult, days: 1})
		}
		day = day.AddDate(0, 0, 1)
	}

	weighted := 0.0
	parts := make([]string, 0, len(tallies))
	for _, t := range tallies {
		weighted += t.multiplier * float64(t.days)
		parts = append(parts, fmt.Sprintf("%s: %d days @ %.2fx", t.name, t.days, t.multiplier))
	}
	weighted /= float64(ctx.Days)

	return domain.PriceModifier{
		Name:        s.Name(),
		Multiplier:  weighted,
		Discount:    weighted < 1.0,
		Description: "seasonal rate (" + strings.Join(parts, ", ") + ")",
	}
}

// classify returns the season class of a calendar day. The first matching
// window wins; days outside every window are "regular" at 1.0.
func (s *SeasonStrategy) classify(day time.Time) (string, float64) {
	md := int(day.Month())*100 + day.Day()
	for _, w := range s.windows {
		from := w.FromMonth*100 + w.FromDay
		to := w.ToMonth*100 + w.ToDay
		if from <= to {
			if md >= from && md <= to {
				return w.Name, w.Multiplier
			}
		} else {
			// window wraps year-end
			if md >= from || md <= to {
				return w.Name, w.Multiplier
			}
		}
	}
	return "regular", 1.0
}
