package pricing

import (
	"fmt"
	"time"

	"rentwheels-backend/internal/domain"
)

// WeekendStrategy surcharges weekend days. The overall modifier is the
// day-count-weighted average of the weekend multiplier (weekend days) and
// 1.0 (weekdays), so a fully-weekday rental comes out at exactly 1.0.
type WeekendStrategy struct {
	weekendDays map[time.Weekday]bool
	multiplier  float64
}

func NewWeekendStrategy(dayNames []string, multiplier float64) *WeekendStrategy {
	byName := map[string]time.Weekday{
		"Sunday": time.Sunday, "Monday": time.Monday, "Tuesday": time.Tuesday,
		"Wednesday": time.Wednesday, "Thursday": time.Thursday,
		"Friday": time.Friday, "Saturday": time.Saturday,
	}
	set := make(map[time.Weekday]bool, len(dayNames))
	for _, n := range dayNames {
		if wd, ok := byName[n]; ok {
			set[wd] = true
		}
	}
	return &WeekendStrategy{weekendDays: set, multiplier: multiplier}
}

func (s *WeekendStrategy) Name() string  { return "weekend_surcharge" }
func (s *WeekendStrategy) Priority() int { return 40 }

func (s *WeekendStrategy) Apply(ctx Context) domain.PriceModifier {
	weekendCount := 0
	day := ctx.StartDate
	for i := 0; i < ctx.Days; i++ {
		if s.weekendDays[day.Weekday()] {
			weekendCount++
		}
		day = day.AddDate(0, 0, 1)
	}

	weekdayCount := ctx.Days - weekendCount
	weighted := (float64(weekendCount)*s.multiplier + float64(weekdayCount)) / float64(ctx.Days)

	return domain.PriceModifier{
		Name:        s.Name(),
		Multiplier:  weighted,
		Discount:    false,
		Description: fmt.Sprintf("weekend surcharge (%d weekend days @ %.2fx, %d weekdays)", weekendCount, s.multiplier, weekdayCount),
	}
}
