package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentwheels-backend/internal/config"
	"rentwheels-backend/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testCar(rateCents int64) *domain.Car {
	return &domain.Car{ID: 7, Category: domain.CarCategoryStandard, DailyRateCents: rateCents, Currency: "USD"}
}

func tieredConfig() config.PricingConfig {
	cfg := config.PricingConfig{}
	cfg.EarlyBooking.Enabled = true
	cfg.EarlyBooking.Tiers = []config.RateTier{
		{MinDays: 30, Multiplier: 0.85},
		{MinDays: 14, Multiplier: 0.90},
		{MinDays: 7, Multiplier: 0.95},
	}
	cfg.Duration.Enabled = true
	cfg.Duration.Tiers = []config.RateTier{
		{MinDays: 30, Multiplier: 0.80},
		{MinDays: 14, Multiplier: 0.85},
		{MinDays: 7, Multiplier: 0.90},
	}
	return cfg
}

// $500.00/day for 10 days booked 40 days ahead: 0.85 early booking times
// 0.90 duration on a $5000.00 base comes to $3825.00.
func TestEngine_DiscountsCompose(t *testing.T) {
	e := NewEngine(tieredConfig())

	start := date(2026, time.October, 10)
	end := date(2026, time.October, 20)
	quoted := start.AddDate(0, 0, -40)

	q, err := e.ComputePrice(testCar(50000), start, end, quoted)
	require.NoError(t, err)

	assert.Equal(t, 10, q.Days)
	assert.Equal(t, int64(500000), q.BaseCents)
	assert.InDelta(t, 0.765, q.CombinedMultiplier, 1e-9)
	assert.Equal(t, int64(382500), q.FinalCents)
	assert.Len(t, q.Modifiers, 2)
}

func TestEngine_NoStrategiesIsBasePrice(t *testing.T) {
	e := NewEngine(config.PricingConfig{})

	q, err := e.ComputePrice(testCar(10000), date(2026, time.October, 5), date(2026, time.October, 8), date(2026, time.October, 1))
	require.NoError(t, err)

	assert.Equal(t, int64(30000), q.BaseCents)
	assert.Equal(t, int64(30000), q.FinalCents)
	assert.Empty(t, q.Modifiers)
}

func TestEngine_EarlyBookingTierBoundaries(t *testing.T) {
	e := NewEngine(tieredConfig())
	start := date(2026, time.October, 10)
	end := start.AddDate(0, 0, 3) // 3 days, below every duration tier

	cases := []struct {
		leadDays int
		want     float64
	}{
		{40, 0.85},
		{30, 0.85}, // threshold is inclusive
		{29, 0.90},
		{14, 0.90},
		{7, 0.95},
		{6, 1.0},
		{0, 1.0},
	}
	for _, c := range cases {
		q, err := e.ComputePrice(testCar(10000), start, end, start.AddDate(0, 0, -c.leadDays))
		require.NoError(t, err)
		assert.InDelta(t, c.want, q.CombinedMultiplier, 1e-9, "lead %d days", c.leadDays)
	}
}

func TestEngine_SeasonIsDayWeighted(t *testing.T) {
	cfg := config.PricingConfig{}
	cfg.Season.Enabled = true
	cfg.Season.Windows = []config.SeasonWindow{
		{Name: "summer-peak", FromMonth: 6, FromDay: 15, ToMonth: 8, ToDay: 31, Multiplier: 1.25},
	}
	e := NewEngine(cfg)

	// Aug 27 - Sep 6: 5 peak days, 5 regular days.
	q, err := e.ComputePrice(testCar(10000), date(2026, time.August, 27), date(2026, time.September, 6), date(2026, time.August, 1))
	require.NoError(t, err)

	assert.Equal(t, 10, q.Days)
	assert.InDelta(t, 1.125, q.CombinedMultiplier, 1e-9)
	assert.Equal(t, int64(112500), q.FinalCents)
}

func TestEngine_SeasonWindowWrapsYearEnd(t *testing.T) {
	cfg := config.PricingConfig{}
	cfg.Season.Enabled = true
	cfg.Season.Windows = []config.SeasonWindow{
		{Name: "winter-holidays", FromMonth: 12, FromDay: 15, ToMonth: 1, ToDay: 10, Multiplier: 1.30},
	}
	e := NewEngine(cfg)

	// Dec 30 - Jan 4 sits entirely inside the wrapped window.
	q, err := e.ComputePrice(testCar(10000), date(2026, time.December, 30), date(2027, time.January, 4), date(2026, time.December, 1))
	require.NoError(t, err)

	assert.Equal(t, 5, q.Days)
	assert.InDelta(t, 1.30, q.CombinedMultiplier, 1e-9)
}

func TestEngine_WeekendSurchargeIsDayWeighted(t *testing.T) {
	cfg := config.PricingConfig{}
	cfg.Weekend.Enabled = true
	cfg.Weekend.Days = []string{"Friday", "Saturday", "Sunday"}
	cfg.Weekend.Multiplier = 1.15
	e := NewEngine(cfg)

	// Monday to Monday: 4 weekdays and 3 weekend days out of 7.
	start := date(2026, time.October, 5)
	require.Equal(t, time.Monday, start.Weekday())

	q, err := e.ComputePrice(testCar(10000), start, start.AddDate(0, 0, 7), date(2026, time.October, 1))
	require.NoError(t, err)

	assert.InDelta(t, (3*1.15+4)/7, q.CombinedMultiplier, 1e-9)
	assert.Equal(t, int64(74500), q.FinalCents)
}

func TestEngine_SameDayBillsOneDay(t *testing.T) {
	e := NewEngine(config.PricingConfig{})
	day := date(2026, time.October, 5)

	q, err := e.ComputePrice(testCar(10000), day, day, day)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Days)
	assert.Equal(t, int64(10000), q.FinalCents)
}

func TestEngine_EndBeforeStartRejected(t *testing.T) {
	e := NewEngine(config.PricingConfig{})

	_, err := e.ComputePrice(testCar(10000), date(2026, time.October, 5), date(2026, time.October, 1), date(2026, time.September, 1))
	assert.Equal(t, domain.ErrKindValidation, domain.KindOf(err))
}

func TestEngine_Deterministic(t *testing.T) {
	cfg := tieredConfig()
	cfg.Season.Enabled = true
	cfg.Season.Windows = []config.SeasonWindow{
		{Name: "summer-peak", FromMonth: 6, FromDay: 15, ToMonth: 8, ToDay: 31, Multiplier: 1.25},
	}
	cfg.Weekend.Enabled = true
	cfg.Weekend.Days = []string{"Friday", "Saturday", "Sunday"}
	cfg.Weekend.Multiplier = 1.15
	e := NewEngine(cfg)

	start := date(2026, time.August, 20)
	end := date(2026, time.September, 2)
	quoted := date(2026, time.July, 1)

	first, err := e.ComputePrice(testCar(25000), start, end, quoted)
	require.NoError(t, err)
	second, err := e.ComputePrice(testCar(25000), start, end, quoted)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first.Modifiers, 4) // one modifier per enabled strategy
}
