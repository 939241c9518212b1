package penalty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rentwheels-backend/internal/config"
)

func TestCalculator_OnTimeReturnIsZero(t *testing.T) {
	c := NewCalculator(config.PenaltyConfig{DailyRateCents: 7500, MaxCents: 150000})
	end := time.Date(2026, time.October, 10, 12, 0, 0, 0, time.UTC)

	r := c.Assess(end, end)
	assert.False(t, r.IsLate())
	assert.Zero(t, r.PenaltyCents)

	r = c.Assess(end, end.Add(-2*time.Hour))
	assert.False(t, r.IsLate())
	assert.Zero(t, r.PenaltyCents)
}

func TestCalculator_HoursAndDaysRoundUp(t *testing.T) {
	c := NewCalculator(config.PenaltyConfig{DailyRateCents: 7500, MaxCents: 150000})
	end := time.Date(2026, time.October, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		late      time.Duration
		wantHours int32
		wantDays  int32
		wantCents int64
	}{
		{30 * time.Minute, 1, 1, 7500},        // any fraction of an hour counts
		{1 * time.Hour, 1, 1, 7500},
		{23 * time.Hour, 23, 1, 7500},
		{24 * time.Hour, 24, 1, 7500},
		{24*time.Hour + time.Minute, 25, 2, 15000}, // a minute into day two
		{30 * time.Hour, 30, 2, 15000},
		{49 * time.Hour, 49, 3, 22500},
	}
	for _, tc := range cases {
		r := c.Assess(end, end.Add(tc.late))
		assert.True(t, r.IsLate())
		assert.Equal(t, tc.wantHours, r.LateHours, "late %v", tc.late)
		assert.Equal(t, tc.wantDays, r.LateDays, "late %v", tc.late)
		assert.Equal(t, tc.wantCents, r.PenaltyCents, "late %v", tc.late)
		assert.False(t, r.Capped)
	}
}

func TestCalculator_CapApplies(t *testing.T) {
	c := NewCalculator(config.PenaltyConfig{DailyRateCents: 7500, MaxCents: 150000})
	end := time.Date(2026, time.October, 10, 12, 0, 0, 0, time.UTC)

	// 25 late days would cost 187500 uncapped.
	r := c.Assess(end, end.Add(25*24*time.Hour))
	assert.True(t, r.Capped)
	assert.Equal(t, int64(150000), r.PenaltyCents)
	assert.Contains(t, r.Breakdown, "capped")
}

func TestCalculator_BreakdownExplainsCharge(t *testing.T) {
	c := NewCalculator(config.PenaltyConfig{DailyRateCents: 7500, MaxCents: 150000})
	end := time.Date(2026, time.October, 10, 12, 0, 0, 0, time.UTC)

	r := c.Assess(end, end.Add(30*time.Hour))
	assert.Contains(t, r.Breakdown, "30 late hours")
	assert.Contains(t, r.Breakdown, "2 late days")
}
