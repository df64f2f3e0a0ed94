package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDays(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{"three full days", date(2024, 1, 1), date(2024, 1, 4), 3},
		{"one day", date(2024, 1, 1), date(2024, 1, 2), 1},
		{"same instant", date(2024, 1, 1), date(2024, 1, 1), 0},
		{"partial day rounds up", date(2024, 1, 1), date(2024, 1, 1).Add(6 * time.Hour), 1},
		{"one and a half days rounds up", date(2024, 1, 1), date(2024, 1, 2).Add(12 * time.Hour), 2},
		{"reversed dates use absolute value", date(2024, 1, 4), date(2024, 1, 1), 3},
		{"across month boundary", date(2024, 1, 30), date(2024, 2, 2), 3},
		{"across year boundary", date(2023, 12, 30), date(2024, 1, 2), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Days(tt.start, tt.end))
		})
	}
}

func TestBillableDaysFloorsAtOne(t *testing.T) {
	start := date(2024, 3, 10)

	// Same-day return always bills one day, never zero.
	assert.Equal(t, 1, BillableDays(start, start))
	assert.Equal(t, 1, BillableDays(start, start.Add(2*time.Hour)))

	// Beyond a day the floor no longer applies.
	assert.Equal(t, 5, BillableDays(start, start.AddDate(0, 0, 5)))
}

func TestProjectedAmount(t *testing.T) {
	// dailyRate=50000, quantity=2, 2024-01-01 .. 2024-01-04 -> 3 days -> 300000
	got := ProjectedAmount(date(2024, 1, 1), date(2024, 1, 4), 50000, 2)
	assert.Equal(t, 300000.0, got)
}

func TestFinalAmount(t *testing.T) {
	start := date(2024, 1, 1)

	days, amount := FinalAmount(start, start.AddDate(0, 0, 5), 10000, 2)
	assert.Equal(t, 5, days)
	assert.Equal(t, 100000.0, amount)

	// Same-day return bills the one-day minimum.
	days, amount = FinalAmount(start, start, 10000, 2)
	assert.Equal(t, 1, days)
	assert.Equal(t, 20000.0, amount)
}

func TestCreationEditReturnUseSameRounding(t *testing.T) {
	start := date(2024, 1, 1)
	end := date(2024, 1, 4)

	projected := ProjectedAmount(start, end, 10000, 2)
	_, final := FinalAmount(start, end, 10000, 2)
	assert.Equal(t, projected, final, "returning exactly on the projected end date must not change the charge")
}
