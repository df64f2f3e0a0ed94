// Package pricing implements the rental billing arithmetic. One rounding
// rule is used everywhere: a rental period is billed in whole days, rounded
// up from the raw duration. Creation, edit and return all go through these
// functions so projected and final amounts stay comparable.
package pricing

import (
	"math"
	"time"
)

const dayDuration = 24 * time.Hour

// Days returns ceil(|end - start| / 24h). A zero-length period is 0 days;
// any fraction of a day counts as a full day.
func Days(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff) / float64(dayDuration)))
}

// BillableDays is Days with a floor of one day. Applied at return time so a
// same-day return still bills a single day.
func BillableDays(start, returned time.Time) int {
	days := Days(start, returned)
	if days < 1 {
		return 1
	}
	return days
}

// Amount computes the charge for a whole-day count at a daily rate snapshot.
func Amount(days int, dailyRate float64, quantity int) float64 {
	return float64(days) * dailyRate * float64(quantity)
}

// ProjectedAmount computes the projected charge for a rental with a known end
// date. Open-ended rentals carry no projection; callers skip this until return.
func ProjectedAmount(start, end time.Time, dailyRate float64, quantity int) float64 {
	return Amount(Days(start, end), dailyRate, quantity)
}

// FinalAmount computes the actual charge at return time.
func FinalAmount(start, returned time.Time, dailyRate float64, quantity int) (days int, amount float64) {
	days = BillableDays(start, returned)
	return days, Amount(days, dailyRate, quantity)
}
