package timeutil

import (
	"time"
)

// Tashkent is the shop's local timezone (UTC+5). Daily and monthly reports
// cut over at local midnight, not UTC midnight.
var Tashkent *time.Location

func init() {
	var err error
	Tashkent, err = time.LoadLocation("Asia/Tashkent")
	if err != nil {
		Tashkent = time.FixedZone("UZT", 5*60*60) // UTC+5
	}
}

// Now returns the current time in the shop's timezone
func Now() time.Time {
	return time.Now().In(Tashkent)
}

// StartOfDay returns 00:00:00 local time for the given time's day
func StartOfDay(t time.Time) time.Time {
	local := t.In(Tashkent)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Tashkent)
}

// EndOfDay returns 23:59:59.999999999 local time for the given time's day
func EndOfDay(t time.Time) time.Time {
	local := t.In(Tashkent)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, Tashkent)
}

// MonthRange returns the local [start, end] bounds of a calendar month
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, Tashkent)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// ParseDate parses an input date accepting either yyyy-mm-dd or RFC3339.
// Bare dates are anchored at local midnight.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.ParseInLocation(DateLayout, value, Tashkent); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)
