package utils

import (
	"math"
	"time"
)

// Constants
const (
	SESSION_DATE_LAYOUT = "20060102"
	HOURS_PER_DAY       = 24
)

// Round rounds v half away from zero to the given number of decimals
func Round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

// DaysUntil returns whole days from now until t, floored, so a departure
// earlier today is -1 and one 47 hours out is 1.
func DaysUntil(t, now time.Time) int {
	return int(math.Floor(t.Sub(now).Hours() / HOURS_PER_DAY))
}

// WeekdayIndex maps a time.Weekday onto a Monday-first index (Mon=0 .. Sun=6)
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
