package timeutil

import "time"

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

// IsDateOnly reports whether value carries no time of day.
func IsDateOnly(value time.Time) bool {
	return StartOfDay(value).Equal(value)
}

// DateLayout returns the layout that renders value without losing its time
// of day.
func DateLayout(value time.Time) string {
	if IsDateOnly(value) {
		return time.DateOnly
	}
	return time.DateTime
}
