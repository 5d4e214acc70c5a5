package utils

import "time"

const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// CalendarDate drops the time of day and zone of t, keeping its year, month and day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from start to end.
// The result is negative when end falls before start. It counts from Unix seconds
// rather than time.Duration, which saturates after roughly 292 years.
func DaysBetween(start, end time.Time) int {
	return int((CalendarDate(end).Unix() - CalendarDate(start).Unix()) / secondsPerDay)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return CalendarDate(t), nil
}
