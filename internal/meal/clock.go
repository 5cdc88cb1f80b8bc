package meal

import "time"

// Clock supplies wall time for created_at stamps, ids and "today".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// DateKey formats t as the YYYY-MM-DD partition key in t's location.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ClockTime formats t as HH:MM.
func ClockTime(t time.Time) string {
	return t.Format("15:04")
}
