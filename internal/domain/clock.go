package domain

import "time"

// ─── Clock / Calendar Provider ──────────────────────────────────────────────
// Day identity is a calendar-day key string in the caller's local zone,
// independent of time of day. All same-day / consecutive-day checks compare
// day-keys, never instants.

// DayKeyLayout is the canonical day-key format.
const DayKeyLayout = "2006-01-02"

// MonthKeyLayout is the canonical month-key format for monthly rollups.
const MonthKeyLayout = "2006-01"

// Clock supplies the current instant and the day-identity function.
// Services take a Clock so tests can pin the calendar.
type Clock interface {
	Now() time.Time
	DayKey(t time.Time) string
}

// SystemClock is the production Clock: local time zone, real time.
type SystemClock struct{}

func (SystemClock) Now() time.Time            { return time.Now() }
func (SystemClock) DayKey(t time.Time) string { return t.Format(DayKeyLayout) }

// FixedClock pins Now for tests. DayKey matches SystemClock.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time            { return c.Instant }
func (c FixedClock) DayKey(t time.Time) string { return t.Format(DayKeyLayout) }

// YesterdayKey returns the day-key one calendar day before day.
// Returns "" if day is not a valid day-key.
func YesterdayKey(day string) string {
	t, err := time.Parse(DayKeyLayout, day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DayKeyLayout)
}

// MonthKey returns the month-key for the given instant.
func MonthKey(t time.Time) string { return t.Format(MonthKeyLayout) }
