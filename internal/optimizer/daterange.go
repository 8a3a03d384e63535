package optimizer

import (
	"sort"
	"time"
)

// Reference years used to map a calendar date onto the collapsed 366 day
// calendar. Historical observations come from both leap and common years,
// so a date after February maps to two adjacent day numbers.
const (
	commonYear = 2023
	leapYear   = 2024
)

// DaysOfYear expands a date range into the set of day-of-year numbers it
// covers on the 366 day calendar. An end date earlier in the calendar than
// the start date wraps across the year boundary (e.g. Dec 28 - Jan 3 covers
// days 362-366 and 1-3).
func DaysOfYear(start, end time.Time) []int {
	if end.Before(start) {
		end = end.AddDate(1, 0, 0)
	}

	seen := make(map[int]bool)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		month, day := d.Month(), d.Day()
		seen[time.Date(commonYear, month, day, 0, 0, 0, 0, time.UTC).YearDay()] = true
		seen[time.Date(leapYear, month, day, 0, 0, 0, 0, time.UTC).YearDay()] = true
	}

	days := make([]int, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}
