package optimizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestDaysOfYearSpringRange(t *testing.T) {
	t.Parallel()

	// May 10-12 maps to days 130-132 in a common year and 131-133 in a
	// leap year, so the union covers both alignments
	days := DaysOfYear(date(2025, time.May, 10), date(2025, time.May, 12))
	assert.Equal(t, []int{130, 131, 132, 133}, days)
}

func TestDaysOfYearBeforeMarchIdenticalAcrossYears(t *testing.T) {
	t.Parallel()

	// January dates fall on the same day number in leap and common years
	days := DaysOfYear(date(2025, time.January, 5), date(2025, time.January, 7))
	assert.Equal(t, []int{5, 6, 7}, days)
}

func TestDaysOfYearWrapsYearBoundary(t *testing.T) {
	t.Parallel()

	days := DaysOfYear(date(2025, time.December, 28), date(2026, time.January, 3))
	assert.Equal(t, []int{1, 2, 3, 362, 363, 364, 365, 366}, days)
}

func TestDaysOfYearEndBeforeStartWraps(t *testing.T) {
	t.Parallel()

	// Same-year dates given out of order wrap forward across the boundary
	days := DaysOfYear(date(2025, time.December, 30), date(2025, time.January, 2))
	assert.Equal(t, []int{1, 2, 364, 365, 366}, days)
}

func TestDaysOfYearSingleDay(t *testing.T) {
	t.Parallel()

	days := DaysOfYear(date(2025, time.July, 1), date(2025, time.July, 1))
	// Jul 1 is day 182 in a common year, 183 in a leap year
	assert.Equal(t, []int{182, 183}, days)
}

func TestDaysOfYearLeapDay(t *testing.T) {
	t.Parallel()

	days := DaysOfYear(date(2024, time.February, 29), date(2024, time.February, 29))
	// Feb 29 is day 60 in a leap year; the common year mapping
	// normalizes to Mar 1, also day 60
	assert.Equal(t, []int{60}, days)
}
