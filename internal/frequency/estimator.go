// Package frequency turns daily detection counts into smoothed,
// confidence-bounded detection probability estimates per hotspot, species
// and day of year.
package frequency

import (
	"sort"

	"github.com/listr-birding/listr/internal/datastore"
)

const (
	// daysInYear collapses all historical years onto a single 366 day calendar.
	daysInYear = 366
	// windowRadius is the half-width of the rolling window in days.
	windowRadius = 3
)

// wrapDay maps any day offset onto the circular 1..366 calendar, so windows
// near the year boundary pick up days from the other end (day 365's window
// covers 362..366 and 1..3).
func wrapDay(day int) int {
	day = (day - 1) % daysInYear
	if day < 0 {
		day += daysInYear
	}
	return day + 1
}

type seriesKey struct {
	localityID int64
	commonName string
}

// ComputeRollingEstimates computes, for every (hotspot, species) pair present
// in counts and every day of year, the detections and checklists summed over
// a circular ±3 day window, the resulting rolling frequency, and its Wilson
// lower bound. Days whose window contains no checklists produce no estimate.
//
// Output is ordered by locality id, species, day of year, so identical input
// always yields identical output.
func ComputeRollingEstimates(counts []datastore.DailyCount) []datastore.RollingEstimate {
	// checklist totals are per (hotspot, day), identical across species rows
	checklists := make(map[int64]*[daysInYear + 1]int)
	detections := make(map[seriesKey]map[int]int)

	for i := range counts {
		c := &counts[i]
		if c.DayOfYear < 1 || c.DayOfYear > daysInYear {
			continue
		}

		perDay, ok := checklists[c.LocalityID]
		if !ok {
			perDay = &[daysInYear + 1]int{}
			checklists[c.LocalityID] = perDay
		}
		perDay[c.DayOfYear] = c.TotalChecklists

		key := seriesKey{localityID: c.LocalityID, commonName: c.CommonName}
		series, ok := detections[key]
		if !ok {
			series = make(map[int]int)
			detections[key] = series
		}
		series[c.DayOfYear] += c.TotalDetections
	}

	// windowed checklist totals depend only on the hotspot, compute them once
	windowChecklists := make(map[int64]*[daysInYear + 1]int, len(checklists))
	for localityID, perDay := range checklists {
		windowed := &[daysInYear + 1]int{}
		for day := 1; day <= daysInYear; day++ {
			sum := 0
			for offset := -windowRadius; offset <= windowRadius; offset++ {
				sum += perDay[wrapDay(day+offset)]
			}
			windowed[day] = sum
		}
		windowChecklists[localityID] = windowed
	}

	keys := make([]seriesKey, 0, len(detections))
	for key := range detections {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].localityID != keys[j].localityID {
			return keys[i].localityID < keys[j].localityID
		}
		return keys[i].commonName < keys[j].commonName
	})

	var estimates []datastore.RollingEstimate
	for _, key := range keys {
		series := detections[key]
		windowed := windowChecklists[key.localityID]

		for day := 1; day <= daysInYear; day++ {
			n := windowed[day]
			if n == 0 {
				continue
			}

			k := 0
			for offset := -windowRadius; offset <= windowRadius; offset++ {
				k += series[wrapDay(day+offset)]
			}

			estimates = append(estimates, datastore.RollingEstimate{
				LocalityID:        key.localityID,
				DayOfYear:         day,
				CommonName:        key.commonName,
				RollingDetections: k,
				RollingChecklists: n,
				RollingFreq:       float64(k) / float64(n),
				WilsonLowerBound:  WilsonLowerBound(k, n),
			})
		}
	}

	return estimates
}
