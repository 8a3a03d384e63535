package frequency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listr-birding/listr/internal/datastore"
)

func TestWrapDay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, wrapDay(1))
	assert.Equal(t, 366, wrapDay(366))
	assert.Equal(t, 1, wrapDay(367))
	assert.Equal(t, 3, wrapDay(369))
	assert.Equal(t, 366, wrapDay(0))
	assert.Equal(t, 364, wrapDay(-2))
}

func TestComputeRollingEstimatesWindowSums(t *testing.T) {
	t.Parallel()

	counts := []datastore.DailyCount{
		{LocalityID: 1, DayOfYear: 100, CommonName: "Ovenbird", TotalDetections: 2, TotalChecklists: 4},
		{LocalityID: 1, DayOfYear: 101, CommonName: "Ovenbird", TotalDetections: 1, TotalChecklists: 3},
		{LocalityID: 1, DayOfYear: 103, CommonName: "Ovenbird", TotalDetections: 3, TotalChecklists: 5},
	}

	estimates := ComputeRollingEstimates(counts)
	byDay := estimatesByDay(estimates)

	// Day 100's window covers 97..103: k = 2+1+3, n = 4+3+5
	est, ok := byDay[100]
	require.True(t, ok)
	assert.Equal(t, 6, est.RollingDetections)
	assert.Equal(t, 12, est.RollingChecklists)
	assert.InDelta(t, 0.5, est.RollingFreq, 1e-9)
	assert.InDelta(t, WilsonLowerBound(6, 12), est.WilsonLowerBound, 1e-9)

	// Day 106's window covers 103..109: only day 103 has data
	est, ok = byDay[106]
	require.True(t, ok)
	assert.Equal(t, 3, est.RollingDetections)
	assert.Equal(t, 5, est.RollingChecklists)

	// Day 107 is outside every window
	_, ok = byDay[107]
	assert.False(t, ok)
}

func TestComputeRollingEstimatesWrapsYearBoundary(t *testing.T) {
	t.Parallel()

	counts := []datastore.DailyCount{
		{LocalityID: 1, DayOfYear: 365, CommonName: "Snowy Owl", TotalDetections: 1, TotalChecklists: 2},
		{LocalityID: 1, DayOfYear: 2, CommonName: "Snowy Owl", TotalDetections: 1, TotalChecklists: 3},
	}

	estimates := ComputeRollingEstimates(counts)
	byDay := estimatesByDay(estimates)

	// Day 1's window covers 364..366 and 1..4, picking up both days
	est, ok := byDay[1]
	require.True(t, ok)
	assert.Equal(t, 2, est.RollingDetections)
	assert.Equal(t, 5, est.RollingChecklists)

	// Day 364's window covers 361..366 and 1, missing day 2
	est, ok = byDay[364]
	require.True(t, ok)
	assert.Equal(t, 1, est.RollingDetections)
	assert.Equal(t, 2, est.RollingChecklists)
}

func TestComputeRollingEstimatesZeroDetectionDays(t *testing.T) {
	t.Parallel()

	// A species missed on an active day still dilutes its own frequency
	counts := []datastore.DailyCount{
		{LocalityID: 1, DayOfYear: 50, CommonName: "Winter Wren", TotalDetections: 2, TotalChecklists: 2},
		{LocalityID: 1, DayOfYear: 51, CommonName: "Winter Wren", TotalDetections: 0, TotalChecklists: 6},
	}

	estimates := ComputeRollingEstimates(counts)
	byDay := estimatesByDay(estimates)

	est, ok := byDay[50]
	require.True(t, ok)
	assert.Equal(t, 2, est.RollingDetections)
	assert.Equal(t, 8, est.RollingChecklists)
	assert.InDelta(t, 0.25, est.RollingFreq, 1e-9)
}

func TestComputeRollingEstimatesDeterministicOrder(t *testing.T) {
	t.Parallel()

	counts := []datastore.DailyCount{
		{LocalityID: 2, DayOfYear: 10, CommonName: "Veery", TotalDetections: 1, TotalChecklists: 1},
		{LocalityID: 1, DayOfYear: 10, CommonName: "Wood Thrush", TotalDetections: 1, TotalChecklists: 1},
		{LocalityID: 1, DayOfYear: 10, CommonName: "Hermit Thrush", TotalDetections: 1, TotalChecklists: 1},
	}

	first := ComputeRollingEstimates(counts)
	second := ComputeRollingEstimates(counts)
	assert.Equal(t, first, second)

	// ordered by locality then species
	require.NotEmpty(t, first)
	assert.Equal(t, int64(1), first[0].LocalityID)
	assert.Equal(t, "Hermit Thrush", first[0].CommonName)
}

func TestComputeRollingEstimatesEmptyInput(t *testing.T) {
	t.Parallel()
	assert.Empty(t, ComputeRollingEstimates(nil))
}

// estimatesByDay indexes single-series estimates by day of year.
func estimatesByDay(estimates []datastore.RollingEstimate) map[int]datastore.RollingEstimate {
	byDay := make(map[int]datastore.RollingEstimate, len(estimates))
	for _, est := range estimates {
		byDay[est.DayOfYear] = est
	}
	return byDay
}
