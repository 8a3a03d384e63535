package optimizer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listr-birding/listr/internal/datastore"
)

// stubStore serves canned estimate rows, applying the same species exclusion
// and ordering the real query does.
type stubStore struct {
	datastore.Interface

	probabilities []datastore.SpeciesProbability
	hotspots      map[int64]datastore.Hotspot

	lastDays     []int
	lastExcluded []string
}

func (s *stubStore) BestEstimates(ctx context.Context, daysOfYear []int, excluded []string, county, state string) ([]datastore.SpeciesProbability, error) {
	s.lastDays = daysOfYear
	s.lastExcluded = excluded

	skip := make(map[string]bool, len(excluded))
	for _, name := range excluded {
		skip[name] = true
	}

	var out []datastore.SpeciesProbability
	for _, p := range s.probabilities {
		if !skip[p.CommonName] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubStore) HotspotsByID(ctx context.Context, localityIDs []int64) ([]datastore.Hotspot, error) {
	var out []datastore.Hotspot
	for _, id := range localityIDs {
		if h, ok := s.hotspots[id]; ok {
			out = append(out, h)
		}
	}
	return out, nil
}

func newStubStore() *stubStore {
	return &stubStore{
		probabilities: []datastore.SpeciesProbability{
			{LocalityID: 10, CommonName: "Bobolink", Probability: 0.5},
			{LocalityID: 10, CommonName: "Sora", Probability: 0.3},
			{LocalityID: 20, CommonName: "Bobolink", Probability: 0.2},
			{LocalityID: 20, CommonName: "Sora", Probability: 0.6},
		},
		hotspots: map[int64]datastore.Hotspot{
			10: {LocalityID: 10, Name: "Dead Creek WMA", County: "Addison", State: "Vermont"},
			20: {LocalityID: 20, Name: "Shelburne Bay", County: "Chittenden", State: "Vermont"},
		},
	}
}

func TestOptimizeSelectsAndRanks(t *testing.T) {
	t.Parallel()
	store := newStubStore()

	result, err := Optimize(context.Background(), store, Request{
		StartDate: date(2025, time.May, 10),
		EndDate:   date(2025, time.May, 20),
		K:         2,
	})
	require.NoError(t, err)

	require.Len(t, result.SelectedHotspots, 2)

	first := result.SelectedHotspots[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, int64(10), first.LocalityID)
	assert.Equal(t, "Dead Creek WMA", first.Name)
	assert.InDelta(t, 0.8, first.MarginalGain, 1e-9)
	assert.InDelta(t, 0.8, first.CumulativeExpected, 1e-9)

	second := result.SelectedHotspots[1]
	assert.Equal(t, 2, second.Rank)
	assert.Equal(t, int64(20), second.LocalityID)
	assert.InDelta(t, 0.52, second.MarginalGain, 1e-9)
	assert.InDelta(t, 1.32, second.CumulativeExpected, 1e-9)

	assert.InDelta(t, 1.32, result.TotalExpectedLifers, 1e-9)
	assert.Equal(t, 2, result.NumCandidateHotspots)
	assert.Equal(t, 2, result.NumPotentialLifers)
	assert.Equal(t, "All areas", result.GeographicFilter)
}

func TestOptimizeTargetSpeciesSorted(t *testing.T) {
	t.Parallel()
	store := newStubStore()

	result, err := Optimize(context.Background(), store, Request{
		StartDate: date(2025, time.May, 10),
		EndDate:   date(2025, time.May, 20),
		K:         1,
	})
	require.NoError(t, err)

	require.Len(t, result.SelectedHotspots, 1)
	targets := result.SelectedHotspots[0].TargetSpecies
	require.Len(t, targets, 2)
	assert.Equal(t, "Bobolink", targets[0].CommonName)
	assert.InDelta(t, 0.5, targets[0].Probability, 1e-9)
	assert.Equal(t, "Sora", targets[1].CommonName)
	assert.InDelta(t, 0.3, targets[1].Probability, 1e-9)
}

func TestOptimizeCombinedProbabilities(t *testing.T) {
	t.Parallel()
	store := newStubStore()

	result, err := Optimize(context.Background(), store, Request{
		StartDate: date(2025, time.May, 10),
		EndDate:   date(2025, time.May, 20),
		K:         2,
	})
	require.NoError(t, err)

	// combined capture probability: 1 - (1-0.5)(1-0.2) = 0.6 for Bobolink,
	// 1 - (1-0.3)(1-0.6) = 0.72 for Sora, sorted descending
	require.Len(t, result.SpeciesCombinedProbs, 2)
	assert.Equal(t, "Sora", result.SpeciesCombinedProbs[0].CommonName)
	assert.InDelta(t, 0.72, result.SpeciesCombinedProbs[0].Probability, 1e-9)
	assert.Equal(t, "Bobolink", result.SpeciesCombinedProbs[1].CommonName)
	assert.InDelta(t, 0.6, result.SpeciesCombinedProbs[1].Probability, 1e-9)
}

func TestOptimizeExcludesLifeListSpecies(t *testing.T) {
	t.Parallel()
	store := newStubStore()

	result, err := Optimize(context.Background(), store, Request{
		LifeList:  []string{"Bobolink"},
		StartDate: date(2025, time.May, 10),
		EndDate:   date(2025, time.May, 20),
		K:         2,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Bobolink"}, store.lastExcluded)
	for _, h := range result.SelectedHotspots {
		for _, sp := range h.TargetSpecies {
			assert.NotEqual(t, "Bobolink", sp.CommonName)
		}
	}
	for _, sp := range result.SpeciesCombinedProbs {
		assert.NotEqual(t, "Bobolink", sp.CommonName)
	}
	assert.Equal(t, 1, result.NumPotentialLifers)
}

func TestOptimizeNoCandidates(t *testing.T) {
	t.Parallel()
	store := &stubStore{}

	start := date(2025, time.May, 10)
	end := date(2025, time.May, 20)
	result, err := Optimize(context.Background(), store, Request{
		StartDate: start,
		EndDate:   end,
		K:         5,
		County:    "Addison",
		State:     "Vermont",
	})
	require.NoError(t, err)

	assert.Empty(t, result.SelectedHotspots)
	assert.Zero(t, result.TotalExpectedLifers)
	assert.Zero(t, result.NumCandidateHotspots)
	assert.Equal(t, start, result.StartDate)
	assert.Equal(t, end, result.EndDate)
	assert.Equal(t, "Addison, Vermont", result.GeographicFilter)
}

func TestOptimizeKLargerThanCandidates(t *testing.T) {
	t.Parallel()
	store := newStubStore()

	result, err := Optimize(context.Background(), store, Request{
		StartDate: date(2025, time.May, 10),
		EndDate:   date(2025, time.May, 20),
		K:         10,
	})
	require.NoError(t, err)
	assert.Len(t, result.SelectedHotspots, 2)
}

func TestOptimizeIdempotent(t *testing.T) {
	t.Parallel()
	store := newStubStore()

	req := Request{
		StartDate: date(2025, time.May, 10),
		EndDate:   date(2025, time.May, 20),
		K:         2,
	}
	first, err := Optimize(context.Background(), store, req)
	require.NoError(t, err)
	second, err := Optimize(context.Background(), store, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestOptimizePassesExpandedDays(t *testing.T) {
	t.Parallel()
	store := newStubStore()

	_, err := Optimize(context.Background(), store, Request{
		StartDate: date(2025, time.December, 28),
		EndDate:   date(2026, time.January, 3),
		K:         1,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 362, 363, 364, 365, 366}, store.lastDays)
}
