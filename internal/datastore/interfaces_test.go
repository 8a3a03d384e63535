package datastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceTableSwapsSnapshot(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	old := []Hotspot{
		{LocalityID: 1, Name: "Old Hotspot"},
		{LocalityID: 2, Name: "Another Old Hotspot"},
	}
	require.NoError(t, ds.ReplaceHotspots(context.Background(), old))

	replacement := []Hotspot{
		{LocalityID: 3, Name: "New Hotspot"},
	}
	require.NoError(t, ds.ReplaceHotspots(context.Background(), replacement))

	var hotspots []Hotspot
	require.NoError(t, ds.DB.Order("locality_id").Find(&hotspots).Error)
	require.Len(t, hotspots, 1)
	assert.Equal(t, int64(3), hotspots[0].LocalityID)
}

func TestReplaceTableWithEmptySliceClearsTable(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	require.NoError(t, ds.ReplaceRollingEstimates(context.Background(), []RollingEstimate{
		{LocalityID: 1, DayOfYear: 1, CommonName: "Wood Thrush", WilsonLowerBound: 0.5},
	}))
	require.NoError(t, ds.ReplaceRollingEstimates(context.Background(), nil))

	var count int64
	require.NoError(t, ds.DB.Model(&RollingEstimate{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestReplaceTableBatchesLargeInserts(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	counts := make([]DailyCount, 0, 2500)
	for day := 1; day <= 250; day++ {
		for loc := int64(1); loc <= 10; loc++ {
			counts = append(counts, DailyCount{
				LocalityID:      loc,
				DayOfYear:       day,
				CommonName:      "Song Sparrow",
				TotalDetections: 1,
				TotalChecklists: 2,
			})
		}
	}
	require.NoError(t, ds.ReplaceDailyCounts(context.Background(), counts))

	var got int64
	require.NoError(t, ds.DB.Model(&DailyCount{}).Count(&got).Error)
	assert.Equal(t, int64(len(counts)), got)
}
