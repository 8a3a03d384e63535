// internal/datastore/analytics.go
package datastore

import (
	"context"
	"fmt"
)

// BestEstimates returns, for every (hotspot, species) pair that matches the
// geographic filter and is not in the excluded species list, the best
// detection probability over the requested days of year. The probability is
// the maximum Wilson lower bound across the days, clamped at zero; pairs
// whose best probability is not positive are dropped.
//
// The maximum is deliberate: a hotspot is credited for a single strong peak
// day inside the window, since the caller only needs one good visit day.
func (ds *DataStore) BestEstimates(ctx context.Context, daysOfYear []int, excluded []string, county, state string) ([]SpeciesProbability, error) {
	if len(daysOfYear) == 0 {
		return nil, nil
	}

	query := ds.DB.WithContext(ctx).
		Table("rolling_estimates").
		Select("rolling_estimates.locality_id, rolling_estimates.common_name, MAX(MAX(rolling_estimates.wilson_lower_bound, 0)) AS probability").
		Joins("JOIN hotspots ON hotspots.locality_id = rolling_estimates.locality_id").
		Where("rolling_estimates.day_of_year IN ?", daysOfYear).
		Group("rolling_estimates.locality_id, rolling_estimates.common_name").
		Having("MAX(MAX(rolling_estimates.wilson_lower_bound, 0)) > 0").
		Order("rolling_estimates.locality_id, rolling_estimates.common_name")

	if len(excluded) > 0 {
		query = query.Where("rolling_estimates.common_name NOT IN ?", excluded)
	}

	// county takes precedence over state when both are set
	switch {
	case county != "":
		query = query.Where("hotspots.county = ?", county)
	case state != "":
		query = query.Where("hotspots.state = ?", state)
	}

	var probabilities []SpeciesProbability
	if err := query.Scan(&probabilities).Error; err != nil {
		return nil, fmt.Errorf("error getting best estimates: %w", err)
	}

	return probabilities, nil
}

// HotspotsByID retrieves hotspot metadata for the given locality ids.
func (ds *DataStore) HotspotsByID(ctx context.Context, localityIDs []int64) ([]Hotspot, error) {
	if len(localityIDs) == 0 {
		return nil, nil
	}

	var hotspots []Hotspot
	err := ds.DB.WithContext(ctx).
		Where("locality_id IN ?", localityIDs).
		Order("locality_id").
		Find(&hotspots).Error
	if err != nil {
		return nil, fmt.Errorf("error getting hotspots: %w", err)
	}

	return hotspots, nil
}

// Counties returns the distinct county names present in the hotspot table.
func (ds *DataStore) Counties(ctx context.Context) ([]string, error) {
	return ds.distinctRegion(ctx, "county")
}

// States returns the distinct state names present in the hotspot table.
func (ds *DataStore) States(ctx context.Context) ([]string, error) {
	return ds.distinctRegion(ctx, "state")
}

func (ds *DataStore) distinctRegion(ctx context.Context, column string) ([]string, error) {
	var regions []string
	err := ds.DB.WithContext(ctx).
		Model(&Hotspot{}).
		Distinct(column).
		Where(column+" != ''").
		Order(column).
		Pluck(column, &regions).Error
	if err != nil {
		return nil, fmt.Errorf("error getting distinct %s values: %w", column, err)
	}

	return regions, nil
}
