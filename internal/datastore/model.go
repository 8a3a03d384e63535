// model.go this code defines the data model for the application
package datastore

// Sighting represents one deduplicated checklist-level detection record from
// an eBird export. Shared group checklists are collapsed to a single row per
// (group, species) before these are saved.
type Sighting struct {
	ID              uint   `gorm:"primaryKey"`
	CommonName      string `gorm:"index:idx_sightings_locality_species,priority:2"`
	ScientificName  string
	TaxonomicOrder  int64
	ObservationDate string `gorm:"index:idx_sightings_date"` // YYYY-MM-DD
	LocalityID      int64  `gorm:"index:idx_sightings_locality_species,priority:1"`
	Locality        string
	Latitude        float64
	Longitude       float64
	County          string
	State           string
	SamplingID      int64 // distinct checklist identifier
	GroupID         int64 // shared checklist group, 0 when not shared
	ObserverID      int64
}

// DailyCount aggregates sightings for one (hotspot, day-of-year, species):
// how many distinct checklists reported the species and how many distinct
// complete checklists were submitted at the hotspot on that calendar day.
type DailyCount struct {
	ID              uint   `gorm:"primaryKey"`
	LocalityID      int64  `gorm:"index:idx_dailycounts_locality_species,priority:1"`
	DayOfYear       int    `gorm:"index:idx_dailycounts_day"`
	CommonName      string `gorm:"index:idx_dailycounts_locality_species,priority:2"`
	TotalDetections int
	TotalChecklists int
}

// RollingEstimate is the smoothed detection probability estimate for one
// (hotspot, day-of-year, species) triple, summed over a circular ±3 day
// window. WilsonLowerBound is the 90% one-sided confidence lower bound of
// the true detection probability given RollingDetections/RollingChecklists.
type RollingEstimate struct {
	ID                uint   `gorm:"primaryKey"`
	LocalityID        int64  `gorm:"index:idx_estimates_locality_species,priority:1"`
	DayOfYear         int    `gorm:"index:idx_estimates_day"`
	CommonName        string `gorm:"index:idx_estimates_locality_species,priority:2"`
	RollingDetections int
	RollingChecklists int
	RollingFreq       float64
	WilsonLowerBound  float64
}

// Hotspot is the metadata for one birding locality, with coordinates
// averaged across all sightings recorded there.
type Hotspot struct {
	LocalityID int64  `gorm:"primaryKey"`
	Name       string `gorm:"index:idx_hotspots_name"`
	Latitude   float64
	Longitude  float64
	County     string `gorm:"index:idx_hotspots_county"`
	State      string `gorm:"index:idx_hotspots_state"`
}

// SpeciesProbability is one (hotspot, species) detection probability row
// produced by the best-estimate query feeding the optimizer.
type SpeciesProbability struct {
	LocalityID  int64
	CommonName  string
	Probability float64
}
