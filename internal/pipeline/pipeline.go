// Package pipeline builds the detection frequency database from an eBird
// Basic Dataset export. It deduplicates shared checklists, derives hotspot
// metadata, drops one-off vagrants, aggregates daily counts and computes the
// rolling detection estimates the optimizer queries.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/listr-birding/listr/internal/conf"
	"github.com/listr-birding/listr/internal/datastore"
	"github.com/listr-birding/listr/internal/ebird"
	"github.com/listr-birding/listr/internal/frequency"
	"github.com/listr-birding/listr/internal/logging"
)

// Run ingests the export at exportPath and replaces the database contents
// with the freshly derived tables. It is intended to run out of band, while
// no optimization queries are in flight.
func Run(ctx context.Context, store datastore.Interface, settings *conf.Settings, exportPath string) error {
	logger := logging.ForService("pipeline")
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()

	records, err := ebird.ParseExportFile(exportPath)
	if err != nil {
		return fmt.Errorf("parsing export: %w", err)
	}
	logger.Info("parsed export", "path", exportPath, "records", len(records))

	records = DeduplicateShared(records)

	if err := store.ReplaceSightings(ctx, toSightings(records)); err != nil {
		return err
	}

	hotspots := BuildHotspots(records)
	if err := store.ReplaceHotspots(ctx, hotspots); err != nil {
		return err
	}

	filtered := FilterVagrants(records, settings.Ingest.MinYearsObserved)
	logger.Info("filtered vagrants",
		"before", len(records), "after", len(filtered),
		"min_years", settings.Ingest.MinYearsObserved)

	counts := BuildDailyCounts(filtered)
	if err := store.ReplaceDailyCounts(ctx, counts); err != nil {
		return err
	}

	estimates := frequency.ComputeRollingEstimates(counts)
	if err := store.ReplaceRollingEstimates(ctx, estimates); err != nil {
		return err
	}

	logger.Info("ingest complete",
		"hotspots", len(hotspots),
		"daily_counts", len(counts),
		"estimates", len(estimates),
		"elapsed", time.Since(start))

	return nil
}

type pairKey struct {
	localityID int64
	commonName string
}

type groupKey struct {
	groupID    int64
	commonName string
}

// DeduplicateShared collapses duplicate detections from shared group
// checklists, keeping the row with the lowest sampling id per (group,
// species). Rows without a group id are never duplicates.
func DeduplicateShared(records []ebird.Record) []ebird.Record {
	best := make(map[groupKey]int)
	var out []ebird.Record

	for i := range records {
		rec := &records[i]
		if rec.GroupID == 0 {
			out = append(out, *rec)
			continue
		}
		key := groupKey{groupID: rec.GroupID, commonName: rec.CommonName}
		if prev, seen := best[key]; seen {
			if rec.SamplingID < out[prev].SamplingID {
				out[prev] = *rec
			}
			continue
		}
		best[key] = len(out)
		out = append(out, *rec)
	}

	return out
}

// BuildHotspots derives one metadata row per locality, averaging the
// coordinates across all its records.
func BuildHotspots(records []ebird.Record) []datastore.Hotspot {
	type accum struct {
		hotspot datastore.Hotspot
		latSum  float64
		lonSum  float64
		count   int
	}

	accums := make(map[int64]*accum)
	for i := range records {
		rec := &records[i]
		a, ok := accums[rec.LocalityID]
		if !ok {
			a = &accum{hotspot: datastore.Hotspot{
				LocalityID: rec.LocalityID,
				Name:       rec.Locality,
				County:     rec.County,
				State:      rec.State,
			}}
			accums[rec.LocalityID] = a
		}
		a.latSum += rec.Latitude
		a.lonSum += rec.Longitude
		a.count++
	}

	hotspots := make([]datastore.Hotspot, 0, len(accums))
	for _, a := range accums {
		a.hotspot.Latitude = a.latSum / float64(a.count)
		a.hotspot.Longitude = a.lonSum / float64(a.count)
		hotspots = append(hotspots, a.hotspot)
	}
	sort.Slice(hotspots, func(i, j int) bool { return hotspots[i].LocalityID < hotspots[j].LocalityID })

	return hotspots
}

// FilterVagrants drops records of species observed at a hotspot in fewer
// than minYears distinct years. A single-year presence is most likely a
// vagrant individual, not a recurring seasonal pattern worth recommending.
func FilterVagrants(records []ebird.Record, minYears int) []ebird.Record {
	if minYears <= 1 {
		return records
	}

	years := make(map[pairKey]map[string]bool)
	for i := range records {
		rec := &records[i]
		key := pairKey{localityID: rec.LocalityID, commonName: rec.CommonName}
		if years[key] == nil {
			years[key] = make(map[string]bool)
		}
		years[key][observationYear(rec.ObservationDate)] = true
	}

	var out []ebird.Record
	for i := range records {
		rec := &records[i]
		key := pairKey{localityID: rec.LocalityID, commonName: rec.CommonName}
		if len(years[key]) >= minYears {
			out = append(out, *rec)
		}
	}

	return out
}

// BuildDailyCounts aggregates records into one row per (hotspot, day of
// year, species seen at that hotspot, day the hotspot had checklists):
// the number of distinct checklists reporting the species that day and the
// number of distinct checklists submitted at the hotspot that day. Species
// rows are emitted for every active day, with zero detections when the
// species was missed, so the estimator sees the full checklist effort.
func BuildDailyCounts(records []ebird.Record) []datastore.DailyCount {
	type localityDay struct {
		localityID int64
		dayOfYear  int
	}

	checklists := make(map[localityDay]map[int64]bool)
	detections := make(map[localityDay]map[string]map[int64]bool)
	species := make(map[int64]map[string]bool)

	for i := range records {
		rec := &records[i]
		day, err := dayOfYear(rec.ObservationDate)
		if err != nil {
			continue
		}
		ld := localityDay{localityID: rec.LocalityID, dayOfYear: day}

		if checklists[ld] == nil {
			checklists[ld] = make(map[int64]bool)
		}
		checklists[ld][rec.SamplingID] = true

		if detections[ld] == nil {
			detections[ld] = make(map[string]map[int64]bool)
		}
		if detections[ld][rec.CommonName] == nil {
			detections[ld][rec.CommonName] = make(map[int64]bool)
		}
		detections[ld][rec.CommonName][rec.SamplingID] = true

		if species[rec.LocalityID] == nil {
			species[rec.LocalityID] = make(map[string]bool)
		}
		species[rec.LocalityID][rec.CommonName] = true
	}

	var counts []datastore.DailyCount
	for ld, samples := range checklists {
		for name := range species[ld.localityID] {
			counts = append(counts, datastore.DailyCount{
				LocalityID:      ld.localityID,
				DayOfYear:       ld.dayOfYear,
				CommonName:      name,
				TotalDetections: len(detections[ld][name]),
				TotalChecklists: len(samples),
			})
		}
	}

	sort.Slice(counts, func(i, j int) bool {
		a, b := &counts[i], &counts[j]
		if a.LocalityID != b.LocalityID {
			return a.LocalityID < b.LocalityID
		}
		if a.DayOfYear != b.DayOfYear {
			return a.DayOfYear < b.DayOfYear
		}
		return a.CommonName < b.CommonName
	})

	return counts
}

func toSightings(records []ebird.Record) []datastore.Sighting {
	sightings := make([]datastore.Sighting, len(records))
	for i := range records {
		rec := &records[i]
		sightings[i] = datastore.Sighting{
			CommonName:      rec.CommonName,
			ScientificName:  rec.ScientificName,
			TaxonomicOrder:  rec.TaxonomicOrder,
			ObservationDate: rec.ObservationDate,
			LocalityID:      rec.LocalityID,
			Locality:        rec.Locality,
			Latitude:        rec.Latitude,
			Longitude:       rec.Longitude,
			County:          rec.County,
			State:           rec.State,
			SamplingID:      rec.SamplingID,
			GroupID:         rec.GroupID,
			ObserverID:      rec.ObserverID,
		}
	}
	return sightings
}

func observationYear(date string) string {
	if len(date) < 4 {
		return date
	}
	return date[:4]
}

// dayOfYear converts a YYYY-MM-DD date to its day number in that year.
func dayOfYear(date string) (int, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, fmt.Errorf("parsing observation date %q: %w", date, err)
	}
	return t.YearDay(), nil
}
