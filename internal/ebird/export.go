// Package ebird parses eBird data exports: the tab-separated Basic Dataset
// used to build the detection frequency tables, and the personal "My eBird
// Data" CSV used to build a life list.
package ebird

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Export column headers used by the Basic Dataset TSV.
const (
	colCommonName      = "COMMON NAME"
	colScientificName  = "SCIENTIFIC NAME"
	colCategory        = "CATEGORY"
	colTaxonomicOrder  = "TAXONOMIC ORDER"
	colState           = "STATE"
	colCounty          = "COUNTY"
	colLocality        = "LOCALITY"
	colLocalityID      = "LOCALITY ID"
	colLocalityType    = "LOCALITY TYPE"
	colLatitude        = "LATITUDE"
	colLongitude       = "LONGITUDE"
	colObservationDate = "OBSERVATION DATE"
	colObserverID      = "OBSERVER ID"
	colSamplingID      = "SAMPLING EVENT IDENTIFIER"
	colGroupID         = "GROUP IDENTIFIER"
	colAllSpeciesRep   = "ALL SPECIES REPORTED"
)

// localityTypeHotspot marks rows recorded at a shared hotspot locality.
const localityTypeHotspot = "H"

// countableCategories are the taxonomic categories that count as a
// detectable species. Spuhs, slashes and hybrids are excluded.
var countableCategories = map[string]bool{
	"species":  true,
	"issf":     true,
	"form":     true,
	"domestic": true,
}

// trailingDigits extracts the numeric part of eBird identifiers such as
// "L123456", "S98765432" and "G1234567".
var trailingDigits = regexp.MustCompile(`(\d+)$`)

// Record is one detection row from the Basic Dataset export, already
// filtered to complete checklists at hotspot localities.
type Record struct {
	CommonName      string
	ScientificName  string
	TaxonomicOrder  int64
	ObservationDate string // YYYY-MM-DD
	State           string
	County          string
	Locality        string
	LocalityID      int64
	Latitude        float64
	Longitude       float64
	ObserverID      int64
	SamplingID      int64
	GroupID         int64 // 0 when the checklist was not shared
}

// ScanExport reads a Basic Dataset TSV from r and calls fn for every row that
// represents a countable species on a complete checklist at a hotspot.
// Rows failing those filters are skipped silently; malformed rows that pass
// the filters produce an error.
func ScanExport(r io.Reader, fn func(Record) error) error {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading export header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{
		colCommonName, colCategory, colObservationDate,
		colLocalityID, colLocalityType, colSamplingID, colAllSpeciesRep,
	} {
		if _, ok := cols[required]; !ok {
			return fmt.Errorf("export is missing required column %q", required)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading export row: %w", err)
		}
		line++

		if field(row, colLocalityType) != localityTypeHotspot {
			continue
		}
		if !countableCategories[field(row, colCategory)] {
			continue
		}
		if !parseBool(field(row, colAllSpeciesRep)) {
			continue
		}

		record, err := parseExportRow(row, field)
		if err != nil {
			return fmt.Errorf("export line %d: %w", line, err)
		}
		if err := fn(record); err != nil {
			return err
		}
	}
}

// ParseExportFile reads the export at path and returns all qualifying records.
func ParseExportFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export file: %w", err)
	}
	defer f.Close()

	var records []Record
	err = ScanExport(f, func(rec Record) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func parseExportRow(row []string, field func([]string, string) string) (Record, error) {
	localityID, err := parseEBirdID(field(row, colLocalityID))
	if err != nil {
		return Record{}, fmt.Errorf("locality id: %w", err)
	}
	samplingID, err := parseEBirdID(field(row, colSamplingID))
	if err != nil {
		return Record{}, fmt.Errorf("sampling event identifier: %w", err)
	}

	// Group and observer ids are optional
	groupID, _ := parseEBirdID(field(row, colGroupID))
	observerID, _ := parseEBirdID(field(row, colObserverID))

	latitude, err := strconv.ParseFloat(field(row, colLatitude), 64)
	if err != nil {
		return Record{}, fmt.Errorf("latitude: %w", err)
	}
	longitude, err := strconv.ParseFloat(field(row, colLongitude), 64)
	if err != nil {
		return Record{}, fmt.Errorf("longitude: %w", err)
	}

	taxonomicOrder, _ := strconv.ParseFloat(field(row, colTaxonomicOrder), 64)

	return Record{
		CommonName:      field(row, colCommonName),
		ScientificName:  field(row, colScientificName),
		TaxonomicOrder:  int64(taxonomicOrder),
		ObservationDate: field(row, colObservationDate),
		State:           field(row, colState),
		County:          field(row, colCounty),
		Locality:        field(row, colLocality),
		LocalityID:      localityID,
		Latitude:        latitude,
		Longitude:       longitude,
		ObserverID:      observerID,
		SamplingID:      samplingID,
		GroupID:         groupID,
	}, nil
}

// parseEBirdID extracts the numeric suffix of an eBird identifier.
func parseEBirdID(id string) (int64, error) {
	match := trailingDigits.FindString(id)
	if match == "" {
		return 0, fmt.Errorf("no numeric suffix in identifier %q", id)
	}
	value, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing identifier %q: %w", id, err)
	}
	return value, nil
}

func parseBool(s string) bool {
	return s == "1" || strings.EqualFold(s, "true")
}
