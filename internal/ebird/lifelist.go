package ebird

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Personal export ("My eBird Data") column headers.
const (
	lifeColCommonName     = "Common Name"
	lifeColScientificName = "Scientific Name"
	lifeColTaxonomicOrder = "Taxonomic Order"
	lifeColDate           = "Date"
	lifeColLocation       = "Location"
)

// LifeListEntry is the first recorded observation of one species from a
// personal eBird export.
type LifeListEntry struct {
	CommonName      string
	ScientificName  string
	TaxonomicOrder  int64
	ObservationDate string // YYYY-MM-DD
	Locality        string
}

// ParseLifeList reads a personal "My eBird Data" CSV and returns one entry
// per species, keeping the earliest observation. Subspecies qualifiers in
// parentheses are stripped from common names, and hybrids, spuhs and slash
// records are dropped since they do not identify a single species.
func ParseLifeList(r io.Reader) ([]LifeListEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading life list header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{lifeColCommonName, lifeColScientificName, lifeColDate} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("life list is missing required column %q", required)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	firstSeen := make(map[string]LifeListEntry)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading life list row: %w", err)
		}

		// Drop the subspecies qualifier, e.g. "Dark-eyed Junco (Slate-colored)"
		commonName, _, _ := strings.Cut(field(row, lifeColCommonName), " (")
		scientificName := field(row, lifeColScientificName)

		if !identifiesSingleSpecies(commonName, scientificName) {
			continue
		}

		taxonomicOrder, _ := parseEBirdID(field(row, lifeColTaxonomicOrder))
		entry := LifeListEntry{
			CommonName:      commonName,
			ScientificName:  scientificName,
			TaxonomicOrder:  taxonomicOrder,
			ObservationDate: field(row, lifeColDate),
			Locality:        field(row, lifeColLocation),
		}

		existing, seen := firstSeen[commonName]
		if !seen || entry.ObservationDate < existing.ObservationDate {
			firstSeen[commonName] = entry
		}
	}

	entries := make([]LifeListEntry, 0, len(firstSeen))
	for _, entry := range firstSeen {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TaxonomicOrder != entries[j].TaxonomicOrder {
			return entries[i].TaxonomicOrder < entries[j].TaxonomicOrder
		}
		return entries[i].CommonName < entries[j].CommonName
	})

	return entries, nil
}

// ParseLifeListFile reads a personal eBird export from path.
func ParseLifeListFile(path string) ([]LifeListEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening life list file: %w", err)
	}
	defer f.Close()
	return ParseLifeList(f)
}

// SpeciesNames returns the common names of the given entries, preserving order.
func SpeciesNames(entries []LifeListEntry) []string {
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.CommonName
	}
	return names
}

// identifiesSingleSpecies reports whether a record names one actual species,
// rejecting slash records ("Greater/Lesser Scaup"), spuhs ("duck sp.") and
// hybrids ("Mallard x American Black Duck").
func identifiesSingleSpecies(commonName, scientificName string) bool {
	if strings.Contains(commonName, "/") {
		return false
	}
	if strings.Contains(commonName, " sp.") {
		return false
	}
	if strings.Contains(scientificName, " x ") {
		return false
	}
	return true
}
