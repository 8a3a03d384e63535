package ebird

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportHeader = "COMMON NAME\tSCIENTIFIC NAME\tCATEGORY\tTAXONOMIC ORDER\tSTATE\tCOUNTY\tLOCALITY\tLOCALITY ID\tLOCALITY TYPE\tLATITUDE\tLONGITUDE\tOBSERVATION DATE\tOBSERVER ID\tSAMPLING EVENT IDENTIFIER\tGROUP IDENTIFIER\tALL SPECIES REPORTED"

func exportRow(fields ...string) string {
	return strings.Join(fields, "\t")
}

func TestScanExportParsesQualifyingRows(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		exportHeader,
		exportRow("Bobolink", "Dolichonyx oryzivorus", "species", "31218", "Vermont", "Addison", "Dead Creek WMA", "L123456", "H", "44.05", "-73.35", "2023-05-20", "obsr55", "S98765432", "G1234567", "1"),
	}, "\n")

	records, err := parseExportString(input)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Bobolink", rec.CommonName)
	assert.Equal(t, "Dolichonyx oryzivorus", rec.ScientificName)
	assert.Equal(t, int64(31218), rec.TaxonomicOrder)
	assert.Equal(t, "2023-05-20", rec.ObservationDate)
	assert.Equal(t, "Vermont", rec.State)
	assert.Equal(t, "Addison", rec.County)
	assert.Equal(t, "Dead Creek WMA", rec.Locality)
	assert.Equal(t, int64(123456), rec.LocalityID)
	assert.InDelta(t, 44.05, rec.Latitude, 1e-9)
	assert.InDelta(t, -73.35, rec.Longitude, 1e-9)
	assert.Equal(t, int64(55), rec.ObserverID)
	assert.Equal(t, int64(98765432), rec.SamplingID)
	assert.Equal(t, int64(1234567), rec.GroupID)
}

func TestScanExportFilters(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		exportHeader,
		// personal location, not a hotspot
		exportRow("Bobolink", "Dolichonyx oryzivorus", "species", "31218", "Vermont", "Addison", "My backyard", "L1", "P", "44.0", "-73.0", "2023-05-20", "obsr1", "S1", "", "1"),
		// spuh category
		exportRow("duck sp.", "Anatinae sp.", "spuh", "500", "Vermont", "Addison", "Dead Creek WMA", "L2", "H", "44.0", "-73.0", "2023-05-20", "obsr1", "S2", "", "1"),
		// incomplete checklist
		exportRow("Bobolink", "Dolichonyx oryzivorus", "species", "31218", "Vermont", "Addison", "Dead Creek WMA", "L2", "H", "44.0", "-73.0", "2023-05-20", "obsr1", "S3", "", "0"),
		// qualifying subspecies row
		exportRow("Dark-eyed Junco", "Junco hyemalis", "issf", "30000", "Vermont", "Addison", "Dead Creek WMA", "L2", "H", "44.0", "-73.0", "2023-05-20", "obsr1", "S4", "", "1"),
	}, "\n")

	records, err := parseExportString(input)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Dark-eyed Junco", records[0].CommonName)
	assert.Zero(t, records[0].GroupID)
}

func TestScanExportMissingColumn(t *testing.T) {
	t.Parallel()

	input := "COMMON NAME\tCATEGORY\nBobolink\tspecies"
	err := ScanExport(strings.NewReader(input), func(Record) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestScanExportMalformedQualifyingRow(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		exportHeader,
		exportRow("Bobolink", "Dolichonyx oryzivorus", "species", "31218", "Vermont", "Addison", "Dead Creek WMA", "L1", "H", "not-a-number", "-73.0", "2023-05-20", "obsr1", "S1", "", "1"),
	}, "\n")

	_, err := parseExportString(input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")
}

func TestParseEBirdID(t *testing.T) {
	t.Parallel()

	for id, want := range map[string]int64{
		"L123456":   123456,
		"S98765432": 98765432,
		"G1":        1,
		"42":        42,
	} {
		got, err := parseEBirdID(id)
		require.NoError(t, err, id)
		assert.Equal(t, want, got, id)
	}

	_, err := parseEBirdID("")
	assert.Error(t, err)
	_, err = parseEBirdID("LXXX")
	assert.Error(t, err)
}

func parseExportString(input string) ([]Record, error) {
	var records []Record
	err := ScanExport(strings.NewReader(input), func(rec Record) error {
		records = append(records, rec)
		return nil
	})
	return records, err
}
