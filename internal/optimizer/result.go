package optimizer

import (
	"sort"
	"strings"
	"time"
)

// SpeciesProb pairs a species with a detection probability.
type SpeciesProb struct {
	CommonName  string
	Probability float64
}

// HotspotResult is one selected hotspot with its contribution to the total
// expected lifer count and the species worth targeting there.
type HotspotResult struct {
	Rank               int
	Name               string
	LocalityID         int64
	Latitude           float64
	Longitude          float64
	County             string
	MarginalGain       float64
	CumulativeExpected float64
	TargetSpecies      []SpeciesProb
}

// Result is the full outcome of one optimization request.
type Result struct {
	SelectedHotspots     []HotspotResult
	TotalExpectedLifers  float64
	NumCandidateHotspots int
	NumPotentialLifers   int
	StartDate            time.Time
	EndDate              time.Time
	GeographicFilter     string
	SpeciesCombinedProbs []SpeciesProb
}

// geoDescription renders the geographic filter for display, "All areas"
// when no filter applies.
func geoDescription(county, state string) string {
	var parts []string
	if county != "" {
		parts = append(parts, county)
	}
	if state != "" {
		parts = append(parts, state)
	}
	if len(parts) == 0 {
		return "All areas"
	}
	return strings.Join(parts, ", ")
}

// assembleResult shapes the greedy selection into the caller-facing result:
// ranked hotspots with their positive-probability target species sorted by
// probability, running cumulative expected totals, and the combined capture
// probability per species across the whole selection.
func assembleResult(matrix *Matrix, selection Selection, req Request) *Result {
	result := &Result{
		NumCandidateHotspots: len(matrix.Hotspots),
		NumPotentialLifers:   len(matrix.Species),
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		GeographicFilter:     geoDescription(req.County, req.State),
	}

	cumulative := 0.0
	for rank, rowIdx := range selection.Indices {
		gain := selection.MarginalGains[rank]
		cumulative += gain
		hotspot := matrix.Hotspots[rowIdx]

		var targets []SpeciesProb
		for colIdx, name := range matrix.Species {
			if p := matrix.Probs.At(rowIdx, colIdx); p > 0 {
				targets = append(targets, SpeciesProb{CommonName: name, Probability: p})
			}
		}
		sortByProbability(targets)

		result.SelectedHotspots = append(result.SelectedHotspots, HotspotResult{
			Rank:               rank + 1,
			Name:               hotspot.Name,
			LocalityID:         hotspot.LocalityID,
			Latitude:           hotspot.Latitude,
			Longitude:          hotspot.Longitude,
			County:             hotspot.County,
			MarginalGain:       gain,
			CumulativeExpected: cumulative,
			TargetSpecies:      targets,
		})
	}
	result.TotalExpectedLifers = cumulative

	for colIdx, name := range matrix.Species {
		if combined := 1 - selection.FinalMissProbs[colIdx]; combined > 0 {
			result.SpeciesCombinedProbs = append(result.SpeciesCombinedProbs, SpeciesProb{
				CommonName:  name,
				Probability: combined,
			})
		}
	}
	sortByProbability(result.SpeciesCombinedProbs)

	return result
}

// sortByProbability sorts descending by probability; the stable sort keeps
// equal-probability species in column (name) order.
func sortByProbability(probs []SpeciesProb) {
	sort.SliceStable(probs, func(i, j int) bool {
		return probs[i].Probability > probs[j].Probability
	})
}
