package optimizer

import (
	"context"
	"fmt"
	"sort"

	"github.com/listr-birding/listr/internal/datastore"
	"gonum.org/v1/gonum/mat"
)

// Matrix is the dense hotspot × species detection probability matrix for one
// optimization request, along with the metadata describing its axes.
// Probs is nil when no (hotspot, species) pair qualifies.
type Matrix struct {
	Probs    *mat.Dense          // shape (len(Hotspots), len(Species))
	Hotspots []datastore.Hotspot // row order
	Species  []string            // column order
}

// Empty reports whether the matrix has no qualifying entries.
func (m *Matrix) Empty() bool {
	return m.Probs == nil
}

// BuildMatrix queries the best per-day detection probabilities for the given
// days of year, excluding species on the life list and hotspots outside the
// geographic filter, and pivots them into a dense matrix. Hotspot rows are
// ordered by locality id and species columns by name; pairs with no estimate
// are zero. An empty result is a valid, empty matrix rather than an error.
func BuildMatrix(ctx context.Context, store datastore.Interface, daysOfYear []int, lifeList []string, county, state string) (*Matrix, error) {
	probabilities, err := store.BestEstimates(ctx, daysOfYear, lifeList, county, state)
	if err != nil {
		return nil, fmt.Errorf("loading probability matrix: %w", err)
	}
	if len(probabilities) == 0 {
		return &Matrix{}, nil
	}

	localitySet := make(map[int64]bool)
	speciesSet := make(map[string]bool)
	for i := range probabilities {
		localitySet[probabilities[i].LocalityID] = true
		speciesSet[probabilities[i].CommonName] = true
	}

	localityIDs := make([]int64, 0, len(localitySet))
	for id := range localitySet {
		localityIDs = append(localityIDs, id)
	}
	sort.Slice(localityIDs, func(i, j int) bool { return localityIDs[i] < localityIDs[j] })

	species := make([]string, 0, len(speciesSet))
	for name := range speciesSet {
		species = append(species, name)
	}
	sort.Strings(species)

	rowIndex := make(map[int64]int, len(localityIDs))
	for i, id := range localityIDs {
		rowIndex[id] = i
	}
	colIndex := make(map[string]int, len(species))
	for i, name := range species {
		colIndex[name] = i
	}

	probs := mat.NewDense(len(localityIDs), len(species), nil)
	for i := range probabilities {
		p := &probabilities[i]
		probs.Set(rowIndex[p.LocalityID], colIndex[p.CommonName], p.Probability)
	}

	hotspots, err := store.HotspotsByID(ctx, localityIDs)
	if err != nil {
		return nil, fmt.Errorf("loading hotspot metadata: %w", err)
	}
	if len(hotspots) != len(localityIDs) {
		return nil, fmt.Errorf("hotspot metadata incomplete: have %d rows for %d localities", len(hotspots), len(localityIDs))
	}

	// HotspotsByID returns rows ordered by locality id, matching row order
	return &Matrix{
		Probs:    probs,
		Hotspots: hotspots,
		Species:  species,
	}, nil
}
