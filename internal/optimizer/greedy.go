package optimizer

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Selection is the outcome of greedy hotspot selection.
type Selection struct {
	// Indices are the selected matrix row indices, in selection order.
	Indices []int
	// MarginalGains holds the expected number of additional species captured
	// by each selection. Gains are non-increasing.
	MarginalGains []float64
	// FinalMissProbs is the per-species probability that none of the
	// selected hotspots detects the species.
	FinalMissProbs []float64
}

// GreedySelect picks up to k rows of the probability matrix maximizing the
// expected number of distinct species captured. Species captures are treated
// as independent across hotspots, which makes the objective monotone
// submodular; greedy selection is then a (1 - 1/e) approximation.
//
// Each iteration scores every unselected hotspot by the expected number of
// additional species it captures given the current per-species miss
// probabilities, takes the best scorer (ties go to the lowest row index),
// and discounts the miss probabilities by the chosen row. Selection stops
// after k picks, when rows run out, or when no candidate adds positive
// expected value.
func GreedySelect(probs *mat.Dense, k int) Selection {
	if probs == nil {
		return Selection{}
	}

	numHotspots, numSpecies := probs.Dims()
	if k > numHotspots {
		k = numHotspots
	}

	missProbs := make([]float64, numSpecies)
	for s := range missProbs {
		missProbs[s] = 1
	}

	selection := Selection{FinalMissProbs: missProbs}
	if k <= 0 {
		return selection
	}

	selected := make([]bool, numHotspots)
	missVec := mat.NewVecDense(numSpecies, missProbs)
	gains := mat.NewVecDense(numHotspots, nil)

	for i := 0; i < k; i++ {
		// candidate gain per hotspot: sum_s p(h,s) * miss(s)
		gains.MulVec(probs, missVec)

		rawGains := gains.RawVector().Data
		for h, taken := range selected {
			if taken {
				rawGains[h] = -1
			}
		}

		// MaxIdx returns the first maximal index, so ties break low
		best := floats.MaxIdx(rawGains)
		bestGain := rawGains[best]
		if bestGain <= 0 {
			break
		}

		selection.Indices = append(selection.Indices, best)
		selection.MarginalGains = append(selection.MarginalGains, bestGain)
		selected[best] = true

		for s := 0; s < numSpecies; s++ {
			missProbs[s] *= 1 - probs.At(best, s)
		}
	}

	return selection
}
