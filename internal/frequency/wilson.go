package frequency

import "math"

// wilsonZ is the z-score for a 90% one-sided confidence level.
const wilsonZ = 1.64

// WilsonLowerBound returns the lower bound of the Wilson score interval for
// a binomial proportion of k successes in n trials.
//
// The raw frequency k/n overstates detection probability for rare species at
// low sample sizes; the Wilson lower bound discounts under-sampled pairs so
// the optimizer does not chase statistical noise.
func WilsonLowerBound(k, n int) float64 {
	if n <= 0 {
		return 0
	}

	p := float64(k) / float64(n)
	nf := float64(n)
	z2 := wilsonZ * wilsonZ

	numerator := p + z2/(2*nf) - wilsonZ*math.Sqrt(p*(1-p)/nf+z2/(4*nf*nf))
	return numerator / (1 + z2/nf)
}
