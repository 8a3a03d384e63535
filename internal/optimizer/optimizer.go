// Package optimizer selects the set of birding hotspots that maximizes a
// visitor's expected number of newly observed species, given their life
// list, a date window and an optional geographic filter.
//
// Each request is a pure, stateless computation over a read-only snapshot of
// the rolling estimate and hotspot tables; identical inputs against an
// unchanged snapshot produce identical results.
package optimizer

import (
	"context"
	"time"

	"github.com/listr-birding/listr/internal/datastore"
)

// Request describes one optimization run.
type Request struct {
	// LifeList holds species common names already observed by the caller;
	// they are excluded from consideration. May be empty.
	LifeList []string
	// StartDate and EndDate bound the visit window, inclusive. An EndDate
	// earlier in the calendar than StartDate wraps across the year boundary.
	StartDate time.Time
	EndDate   time.Time
	// K is the number of hotspots to select. Values above the number of
	// candidates are clamped; zero or negative selects nothing.
	K int
	// County and State filter candidate hotspots by exact match; county
	// takes precedence. Unknown values simply match nothing.
	County string
	State  string
}

// Optimize runs the full optimization: expand the date range into days of
// year, build the hotspot × species probability matrix, greedily select up
// to K hotspots, and assemble the ranked result. A request with no
// qualifying candidates yields a well-formed zero-valued result.
func Optimize(ctx context.Context, store datastore.Interface, req Request) (*Result, error) {
	daysOfYear := DaysOfYear(req.StartDate, req.EndDate)

	matrix, err := BuildMatrix(ctx, store, daysOfYear, req.LifeList, req.County, req.State)
	if err != nil {
		return nil, err
	}
	if matrix.Empty() {
		return &Result{
			StartDate:        req.StartDate,
			EndDate:          req.EndDate,
			GeographicFilter: geoDescription(req.County, req.State),
		}, nil
	}

	selection := GreedySelect(matrix.Probs, req.K)

	return assembleResult(matrix, selection, req), nil
}
