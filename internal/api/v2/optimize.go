// internal/api/v2/optimize.go
package api

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/listr-birding/listr/internal/optimizer"
)

const dateLayout = "2006-01-02"

// OptimizeRequest is the JSON body of POST /api/v2/optimize.
type OptimizeRequest struct {
	LifeList  []string `json:"life_list"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	K         *int     `json:"k"`
	County    string   `json:"county"`
	State     string   `json:"state"`
}

// SpeciesProbResponse is one species with a rounded detection probability.
type SpeciesProbResponse struct {
	CommonName  string  `json:"common_name"`
	Probability float64 `json:"probability"`
}

// HotspotResponse is one ranked hotspot in the optimization response.
type HotspotResponse struct {
	Rank               int                   `json:"rank"`
	Locality           string                `json:"locality"`
	LocalityID         int64                 `json:"locality_id"`
	Latitude           float64               `json:"latitude"`
	Longitude          float64               `json:"longitude"`
	County             string                `json:"county"`
	MarginalGain       float64               `json:"marginal_gain"`
	CumulativeExpected float64               `json:"cumulative_expected"`
	TargetSpecies      []SpeciesProbResponse `json:"target_species"`
}

// OptimizeResponse is the JSON body returned by POST /api/v2/optimize.
type OptimizeResponse struct {
	TotalExpectedLifers  float64               `json:"total_expected_lifers"`
	NumCandidateHotspots int                   `json:"num_candidate_hotspots"`
	NumPotentialLifers   int                   `json:"num_potential_lifers"`
	DateRange            []string              `json:"date_range"`
	GeographicFilter     string                `json:"geographic_filter"`
	Hotspots             []HotspotResponse     `json:"hotspots"`
	SpeciesCombinedProbs []SpeciesProbResponse `json:"species_combined_probs"`
}

// PostOptimize handles POST /api/v2/optimize
func (c *Controller) PostOptimize(ctx echo.Context) error {
	var req OptimizeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid start_date, expected YYYY-MM-DD", http.StatusBadRequest)
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid end_date, expected YYYY-MM-DD", http.StatusBadRequest)
	}

	k := c.Settings.Optimizer.DefaultK
	if req.K != nil {
		k = *req.K
	}
	if k < 0 {
		return c.HandleError(ctx, echo.NewHTTPError(http.StatusBadRequest), "k must not be negative", http.StatusBadRequest)
	}
	if maxK := c.Settings.Optimizer.MaxK; maxK > 0 && k > maxK {
		k = maxK
	}

	start := time.Now()
	result, err := optimizer.Optimize(ctx.Request().Context(), c.DS, optimizer.Request{
		LifeList:  req.LifeList,
		StartDate: startDate,
		EndDate:   endDate,
		K:         k,
		County:    req.County,
		State:     req.State,
	})
	if err != nil {
		return c.HandleError(ctx, err, "Optimization failed", http.StatusInternalServerError)
	}

	c.Debug("optimization complete",
		"k", k,
		"county", req.County,
		"state", req.State,
		"life_list_size", len(req.LifeList),
		"selected", len(result.SelectedHotspots),
		"elapsed", time.Since(start))

	if c.metrics != nil {
		c.metrics.ObserveOptimization(time.Since(start), len(result.SelectedHotspots))
	}

	return ctx.JSON(http.StatusOK, NewOptimizeResponse(result))
}

// NewOptimizeResponse shapes an optimizer result into the wire format.
// Expected lifer totals are rounded to two decimals and per-species
// probabilities to four; rounding happens only at this boundary.
func NewOptimizeResponse(result *optimizer.Result) *OptimizeResponse {
	resp := &OptimizeResponse{
		TotalExpectedLifers:  round2(result.TotalExpectedLifers),
		NumCandidateHotspots: result.NumCandidateHotspots,
		NumPotentialLifers:   result.NumPotentialLifers,
		DateRange: []string{
			result.StartDate.Format(dateLayout),
			result.EndDate.Format(dateLayout),
		},
		GeographicFilter:     result.GeographicFilter,
		Hotspots:             []HotspotResponse{},
		SpeciesCombinedProbs: speciesProbResponses(result.SpeciesCombinedProbs),
	}

	for _, h := range result.SelectedHotspots {
		resp.Hotspots = append(resp.Hotspots, HotspotResponse{
			Rank:               h.Rank,
			Locality:           h.Name,
			LocalityID:         h.LocalityID,
			Latitude:           h.Latitude,
			Longitude:          h.Longitude,
			County:             h.County,
			MarginalGain:       round2(h.MarginalGain),
			CumulativeExpected: round2(h.CumulativeExpected),
			TargetSpecies:      speciesProbResponses(h.TargetSpecies),
		})
	}

	return resp
}

func speciesProbResponses(probs []optimizer.SpeciesProb) []SpeciesProbResponse {
	out := make([]SpeciesProbResponse, 0, len(probs))
	for _, p := range probs {
		out = append(out, SpeciesProbResponse{
			CommonName:  p.CommonName,
			Probability: round4(p.Probability),
		})
	}
	return out
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

func round4(x float64) float64 { return math.Round(x*10000) / 10000 }
