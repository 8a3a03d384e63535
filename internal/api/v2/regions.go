// internal/api/v2/regions.go
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Cache keys for the region lists
const (
	countiesCacheKey = "regions:counties"
	statesCacheKey   = "regions:states"
)

// GetCounties handles GET /api/v2/regions/counties
func (c *Controller) GetCounties(ctx echo.Context) error {
	return c.regionList(ctx, countiesCacheKey, c.DS.Counties)
}

// GetStates handles GET /api/v2/regions/states
func (c *Controller) GetStates(ctx echo.Context) error {
	return c.regionList(ctx, statesCacheKey, c.DS.States)
}

// regionList serves a distinct region list, caching the database result for
// the cache's default expiration. Region lists only change after an ingest.
func (c *Controller) regionList(ctx echo.Context, cacheKey string, query func(context.Context) ([]string, error)) error {
	if cached, found := c.regionCache.Get(cacheKey); found {
		return ctx.JSON(http.StatusOK, cached.([]string))
	}

	regions, err := query(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to load regions", http.StatusInternalServerError)
	}
	if regions == nil {
		regions = []string{}
	}

	c.regionCache.SetDefault(cacheKey, regions)

	return ctx.JSON(http.StatusOK, regions)
}
