// internal/api/v2/api.go
package api

import (
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/patrickmn/go-cache"

	"github.com/listr-birding/listr/internal/conf"
	"github.com/listr-birding/listr/internal/datastore"
	"github.com/listr-birding/listr/internal/logging"
)

// Controller manages the API routes and handlers
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	DS       datastore.Interface
	Settings *conf.Settings

	regionCache    *cache.Cache // cache for distinct county/state lists
	metrics        *Metrics
	apiLogger      *slog.Logger
	apiLevelVar    *slog.LevelVar
	apiLoggerClose func() error
}

// New creates a new API controller and registers its routes on e.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings, metrics *Metrics) (*Controller, error) {
	c := &Controller{
		Echo:        e,
		DS:          ds,
		Settings:    settings,
		regionCache: cache.New(5*time.Minute, 10*time.Minute),
		metrics:     metrics,
		apiLevelVar: new(slog.LevelVar),
	}

	if settings.Debug {
		c.apiLevelVar.Set(slog.LevelDebug)
	} else {
		c.apiLevelVar.Set(slog.LevelInfo)
	}

	// Structured logger for API operations, falls back to a disabled
	// handler when the log file cannot be opened
	logFilePath := filepath.Join("logs", "api.log")
	var err error
	c.apiLogger, c.apiLoggerClose, err = logging.NewFileLogger(logFilePath, "api", c.apiLevelVar)
	if err != nil {
		logging.Error("Failed to initialize API file logger", "path", logFilePath, "error", err)
		c.apiLogger = slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: c.apiLevelVar}))
		c.apiLoggerClose = func() error { return nil }
	}

	c.Group = e.Group("/api/v2")
	c.Group.Use(middleware.Recover())
	c.Group.Use(middleware.CORS())
	c.Group.Use(middleware.BodyLimit("1M"))
	if c.metrics != nil {
		c.Group.Use(c.metrics.Middleware())
	}

	c.initRoutes()

	return c, nil
}

// initRoutes registers all API endpoints
func (c *Controller) initRoutes() {
	c.Group.GET("/health", c.GetHealth)
	c.Group.POST("/optimize", c.PostOptimize)

	regionsGroup := c.Group.Group("/regions")
	regionsGroup.GET("/counties", c.GetCounties)
	regionsGroup.GET("/states", c.GetStates)
}

// Shutdown releases controller resources.
func (c *Controller) Shutdown() {
	if c.apiLoggerClose != nil {
		if err := c.apiLoggerClose(); err != nil {
			logging.Error("Failed to close API log file", "error", err)
		}
	}
}

// GetHealth handles GET /api/v2/health
func (c *Controller) GetHealth(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// HandleError logs an error with request context and returns a JSON error response.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	c.apiLogger.Error(message,
		"error", err,
		"path", ctx.Request().URL.Path,
		"method", ctx.Request().Method,
		"ip", ctx.RealIP(),
	)

	return ctx.JSON(code, map[string]string{"error": message})
}

// Debug logs a debug message to the API logger.
func (c *Controller) Debug(msg string, args ...any) {
	c.apiLogger.Debug(msg, args...)
}
