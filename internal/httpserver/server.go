// internal/httpserver/server.go
package httpserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	api "github.com/listr-birding/listr/internal/api/v2"
	"github.com/listr-birding/listr/internal/conf"
	"github.com/listr-birding/listr/internal/datastore"
	"github.com/listr-birding/listr/internal/logging"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// shutdown signal.
const shutdownTimeout = 10 * time.Second

// Server encapsulates the Echo server and the API controller mounted on it.
type Server struct {
	Echo     *echo.Echo
	DS       datastore.Interface
	Settings *conf.Settings
	APIV2    *api.Controller

	metrics        *api.Metrics
	webLogger      *slog.Logger
	webLoggerClose func() error
}

// New initializes the HTTP server with the given settings and datastore.
func New(settings *conf.Settings, ds datastore.Interface) (*Server, error) {
	s := &Server{
		Echo:     echo.New(),
		DS:       ds,
		Settings: settings,
	}

	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.IPExtractor = echo.ExtractIPFromXFFHeader()

	s.initWebLogger()
	s.Echo.Use(s.requestLogger())

	metrics, err := api.NewMetrics()
	if err != nil {
		return nil, err
	}
	s.metrics = metrics
	s.Echo.GET("/metrics", metrics.Handler())

	apiController, err := api.New(s.Echo, ds, settings, metrics)
	if err != nil {
		return nil, err
	}
	s.APIV2 = apiController

	return s, nil
}

// Start runs the server until ctx is cancelled, then shuts it down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		err := s.Echo.Start(":" + s.Settings.WebServer.Port)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
			return
		}
		errChan <- nil
	}()

	logging.Info("HTTP server started", "port", s.Settings.WebServer.Port)

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Echo.Shutdown(shutdownCtx); err != nil {
		logging.Error("HTTP server shutdown failed", "error", err)
		return err
	}

	s.APIV2.Shutdown()
	if s.webLoggerClose != nil {
		if err := s.webLoggerClose(); err != nil {
			logging.Error("Failed to close web log file", "error", err)
		}
	}

	logging.Info("HTTP server stopped")
	return <-errChan
}

// initWebLogger sets up the structured access logger, honoring the web
// server log settings and falling back to a disabled handler on failure.
func (s *Server) initWebLogger() {
	logConf := s.Settings.WebServer.Log
	if !logConf.Enabled {
		s.webLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))
		return
	}

	logPath := logConf.Path
	if logPath == "" {
		logPath = "logs/web.log"
	}

	var err error
	s.webLogger, s.webLoggerClose, err = logging.NewFileLogger(logPath, "web", slog.LevelInfo)
	if err != nil {
		logging.Error("Failed to initialize web file logger", "path", logPath, "error", err)
		s.webLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))
		s.webLoggerClose = nil
	}
}

// requestLogger logs one structured line per completed request.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			s.webLogger.Info("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"ip", c.RealIP(),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)

			return err
		}
	}
}
