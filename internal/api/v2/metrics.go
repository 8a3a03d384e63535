// internal/api/v2/metrics.go
package api

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the API surface.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	optimizationDuration prometheus.Histogram
	selectedHotspots     prometheus.Histogram
}

// NewMetrics creates and registers the API metric collectors on a fresh
// registry.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "listr_api_requests_total",
			Help: "Total number of API requests by method, path and status code.",
		}, []string{"method", "path", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "listr_api_request_duration_seconds",
			Help:    "API request duration in seconds by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		optimizationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "listr_optimization_duration_seconds",
			Help:    "End-to-end duration of hotspot optimization runs in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		selectedHotspots: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "listr_optimization_selected_hotspots",
			Help:    "Number of hotspots selected per optimization run.",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 15, 20, 25},
		}),
	}

	for _, collector := range []prometheus.Collector{
		m.requestsTotal,
		m.requestDuration,
		m.optimizationDuration,
		m.selectedHotspots,
	} {
		if err := m.registry.Register(collector); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware records request counts and durations per route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			// Use the route pattern, not the raw URL, to bound cardinality
			path := ctx.Path()
			method := ctx.Request().Method
			code := ctx.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					code = httpErr.Code
				}
			}

			m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(code)).Inc()
			m.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// ObserveOptimization records the outcome of one optimization run.
func (m *Metrics) ObserveOptimization(elapsed time.Duration, selected int) {
	m.optimizationDuration.Observe(elapsed.Seconds())
	m.selectedHotspots.Observe(float64(selected))
}
