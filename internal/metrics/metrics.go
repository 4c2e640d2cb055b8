// Package metrics exposes prometheus collectors for the HTTP layer and the
// analytics engines.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gradelens"

// Collectors groups every metric the service records. Each instance owns its
// registry so tests can build as many as they like.
type Collectors struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	engineDuration  *prometheus.HistogramVec
	uploadRows      prometheus.Histogram
	aiSummaries     *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Collectors {
	c := &Collectors{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		engineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "engine_duration_seconds",
			Help:      "Time spent in each analytics engine.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"engine"}),
		uploadRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_rows",
			Help:      "Rows per uploaded results table.",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 7),
		}),
		aiSummaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parent_summaries_total",
			Help:      "Parent summaries by mode.",
		}, []string{"mode"}),
	}

	c.registry.MustRegister(
		c.requests,
		c.requestDuration,
		c.engineDuration,
		c.uploadRows,
		c.aiSummaries,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the underlying registry.
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveEngine records one engine run.
func (c *Collectors) ObserveEngine(engine string, elapsed time.Duration) {
	c.engineDuration.WithLabelValues(engine).Observe(elapsed.Seconds())
}

// ObserveUpload records the size of an ingested table.
func (c *Collectors) ObserveUpload(rows int) {
	c.uploadRows.Observe(float64(rows))
}

// ObserveSummary counts a parent summary by the mode it was produced in.
func (c *Collectors) ObserveSummary(mode string) {
	c.aiSummaries.WithLabelValues(mode).Inc()
}

// Middleware records request counts and latency. Unmatched routes are
// labelled "unmatched" to keep cardinality bounded.
func (c *Collectors) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		c.requests.WithLabelValues(route, method, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the prometheus exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
