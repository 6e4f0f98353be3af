package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PublishTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clip_publish_tasks_total",
			Help: "Publish task creation attempts against the automation provider.",
		},
		[]string{"result"},
	)

	ClipsPublishedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clips_published_total",
			Help: "Clips confirmed published on the platform.",
		},
	)

	StatsSyncRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stats_sync_runs_total",
			Help: "Account video/stats sync runs.",
		},
		[]string{"result"},
	)
)

// MustRegister registers all collectors with the default registry.
// Call once at startup.
func MustRegister() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		PublishTasksTotal,
		ClipsPublishedTotal,
		StatsSyncRunsTotal,
	)
}

// GinMiddleware records request counts and latency per route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDurationSeconds.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
