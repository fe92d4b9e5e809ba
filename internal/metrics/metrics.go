package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pollCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iss_poll_cycles_total",
			Help: "Total number of poll cycles by result.",
		},
		[]string{"result"},
	)

	fetchDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "iss_telemetry_fetch_duration_seconds",
			Help:    "Duration of telemetry fetches in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	exposureEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iss_exposure_events_total",
			Help: "Sun-exposure events appended, by marker.",
		},
		[]string{"marker"},
	)

	lastSuccessTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "iss_poll_last_success_timestamp_seconds",
			Help: "Unix time of the last successful poll cycle.",
		},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iss_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "iss_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(pollCyclesTotal)
	prometheus.MustRegister(fetchDurationSeconds)
	prometheus.MustRegister(exposureEventsTotal)
	prometheus.MustRegister(lastSuccessTimestamp)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePollCycle counts one poll cycle under the given result label.
func ObservePollCycle(result string, at time.Time) {
	pollCyclesTotal.WithLabelValues(result).Inc()
	if result == "ok" {
		lastSuccessTimestamp.Set(float64(at.Unix()))
	}
}

// ObserveFetch records how long a telemetry fetch took.
func ObserveFetch(d time.Duration) {
	fetchDurationSeconds.Observe(d.Seconds())
}

// IncExposureEvent counts an appended start/end event.
func IncExposureEvent(marker string) {
	exposureEventsTotal.WithLabelValues(marker).Inc()
}

// Middleware records request count and duration for each request.
// Paths are the route templates so per-uuid URLs do not explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		code := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(path, c.Request.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
