package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"schoolhub/internal/domain/school"
	"schoolhub/internal/logger"
)

const Namespace = "schoolhub"

// HTTPMetrics records per-route request counts and latencies.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(c *Collector) *HTTPMetrics {
	return &HTTPMetrics{
		requests: c.RegisterCounter("http_requests_total", "HTTP requests by method, route and status", []string{"method", "route", "status"}),
		duration: c.RegisterHistogram("http_request_duration_seconds", "HTTP request latency", []string{"method", "route"}, nil),
	}
}

// Middleware observes every request. Unmatched routes are grouped under "unmatched".
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// SchoolMetrics counts committed school mutations. It implements school.Publisher.
type SchoolMetrics struct {
	events *prometheus.CounterVec
}

func NewSchoolMetrics(c *Collector, repo school.Repository) *SchoolMetrics {
	log := logger.WithComponent("metrics")
	c.RegisterGaugeFunc("schools", "Number of stored school records", func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := repo.Count(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("count schools")
			return 0
		}
		return float64(n)
	})
	return &SchoolMetrics{
		events: c.RegisterCounter("school_events_total", "Committed school mutations by type", []string{"type"}),
	}
}

func (m *SchoolMetrics) Publish(e school.Event) {
	m.events.WithLabelValues(string(e.Type)).Inc()
}

// Handler exposes the collector's registry.
func Handler(c *Collector) http.Handler {
	return promhttp.HandlerFor(c.GetRegistry(), promhttp.HandlerOpts{})
}
