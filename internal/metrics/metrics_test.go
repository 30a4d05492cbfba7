package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub/internal/domain/school"
)

type countingRepo struct {
	school.Repository
	n int64
}

func (r *countingRepo) Count(context.Context) (int64, error) { return r.n, nil }

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := NewCollector()
	m := NewHTTPMetrics(c)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/schools/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/api/schools/a", "/api/schools/b", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/schools/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestSchoolMetrics(t *testing.T) {
	c := NewCollector()
	m := NewSchoolMetrics(c, &countingRepo{n: 7})

	m.Publish(school.Event{Type: school.EventCreated, ID: "a"})
	m.Publish(school.Event{Type: school.EventCreated, ID: "b"})
	m.Publish(school.Event{Type: school.EventDeleted, ID: "a"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues(string(school.EventCreated))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues(string(school.EventDeleted))))

	rr := httptest.NewRecorder()
	Handler(c).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "schoolhub_schools 7")
	assert.Contains(t, rr.Body.String(), `schoolhub_school_events_total{type="school.created"} 2`)
}
