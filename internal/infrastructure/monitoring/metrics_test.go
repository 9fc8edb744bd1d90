package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordExecution(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordExecution(StatusSuccess, 10*time.Millisecond, 4096)
	m.RecordExecution(StatusFailure, time.Second, 0)
	m.RecordExecution(StatusSuccess, time.Millisecond, 8192)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Executions.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Executions.WithLabelValues(StatusFailure)))
	assert.Equal(t, 8192.0, testutil.ToFloat64(m.MemoryUsage))

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.Executions)
	assert.Equal(t, int64(1), snap.Failures)
}

func TestRecordRejection(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordRejection("syntax")
	m.RecordRejection("syntax")
	m.RecordRejection("forbidden-pattern")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Rejections.WithLabelValues("syntax")))
	assert.Equal(t, int64(3), m.Snapshot().Rejections)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordExecution(StatusSuccess, time.Millisecond, 1)
		m.RecordRejection("syntax")
		m.RecordHTTPRequest("GET", "/", "200", time.Millisecond)
	})
	assert.Equal(t, Snapshot{}, m.Snapshot())
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics(prometheus.NewRegistry())

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/tools/:name", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for _, path := range []string{"/tools/a", "/tools/b", "/missing"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/tools/:name", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}
