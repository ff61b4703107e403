package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	m := NewMetrics()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/items/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/api/fail", func(c echo.Context) error { return echo.NewHTTPError(http.StatusTeapot) })

	for _, path := range []string{"/api/items/1", "/api/items/2", "/api/fail"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("/api/items/:id", "204")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("/api/fail", "418")))
}

func TestCounters(t *testing.T) {
	m := NewMetrics()
	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()
	m.Export("csv")
	m.Login(false)
	m.SetDatasetAvailable(true)
	m.ObserveView(12)

	require.Equal(t, 1.0, testutil.ToFloat64(m.cacheHits))
	require.Equal(t, 2.0, testutil.ToFloat64(m.cacheMisses))
	require.Equal(t, 1.0, testutil.ToFloat64(m.exportsTotal.WithLabelValues("csv")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.loginsTotal.WithLabelValues("failure")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.datasetAvailable))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.CacheHit()
	m.Export("xlsx")
	m.Login(true)
	m.SetDatasetAvailable(false)
	m.ObserveView(1)
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.CacheHit()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "summary_cache_hits_total 1")
}
