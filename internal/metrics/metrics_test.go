package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRoute(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRoute(OutcomeOK, time.Millisecond, 13, true)
	m.ObserveRoute(OutcomeOK, time.Microsecond, 0, false)
	m.ObserveRoute(OutcomeNoRoute, time.Millisecond, 0, true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RouteQueries.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RouteQueries.WithLabelValues(OutcomeNoRoute)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RouteQueries.WithLabelValues(OutcomeUnknownNode)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.NodesVisited))
}

func TestObserveCacheAndGraph(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)
	m.SetGraph(13, 44)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 13.0, testutil.ToFloat64(m.GraphNodes))
	assert.Equal(t, 44.0, testutil.ToFloat64(m.GraphEdges))
}

func TestHTTPMiddlewareUsesRoutePattern(t *testing.T) {
	m := New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(m.HTTPMiddleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, p := range []string{"/items/1", "/items/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/items/{id}", "418")))
}

func TestNewPanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
