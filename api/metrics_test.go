package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRoutePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/events/507f1f77bcf86cd799439011/rsvp", "/api/events/{id}/rsvp"},
		{"/api/events/507f1f77bcf86cd799439011/waitlist/507f191e810c19729de860ea", "/api/events/{id}/waitlist/{id}"},
		{"/api/clubs/2", "/api/clubs/{id}"},
		{"/api/clubs/2/interests", "/api/clubs/{id}/interests"},
		{"/api/members/", "/api/members"},
		{"/", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeRoutePath(tt.path), tt.path)
	}
}

func TestMetricsCollector(t *testing.T) {
	mc := NewMetricsCollector(50)
	defer mc.Stop()

	start := time.Now()
	mc.RecordTrace(RequestTrace{Method: "GET", Path: "/api/events/507f1f77bcf86cd799439011", Status: 200, StartTime: start, TotalDuration: 10 * time.Millisecond})
	mc.RecordTrace(RequestTrace{Method: "GET", Path: "/api/events/507f191e810c19729de860ea", Status: 404, StartTime: start, TotalDuration: 30 * time.Millisecond})
	mc.RecordTrace(RequestTrace{Method: "POST", Path: "/api/members", Status: 201, StartTime: start, TotalDuration: 5 * time.Millisecond})

	require.Eventually(t, func() bool {
		return mc.GetSummary()["totalRequests"] == int64(3)
	}, time.Second, 5*time.Millisecond)

	routes := mc.GetRouteMetrics()
	require.Contains(t, routes, "GET /api/events/{id}")
	events := routes["GET /api/events/{id}"]
	assert.Equal(t, int64(2), events.Count)
	assert.Equal(t, int64(1), events.ErrorCount)
	assert.Equal(t, 20*time.Millisecond, events.AvgTime)
	assert.Equal(t, 10*time.Millisecond, events.MinTime)
	assert.Equal(t, 30*time.Millisecond, events.MaxTime)

	slowest := mc.GetSlowestRoutes(1)
	require.Len(t, slowest, 1)
	assert.Equal(t, "/api/events/{id}", slowest[0].Path)

	summary := mc.GetSummary()
	assert.Equal(t, int64(1), summary["totalErrors"])
	assert.Equal(t, 2, summary["routeCount"])
}

func TestMetricsMiddleware(t *testing.T) {
	mc := NewMetricsCollector(10)
	defer mc.Stop()

	h := MetricsMiddleware(mc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/clubs/4", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	require.Eventually(t, func() bool {
		_, ok := mc.GetRouteMetrics()["GET /api/clubs/{id}"]
		return ok
	}, time.Second, 5*time.Millisecond)
	assert.Len(t, mc.GetRouteMetrics(), 1)
	assert.Equal(t, int64(1), mc.GetSummary()["totalErrors"])
}
