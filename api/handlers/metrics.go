package handlers

import (
	"net/http"
	"strconv"

	"github.com/BaselBoulos/la-maison-privee/api"
)

// formatRouteMetrics converts duration fields to milliseconds for JSON serialization
func formatRouteMetrics(routes []api.RouteMetrics) []map[string]interface{} {
	result := make([]map[string]interface{}, len(routes))
	for i, route := range routes {
		result[i] = map[string]interface{}{
			"method":      route.Method,
			"path":        route.Path,
			"count":       route.Count,
			"errorCount":  route.ErrorCount,
			"avgTime":     route.AvgTime.Milliseconds(),
			"minTime":     route.MinTime.Milliseconds(),
			"maxTime":     route.MaxTime.Milliseconds(),
			"p50Time":     route.P50Time.Milliseconds(),
			"p95Time":     route.P95Time.Milliseconds(),
			"lastRequest": route.LastRequest,
		}
	}
	return result
}

// Metrics exported for testing purposes
type Metrics struct {
	Collector *api.MetricsCollector
}

// MetricsDashboardHandler returns request totals and the slowest routes
func (m Metrics) MetricsDashboardHandler(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary": m.Collector.GetSummary(),
		"slowest": formatRouteMetrics(m.Collector.GetSlowestRoutes(limit)),
	})
}
