package api

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// RequestTrace tracks timing for a single request
type RequestTrace struct {
	RequestID     string        `json:"requestId"`
	Method        string        `json:"method"`
	Path          string        `json:"path"`
	ClubID        int           `json:"clubId,omitempty"`
	Status        int           `json:"status"`
	StartTime     time.Time     `json:"startTime"`
	TotalDuration time.Duration `json:"totalDuration"`
	Error         string        `json:"error,omitempty"`
}

// RouteMetrics aggregates metrics for a specific route
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	MinTime     time.Duration `json:"minTime"`
	MaxTime     time.Duration `json:"maxTime"`
	P50Time     time.Duration `json:"p50Time"`
	P95Time     time.Duration `json:"p95Time"`
	LastRequest time.Time     `json:"lastRequest"`
}

// MetricsCollector collects and aggregates request metrics. Traces are queued
// on a buffered channel and dropped when it is full so recording never blocks
// a request.
type MetricsCollector struct {
	mu            sync.RWMutex
	traces        []RequestTrace
	maxTraces     int
	routeMetrics  map[string]*RouteMetrics
	windowStart   time.Time
	totalRequests int64
	totalErrors   int64
	traceChan     chan RequestTrace
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewMetricsCollector starts a collector keeping at most maxTraces recent traces
func NewMetricsCollector(maxTraces int) *MetricsCollector {
	mc := &MetricsCollector{
		traces:       make([]RequestTrace, 0, maxTraces),
		maxTraces:    maxTraces,
		routeMetrics: make(map[string]*RouteMetrics),
		windowStart:  time.Now(),
		traceChan:    make(chan RequestTrace, 1000),
		stopChan:     make(chan struct{}),
	}
	go mc.processTraces()
	return mc
}

// Stop ends the background processor
func (mc *MetricsCollector) Stop() {
	mc.stopOnce.Do(func() { close(mc.stopChan) })
}

// RecordTrace queues a trace without blocking
func (mc *MetricsCollector) RecordTrace(trace RequestTrace) {
	select {
	case mc.traceChan <- trace:
	default:
	}
}

func (mc *MetricsCollector) processTraces() {
	for {
		select {
		case trace := <-mc.traceChan:
			mc.processTrace(trace)
		case <-mc.stopChan:
			return
		}
	}
}

func (mc *MetricsCollector) processTrace(trace RequestTrace) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.traces) >= mc.maxTraces {
		mc.traces = mc.traces[1:]
	}
	mc.traces = append(mc.traces, trace)

	path := normalizeRoutePath(trace.Path)
	routeKey := trace.Method + " " + path

	metrics, exists := mc.routeMetrics[routeKey]
	if !exists {
		metrics = &RouteMetrics{
			Method:  trace.Method,
			Path:    path,
			MinTime: trace.TotalDuration,
		}
		mc.routeMetrics[routeKey] = metrics
	}

	metrics.Count++
	metrics.TotalTime += trace.TotalDuration
	metrics.AvgTime = metrics.TotalTime / time.Duration(metrics.Count)
	metrics.LastRequest = trace.StartTime
	if trace.TotalDuration < metrics.MinTime {
		metrics.MinTime = trace.TotalDuration
	}
	if trace.TotalDuration > metrics.MaxTime {
		metrics.MaxTime = trace.TotalDuration
	}
	if trace.Status >= 400 {
		metrics.ErrorCount++
		mc.totalErrors++
	}
	mc.totalRequests++

	if metrics.Count%100 == 0 {
		mc.calculatePercentiles(routeKey)
	}
}

// GetRouteMetrics returns a copy of the aggregated metrics for all routes
func (mc *MetricsCollector) GetRouteMetrics() map[string]*RouteMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	result := make(map[string]*RouteMetrics, len(mc.routeMetrics))
	for k, v := range mc.routeMetrics {
		metrics := *v
		result[k] = &metrics
	}
	return result
}

// GetSlowestRoutes returns up to limit routes ordered by average time
func (mc *MetricsCollector) GetSlowestRoutes(limit int) []RouteMetrics {
	routes := make([]RouteMetrics, 0)
	for _, m := range mc.GetRouteMetrics() {
		routes = append(routes, *m)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].AvgTime > routes[j].AvgTime })
	if limit > 0 && len(routes) > limit {
		routes = routes[:limit]
	}
	return routes
}

// GetSummary returns overall summary metrics
func (mc *MetricsCollector) GetSummary() map[string]interface{} {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	elapsed := time.Since(mc.windowStart)
	var tps, errorRate float64
	if elapsed.Seconds() > 0 {
		tps = float64(mc.totalRequests) / elapsed.Seconds()
	}
	if mc.totalRequests > 0 {
		errorRate = float64(mc.totalErrors) / float64(mc.totalRequests)
	}

	return map[string]interface{}{
		"totalRequests": mc.totalRequests,
		"totalErrors":   mc.totalErrors,
		"errorRate":     errorRate,
		"tps":           tps,
		"windowStart":   mc.windowStart,
		"routeCount":    len(mc.routeMetrics),
		"traceCount":    len(mc.traces),
	}
}

func (mc *MetricsCollector) calculatePercentiles(routeKey string) {
	metrics := mc.routeMetrics[routeKey]
	var durations []time.Duration
	for _, trace := range mc.traces {
		if trace.Method+" "+normalizeRoutePath(trace.Path) == routeKey {
			durations = append(durations, trace.TotalDuration)
		}
	}
	if len(durations) == 0 {
		return
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	metrics.P50Time = durations[len(durations)*50/100]
	metrics.P95Time = durations[len(durations)*95/100]
}

var (
	objectIDSegment = regexp.MustCompile(`/[0-9a-fA-F]{24}(/|$)`)
	numericSegment  = regexp.MustCompile(`/\d+(/|$)`)
)

// normalizeRoutePath replaces ids in a path so requests group by route
//   - /api/events/507f1f77bcf86cd799439011/rsvp -> /api/events/{id}/rsvp
//   - /api/clubs/2 -> /api/clubs/{id}
func normalizeRoutePath(path string) string {
	// applied twice because adjacent ids share a slash
	for i := 0; i < 2; i++ {
		path = objectIDSegment.ReplaceAllString(path, "/{id}$1")
		path = numericSegment.ReplaceAllString(path, "/{id}$1")
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
