package logger

import (
	"sync"
	"time"
)

// Metrics tracks in-process counters, gauges and timings for the detailed
// health endpoint. All operations are thread-safe.
type Metrics struct {
	mu        sync.Mutex
	startedAt time.Time
	counters  map[string]int64
	gauges    map[string]float64
	timings   map[string]*timingStats
}

// timingStats keeps running aggregates so memory stays flat on a long-lived server.
type timingStats struct {
	count int
	total time.Duration
	min   time.Duration
	max   time.Duration
}

var defaultMetrics = NewMetrics()

// NewMetrics creates a new metrics tracker with empty counters, gauges, and timings.
func NewMetrics() *Metrics {
	return &Metrics{
		startedAt: time.Now(),
		counters:  make(map[string]int64),
		gauges:    make(map[string]float64),
		timings:   make(map[string]*timingStats),
	}
}

// IncrCounter increments a counter by 1.
func (m *Metrics) IncrCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// SetGauge sets a gauge, overwriting any previous value.
func (m *Metrics) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = value
}

// RecordTiming records a duration measurement.
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.timings[name]
	if !ok {
		m.timings[name] = &timingStats{count: 1, total: duration, min: duration, max: duration}
		return
	}

	stats.count++
	stats.total += duration
	if duration < stats.min {
		stats.min = duration
	}
	if duration > stats.max {
		stats.max = duration
	}
}

// GetSnapshot returns a deep copy of all metrics:
//   - "uptime": time since the tracker was created
//   - "counters": map of counter names to values
//   - "gauges": map of gauge names to values
//   - "timings": map of timing names to count, total, average, min, max
func (m *Metrics) GetSnapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	counters := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		counters[k] = v
	}

	gauges := make(map[string]float64, len(m.gauges))
	for k, v := range m.gauges {
		gauges[k] = v
	}

	timings := make(map[string]map[string]interface{}, len(m.timings))
	for name, stats := range m.timings {
		timings[name] = map[string]interface{}{
			"count":   stats.count,
			"total":   stats.total.String(),
			"average": (stats.total / time.Duration(stats.count)).String(),
			"min":     stats.min.String(),
			"max":     stats.max.String(),
		}
	}

	return map[string]interface{}{
		"uptime":   time.Since(m.startedAt).Round(time.Second).String(),
		"counters": counters,
		"gauges":   gauges,
		"timings":  timings,
	}
}

// IncrCounter increments a counter on the default metrics tracker.
func IncrCounter(name string) {
	defaultMetrics.IncrCounter(name)
}

// SetGauge sets a gauge on the default metrics tracker.
func SetGauge(name string, value float64) {
	defaultMetrics.SetGauge(name, value)
}

// RecordTiming records a timing on the default metrics tracker.
func RecordTiming(name string, duration time.Duration) {
	defaultMetrics.RecordTiming(name, duration)
}

// GetMetricsSnapshot returns a snapshot of all metrics from the default tracker.
func GetMetricsSnapshot() map[string]interface{} {
	return defaultMetrics.GetSnapshot()
}
