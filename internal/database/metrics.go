package database

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Metrics tracks query counters for the database manager.
type Metrics struct {
	mu          sync.Mutex
	queryCounts map[string]int64
	errorCounts map[string]int64
	totalTime   time.Duration
	logger      *zap.Logger
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	QueryCounts map[string]int64 `json:"query_counts"`
	ErrorCounts map[string]int64 `json:"error_counts"`
	TotalTime   time.Duration    `json:"total_time"`
}

// NewMetrics creates a metrics collector.
func NewMetrics(logger *zap.Logger) *Metrics {
	return &Metrics{
		queryCounts: make(map[string]int64),
		errorCounts: make(map[string]int64),
		logger:      logger,
	}
}

// RecordQuery records one query execution.
func (m *Metrics) RecordQuery(kind string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queryCounts[kind]++
	m.totalTime += duration
	if err != nil {
		m.errorCounts[kind]++
	}
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MetricsSnapshot{
		QueryCounts: make(map[string]int64, len(m.queryCounts)),
		ErrorCounts: make(map[string]int64, len(m.errorCounts)),
		TotalTime:   m.totalTime,
	}
	for k, v := range m.queryCounts {
		snap.QueryCounts[k] = v
	}
	for k, v := range m.errorCounts {
		snap.ErrorCounts[k] = v
	}
	return snap
}
