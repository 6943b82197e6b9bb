package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Operation names used as metrics keys.
const (
	OperationContextBuild   = "context_build"
	OperationProvenance     = "provenance"
	OperationSemanticSearch = "semantic_search"
	OperationCleanup        = "cleanup"
)

// Metrics aggregates per-operation counters for the engine.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64
	// partialBuilds counts context builds that omitted at least one category.
	partialBuilds atomic.Int64

	operations map[string]*OperationMetrics
}

// OperationMetrics represents counters for one engine operation.
type OperationMetrics struct {
	executionCount atomic.Int64
	totalDuration  atomic.Int64 // milliseconds
	errorCount     atomic.Int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		operations: make(map[string]*OperationMetrics),
	}
}

var globalMetrics = NewMetrics()

// GlobalMetrics returns the global metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records a request for the operation.
func (m *Metrics) RecordRequest(operation string) {
	m.requestTotal.Add(1)
	m.getOperationMetrics(operation).executionCount.Add(1)
}

// RecordFailure records a failed request for the operation.
func (m *Metrics) RecordFailure(operation string) {
	m.requestFailed.Add(1)
	m.getOperationMetrics(operation).errorCount.Add(1)
}

// RecordDuration records a request duration for the operation.
func (m *Metrics) RecordDuration(operation string, duration time.Duration) {
	m.getOperationMetrics(operation).totalDuration.Add(duration.Milliseconds())
}

// RecordPartialBuild records a context build that lost a source category.
func (m *Metrics) RecordPartialBuild() {
	m.partialBuilds.Add(1)
}

func (m *Metrics) getOperationMetrics(operation string) *OperationMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.operations[operation]; !ok {
		m.operations[operation] = &OperationMetrics{}
	}
	return m.operations[operation]
}

// Reset resets all metrics (useful for testing).
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)
	m.partialBuilds.Store(0)

	m.mu.Lock()
	m.operations = make(map[string]*OperationMetrics)
	m.mu.Unlock()
}

// Snapshot returns a point-in-time snapshot of current metrics.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	operationSnapshots := make(map[string]*OperationMetricsSnapshot, len(m.operations))
	for operation, om := range m.operations {
		count := om.executionCount.Load()
		total := om.totalDuration.Load()
		average := int64(0)
		if count > 0 {
			average = total / count
		}
		operationSnapshots[operation] = &OperationMetricsSnapshot{
			ExecutionCount:  count,
			TotalDuration:   total,
			ErrorCount:      om.errorCount.Load(),
			AverageDuration: average,
		}
	}

	return &MetricsSnapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		PartialBuilds: m.partialBuilds.Load(),
		Operations:    operationSnapshots,
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	RequestTotal  int64                               `json:"request_total"`
	RequestFailed int64                               `json:"request_failed"`
	PartialBuilds int64                               `json:"partial_builds"`
	Operations    map[string]*OperationMetricsSnapshot `json:"operations"`
}

// OperationMetricsSnapshot represents counters for one operation.
type OperationMetricsSnapshot struct {
	ExecutionCount  int64 `json:"execution_count"`
	TotalDuration   int64 `json:"total_duration_ms"`
	ErrorCount      int64 `json:"error_count"`
	AverageDuration int64 `json:"average_duration_ms"`
}
