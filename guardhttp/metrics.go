package guardhttp

import (
	"sync"
	"time"
)

// Metrics tracks aggregate statistics for detection API calls.
type Metrics interface {
	// RecordRequest records an API request
	RecordRequest()

	// RecordDuration records request duration
	RecordDuration(duration time.Duration)

	// RecordFailOpen records an operational failure folded into a safe
	// response, classified by cause
	RecordFailOpen(cause ErrorType)

	// GetStats returns current statistics
	GetStats() Stats
}

// Stats contains aggregate statistics.
type Stats struct {
	TotalRequests int
	TotalDuration time.Duration
	FailOpenCount int
	ByCause       map[ErrorType]int
}

// DefaultMetrics provides in-memory metrics tracking.
type DefaultMetrics struct {
	mu    sync.RWMutex
	stats Stats
}

// NewDefaultMetrics creates a metrics tracker.
func NewDefaultMetrics() *DefaultMetrics {
	return &DefaultMetrics{
		stats: Stats{
			ByCause: make(map[ErrorType]int),
		},
	}
}

// RecordRequest increments the request counter.
func (m *DefaultMetrics) RecordRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.TotalRequests++
}

// RecordDuration records API call duration.
func (m *DefaultMetrics) RecordDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.TotalDuration += duration
}

// RecordFailOpen records a folded operational failure.
func (m *DefaultMetrics) RecordFailOpen(cause ErrorType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.FailOpenCount++
	m.stats.ByCause[cause]++
}

// GetStats returns a copy of current statistics.
func (m *DefaultMetrics) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Deep copy to avoid race conditions
	statsCopy := Stats{
		TotalRequests: m.stats.TotalRequests,
		TotalDuration: m.stats.TotalDuration,
		FailOpenCount: m.stats.FailOpenCount,
		ByCause:       make(map[ErrorType]int),
	}

	for k, v := range m.stats.ByCause {
		statsCopy.ByCause[k] = v
	}

	return statsCopy
}

// NopMetrics discards all measurements. It is the client default.
type NopMetrics struct{}

// RecordRequest implements Metrics.
func (NopMetrics) RecordRequest() {}

// RecordDuration implements Metrics.
func (NopMetrics) RecordDuration(duration time.Duration) {}

// RecordFailOpen implements Metrics.
func (NopMetrics) RecordFailOpen(cause ErrorType) {}

// GetStats implements Metrics.
func (NopMetrics) GetStats() Stats { return Stats{} }
