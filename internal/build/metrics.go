package build

import (
	"sync"
	"time"
)

// Metrics accumulates statistics over many passes, as in watch mode.
// A nil *Metrics records nothing.
type Metrics struct {
	TotalPasses      int64
	SuccessfulPasses int64
	FailedPasses     int64
	Replaced         int64
	Unresolved       int64
	AverageDuration  time.Duration
	TotalDuration    time.Duration
	mutex            sync.RWMutex
}

// NewMetrics creates an empty metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// record adds one pass. A nil report marks a failed pass.
func (m *Metrics) record(report *Report, d time.Duration) {
	if m == nil {
		return
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalPasses++
	m.TotalDuration += d

	if report == nil {
		m.FailedPasses++
	} else {
		m.SuccessfulPasses++
		m.Replaced += int64(report.Replaced)
		m.Unresolved += int64(len(report.Unresolved))
	}

	m.AverageDuration = m.TotalDuration / time.Duration(m.TotalPasses)
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() Metrics {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return Metrics{
		TotalPasses:      m.TotalPasses,
		SuccessfulPasses: m.SuccessfulPasses,
		FailedPasses:     m.FailedPasses,
		Replaced:         m.Replaced,
		Unresolved:       m.Unresolved,
		AverageDuration:  m.AverageDuration,
		TotalDuration:    m.TotalDuration,
	}
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalPasses = 0
	m.SuccessfulPasses = 0
	m.FailedPasses = 0
	m.Replaced = 0
	m.Unresolved = 0
	m.AverageDuration = 0
	m.TotalDuration = 0
}

// SuccessRate returns the share of successful passes as a percentage.
func (m *Metrics) SuccessRate() float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.TotalPasses == 0 {
		return 0
	}
	return float64(m.SuccessfulPasses) / float64(m.TotalPasses) * 100
}
