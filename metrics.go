package blogauth

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID uint16

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricLoginUnverified
	MetricTwoFactorChallenge
	MetricTwoFactorSuccess
	MetricTwoFactorFailure
	MetricRegisterSuccess
	MetricRegisterDuplicate
	MetricTokenIssued
	MetricEmailVerified
	MetricEmailVerificationFailure
	MetricPasswordResetRequest
	MetricPasswordResetConfirm
	MetricPasswordResetFailure
	MetricPasswordChangeSuccess
	MetricPasswordChangeFailure
	MetricEmailChangeSuccess
	MetricEmailChangeFailure
	MetricAuthenticateSuccess
	MetricAuthenticateFailure
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds the engine's counters. Increments are lock-free; padding
// keeps hot counters off shared cache lines.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled: cfg.Enabled,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads a single counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies all counters. Values read with atomic loads; the
// snapshot as a whole is not a consistent cut, which is fine for
// monitoring.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snapshot := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, metricIDCount),
	}
	if m == nil || !m.enabled {
		return snapshot
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if v := atomic.LoadUint64(&m.counters[id].value); v > 0 {
			snapshot.Counters[id] = v
		}
	}

	return snapshot
}
