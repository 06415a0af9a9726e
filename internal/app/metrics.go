package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts what the event loop has processed. Edits are the events
// that can change engine state; bounds queries are counted separately. A
// fault is an edit the engine rejected, not a recovered transition.
type Metrics struct {
	inputCount  atomic.Uint64
	editCount   atomic.Uint64
	faultCount  atomic.Uint64
	queryCount  atomic.Uint64
	reloadCount atomic.Uint64
	editTotalNs atomic.Int64
	lastEditNs  atomic.Int64
	startTime   time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordInput records one terminal event.
func (m *Metrics) RecordInput() {
	m.inputCount.Add(1)
}

// RecordEdit records one edit event and whether the engine rejected it.
func (m *Metrics) RecordEdit(duration time.Duration, fault bool) {
	ns := duration.Nanoseconds()
	m.editCount.Add(1)
	m.editTotalNs.Add(ns)
	m.lastEditNs.Store(ns)
	if fault {
		m.faultCount.Add(1)
	}
}

// RecordQuery records one character bounds query.
func (m *Metrics) RecordQuery() {
	m.queryCount.Add(1)
}

// RecordReload records one applied configuration reload.
func (m *Metrics) RecordReload() {
	m.reloadCount.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	edits := m.editCount.Load()

	var avgEditNs int64
	if edits > 0 {
		avgEditNs = m.editTotalNs.Load() / int64(edits)
	}

	return MetricsSnapshot{
		Uptime:      time.Since(m.startTime),
		InputCount:  m.inputCount.Load(),
		EditCount:   edits,
		FaultCount:  m.faultCount.Load(),
		QueryCount:  m.queryCount.Load(),
		ReloadCount: m.reloadCount.Load(),
		AvgEditNs:   avgEditNs,
		LastEditNs:  m.lastEditNs.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime      time.Duration
	InputCount  uint64
	EditCount   uint64
	FaultCount  uint64
	QueryCount  uint64
	ReloadCount uint64
	AvgEditNs   int64
	LastEditNs  int64
}

// FaultRate returns the percentage of edit events that reported a fault.
func (s MetricsSnapshot) FaultRate() float64 {
	if s.EditCount == 0 {
		return 0
	}
	return float64(s.FaultCount) / float64(s.EditCount) * 100
}
