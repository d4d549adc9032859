package fragsync

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordLoad is called after each LoadModel call.
	// attempts is the number of fetch attempts, err is nil if the model was attached.
	RecordLoad(attempts int, duration time.Duration, err error)

	// RecordAttempt is called after each single fetch attempt of a load.
	RecordAttempt(attempt int, duration time.Duration, err error)

	// RecordHighlight is called after each host-driven highlight.
	// requested is the number of GlobalIDs, matched the number of fragment items isolated.
	RecordHighlight(requested, matched int)

	// RecordGesture is called for each gesture forwarded to the host.
	// selected is false for a clear.
	RecordGesture(selected bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordAttempt(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordHighlight(int, int)                {}
func (NoopMetricsCollector) RecordGesture(bool)                      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	LoadTotalNanos  atomic.Int64
	AttemptCount    atomic.Int64
	AttemptErrors   atomic.Int64
	HighlightCount  atomic.Int64
	HighlightMisses atomic.Int64
	GestureSelects  atomic.Int64
	GestureClears   atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(attempts int, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// RecordAttempt implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAttempt(attempt int, duration time.Duration, err error) {
	b.AttemptCount.Add(1)
	if err != nil {
		b.AttemptErrors.Add(1)
	}
}

// RecordHighlight implements MetricsCollector.
func (b *BasicMetricsCollector) RecordHighlight(requested, matched int) {
	b.HighlightCount.Add(1)
	if requested > 0 && matched == 0 {
		b.HighlightMisses.Add(1)
	}
}

// RecordGesture implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGesture(selected bool) {
	if selected {
		b.GestureSelects.Add(1)
	} else {
		b.GestureClears.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:       b.LoadCount.Load(),
		LoadErrors:      b.LoadErrors.Load(),
		LoadAvgNanos:    b.getAvgLoadNanos(),
		AttemptCount:    b.AttemptCount.Load(),
		AttemptErrors:   b.AttemptErrors.Load(),
		HighlightCount:  b.HighlightCount.Load(),
		HighlightMisses: b.HighlightMisses.Load(),
		GestureSelects:  b.GestureSelects.Load(),
		GestureClears:   b.GestureClears.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgLoadNanos() int64 {
	count := b.LoadCount.Load()
	if count == 0 {
		return 0
	}
	return b.LoadTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount       int64
	LoadErrors      int64
	LoadAvgNanos    int64
	AttemptCount    int64
	AttemptErrors   int64
	HighlightCount  int64
	HighlightMisses int64
	GestureSelects  int64
	GestureClears   int64
}

// attemptObserver adapts a MetricsCollector to loader.Observer.
type attemptObserver struct {
	mc MetricsCollector
}

func (o attemptObserver) RecordAttempt(attempt int, duration time.Duration, err error) {
	o.mc.RecordAttempt(attempt, duration, err)
}
