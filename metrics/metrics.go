// Package metrics provides the counters, gauges, histograms and timers the
// toolkit records pairing and verification activity with. Each metric keeps
// its own exact value for in-process reads and mirrors every update into a
// prometheus collector so a Registry can be gathered or exported.
package metrics

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ---------------------------------------------------------------------------
// Counter
// ---------------------------------------------------------------------------

// Counter is a monotonically incrementing counter.
type Counter struct {
	name  string
	value atomic.Int64
	prom  prometheus.Counter
}

// NewCounter returns a new unregistered Counter with the given name.
func NewCounter(name string) *Counter {
	return &Counter{
		name: name,
		prom: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      promName(name),
			Help:      name,
		}),
	}
}

// Inc increments the counter by 1.
func (c *Counter) Inc() {
	c.value.Add(1)
	c.prom.Inc()
}

// Add increments the counter by n. Negative values are silently ignored
// because counters are monotonically increasing.
func (c *Counter) Add(n int64) {
	if n > 0 {
		c.value.Add(n)
		c.prom.Add(float64(n))
	}
}

// Value returns the current counter value.
func (c *Counter) Value() int64 { return c.value.Load() }

// Name returns the metric name.
func (c *Counter) Name() string { return c.name }

// ---------------------------------------------------------------------------
// Gauge
// ---------------------------------------------------------------------------

// Gauge is a value that can go up and down.
type Gauge struct {
	name  string
	value atomic.Int64
	prom  prometheus.Gauge
}

// NewGauge returns a new unregistered Gauge with the given name.
func NewGauge(name string) *Gauge {
	return &Gauge{
		name: name,
		prom: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      promName(name),
			Help:      name,
		}),
	}
}

// Set sets the gauge to the given value.
func (g *Gauge) Set(v int64) {
	g.value.Store(v)
	g.prom.Set(float64(v))
}

// Inc increments the gauge by 1.
func (g *Gauge) Inc() {
	g.value.Add(1)
	g.prom.Inc()
}

// Dec decrements the gauge by 1.
func (g *Gauge) Dec() {
	g.value.Add(-1)
	g.prom.Dec()
}

// Value returns the current gauge value.
func (g *Gauge) Value() int64 { return g.value.Load() }

// Name returns the metric name.
func (g *Gauge) Name() string { return g.name }

// ---------------------------------------------------------------------------
// Histogram
// ---------------------------------------------------------------------------

// Histogram tracks the distribution of observed values. It records count,
// sum, min and max locally; bucket counts live in the prometheus mirror.
type Histogram struct {
	name  string
	prom  prometheus.Histogram
	mu    sync.Mutex
	count int64
	sum   float64
	min   float64
	max   float64
}

// NewHistogram returns a new unregistered Histogram with the given name.
func NewHistogram(name string) *Histogram {
	return &Histogram{
		name: name,
		prom: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      promName(name),
			Help:      name,
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 12),
		}),
		min: math.MaxFloat64,
		max: -math.MaxFloat64,
	}
}

// Observe records a value.
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	h.count++
	h.sum += v
	if v < h.min {
		h.min = v
	}
	if v > h.max {
		h.max = v
	}
	h.mu.Unlock()
	h.prom.Observe(v)
}

// Count returns the number of observations.
func (h *Histogram) Count() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Sum returns the sum of all observed values.
func (h *Histogram) Sum() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sum
}

// Min returns the smallest observed value, or 0 before the first
// observation.
func (h *Histogram) Min() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == 0 {
		return 0
	}
	return h.min
}

// Max returns the largest observed value, or 0 before the first
// observation.
func (h *Histogram) Max() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == 0 {
		return 0
	}
	return h.max
}

// Mean returns the arithmetic mean of all observations, or 0 before the
// first observation.
func (h *Histogram) Mean() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == 0 {
		return 0
	}
	return h.sum / float64(h.count)
}

// Name returns the metric name.
func (h *Histogram) Name() string { return h.name }

// ---------------------------------------------------------------------------
// Timer
// ---------------------------------------------------------------------------

// Timer records the elapsed time into an associated Histogram when Stop is
// called. Samples are milliseconds with microsecond precision.
type Timer struct {
	start time.Time
	hist  *Histogram
}

// NewTimer starts a new timer that will record into h when stopped.
func NewTimer(h *Histogram) *Timer {
	return &Timer{
		start: time.Now(),
		hist:  h,
	}
}

// Stop records the elapsed time into the associated histogram and returns
// the duration.
func (t *Timer) Stop() time.Duration {
	d := time.Since(t.start)
	if t.hist != nil {
		t.hist.Observe(float64(d.Microseconds()) / 1000)
	}
	return d
}
