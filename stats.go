package httpd

import (
	"sync/atomic"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	latencyMinMicros = 1
	latencyMaxMicros = 10_000_000
	latencySigFigs   = 3
)

func newLatencyHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(latencyMinMicros, latencyMaxMicros, latencySigFigs)
}

type counters struct {
	accepted atomic.Uint64
	rejected atomic.Uint64
	closed   atomic.Uint64
	requests atomic.Uint64
	failures atomic.Uint64
}

// Latency summarizes request handling time in microseconds, from the end of
// a read to the end of serialization.
type Latency struct {
	Count  int64
	Min    int64
	Mean   float64
	P50    int64
	P99    int64
	Max    int64
	StdDev float64
}

type Stats struct {
	Accepted uint64 // connections handed to a worker
	Rejected uint64 // connections closed because the chosen worker was full
	Closed   uint64
	Requests uint64
	Failures uint64 // requests answered with a 500 from a handler failure

	// Latency covers the last completed run; it is only updated by Stop.
	Latency Latency
}

func (c *counters) snapshot() Stats {
	return Stats{
		Accepted: c.accepted.Load(),
		Rejected: c.rejected.Load(),
		Closed:   c.closed.Load(),
		Requests: c.requests.Load(),
		Failures: c.failures.Load(),
	}
}

func summarize(h *hdrhistogram.Histogram) Latency {
	if h == nil || h.TotalCount() == 0 {
		return Latency{}
	}
	return Latency{
		Count:  h.TotalCount(),
		Min:    h.Min(),
		Mean:   h.Mean(),
		P50:    h.ValueAtPercentile(50),
		P99:    h.ValueAtPercentile(99),
		Max:    h.Max(),
		StdDev: h.StdDev(),
	}
}
