package sandbox

import (
	"runtime/metrics"
	"time"
)

const heapObjectsMetric = "/memory/classes/heap/objects:bytes"

// Stopwatch measures elapsed time on the monotonic clock
type Stopwatch struct {
	start time.Time
}

// StartStopwatch starts a stopwatch
func StartStopwatch() Stopwatch {
	return Stopwatch{start: time.Now()}
}

// Elapsed returns the time since the stopwatch started
func (s Stopwatch) Elapsed() time.Duration {
	return time.Since(s.start)
}

// MemorySampler reports the current memory usage of the host process
type MemorySampler interface {
	SampleMemory() uint64
}

// MemorySamplerFunc adapts a function to MemorySampler
type MemorySamplerFunc func() uint64

// SampleMemory calls f
func (f MemorySamplerFunc) SampleMemory() uint64 {
	return f()
}

// HeapSampler samples the bytes held by live and not yet swept heap objects
// across the whole process.
type HeapSampler struct{}

// SampleMemory reads the heap object metric
func (HeapSampler) SampleMemory() uint64 {
	sample := []metrics.Sample{{Name: heapObjectsMetric}}
	metrics.Read(sample)
	if sample[0].Value.Kind() != metrics.KindUint64 {
		return 0
	}
	return sample[0].Value.Uint64()
}
