package metrics

import (
	"math"
	"sync/atomic"
)

// SamplingObserver forwards every Nth event of the sampled names and every
// event of the others. High-frequency names such as EventCapturePart are
// the usual candidates.
type SamplingObserver struct {
	inner       Observer
	names       map[string]struct{}
	sampleEvery uint64
	counter     atomic.Uint64
}

// NewSamplingObserver keeps roughly rate (0..1) of the events whose name is in
// names. An empty names list samples every event.
func NewSamplingObserver(inner Observer, rate float64, names ...string) *SamplingObserver {
	rate = math.Max(0, math.Min(1, rate))
	var every uint64
	switch {
	case rate == 0:
		every = 0
	case rate == 1:
		every = 1
	default:
		every = uint64(math.Round(1.0 / rate))
		if every == 0 {
			every = 1
		}
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return &SamplingObserver{inner: inner, names: set, sampleEvery: every}
}

func (s *SamplingObserver) RecordEvent(ev Event) {
	if len(s.names) > 0 {
		if _, ok := s.names[ev.Name]; !ok {
			s.inner.RecordEvent(ev)
			return
		}
	}
	if s.sampleEvery == 0 {
		return
	}
	if s.sampleEvery == 1 || s.counter.Add(1)%s.sampleEvery == 0 {
		s.inner.RecordEvent(ev)
	}
}
