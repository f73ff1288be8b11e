package metrics

import (
	"sync"
	"sync/atomic"
)

// AsyncObserver moves event delivery off the session goroutines so a slow
// file writer never delays a callback. When the buffer is full the event is
// dropped and counted.
type AsyncObserver struct {
	inner   Observer
	dropped atomic.Int64

	mu     sync.RWMutex
	ch     chan Event
	closed bool
	done   chan struct{}
}

func NewAsyncObserver(inner Observer, buffer int) *AsyncObserver {
	if inner == nil {
		inner = NoopObserver{}
	}
	if buffer <= 0 {
		buffer = 256
	}
	a := &AsyncObserver{inner: inner, ch: make(chan Event, buffer), done: make(chan struct{})}
	go func() {
		defer close(a.done)
		for ev := range a.ch {
			a.inner.RecordEvent(ev)
		}
	}()
	return a
}

func (a *AsyncObserver) RecordEvent(ev Event) {
	if a == nil {
		return
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.dropped.Add(1)
		return
	}
	select {
	case a.ch <- ev:
	default:
		a.dropped.Add(1)
	}
}

// Dropped counts events lost to a full buffer or a closed observer.
func (a *AsyncObserver) Dropped() int64 { return a.dropped.Load() }

// Close delivers what is buffered and then returns. Later events are dropped.
func (a *AsyncObserver) Close() {
	if a == nil {
		return
	}
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.ch)
	}
	a.mu.Unlock()
	<-a.done
}

func (a *AsyncObserver) Flush() error {
	if f, ok := a.inner.(Flusher); ok {
		return f.Flush()
	}
	return nil
}
