package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

var ErrInvalidState = errors.New("runner: invalid state transition")

// LifecycleRunner starts an engine, waits for cancellation and drains it
// within a timeout.
type LifecycleRunner struct {
	state   atomic.Int32
	hooks   Hooks
	drainer Drainer
	timeout time.Duration
	banner  io.Writer

	mu       sync.Mutex
	cancel   context.CancelFunc
	stopped  chan struct{}
	onceStop sync.Once
	stopErr  error
}

func NewLifecycleRunner(drainer Drainer, hooks Hooks, timeout time.Duration, banner io.Writer) *LifecycleRunner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LifecycleRunner{
		hooks:   hooks,
		drainer: drainer,
		timeout: timeout,
		banner:  banner,
		stopped: make(chan struct{}),
	}
}

// Run blocks until ctx ends or Stop is called, then drains.
func (r *LifecycleRunner) Run(ctx context.Context) error {
	if !r.state.CompareAndSwap(int32(StateNew), int32(StateStarting)) {
		return ErrInvalidState
	}
	PrintBanner(r.banner)

	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()
	defer cancel()

	if r.hooks.OnStart != nil {
		if err := r.hooks.OnStart(ctx); err != nil {
			r.state.Store(int32(StateStopped))
			return fmt.Errorf("runner: start: %w", err)
		}
	}
	r.state.Store(int32(StateRunning))
	<-ctx.Done()
	return r.stop()
}

// Stop cancels a running Run and waits for the drain. Calling it before Run
// only marks the runner stopped.
func (r *LifecycleRunner) Stop() error {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel == nil {
		r.state.CompareAndSwap(int32(StateNew), int32(StateStopped))
		return nil
	}
	cancel()
	return r.stop()
}

func (r *LifecycleRunner) State() State {
	return State(r.state.Load())
}

func (r *LifecycleRunner) stop() error {
	r.onceStop.Do(func() {
		defer close(r.stopped)
		r.state.Store(int32(StateDraining))
		if r.drainer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
			err := r.drainer.Drain(ctx)
			cancel()
			if errors.Is(err, context.DeadlineExceeded) {
				err = fmt.Errorf("runner: drain timeout after %s", r.timeout)
			}
			r.stopErr = err
		}
		if r.hooks.OnStop != nil {
			r.hooks.OnStop()
		}
		r.state.Store(int32(StateStopped))
	})
	<-r.stopped
	return r.stopErr
}
