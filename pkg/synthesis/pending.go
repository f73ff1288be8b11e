package synthesis

import (
	"context"
	"sync"
	"time"

	"github.com/stellaroneai/swara/pkg/metrics"
)

// pending is the completion latch of one utterance. The first of end, error,
// guard expiry or cancellation wins; later signals are dropped.
type pending struct {
	utt    Utterance
	tags   map[string]string
	result chan Result

	mu       sync.Mutex
	started  bool
	resolved bool
	guard    *time.Timer
	stopCtx  func() bool
}

func newPending(utt Utterance, tags map[string]string) *pending {
	return &pending{utt: utt, tags: tags, result: make(chan Result, 1)}
}

func (p *pending) eventTags() map[string]string {
	out := make(map[string]string, len(p.tags)+2)
	for k, v := range p.tags {
		out[k] = v
	}
	out[metrics.TagUtteranceID] = p.utt.ID
	return out
}

// bindContext cancels the utterance when ctx is done.
func (p *pending) bindContext(ctx context.Context, cancel func()) {
	stop := context.AfterFunc(ctx, cancel)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.resolved {
		stop()
		return
	}
	p.stopCtx = stop
}

func (p *pending) armGuard(d time.Duration, fire func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.resolved {
		return
	}
	p.guard = time.AfterFunc(d, fire)
}

// markStarted disarms the guard. It returns false if the utterance is
// already resolved or was started before.
func (p *pending) markStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.resolved || p.started {
		return false
	}
	p.started = true
	if p.guard != nil {
		p.guard.Stop()
	}
	return true
}

func (p *pending) isStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

func (p *pending) resolve(r Result) bool {
	p.mu.Lock()
	if p.resolved {
		p.mu.Unlock()
		return false
	}
	p.resolved = true
	if p.guard != nil {
		p.guard.Stop()
	}
	stopCtx := p.stopCtx
	p.mu.Unlock()

	if stopCtx != nil {
		stopCtx()
	}
	p.result <- r
	close(p.result)
	return true
}
