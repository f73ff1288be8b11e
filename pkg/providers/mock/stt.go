package mock

import (
	"context"
	"sync"
	"time"

	"github.com/stellaroneai/swara/pkg/adapters/stt"
)

// STTConfig scripts one recognition per Start.
type STTConfig struct {
	Transcript string
	Partials   []string
	// Delay is waited before the first event.
	Delay time.Duration
	// Deny refuses microphone permission.
	Deny bool
	// Err is reported instead of a transcript.
	Err error
	// Hold keeps listening until Stop or Finish.
	Hold bool
}

// STT is a scripted recognition backend.
type STT struct {
	cfg STTConfig

	mu      sync.Mutex
	gen     uint64
	h       stt.Handlers
	locales []string
}

func NewSTT(cfg STTConfig) *STT {
	return &STT{cfg: cfg}
}

func (s *STT) Name() string { return "mock_stt" }

func (s *STT) RequestPermission(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return !s.cfg.Deny, nil
}

func (s *STT) Start(ctx context.Context, locale string, h stt.Handlers) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.h = h
	s.locales = append(s.locales, locale)
	s.mu.Unlock()
	if s.cfg.Hold {
		return nil
	}
	go s.run(ctx, gen, h)
	return nil
}

func (s *STT) run(ctx context.Context, gen uint64, h stt.Handlers) {
	if s.cfg.Delay > 0 {
		t := time.NewTimer(s.cfg.Delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
	if !s.live(gen) {
		return
	}
	if s.cfg.Err != nil {
		h.OnError(s.cfg.Err)
		return
	}
	for _, p := range s.cfg.Partials {
		h.OnPartial(p)
	}
	if s.cfg.Transcript != "" {
		h.OnFinal(s.cfg.Transcript)
	}
	h.OnEnd()
}

// Finish delivers the scripted transcript of a held recognition.
func (s *STT) Finish() error {
	s.mu.Lock()
	h := s.h
	s.gen++
	s.mu.Unlock()
	if h.OnEnd == nil {
		return nil
	}
	if s.cfg.Transcript != "" {
		h.OnFinal(s.cfg.Transcript)
	}
	h.OnEnd()
	return nil
}

func (s *STT) Stop() error {
	s.mu.Lock()
	s.gen++
	s.h = stt.Handlers{}
	s.mu.Unlock()
	return nil
}

// Locales returns the locales recognition was started with.
func (s *STT) Locales() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.locales...)
}

func (s *STT) live(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

var (
	_ stt.Backend  = (*STT)(nil)
	_ stt.Finisher = (*STT)(nil)
)
