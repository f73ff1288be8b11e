package mock

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/stellaroneai/swara/pkg/adapters/tts"
	"github.com/stellaroneai/swara/pkg/voice"
)

// TTSConfig shapes simulated playback.
type TTSConfig struct {
	VoiceList  []voice.Candidate
	StartDelay time.Duration
	PerChar    time.Duration
	// NeverStart swallows requests without firing any event.
	NeverStart bool
	Err        error
}

// TTS simulates a synthesizer that plays one request at a time.
type TTS struct {
	cfg TTSConfig

	mu      sync.Mutex
	gen     uint64
	spoken  []tts.Request
	paused  bool
	stopped int
}

func NewTTS(cfg TTSConfig) *TTS {
	if cfg.VoiceList == nil {
		cfg.VoiceList = []voice.Candidate{
			{ID: "mock-en", Name: "Mock English", Locale: "en-IN", IsLocal: true},
			{ID: "mock-hi", Name: "Mock Hindi", Locale: "hi-IN", IsLocal: true},
		}
	}
	return &TTS{cfg: cfg}
}

func (s *TTS) Name() string { return "mock_tts" }

func (s *TTS) Voices(ctx context.Context) ([]voice.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]voice.Candidate(nil), s.cfg.VoiceList...), nil
}

func (s *TTS) Speak(_ context.Context, req tts.Request, ev tts.Events) error {
	if s.cfg.Err != nil {
		return s.cfg.Err
	}
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.spoken = append(s.spoken, req)
	s.paused = false
	s.mu.Unlock()
	if s.cfg.NeverStart {
		return nil
	}
	go func() {
		time.Sleep(s.cfg.StartDelay)
		if !s.live(gen) {
			return
		}
		ev.OnStart()
		time.Sleep(time.Duration(utf8.RuneCountInString(req.Text)) * s.cfg.PerChar)
		if !s.live(gen) {
			return
		}
		ev.OnEnd()
	}()
	return nil
}

func (s *TTS) Stop() {
	s.mu.Lock()
	s.gen++
	s.stopped++
	s.mu.Unlock()
}

func (s *TTS) Pause() error {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
	return nil
}

func (s *TTS) Resume() error {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
	return nil
}

// Spoken returns every request the backend received.
func (s *TTS) Spoken() []tts.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tts.Request(nil), s.spoken...)
}

// Stops returns how often playback was stopped.
func (s *TTS) Stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *TTS) live(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

var _ tts.Backend = (*TTS)(nil)
