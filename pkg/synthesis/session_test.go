package synthesis

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stellaroneai/swara/pkg/adapters/tts"
	"github.com/stellaroneai/swara/pkg/errorsx"
	"github.com/stellaroneai/swara/pkg/language"
	"github.com/stellaroneai/swara/pkg/logging"
	"github.com/stellaroneai/swara/pkg/metrics"
	"github.com/stellaroneai/swara/pkg/voice"
)

type fakeBackend struct {
	mu       sync.Mutex
	requests []tts.Request
	events   []tts.Events
	stops    int
	pauses   int
	// autoStart fires OnStart synchronously from Speak.
	autoStart bool
	speakErr  error
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Voices(context.Context) ([]voice.Candidate, error) {
	return []voice.Candidate{{ID: "v-hi", Locale: "hi-IN", IsLocal: true}}, nil
}

func (f *fakeBackend) Speak(_ context.Context, req tts.Request, ev tts.Events) error {
	f.mu.Lock()
	if f.speakErr != nil {
		f.mu.Unlock()
		return f.speakErr
	}
	f.requests = append(f.requests, req)
	f.events = append(f.events, ev)
	auto := f.autoStart
	f.mu.Unlock()
	if auto && ev.OnStart != nil {
		ev.OnStart()
	}
	return nil
}

func (f *fakeBackend) Stop() {
	f.mu.Lock()
	f.stops++
	f.mu.Unlock()
}

func (f *fakeBackend) Pause() error {
	f.mu.Lock()
	f.pauses++
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) Resume() error { return nil }

func (f *fakeBackend) last() (tts.Request, tts.Events) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1], f.events[len(f.events)-1]
}

func (f *fakeBackend) eventsAt(i int) tts.Events {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[i]
}

func (f *fakeBackend) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

func newTestSession(b tts.Backend, cfg Config, obs metrics.Observer) *Session {
	return NewSession(b, nil, nil, cfg, obs, logging.Discard())
}

func waitResult(t *testing.T, ch <-chan Result, within time.Duration) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(within):
		t.Fatalf("result not resolved within %s", within)
		return Result{}
	}
}

func TestSpeakCompletes(t *testing.T) {
	b := &fakeBackend{autoStart: true}
	obs := metrics.NewMemoryObserver()
	s := newTestSession(b, Config{}, obs)

	ch := s.Submit(context.Background(), "hello")
	if !s.IsSpeaking() {
		t.Fatalf("expected session to be speaking")
	}
	_, ev := b.last()
	ev.OnEnd()
	ev.OnEnd()
	ev.OnError(errors.New("late"))

	r := waitResult(t, ch, time.Second)
	if r.Outcome != OutcomeCompleted || r.Err != nil {
		t.Fatalf("expected completed, got %+v", r)
	}
	if s.IsSpeaking() {
		t.Fatalf("expected idle after completion")
	}
	if got := strings.Join(obs.Names(), ","); got != "speech_start,speech_end" {
		t.Fatalf("unexpected events %q", got)
	}
}

func TestSpeakMutualExclusion(t *testing.T) {
	b := &fakeBackend{}
	s := newTestSession(b, Config{}, nil)

	first := s.Submit(context.Background(), "A")
	second := s.Submit(context.Background(), "B")

	r := waitResult(t, first, time.Second)
	if r.Outcome != OutcomeCancelled {
		t.Fatalf("expected A cancelled, got %s", r.Outcome)
	}
	if b.stopCount() != 1 {
		t.Fatalf("expected backend stop when superseding, got %d", b.stopCount())
	}

	// A late end for the superseded utterance must not resolve B.
	b.eventsAt(0).OnEnd()
	select {
	case r := <-second:
		t.Fatalf("B resolved by stale event: %+v", r)
	default:
	}

	req, ev := b.last()
	if req.Text != "B" {
		t.Fatalf("expected B to be the live utterance, got %q", req.Text)
	}
	ev.OnStart()
	ev.OnEnd()
	if r := waitResult(t, second, time.Second); r.Outcome != OutcomeCompleted {
		t.Fatalf("expected B completed, got %s", r.Outcome)
	}
}

func TestStartGuardTimesOut(t *testing.T) {
	b := &fakeBackend{}
	s := newTestSession(b, Config{StartGuardFloor: 40 * time.Millisecond, StartGuardPerChar: time.Millisecond}, nil)

	started := time.Now()
	r := waitResult(t, s.Submit(context.Background(), "never starts"), time.Second)
	if r.Outcome != OutcomeTimedOut {
		t.Fatalf("expected timed out, got %s", r.Outcome)
	}
	if !errorsx.HasReason(r.Err, errorsx.ReasonStartTimeout) {
		t.Fatalf("expected start_timeout reason, got %v", r.Err)
	}
	if elapsed := time.Since(started); elapsed < 40*time.Millisecond {
		t.Fatalf("guard fired too early: %s", elapsed)
	}
	if b.stopCount() != 1 {
		t.Fatalf("expected backend stop on guard expiry, got %d", b.stopCount())
	}
	if s.IsSpeaking() {
		t.Fatalf("expected idle after timeout")
	}
}

func TestStartGuardDisarmedOnStart(t *testing.T) {
	b := &fakeBackend{autoStart: true}
	s := newTestSession(b, Config{StartGuardFloor: 20 * time.Millisecond, StartGuardPerChar: time.Millisecond}, nil)

	ch := s.Submit(context.Background(), "long playback")
	time.Sleep(60 * time.Millisecond)
	select {
	case r := <-ch:
		t.Fatalf("started utterance must not time out, got %+v", r)
	default:
	}
	_, ev := b.last()
	ev.OnEnd()
	if r := waitResult(t, ch, time.Second); r.Outcome != OutcomeCompleted {
		t.Fatalf("expected completed, got %s", r.Outcome)
	}
}

func TestStartGuardDuration(t *testing.T) {
	s := newTestSession(&fakeBackend{}, Config{}, nil)
	if got := s.startGuard("hi"); got != 5*time.Second {
		t.Fatalf("expected 5s floor, got %s", got)
	}
	if got := s.startGuard(strings.Repeat("a", 80)); got != 8*time.Second {
		t.Fatalf("expected 8s, got %s", got)
	}
	if got := s.startGuard(strings.Repeat("अ", 60)); got != 6*time.Second {
		t.Fatalf("expected guard per character not byte, got %s", got)
	}
}

func TestEmptyTextCompletesWithoutBackend(t *testing.T) {
	b := &fakeBackend{}
	s := newTestSession(b, Config{}, nil)
	r := s.Speak(context.Background(), "   ")
	if r.Outcome != OutcomeCompleted {
		t.Fatalf("expected completed, got %s", r.Outcome)
	}
	if len(b.requests) != 0 {
		t.Fatalf("expected no backend call")
	}
}

func TestBackendErrorResolvesFailed(t *testing.T) {
	b := &fakeBackend{speakErr: errors.New("engine crashed")}
	s := newTestSession(b, Config{}, nil)
	r := s.Speak(context.Background(), "hello")
	if r.Outcome != OutcomeFailed || !errorsx.HasReason(r.Err, errorsx.ReasonSynthesis) {
		t.Fatalf("expected synthesis failure, got %+v", r)
	}
	if r.AsError() == nil {
		t.Fatalf("expected AsError to report failure")
	}
}

func TestNilBackendIsUnavailable(t *testing.T) {
	s := newTestSession(nil, Config{}, nil)
	r := s.Speak(context.Background(), "hello")
	if !errorsx.HasReason(r.Err, errorsx.ReasonBackendUnavailable) {
		t.Fatalf("expected backend_unavailable, got %+v", r)
	}
}

func TestStopAndContextCancel(t *testing.T) {
	b := &fakeBackend{autoStart: true}
	s := newTestSession(b, Config{}, nil)

	ch := s.Submit(context.Background(), "one")
	s.Stop()
	s.Stop()
	if r := waitResult(t, ch, time.Second); r.Outcome != OutcomeCancelled {
		t.Fatalf("expected cancelled, got %s", r.Outcome)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch = s.Submit(ctx, "two")
	cancel()
	if r := waitResult(t, ch, time.Second); r.Outcome != OutcomeCancelled {
		t.Fatalf("expected cancelled by context, got %s", r.Outcome)
	}
	if s.IsSpeaking() {
		t.Fatalf("expected idle")
	}
}

func TestPresetsScaleProfile(t *testing.T) {
	b := &fakeBackend{autoStart: true}
	s := newTestSession(b, Config{Language: "hindi"}, nil)

	go s.SpeakMedical(context.Background(), "paracetamol")
	req := waitRequest(t, b, 1)
	if math.Abs(req.Rate-0.72) > 1e-9 || math.Abs(req.Pitch-0.95) > 1e-9 {
		t.Fatalf("unexpected medical profile %+v", req)
	}
	if req.Locale != "hi-IN" {
		t.Fatalf("expected hi-IN, got %s", req.Locale)
	}

	go s.SpeakEmergency(context.Background(), "help", WithVolume(0.2))
	req = waitRequest(t, b, 2)
	if math.Abs(req.Rate-1.08) > 1e-9 || math.Abs(req.Pitch-1.1) > 1e-9 {
		t.Fatalf("unexpected emergency profile %+v", req)
	}
	if req.Volume != 0.2 {
		t.Fatalf("expected caller volume override, got %v", req.Volume)
	}
	s.Stop()
}

func TestOverridesAndVoiceSelection(t *testing.T) {
	b := &fakeBackend{}
	s := newTestSession(b, Config{}, nil)
	if err := s.LoadVoices(context.Background()); err != nil {
		t.Fatalf("load voices: %v", err)
	}

	ch := s.Submit(context.Background(), "namaste", WithLanguage("hindi"), WithRate(5), WithPitch(1.2))
	req, _ := b.last()
	if req.VoiceID != "v-hi" {
		t.Fatalf("expected hindi voice, got %q", req.VoiceID)
	}
	if req.Rate != language.MaxRate || req.Pitch != 1.2 {
		t.Fatalf("expected clamped overrides, got %+v", req)
	}
	if s.Language() != language.DefaultTag {
		t.Fatalf("per-utterance language must not change the session")
	}
	s.Stop()
	waitResult(t, ch, time.Second)

	ch = s.Submit(context.Background(), "hello")
	req, _ = b.last()
	if req.VoiceID != "v-hi" {
		t.Fatalf("expected last resort voice, got %q", req.VoiceID)
	}
	s.Stop()
	waitResult(t, ch, time.Second)
}

func waitRequest(t *testing.T, b *fakeBackend, n int) tts.Request {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		b.mu.Lock()
		if len(b.requests) >= n {
			req := b.requests[n-1]
			b.mu.Unlock()
			return req
		}
		b.mu.Unlock()
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("backend did not receive request %d", n)
	return tts.Request{}
}

// hookObserver runs onEnd for the first speech_end it sees.
type hookObserver struct {
	once  sync.Once
	onEnd func()
}

func (h *hookObserver) RecordEvent(ev metrics.Event) {
	if ev.Name == metrics.EventSpeechEnd {
		h.once.Do(h.onEnd)
	}
}

func TestCancelDoesNotStopSuccessor(t *testing.T) {
	b := &fakeBackend{autoStart: true}
	hook := &hookObserver{}
	s := newTestSession(b, Config{}, hook)

	var next <-chan Result
	hook.onEnd = func() { next = s.Submit(context.Background(), "second") }

	first := s.Submit(context.Background(), "first")
	s.Stop()
	if r := waitResult(t, first, time.Second); r.Outcome != OutcomeCancelled {
		t.Fatalf("expected first cancelled, got %s", r.Outcome)
	}
	if next == nil {
		t.Fatalf("expected second utterance to be submitted on first's end")
	}
	if got := b.stopCount(); got != 1 {
		t.Fatalf("expected one backend stop for the first utterance, got %d", got)
	}
	if !s.IsSpeaking() {
		t.Fatalf("expected second utterance to be live")
	}
	_, ev := b.last()
	ev.OnEnd()
	if r := waitResult(t, next, time.Second); r.Outcome != OutcomeCompleted {
		t.Fatalf("expected second completed, got %s", r.Outcome)
	}
}
