package capture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stellaroneai/swara/pkg/adapters/stt"
	"github.com/stellaroneai/swara/pkg/errorsx"
	"github.com/stellaroneai/swara/pkg/logging"
	"github.com/stellaroneai/swara/pkg/metrics"
)

type fakeBackend struct {
	mu         sync.Mutex
	permission bool
	permErr    error
	permAsks   int
	startErr   error
	locales    []string
	handlers   stt.Handlers
	stops      int
	endOnStop  bool
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) RequestPermission(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.permAsks++
	return f.permission, f.permErr
}

func (f *fakeBackend) Start(_ context.Context, locale string, h stt.Handlers) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.locales = append(f.locales, locale)
	f.handlers = h
	return nil
}

func (f *fakeBackend) Stop() error {
	f.mu.Lock()
	f.stops++
	h, end := f.handlers, f.endOnStop
	f.mu.Unlock()
	if end && h.OnEnd != nil {
		h.OnEnd()
	}
	return nil
}

func (f *fakeBackend) h() stt.Handlers {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handlers
}

func (f *fakeBackend) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

type finishingBackend struct {
	*fakeBackend
	finished int
}

func (f *finishingBackend) Finish() error {
	f.finished++
	h := f.h()
	h.OnFinal("uploaded transcript")
	h.OnEnd()
	return nil
}

type recorder struct {
	mu       sync.Mutex
	partials []string
	finals   []string
	errs     []error
	done     chan struct{}
	once     sync.Once
	closed   chan struct{}
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{}), closed: make(chan struct{})}
}

func (r *recorder) handlers() Handlers {
	return Handlers{
		OnPartial: func(text string) {
			r.mu.Lock()
			r.partials = append(r.partials, text)
			r.mu.Unlock()
		},
		OnFinal: func(text string) {
			r.mu.Lock()
			r.finals = append(r.finals, text)
			r.mu.Unlock()
			r.once.Do(func() { close(r.done) })
		},
		OnError: func(err error) {
			r.mu.Lock()
			r.errs = append(r.errs, err)
			r.mu.Unlock()
			r.once.Do(func() { close(r.done) })
		},
		OnDone: func() { close(r.closed) },
	}
}

func (r *recorder) snapshot() ([]string, []error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.finals...), append([]error(nil), r.errs...)
}

func newTestSession(b stt.Backend, limit time.Duration) *Session {
	return NewSession(b, nil, Config{Cap: limit}, metrics.NewMemoryObserver(), logging.Discard())
}

func TestCaptureNaturalEndDeliversJoinedFinal(t *testing.T) {
	b := &fakeBackend{permission: true}
	s := newTestSession(b, time.Second)
	rec := newRecorder()

	if err := s.Start(context.Background(), "hindi", rec.handlers()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.IsActive() {
		t.Fatalf("expected listening")
	}
	if b.locales[0] != "hi-IN" {
		t.Fatalf("expected hi-IN, got %s", b.locales[0])
	}
	h := b.h()
	h.OnPartial("book an")
	h.OnFinal("book an appointment")
	h.OnPartial("with the")
	h.OnFinal("with the doctor")
	h.OnEnd()
	h.OnEnd()
	h.OnError(errors.New("late"))

	finals, errs := rec.snapshot()
	if len(finals) != 1 || finals[0] != "book an appointment with the doctor" {
		t.Fatalf("unexpected finals %v", finals)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle, got %s", s.State())
	}
}

func TestCaptureStartWhileListening(t *testing.T) {
	b := &fakeBackend{permission: true}
	s := newTestSession(b, time.Second)
	if err := s.Start(context.Background(), "english", newRecorder().handlers()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Start(context.Background(), "english", newRecorder().handlers()); !errors.Is(err, ErrCaptureActive) {
		t.Fatalf("expected ErrCaptureActive, got %v", err)
	}
	s.Stop()
}

func TestCapturePermissionDeniedIsNotRetried(t *testing.T) {
	b := &fakeBackend{permission: false}
	s := newTestSession(b, time.Second)
	err := s.Start(context.Background(), "tamil", newRecorder().handlers())
	if !errors.Is(err, ErrPermissionDenied) || !errorsx.HasReason(err, errorsx.ReasonPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if b.permAsks != 1 {
		t.Fatalf("expected one permission request, got %d", b.permAsks)
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle, got %s", s.State())
	}
}

func TestCaptureNoBackend(t *testing.T) {
	s := newTestSession(nil, time.Second)
	err := s.Start(context.Background(), "english", Handlers{})
	if !errorsx.HasReason(err, errorsx.ReasonBackendUnavailable) {
		t.Fatalf("expected backend_unavailable, got %v", err)
	}
}

func TestCaptureRecognitionError(t *testing.T) {
	b := &fakeBackend{permission: true}
	s := newTestSession(b, time.Second)
	rec := newRecorder()
	var stateDuringError State
	hs := rec.handlers()
	onErr := hs.OnError
	hs.OnError = func(err error) {
		stateDuringError = s.State()
		onErr(err)
	}
	if err := s.Start(context.Background(), "english", hs); err != nil {
		t.Fatalf("start: %v", err)
	}
	b.h().OnPartial("hello")
	b.h().OnError(errors.New("network"))

	finals, errs := rec.snapshot()
	if len(finals) != 0 || len(errs) != 1 {
		t.Fatalf("expected one error and no final, got %v %v", finals, errs)
	}
	if !errorsx.HasReason(errs[0], errorsx.ReasonRecognition) {
		t.Fatalf("expected recognition reason, got %v", errs[0])
	}
	if stateDuringError != StateError || s.State() != StateIdle {
		t.Fatalf("expected ERROR then IDLE, got %s then %s", stateDuringError, s.State())
	}
}

func TestCaptureNoSpeechEndsWithEmptyFinal(t *testing.T) {
	b := &fakeBackend{permission: true}
	s := newTestSession(b, time.Second)
	rec := newRecorder()
	if err := s.Start(context.Background(), "english", rec.handlers()); err != nil {
		t.Fatalf("start: %v", err)
	}
	b.h().OnError(stt.ErrNoSpeech)
	finals, errs := rec.snapshot()
	if len(finals) != 1 || finals[0] != "" || len(errs) != 0 {
		t.Fatalf("expected empty final, got %v %v", finals, errs)
	}
}

func TestCaptureStopDeliversOnlyWhenHeard(t *testing.T) {
	b := &fakeBackend{permission: true, endOnStop: true}
	s := newTestSession(b, time.Second)

	silent := newRecorder()
	if err := s.Start(context.Background(), "english", silent.handlers()); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Stop()
	s.Stop()
	select {
	case <-silent.closed:
	default:
		t.Fatalf("expected OnDone after a silent stop")
	}
	if finals, _ := silent.snapshot(); len(finals) != 0 {
		t.Fatalf("expected no final for silent stop, got %v", finals)
	}
	if b.stopCount() != 1 {
		t.Fatalf("expected one backend stop, got %d", b.stopCount())
	}

	heard := newRecorder()
	if err := s.Start(context.Background(), "english", heard.handlers()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	b.h().OnPartial("open medic")
	s.Stop()
	if finals, _ := heard.snapshot(); len(finals) != 1 || finals[0] != "open medic" {
		t.Fatalf("expected partial as final, got %v", finals)
	}
}

func TestCaptureCapForcesIdle(t *testing.T) {
	b := &fakeBackend{permission: true}
	s := newTestSession(b, 40*time.Millisecond)
	rec := newRecorder()
	started := time.Now()
	if err := s.Start(context.Background(), "english", rec.handlers()); err != nil {
		t.Fatalf("start: %v", err)
	}
	b.h().OnPartial("still talking")

	select {
	case <-rec.done:
	case <-time.After(time.Second):
		t.Fatalf("cap did not fire")
	}
	if elapsed := time.Since(started); elapsed < 40*time.Millisecond {
		t.Fatalf("cap fired early: %s", elapsed)
	}
	if s.IsActive() {
		t.Fatalf("expected idle after cap")
	}
	deadline := time.Now().Add(time.Second)
	for b.stopCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if b.stopCount() != 1 {
		t.Fatalf("expected backend stop on cap, got %d", b.stopCount())
	}
}

func TestCaptureContextCancelStops(t *testing.T) {
	b := &fakeBackend{permission: true}
	s := newTestSession(b, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx, "english", newRecorder().handlers()); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()
	deadline := time.Now().Add(time.Second)
	for s.IsActive() && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if s.IsActive() {
		t.Fatalf("expected idle after context cancel")
	}
}

func TestCaptureFinishUsesFinisher(t *testing.T) {
	b := &finishingBackend{fakeBackend: &fakeBackend{permission: true}}
	s := newTestSession(b, time.Second)
	rec := newRecorder()
	if err := s.Start(context.Background(), "english", rec.handlers()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	finals, _ := rec.snapshot()
	if b.finished != 1 || len(finals) != 1 || finals[0] != "uploaded transcript" {
		t.Fatalf("unexpected finish result %d %v", b.finished, finals)
	}
	if b.stopCount() != 0 {
		t.Fatalf("graceful finish must not hard stop")
	}
}

type failingFinisher struct {
	*fakeBackend
}

func (f *failingFinisher) Finish() error { return errors.New("upload failed") }

func TestFinishErrorStopsBackend(t *testing.T) {
	b := &failingFinisher{fakeBackend: &fakeBackend{permission: true}}
	s := newTestSession(b, time.Second)
	rec := newRecorder()
	if err := s.Start(context.Background(), "english", rec.handlers()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Finish(); err == nil {
		t.Fatalf("expected finish error")
	}
	if b.stopCount() != 1 {
		t.Fatalf("expected backend stopped once, got %d", b.stopCount())
	}
	_, errs := rec.snapshot()
	if len(errs) != 1 || !errorsx.HasReason(errs[0], errorsx.ReasonRecognition) {
		t.Fatalf("expected one recognition error, got %v", errs)
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle, got %s", s.State())
	}
}

func TestFinalDeliveredBeforeIdle(t *testing.T) {
	b := &fakeBackend{permission: true}
	s := newTestSession(b, time.Second)
	var (
		stateAtFinal State
		stateAtDone  State
	)
	done := make(chan struct{})
	err := s.Start(context.Background(), "english", Handlers{
		OnFinal: func(string) { stateAtFinal = s.State() },
		OnDone: func() {
			stateAtDone = s.State()
			close(done)
		},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	b.h().OnFinal("open settings")
	b.h().OnEnd()
	<-done
	if stateAtFinal != StateListening || stateAtDone != StateIdle {
		t.Fatalf("expected LISTENING at final and IDLE at done, got %s and %s", stateAtFinal, stateAtDone)
	}
}
