// Package capture owns the single active listening attempt of an engine.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stellaroneai/swara/pkg/adapters/stt"
	"github.com/stellaroneai/swara/pkg/errorsx"
	"github.com/stellaroneai/swara/pkg/language"
	"github.com/stellaroneai/swara/pkg/logging"
	"github.com/stellaroneai/swara/pkg/metrics"
	"github.com/stellaroneai/swara/pkg/redact"
)

// DefaultCap bounds a listening attempt that never gets a terminal event.
const DefaultCap = 30 * time.Second

var (
	ErrCaptureActive      = errors.New("capture: session already listening")
	ErrPermissionDenied   = errorsx.New(errorsx.ReasonPermissionDenied, "capture: microphone permission denied")
	ErrBackendUnavailable = errorsx.New(errorsx.ReasonBackendUnavailable, "capture: recognition backend unavailable")
)

type State int

const (
	StateIdle State = iota
	StateListening
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateListening:
		return "LISTENING"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Handlers receive the outcome of one capture request. OnFinal fires at most
// once, while the session still reports Listening; OnError replaces it when
// recognition fails and sees the Error state. OnDone always fires last, after
// the session is back to Idle.
type Handlers struct {
	OnPartial func(text string)
	OnFinal   func(text string)
	OnError   func(err error)
	OnDone    func()
}

// Request is one listening attempt. The locale is fixed when it starts.
type Request struct {
	ID       string
	Language language.Tag
	Locale   string
	Handlers Handlers
	Tags     map[string]string
}

// StartOption customizes one Request.
type StartOption func(*Request)

// WithTags adds tags to the metrics events of the request.
func WithTags(tags map[string]string) StartOption {
	return func(r *Request) {
		if r.Tags == nil {
			r.Tags = make(map[string]string, len(tags))
		}
		for k, v := range tags {
			r.Tags[k] = v
		}
	}
}

type Config struct {
	Cap time.Duration
}

// Session runs at most one Request at a time.
type Session struct {
	backend  stt.Backend
	catalog  *language.Catalog
	observer metrics.Observer
	log      *slog.Logger
	cap      time.Duration

	mu      sync.Mutex
	state   State
	current *request
}

// NewSession creates a capture session over backend.
func NewSession(backend stt.Backend, catalog *language.Catalog, cfg Config, observer metrics.Observer, log *slog.Logger) *Session {
	if catalog == nil {
		catalog = language.DefaultCatalog()
	}
	if observer == nil {
		observer = metrics.NoopObserver{}
	}
	if cfg.Cap <= 0 {
		cfg.Cap = DefaultCap
	}
	return &Session{
		backend:  backend,
		catalog:  catalog,
		observer: observer,
		log:      logging.NewComponentLogger(log, "capture"),
		cap:      cfg.Cap,
	}
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsActive reports whether the session is listening.
func (s *Session) IsActive() bool {
	return s.State() == StateListening
}

// Active returns the live request, if any.
func (s *Session) Active() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Request{}, false
	}
	return s.current.Request, true
}

// Start asks for microphone permission and begins recognition in the locale
// of tag. It returns once the backend is listening; results arrive on h.
func (s *Session) Start(ctx context.Context, tag language.Tag, h Handlers, opts ...StartOption) error {
	if s.backend == nil {
		s.log.Warn("capture_unavailable", "reason", errorsx.ReasonBackendUnavailable)
		return ErrBackendUnavailable
	}
	tag = s.catalog.Normalize(tag)
	req := &request{Request: Request{
		ID:       uuid.NewString(),
		Language: tag,
		Locale:   s.catalog.Locale(tag),
		Handlers: h,
	}}
	for _, opt := range opts {
		opt(&req.Request)
	}

	s.mu.Lock()
	if s.state == StateListening {
		s.mu.Unlock()
		return ErrCaptureActive
	}
	s.state = StateListening
	s.current = req
	s.mu.Unlock()

	granted, err := s.backend.RequestPermission(ctx)
	if err != nil || !granted {
		s.abandon(req)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.log.Warn("capture_permission_failed", "error", err)
			return errorsx.Wrap(fmt.Errorf("capture: request permission: %w", err), errorsx.ReasonPermissionDenied)
		}
		if err != nil {
			return err
		}
		s.log.Warn("capture_permission_denied", "reason", errorsx.ReasonPermissionDenied)
		return ErrPermissionDenied
	}
	if !s.owns(req) {
		return context.Canceled
	}

	err = s.backend.Start(ctx, req.Locale, stt.Handlers{
		OnPartial: func(text string) { s.onPartial(req, text) },
		OnFinal:   func(text string) { s.onFinal(req, text) },
		OnError:   func(err error) { s.onError(req, err) },
		OnEnd:     func() { s.finish(req, endNatural, nil) },
	})
	if err != nil {
		s.abandon(req)
		return errorsx.Wrap(fmt.Errorf("capture: start %s: %w", s.backend.Name(), err), errorsx.ReasonBackendUnavailable)
	}

	req.arm(time.AfterFunc(s.cap, func() { s.expire(req) }), context.AfterFunc(ctx, func() { s.halt(req) }))
	s.log.Info("capture_started", "capture_id", req.ID, "locale", req.Locale, "backend", s.backend.Name(), "cap_ms", s.cap.Milliseconds())
	return nil
}

// Stop ends the active request immediately. OnFinal fires only if something
// was heard.
func (s *Session) Stop() {
	if req := s.live(); req != nil {
		s.halt(req)
	}
}

// Finish asks the backend to stop taking input and deliver its transcript.
// Backends without a graceful finish are stopped.
func (s *Session) Finish() error {
	req := s.live()
	if req == nil {
		return nil
	}
	f, ok := s.backend.(stt.Finisher)
	if !ok {
		s.halt(req)
		return nil
	}
	if err := f.Finish(); err != nil {
		if s.finish(req, endError, errorsx.Wrap(fmt.Errorf("capture: finish: %w", err), errorsx.ReasonRecognition)) {
			if serr := s.backend.Stop(); serr != nil {
				s.log.Warn("capture_backend_stop_failed", "capture_id", req.ID, "error", serr)
			}
		}
		return err
	}
	return nil
}

type endKind int

const (
	endNatural endKind = iota
	endStopped
	endError
)

func (s *Session) onPartial(req *request, text string) {
	if !req.partial(text) {
		return
	}
	metrics.Record(s.observer, metrics.EventCapturePart, req.tags(), nil)
	if req.Handlers.OnPartial != nil {
		req.Handlers.OnPartial(text)
	}
}

func (s *Session) onFinal(req *request, text string) {
	req.final(text)
}

func (s *Session) onError(req *request, err error) {
	if errors.Is(err, stt.ErrNoSpeech) {
		s.finish(req, endNatural, nil)
		return
	}
	s.finish(req, endError, errorsx.Wrap(fmt.Errorf("capture: recognition: %w", err), errorsx.ReasonRecognition))
}

// halt is the shared path for Stop, cap expiry and context cancellation.
func (s *Session) halt(req *request) {
	if s.finish(req, endStopped, nil) {
		if err := s.backend.Stop(); err != nil {
			s.log.Warn("capture_backend_stop_failed", "capture_id", req.ID, "error", err)
		}
	}
}

func (s *Session) expire(req *request) {
	if !s.owns(req) {
		return
	}
	s.log.Warn("capture_timeout", "capture_id", req.ID, "reason", errorsx.ReasonCaptureTimeout, "cap_ms", s.cap.Milliseconds())
	s.halt(req)
}

// finish resolves req once and delivers the terminal handler while the
// session still reports Listening (or Error). The session is Idle before
// OnDone runs.
func (s *Session) finish(req *request, kind endKind, err error) bool {
	best, heard, ok := req.close()
	if !ok {
		return false
	}
	if req.Handlers.OnDone != nil {
		defer req.Handlers.OnDone()
	}
	defer s.release(req)

	switch {
	case kind == endError:
		s.mu.Lock()
		if s.current == req {
			s.state = StateError
		}
		s.mu.Unlock()
		s.log.Warn("capture_error", "capture_id", req.ID, "reason", errorsx.Reason(err), "error", err)
		if req.Handlers.OnError != nil {
			req.Handlers.OnError(err)
		}
	case kind == endStopped && !heard:
		s.log.Info("capture_stopped", "capture_id", req.ID, "heard", false)
	default:
		s.log.Info("capture_final", "capture_id", req.ID, "text", redact.Text(best))
		metrics.Record(s.observer, metrics.EventCaptureFinal, req.tags(), map[string]any{"chars": len(best)})
		if req.Handlers.OnFinal != nil {
			req.Handlers.OnFinal(best)
		}
	}
	return true
}

// release returns the session to Idle if req still holds it.
func (s *Session) release(req *request) {
	s.mu.Lock()
	if s.current == req {
		s.current = nil
		s.state = StateIdle
	}
	s.mu.Unlock()
}

// abandon releases a request that never reached the backend.
func (s *Session) abandon(req *request) {
	req.close()
	s.release(req)
}

func (s *Session) live() *request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) owns(req *request) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current == req
}

// request tracks transcripts of one Request until it is closed.
type request struct {
	Request

	mu          sync.Mutex
	closed      bool
	segments    []string
	lastPartial string
	capTimer    *time.Timer
	stopCtx     func() bool
}

func (r *request) arm(capTimer *time.Timer, stopCtx func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		capTimer.Stop()
		stopCtx()
		return
	}
	r.capTimer = capTimer
	r.stopCtx = stopCtx
}

func (r *request) partial(text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.lastPartial = strings.TrimSpace(text)
	return true
}

func (r *request) final(text string) {
	text = strings.TrimSpace(text)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || text == "" {
		return
	}
	r.segments = append(r.segments, text)
	r.lastPartial = ""
}

func (r *request) tags() map[string]string {
	out := make(map[string]string, len(r.Tags)+2)
	for k, v := range r.Tags {
		out[k] = v
	}
	out[metrics.TagCaptureID] = r.ID
	out[metrics.TagLanguage] = r.Language.String()
	return out
}

// close latches the request and returns the best transcript.
func (r *request) close() (best string, heard bool, ok bool) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return "", false, false
	}
	r.closed = true
	if len(r.segments) > 0 {
		best = strings.Join(r.segments, " ")
	} else {
		best = r.lastPartial
	}
	timer, stopCtx := r.capTimer, r.stopCtx
	r.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if stopCtx != nil {
		stopCtx()
	}
	return best, best != "", true
}
