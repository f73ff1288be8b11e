// Package synthesis owns the single active spoken utterance of an engine.
package synthesis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/stellaroneai/swara/pkg/adapters/tts"
	"github.com/stellaroneai/swara/pkg/errorsx"
	"github.com/stellaroneai/swara/pkg/language"
	"github.com/stellaroneai/swara/pkg/logging"
	"github.com/stellaroneai/swara/pkg/metrics"
	"github.com/stellaroneai/swara/pkg/redact"
	"github.com/stellaroneai/swara/pkg/voice"
)

const (
	DefaultStartGuardFloor   = 5 * time.Second
	DefaultStartGuardPerChar = 100 * time.Millisecond
)

// Outcome is how an utterance ended.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeFailed
	OutcomeTimedOut
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result resolves an utterance. Err is set for Failed and TimedOut.
type Result struct {
	UtteranceID string
	Outcome     Outcome
	Err         error
}

// Utterance is one synthesis unit.
type Utterance struct {
	ID      string
	Text    string
	Profile language.Profile
	Voice   *voice.Candidate
}

// Config tunes a Session.
type Config struct {
	StartGuardFloor   time.Duration
	StartGuardPerChar time.Duration
	Language          language.Tag
}

// Session serializes playback to one utterance at a time. Submitting a new
// utterance hard-cancels the previous one.
type Session struct {
	backend  tts.Backend
	catalog  *language.Catalog
	resolver *voice.Resolver
	observer metrics.Observer
	log      *slog.Logger

	guardFloor   time.Duration
	guardPerChar time.Duration

	mu      sync.Mutex
	lang    language.Tag
	voices  []voice.Candidate
	current *pending

	// backendMu keeps Stop and Speak calls on the backend in submission order.
	backendMu sync.Mutex
}

// NewSession creates a synthesis session. A nil backend yields a session
// whose utterances fail with backend_unavailable.
func NewSession(backend tts.Backend, catalog *language.Catalog, resolver *voice.Resolver, cfg Config, observer metrics.Observer, log *slog.Logger) *Session {
	if catalog == nil {
		catalog = language.DefaultCatalog()
	}
	if resolver == nil {
		resolver = voice.NewResolver(catalog)
	}
	if observer == nil {
		observer = metrics.NoopObserver{}
	}
	if cfg.StartGuardFloor <= 0 {
		cfg.StartGuardFloor = DefaultStartGuardFloor
	}
	if cfg.StartGuardPerChar <= 0 {
		cfg.StartGuardPerChar = DefaultStartGuardPerChar
	}
	return &Session{
		backend:      backend,
		catalog:      catalog,
		resolver:     resolver,
		observer:     observer,
		log:          logging.NewComponentLogger(log, "synthesis"),
		guardFloor:   cfg.StartGuardFloor,
		guardPerChar: cfg.StartGuardPerChar,
		lang:         catalog.Normalize(cfg.Language),
	}
}

// Option overrides profile values for one utterance.
type Option func(*options)

type options struct {
	lang       language.Tag
	rate       *float64
	pitch      *float64
	volume     *float64
	rateScale  float64
	pitchScale float64
	tags       map[string]string
}

// WithRate sets an absolute speech rate.
func WithRate(v float64) Option { return func(o *options) { o.rate = &v } }

// WithPitch sets an absolute pitch.
func WithPitch(v float64) Option { return func(o *options) { o.pitch = &v } }

// WithVolume sets an absolute volume.
func WithVolume(v float64) Option { return func(o *options) { o.volume = &v } }

// WithLanguage speaks one utterance in another language.
func WithLanguage(t language.Tag) Option { return func(o *options) { o.lang = t } }

// WithTags adds tags to the metrics events of the utterance.
func WithTags(tags map[string]string) Option {
	return func(o *options) {
		if o.tags == nil {
			o.tags = make(map[string]string, len(tags))
		}
		for k, v := range tags {
			o.tags[k] = v
		}
	}
}

// withScale multiplies the profile rate and pitch.
func withScale(rate, pitch float64) Option {
	return func(o *options) {
		o.rateScale = rate
		o.pitchScale = pitch
	}
}

// SetLanguage changes the language of subsequent utterances.
func (s *Session) SetLanguage(tag language.Tag) {
	s.mu.Lock()
	s.lang = s.catalog.Normalize(tag)
	s.mu.Unlock()
}

// Language returns the session language.
func (s *Session) Language() language.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// SetVoices replaces the cached voice candidates.
func (s *Session) SetVoices(list []voice.Candidate) {
	cp := make([]voice.Candidate, len(list))
	copy(cp, list)
	s.mu.Lock()
	s.voices = cp
	s.mu.Unlock()
}

// Voices returns the cached voice candidates.
func (s *Session) Voices() []voice.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]voice.Candidate, len(s.voices))
	copy(out, s.voices)
	return out
}

// LoadVoices fetches the candidate list from the backend.
func (s *Session) LoadVoices(ctx context.Context) error {
	if s.backend == nil {
		return errorsx.New(errorsx.ReasonBackendUnavailable, "synthesis: no backend")
	}
	list, err := s.backend.Voices(ctx)
	if err != nil {
		return errorsx.Wrap(fmt.Errorf("synthesis: list voices: %w", err), errorsx.ReasonBackendUnavailable)
	}
	s.SetVoices(list)
	s.log.Debug("voices_loaded", "backend", s.backend.Name(), "count", len(list))
	return nil
}

// RefreshVoices reloads the candidate list in the background.
func (s *Session) RefreshVoices(ctx context.Context) {
	go func() {
		if err := s.LoadVoices(ctx); err != nil {
			s.log.Warn("voices_refresh_failed", "error", err)
		}
	}()
}

// Speak submits text and waits for its outcome.
func (s *Session) Speak(ctx context.Context, text string, opts ...Option) Result {
	return <-s.Submit(ctx, text, opts...)
}

// SpeakMedical speaks slower and slightly lower for clinical terms.
func (s *Session) SpeakMedical(ctx context.Context, text string, opts ...Option) Result {
	return s.Speak(ctx, text, append([]Option{withScale(0.8, 0.95)}, opts...)...)
}

// SpeakEmergency speaks faster, higher and at full volume.
func (s *Session) SpeakEmergency(ctx context.Context, text string, opts ...Option) Result {
	return s.Speak(ctx, text, append([]Option{withScale(1.2, 1.1), WithVolume(language.MaxVolume)}, opts...)...)
}

// Submit cancels the current utterance and starts text. The returned channel
// yields exactly one Result.
func (s *Session) Submit(ctx context.Context, text string, opts ...Option) <-chan Result {
	id := uuid.NewString()
	if strings.TrimSpace(text) == "" {
		return resolved(Result{UtteranceID: id, Outcome: OutcomeCompleted})
	}
	o := options{rateScale: 1, pitchScale: 1}
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	tag := s.lang
	if o.lang != "" {
		tag = s.catalog.Normalize(o.lang)
	}
	utt := Utterance{
		ID:      id,
		Text:    text,
		Profile: s.profileFor(tag, o),
		Voice:   s.resolver.Resolve(tag, s.voices),
	}
	p := newPending(utt, o.tags)
	prev := s.current
	s.current = p
	s.mu.Unlock()

	s.backendMu.Lock()
	defer s.backendMu.Unlock()

	if prev != nil {
		s.settle(prev, OutcomeCancelled, nil)
		if s.backend != nil {
			s.backend.Stop()
		}
	}
	if s.backend == nil {
		s.settle(p, OutcomeFailed, errorsx.New(errorsx.ReasonBackendUnavailable, "synthesis: no backend"))
		return p.result
	}
	if !s.isCurrent(p) {
		// superseded while waiting for the backend
		s.settle(p, OutcomeCancelled, nil)
		return p.result
	}
	if utt.Voice == nil {
		s.log.Info("voice_default", "reason", errorsx.ReasonNoVoiceMatch, "locale", utt.Profile.Locale)
	}

	guard := s.startGuard(text)
	p.armGuard(guard, func() { s.onGuardExpired(p) })
	p.bindContext(ctx, func() { s.cancel(p) })

	s.log.Debug("speak",
		"utterance_id", utt.ID,
		"locale", utt.Profile.Locale,
		"rate", utt.Profile.Rate,
		"pitch", utt.Profile.Pitch,
		"text", redact.Text(text),
		"start_guard_ms", guard.Milliseconds(),
	)

	req := tts.Request{
		ID:     utt.ID,
		Text:   utt.Text,
		Locale: utt.Profile.Locale,
		Rate:   utt.Profile.Rate,
		Pitch:  utt.Profile.Pitch,
		Volume: utt.Profile.Volume,
	}
	if utt.Voice != nil {
		req.VoiceID = utt.Voice.ID
	}
	err := s.backend.Speak(ctx, req, tts.Events{
		OnStart: func() { s.onStart(p) },
		OnEnd:   func() { s.settle(p, OutcomeCompleted, nil) },
		OnError: func(err error) {
			s.settle(p, OutcomeFailed, errorsx.Wrap(err, errorsx.ReasonSynthesis))
		},
	})
	if err != nil {
		s.settle(p, OutcomeFailed, errorsx.Wrap(fmt.Errorf("synthesis: speak: %w", err), errorsx.ReasonSynthesis))
	}
	return p.result
}

// Stop cancels the current utterance, if any.
func (s *Session) Stop() {
	s.mu.Lock()
	p := s.current
	s.mu.Unlock()
	if p != nil {
		s.cancel(p)
	}
}

// Pause suspends the current utterance.
func (s *Session) Pause() error {
	if s.backend == nil {
		return errorsx.New(errorsx.ReasonBackendUnavailable, "synthesis: no backend")
	}
	if !s.IsSpeaking() {
		return nil
	}
	return s.backend.Pause()
}

// Resume continues a paused utterance.
func (s *Session) Resume() error {
	if s.backend == nil {
		return errorsx.New(errorsx.ReasonBackendUnavailable, "synthesis: no backend")
	}
	if !s.IsSpeaking() {
		return nil
	}
	return s.backend.Resume()
}

// IsSpeaking reports whether an utterance is alive.
func (s *Session) IsSpeaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// startGuard is how long the backend may take to begin playback.
func (s *Session) startGuard(text string) time.Duration {
	d := time.Duration(utf8.RuneCountInString(text)) * s.guardPerChar
	if d < s.guardFloor {
		return s.guardFloor
	}
	return d
}

func (s *Session) profileFor(tag language.Tag, o options) language.Profile {
	p := s.catalog.Profile(tag)
	p.Rate *= o.rateScale
	p.Pitch *= o.pitchScale
	if o.rate != nil {
		p.Rate = *o.rate
	}
	if o.pitch != nil {
		p.Pitch = *o.pitch
	}
	if o.volume != nil {
		p.Volume = *o.volume
	}
	return p.Clamped()
}

func (s *Session) isCurrent(p *pending) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current == p
}

func (s *Session) onStart(p *pending) {
	if !p.markStarted() {
		return
	}
	tags := p.eventTags()
	tags[metrics.TagBackend] = s.backend.Name()
	metrics.Record(s.observer, metrics.EventSpeechStart, tags, map[string]any{
		"chars": utf8.RuneCountInString(p.utt.Text),
	})
}

func (s *Session) onGuardExpired(p *pending) {
	if p.isStarted() {
		return
	}
	s.backendMu.Lock()
	if s.isCurrent(p) {
		s.backend.Stop()
	}
	s.backendMu.Unlock()
	s.settle(p, OutcomeTimedOut, errorsx.New(errorsx.ReasonStartTimeout, "synthesis: backend did not start playback"))
}

// cancel is the shared termination path for Stop and context cancellation.
// The backend is stopped only while p still owns it; once p is superseded the
// newer Submit has already stopped it and a late Stop would cut off its
// successor.
func (s *Session) cancel(p *pending) {
	if s.backend != nil {
		s.backendMu.Lock()
		if s.isCurrent(p) {
			s.backend.Stop()
		}
		s.backendMu.Unlock()
	}
	s.settle(p, OutcomeCancelled, nil)
}

// settle resolves p once and releases the session slot if p still holds it.
func (s *Session) settle(p *pending, outcome Outcome, err error) bool {
	if !p.resolve(Result{UtteranceID: p.utt.ID, Outcome: outcome, Err: err}) {
		return false
	}
	s.mu.Lock()
	if s.current == p {
		s.current = nil
	}
	s.mu.Unlock()

	switch {
	case err != nil:
		s.log.Warn("speak_failed", "utterance_id", p.utt.ID, "outcome", outcome.String(), "reason", errorsx.Reason(err), "error", err)
	default:
		s.log.Debug("speak_done", "utterance_id", p.utt.ID, "outcome", outcome.String())
	}
	if p.isStarted() || outcome != OutcomeCancelled {
		tags := p.eventTags()
		tags[metrics.TagOutcome] = outcome.String()
		metrics.Record(s.observer, metrics.EventSpeechEnd, tags, nil)
	}
	return true
}

// ErrCancelled is never returned by Speak; hosts can use it to translate a
// Cancelled outcome into an error.
var ErrCancelled = errors.New("synthesis: utterance cancelled")

// AsError converts a Result into an error, or nil on completion.
func (r Result) AsError() error {
	switch r.Outcome {
	case OutcomeCompleted:
		return nil
	case OutcomeCancelled:
		return ErrCancelled
	default:
		if r.Err != nil {
			return r.Err
		}
		return errorsx.New(errorsx.ReasonSynthesis, "synthesis: "+r.Outcome.String())
	}
}

func resolved(r Result) <-chan Result {
	ch := make(chan Result, 1)
	ch <- r
	close(ch)
	return ch
}
