// Package controller drives one voice turn at a time: listen, interpret,
// act or answer, then speak.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stellaroneai/swara/pkg/capture"
	"github.com/stellaroneai/swara/pkg/command"
	"github.com/stellaroneai/swara/pkg/errorsx"
	"github.com/stellaroneai/swara/pkg/language"
	"github.com/stellaroneai/swara/pkg/logging"
	"github.com/stellaroneai/swara/pkg/metrics"
	"github.com/stellaroneai/swara/pkg/redact"
	"github.com/stellaroneai/swara/pkg/synthesis"
	"github.com/stellaroneai/swara/pkg/turn"
)

// ErrTurnInProgress is returned by HandleTurn when the controller is not idle.
var ErrTurnInProgress = errors.New("controller: turn already in progress")

// Answerer produces a spoken-style answer to a free-form question.
type Answerer interface {
	Answer(ctx context.Context, text string, tag language.Tag) (string, error)
}

// Options wires collaborators into a Controller. Zero values fall back to
// the built-in catalog and interpreter, a log-only sink and no answerer.
type Options struct {
	Catalog     *language.Catalog
	Interpreter *command.Interpreter
	Answerer    Answerer
	Sink        EventSink
	Observer    metrics.Observer
	Logger      *slog.Logger
	Clock       func() time.Time
	Language    language.Tag
}

// Turn is the record of one HandleTurn call.
type Turn struct {
	ID         string
	Language   language.Tag
	Transcript string
	Command    command.Command
	Response   string
	Speech     synthesis.Result
	SinkErr    error // set when the sink rejected the command event
	Started    time.Time
	Ended      time.Time
}

type activeTurn struct {
	id     string
	cancel context.CancelFunc
}

// Controller coordinates a capture session, the interpreter, the answerer
// and a synthesis session. State listeners run synchronously and must not
// call Cancel or HandleTurn.
type Controller struct {
	capture     *capture.Session
	speech      *synthesis.Session
	catalog     *language.Catalog
	interpreter *command.Interpreter
	answerer    Answerer
	sink        EventSink
	observer    metrics.Observer
	log         *slog.Logger
	clock       func() time.Time
	machine     *turn.Machine

	mu        sync.Mutex
	lang      language.Tag
	activated bool
	active    *activeTurn
	// staged state changes awaiting delivery, in the order they were applied
	staged    []turn.Staged
	notifying bool
}

// New creates a controller. Nil sessions are replaced by sessions without a
// backend, so every turn degrades to backend_unavailable instead of panicking.
func New(capt *capture.Session, speech *synthesis.Session, opts Options) *Controller {
	if opts.Catalog == nil {
		opts.Catalog = language.DefaultCatalog()
	}
	if opts.Interpreter == nil {
		opts.Interpreter = command.NewInterpreter()
	}
	if opts.Observer == nil {
		opts.Observer = metrics.NoopObserver{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	log := logging.NewComponentLogger(opts.Logger, "controller")
	if opts.Sink == nil {
		opts.Sink = NewLogSink(opts.Logger)
	}
	if capt == nil {
		capt = capture.NewSession(nil, opts.Catalog, capture.Config{}, opts.Observer, opts.Logger)
	}
	if speech == nil {
		speech = synthesis.NewSession(nil, opts.Catalog, nil, synthesis.Config{Language: opts.Language}, opts.Observer, opts.Logger)
	}
	lang := opts.Catalog.Normalize(opts.Language)
	speech.SetLanguage(lang)
	return &Controller{
		capture:     capt,
		speech:      speech,
		catalog:     opts.Catalog,
		interpreter: opts.Interpreter,
		answerer:    opts.Answerer,
		sink:        opts.Sink,
		observer:    opts.Observer,
		log:         log,
		clock:       opts.Clock,
		machine:     turn.NewMachine(),
		lang:        lang,
	}
}

// Activate speaks the time-of-day greeting on the first call and does
// nothing afterwards. The greeting is bound to ctx and not awaited.
func (c *Controller) Activate(ctx context.Context) {
	c.mu.Lock()
	if c.activated {
		c.mu.Unlock()
		return
	}
	c.activated = true
	lang := c.lang
	c.mu.Unlock()

	greeting := c.catalog.Greeting(lang, c.clock())
	c.log.Info("activate", "language", lang.String())
	ch := c.speech.Submit(ctx, greeting, synthesis.WithLanguage(lang))
	go func() {
		if r := <-ch; r.Err != nil {
			c.log.Warn("greeting_failed", "reason", errorsx.Reason(r.Err), "error", r.Err)
		}
	}()
}

// SetLanguage changes the language of the next turn. A turn already in
// flight keeps the language it started with.
func (c *Controller) SetLanguage(tag language.Tag) {
	tag = c.catalog.Normalize(tag)
	c.mu.Lock()
	c.lang = tag
	c.mu.Unlock()
	c.speech.SetLanguage(tag)
	c.log.Info("language_changed", "language", tag.String(), "locale", c.catalog.Locale(tag))
}

// Language returns the active language tag.
func (c *Controller) Language() language.Tag {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

// State returns the turn state.
func (c *Controller) State() turn.State {
	return c.machine.State()
}

// AddListener registers a turn state listener. Listeners run synchronously
// without the controller lock held, so they may call Language, State and
// Cancel. Changes are delivered in the order they happened; a change made
// while another goroutine is delivering is handed to that goroutine.
func (c *Controller) AddListener(l turn.StateListener) {
	c.machine.AddListener(l)
}

// Cancel aborts the running turn, stops capture and synthesis and returns
// the controller to Idle. It is safe to call from any state, any number of
// times.
func (c *Controller) Cancel() {
	c.mu.Lock()
	at := c.active
	c.active = nil
	c.stageLocked(c.machine.StageReset("cancel"))
	c.flushLocked()

	if at != nil {
		at.cancel()
		c.log.Info("turn_cancelled", "turn_id", at.id)
	}
	c.capture.Stop()
	c.speech.Stop()
}

// HandleTurn runs one full turn. Capture and query failures are returned;
// synthesis failures are logged and reported only through Turn.Speech.
func (c *Controller) HandleTurn(ctx context.Context) (Turn, error) {
	c.mu.Lock()
	begun, err := c.machine.Stage(turn.StateListening, "turn")
	if err != nil {
		c.mu.Unlock()
		return Turn{}, ErrTurnInProgress
	}
	ctx, cancel := context.WithCancel(ctx)
	at := &activeTurn{id: uuid.NewString(), cancel: cancel}
	c.active = at
	lang := c.lang
	c.stageLocked(begun)
	c.flushLocked()
	defer c.release(at)

	t := Turn{ID: at.id, Language: lang, Started: c.clock()}
	tags := map[string]string{metrics.TagTurnID: t.ID, metrics.TagLanguage: lang.String()}
	log := c.log.With("turn_id", t.ID)
	metrics.Record(c.observer, metrics.EventTurnStart, tags, nil)
	log.Info("turn_start", "language", lang.String())

	transcript, err := c.listen(ctx, lang, tags)
	if err != nil {
		if ctx.Err() != nil {
			return c.cancelled(ctx, at, t, tags)
		}
		c.abort(at, "capture_error")
		log.Warn("turn_capture_failed", "reason", errorsx.Reason(err), "error", err)
		return c.end(t, tags, "capture_error"), err
	}
	t.Transcript = transcript
	if !c.step(at, turn.StateThinking, "transcript") {
		return c.cancelled(ctx, at, t, tags)
	}

	var turnErr error
	speak := c.speech.Speak
	if transcript == "" {
		log.Info("turn_not_understood")
		t.Response = c.catalog.Phrase(lang, language.PhraseNotUnderstood)
	} else {
		t.Command = c.interpreter.Interpret(transcript, lang)
		metrics.Record(c.observer, metrics.EventCommand, tags, map[string]any{
			"kind":   t.Command.Kind.String(),
			"target": t.Command.Target,
		})
		log.Info("turn_command",
			"kind", t.Command.Kind.String(),
			"target", t.Command.Target,
			"transcript", redact.Text(transcript),
		)
		switch t.Command.Kind {
		case command.KindEmergency:
			t.SinkErr = c.emit(ctx, t, log)
			t.Response = c.catalog.Phrase(lang, language.PhraseConfirmEmergency)
			speak = c.speech.SpeakEmergency
		case command.KindNavigate:
			t.SinkErr = c.emit(ctx, t, log)
			t.Response = c.catalog.Phrasef(lang, language.PhraseConfirmNavigate, map[string]string{
				"target": c.catalog.Target(lang, t.Command.Target),
			})
		default:
			t.Response, turnErr = c.answer(ctx, transcript, lang, tags)
			if turnErr != nil && ctx.Err() != nil {
				return c.cancelled(ctx, at, t, tags)
			}
		}
	}

	if !c.step(at, turn.StateSpeaking, "respond") {
		return c.cancelled(ctx, at, t, tags)
	}
	t.Speech = speak(ctx, t.Response, synthesis.WithLanguage(lang), synthesis.WithTags(tags))
	if t.Speech.Outcome == synthesis.OutcomeCancelled && ctx.Err() != nil {
		return c.cancelled(ctx, at, t, tags)
	}
	if err := t.Speech.AsError(); err != nil {
		log.Warn("turn_speech_failed", "outcome", t.Speech.Outcome.String(), "reason", errorsx.Reason(err), "error", err)
	}
	if !c.step(at, turn.StateIdle, "spoken") {
		return c.cancelled(ctx, at, t, tags)
	}

	outcome := "completed"
	if turnErr != nil {
		outcome = "query_error"
	}
	return c.end(t, tags, outcome), turnErr
}

// listen runs one capture request and waits until it is done. A request that
// ends without hearing anything yields an empty transcript.
func (c *Controller) listen(ctx context.Context, lang language.Tag, tags map[string]string) (string, error) {
	var (
		final   string
		failure error
	)
	done := make(chan struct{})
	err := c.capture.Start(ctx, lang, capture.Handlers{
		OnFinal: func(text string) { final = text },
		OnError: func(err error) { failure = err },
		OnDone:  func() { close(done) },
	}, capture.WithTags(tags))
	if err != nil {
		return "", err
	}
	select {
	case <-done:
		return final, failure
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Controller) emit(ctx context.Context, t Turn, log *slog.Logger) error {
	ev := Event{
		Kind:       t.Command.Kind,
		Target:     t.Command.Target,
		Language:   t.Language,
		Transcript: t.Transcript,
		TurnID:     t.ID,
		At:         c.clock(),
	}
	if err := c.sink.Emit(ctx, ev); err != nil {
		log.Warn("turn_emit_failed", "kind", ev.Kind.String(), "target", ev.Target, "error", err)
		return err
	}
	return nil
}

// answer asks the answerer and falls back to the localized apology.
func (c *Controller) answer(ctx context.Context, text string, lang language.Tag, tags map[string]string) (string, error) {
	if c.answerer == nil {
		err := errorsx.New(errorsx.ReasonQuery, "controller: no answerer configured")
		metrics.Record(c.observer, metrics.EventAnswerReady, tags, map[string]any{"ok": false})
		return c.catalog.Phrase(lang, language.PhraseAnswerUnavailable), err
	}
	started := c.clock()
	reply, err := c.answerer.Answer(ctx, text, lang)
	metrics.Record(c.observer, metrics.EventAnswerReady, tags, map[string]any{
		"ok":         err == nil,
		"latency_ms": c.clock().Sub(started).Milliseconds(),
	})
	if err != nil {
		c.log.Warn("turn_query_failed", "turn_id", tags[metrics.TagTurnID], "reason", errorsx.Reason(err), "error", err)
		return c.catalog.Phrase(lang, language.PhraseAnswerUnavailable), errorsx.Wrap(fmt.Errorf("controller: answer: %w", err), errorsx.ReasonQuery)
	}
	return reply, nil
}

// step advances the machine only while at is still the running turn.
func (c *Controller) step(at *activeTurn, state turn.State, reason string) bool {
	c.mu.Lock()
	if c.active != at {
		c.mu.Unlock()
		return false
	}
	staged, err := c.machine.Stage(state, reason)
	if err != nil {
		c.mu.Unlock()
		c.log.Error("turn_transition_failed", "turn_id", at.id, "error", err)
		return false
	}
	c.stageLocked(staged)
	c.flushLocked()
	return true
}

// abort returns the machine to Idle after a failure of the running turn.
func (c *Controller) abort(at *activeTurn, reason string) {
	c.mu.Lock()
	if c.active == at {
		c.stageLocked(c.machine.StageReset(reason))
	}
	c.flushLocked()
}

func (c *Controller) stageLocked(s turn.Staged) {
	c.staged = append(c.staged, s)
}

// flushLocked delivers staged changes with c.mu released around each
// listener call. It must be called with c.mu held and returns with it
// unlocked. Only one goroutine delivers at a time; others leave their
// changes in the queue for it.
func (c *Controller) flushLocked() {
	if c.notifying {
		c.mu.Unlock()
		return
	}
	c.notifying = true
	for len(c.staged) > 0 {
		next := c.staged[0]
		c.staged = c.staged[1:]
		c.mu.Unlock()
		next.Notify()
		c.mu.Lock()
	}
	c.staged = nil
	c.notifying = false
	c.mu.Unlock()
}

func (c *Controller) release(at *activeTurn) {
	at.cancel()
	c.mu.Lock()
	if c.active == at {
		c.active = nil
	}
	c.mu.Unlock()
}

// cancelled ends a turn whose context is done or that Cancel took over.
func (c *Controller) cancelled(ctx context.Context, at *activeTurn, t Turn, tags map[string]string) (Turn, error) {
	c.abort(at, "cancelled")
	err := ctx.Err()
	if err == nil {
		err = context.Canceled
	}
	return c.end(t, tags, "cancelled"), fmt.Errorf("controller: turn %s: %w", t.ID, err)
}

func (c *Controller) end(t Turn, tags map[string]string, outcome string) Turn {
	t.Ended = c.clock()
	endTags := make(map[string]string, len(tags)+1)
	for k, v := range tags {
		endTags[k] = v
	}
	endTags[metrics.TagOutcome] = outcome
	metrics.Record(c.observer, metrics.EventTurnEnd, endTags, map[string]any{
		"duration_ms": t.Ended.Sub(t.Started).Milliseconds(),
	})
	c.log.Info("turn_end", "turn_id", t.ID, "outcome", outcome)
	return t
}
