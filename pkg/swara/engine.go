// Package swara wires configuration, providers and the voice interaction
// controller into one engine.
package swara

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/stellaroneai/swara/pkg/adapters/stt"
	"github.com/stellaroneai/swara/pkg/adapters/tts"
	"github.com/stellaroneai/swara/pkg/audio"
	"github.com/stellaroneai/swara/pkg/capture"
	"github.com/stellaroneai/swara/pkg/command"
	"github.com/stellaroneai/swara/pkg/configutil"
	"github.com/stellaroneai/swara/pkg/controller"
	"github.com/stellaroneai/swara/pkg/errorsx"
	"github.com/stellaroneai/swara/pkg/language"
	"github.com/stellaroneai/swara/pkg/llm"
	"github.com/stellaroneai/swara/pkg/logging"
	"github.com/stellaroneai/swara/pkg/metrics"
	"github.com/stellaroneai/swara/pkg/observers"
	"github.com/stellaroneai/swara/pkg/redact"
	"github.com/stellaroneai/swara/pkg/resilience"
	"github.com/stellaroneai/swara/pkg/synthesis"
	"github.com/stellaroneai/swara/pkg/transports/twilio"
	"github.com/stellaroneai/swara/pkg/turn"
	"github.com/stellaroneai/swara/pkg/voice"
)

type Engine struct {
	cfg        Config
	catalog    *language.Catalog
	capture    *capture.Session
	speech     *synthesis.Session
	controller *controller.Controller
	asyncObs   *metrics.AsyncObserver
	latency    *observers.LatencyObserver
	usage      *observers.UsageObserver
	timeline   *observers.TimelineObserver
	log        *slog.Logger
}

type EngineOptions struct {
	Config    Config
	Providers *ProviderRegistry
	// Sink receives navigate and emergency events alongside the log sink
	// and the configured emergency dialer.
	Sink        controller.EventSink
	Catalog     *language.Catalog
	Interpreter *command.Interpreter
	Logger      *slog.Logger
	Clock       func() time.Time
	// Backends bypass the registry when set.
	STT stt.Backend
	TTS tts.Backend
	LLM llm.Adapter
}

func NewEngine(opts EngineOptions) (*Engine, error) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = SetDefaultLogger(cfg.LogLevel, cfg.LogFormat)
	}
	redact.SetEnabled(cfg.Privacy.RedactPII)

	log.Info("swara_init",
		"environment", cfg.Environment,
		"stt_provider", cfg.Vendors.STT.Provider,
		"tts_provider", cfg.Vendors.TTS.Provider,
		"llm_provider", cfg.Vendors.LLM.Provider,
		"emergency", cfg.Emergency.Provider,
		"language", cfg.Languages.Default,
	)

	catalog := buildCatalog(opts.Catalog, cfg.Languages)
	interpreter, err := buildInterpreter(opts.Interpreter, cfg.Commands, cfg.Replacements)
	if err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg, catalog: catalog, log: log}
	observer := e.buildObservers()

	providers := opts.Providers
	if providers == nil {
		providers = DefaultProviderRegistry()
	}
	env := Env{Format: audio.Format{SampleRate: cfg.Audio.SampleRate, Channels: cfg.Audio.Channels}, Logger: log}

	sttBackend := opts.STT
	if sttBackend == nil {
		if sttBackend, err = providers.BuildSTT(cfg.Vendors.STT, env); err != nil {
			return nil, fmt.Errorf("stt: %w", err)
		}
	}
	ttsBackend := opts.TTS
	if ttsBackend == nil {
		if ttsBackend, err = providers.BuildTTS(cfg.Vendors.TTS, env); err != nil {
			return nil, fmt.Errorf("tts: %w", err)
		}
	}
	adapter := opts.LLM
	if adapter == nil {
		if adapter, err = providers.BuildLLM(cfg.Vendors.LLM, env); err != nil {
			return nil, fmt.Errorf("llm: %w", err)
		}
	}

	e.capture = capture.NewSession(sttBackend, catalog, capture.Config{
		Cap: time.Duration(cfg.Capture.MaxDurationMS) * time.Millisecond,
	}, observer, log)

	var resolverOpts []voice.Option
	if len(cfg.Synthesis.LowQualityMarkers) > 0 {
		resolverOpts = append(resolverOpts, voice.WithLowQualityMarkers(cfg.Synthesis.LowQualityMarkers...))
	}
	e.speech = synthesis.NewSession(ttsBackend, catalog, voice.NewResolver(catalog, resolverOpts...), synthesis.Config{
		StartGuardFloor:   time.Duration(cfg.Synthesis.StartGuardFloorMS) * time.Millisecond,
		StartGuardPerChar: time.Duration(cfg.Synthesis.StartGuardPerCharMS) * time.Millisecond,
		Language:          catalog.Default(),
	}, observer, log)

	sink, err := e.buildSink(opts.Sink)
	if err != nil {
		return nil, err
	}

	e.controller = controller.New(e.capture, e.speech, controller.Options{
		Catalog:     catalog,
		Interpreter: interpreter,
		Answerer:    e.buildAnswerer(adapter, catalog, observer),
		Sink:        sink,
		Observer:    observer,
		Logger:      log,
		Clock:       opts.Clock,
		Language:    catalog.Default(),
	})
	return e, nil
}

// SetDefaultLogger installs and returns the process-wide logger.
func SetDefaultLogger(level, format string) *slog.Logger {
	l := logging.InitLogger(logging.ParseLevel(level), format)
	slog.SetDefault(l)
	return l
}

func buildCatalog(base *language.Catalog, cfg LanguageConfig) *language.Catalog {
	if base == nil {
		base = language.DefaultCatalog()
	}
	if len(cfg.Phrases) > 0 {
		overrides := make(map[language.Tag]map[string]string, len(cfg.Phrases))
		for tag, phrases := range cfg.Phrases {
			overrides[language.Tag(tag)] = phrases
		}
		base = base.WithPhrases(overrides)
	}
	if strings.TrimSpace(cfg.Default) != "" {
		base = base.WithDefault(language.Tag(cfg.Default))
	}
	return base
}

func buildInterpreter(base *command.Interpreter, rules map[string][]Rule, replacements map[string]string) (*command.Interpreter, error) {
	if base == nil {
		base = command.NewInterpreter()
	}
	for tag, list := range rules {
		table := make(command.Table, 0, len(list))
		for _, r := range list {
			kind, err := parseKind(r.Kind)
			if err != nil {
				return nil, errorsx.Errorf(errorsx.ReasonConfig, "commands.%s: %w", tag, err)
			}
			table = append(table, command.Rule{Kind: kind, Target: r.Target, Keywords: r.Keywords})
		}
		base = base.WithRules(language.Tag(tag), table)
	}
	if len(replacements) > 0 {
		base = base.WithReplacements(replacements)
	}
	return base, nil
}

func parseKind(s string) (command.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "navigate":
		return command.KindNavigate, nil
	case "emergency":
		return command.KindEmergency, nil
	default:
		return command.KindQuery, fmt.Errorf("unknown command kind %q", s)
	}
}

func (e *Engine) buildObservers() metrics.Observer {
	obs := e.cfg.Observability
	e.latency = observers.NewLatencyObserver(e.log)
	list := []metrics.Observer{e.latency, observers.NewLoggerObserver(e.log)}
	if dir := strings.TrimSpace(obs.ArtifactsDir); dir != "" {
		if obs.RetentionDays > 0 {
			n, err := observers.PurgeArtifacts(dir, time.Duration(obs.RetentionDays)*24*time.Hour)
			if err != nil {
				e.log.Warn("artifact_purge_failed", "dir", dir, "error", err)
			} else if n > 0 {
				e.log.Info("artifacts_purged", "dir", dir, "count", n)
			}
		}
		e.timeline = observers.NewTimelineObserver(dir)
		e.usage = observers.NewUsageObserver(dir)
		list = append(list, e.timeline, e.usage)
	}
	switch strings.ToLower(strings.TrimSpace(obs.EventStream)) {
	case "stdout":
		list = append(list, metrics.NewJSONLObserver(os.Stdout))
	case "stderr":
		list = append(list, metrics.NewJSONLObserver(os.Stderr))
	}
	var out metrics.Observer = observers.NewMultiObserver(list...)
	if rate := obs.PartialSampleRate; rate > 0 && rate < 1 {
		out = metrics.NewSamplingObserver(out, rate, metrics.EventCapturePart)
	}
	e.asyncObs = metrics.NewAsyncObserver(out, obs.EventBuffer)
	return e.asyncObs
}

func (e *Engine) buildAnswerer(adapter llm.Adapter, catalog *language.Catalog, observer metrics.Observer) controller.Answerer {
	if adapter == nil {
		return nil
	}
	ac := e.cfg.Answerer
	breaker := llm.NewCircuitBreakerAdapter(adapter, resilience.NewCircuitBreaker(
		ac.BreakerThreshold,
		time.Duration(ac.BreakerCooldownMS)*time.Millisecond,
	))
	breaker.SetObserver(observer)
	return llm.NewAnswerer(breaker, catalog, llm.AnswererConfig{
		SystemPrompt: ac.SystemPrompt,
		MaxTokens:    ac.MaxTokens,
		Temperature:  ac.Temperature,
		Timeout:      time.Duration(ac.TimeoutMS) * time.Millisecond,
		Retry: llm.RetryConfig{
			MaxAttempts: ac.Retries + 1,
			BaseDelay:   time.Duration(ac.RetryBackoffMS) * time.Millisecond,
		},
		Limit: llm.SpeechLimit{MaxSentences: ac.MaxSentences, MaxChars: ac.MaxChars},
	}, e.log)
}

func (e *Engine) buildSink(host controller.EventSink) (controller.EventSink, error) {
	sinks := controller.MultiSink{controller.NewLogSink(e.log)}
	if host != nil {
		sinks = append(sinks, host)
	}
	switch providerKey(e.cfg.Emergency.Provider) {
	case "":
	case "twilio":
		var tc twilio.Config
		schema := configutil.Schema{
			Required: []string{"account_sid", "auth_token", "from", "contacts"},
			Optional: []string{"message", "say_language", "max_retries"},
		}
		if err := decode("twilio", e.cfg.Emergency.Settings, schema, &tc); err != nil {
			return nil, err
		}
		sinks = append(sinks, controller.KindFilter(twilio.NewEmergencySink(tc, nil, e.log), command.KindEmergency))
	default:
		return nil, errorsx.New(errorsx.ReasonConfig, "emergency provider not registered: "+e.cfg.Emergency.Provider)
	}
	return sinks, nil
}

// Start loads the voice list and speaks the greeting. A voice list failure
// is logged; synthesis then uses the backend default voice.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.speech.LoadVoices(ctx); err != nil {
		e.log.Warn("voices_unavailable", "reason", errorsx.Reason(err), "error", err)
	}
	e.controller.Activate(ctx)
	return nil
}

func (e *Engine) HandleTurn(ctx context.Context) (controller.Turn, error) {
	return e.controller.HandleTurn(ctx)
}

func (e *Engine) Cancel() { e.controller.Cancel() }

func (e *Engine) SetLanguage(tag language.Tag) { e.controller.SetLanguage(tag) }

func (e *Engine) Language() language.Tag { return e.controller.Language() }

func (e *Engine) State() turn.State { return e.controller.State() }

func (e *Engine) AddListener(l turn.StateListener) { e.controller.AddListener(l) }

func (e *Engine) Controller() *controller.Controller { return e.controller }

func (e *Engine) Catalog() *language.Catalog { return e.catalog }

func (e *Engine) Config() Config { return e.cfg }

// LastLatency returns the stage timings of the most recent turn.
func (e *Engine) LastLatency() observers.TurnLatency { return e.latency.Last() }

// Usage returns the usage recorded for a turn while artifacts are enabled.
func (e *Engine) Usage(turnID string) (observers.UsageSummary, bool) {
	if e.usage == nil {
		return observers.UsageSummary{}, false
	}
	return e.usage.Summary(turnID)
}

// Drain cancels any turn, delivers buffered events and closes artifact
// files. It implements runner.Drainer.
func (e *Engine) Drain(ctx context.Context) error {
	e.controller.Cancel()
	done := make(chan struct{})
	go func() {
		e.asyncObs.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	var errs []error
	if dropped := e.asyncObs.Dropped(); dropped > 0 {
		e.log.Warn("observer_events_dropped", "count", dropped)
	}
	if err := e.asyncObs.Flush(); err != nil {
		errs = append(errs, err)
	}
	if e.timeline != nil {
		errs = append(errs, e.timeline.Close())
	}
	if e.usage != nil {
		errs = append(errs, e.usage.Close())
	}
	return errors.Join(errs...)
}
