package swara

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stellaroneai/swara/pkg/adapters/stt"
	"github.com/stellaroneai/swara/pkg/adapters/tts"
	"github.com/stellaroneai/swara/pkg/audio"
	"github.com/stellaroneai/swara/pkg/configutil"
	"github.com/stellaroneai/swara/pkg/errorsx"
	"github.com/stellaroneai/swara/pkg/llm"
	"github.com/stellaroneai/swara/pkg/providers/deepgram"
	"github.com/stellaroneai/swara/pkg/providers/elevenlabs"
	"github.com/stellaroneai/swara/pkg/providers/espeak"
	"github.com/stellaroneai/swara/pkg/providers/mock"
	"github.com/stellaroneai/swara/pkg/providers/openai"
	"github.com/stellaroneai/swara/pkg/providers/whisper"
)

// Env is what a provider factory may draw on besides its own settings.
type Env struct {
	Format audio.Format
	Logger *slog.Logger
}

type STTFactory func(settings map[string]any, env Env) (stt.Backend, error)
type TTSFactory func(settings map[string]any, env Env) (tts.Backend, error)
type LLMFactory func(settings map[string]any, env Env) (llm.Adapter, error)

// ProviderRegistry maps provider names from config to factories.
type ProviderRegistry struct {
	stt map[string]STTFactory
	tts map[string]TTSFactory
	llm map[string]LLMFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		stt: make(map[string]STTFactory),
		tts: make(map[string]TTSFactory),
		llm: make(map[string]LLMFactory),
	}
}

// DefaultProviderRegistry registers every built-in provider.
func DefaultProviderRegistry() *ProviderRegistry {
	r := NewProviderRegistry()
	r.RegisterSTT("mock", buildMockSTT)
	r.RegisterSTT("deepgram", buildDeepgram)
	r.RegisterSTT("whisper", buildWhisper)
	r.RegisterTTS("mock", buildMockTTS)
	r.RegisterTTS("espeak", buildEspeak)
	r.RegisterTTS("elevenlabs", buildElevenLabs)
	r.RegisterLLM("mock", buildMockLLM)
	r.RegisterLLM("openai", buildOpenAI)
	return r
}

func (r *ProviderRegistry) RegisterSTT(name string, factory STTFactory) {
	r.stt[providerKey(name)] = factory
}

func (r *ProviderRegistry) RegisterTTS(name string, factory TTSFactory) {
	r.tts[providerKey(name)] = factory
}

func (r *ProviderRegistry) RegisterLLM(name string, factory LLMFactory) {
	r.llm[providerKey(name)] = factory
}

func (r *ProviderRegistry) BuildSTT(vc VendorConfig, env Env) (stt.Backend, error) {
	fn := r.stt[providerKey(vc.Provider)]
	if fn == nil {
		return nil, errorsx.New(errorsx.ReasonConfig, "stt provider not registered: "+vc.Provider)
	}
	return fn(vc.Settings, env)
}

func (r *ProviderRegistry) BuildTTS(vc VendorConfig, env Env) (tts.Backend, error) {
	fn := r.tts[providerKey(vc.Provider)]
	if fn == nil {
		return nil, errorsx.New(errorsx.ReasonConfig, "tts provider not registered: "+vc.Provider)
	}
	return fn(vc.Settings, env)
}

// BuildLLM returns nil without error when no provider is configured; the
// controller then apologises for every query.
func (r *ProviderRegistry) BuildLLM(vc VendorConfig, env Env) (llm.Adapter, error) {
	if strings.TrimSpace(vc.Provider) == "" {
		return nil, nil
	}
	fn := r.llm[providerKey(vc.Provider)]
	if fn == nil {
		return nil, errorsx.New(errorsx.ReasonConfig, "llm provider not registered: "+vc.Provider)
	}
	return fn(vc.Settings, env)
}

func providerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func decode(provider string, settings map[string]any, schema configutil.Schema, out any) error {
	if err := configutil.ValidateSettings(provider, settings, schema); err != nil {
		return err
	}
	if err := configutil.DecodeSettings(settings, out); err != nil {
		return errorsx.Wrap(fmt.Errorf("%s settings: %w", provider, err), errorsx.ReasonConfig)
	}
	return nil
}

func buildMockSTT(settings map[string]any, _ Env) (stt.Backend, error) {
	var s struct {
		Transcript string        `mapstructure:"transcript"`
		Partials   []string      `mapstructure:"partials"`
		Delay      time.Duration `mapstructure:"delay"`
		Deny       bool          `mapstructure:"deny"`
	}
	if err := decode("mock stt", settings, configutil.Schema{Optional: []string{"transcript", "partials", "delay", "deny"}}, &s); err != nil {
		return nil, err
	}
	return mock.NewSTT(mock.STTConfig{Transcript: s.Transcript, Partials: s.Partials, Delay: s.Delay, Deny: s.Deny}), nil
}

func buildDeepgram(settings map[string]any, env Env) (stt.Backend, error) {
	var s struct {
		APIKey         string            `mapstructure:"api_key"`
		Model          string            `mapstructure:"model"`
		Interim        bool              `mapstructure:"interim"`
		UtteranceEndMS int               `mapstructure:"utterance_end_ms"`
		Languages      map[string]string `mapstructure:"languages"`
	}
	schema := configutil.Schema{
		Required: []string{"api_key"},
		Optional: []string{"model", "interim", "utterance_end_ms", "languages"},
	}
	if err := decode("deepgram", settings, schema, &s); err != nil {
		return nil, err
	}
	mic, err := audio.NewMicrophone(env.Format, env.Logger)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonBackendUnavailable)
	}
	return deepgram.New(deepgram.Config{
		APIKey:         s.APIKey,
		Model:          s.Model,
		SampleRate:     env.Format.SampleRate,
		Interim:        s.Interim,
		UtteranceEndMS: s.UtteranceEndMS,
		Languages:      s.Languages,
	}, mic, env.Logger), nil
}

func buildWhisper(settings map[string]any, env Env) (stt.Backend, error) {
	var raw struct {
		Binary    string        `mapstructure:"binary"`
		ModelPath string        `mapstructure:"model_path"`
		TempDir   string        `mapstructure:"temp_dir"`
		MaxRecord time.Duration `mapstructure:"max_record"`
		Verbose   bool          `mapstructure:"verbose"`
	}
	schema := configutil.Schema{
		Required: []string{"model_path"},
		Optional: []string{"binary", "temp_dir", "max_record", "verbose"},
	}
	if err := decode("whisper", settings, schema, &raw); err != nil {
		return nil, err
	}
	return whisper.New(whisper.Config(raw), env.Logger), nil
}

func buildMockTTS(settings map[string]any, _ Env) (tts.Backend, error) {
	var s struct {
		StartDelay time.Duration `mapstructure:"start_delay"`
		PerChar    time.Duration `mapstructure:"per_char"`
	}
	if err := decode("mock tts", settings, configutil.Schema{Optional: []string{"start_delay", "per_char"}}, &s); err != nil {
		return nil, err
	}
	return mock.NewTTS(mock.TTSConfig{StartDelay: s.StartDelay, PerChar: s.PerChar}), nil
}

func buildEspeak(settings map[string]any, env Env) (tts.Backend, error) {
	var s struct {
		Binary         string `mapstructure:"binary"`
		WordsPerMinute int    `mapstructure:"words_per_minute"`
	}
	if err := decode("espeak", settings, configutil.Schema{Optional: []string{"binary", "words_per_minute"}}, &s); err != nil {
		return nil, err
	}
	return espeak.New(espeak.Config{Binary: s.Binary, WordsPerMinute: s.WordsPerMinute}, env.Logger), nil
}

func buildElevenLabs(settings map[string]any, env Env) (tts.Backend, error) {
	var s struct {
		APIKey  string   `mapstructure:"api_key"`
		VoiceID string   `mapstructure:"voice_id"`
		ModelID string   `mapstructure:"model_id"`
		Locales []string `mapstructure:"locales"`
	}
	schema := configutil.Schema{
		Required: []string{"api_key", "voice_id"},
		Optional: []string{"model_id", "locales"},
	}
	if err := decode("elevenlabs", settings, schema, &s); err != nil {
		return nil, err
	}
	player, err := audio.NewPlayer(env.Format, env.Logger)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonBackendUnavailable)
	}
	return elevenlabs.New(elevenlabs.Config{
		APIKey:     s.APIKey,
		VoiceID:    s.VoiceID,
		ModelID:    s.ModelID,
		SampleRate: env.Format.SampleRate,
		Locales:    s.Locales,
	}, player, env.Logger), nil
}

func buildMockLLM(settings map[string]any, _ Env) (llm.Adapter, error) {
	var s struct {
		ResponseText string            `mapstructure:"response_text"`
		Answers      map[string]string `mapstructure:"answers"`
	}
	if err := decode("mock llm", settings, configutil.Schema{Optional: []string{"response_text", "answers"}}, &s); err != nil {
		return nil, err
	}
	return mock.NewLLMAdapter(mock.LLMConfig{ResponseText: s.ResponseText, Answers: s.Answers}), nil
}

func buildOpenAI(settings map[string]any, _ Env) (llm.Adapter, error) {
	var s struct {
		APIKey  string `mapstructure:"api_key"`
		Model   string `mapstructure:"model"`
		BaseURL string `mapstructure:"base_url"`
	}
	schema := configutil.Schema{Required: []string{"api_key"}, Optional: []string{"model", "base_url"}}
	if err := decode("openai", settings, schema, &s); err != nil {
		return nil, err
	}
	a := openai.NewAdapter(s.APIKey, s.Model)
	if s.BaseURL != "" {
		a.BaseURL = strings.TrimSuffix(s.BaseURL, "/")
	}
	return a, nil
}
