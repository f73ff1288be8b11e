package swara

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/stellaroneai/swara/pkg/configutil"
	"github.com/stellaroneai/swara/pkg/errorsx"
)

type Config struct {
	Environment   string              `mapstructure:"environment"`
	LogLevel      string              `mapstructure:"log_level"`
	LogFormat     string              `mapstructure:"log_format"`
	Vendors       VendorsConfig       `mapstructure:"vendors"`
	Emergency     VendorConfig        `mapstructure:"emergency"`
	Languages     LanguageConfig      `mapstructure:"languages"`
	Commands      map[string][]Rule   `mapstructure:"commands"`
	Replacements  map[string]string   `mapstructure:"replacements"`
	Audio         AudioConfig         `mapstructure:"audio"`
	Capture       CaptureConfig       `mapstructure:"capture"`
	Synthesis     SynthesisConfig     `mapstructure:"synthesis"`
	Answerer      AnswererConfig      `mapstructure:"answerer"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Privacy       PrivacyConfig       `mapstructure:"privacy"`
}

type VendorConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type VendorsConfig struct {
	STT VendorConfig `mapstructure:"stt"`
	TTS VendorConfig `mapstructure:"tts"`
	LLM VendorConfig `mapstructure:"llm"`
}

// LanguageConfig selects the starting language and overrides catalog
// phrases, keyed by language tag then phrase key.
type LanguageConfig struct {
	Default string                       `mapstructure:"default"`
	Phrases map[string]map[string]string `mapstructure:"phrases"`
}

// Rule adds keywords to a language's command table. Kind is "navigate" or
// "emergency".
type Rule struct {
	Kind     string   `mapstructure:"kind"`
	Target   string   `mapstructure:"target"`
	Keywords []string `mapstructure:"keywords"`
}

type AudioConfig struct {
	SampleRate int `mapstructure:"sample_rate"`
	Channels   int `mapstructure:"channels"`
}

type CaptureConfig struct {
	MaxDurationMS int `mapstructure:"max_duration_ms"`
}

type SynthesisConfig struct {
	StartGuardFloorMS   int      `mapstructure:"start_guard_floor_ms"`
	StartGuardPerCharMS int      `mapstructure:"start_guard_per_char_ms"`
	LowQualityMarkers   []string `mapstructure:"low_quality_markers"`
}

type AnswererConfig struct {
	SystemPrompt      string  `mapstructure:"system_prompt"`
	MaxTokens         int     `mapstructure:"max_tokens"`
	Temperature       float64 `mapstructure:"temperature"`
	TimeoutMS         int     `mapstructure:"timeout_ms"`
	Retries           int     `mapstructure:"retries"`
	RetryBackoffMS    int     `mapstructure:"retry_backoff_ms"`
	BreakerThreshold  int     `mapstructure:"breaker_threshold"`
	BreakerCooldownMS int     `mapstructure:"breaker_cooldown_ms"`
	MaxSentences      int     `mapstructure:"max_sentences"`
	MaxChars          int     `mapstructure:"max_chars"`
}

type ObservabilityConfig struct {
	ArtifactsDir  string `mapstructure:"artifacts_dir"`
	RetentionDays int    `mapstructure:"retention_days"`
	EventBuffer   int    `mapstructure:"event_buffer"`
	// EventStream mirrors every event as JSON lines to "stdout" or "stderr".
	EventStream string `mapstructure:"event_stream"`
	// PartialSampleRate keeps this share of capture_partial events.
	PartialSampleRate float64 `mapstructure:"partial_sample_rate"`
}

type PrivacyConfig struct {
	RedactPII bool `mapstructure:"redact_pii"`
}

// LoadConfig reads a YAML (or any viper-supported) file. SWARA_* environment
// variables override file values, and ${VAR} references are expanded.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("swara")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errorsx.Errorf(errorsx.ReasonConfig, "read config: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errorsx.Errorf(errorsx.ReasonConfig, "unmarshal: %w", err)
	}
	cfg.expandEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, errorsx.Wrap(fmt.Errorf("validate config: %w", err), errorsx.ReasonConfig)
	}
	return cfg, nil
}

// DefaultConfig returns the built-in defaults with mock vendors, the setup
// used by tests and the demo.
func DefaultConfig() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	cfg.Vendors = VendorsConfig{
		STT: VendorConfig{Provider: "mock"},
		TTS: VendorConfig{Provider: "mock"},
		LLM: VendorConfig{Provider: "mock"},
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("languages.default", "english")
	v.SetDefault("audio.sample_rate", 16000)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("capture.max_duration_ms", 30000)
	v.SetDefault("synthesis.start_guard_floor_ms", 5000)
	v.SetDefault("synthesis.start_guard_per_char_ms", 100)
	v.SetDefault("synthesis.low_quality_markers", []string{"low", "compact"})
	v.SetDefault("answerer.max_tokens", 300)
	v.SetDefault("answerer.temperature", 0.3)
	v.SetDefault("answerer.timeout_ms", 20000)
	v.SetDefault("answerer.retries", 2)
	v.SetDefault("answerer.retry_backoff_ms", 300)
	v.SetDefault("answerer.breaker_threshold", 3)
	v.SetDefault("answerer.breaker_cooldown_ms", 30000)
	v.SetDefault("answerer.max_sentences", 3)
	v.SetDefault("answerer.max_chars", 420)
	v.SetDefault("observability.artifacts_dir", "")
	v.SetDefault("observability.retention_days", 0)
	v.SetDefault("observability.event_buffer", 1024)
	v.SetDefault("observability.partial_sample_rate", 0.2)
	v.SetDefault("privacy.redact_pii", true)
}

func (c *Config) Validate() error {
	if err := configutil.RequireString(c.Vendors.STT.Provider, "vendors.stt.provider"); err != nil {
		return err
	}
	if err := configutil.RequireString(c.Vendors.TTS.Provider, "vendors.tts.provider"); err != nil {
		return err
	}
	if c.Audio.SampleRate <= 0 || c.Audio.Channels <= 0 {
		return fmt.Errorf("audio: sample_rate and channels must be positive")
	}
	if c.Capture.MaxDurationMS < 0 {
		return fmt.Errorf("capture.max_duration_ms must not be negative")
	}
	switch strings.ToLower(strings.TrimSpace(c.Observability.EventStream)) {
	case "", "stdout", "stderr":
	default:
		return fmt.Errorf("observability.event_stream must be stdout or stderr, got %q", c.Observability.EventStream)
	}
	for lang, rules := range c.Commands {
		for i, r := range rules {
			if _, err := parseKind(r.Kind); err != nil {
				return fmt.Errorf("commands.%s[%d]: %w", lang, i, err)
			}
			if strings.TrimSpace(r.Target) == "" || len(r.Keywords) == 0 {
				return fmt.Errorf("commands.%s[%d]: target and keywords are required", lang, i)
			}
		}
	}
	return nil
}

func (c *Config) expandEnv() {
	for _, vc := range []*VendorConfig{&c.Vendors.STT, &c.Vendors.TTS, &c.Vendors.LLM, &c.Emergency} {
		vc.Provider = configutil.ExpandString(vc.Provider)
		if vc.Settings != nil {
			vc.Settings = configutil.ExpandEnv(vc.Settings)
		}
	}
	c.Observability.ArtifactsDir = configutil.ExpandString(c.Observability.ArtifactsDir)
	c.Answerer.SystemPrompt = configutil.ExpandString(c.Answerer.SystemPrompt)
}
