package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stellaroneai/swara/pkg/errorsx"
	"github.com/stellaroneai/swara/pkg/language"
	"github.com/stellaroneai/swara/pkg/logging"
)

// DefaultSystemPrompt frames free-form questions. {language} is replaced by
// the language the user is speaking.
const DefaultSystemPrompt = "You are a friendly health assistant for patients in India. " +
	"Answer in {language} using short sentences that read well aloud. " +
	"Do not diagnose; suggest seeing a doctor when symptoms sound serious."

type AnswererConfig struct {
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
	Retry        RetryConfig
	Limit        SpeechLimit
}

// Answerer turns free-form questions into spoken-style answers with an
// Adapter.
type Answerer struct {
	adapter Adapter
	catalog *language.Catalog
	cfg     AnswererConfig
	log     *slog.Logger
}

func NewAnswerer(adapter Adapter, catalog *language.Catalog, cfg AnswererConfig, log *slog.Logger) *Answerer {
	if catalog == nil {
		catalog = language.DefaultCatalog()
	}
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 300
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.Limit == (SpeechLimit{}) {
		cfg.Limit = SpeechLimit{MaxSentences: 3, MaxChars: 420}
	}
	return &Answerer{adapter: adapter, catalog: catalog, cfg: cfg, log: logging.NewComponentLogger(log, "answerer")}
}

// Answer asks the adapter about text in tag's language.
func (a *Answerer) Answer(ctx context.Context, text string, tag language.Tag) (string, error) {
	if a.adapter == nil {
		return "", errorsx.New(errorsx.ReasonBackendUnavailable, "answerer: no llm adapter")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errorsx.New(errorsx.ReasonQuery, "answerer: empty question")
	}
	tag = a.catalog.Normalize(tag)
	input := Context{
		Messages: []Message{
			{Role: RoleSystem, Content: a.systemPrompt(tag)},
			{Role: RoleUser, Content: text},
		},
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()
	started := time.Now()
	resp, err := Retry(ctx, a.cfg.Retry, func(ctx context.Context) (Response, error) {
		return a.adapter.Generate(ctx, input)
	})
	if err != nil {
		return "", errorsx.Wrap(fmt.Errorf("answerer: %s: %w", a.adapter.Name(), err), errorsx.ReasonQuery)
	}
	answer := a.cfg.Limit.Apply(resp.Text)
	if answer == "" {
		return "", errorsx.Wrap(errors.New("answerer: empty response"), errorsx.ReasonQuery)
	}
	a.log.Debug("answer_ready",
		"provider", a.adapter.Name(),
		"language", tag.String(),
		"tokens", resp.Usage.TotalTokens,
		"latency_ms", time.Since(started).Milliseconds(),
	)
	return answer, nil
}

func (a *Answerer) systemPrompt(tag language.Tag) string {
	name := tag.String()
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return strings.ReplaceAll(a.cfg.SystemPrompt, "{language}", name)
}
