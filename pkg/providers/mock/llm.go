package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/stellaroneai/swara/pkg/llm"
)

type LLMAdapter struct {
	cfg LLMConfig

	mu    sync.Mutex
	calls []llm.Context
}

// LLMConfig scripts the adapter. Answers maps a lower-cased substring of the
// user question to a reply; ResponseText answers everything else.
type LLMConfig struct {
	ResponseText string
	Answers      map[string]string
	Err          error
}

func NewLLMAdapter(cfg LLMConfig) *LLMAdapter {
	if cfg.ResponseText == "" {
		cfg.ResponseText = "mock response"
	}
	return &LLMAdapter{cfg: cfg}
}

func (a *LLMAdapter) Name() string { return "mock_llm" }

func (a *LLMAdapter) Generate(ctx context.Context, input llm.Context) (llm.Response, error) {
	a.mu.Lock()
	a.calls = append(a.calls, input)
	a.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return llm.Response{}, err
	}
	if a.cfg.Err != nil {
		return llm.Response{}, a.cfg.Err
	}
	question := ""
	for _, m := range input.Messages {
		if m.Role == llm.RoleUser {
			question = strings.ToLower(m.Content)
		}
	}
	text := a.cfg.ResponseText
	for key, reply := range a.cfg.Answers {
		if strings.Contains(question, strings.ToLower(key)) {
			text = reply
			break
		}
	}
	words := len(strings.Fields(text))
	return llm.Response{
		Text:         text,
		FinishReason: "stop",
		Usage:        llm.Usage{CompletionTokens: words, TotalTokens: words},
	}, nil
}

// Calls returns the contexts the adapter was asked with.
func (a *LLMAdapter) Calls() []llm.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]llm.Context(nil), a.calls...)
}

var _ llm.Adapter = (*LLMAdapter)(nil)
