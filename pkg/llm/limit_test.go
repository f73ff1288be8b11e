package llm

import (
	"context"
	"testing"

	"github.com/stellaroneai/swara/pkg/logging"
)

func TestSpeechLimitApply(t *testing.T) {
	cases := []struct {
		name  string
		limit SpeechLimit
		in    string
		want  string
	}{
		{"unlimited", SpeechLimit{}, "  One. Two. Three.  ", "One. Two. Three."},
		{"sentences", SpeechLimit{MaxSentences: 2}, "One. Two! Three? Four.", "One. Two!"},
		{"danda", SpeechLimit{MaxSentences: 1}, "नमस्ते। आप कैसे हैं?", "नमस्ते।"},
		{"chars on word boundary", SpeechLimit{MaxChars: 12}, "the quick brown fox", "the quick"},
		{"short text untouched", SpeechLimit{MaxSentences: 3, MaxChars: 100}, "Fine.", "Fine."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.limit.Apply(tc.in); got != tc.want {
				t.Fatalf("Apply(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestAnswererShortensLongAnswers(t *testing.T) {
	adapter := &scriptedAdapter{replies: []Response{{Text: "First. Second. Third. Fourth."}}}
	a := NewAnswerer(adapter, nil, AnswererConfig{
		Retry: fastRetry(),
		Limit: SpeechLimit{MaxSentences: 2},
	}, logging.Discard())
	got, err := a.Answer(context.Background(), "tell me", "english")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if got != "First. Second." {
		t.Fatalf("answer = %q", got)
	}
}
