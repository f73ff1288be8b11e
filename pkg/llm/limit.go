package llm

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SpeechLimit keeps answers short enough to listen to.
type SpeechLimit struct {
	MaxSentences int
	MaxChars     int
}

// Apply cuts text after MaxSentences sentence terminators, then to at most
// MaxChars runes on a word boundary. Zero limits are ignored. The Devanagari
// danda counts as a terminator.
func (l SpeechLimit) Apply(text string) string {
	text = strings.TrimSpace(text)
	if l.MaxSentences > 0 {
		count := 0
		for i, r := range text {
			if !isSentenceEnd(r) {
				continue
			}
			count++
			if count >= l.MaxSentences {
				text = strings.TrimSpace(text[:i+utf8.RuneLen(r)])
				break
			}
		}
	}
	if l.MaxChars > 0 && utf8.RuneCountInString(text) > l.MaxChars {
		runes := []rune(text)[:l.MaxChars]
		cut := len(runes)
		for i := len(runes) - 1; i > 0; i-- {
			if unicode.IsSpace(runes[i]) {
				cut = i
				break
			}
		}
		text = strings.TrimSpace(string(runes[:cut]))
	}
	return text
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '।', '॥':
		return true
	}
	return false
}
