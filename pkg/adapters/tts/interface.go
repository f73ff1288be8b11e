package tts

import (
	"context"

	"github.com/stellaroneai/swara/pkg/voice"
)

// Request is one utterance handed to a backend.
type Request struct {
	ID      string
	Text    string
	Locale  string
	Rate    float64
	Pitch   float64
	Volume  float64
	VoiceID string
}

// Events are bound to a single Request. Backends may invoke them from any
// goroutine, and must fire at most one of OnEnd or OnError.
type Events struct {
	OnStart func()
	OnEnd   func()
	OnError func(err error)
}

// Backend defines the contract for any speech synthesis implementation.
type Backend interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Voices lists the voices the backend can speak with.
	Voices(ctx context.Context) ([]voice.Candidate, error)
	// Speak submits req and returns without waiting for playback.
	Speak(ctx context.Context, req Request, ev Events) error
	// Stop cancels current playback.
	Stop()
	// Pause suspends current playback.
	Pause() error
	// Resume continues paused playback.
	Resume() error
}

// Config contains vendor-agnostic TTS configuration.
type Config struct {
	SampleRate int
	Channels   int
}
