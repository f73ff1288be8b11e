package stt

import (
	"context"
	"errors"
)

// ErrNoSpeech is reported by backends when recognition ended without matching
// any speech. Sessions treat it as a natural end with an empty transcript.
var ErrNoSpeech = errors.New("stt: no speech detected")

// Handlers receive recognition events for one capture request.
// Backends may invoke them from any goroutine.
type Handlers struct {
	// OnPartial delivers an interim transcript.
	OnPartial func(text string)
	// OnFinal delivers a finalized transcript segment.
	OnFinal func(text string)
	// OnError reports a recognition failure. The request is over afterwards.
	OnError func(err error)
	// OnEnd signals the backend stopped listening on its own.
	OnEnd func()
}

// Backend defines the contract for any speech recognition implementation.
type Backend interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// RequestPermission asks the platform for microphone access.
	RequestPermission(ctx context.Context) (bool, error)
	// Start begins recognition in locale. It must not block until speech ends.
	Start(ctx context.Context, locale string, h Handlers) error
	// Stop aborts recognition immediately.
	Stop() error
}

// Finisher is implemented by backends with an explicit record, stop, upload
// lifecycle. Finish ends input and lets the backend deliver its transcript.
type Finisher interface {
	Finish() error
}

// Config contains vendor-agnostic STT configuration.
type Config struct {
	SampleRate int
	Channels   int
}
