// Package deepgram streams microphone audio to Deepgram live transcription.
package deepgram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	msginterfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/websocket/interfaces"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/stellaroneai/swara/pkg/adapters/stt"
	"github.com/stellaroneai/swara/pkg/logging"
	"github.com/stellaroneai/swara/pkg/redact"
)

// AudioSource feeds PCM chunks to the recognizer. audio.Microphone
// implements it.
type AudioSource interface {
	Probe() error
	Start(onChunk func(pcm []byte)) error
	Stop()
}

type Config struct {
	APIKey     string
	Model      string
	SampleRate int
	Encoding   string
	Interim    bool
	// UtteranceEndMS ends recognition after this much trailing silence.
	UtteranceEndMS int
	// Languages overrides the Deepgram language code per locale.
	Languages map[string]string
}

// Backend is a stt.Backend over a Deepgram live websocket.
type Backend struct {
	cfg    Config
	source AudioSource
	log    *slog.Logger

	mu     sync.Mutex
	active *session
}

func New(cfg Config, source AudioSource, log *slog.Logger) *Backend {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "linear16"
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	if cfg.UtteranceEndMS == 0 {
		cfg.UtteranceEndMS = 1200
	}
	return &Backend{cfg: cfg, source: source, log: logging.NewComponentLogger(log, "deepgram_stt")}
}

func (b *Backend) Name() string { return "deepgram_streaming" }

// RequestPermission opens the input device once to check access.
func (b *Backend) RequestPermission(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if b.source == nil {
		return false, errors.New("deepgram: no audio source")
	}
	if err := b.source.Probe(); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Backend) Start(ctx context.Context, locale string, h stt.Handlers) error {
	if b.cfg.APIKey == "" {
		return errors.New("deepgram: api key is required")
	}
	b.Stop()

	sctx, cancel := context.WithCancel(context.Background())
	s := &session{backend: b, h: h, cancel: cancel}
	s.pr, s.pw = io.Pipe()

	opts := &interfaces.LiveTranscriptionOptions{
		Model:          b.cfg.Model,
		Language:       b.languageCode(locale),
		Encoding:       b.cfg.Encoding,
		SampleRate:     b.cfg.SampleRate,
		Channels:       1,
		InterimResults: b.cfg.Interim,
		VadEvents:      true,
		SmartFormat:    true,
		Punctuate:      true,
		UtteranceEndMs: strconv.Itoa(b.cfg.UtteranceEndMS),
	}
	dg, err := client.NewWSUsingCallback(sctx, b.cfg.APIKey, &interfaces.ClientOptions{EnableKeepAlive: true}, opts, &callback{s: s})
	if err != nil {
		cancel()
		return fmt.Errorf("deepgram: create client: %w", err)
	}
	if !dg.Connect() {
		cancel()
		return errors.New("deepgram: connection failed")
	}
	s.client = dg

	b.mu.Lock()
	b.active = s
	b.mu.Unlock()

	go func() {
		if err := dg.Stream(s.pr); err != nil && sctx.Err() == nil {
			s.fail(fmt.Errorf("deepgram: stream: %w", err))
		}
	}()
	if err := b.source.Start(func(pcm []byte) {
		if _, err := s.pw.Write(pcm); err != nil {
			b.log.Debug("deepgram_write_failed", "error", err)
		}
	}); err != nil {
		s.close()
		b.clear(s)
		return fmt.Errorf("deepgram: microphone: %w", err)
	}
	b.log.Info("deepgram_listening", "locale", locale, "model", b.cfg.Model)
	return nil
}

// Stop tears down the live session without delivering further events.
func (b *Backend) Stop() error {
	b.mu.Lock()
	s := b.active
	b.active = nil
	b.mu.Unlock()
	if s != nil {
		s.silence()
		s.close()
	}
	return nil
}

func (b *Backend) clear(s *session) {
	b.mu.Lock()
	if b.active == s {
		b.active = nil
	}
	b.mu.Unlock()
}

// languageCode maps a BCP-47 locale to a Deepgram language. Indian English
// keeps its region; other languages use the base code.
func (b *Backend) languageCode(locale string) string {
	if code, ok := b.cfg.Languages[locale]; ok {
		return code
	}
	if strings.HasPrefix(strings.ToLower(locale), "en") {
		return locale
	}
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		return strings.ToLower(locale[:i])
	}
	return locale
}

// session is one live connection. Its handlers fire until the first
// terminal event or Stop.
type session struct {
	backend *Backend
	h       stt.Handlers
	client  *client.WSCallback
	pr      *io.PipeReader
	pw      *io.PipeWriter
	cancel  context.CancelFunc

	mu    sync.Mutex
	ended bool
	once  sync.Once
}

func (s *session) transcript(text string, isFinal, speechFinal bool) {
	text = strings.TrimSpace(text)
	if text == "" || !s.live() {
		return
	}
	s.backend.log.Debug("deepgram_transcript", "text", redact.Text(text), "is_final", isFinal, "speech_final", speechFinal)
	if !isFinal {
		s.h.OnPartial(text)
		return
	}
	s.h.OnFinal(text)
	if speechFinal {
		s.end()
	}
}

// end finishes recognition naturally.
func (s *session) end() {
	if !s.latch() {
		return
	}
	s.close()
	s.backend.clear(s)
	s.h.OnEnd()
}

func (s *session) fail(err error) {
	if !s.latch() {
		return
	}
	s.close()
	s.backend.clear(s)
	s.h.OnError(err)
}

func (s *session) silence() { s.latch() }

func (s *session) latch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return false
	}
	s.ended = true
	return true
}

func (s *session) live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.ended
}

func (s *session) close() {
	s.once.Do(func() {
		s.backend.source.Stop()
		if s.pw != nil {
			_ = s.pw.Close()
		}
		if s.client != nil {
			s.client.Stop()
		}
		s.cancel()
	})
}

// callback adapts Deepgram websocket messages to the session.
type callback struct {
	s *session
}

func (c *callback) Open(*msginterfaces.OpenResponse) error {
	c.s.backend.log.Debug("deepgram_connection_opened")
	return nil
}

func (c *callback) Message(mr *msginterfaces.MessageResponse) error {
	if len(mr.Channel.Alternatives) == 0 {
		return nil
	}
	c.s.transcript(mr.Channel.Alternatives[0].Transcript, mr.IsFinal, mr.SpeechFinal)
	return nil
}

func (c *callback) Metadata(md *msginterfaces.MetadataResponse) error {
	c.s.backend.log.Debug("deepgram_metadata", "request_id", md.RequestID)
	return nil
}

func (c *callback) SpeechStarted(*msginterfaces.SpeechStartedResponse) error {
	return nil
}

func (c *callback) UtteranceEnd(*msginterfaces.UtteranceEndResponse) error {
	c.s.end()
	return nil
}

func (c *callback) Close(*msginterfaces.CloseResponse) error {
	c.s.end()
	return nil
}

func (c *callback) Error(er *msginterfaces.ErrorResponse) error {
	c.s.fail(fmt.Errorf("deepgram: %s: %s", er.ErrCode, er.ErrMsg))
	return nil
}

func (c *callback) UnhandledEvent(data []byte) error {
	c.s.backend.log.Debug("deepgram_unhandled_event", "bytes", len(data))
	return nil
}

var _ stt.Backend = (*Backend)(nil)
