// Package whisper records from the default microphone and transcribes the
// clip offline with a local whisper.cpp model.
package whisper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"

	"github.com/stellaroneai/swara/pkg/adapters/stt"
	"github.com/stellaroneai/swara/pkg/logging"
	"github.com/stellaroneai/swara/pkg/redact"
)

type Config struct {
	Binary    string
	ModelPath string
	TempDir   string
	// MaxRecord finishes a recording that was never finished explicitly.
	MaxRecord time.Duration
	Verbose   bool
}

// recorder is the record-then-transcribe lifecycle of one clip.
type recorder interface {
	Start() error
	Stop()
}

type recorderFactory func(cfg Config, onText func(string)) (recorder, error)

func newTranscriber(cfg Config, onText func(string)) (recorder, error) {
	t, err := audiotranscriber.NewTranscriber(cfg.Binary, cfg.ModelPath, cfg.TempDir, "wav", onText, cfg.Verbose)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Backend is an stt.Backend and stt.Finisher. Recognition runs after
// Finish, so it never reports partials.
type Backend struct {
	cfg       Config
	log       *slog.Logger
	newRecord recorderFactory

	mu     sync.Mutex
	gen    uint64
	rec    recorder
	timer  *time.Timer
	finish bool
}

func New(cfg Config, log *slog.Logger) *Backend {
	if cfg.Binary == "" {
		cfg.Binary = "whisper-cli"
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.MaxRecord == 0 {
		cfg.MaxRecord = 15 * time.Second
	}
	return &Backend{cfg: cfg, log: logging.NewComponentLogger(log, "whisper_stt"), newRecord: newTranscriber}
}

func (b *Backend) Name() string { return "whisper_local" }

// RequestPermission checks that the binary and model are installed.
func (b *Backend) RequestPermission(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := exec.LookPath(b.cfg.Binary); err != nil {
		return false, fmt.Errorf("whisper: binary %q: %w", b.cfg.Binary, err)
	}
	if _, err := os.Stat(b.cfg.ModelPath); err != nil {
		return false, fmt.Errorf("whisper: model: %w", err)
	}
	return true, nil
}

// Start begins recording. The model is multilingual and detects the spoken
// language itself, so locale is only logged.
func (b *Backend) Start(_ context.Context, locale string, h stt.Handlers) error {
	b.Stop()

	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.mu.Unlock()

	rec, err := b.newRecord(b.cfg, func(text string) { b.deliver(gen, text, h) })
	if err != nil {
		return fmt.Errorf("whisper: init: %w", err)
	}
	if err := rec.Start(); err != nil {
		return fmt.Errorf("whisper: record: %w", err)
	}

	b.mu.Lock()
	if b.gen != gen {
		b.mu.Unlock()
		rec.Stop()
		return nil
	}
	b.rec = rec
	b.finish = false
	b.timer = time.AfterFunc(b.cfg.MaxRecord, func() {
		b.log.Debug("whisper_max_record_reached", "locale", locale)
		_ = b.finishGen(gen)
	})
	b.mu.Unlock()
	b.log.Info("whisper_recording", "locale", locale)
	return nil
}

// Finish stops recording and transcribes what was captured.
func (b *Backend) Finish() error {
	b.mu.Lock()
	gen := b.gen
	b.mu.Unlock()
	return b.finishGen(gen)
}

func (b *Backend) finishGen(gen uint64) error {
	b.mu.Lock()
	if b.gen != gen || b.rec == nil || b.finish {
		b.mu.Unlock()
		return nil
	}
	b.finish = true
	rec := b.rec
	if b.timer != nil {
		b.timer.Stop()
	}
	b.mu.Unlock()
	// Stop blocks while the clip is transcribed.
	go rec.Stop()
	return nil
}

// Stop discards the recording without transcribing it.
func (b *Backend) Stop() error {
	b.mu.Lock()
	b.gen++
	rec := b.rec
	b.rec = nil
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.mu.Unlock()
	if rec != nil {
		go rec.Stop()
	}
	return nil
}

func (b *Backend) deliver(gen uint64, text string, h stt.Handlers) {
	b.mu.Lock()
	if b.gen != gen {
		b.mu.Unlock()
		return
	}
	b.rec = nil
	b.mu.Unlock()

	text = cleanTranscription(text)
	if text == "" {
		h.OnError(stt.ErrNoSpeech)
		return
	}
	b.log.Debug("whisper_transcript", "text", redact.Text(text))
	h.OnFinal(text)
	h.OnEnd()
}

var (
	annotationRe = regexp.MustCompile(`[\(\[][a-zA-Z][a-zA-Z_\s]*[\)\]]`)
	timestampRe  = regexp.MustCompile(`\[\d{2}:\d{2}:\d{2}\.\d{3} --> \d{2}:\d{2}:\d{2}\.\d{3}\]`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// hallucinations are phrases the model emits on silent clips.
var hallucinations = map[string]bool{
	"...":                     true,
	"you":                     true,
	"thank you.":              true,
	"thanks for watching!":    true,
	"thank you for watching.": true,
	"bye.":                    true,
}

// cleanTranscription removes timestamps, sound annotations such as
// [BLANK_AUDIO] or (coughing), and known silence hallucinations.
func cleanTranscription(s string) string {
	s = timestampRe.ReplaceAllString(s, " ")
	s = annotationRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
	if hallucinations[strings.ToLower(s)] {
		return ""
	}
	return s
}

var (
	_ stt.Backend  = (*Backend)(nil)
	_ stt.Finisher = (*Backend)(nil)
)
