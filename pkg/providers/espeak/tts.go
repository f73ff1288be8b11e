// Package espeak speaks through the espeak-ng command line synthesizer.
// It needs no network and covers most Indian languages, which makes it the
// offline fallback voice.
package espeak

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/stellaroneai/swara/pkg/adapters/tts"
	"github.com/stellaroneai/swara/pkg/logging"
	"github.com/stellaroneai/swara/pkg/voice"
)

// ErrPauseUnsupported is returned by Pause and Resume.
var ErrPauseUnsupported = errors.New("espeak: pause is not supported")

type Config struct {
	Binary string
	// WordsPerMinute is the speed at rate 1.0.
	WordsPerMinute int
}

type Backend struct {
	cfg Config
	log *slog.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func New(cfg Config, log *slog.Logger) *Backend {
	if cfg.Binary == "" {
		cfg.Binary = "espeak-ng"
	}
	if cfg.WordsPerMinute == 0 {
		cfg.WordsPerMinute = 160
	}
	return &Backend{cfg: cfg, log: logging.NewComponentLogger(log, "espeak_tts")}
}

func (b *Backend) Name() string { return "espeak_ng" }

func (b *Backend) Voices(ctx context.Context) ([]voice.Candidate, error) {
	out, err := exec.CommandContext(ctx, b.cfg.Binary, "--voices").Output()
	if err != nil {
		return nil, fmt.Errorf("espeak: list voices: %w", err)
	}
	return parseVoices(out), nil
}

func (b *Backend) Speak(_ context.Context, req tts.Request, ev tts.Events) error {
	b.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, b.cfg.Binary, b.args(req)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("espeak: start: %w", err)
	}

	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.cancel = cancel
	b.mu.Unlock()

	ev.OnStart()
	go func() {
		defer cancel()
		err := cmd.Wait()
		if !b.live(gen) {
			return
		}
		if err != nil {
			b.log.Warn("espeak_failed", "utterance_id", req.ID, "error", err, "stderr", strings.TrimSpace(stderr.String()))
			ev.OnError(fmt.Errorf("espeak: %w", err))
			return
		}
		ev.OnEnd()
	}()
	return nil
}

// Stop kills the running process. Its events are dropped.
func (b *Backend) Stop() {
	b.mu.Lock()
	b.gen++
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (b *Backend) Pause() error  { return ErrPauseUnsupported }
func (b *Backend) Resume() error { return ErrPauseUnsupported }

func (b *Backend) live(gen uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gen == gen
}

// args maps the request prosody onto espeak flags: speed in words per
// minute, pitch 0..99 around 50 and amplitude 0..200 around 100.
func (b *Backend) args(req tts.Request) []string {
	v := req.VoiceID
	if v == "" {
		v = strings.ToLower(req.Locale)
	}
	rate, pitch, volume := req.Rate, req.Pitch, req.Volume
	if rate <= 0 {
		rate = 1
	}
	if pitch <= 0 {
		pitch = 1
	}
	if volume <= 0 {
		volume = 1
	}
	return []string{
		"-v", v,
		"-s", strconv.Itoa(int(float64(b.cfg.WordsPerMinute) * rate)),
		"-p", strconv.Itoa(min(int(50*pitch), 99)),
		"-a", strconv.Itoa(min(int(100*volume), 200)),
		"--", req.Text,
	}
}

// parseVoices reads the table printed by --voices:
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  hi              --/M      Hindi              inc/hi
func parseVoices(out []byte) []voice.Candidate {
	var voices []voice.Candidate
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) < 5 || f[0] == "Pty" {
			continue
		}
		voices = append(voices, voice.Candidate{
			ID:                f[1],
			Name:              strings.ReplaceAll(f[3], "_", " "),
			Locale:            locale(f[1]),
			IsLocal:           true,
			EngineQualityHint: "standard",
		})
	}
	return voices
}

// locale turns "en-gb" into "en-GB".
func locale(code string) string {
	lang, region, ok := strings.Cut(code, "-")
	if !ok || len(region) != 2 {
		return code
	}
	return lang + "-" + strings.ToUpper(region)
}

var _ tts.Backend = (*Backend)(nil)
