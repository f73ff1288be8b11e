// Package elevenlabs synthesizes speech over the ElevenLabs stream-input
// websocket and plays the returned PCM locally.
package elevenlabs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stellaroneai/swara/pkg/adapters/tts"
	"github.com/stellaroneai/swara/pkg/logging"
	"github.com/stellaroneai/swara/pkg/resilience"
	"github.com/stellaroneai/swara/pkg/voice"
)

const defaultBaseURL = "wss://api.elevenlabs.io/v1/text-to-speech/"

// Player plays raw PCM. audio.Player implements it.
type Player interface {
	Play(ctx context.Context, pcm []byte, volume float64, onStart func()) error
	Stop()
	Pause()
	Resume()
}

type Config struct {
	APIKey  string
	VoiceID string
	ModelID string
	// SampleRate selects the pcm_<rate> output format and must match the player.
	SampleRate int
	// Locales are advertised as voices of VoiceID. The multilingual models
	// speak all of them.
	Locales []string
	BaseURL string
	// ReadTimeout bounds the wait for each audio message.
	ReadTimeout time.Duration
}

// Backend is a tts.Backend that buffers one utterance of audio and plays it.
type Backend struct {
	cfg    Config
	player Player
	log    *slog.Logger
	dialer websocket.Dialer

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func New(cfg Config, player Player, log *slog.Logger) *Backend {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "eleven_multilingual_v2"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if len(cfg.Locales) == 0 {
		cfg.Locales = []string{"en-IN", "hi-IN"}
	}
	return &Backend{
		cfg:    cfg,
		player: player,
		log:    logging.NewComponentLogger(log, "elevenlabs_tts"),
		dialer: websocket.Dialer{Proxy: http.ProxyFromEnvironment, HandshakeTimeout: 10 * time.Second},
	}
}

func (b *Backend) Name() string { return "elevenlabs_tts" }

func (b *Backend) Voices(ctx context.Context) ([]voice.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]voice.Candidate, 0, len(b.cfg.Locales))
	for _, loc := range b.cfg.Locales {
		out = append(out, voice.Candidate{
			ID:                b.cfg.VoiceID,
			Name:              "ElevenLabs " + loc,
			Locale:            loc,
			EngineQualityHint: "neural",
		})
	}
	return out, nil
}

func (b *Backend) Speak(_ context.Context, req tts.Request, ev tts.Events) error {
	if b.cfg.APIKey == "" || b.cfg.VoiceID == "" {
		return errors.New("elevenlabs: missing api key or voice id")
	}
	b.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.cancel = cancel
	b.mu.Unlock()

	go func() {
		defer cancel()
		pcm, err := b.synthesize(ctx, req)
		if err != nil {
			if b.live(gen) {
				b.log.Error("elevenlabs_synthesis_failed", "utterance_id", req.ID, "error", err)
				ev.OnError(err)
			}
			return
		}
		err = b.player.Play(ctx, pcm, req.Volume, func() {
			if b.live(gen) {
				ev.OnStart()
			}
		})
		if !b.live(gen) {
			return
		}
		if err != nil {
			ev.OnError(err)
			return
		}
		ev.OnEnd()
	}()
	return nil
}

// Stop cancels the in-flight request. Its events are dropped.
func (b *Backend) Stop() {
	b.mu.Lock()
	b.gen++
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	b.player.Stop()
}

func (b *Backend) Pause() error {
	b.player.Pause()
	return nil
}

func (b *Backend) Resume() error {
	b.player.Resume()
	return nil
}

func (b *Backend) live(gen uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gen == gen
}

type streamMessage struct {
	Audio   string `json:"audio"`
	IsFinal bool   `json:"isFinal"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// synthesize sends req in one message and collects audio until the final
// chunk arrives.
func (b *Backend) synthesize(ctx context.Context, req tts.Request) ([]byte, error) {
	u, err := b.buildURL(req.VoiceID)
	if err != nil {
		return nil, err
	}
	conn, resp, err := b.dialer.DialContext(ctx, u, http.Header{"xi-api-key": []string{b.cfg.APIKey}})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			return nil, resilience.RateLimitError{Provider: "elevenlabs", Message: resp.Status, RetryAfter: retryAfter(resp)}
		}
		return nil, fmt.Errorf("elevenlabs: dial: %w", err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	text := strings.TrimSpace(req.Text)
	for _, payload := range []map[string]any{
		{
			"text":           " ",
			"voice_settings": voiceSettings(req),
		},
		{"text": text + " ", "flush": true},
		{"text": ""},
	} {
		if err := conn.WriteJSON(payload); err != nil {
			return nil, fmt.Errorf("elevenlabs: write: %w", err)
		}
	}

	var pcm []byte
	for {
		_ = conn.SetReadDeadline(time.Now().Add(b.cfg.ReadTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) && len(pcm) > 0 {
				return pcm, nil
			}
			return nil, fmt.Errorf("elevenlabs: read: %w", err)
		}
		var msg streamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			b.log.Warn("elevenlabs_bad_message", "bytes", len(data))
			continue
		}
		if msg.Error != "" {
			return nil, fmt.Errorf("elevenlabs: %s: %s", msg.Error, msg.Message)
		}
		if msg.Audio != "" {
			raw, err := base64.StdEncoding.DecodeString(msg.Audio)
			if err != nil {
				return nil, fmt.Errorf("elevenlabs: decode audio: %w", err)
			}
			pcm = append(pcm, raw...)
		}
		if msg.IsFinal {
			if len(pcm) == 0 {
				return nil, errors.New("elevenlabs: no audio returned")
			}
			b.log.Debug("elevenlabs_audio_ready", "utterance_id", req.ID, "bytes", len(pcm))
			return pcm, nil
		}
	}
}

func (b *Backend) buildURL(voiceID string) (string, error) {
	if voiceID == "" {
		voiceID = b.cfg.VoiceID
	}
	base, err := url.Parse(strings.TrimSuffix(b.cfg.BaseURL, "/") + "/" + url.PathEscape(voiceID) + "/stream-input")
	if err != nil {
		return "", err
	}
	q := base.Query()
	q.Set("model_id", b.cfg.ModelID)
	q.Set("output_format", "pcm_"+strconv.Itoa(b.cfg.SampleRate))
	base.RawQuery = q.Encode()
	return base.String(), nil
}

// voiceSettings maps the request rate onto the supported speed range.
func voiceSettings(req tts.Request) map[string]any {
	speed := req.Rate
	if speed <= 0 {
		speed = 1
	}
	speed = min(max(speed, 0.7), 1.2)
	return map[string]any{
		"stability":        0.5,
		"similarity_boost": 0.8,
		"speed":            speed,
	}
}

func retryAfter(resp *http.Response) time.Duration {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

var _ tts.Backend = (*Backend)(nil)
