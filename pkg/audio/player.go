package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/stellaroneai/swara/pkg/logging"
)

// ErrStopped is returned by Play when Stop interrupted playback.
var ErrStopped = errors.New("audio: playback stopped")

// oto allows a single context per process.
var (
	otoOnce   sync.Once
	otoCtx    *oto.Context
	otoFormat Format
	otoErr    error
)

func sharedContext(f Format) (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   f.SampleRate,
			ChannelCount: f.Channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			otoErr = fmt.Errorf("audio: open output device: %w", err)
			return
		}
		<-ready
		otoCtx, otoFormat = ctx, f
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoFormat != f {
		return nil, fmt.Errorf("audio: output already opened at %d Hz/%d ch", otoFormat.SampleRate, otoFormat.Channels)
	}
	return otoCtx, nil
}

// Player plays one PCM buffer at a time on the default output device.
type Player struct {
	ctx    *oto.Context
	format Format
	log    *slog.Logger

	mu      sync.Mutex
	active  *oto.Player
	paused  bool
	stopped bool
}

// NewPlayer opens the output device. It fails when no device is available.
func NewPlayer(f Format, log *slog.Logger) (*Player, error) {
	ctx, err := sharedContext(f)
	if err != nil {
		return nil, err
	}
	log = logging.NewComponentLogger(log, "audio_player")
	log.Debug("audio_player_ready", "sample_rate", f.SampleRate, "channels", f.Channels)
	return &Player{ctx: ctx, format: f, log: log}, nil
}

// Format returns the PCM format the player expects.
func (p *Player) Format() Format { return p.format }

// Play blocks until pcm has been played, Stop is called or ctx ends.
// onStart fires once the device begins consuming samples.
func (p *Player) Play(ctx context.Context, pcm []byte, volume float64, onStart func()) error {
	player := p.ctx.NewPlayer(bytes.NewReader(pcm))
	if volume > 0 {
		player.SetVolume(volume)
	}

	p.mu.Lock()
	if p.active != nil {
		p.active.Pause()
	}
	p.active = player
	p.paused = false
	p.stopped = false
	p.mu.Unlock()

	player.Play()
	if onStart != nil {
		onStart()
	}
	p.log.Debug("audio_play", "bytes", len(pcm))

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			player.Pause()
			p.release(player)
			_ = player.Close()
			return ctx.Err()
		case <-ticker.C:
		}
		p.mu.Lock()
		stopped := p.stopped || p.active != player
		paused := p.paused
		p.mu.Unlock()
		if stopped {
			p.release(player)
			_ = player.Close()
			return ErrStopped
		}
		if !paused && !player.IsPlaying() {
			break
		}
	}
	p.release(player)
	return player.Close()
}

// Stop interrupts the current buffer. Safe to call when idle.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active != nil {
		p.active.Pause()
		p.stopped = true
	}
}

// Pause suspends the current buffer.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active != nil && !p.paused {
		p.active.Pause()
		p.paused = true
	}
}

// Resume continues a paused buffer.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active != nil && p.paused {
		p.active.Play()
		p.paused = false
	}
}

func (p *Player) release(player *oto.Player) {
	p.mu.Lock()
	if p.active == player {
		p.active = nil
		p.paused = false
	}
	p.mu.Unlock()
}
