package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/stellaroneai/swara/pkg/logging"
)

// FramesPerBuffer is the capture chunk size (64 ms at 16 kHz).
const FramesPerBuffer = 1024

// ErrMicrophoneBusy is returned by Start while a recording is running.
var ErrMicrophoneBusy = errors.New("audio: microphone already recording")

// Microphone streams 16-bit PCM from the default input device.
type Microphone struct {
	format Format
	log    *slog.Logger

	mu      sync.Mutex
	stream  *portaudio.Stream
	buffer  []int16
	running bool
	done    chan struct{}
}

// NewMicrophone initializes portaudio. Close releases it.
func NewMicrophone(f Format, log *slog.Logger) (*Microphone, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio: init input: %w", err)
	}
	return &Microphone{
		format: f,
		log:    logging.NewComponentLogger(log, "microphone"),
		buffer: make([]int16, FramesPerBuffer*f.Channels),
	}, nil
}

// Format returns the PCM format of delivered chunks.
func (m *Microphone) Format() Format { return m.format }

// Probe opens and closes the default input stream. It is how the
// recognition backends check microphone permission.
func (m *Microphone) Probe() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil
	}
	stream, err := portaudio.OpenDefaultStream(m.format.Channels, 0, float64(m.format.SampleRate), FramesPerBuffer, m.buffer)
	if err != nil {
		return fmt.Errorf("audio: open input: %w", err)
	}
	return stream.Close()
}

// Start records until Stop, handing every chunk to onChunk from a
// dedicated goroutine.
func (m *Microphone) Start(onChunk func(pcm []byte)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return ErrMicrophoneBusy
	}
	stream, err := portaudio.OpenDefaultStream(m.format.Channels, 0, float64(m.format.SampleRate), FramesPerBuffer, m.buffer)
	if err != nil {
		return fmt.Errorf("audio: open input: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("audio: start input: %w", err)
	}
	m.stream = stream
	m.running = true
	m.done = make(chan struct{})
	go m.loop(stream, m.done, onChunk)
	m.log.Debug("microphone_started", "sample_rate", m.format.SampleRate)
	return nil
}

func (m *Microphone) loop(stream *portaudio.Stream, done chan struct{}, onChunk func([]byte)) {
	defer close(done)
	for m.isRunning() {
		available, err := stream.AvailableToRead()
		if err != nil || available < FramesPerBuffer {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if err := stream.Read(); err != nil {
			if m.isRunning() {
				m.log.Debug("microphone_read_failed", "error", err)
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}
		m.mu.Lock()
		chunk := EncodePCM16(m.buffer)
		m.mu.Unlock()
		if onChunk != nil && m.isRunning() {
			onChunk(chunk)
		}
	}
}

// Stop ends the recording. It waits briefly for the read loop to exit.
func (m *Microphone) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stream, done := m.stream, m.done
	m.stream = nil
	m.mu.Unlock()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
	}
	if stream != nil {
		stream.Stop()
		stream.Close()
	}
	m.log.Debug("microphone_stopped")
}

// IsRecording reports whether Start is in effect.
func (m *Microphone) IsRecording() bool { return m.isRunning() }

// Close stops recording and releases portaudio.
func (m *Microphone) Close() error {
	m.Stop()
	return portaudio.Terminate()
}

func (m *Microphone) isRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
