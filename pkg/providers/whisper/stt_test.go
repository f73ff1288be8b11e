package whisper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stellaroneai/swara/pkg/adapters/stt"
	"github.com/stellaroneai/swara/pkg/logging"
)

type fakeRecorder struct {
	text   string
	onText func(string)
	mu     sync.Mutex
	stops  int
}

func (r *fakeRecorder) Start() error { return nil }

func (r *fakeRecorder) Stop() {
	r.mu.Lock()
	r.stops++
	r.mu.Unlock()
	r.onText(r.text)
}

type result struct {
	finals []string
	err    error
	ended  bool
}

func newBackend(text string) (*Backend, *fakeRecorder) {
	b := New(Config{ModelPath: "model.bin", MaxRecord: time.Hour}, logging.Discard())
	rec := &fakeRecorder{text: text}
	b.newRecord = func(_ Config, onText func(string)) (recorder, error) {
		rec.onText = onText
		return rec, nil
	}
	return b, rec
}

func collect(done chan<- result) stt.Handlers {
	var r result
	return stt.Handlers{
		OnPartial: func(string) {},
		OnFinal:   func(s string) { r.finals = append(r.finals, s) },
		OnError: func(err error) {
			r.err = err
			done <- r
		},
		OnEnd: func() {
			r.ended = true
			done <- r
		},
	}
}

func TestFinishDeliversCleanedTranscript(t *testing.T) {
	b, _ := newBackend("[00:00:00.000 --> 00:00:02.000] Call my daughter (coughing)")
	done := make(chan result, 1)
	if err := b.Start(context.Background(), "en-IN", collect(done)); err != nil {
		t.Fatalf("start: %v", err)
	}
	_ = b.Finish()
	select {
	case r := <-done:
		if !r.ended || len(r.finals) != 1 || r.finals[0] != "Call my daughter" {
			t.Fatalf("unexpected result %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out")
	}
}

func TestSilentClipReportsNoSpeech(t *testing.T) {
	b, _ := newBackend("[BLANK_AUDIO]")
	done := make(chan result, 1)
	_ = b.Start(context.Background(), "hi-IN", collect(done))
	_ = b.Finish()
	select {
	case r := <-done:
		if !errors.Is(r.err, stt.ErrNoSpeech) {
			t.Fatalf("expected no speech, got %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out")
	}
}

func TestStopDropsTranscript(t *testing.T) {
	b, rec := newBackend("hello")
	done := make(chan result, 1)
	_ = b.Start(context.Background(), "en-IN", collect(done))
	_ = b.Stop()
	time.Sleep(50 * time.Millisecond)
	select {
	case r := <-done:
		t.Fatalf("stopped recording must not deliver, got %+v", r)
	default:
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.stops != 1 {
		t.Fatalf("expected recorder stopped once, got %d", rec.stops)
	}
}

func TestMaxRecordFinishes(t *testing.T) {
	b, _ := newBackend("dawai")
	b.cfg.MaxRecord = 20 * time.Millisecond
	done := make(chan result, 1)
	_ = b.Start(context.Background(), "hi-IN", collect(done))
	select {
	case r := <-done:
		if len(r.finals) != 1 || r.finals[0] != "dawai" {
			t.Fatalf("unexpected result %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected auto finish")
	}
}

func TestCleanTranscription(t *testing.T) {
	cases := map[string]string{
		"  Thank you. ":          "",
		"(music) [Music]":        "",
		"mujhe\n doctor chahiye": "mujhe doctor chahiye",
		"Help me (inaudible)":    "Help me",
	}
	for in, want := range cases {
		if got := cleanTranscription(in); got != want {
			t.Fatalf("cleanTranscription(%q) = %q, want %q", in, got, want)
		}
	}
}
