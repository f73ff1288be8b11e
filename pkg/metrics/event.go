package metrics

import (
	"sync"
	"time"
)

// Event names recorded by the engine over one turn.
const (
	EventTurnStart    = "turn_start"
	EventCapturePart  = "capture_partial"
	EventCaptureFinal = "capture_final"
	EventCommand      = "command"
	EventAnswerReady  = "answer_ready"
	EventSpeechStart  = "speech_start"
	EventSpeechEnd    = "speech_end"
	EventTurnEnd      = "turn_end"
)

// Tag keys shared by events.
const (
	TagTurnID      = "turn_id"
	TagUtteranceID = "utterance_id"
	TagCaptureID   = "capture_id"
	TagLanguage    = "language"
	TagBackend     = "backend"
	TagOutcome     = "outcome"
)

type Event struct {
	Name   string
	Time   time.Time
	Value  float64
	Tags   map[string]string
	Fields map[string]any
}

type Observer interface {
	RecordEvent(ev Event)
}

type Flusher interface {
	Flush() error
}

type NoopObserver struct{}

func (NoopObserver) RecordEvent(Event) {}

// Record stamps and forwards an event. A nil observer is ignored.
func Record(obs Observer, name string, tags map[string]string, fields map[string]any) {
	if obs == nil {
		return
	}
	obs.RecordEvent(Event{Name: name, Time: time.Now(), Tags: tags, Fields: fields})
}

// MemoryObserver keeps every event in memory. Used by tests and the
// interactive example to print a turn summary.
type MemoryObserver struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryObserver() *MemoryObserver {
	return &MemoryObserver{}
}

func (m *MemoryObserver) RecordEvent(ev Event) {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
}

// Events returns a snapshot of recorded events.
func (m *MemoryObserver) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Names returns recorded event names in arrival order.
func (m *MemoryObserver) Names() []string {
	events := m.Events()
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Name)
	}
	return out
}
