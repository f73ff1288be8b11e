package observers

import (
	"log/slog"
	"sync"
	"time"

	"github.com/stellaroneai/swara/pkg/metrics"
)

// TurnLatency breaks one turn into its stages. Durations are -1 when a stage
// was never reached.
type TurnLatency struct {
	TurnID    string
	Outcome   string
	CaptureMs int64 // turn start to final transcript
	AnswerMs  int64 // final transcript to answer ready
	FirstMs   int64 // final transcript to first audio
	TotalMs   int64
}

// LatencyObserver logs one latency line per finished turn.
type LatencyObserver struct {
	mu     sync.Mutex
	traces map[string]*trace
	last   TurnLatency
	log    *slog.Logger
}

type trace struct {
	start        time.Time
	captureFinal time.Time
	answerReady  time.Time
	speechStart  time.Time
}

func NewLatencyObserver(log *slog.Logger) *LatencyObserver {
	if log == nil {
		log = slog.Default()
	}
	return &LatencyObserver{
		traces: make(map[string]*trace),
		log:    log,
	}
}

func (o *LatencyObserver) RecordEvent(ev metrics.Event) {
	turnID := ev.Tags[metrics.TagTurnID]
	if turnID == "" {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	t := o.traces[turnID]
	if t == nil {
		t = &trace{}
		o.traces[turnID] = t
	}
	switch ev.Name {
	case metrics.EventTurnStart:
		t.start = ev.Time
	case metrics.EventCaptureFinal:
		if t.captureFinal.IsZero() {
			t.captureFinal = ev.Time
		}
	case metrics.EventAnswerReady:
		t.answerReady = ev.Time
	case metrics.EventSpeechStart:
		if t.speechStart.IsZero() {
			t.speechStart = ev.Time
		}
	case metrics.EventTurnEnd:
		o.last = TurnLatency{
			TurnID:    turnID,
			Outcome:   ev.Tags[metrics.TagOutcome],
			CaptureMs: durationMs(t.start, t.captureFinal),
			AnswerMs:  durationMs(t.captureFinal, t.answerReady),
			FirstMs:   durationMs(t.captureFinal, t.speechStart),
			TotalMs:   durationMs(t.start, ev.Time),
		}
		o.logLocked(o.last)
		delete(o.traces, turnID)
	}
}

// Last returns the latency of the most recently finished turn.
func (o *LatencyObserver) Last() TurnLatency {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

func (o *LatencyObserver) logLocked(l TurnLatency) {
	o.log.Info("turn_latency",
		"turn_id", l.TurnID,
		"outcome", l.Outcome,
		"capture_ms", l.CaptureMs,
		"answer_ms", l.AnswerMs,
		"first_audio_ms", l.FirstMs,
		"total_ms", l.TotalMs,
	)
}

func durationMs(a, b time.Time) int64 {
	if a.IsZero() || b.IsZero() {
		return -1
	}
	return b.Sub(a).Milliseconds()
}
