package observers

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/stellaroneai/swara/pkg/metrics"
)

// UsageSummary is the billable usage of one turn: seconds of recognition,
// characters sent to synthesis and answerer calls.
type UsageSummary struct {
	TurnID        string  `json:"turn_id"`
	Language      string  `json:"language,omitempty"`
	CaptureSec    float64 `json:"capture_seconds"`
	SpeechChars   int     `json:"speech_chars"`
	AnswerCalls   int     `json:"answer_calls"`
	Outcome       string  `json:"outcome,omitempty"`
	RecordedAtUTC string  `json:"recorded_at_utc"`

	started time.Time
}

// UsageObserver accumulates per-turn usage and writes one JSON file per turn
// on Close.
type UsageObserver struct {
	dir   string
	mu    sync.Mutex
	stats map[string]*UsageSummary
}

func NewUsageObserver(dir string) *UsageObserver {
	return &UsageObserver{dir: dir, stats: make(map[string]*UsageSummary)}
}

func (o *UsageObserver) RecordEvent(ev metrics.Event) {
	id := ev.Tags[metrics.TagTurnID]
	if id == "" {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	stat := o.stats[id]
	if stat == nil {
		stat = &UsageSummary{TurnID: id, Language: ev.Tags[metrics.TagLanguage]}
		o.stats[id] = stat
	}
	switch ev.Name {
	case metrics.EventTurnStart:
		stat.started = ev.Time
	case metrics.EventCaptureFinal:
		if !stat.started.IsZero() {
			stat.CaptureSec += ev.Time.Sub(stat.started).Seconds()
		}
	case metrics.EventAnswerReady:
		stat.AnswerCalls++
	case metrics.EventSpeechStart:
		stat.SpeechChars += intField(ev.Fields, "chars")
	case metrics.EventTurnEnd:
		stat.Outcome = ev.Tags[metrics.TagOutcome]
	}
}

// Summary returns a copy of the usage recorded for turnID.
func (o *UsageObserver) Summary(turnID string) (UsageSummary, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	stat, ok := o.stats[turnID]
	if !ok {
		return UsageSummary{}, false
	}
	return *stat, true
}

func (o *UsageObserver) Close() error {
	if strings.TrimSpace(o.dir) == "" {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return err
	}
	var errOut error
	for id, stat := range o.stats {
		stat.RecordedAtUTC = time.Now().UTC().Format(time.RFC3339)
		b, err := json.MarshalIndent(stat, "", "  ")
		if err != nil {
			errOut = errors.Join(errOut, err)
			continue
		}
		path := filepath.Join(o.dir, sanitizeID(id)+".usage.json")
		if err := os.WriteFile(path, b, 0o644); err != nil {
			errOut = errors.Join(errOut, err)
		}
	}
	o.stats = make(map[string]*UsageSummary)
	return errOut
}

func intField(fields map[string]any, key string) int {
	switch v := fields[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

var _ metrics.Observer = (*UsageObserver)(nil)
