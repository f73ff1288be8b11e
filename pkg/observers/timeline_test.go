package observers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stellaroneai/swara/pkg/metrics"
)

func TestTimelineObserverWritesJSONLPerTurn(t *testing.T) {
	dir := t.TempDir()
	obs := NewTimelineObserver(dir)

	now := time.Now()
	obs.RecordEvent(metrics.Event{
		Name: metrics.EventTurnStart,
		Time: now,
		Tags: map[string]string{metrics.TagTurnID: "turn-1", metrics.TagLanguage: "hindi"},
	})
	obs.RecordEvent(metrics.Event{
		Name: metrics.EventSpeechStart,
		Time: now.Add(time.Second),
		Tags: map[string]string{metrics.TagTurnID: "turn-1", metrics.TagUtteranceID: "utt-9"},
	})
	obs.RecordEvent(metrics.Event{
		Name: metrics.EventTurnEnd,
		Time: now.Add(2 * time.Second),
		Tags: map[string]string{metrics.TagTurnID: "turn-1", metrics.TagOutcome: "completed"},
	})
	obs.RecordEvent(metrics.Event{Name: metrics.EventSpeechStart, Time: now})
	_ = obs.Close()

	b, err := os.ReadFile(filepath.Join(dir, "turn-1.jsonl"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[1], `"utterance_id":"utt-9"`) {
		t.Fatalf("expected utterance id promoted, got %s", lines[1])
	}
	if _, err := os.Stat(filepath.Join(dir, "session.jsonl")); err != nil {
		t.Fatalf("expected untagged events in session file: %v", err)
	}
}
