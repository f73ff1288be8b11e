package metrics

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// JSONLObserver streams every event as one JSON object per line, for log
// shippers that tail stdout.
type JSONLObserver struct {
	mu  sync.Mutex
	enc *json.Encoder
}

type jsonlRecord struct {
	Event  string            `json:"event"`
	At     time.Time         `json:"at"`
	Value  float64           `json:"value,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
	Fields map[string]any    `json:"fields,omitempty"`
}

func NewJSONLObserver(w io.Writer) *JSONLObserver {
	if w == nil {
		w = io.Discard
	}
	return &JSONLObserver{enc: json.NewEncoder(w)}
}

// RecordEvent drops events whose fields cannot be encoded.
func (o *JSONLObserver) RecordEvent(ev Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_ = o.enc.Encode(jsonlRecord{Event: ev.Name, At: ev.Time, Value: ev.Value, Tags: ev.Tags, Fields: ev.Fields})
}
