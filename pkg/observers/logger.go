package observers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stellaroneai/swara/pkg/llm"
	"github.com/stellaroneai/swara/pkg/logging"
	"github.com/stellaroneai/swara/pkg/metrics"
)

// LoggerObserver logs events. Turn boundaries, commands and breaker trips
// go out at info so a default-level log still tells the story of a session;
// everything else is debug.
type LoggerObserver struct {
	log  *slog.Logger
	info map[string]bool
}

func NewLoggerObserver(log *slog.Logger) *LoggerObserver {
	return &LoggerObserver{
		log: logging.NewComponentLogger(log, "events"),
		info: map[string]bool{
			metrics.EventTurnEnd:  true,
			metrics.EventCommand:  true,
			llm.EventBreakerOpen:  true,
			llm.EventBreakerClose: true,
		},
	}
}

func (o *LoggerObserver) RecordEvent(ev metrics.Event) {
	level := slog.LevelDebug
	if o.info[ev.Name] {
		level = slog.LevelInfo
	}
	ctx := context.Background()
	if !o.log.Enabled(ctx, level) {
		return
	}
	attrs := make([]slog.Attr, 0, len(ev.Tags)+len(ev.Fields))
	for k, v := range ev.Tags {
		attrs = append(attrs, slog.String(k, v))
	}
	for k, v := range ev.Fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	o.log.LogAttrs(ctx, level, ev.Name, attrs...)
}

// MultiObserver fans events out to several observers.
type MultiObserver []metrics.Observer

func NewMultiObserver(list ...metrics.Observer) MultiObserver {
	out := make(MultiObserver, 0, len(list))
	for _, obs := range list {
		if obs != nil {
			out = append(out, obs)
		}
	}
	return out
}

func (m MultiObserver) RecordEvent(ev metrics.Event) {
	for _, obs := range m {
		obs.RecordEvent(ev)
	}
}

// Flush flushes every observer that buffers output.
func (m MultiObserver) Flush() error {
	var errs []error
	for _, obs := range m {
		if f, ok := obs.(metrics.Flusher); ok {
			errs = append(errs, f.Flush())
		}
	}
	return errors.Join(errs...)
}
