package controller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/stellaroneai/swara/pkg/command"
	"github.com/stellaroneai/swara/pkg/language"
	"github.com/stellaroneai/swara/pkg/logging"
	"github.com/stellaroneai/swara/pkg/redact"
)

// Event is handed to the host for Navigate and Emergency commands.
type Event struct {
	Kind       command.Kind
	Target     string
	Language   language.Tag
	Transcript string
	TurnID     string
	At         time.Time
}

// EventSink receives command events. Emit must not block for long; the turn
// waits for it before speaking the confirmation.
type EventSink interface {
	Emit(ctx context.Context, ev Event) error
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(ctx context.Context, ev Event) error

func (f SinkFunc) Emit(ctx context.Context, ev Event) error { return f(ctx, ev) }

// LogSink writes events to a logger.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: logging.NewComponentLogger(log, "events")}
}

func (s *LogSink) Emit(_ context.Context, ev Event) error {
	s.log.Info("command_event",
		"kind", ev.Kind.String(),
		"target", ev.Target,
		"language", ev.Language.String(),
		"turn_id", ev.TurnID,
		"transcript", redact.Text(ev.Transcript),
	)
	return nil
}

// MultiSink fans an event out to every sink and joins their errors.
type MultiSink []EventSink

func (m MultiSink) Emit(ctx context.Context, ev Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Emit(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// KindFilter forwards only events of the given kinds.
func KindFilter(next EventSink, kinds ...command.Kind) EventSink {
	return SinkFunc(func(ctx context.Context, ev Event) error {
		for _, k := range kinds {
			if ev.Kind == k {
				return next.Emit(ctx, ev)
			}
		}
		return nil
	})
}
