package twilio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twilio/twilio-go/twiml"

	"github.com/stellaroneai/swara/pkg/command"
	"github.com/stellaroneai/swara/pkg/controller"
	"github.com/stellaroneai/swara/pkg/errorsx"
	"github.com/stellaroneai/swara/pkg/logging"
	"github.com/stellaroneai/swara/pkg/redact"
	"github.com/stellaroneai/swara/pkg/resilience"
	"github.com/stellaroneai/swara/pkg/transports"
)

// EmergencySink calls every configured contact when an Emergency command is
// emitted. Other events are ignored.
type EmergencySink struct {
	cfg    Config
	dialer transports.OutboundDialer
	retry  resilience.RetryPolicy
	log    *slog.Logger
}

func NewEmergencySink(cfg Config, dialer transports.OutboundDialer, log *slog.Logger) *EmergencySink {
	cfg = cfg.withDefaults()
	if dialer == nil {
		dialer = NewDialer(cfg)
	}
	return &EmergencySink{
		cfg:    cfg,
		dialer: dialer,
		retry:  resilience.NewRetryPolicy(cfg.MaxRetries, 500*time.Millisecond),
		log:    logging.NewComponentLogger(log, "emergency_dialer"),
	}
}

func (s *EmergencySink) Emit(ctx context.Context, ev controller.Event) error {
	if ev.Kind != command.KindEmergency {
		return nil
	}
	if len(s.cfg.Contacts) == 0 {
		return errorsx.New(errorsx.ReasonDial, "no emergency contacts configured")
	}
	twiml, err := s.twiml()
	if err != nil {
		return errorsx.Wrap(err, errorsx.ReasonConfig)
	}
	var errs []error
	for _, to := range s.cfg.Contacts {
		var sid string
		err := s.retry.Do(ctx, func(ctx context.Context) error {
			var err error
			sid, err = s.dialer.Dial(ctx, to, s.cfg.From, transports.DialOptions{TwiML: twiml})
			return err
		})
		if err != nil {
			s.log.Error("emergency_dial_failed", "turn_id", ev.TurnID, "to", redact.Number(to), "error", err)
			errs = append(errs, fmt.Errorf("dial %s: %w", redact.Number(to), err))
			continue
		}
		s.log.Warn("emergency_call_placed", "turn_id", ev.TurnID, "to", redact.Number(to), "call_sid", sid)
	}
	if err := errors.Join(errs...); err != nil {
		return errorsx.Wrap(err, errorsx.ReasonDial)
	}
	return nil
}

// twiml reads the alert twice.
func (s *EmergencySink) twiml() (string, error) {
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{
			Message:  s.cfg.Message,
			Language: s.cfg.SayLanguage,
			Loop:     "2",
		},
	})
}

var _ controller.EventSink = (*EmergencySink)(nil)
