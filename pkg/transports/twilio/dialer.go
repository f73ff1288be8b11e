// Package twilio calls emergency contacts through the Twilio REST API.
package twilio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/stellaroneai/swara/pkg/transports"
)

type Config struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	From       string `mapstructure:"from"`
	// Contacts are dialed in order on every emergency.
	Contacts []string `mapstructure:"contacts"`
	// Message is read to the callee. SayLanguage selects the Twilio voice
	// language for it.
	Message     string `mapstructure:"message"`
	SayLanguage string `mapstructure:"say_language"`
	MaxRetries  int    `mapstructure:"max_retries"`
}

const defaultMessage = "This is an automated emergency alert from your family member's voice assistant. They have asked for help. Please check on them immediately."

func (c Config) withDefaults() Config {
	if c.Message == "" {
		c.Message = defaultMessage
	}
	if c.SayLanguage == "" {
		c.SayLanguage = "en-IN"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
	return c
}

type callCreator interface {
	CreateCall(params *api.CreateCallParams) (*api.ApiV2010Call, error)
}

// Dialer provides outbound call creation via Twilio REST API.
type Dialer struct {
	cfg    Config
	client callCreator
}

func NewDialer(cfg Config) *Dialer {
	return &Dialer{cfg: cfg.withDefaults()}
}

// Dial places an outbound call. It does not wait for the call to connect.
func (d *Dialer) Dial(ctx context.Context, to, from string, opts transports.DialOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if from == "" {
		from = d.cfg.From
	}
	if to == "" || from == "" {
		return "", errors.New("twilio: to/from required")
	}
	if d.cfg.AccountSID == "" || d.cfg.AuthToken == "" {
		return "", errors.New("twilio: missing credentials")
	}
	if opts.TwiML == "" && opts.URL == "" {
		return "", errors.New("twilio: twiml or url required")
	}
	client := d.client
	if client == nil {
		rest := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: d.cfg.AccountSID,
			Password: d.cfg.AuthToken,
		})
		client = rest.Api
	}
	params := &api.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(from)
	if opts.TwiML != "" {
		params.SetTwiml(opts.TwiML)
	} else {
		params.SetUrl(opts.URL)
	}
	if strings.TrimSpace(opts.SendDigits) != "" {
		params.SetSendDigits(opts.SendDigits)
	}
	resp, err := client.CreateCall(params)
	if err != nil {
		return "", err
	}
	if resp == nil || resp.Sid == nil {
		return "", fmt.Errorf("twilio: missing call sid")
	}
	return *resp.Sid, nil
}

var _ transports.OutboundDialer = (*Dialer)(nil)
