// Package transports places outbound calls on behalf of the engine.
package transports

import "context"

// DialOptions carries optional outbound dial settings. TwiML, when set,
// takes precedence over URL.
type DialOptions struct {
	URL        string
	TwiML      string
	SendDigits string
}

// OutboundDialer initiates outbound calls.
type OutboundDialer interface {
	Dial(ctx context.Context, to, from string, opts DialOptions) (callSID string, err error)
}
