package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonPermissionDenied   ReasonCode = "permission_denied"
	ReasonBackendUnavailable ReasonCode = "backend_unavailable"
	ReasonRecognition        ReasonCode = "recognition_error"
	ReasonCaptureTimeout     ReasonCode = "capture_timeout"

	ReasonNoVoiceMatch ReasonCode = "no_voice_match"
	ReasonStartTimeout ReasonCode = "start_timeout"
	ReasonSynthesis    ReasonCode = "synthesis_error"

	ReasonQuery     ReasonCode = "query"
	ReasonRateLimit ReasonCode = "rate_limit"
	ReasonDial      ReasonCode = "dial"
	ReasonConfig    ReasonCode = "config"
)

// Recoverable reports whether the host may simply retry the turn after
// an error with this reason. Every reason in this engine is recoverable
// except a configuration problem, which needs a restart.
func (r ReasonCode) Recoverable() bool {
	return r != ReasonConfig
}
