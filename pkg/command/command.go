// Package command classifies transcripts into navigation, emergency or
// free-form query commands.
package command

// Kind tags the Command variant.
type Kind int

const (
	KindQuery Kind = iota
	KindNavigate
	KindEmergency
)

func (k Kind) String() string {
	switch k {
	case KindNavigate:
		return "navigate"
	case KindEmergency:
		return "emergency"
	default:
		return "query"
	}
}

// Navigation targets agreed with the host.
const (
	TargetAppointments  = "appointments"
	TargetConsultation  = "consultation"
	TargetHealthRecords = "health_records"
	TargetMedications   = "medications"
	TargetInsurance     = "insurance"
	TargetABHA          = "abha"
	TargetDashboard     = "dashboard"
	TargetSettings      = "settings"
)

// Emergency targets.
const (
	TargetAmbulance = "ambulance"
	TargetEmergency = "emergency"
)

// Command is the result of interpreting a transcript. Target is set for
// Navigate and Emergency; Text always carries the original transcript.
type Command struct {
	Kind    Kind
	Target  string
	Text    string
	Keyword string
}

func Navigate(target string) Command  { return Command{Kind: KindNavigate, Target: target} }
func Emergency(target string) Command { return Command{Kind: KindEmergency, Target: target} }
func Query(text string) Command       { return Command{Kind: KindQuery, Text: text} }

// IsQuery reports whether the command should go to the answerer.
func (c Command) IsQuery() bool { return c.Kind == KindQuery }
