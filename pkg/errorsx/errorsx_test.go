package errorsx

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapAndReason(t *testing.T) {
	err := Wrap(assertErr{}, ReasonRecognition)
	if Reason(err) != ReasonRecognition {
		t.Fatalf("expected reason %s, got %s", ReasonRecognition, Reason(err))
	}
	if !HasReason(err, ReasonRecognition) {
		t.Fatalf("expected HasReason true")
	}
}

func TestWrapPreservesExistingReason(t *testing.T) {
	first := Wrap(assertErr{}, ReasonPermissionDenied)
	second := Wrap(first, ReasonQuery)
	if Reason(second) != ReasonPermissionDenied {
		t.Fatalf("expected reason preserved, got %s", Reason(second))
	}
}

func TestReasonSurvivesFmtWrap(t *testing.T) {
	err := fmt.Errorf("turn: %w", New(ReasonCaptureTimeout, "no terminal event"))
	if !HasReason(err, ReasonCaptureTimeout) {
		t.Fatalf("expected capture_timeout through fmt wrap, got %s", Reason(err))
	}
	if err.Error() != "turn: no terminal event" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestNilAndUnknown(t *testing.T) {
	if Wrap(nil, ReasonQuery) != nil {
		t.Fatalf("expected nil passthrough")
	}
	if Reason(nil) != ReasonUnknown || Reason(assertErr{}) != ReasonUnknown {
		t.Fatalf("expected unknown reason")
	}
	if ReasonConfig.Recoverable() || !ReasonStartTimeout.Recoverable() {
		t.Fatalf("unexpected recoverability")
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestErrorfKeepsChain(t *testing.T) {
	base := assertErr{}
	err := Errorf(ReasonDial, "call %s: %w", "****1234", base)
	if !HasReason(err, ReasonDial) {
		t.Fatalf("expected dial reason, got %s", Reason(err))
	}
	if err.Error() != "call ****1234: boom" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	var target assertErr
	if !errors.As(err, &target) {
		t.Fatalf("expected wrapped error to be reachable")
	}
}
