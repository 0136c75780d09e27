package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseCopy,
				Kind:   KindCapacityExceeded,
				Path:   []string{"record", "c"},
				Op:     "echo-record",
				Detail: "payload too large",
			},
			contains: []string{"[copy]", "capacity_exceeded", "record.c", "echo-record", "payload too large"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseLift,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[lift]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseBind,
				Kind:   KindRegistration,
				Detail: "register failed",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[bind]", "registration", "register failed", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseRelease,
		Kind:  KindUseAfterRelease,
		Cause: cause,
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestError_Is(t *testing.T) {
	err := CapacityExceeded(PhaseCopy, 2048, 1024)

	if !errors.Is(err, &Error{Phase: PhaseCopy, Kind: KindCapacityExceeded}) {
		t.Error("Is should match on phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseLift, Kind: KindCapacityExceeded}) {
		t.Error("Is should not match a different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseCopy, Kind: KindOutOfBounds}) {
		t.Error("Is should not match a different kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("boom")
	err := New(PhaseLower, KindOutOfBounds).
		Path("result").
		Op("echo-string").
		Detail("retptr past end: %d", 70000).
		Cause(cause).
		Value(uint32(70000)).
		Build()

	if err.Phase != PhaseLower || err.Kind != KindOutOfBounds {
		t.Fatalf("builder lost phase/kind: %v", err)
	}
	msg := err.Error()
	for _, s := range []string{"[lower]", "out_of_bounds", "result", "echo-string", "70000", "boom"} {
		if !strings.Contains(msg, s) {
			t.Errorf("message %q missing %q", msg, s)
		}
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		phase    Phase
		kind     Kind
		contains string
	}{
		{"capacity", CapacityExceeded(PhaseCopy, 1500, 1024), PhaseCopy, KindCapacityExceeded, "1024"},
		{"use after release", UseAfterRelease(PhaseRelease, "echo-string-release"), PhaseRelease, KindUseAfterRelease, "already released"},
		{"invalid handle", InvalidHandle(PhaseLift, 42), PhaseLift, KindInvalidHandle, "42"},
		{"out of bounds", OutOfBounds(PhaseLift, 100, 200), PhaseLift, KindOutOfBounds, "offset=100"},
		{"registration", Registration("echo:fixture/surface@1.0.0", "echo-i8", errors.New("dup")), PhaseBind, KindRegistration, "echo-i8"},
		{"not found", NotFound(PhaseBind, "operation", "echo-i128"), PhaseBind, KindNotFound, "echo-i128"},
		{"invalid input", InvalidInput(PhaseCheck, "empty namespace"), PhaseCheck, KindInvalidInput, "empty namespace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("phase = %q, want %q", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("message %q missing %q", tt.err.Error(), tt.contains)
			}
		})
	}
}
