package surface

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	surferrors "github.com/wippyai/echo-surface/errors"
)

func TestSlot_Fill(t *testing.T) {
	var s Slot

	view, err := s.Fill([]byte("hello"))
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if !bytes.Equal(view, []byte("hello")) {
		t.Fatalf("view = %q, want %q", view, "hello")
	}
	if !bytes.Equal(s.Bytes(), []byte("hello")) {
		t.Fatalf("Bytes() = %q, want %q", s.Bytes(), "hello")
	}
}

func TestSlot_ViewAliasesSlot(t *testing.T) {
	var s Slot

	first, err := s.Fill([]byte("alpha"))
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if _, err := s.Fill([]byte("omega")); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}

	// Last write wins: the earlier view now reads the later content.
	if !bytes.Equal(first, []byte("omega")) {
		t.Fatalf("stale view = %q, want %q", first, "omega")
	}
}

func TestSlot_Generation(t *testing.T) {
	var s Slot

	if s.Generation() != 0 {
		t.Fatalf("fresh slot generation = %d, want 0", s.Generation())
	}
	s.Fill([]byte("a"))
	s.Fill([]byte("b"))
	if s.Generation() != 2 {
		t.Fatalf("generation = %d, want 2", s.Generation())
	}
}

func TestSlot_CapacityBoundary(t *testing.T) {
	var s Slot

	// Capacity-1 content bytes plus terminator exactly fit.
	max := bytes.Repeat([]byte{'x'}, Capacity-1)
	view, err := s.Fill(max)
	if err != nil {
		t.Fatalf("Fill of %d bytes should fit: %v", len(max), err)
	}
	if len(view) != Capacity-1 {
		t.Fatalf("view length = %d, want %d", len(view), Capacity-1)
	}

	gen := s.Generation()

	// One more byte no longer leaves room for the terminator.
	over := bytes.Repeat([]byte{'x'}, Capacity)
	_, err = s.Fill(over)
	if err == nil {
		t.Fatal("Fill of over-capacity payload should fail")
	}
	if !errors.Is(err, &surferrors.Error{Phase: surferrors.PhaseCopy, Kind: surferrors.KindCapacityExceeded}) {
		t.Fatalf("error = %v, want capacity_exceeded", err)
	}
	if !strings.Contains(err.Error(), "1024") {
		t.Fatalf("error message should name the capacity: %v", err)
	}

	// Rejection must happen before any mutation.
	if s.Generation() != gen {
		t.Fatal("failed Fill must not bump the generation")
	}
	if !bytes.Equal(s.Bytes(), max) {
		t.Fatal("failed Fill must not disturb slot content")
	}
}

func TestSlot_EmptyPayload(t *testing.T) {
	var s Slot

	view, err := s.Fill(nil)
	if err != nil {
		t.Fatalf("Fill(nil) failed: %v", err)
	}
	if len(view) != 0 {
		t.Fatalf("view length = %d, want 0", len(view))
	}
}
