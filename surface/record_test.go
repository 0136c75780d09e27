package surface

import (
	"bytes"
	"errors"
	"testing"

	surferrors "github.com/wippyai/echo-surface/errors"
)

func TestEchoRecordByValue(t *testing.T) {
	s := New()

	in := Record{A: 3.14, B: 42, C: []byte("hello"), D: true}
	out, err := s.EchoRecordByValue(in)
	if err != nil {
		t.Fatalf("EchoRecordByValue failed: %v", err)
	}

	if out.A != 3.14 || out.B != 42 || out.D != true {
		t.Fatalf("scalar fields mangled: %+v", out)
	}
	if !bytes.Equal(out.C, []byte("hello")) {
		t.Fatalf("C = %q, want %q", out.C, "hello")
	}

	// The string field aliases the slot, not the input.
	if &out.C[0] == &in.C[0] {
		t.Fatal("C should be a copy in the shared slot, not the input storage")
	}
}

func TestEchoRecordByPointer_StableAddress(t *testing.T) {
	s := New()

	p1, err := s.EchoRecordByPointer(Record{A: 1.5, B: 1, C: []byte("first"), D: false})
	if err != nil {
		t.Fatalf("EchoRecordByPointer failed: %v", err)
	}
	p2, err := s.EchoRecordByPointer(Record{A: 2.5, B: 2, C: []byte("later"), D: true})
	if err != nil {
		t.Fatalf("EchoRecordByPointer failed: %v", err)
	}

	// Same shared instance across calls.
	if p1 != p2 {
		t.Fatal("record pointer must be stable across calls")
	}

	// Single-slot overwrite: the pointee reflects only the last call.
	if p1.A != 2.5 || p1.B != 2 || p1.D != true {
		t.Fatalf("pointee = %+v, want fields of the second call", p1)
	}
	if !bytes.Equal(p1.C, []byte("later")) {
		t.Fatalf("C = %q, want %q", p1.C, "later")
	}
}

func TestEchoRecord_SlotSharedWithStrings(t *testing.T) {
	s := New()

	out, err := s.EchoRecordByValue(Record{A: 1, B: 1, C: []byte("recrd"), D: false})
	if err != nil {
		t.Fatalf("EchoRecordByValue failed: %v", err)
	}
	if _, err := s.EchoString([]byte("newer")); err != nil {
		t.Fatalf("EchoString failed: %v", err)
	}

	// Record string field and string echoes share the one slot.
	if !bytes.Equal(out.C, []byte("newer")) {
		t.Fatalf("record view = %q after string echo, want %q", out.C, "newer")
	}
}

func TestEchoRecord_CapacityExceeded(t *testing.T) {
	s := New()

	big := bytes.Repeat([]byte{'x'}, Capacity)
	_, err := s.EchoRecordByValue(Record{C: big})
	if !errors.Is(err, &surferrors.Error{Phase: surferrors.PhaseCopy, Kind: surferrors.KindCapacityExceeded}) {
		t.Fatalf("by-value error = %v, want capacity_exceeded", err)
	}

	// The shared record must be untouched by the failed call.
	p, err := s.EchoRecordByPointer(Record{A: 9, B: 9, C: []byte("ok"), D: true})
	if err != nil {
		t.Fatalf("EchoRecordByPointer failed: %v", err)
	}
	if _, err := s.EchoRecordByPointer(Record{C: big}); err == nil {
		t.Fatal("by-pointer echo of oversized record should fail")
	}
	if p.B != 9 || !bytes.Equal(p.C, []byte("ok")) {
		t.Fatalf("failed call mutated the shared record: %+v", p)
	}
}

func TestEchoRecord_EmptyStringField(t *testing.T) {
	s := New()

	out, err := s.EchoRecordByValue(Record{A: -0.5, B: -7, C: nil, D: false})
	if err != nil {
		t.Fatalf("EchoRecordByValue failed: %v", err)
	}
	if len(out.C) != 0 {
		t.Fatalf("C = %q, want empty", out.C)
	}
	if out.A != -0.5 || out.B != -7 || out.D != false {
		t.Fatalf("scalar fields mangled: %+v", out)
	}
}
