package surface

import (
	"math"
	"testing"
)

func TestScalarIdentity_Signed(t *testing.T) {
	s := New()

	for _, n := range []int8{math.MinInt8, -1, 0, 1, math.MaxInt8} {
		if got := s.EchoI8(n); got != n {
			t.Errorf("EchoI8(%d) = %d", n, got)
		}
	}
	for _, n := range []int16{math.MinInt16, -1, 0, 1, math.MaxInt16} {
		if got := s.EchoI16(n); got != n {
			t.Errorf("EchoI16(%d) = %d", n, got)
		}
	}
	for _, n := range []int32{math.MinInt32, -1, 0, 1, math.MaxInt32} {
		if got := s.EchoI32(n); got != n {
			t.Errorf("EchoI32(%d) = %d", n, got)
		}
	}
	for _, n := range []int64{math.MinInt64, -1, 0, 1, math.MaxInt64} {
		if got := s.EchoI64(n); got != n {
			t.Errorf("EchoI64(%d) = %d", n, got)
		}
	}
}

func TestScalarIdentity_Unsigned(t *testing.T) {
	s := New()

	for _, n := range []uint8{0, 1, math.MaxUint8} {
		if got := s.EchoU8(n); got != n {
			t.Errorf("EchoU8(%d) = %d", n, got)
		}
	}
	for _, n := range []uint16{0, 1, math.MaxUint16} {
		if got := s.EchoU16(n); got != n {
			t.Errorf("EchoU16(%d) = %d", n, got)
		}
	}
	for _, n := range []uint32{0, 1, math.MaxUint32} {
		if got := s.EchoU32(n); got != n {
			t.Errorf("EchoU32(%d) = %d", n, got)
		}
	}
	for _, n := range []uint64{0, 1, math.MaxUint64} {
		if got := s.EchoU64(n); got != n {
			t.Errorf("EchoU64(%d) = %d", n, got)
		}
	}
	for _, n := range []uint{0, 1, math.MaxUint} {
		if got := s.EchoSize(n); got != n {
			t.Errorf("EchoSize(%d) = %d", n, got)
		}
	}
}

func TestFloatIdentity_BitPatterns(t *testing.T) {
	s := New()

	f32bits := []uint32{
		0x00000000, // +0.0
		0x80000000, // -0.0
		0x7f800000, // +Inf
		0xff800000, // -Inf
		0x7fc00000, // quiet NaN
		0x7fc00bad, // NaN with payload
		math.Float32bits(3.14),
		math.Float32bits(float32(math.SmallestNonzeroFloat32)),
		math.Float32bits(math.MaxFloat32),
	}
	for _, bits := range f32bits {
		f := math.Float32frombits(bits)
		if got := math.Float32bits(s.EchoF32(f)); got != bits {
			t.Errorf("EchoF32 bits = %#08x, want %#08x", got, bits)
		}
	}

	f64bits := []uint64{
		0x0000000000000000, // +0.0
		0x8000000000000000, // -0.0
		0x7ff0000000000000, // +Inf
		0xfff0000000000000, // -Inf
		0x7ff8000000000000, // quiet NaN
		0x7ff800000000beef, // NaN with payload
		math.Float64bits(3.141592653589793),
		math.Float64bits(math.SmallestNonzeroFloat64),
		math.Float64bits(math.MaxFloat64),
	}
	for _, bits := range f64bits {
		f := math.Float64frombits(bits)
		if got := math.Float64bits(s.EchoF64(f)); got != bits {
			t.Errorf("EchoF64 bits = %#016x, want %#016x", got, bits)
		}
	}
}

func TestBoolIdentity(t *testing.T) {
	s := New()
	for _, b := range []bool{true, false} {
		if got := s.EchoBool(b); got != b {
			t.Errorf("EchoBool(%v) = %v", b, got)
		}
	}
}

func TestPointerIdentity(t *testing.T) {
	s := New()
	for _, p := range []Pointer{0, 1, 0xdeadbeef, math.MaxUint64} {
		if got := s.EchoPointer(p); got != p {
			t.Errorf("EchoPointer(%#x) = %#x", p, got)
		}
	}
}

func TestAddIntegers(t *testing.T) {
	s := New()

	tests := []struct {
		a, b, want int32
	}{
		{1, 2, 3},
		{-5, 5, 0},
		{math.MaxInt32, 1, math.MinInt32}, // wraps at type width
		{math.MinInt32, -1, math.MaxInt32},
	}
	for _, tt := range tests {
		if got := s.AddIntegers(tt.a, tt.b); got != tt.want {
			t.Errorf("AddIntegers(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNoop(t *testing.T) {
	s := New()
	gen := s.SlotGeneration()
	s.Noop()
	if s.SlotGeneration() != gen {
		t.Error("Noop must not touch the slot")
	}
}
