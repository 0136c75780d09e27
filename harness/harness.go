package harness

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/wippyai/echo-surface/errors"
	"github.com/wippyai/echo-surface/surface"
)

// Check is one conformance property of the echo surface.
type Check struct {
	Name string
	Desc string
	run  func(s *surface.Surface) error
}

// Result is the outcome of one check.
type Result struct {
	Name   string
	Passed bool
	Err    error
}

// Harness runs the conformance checks against a surface. Each Run gets a
// fresh surface so checks cannot leak slot state into each other.
type Harness struct {
	checks []Check
}

// New creates a harness with the full check set.
func New() *Harness {
	return &Harness{checks: Checks()}
}

// Run executes every check and returns one result per check.
func (h *Harness) Run() []Result {
	results := make([]Result, 0, len(h.checks))
	for _, c := range h.checks {
		err := c.run(surface.New())
		results = append(results, Result{Name: c.Name, Passed: err == nil, Err: err})
		if err != nil {
			Logger().Warn("check failed", zap.String("check", c.Name), zap.Error(err))
		} else {
			Logger().Debug("check passed", zap.String("check", c.Name))
		}
	}
	return results
}

// Failed filters results down to the failing ones.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// Checks returns the conformance properties of the surface.
func Checks() []Check {
	return []Check{
		{
			Name: "scalar-identity",
			Desc: "integer echoes return their input at every type boundary",
			run:  checkScalarIdentity,
		},
		{
			Name: "float-bit-identity",
			Desc: "float echoes preserve exact bit patterns, NaN payloads included",
			run:  checkFloatBitIdentity,
		},
		{
			Name: "bool-identity",
			Desc: "bool echoes return their input",
			run:  checkBoolIdentity,
		},
		{
			Name: "pointer-identity",
			Desc: "opaque pointers round-trip without dereference",
			run:  checkPointerIdentity,
		},
		{
			Name: "string-copy",
			Desc: "string echoes return equal content through the shared slot",
			run:  checkStringCopy,
		},
		{
			Name: "aliasing-invalidation",
			Desc: "an earlier slot view reflects the latest write",
			run:  checkAliasingInvalidation,
		},
		{
			Name: "ownership-release",
			Desc: "a transferred buffer is consumed exactly once",
			run:  checkOwnershipRelease,
		},
		{
			Name: "record-round-trip",
			Desc: "records echo by value with equal fields",
			run:  checkRecordRoundTrip,
		},
		{
			Name: "record-pointer-stability",
			Desc: "the shared record address is stable and last-write-wins",
			run:  checkRecordPointerStability,
		},
		{
			Name: "capacity-rejection",
			Desc: "oversized payloads are rejected without mutating the slot",
			run:  checkCapacityRejection,
		},
	}
}

func checkScalarIdentity(s *surface.Surface) error {
	for _, n := range []int8{math.MinInt8, -1, 0, 1, math.MaxInt8} {
		if got := s.EchoI8(n); got != n {
			return fmt.Errorf("echo-i8(%d) = %d", n, got)
		}
	}
	for _, n := range []int16{math.MinInt16, -1, 0, math.MaxInt16} {
		if got := s.EchoI16(n); got != n {
			return fmt.Errorf("echo-i16(%d) = %d", n, got)
		}
	}
	for _, n := range []int32{math.MinInt32, -1, 0, math.MaxInt32} {
		if got := s.EchoI32(n); got != n {
			return fmt.Errorf("echo-i32(%d) = %d", n, got)
		}
	}
	for _, n := range []int64{math.MinInt64, -1, 0, math.MaxInt64} {
		if got := s.EchoI64(n); got != n {
			return fmt.Errorf("echo-i64(%d) = %d", n, got)
		}
	}
	for _, n := range []uint8{0, 1, math.MaxUint8} {
		if got := s.EchoU8(n); got != n {
			return fmt.Errorf("echo-u8(%d) = %d", n, got)
		}
	}
	for _, n := range []uint16{0, math.MaxUint16} {
		if got := s.EchoU16(n); got != n {
			return fmt.Errorf("echo-u16(%d) = %d", n, got)
		}
	}
	for _, n := range []uint32{0, math.MaxUint32} {
		if got := s.EchoU32(n); got != n {
			return fmt.Errorf("echo-u32(%d) = %d", n, got)
		}
	}
	for _, n := range []uint64{0, math.MaxUint64} {
		if got := s.EchoU64(n); got != n {
			return fmt.Errorf("echo-u64(%d) = %d", n, got)
		}
	}
	for _, n := range []uint{0, 4096, math.MaxUint} {
		if got := s.EchoSize(n); got != n {
			return fmt.Errorf("echo-size(%d) = %d", n, got)
		}
	}
	if got := s.AddIntegers(math.MaxInt32, 1); got != math.MinInt32 {
		return fmt.Errorf("add overflow = %d, want wraparound", got)
	}
	return nil
}

func checkFloatBitIdentity(s *surface.Surface) error {
	f32Bits := []uint32{
		0x00000000, // +0
		0x80000000, // -0
		0x7f800000, // +inf
		0xff800000, // -inf
		0x7fc00bad, // NaN with payload
		math.Float32bits(-1.5),
	}
	for _, bits := range f32Bits {
		got := math.Float32bits(s.EchoF32(math.Float32frombits(bits)))
		if got != bits {
			return fmt.Errorf("echo-f32 bits %#08x = %#08x", bits, got)
		}
	}
	f64Bits := []uint64{
		0x0000000000000000,
		0x8000000000000000,
		0x7ff0000000000000,
		0xfff0000000000000,
		0x7ff800000000beef,
		math.Float64bits(2.718281828459045),
	}
	for _, bits := range f64Bits {
		got := math.Float64bits(s.EchoF64(math.Float64frombits(bits)))
		if got != bits {
			return fmt.Errorf("echo-f64 bits %#016x = %#016x", bits, got)
		}
	}
	return nil
}

func checkBoolIdentity(s *surface.Surface) error {
	if got := s.EchoBool(true); !got {
		return fmt.Errorf("echo-bool(true) = %v", got)
	}
	if got := s.EchoBool(false); got {
		return fmt.Errorf("echo-bool(false) = %v", got)
	}
	return nil
}

func checkPointerIdentity(s *surface.Surface) error {
	for _, p := range []surface.Pointer{0, 1, 0xdeadbeefcafe, math.MaxUint64} {
		if got := s.EchoPointer(p); got != p {
			return fmt.Errorf("echo-pointer(%#x) = %#x", p, got)
		}
	}
	s.Noop()
	return nil
}

func checkStringCopy(s *surface.Surface) error {
	in := []byte("the quick brown fox")
	view, err := s.EchoString(in)
	if err != nil {
		return err
	}
	if !bytes.Equal(view, in) {
		return fmt.Errorf("echo-string = %q, want %q", view, in)
	}
	if len(in) > 0 && &view[0] == &in[0] {
		return fmt.Errorf("echo-string returned the input backing array, want a copy")
	}
	return nil
}

func checkAliasingInvalidation(s *surface.Surface) error {
	first, err := s.EchoString([]byte("alpha"))
	if err != nil {
		return err
	}
	gen := s.SlotGeneration()
	if _, err := s.EchoString([]byte("omega")); err != nil {
		return err
	}
	if string(first) != "omega" {
		return fmt.Errorf("earlier view = %q, want the slot's latest content", first)
	}
	if s.SlotGeneration() != gen+1 {
		return fmt.Errorf("slot generation %d, want %d", s.SlotGeneration(), gen+1)
	}
	return nil
}

func checkOwnershipRelease(s *surface.Surface) error {
	alloc := surface.NewTrackingAllocator()
	buf := alloc.Acquire([]byte("transferred"))
	if alloc.Live() != 1 {
		return fmt.Errorf("live buffers = %d, want 1", alloc.Live())
	}

	view, err := s.EchoStringRelease(buf)
	if err != nil {
		return err
	}
	if string(view) != "transferred" {
		return fmt.Errorf("echo-string-release = %q", view)
	}
	if alloc.Live() != 0 || alloc.Released() != 1 {
		return fmt.Errorf("allocator live=%d released=%d after release", alloc.Live(), alloc.Released())
	}

	_, err = s.EchoStringRelease(buf)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseRelease, Kind: errors.KindUseAfterRelease}) {
		return fmt.Errorf("second release = %v, want use-after-release", err)
	}
	return nil
}

func checkRecordRoundTrip(s *surface.Surface) error {
	in := surface.Record{A: 3.14159, B: -42, C: []byte("payload"), D: true}
	out, err := s.EchoRecordByValue(in)
	if err != nil {
		return err
	}
	if out.A != in.A || out.B != in.B || out.D != in.D {
		return fmt.Errorf("record fields = %+v, want %+v", out, in)
	}
	if !bytes.Equal(out.C, in.C) {
		return fmt.Errorf("record string = %q, want %q", out.C, in.C)
	}
	return nil
}

func checkRecordPointerStability(s *surface.Surface) error {
	p1, err := s.EchoRecordByPointer(surface.Record{A: 1, B: 1, C: []byte("first"), D: false})
	if err != nil {
		return err
	}
	p2, err := s.EchoRecordByPointer(surface.Record{A: 2, B: 2, C: []byte("later"), D: true})
	if err != nil {
		return err
	}
	if p1 != p2 {
		return fmt.Errorf("shared record address changed between calls")
	}
	if p2.B != 2 || !p2.D || string(p2.C) != "later" {
		return fmt.Errorf("shared record = %+v, want fields of the last call", p2)
	}
	return nil
}

func checkCapacityRejection(s *surface.Surface) error {
	before, err := s.EchoString([]byte("untouched"))
	if err != nil {
		return err
	}
	gen := s.SlotGeneration()

	oversized := make([]byte, surface.Capacity)
	_, err = s.EchoString(oversized)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCopy, Kind: errors.KindCapacityExceeded}) {
		return fmt.Errorf("oversized echo-string = %v, want capacity error", err)
	}
	if string(before) != "untouched" || s.SlotGeneration() != gen {
		return fmt.Errorf("rejected write mutated the slot")
	}

	_, err = s.EchoRecordByValue(surface.Record{C: oversized})
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCopy, Kind: errors.KindCapacityExceeded}) {
		return fmt.Errorf("oversized echo-record = %v, want capacity error", err)
	}

	// The largest payload that still leaves room for the terminator.
	fits := make([]byte, surface.Capacity-1)
	if _, err := s.EchoString(fits); err != nil {
		return fmt.Errorf("boundary payload rejected: %v", err)
	}
	return nil
}
