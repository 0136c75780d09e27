package surface

// Pointer is an opaque address token. The surface never dereferences one;
// echoing a pointer is an identity transform over the token value, and 0
// (the null address) is as valid as any other.
type Pointer uint64

// Surface is the echo fixture: one operation per data shape, each returning
// its input unchanged in content. String and record operations copy through
// the shared slot; everything else is a pure identity transform.
//
// A Surface is NOT thread-safe. The shared slot and shared record behave
// like static C storage: concurrent callers race on them, and callers that
// need isolation use one Surface per goroutine.
type Surface struct {
	slot   Slot
	record Record
}

// New creates a surface with a zeroed slot and record.
func New() *Surface {
	return &Surface{}
}

// AddIntegers returns the sum of two 32-bit integers, wrapping on overflow
// the way the type does.
func (s *Surface) AddIntegers(a, b int32) int32 {
	return a + b
}

// EchoI8 returns n unchanged.
func (s *Surface) EchoI8(n int8) int8 { return n }

// EchoU8 returns n unchanged.
func (s *Surface) EchoU8(n uint8) uint8 { return n }

// EchoI16 returns n unchanged.
func (s *Surface) EchoI16(n int16) int16 { return n }

// EchoU16 returns n unchanged.
func (s *Surface) EchoU16(n uint16) uint16 { return n }

// EchoI32 returns n unchanged.
func (s *Surface) EchoI32(n int32) int32 { return n }

// EchoU32 returns n unchanged.
func (s *Surface) EchoU32(n uint32) uint32 { return n }

// EchoI64 returns n unchanged.
func (s *Surface) EchoI64(n int64) int64 { return n }

// EchoU64 returns n unchanged.
func (s *Surface) EchoU64(n uint64) uint64 { return n }

// EchoSize returns n unchanged. uint is the platform-native width, standing
// in for size_t.
func (s *Surface) EchoSize(n uint) uint { return n }

// EchoF32 returns f unchanged, bit pattern included.
func (s *Surface) EchoF32(f float32) float32 { return f }

// EchoF64 returns f unchanged, bit pattern included.
func (s *Surface) EchoF64(f float64) float64 { return f }

// EchoBool returns b unchanged.
func (s *Surface) EchoBool(b bool) bool { return b }

// EchoPointer returns p unchanged without inspecting what it refers to.
func (s *Surface) EchoPointer(p Pointer) Pointer { return p }

// Noop does nothing.
func (s *Surface) Noop() {}

// EchoString copies data through the shared slot and returns a view of the
// copy. The view aliases the slot: the next slot-backed call overwrites it.
// Content over the slot capacity is rejected with capacity_exceeded.
func (s *Surface) EchoString(data []byte) ([]byte, error) {
	return s.slot.Fill(data)
}

// EchoStringRelease is EchoString with ownership transfer: after a
// successful copy the input buffer is consumed and must not be used again.
// On a capacity error nothing is mutated and the buffer stays live.
func (s *Surface) EchoStringRelease(buf *OwnedBuffer) ([]byte, error) {
	data, err := buf.Bytes()
	if err != nil {
		return nil, err
	}
	view, err := s.slot.Fill(data)
	if err != nil {
		return nil, err
	}
	if err := buf.Release(); err != nil {
		return nil, err
	}
	return view, nil
}

// EchoRecordByValue returns a new record with the scalar fields copied and
// the string field repointed into the shared slot.
func (s *Surface) EchoRecordByValue(r Record) (Record, error) {
	view, err := s.slot.Fill(r.C)
	if err != nil {
		return Record{}, err
	}
	return Record{A: r.A, B: r.B, C: view, D: r.D}, nil
}

// EchoRecordByPointer copies r into the shared record instance and returns
// a pointer to it. The pointer is stable across calls; the pointee reflects
// only the most recent call.
func (s *Surface) EchoRecordByPointer(r Record) (*Record, error) {
	view, err := s.slot.Fill(r.C)
	if err != nil {
		return nil, err
	}
	s.record.A = r.A
	s.record.B = r.B
	s.record.C = view
	s.record.D = r.D
	return &s.record, nil
}

// SlotGeneration exposes the slot's overwrite counter for conformance
// checks of the aliasing contract.
func (s *Surface) SlotGeneration() uint64 {
	return s.slot.Generation()
}
