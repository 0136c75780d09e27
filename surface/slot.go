package surface

import (
	"github.com/wippyai/echo-surface/errors"
)

// Capacity is the fixed size of the shared slot in bytes. Content plus the
// zero terminator must fit.
const Capacity = 1024

// Slot is the shared single-slot buffer every string-family operation copies
// through. It has "last write wins" semantics: the view returned by one Fill
// is overwritten by the next. Not thread-safe by contract.
type Slot struct {
	buf [Capacity]byte
	n   int
	gen uint64
}

// Fill copies data plus a zero terminator into the slot and returns a view
// aliasing the slot's storage. Oversized payloads are rejected with a
// capacity_exceeded error before the slot is touched.
func (s *Slot) Fill(data []byte) ([]byte, error) {
	if len(data)+1 > Capacity {
		return nil, errors.CapacityExceeded(errors.PhaseCopy, len(data), Capacity)
	}
	n := copy(s.buf[:], data)
	s.buf[n] = 0
	s.n = n
	s.gen++
	return s.buf[:n], nil
}

// Bytes returns a view of the current content, terminator excluded.
func (s *Slot) Bytes() []byte {
	return s.buf[:s.n]
}

// Generation returns the overwrite counter. It bumps on every Fill, letting
// a conformance suite observe that a previous view has been invalidated.
func (s *Slot) Generation() uint64 {
	return s.gen
}
