// Package surface implements the echo operations of the fixture.
//
// Each operation accepts a value of one data shape and returns it unchanged
// in content. Scalars, pointers and noop are pure identity transforms with
// no side effects. String and record operations copy their byte payload
// through one shared fixed-capacity slot and return views that alias it,
// the semantics of a static buffer in a C test fixture:
//
//	s := surface.New()
//	r1, _ := s.EchoString([]byte("alpha"))
//	r2, _ := s.EchoString([]byte("omega"))
//	// r1 now reads "omega" too - the slot was overwritten
//
// Unlike a raw static buffer, the slot bounds-checks: a payload that does
// not fit (terminator included) is rejected with a capacity_exceeded error
// before any shared state changes.
//
// Ownership transfer is modeled with OwnedBuffer: EchoStringRelease
// consumes its argument, and any later use of the buffer fails with
// use_after_release. TrackingAllocator gives conformance suites a way to
// observe releases without touching freed memory.
//
// A Surface is NOT thread-safe; see the type's documentation.
package surface
