// Package echosurface provides a marshalling-conformance fixture for
// foreign-function binding layers.
//
// The fixture is a set of echo operations: each accepts a value of one data
// shape (scalar, opaque pointer, byte string, or record) and returns it
// unchanged in content. A binding under test calls each operation and
// compares the result against the input, which exercises its marshalling of
// that shape across the call boundary end to end.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	echosurface/         Root package with the Memory interfaces
//	├── surface/         The echo operations and the shared slot
//	├── handle/          Opaque handle table for capability tokens
//	├── binding/         wazero host-module mounting of the surface
//	├── harness/         Conformance checks over any surface
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Exercise the surface in process:
//
//	s := surface.New()
//	out, err := s.EchoString([]byte("hello"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s\n", out) // "hello", aliasing the shared slot
//
// Or mount it for a WASM guest:
//
//	b := binding.New(s)
//	mod, err := b.Instantiate(ctx, wazeroRuntime)
//
// # The Shared Slot
//
// String and record operations copy their variable-length payload through
// one fixed-capacity slot, the way a C test fixture copies into a static
// buffer. The result of one slot-backed call is invalidated by the
// next; conformance suites must assert that aliasing, not work around it.
// Payloads that do not fit the slot are rejected with a capacity error
// before any shared state is touched.
//
// # Thread Safety
//
// The surface is a single-slot fixture and is NOT thread-safe. It models a
// test harness that serializes calls; concurrent slot-backed calls race by
// contract. The handle table and the binding registry are safe for
// concurrent use.
package echosurface
