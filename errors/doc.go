// Package errors provides structured error types for the echo fixture.
//
// Errors carry a Phase (where processing failed) and a Kind (what went
// wrong), so a conformance failure reads like:
//
//	[copy] capacity_exceeded: 2048 bytes (plus terminator) exceed slot capacity 1024
//	[lift] out_of_bounds: access out of bounds: offset=65532, length=16
//
// Matching is by Phase and Kind via errors.Is:
//
//	if errors.Is(err, &errors.Error{Phase: errors.PhaseCopy, Kind: errors.KindCapacityExceeded}) {
//	    // oversized payload was rejected before the slot was touched
//	}
//
// Use the Builder for errors needing paths or operation names, or the
// convenience constructors for the common cases.
package errors
