// Package harness runs the conformance checks of the echo surface.
//
// Each check exercises one observable property of the surface: scalar and
// float identity, string copies through the shared slot, aliasing of slot
// views, ownership transfer, record round-trips, and capacity rejection.
// Checks run against a fresh surface each time, so a failing check never
// poisons the ones after it.
//
// # Usage
//
//	h := harness.New()
//	results := h.Run()
//	for _, r := range harness.Failed(results) {
//	    fmt.Printf("FAIL %s: %v\n", r.Name, r.Err)
//	}
//
// The harness is what cmd/run executes by default. It is also usable as a
// library to validate alternative surface implementations.
package harness
