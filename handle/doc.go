// Package handle provides an opaque handle table for capability tokens.
//
// A Handle stands in for a host-side value crossing the call boundary: the
// caller gets an integer token, never an address, and the surface never
// inspects what the token refers to. The binding uses the table for
// guest-visible buffer and record handles; the debug allocator uses it to
// account for live owned buffers.
//
// # Handle Table
//
//	table := handle.NewTable()
//
//	// Insert a value, get a handle
//	h := table.Insert(typeID, myValue)
//
//	// Retrieve value by handle
//	value, ok := table.Get(h)
//
//	// Remove and get value (for ownership transfer)
//	value, ok := table.Remove(h)
//
// Handles are generational: once removed, a handle stays invalid even after
// its table slot is reused, so a consumed capability cannot be resurrected
// by a later insert.
//
// # Type Safety
//
// Handles are typed; each kind of host value gets a type ID:
//
//	const BufferTypeID = 1
//	const RecordTypeID = 2
//
//	value, ok := table.GetTyped(h, BufferTypeID) // fails for a record handle
//
// # Observers
//
// Subscribe observers to track handle lifecycle events, e.g. to log or
// count creations and releases during a conformance run.
package handle
