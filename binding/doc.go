// Package binding mounts the echo surface as a wazero host module.
//
// Every operation of the surface becomes a host function under the
// versioned namespace "echo:fixture/surface@1.0.0". A guest (or any binding
// layer driving the wazero runtime) imports the functions and exercises its
// marshalling against them.
//
// # Wire Conventions
//
// Scalars travel flattened on the value stack: narrow integers
// sign-extended inside an i32, 64-bit integers and opaque pointers as i64,
// floats by bit pattern, bools as 0/1 in an i32.
//
// String-family functions marshal through guest linear memory. The guest
// passes (ptr, len) for the payload and a return pointer for the copy; the
// host reads the payload with bounds checks, copies it through the shared
// slot, writes the copy (zero-terminated) to the return pointer, and
// returns the content length as an i64. Negative results are status codes:
//
//	CodeCapacityExceeded  payload does not fit the slot
//	CodeOutOfBounds       ptr/len or return pointer outside guest memory
//	CodeInvalidHandle     unknown or already-consumed handle
//	CodeInvalidInput      anything else
//
// # Ownership Transfer
//
// The release variant models C's "callee frees the caller's buffer"
// convention as capability consumption: buffer-new copies guest bytes
// into a host owned buffer and returns its handle; echo-string-release
// echoes the buffer's content and consumes it. The handle is dead
// afterwards, so a second use reports CodeInvalidHandle instead of touching
// freed memory.
//
// # Records
//
// Records travel flattened (f64, i32, string ptr/len, bool i32) plus a
// return pointer for the record wire layout. echo-record returns the scalar
// fields on the stack; echo-record-ptr returns the stable handle of the
// shared record instance, whose content reflects only the most recent call.
//
// # Version Matching
//
// The Registry resolves "namespace@version#function" paths with
// semver-compatible matching: an import of @1.0.0 binds against any
// registered 1.x.y that is not older.
package binding
