package surface

// Record is the fixed-layout composite the fixture marshals: a 64-bit
// float, a 32-bit signed integer, a byte string, and a boolean. After any
// record echo the C field aliases the shared slot.
type Record struct {
	A float64
	B int32
	C []byte
	D bool
}

// RecordTypeID is the handle table type ID for the shared record instance.
const RecordTypeID uint32 = 2
