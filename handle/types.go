package handle

// Handle is an opaque 64-bit capability token referencing a host value.
// Handle 0 is reserved and always invalid. The low 32 bits index the table
// slot, the high 32 bits carry the slot generation, so a released handle is
// never resurrected when its slot is reused.
type Handle uint64

// Event types for handle lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventReleased
)

// Event represents a handle lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	TypeID uint32
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
type Observer interface {
	OnHandleEvent(Event)
}

// Releaser is optionally implemented by values that need cleanup when their
// handle is removed from the table.
type Releaser interface {
	ReleaseValue()
}
