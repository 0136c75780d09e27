package surface

import (
	"github.com/wippyai/echo-surface/errors"
	"github.com/wippyai/echo-surface/handle"
)

// BufferTypeID is the handle table type ID for tracked owned buffers.
const BufferTypeID uint32 = 1

// OwnedBuffer is a caller-allocated byte buffer whose ownership can be
// transferred to the surface. Release consumes it: any later access fails
// with a use_after_release error instead of reading freed memory, the way a
// C callee freeing the caller's pointer would.
type OwnedBuffer struct {
	data      []byte
	onRelease func()
	released  bool
}

// NewOwnedBuffer wraps data in an owned buffer. The buffer takes ownership
// of the slice; the caller must not retain it.
func NewOwnedBuffer(data []byte) *OwnedBuffer {
	return &OwnedBuffer{data: data}
}

// Bytes returns the buffer content, or a use_after_release error once the
// buffer has been consumed.
func (b *OwnedBuffer) Bytes() ([]byte, error) {
	if b.released {
		return nil, errors.UseAfterRelease(errors.PhaseRelease, "bytes")
	}
	return b.data, nil
}

// Released reports whether the buffer has been consumed.
func (b *OwnedBuffer) Released() bool {
	return b.released
}

// Release consumes the buffer. A second Release is a use-after-release and
// fails without invoking the release hook again.
func (b *OwnedBuffer) Release() error {
	if b.released {
		return errors.UseAfterRelease(errors.PhaseRelease, "release")
	}
	b.released = true
	b.data = nil
	if b.onRelease != nil {
		b.onRelease()
	}
	return nil
}

// TrackingAllocator is a debug allocator for conformance runs. It mints
// owned buffers and accounts for live ones in a handle table, so a suite
// can verify that a release actually happened without dereferencing freed
// memory.
type TrackingAllocator struct {
	table    *handle.Table
	released int
}

// NewTrackingAllocator creates an allocator with an empty accounting table.
func NewTrackingAllocator() *TrackingAllocator {
	return &TrackingAllocator{table: handle.NewTable()}
}

// Acquire copies data into a new tracked owned buffer.
func (a *TrackingAllocator) Acquire(data []byte) *OwnedBuffer {
	buf := NewOwnedBuffer(append([]byte(nil), data...))
	h := a.table.Insert(BufferTypeID, buf)
	buf.onRelease = func() {
		a.table.Remove(h)
		a.released++
	}
	return buf
}

// Live returns the number of buffers acquired but not yet released.
func (a *TrackingAllocator) Live() int {
	return a.table.Len()
}

// Released returns the number of buffers that have been consumed.
func (a *TrackingAllocator) Released() int {
	return a.released
}
