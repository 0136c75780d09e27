package handle

import (
	"sync"
)

type entry struct {
	value  any
	typeID uint32
	gen    uint32
	valid  bool
}

// Table maps opaque handles to host values. Safe for concurrent use.
type Table struct {
	entries   []entry
	freeList  []uint32
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

// NewTable creates an empty handle table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

func compose(idx, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(idx+1))
}

// split returns the slot index and generation, or ok=false for handle 0.
func split(h Handle) (idx, gen uint32, ok bool) {
	low := uint32(h)
	if low == 0 {
		return 0, 0, false
	}
	return low - 1, uint32(h >> 32), true
}

// Insert adds a value and returns its handle, or 0 if the table is closed.
func (t *Table) Insert(typeID uint32, value any) Handle {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0
	}

	e := entry{
		value:  value,
		typeID: typeID,
		valid:  true,
	}

	var idx uint32
	if n := len(t.freeList); n > 0 {
		idx = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		e.gen = t.entries[idx].gen
		t.entries[idx] = e
	} else {
		idx = uint32(len(t.entries))
		t.entries = append(t.entries, e)
	}
	h := compose(idx, e.gen)
	t.mu.Unlock()

	t.notify(Event{
		Type:   EventCreated,
		Handle: h,
		TypeID: typeID,
		Value:  value,
	})

	return h
}

// Get retrieves a value by handle.
func (t *Table) Get(h Handle) (any, bool) {
	idx, gen, ok := split(h)
	if !ok {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if int(idx) >= len(t.entries) {
		return nil, false
	}
	e := t.entries[idx]
	if !e.valid || e.gen != gen {
		return nil, false
	}
	return e.value, true
}

// GetTyped retrieves a value only if it matches the expected type.
func (t *Table) GetTyped(h Handle, typeID uint32) (any, bool) {
	idx, gen, ok := split(h)
	if !ok {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if int(idx) >= len(t.entries) {
		return nil, false
	}
	e := t.entries[idx]
	if !e.valid || e.gen != gen || e.typeID != typeID {
		return nil, false
	}
	return e.value, true
}

// Remove drops a handle and returns (value, true) if it was live.
// The slot generation is bumped so the removed handle stays dead.
func (t *Table) Remove(h Handle) (any, bool) {
	idx, gen, ok := split(h)
	if !ok {
		return nil, false
	}

	t.mu.Lock()
	if int(idx) >= len(t.entries) {
		t.mu.Unlock()
		return nil, false
	}
	e := &t.entries[idx]
	if !e.valid || e.gen != gen {
		t.mu.Unlock()
		return nil, false
	}

	value := e.value
	typeID := e.typeID
	e.valid = false
	e.value = nil
	e.gen++
	t.freeList = append(t.freeList, idx)
	t.mu.Unlock()

	if r, ok := value.(Releaser); ok {
		r.ReleaseValue()
	}

	t.notify(Event{
		Type:   EventReleased,
		Handle: h,
		TypeID: typeID,
		Value:  value,
	})

	return value, true
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, e := range t.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each iterates over all live handles.
func (t *Table) Each(fn func(Handle, uint32, any) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i, e := range t.entries {
		if e.valid {
			if !fn(compose(uint32(i), e.gen), e.typeID, e.value) {
				break
			}
		}
	}
}

// Clear removes all live handles.
func (t *Table) Clear() {
	var handles []Handle
	t.Each(func(h Handle, typeID uint32, value any) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close releases all handles and stops accepting inserts.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true

	var released []any
	for i := range t.entries {
		if t.entries[i].valid {
			released = append(released, t.entries[i].value)
			t.entries[i].valid = false
			t.entries[i].value = nil
		}
	}
	t.entries = nil
	t.freeList = nil
	t.mu.Unlock()

	for _, v := range released {
		if r, ok := v.(Releaser); ok {
			r.ReleaseValue()
		}
	}
	return nil
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnHandleEvent(e)
	}
}
