package physics

import "strconv"

// Handle addresses a body slot in an Arena. It packs a 1-based slot id in the
// low 32 bits and a generation counter in the high 32 bits, so a handle to a
// removed-and-reused slot goes stale instead of aliasing the new occupant.
// The zero Handle is never valid.
type Handle uint64

const handleIDBits = 32

// WorldBoundary is the pseudo-handle reported to collision callbacks when a
// body reflects off the world bounds. It never resolves to a body.
const WorldBoundary Handle = 1<<63 | 1

func makeHandle(id, gen uint32) Handle {
	return Handle(uint64(gen)<<handleIDBits | uint64(id))
}

func (h Handle) id() uint32 {
	return uint32(h)
}

func (h Handle) generation() uint32 {
	return uint32(uint64(h) >> handleIDBits)
}

// Valid reports whether the handle could address a body. It does not check
// liveness; Arena.Get does.
func (h Handle) Valid() bool {
	return h != 0 && h != WorldBoundary
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

type slot struct {
	body Body
	gen  uint32
	live bool
}

// Arena is a fixed-capacity body pool. Slots are reused in O(1) through a
// free list; generations keep stale handles from reaching the new occupant.
type Arena struct {
	slots []slot
	free  []uint32
	count int
}

// NewArena returns an arena that can hold up to capacity bodies.
func NewArena(capacity int) *Arena {
	if capacity < 1 {
		capacity = 1
	}
	a := &Arena{
		slots: make([]slot, capacity),
		free:  make([]uint32, 0, capacity),
	}
	// Fill the free list back to front so slot 0 is handed out first.
	for i := capacity - 1; i >= 0; i-- {
		a.free = append(a.free, uint32(i))
	}
	return a
}

// Add stores a body and returns its handle. The second return is false when
// the arena is full.
func (a *Arena) Add(b Body) (Handle, bool) {
	if a == nil || len(a.free) == 0 {
		return 0, false
	}
	idx := a.free[len(a.free)-1]
	a.free = a.free[:len(a.free)-1]

	s := &a.slots[idx]
	s.body = b
	s.live = true
	a.count++
	return makeHandle(idx+1, s.gen), true
}

// Get returns the body for h, or nil if h is stale, invalid, or freed.
// The pointer stays valid until the slot is removed.
func (a *Arena) Get(h Handle) *Body {
	s := a.lookup(h)
	if s == nil {
		return nil
	}
	return &s.body
}

// Remove frees the slot addressed by h. Returns false for stale or invalid
// handles.
func (a *Arena) Remove(h Handle) bool {
	s := a.lookup(h)
	if s == nil {
		return false
	}
	s.live = false
	s.gen++
	s.body = Body{}
	a.free = append(a.free, h.id()-1)
	a.count--
	return true
}

// Len is the number of live bodies.
func (a *Arena) Len() int {
	if a == nil {
		return 0
	}
	return a.count
}

// ForEach calls fn for every live body in slot order. fn may mutate the body
// through the pointer but must not add or remove bodies.
func (a *Arena) ForEach(fn func(h Handle, b *Body)) {
	if a == nil || fn == nil {
		return
	}
	for i := range a.slots {
		s := &a.slots[i]
		if !s.live {
			continue
		}
		fn(makeHandle(uint32(i)+1, s.gen), &s.body)
	}
}

func (a *Arena) lookup(h Handle) *slot {
	if a == nil || !h.Valid() {
		return nil
	}
	idx := h.id()
	if idx == 0 || int(idx) > len(a.slots) {
		return nil
	}
	s := &a.slots[idx-1]
	if !s.live || s.gen != h.generation() {
		return nil
	}
	return s
}
