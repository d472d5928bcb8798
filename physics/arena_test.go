package physics

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func testCircle(t *testing.T, id string, x, y float64) Body {
	t.Helper()
	b, err := NewCircle(id, cp.Vector{X: x, Y: y}, 10, 1, 0.8, 0)
	if err != nil {
		t.Fatalf("NewCircle(%s): %v", id, err)
	}
	return b
}

func TestArenaLifecycle(t *testing.T) {
	cases := []struct {
		name        string
		capacity    int
		add         int
		removeIndex int // -1 = none
	}{
		{"single", 4, 1, 0},
		{"remove_middle", 4, 3, 1},
		{"none_removed", 2, 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := NewArena(c.capacity)
			handles := make([]Handle, 0, c.add)
			for i := 0; i < c.add; i++ {
				h, ok := a.Add(testCircle(t, "m", float64(i)*30, 50))
				if !ok {
					t.Fatalf("Add %d should succeed", i)
				}
				handles = append(handles, h)
			}
			if a.Len() != c.add {
				t.Fatalf("expected %d live bodies, got %d", c.add, a.Len())
			}
			if c.removeIndex >= 0 {
				h := handles[c.removeIndex]
				if !a.Remove(h) {
					t.Fatalf("Remove should return true for live handle")
				}
				if a.Get(h) != nil {
					t.Fatalf("Get should return nil after removal")
				}
				if a.Remove(h) {
					t.Fatalf("double Remove should return false")
				}
				if a.Len() != c.add-1 {
					t.Fatalf("expected %d live bodies after removal, got %d", c.add-1, a.Len())
				}
			}
		})
	}
}

func TestArenaSlotReuseInvalidatesStaleHandles(t *testing.T) {
	a := NewArena(1)
	h1, ok := a.Add(testCircle(t, "first", 10, 10))
	if !ok {
		t.Fatalf("first Add should succeed")
	}
	if _, ok := a.Add(testCircle(t, "overflow", 20, 20)); ok {
		t.Fatalf("Add past capacity should fail")
	}
	if !a.Remove(h1) {
		t.Fatalf("Remove should succeed")
	}

	h2, ok := a.Add(testCircle(t, "second", 30, 30))
	if !ok {
		t.Fatalf("Add into freed slot should succeed")
	}
	if h1 == h2 {
		t.Fatalf("reused slot must produce a fresh handle")
	}
	if a.Get(h1) != nil {
		t.Fatalf("stale handle must not reach the new occupant")
	}
	got := a.Get(h2)
	if got == nil || got.ID != "second" {
		t.Fatalf("fresh handle should resolve to the new body, got %+v", got)
	}
}

func TestHandleValidity(t *testing.T) {
	if Handle(0).Valid() {
		t.Fatalf("zero handle must be invalid")
	}
	if WorldBoundary.Valid() {
		t.Fatalf("WorldBoundary must not address a body")
	}
	a := NewArena(2)
	if a.Get(WorldBoundary) != nil {
		t.Fatalf("WorldBoundary lookup should be nil")
	}
}
