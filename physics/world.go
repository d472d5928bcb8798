package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// SnapSpeed is the near-zero speed threshold: below it a body's velocity is
// snapped to zero during Step so friction never produces endless micro-drift.
// The same threshold defines settlement.
const SnapSpeed = 0.5

// World owns an arena of bodies and the boundary rectangle (0,0)-(Width,Height).
// It is not safe for concurrent use; one goroutine drives Step and reads state.
type World struct {
	Width  float64
	Height float64

	bodies *Arena

	// scratch avoids reallocating the pair-phase handle list every step.
	scratch []Handle
}

// NewWorld creates a world with the given bounds and body capacity.
func NewWorld(width, height float64, capacity int) *World {
	return &World{
		Width:  width,
		Height: height,
		bodies: NewArena(capacity),
	}
}

// Add inserts a body. The second return is false when the arena is full.
func (w *World) Add(b Body) (Handle, bool) {
	return w.bodies.Add(b)
}

// Get returns the body for h, or nil for stale handles.
func (w *World) Get(h Handle) *Body {
	return w.bodies.Get(h)
}

// Remove frees a body slot.
func (w *World) Remove(h Handle) bool {
	return w.bodies.Remove(h)
}

// ForEach visits every live body.
func (w *World) ForEach(fn func(h Handle, b *Body)) {
	w.bodies.ForEach(fn)
}

// Len is the number of live bodies.
func (w *World) Len() int {
	return w.bodies.Len()
}

// Step advances the simulation by dt seconds: integrate and damp every
// dynamic body, clamp it into bounds (reflecting velocity on the clamped
// axis), then detect and resolve every unordered pair once. Bodies are
// mutated in place; callbacks fire synchronously before Step returns.
func (w *World) Step(dt float64) {
	if w == nil || dt <= 0 {
		return
	}

	w.scratch = w.scratch[:0]
	w.bodies.ForEach(func(h Handle, b *Body) {
		w.scratch = append(w.scratch, h)
		if b.Static {
			return
		}

		b.Position = b.Position.Add(b.Velocity.Mult(dt))

		if b.Speed() > SnapSpeed {
			// Exponential decay normalized to a 60Hz frame so the same
			// friction coefficient behaves the same at any dt.
			b.Velocity = b.Velocity.Mult(math.Pow(1-b.Friction, dt*60))
		} else {
			b.Velocity = cp.Vector{}
		}

		w.clampToBounds(b)
	})

	for i := 0; i < len(w.scratch); i++ {
		a := w.bodies.Get(w.scratch[i])
		if a == nil {
			continue
		}
		for j := i + 1; j < len(w.scratch); j++ {
			b := w.bodies.Get(w.scratch[j])
			if b == nil {
				continue
			}
			w.resolve(w.scratch[i], a, w.scratch[j], b)
		}
	}

	// Pair corrections can shove a body back over a wall; a second clamp
	// keeps the containment guarantee at the end of every step. Bodies
	// already inside bounds are untouched and fire nothing.
	for _, h := range w.scratch {
		if b := w.bodies.Get(h); b != nil && !b.Static {
			w.clampToBounds(b)
		}
	}
}

// Settled reports whether every dynamic body's speed is below the snap
// threshold, i.e. the world has come to rest and an outcome can be read.
func (w *World) Settled() bool {
	if w == nil {
		return true
	}
	settled := true
	w.bodies.ForEach(func(_ Handle, b *Body) {
		if !b.Static && b.Speed() >= SnapSpeed {
			settled = false
		}
	})
	return settled
}

// CheckDistance reports whether the centers of a and b are within threshold
// of each other. Compared in squared space; symmetric in a and b.
func CheckDistance(a, b *Body, threshold float64) bool {
	if a == nil || b == nil {
		return false
	}
	delta := b.Position.Sub(a.Position)
	return delta.LengthSq() <= threshold*threshold
}

// clampToBounds keeps b inside [0,Width]x[0,Height] accounting for its
// extents, reflecting the velocity on each clamped axis scaled by the body's
// restitution. The callback receives the pre-reflection axis speed.
func (w *World) clampToBounds(b *Body) {
	extX, extY := b.extents()

	minX, maxX := extX, w.Width-extX
	minY, maxY := extY, w.Height-extY

	if b.Position.X < minX || b.Position.X > maxX {
		hit := math.Abs(b.Velocity.X)
		b.Position.X = clamp(b.Position.X, minX, maxX)
		b.Velocity.X = -b.Velocity.X * b.Restitution
		fireCollision(b, WorldBoundary, hit)
	}
	if b.Position.Y < minY || b.Position.Y > maxY {
		hit := math.Abs(b.Velocity.Y)
		b.Position.Y = clamp(b.Position.Y, minY, maxY)
		b.Velocity.Y = -b.Velocity.Y * b.Restitution
		fireCollision(b, WorldBoundary, hit)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// extents returns the half-size of the body per axis.
func (b *Body) extents() (x, y float64) {
	if b.Kind == ShapeCircle {
		return b.Radius, b.Radius
	}
	return b.Width / 2, b.Height / 2
}

// resolve dispatches on the shape pair. Rect-rect has no resolution:
// rectangles are static obstacles and never meet each other.
func (w *World) resolve(ha Handle, a *Body, hb Handle, b *Body) {
	switch {
	case a.Kind == ShapeCircle && b.Kind == ShapeCircle:
		resolveCircleCircle(ha, a, hb, b)
	case a.Kind == ShapeCircle && b.Kind == ShapeRect:
		resolveCircleRect(ha, a, hb, b)
	case a.Kind == ShapeRect && b.Kind == ShapeCircle:
		resolveCircleRect(hb, b, ha, a)
	}
}

// resolveCircleCircle separates an overlapping pair along the center normal
// (split by inverse-mass share) and applies a restitution impulse unless the
// pair is already receding. Exactly coincident centers are ignored: there is
// no usable normal and dividing by zero would poison later frames with NaN.
func resolveCircleCircle(ha Handle, a *Body, hb Handle, b *Body) {
	delta := b.Position.Sub(a.Position)
	distSq := delta.LengthSq()
	rsum := a.Radius + b.Radius
	if distSq >= rsum*rsum || distSq == 0 {
		return
	}

	invA, invB := a.InverseMass(), b.InverseMass()
	invSum := invA + invB
	if invSum == 0 {
		return
	}

	dist := math.Sqrt(distSq)
	normal := delta.Mult(1 / dist)

	// Positional correction: push each dynamic body out along the normal by
	// its share of the total inverse mass. Static bodies do not move.
	pen := rsum - dist
	a.Position = a.Position.Sub(normal.Mult(pen * invA / invSum))
	b.Position = b.Position.Add(normal.Mult(pen * invB / invSum))

	velAlongNormal := b.Velocity.Sub(a.Velocity).Dot(normal)
	if velAlongNormal >= 0 {
		// Receding pair: applying an impulse here would inject energy.
		return
	}

	// Conservative bounciness: the pair is only as elastic as its least
	// elastic member.
	e := math.Min(a.Restitution, b.Restitution)
	j := -(1 + e) * velAlongNormal / invSum

	impulse := normal.Mult(j)
	a.Velocity = a.Velocity.Sub(impulse.Mult(invA))
	b.Velocity = b.Velocity.Add(impulse.Mult(invB))

	fireCollision(a, hb, j)
	fireCollision(b, ha, j)
}

// resolveCircleRect pushes the circle out of the rectangle along the normal
// from the closest point on the rect to the circle center, then reflects the
// circle's velocity about that normal scaled by its restitution. The rect is
// assumed static and is not corrected.
func resolveCircleRect(hc Handle, c *Body, hr Handle, r *Body) {
	halfW, halfH := r.Width/2, r.Height/2
	closest := cp.Vector{
		X: clamp(c.Position.X, r.Position.X-halfW, r.Position.X+halfW),
		Y: clamp(c.Position.Y, r.Position.Y-halfH, r.Position.Y+halfH),
	}

	delta := c.Position.Sub(closest)
	distSq := delta.LengthSq()
	if distSq >= c.Radius*c.Radius || distSq == 0 {
		return
	}

	dist := math.Sqrt(distSq)
	normal := delta.Mult(1 / dist)

	c.Position = c.Position.Add(normal.Mult(c.Radius - dist))

	velAlongNormal := c.Velocity.Dot(normal)
	if velAlongNormal >= 0 {
		return
	}

	c.Velocity = c.Velocity.Sub(normal.Mult((1 + c.Restitution) * velAlongNormal))
	fireCollision(c, hr, -velAlongNormal)
}

func fireCollision(b *Body, other Handle, impulse float64) {
	if b.OnCollision != nil {
		b.OnCollision(other, impulse)
	}
}
