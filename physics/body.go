package physics

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// ShapeKind selects the geometry variant carried by a Body.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeRect
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeRect:
		return "rect"
	default:
		return "unknown"
	}
}

// CollisionFunc is invoked synchronously during Step whenever the owning body
// participates in a resolved collision. other is the colliding body's handle,
// or WorldBoundary for a wall reflection. impulse is the impulse magnitude
// (for wall hits, the pre-reflection speed on the reflected axis).
type CollisionFunc func(other Handle, impulse float64)

// Body is the unit of simulation: a circle or axis-aligned rectangle with a
// point-mass kinematic state. Positions are centers. Geometry is fixed after
// construction; position and velocity mutate every step.
type Body struct {
	ID   string
	Kind ShapeKind

	// Circle geometry.
	Radius float64
	// Rectangle geometry.
	Width, Height float64

	Position cp.Vector
	Velocity cp.Vector

	Mass        float64
	Restitution float64
	Friction    float64
	Static      bool

	OnCollision CollisionFunc
}

// NewCircle builds a dynamic circle body. Geometry and material are validated
// here so the engine never has to; Step assumes well-formed bodies.
func NewCircle(id string, pos cp.Vector, radius, mass, restitution, friction float64) (Body, error) {
	b := Body{
		ID:          id,
		Kind:        ShapeCircle,
		Radius:      radius,
		Position:    pos,
		Mass:        mass,
		Restitution: restitution,
		Friction:    friction,
	}
	if err := b.validate(); err != nil {
		return Body{}, err
	}
	return b, nil
}

// NewStaticCircle builds an immovable circle (a peg). Mass is never read for
// static bodies.
func NewStaticCircle(id string, pos cp.Vector, radius, restitution float64) (Body, error) {
	b := Body{
		ID:          id,
		Kind:        ShapeCircle,
		Radius:      radius,
		Position:    pos,
		Restitution: restitution,
		Static:      true,
	}
	if err := b.validate(); err != nil {
		return Body{}, err
	}
	return b, nil
}

// NewStaticRect builds an immovable axis-aligned rectangle obstacle centered
// at pos.
func NewStaticRect(id string, pos cp.Vector, width, height, restitution float64) (Body, error) {
	b := Body{
		ID:          id,
		Kind:        ShapeRect,
		Width:       width,
		Height:      height,
		Position:    pos,
		Restitution: restitution,
		Static:      true,
	}
	if err := b.validate(); err != nil {
		return Body{}, err
	}
	return b, nil
}

func (b *Body) validate() error {
	switch b.Kind {
	case ShapeCircle:
		if b.Radius <= 0 {
			return fmt.Errorf("body %q: circle radius must be positive, got %v", b.ID, b.Radius)
		}
	case ShapeRect:
		if b.Width <= 0 || b.Height <= 0 {
			return fmt.Errorf("body %q: rect extents must be positive, got %vx%v", b.ID, b.Width, b.Height)
		}
	default:
		return fmt.Errorf("body %q: unknown shape kind %d", b.ID, b.Kind)
	}
	if !b.Static && b.Mass <= 0 {
		return fmt.Errorf("body %q: dynamic body needs positive mass, got %v", b.ID, b.Mass)
	}
	if b.Restitution < 0 || b.Restitution > 1 {
		return fmt.Errorf("body %q: restitution must be in [0,1], got %v", b.ID, b.Restitution)
	}
	if b.Friction < 0 || b.Friction > 1 {
		return fmt.Errorf("body %q: friction must be in [0,1], got %v", b.ID, b.Friction)
	}
	return nil
}

// InverseMass is 1/Mass for dynamic bodies and 0 for static ones, so static
// bodies drop out of impulse and correction math without branching on Mass.
func (b *Body) InverseMass() float64 {
	if b.Static {
		return 0
	}
	return 1 / b.Mass
}

// Speed is the magnitude of the body's velocity.
func (b *Body) Speed() float64 {
	return b.Velocity.Length()
}
