package physics

// Body is the kinematic state of one dynamic actor. It is owned by a single
// actor and only mutated during that actor's own tick pass.
type Body struct {
	Position Vec2
	Velocity Vec2
	Forces   Forces
	// Size is the full extent of the collision box centered on Position.
	Size Vec2
}

// NewBody creates a body at rest.
func NewBody(position, size Vec2) *Body {
	return &Body{Position: position, Size: size}
}

// Bounds returns the collision box at the current position.
func (b *Body) Bounds() AABB { return NewAABB(b.Position, b.Size) }

// Radius is half the larger box extent.
func (b *Body) Radius() float64 {
	if b.Size.X > b.Size.Y {
		return b.Size.X / 2
	}
	return b.Size.Y / 2
}

func (b *Body) Position2() (x, y float64) { return b.Position.X, b.Position.Y }

var _ Transform = (*Body)(nil)
