package physics

// Integrate advances the body's velocity by dt seconds.
//
// Gravity accumulates in its own slot rather than being reset each tick; the
// collision resolver clears it when the body lands.
func Integrate(u Universe, b *Body, dt float64) {
	gravity := b.Forces.Get(ForceGravity)
	gravity.Y -= u.Gravity * dt
	b.Forces.Set(ForceGravity, gravity)

	b.Velocity = b.Velocity.Add(b.Forces.Sum().Scale(dt))

	friction := b.Velocity.Scale(u.Friction * dt)
	b.Velocity = b.Velocity.Sub(friction)

	if b.Velocity.LengthSquared() < u.VelocityEpsilon {
		b.Velocity = Vec2{}
	}

	b.Velocity.X = constrain(b.Velocity.X, u.SpeedLimit)
	b.Velocity.Y = constrain(b.Velocity.Y, u.SpeedLimit)
}

// ApplyTransform moves the body by its velocity over dt.
func ApplyTransform(b *Body, dt float64) {
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}

func constrain(s, m float64) float64 {
	if s > m {
		return m
	}
	if s < -m {
		return -m
	}
	return s
}
