package physics

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPolicy = errors.New("unknown collision policy")

// Policy decides how a blocked axis is corrected.
type Policy uint8

const (
	// PolicyHardStop zeroes the blocked velocity component and clears that
	// axis across every force.
	PolicyHardStop Policy = iota
	// PolicyReflect negates the blocked velocity component and leaves forces
	// untouched. Kept as an alternative to the hard stop.
	PolicyReflect
)

func (p Policy) String() string {
	switch p {
	case PolicyHardStop:
		return "hard_stop"
	case PolicyReflect:
		return "reflect"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// ParsePolicy accepts "hard_stop" (or empty) and "reflect".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hard_stop", "hardstop", "stop":
		return PolicyHardStop, nil
	case "reflect":
		return PolicyReflect, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// AxisHit records the first ray that was blocked on an axis.
type AxisHit struct {
	Axis Axis
	Hit  LineHit
}

// Resolution is the outcome of one resolver pass over one body.
type Resolution struct {
	Hits []AxisHit
}

// Blocked reports whether the given axis was stopped.
func (r Resolution) Blocked(axis Axis) bool {
	for _, h := range r.Hits {
		if h.Axis == axis {
			return true
		}
	}
	return false
}

// Resolver stops bodies at solid tile boundaries by casting two rays from the
// leading corners of the body's box along each moving axis.
type Resolver struct {
	tiles  TileQuery
	policy Policy
}

func NewResolver(tiles TileQuery, policy Policy) *Resolver {
	return &Resolver{tiles: tiles, policy: policy}
}

func (r *Resolver) Policy() Policy { return r.policy }

// Resolve corrects b.Velocity for the coming dt. The y axis is resolved
// first, then x, each from the same unmoved position.
func (r *Resolver) Resolve(b *Body, dt float64) Resolution {
	var res Resolution
	if r.tiles == nil {
		return res
	}
	for _, axis := range [...]Axis{AxisY, AxisX} {
		hit, ok := r.castAxis(b, axis, dt)
		if !ok {
			continue
		}
		r.block(b, axis)
		res.Hits = append(res.Hits, AxisHit{Axis: axis, Hit: hit})
	}
	return res
}

func (r *Resolver) castAxis(b *Body, axis Axis, dt float64) (LineHit, bool) {
	v := b.Velocity.Component(axis)
	if v == 0 {
		return LineHit{}, false
	}
	displacement := Vec2{}.WithComponent(axis, v*dt)
	if displacement.IsZero() {
		return LineHit{}, false
	}
	for _, origin := range leadingCorners(b, axis, v) {
		if hit, ok := r.tiles.CastAxisRay(origin, displacement); ok {
			return hit, true
		}
	}
	return LineHit{}, false
}

func (r *Resolver) block(b *Body, axis Axis) {
	switch r.policy {
	case PolicyReflect:
		b.Velocity = b.Velocity.WithComponent(axis, -b.Velocity.Component(axis))
	default:
		// TODO: keep the (1-T) share of the displacement that fits before the
		// tile instead of a full stop so bodies settle flush against it.
		b.Velocity = b.Velocity.WithComponent(axis, 0)
		b.Forces.ClearAxis(axis)
	}
}

// leadingCorners returns the two box corners on the edge facing the direction
// of travel along axis.
func leadingCorners(b *Body, axis Axis, v float64) [2]Vec2 {
	half := b.Size.Scale(0.5)
	sign := 1.0
	if v < 0 {
		sign = -1
	}
	if axis == AxisY {
		edge := b.Position.Y + sign*half.Y
		return [2]Vec2{
			{X: b.Position.X - half.X, Y: edge},
			{X: b.Position.X + half.X, Y: edge},
		}
	}
	edge := b.Position.X + sign*half.X
	return [2]Vec2{
		{X: edge, Y: b.Position.Y - half.Y},
		{X: edge, Y: b.Position.Y + half.Y},
	}
}
