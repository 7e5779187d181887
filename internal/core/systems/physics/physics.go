package physics

import "math"

// Axis selects one component of a Vec2.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "unknown"
	}
}

// Vec2 is a 2D vector used for positions, velocities, forces and ray directions.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V2 is shorthand for Vec2{X: x, Y: y}.
func V2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Splat returns a vector with both components set to s.
func Splat(s float64) Vec2 { return Vec2{X: s, Y: s} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

func (v Vec2) LengthSquared() float64 { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Length() float64        { return math.Hypot(v.X, v.Y) }
func (v Vec2) IsZero() bool           { return v.X == 0 && v.Y == 0 }

// Distance computes Euclidean distance between two points.
func (v Vec2) Distance(o Vec2) float64 { return math.Hypot(o.X-v.X, o.Y-v.Y) }

// Component returns the value of the given axis.
func (v Vec2) Component(a Axis) float64 {
	if a == AxisY {
		return v.Y
	}
	return v.X
}

// WithComponent returns a copy of v with the given axis replaced.
func (v Vec2) WithComponent(a Axis, value float64) Vec2 {
	if a == AxisY {
		v.Y = value
	} else {
		v.X = value
	}
	return v
}
