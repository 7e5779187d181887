package physics

// Line is the segment spanning Origin to Origin+Vector.
type Line struct {
	Origin Vec2
	Vector Vec2
}

// NewLine creates a Line from an origin and a direction scaled to the segment length.
func NewLine(origin, vector Vec2) Line {
	return Line{Origin: origin, Vector: vector}
}

// Degenerate reports whether the line has no direction and therefore can't be cast.
func (l Line) Degenerate() bool { return l.Vector.IsZero() }

// At returns the point at parameter t along the segment.
func (l Line) At(t float64) Vec2 { return l.Origin.Add(l.Vector.Scale(t)) }

// AABB is an axis aligned bounding box. Min <= Max on both axes.
type AABB struct {
	Min Vec2
	Max Vec2
}

// NewAABB creates a box from its center point and full size.
func NewAABB(center, size Vec2) AABB {
	half := size.Scale(0.5)
	return AABB{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

func (b AABB) Center() Vec2 { return b.Min.Add(b.Max).Scale(0.5) }
func (b AABB) Size() Vec2   { return b.Max.Sub(b.Min) }

// Overlaps reports whether the interiors of b and o intersect. Touching edges don't count.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Y < o.Max.Y && b.Max.Y > o.Min.Y
}

// LineHit is a successful line/box intersection. T is the fraction of the
// segment travelled before entering the box.
type LineHit struct {
	Line     Line
	Box      AABB
	Position Vec2
	T        float64
}

// Distance is the world-space length travelled along the line before the hit.
func (h LineHit) Distance() float64 {
	return h.Line.Vector.Scale(h.T).Length()
}

// Intersection clips line against the box slabs.
//
// A zero direction component leaves that axis unconstrained (the division
// yields ±Inf), except when the origin sits exactly on one of that axis' box
// planes: a grazing touch is never a hit. The entry time is the later of the
// two slab entries; if that is negative the x entry is used instead, so a hit
// starting behind the origin is rejected.
func (b AABB) Intersection(line Line) (LineHit, bool) {
	if line.Degenerate() {
		return LineHit{}, false
	}

	origin, dir := line.Origin, line.Vector
	if dir.X == 0 && (b.Min.X == origin.X || b.Max.X == origin.X) {
		return LineHit{}, false
	}
	if dir.Y == 0 && (b.Min.Y == origin.Y || b.Max.Y == origin.Y) {
		return LineHit{}, false
	}

	txMin, txMax := slab(b.Min.X, b.Max.X, origin.X, dir.X)
	tyMin, tyMax := slab(b.Min.Y, b.Max.Y, origin.Y, dir.Y)

	if txMin > tyMax || tyMin > txMax {
		return LineHit{}, false
	}

	t := txMin
	if tyMin > t {
		t = tyMin
	}
	if t < 0 {
		t = txMin
	}
	if t > 1 || t < 0 {
		return LineHit{}, false
	}

	return LineHit{
		Line:     line,
		Box:      b,
		Position: line.At(t),
		T:        t,
	}, true
}

// Intersect is the free-function form of AABB.Intersection.
func Intersect(box AABB, line Line) (LineHit, bool) {
	return box.Intersection(line)
}

// slab returns the ordered parameter interval where the line is between lo and hi
// on one axis. With d == 0 and origin strictly inside or outside the planes the
// result is (-Inf, +Inf) or (+Inf, +Inf) / (-Inf, -Inf) respectively.
func slab(lo, hi, origin, d float64) (float64, float64) {
	tMin := (lo - origin) / d
	tMax := (hi - origin) / d
	if tMin > tMax {
		tMin, tMax = tMax, tMin
	}
	return tMin, tMax
}
