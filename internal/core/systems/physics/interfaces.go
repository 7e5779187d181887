package physics

// TileQuery answers axis ray casts against static solid geometry.
// Implementations must be safe for concurrent readers.
type TileQuery interface {
	// CastAxisRay tests the segment origin..origin+displacement against the
	// tile occupying the cell nearest to the segment end.
	CastAxisRay(origin, displacement Vec2) (LineHit, bool)
	// TileSize is the edge length of one square tile.
	TileSize() float64
}

// Transform provides spatial information for render and camera consumers.
type Transform interface {
	Position2() (x, y float64)
}
