package tiles

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/zeusync/tilephys/internal/core/systems/physics"
)

// DefaultTileSize matches the edge length of the stock tile atlas.
const DefaultTileSize = 18.0

var ErrInvalidTileSize = errors.New("invalid tile size")

// Cell is a quantized tile coordinate: a center divided by the tile size.
type Cell struct {
	X, Y int64
}

// Grid is an immutable set of square tiles keyed by their centers.
//
// Lookups snap a point to the nearest cell and match only tiles whose center
// lies exactly on the grid. Centers off the grid are retained but never match;
// they behave as empty space.
type Grid struct {
	size   float64
	coords []physics.Vec2
	cells  map[Cell]struct{}
}

var _ physics.TileQuery = (*Grid)(nil)

// NewGrid indexes centers verbatim. Duplicates are allowed.
func NewGrid(tileSize float64, centers []physics.Vec2) (*Grid, error) {
	if !(tileSize > 0) || math.IsInf(tileSize, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTileSize, tileSize)
	}
	g := &Grid{
		size:   tileSize,
		coords: make([]physics.Vec2, len(centers)),
		cells:  make(map[Cell]struct{}, len(centers)),
	}
	copy(g.coords, centers)
	for _, c := range centers {
		if SnapVector(c, tileSize) != c {
			continue
		}
		g.cells[g.cellOf(c)] = struct{}{}
	}
	return g, nil
}

func (g *Grid) TileSize() float64 { return g.size }

// Len is the number of stored centers, duplicates and off-grid ones included.
func (g *Grid) Len() int { return len(g.coords) }

// Coords returns a copy of the stored centers in insertion order.
func (g *Grid) Coords() []physics.Vec2 {
	out := make([]physics.Vec2, len(g.coords))
	copy(out, g.coords)
	return out
}

// Occupied reports whether a tile sits at the cell nearest to p.
func (g *Grid) Occupied(p physics.Vec2) bool {
	_, ok := g.cells[g.cellOf(SnapVector(p, g.size))]
	return ok
}

// Box returns the tile box of the cell nearest to p.
func (g *Grid) Box(p physics.Vec2) physics.AABB {
	return physics.NewAABB(SnapVector(p, g.size), physics.Splat(g.size))
}

// CastAxisRay looks up the tile at the cell nearest to origin+displacement and
// intersects the segment with its box. It assumes the displacement never
// spans more than one tile, which the integrator's speed limit guarantees for
// small enough ticks; longer segments can tunnel.
func (g *Grid) CastAxisRay(origin, displacement physics.Vec2) (physics.LineHit, bool) {
	end := origin.Add(displacement)
	if !g.Occupied(end) {
		return physics.LineHit{}, false
	}
	return g.Box(end).Intersection(physics.NewLine(origin, displacement))
}

// Overlaps reports whether the interior of box intersects the interior of any
// indexed tile. Touching a tile face does not count.
func (g *Grid) Overlaps(box physics.AABB) bool {
	minX, maxX := int64(math.Round(box.Min.X/g.size)), int64(math.Round(box.Max.X/g.size))
	minY, maxY := int64(math.Round(box.Min.Y/g.size)), int64(math.Round(box.Max.Y/g.size))
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			if _, ok := g.cells[Cell{X: cx, Y: cy}]; !ok {
				continue
			}
			center := physics.V2(float64(cx)*g.size, float64(cy)*g.size)
			if physics.NewAABB(center, physics.Splat(g.size)).Overlaps(box) {
				return true
			}
		}
	}
	return false
}

// Bounds is the box enclosing every indexed tile. ok is false for an empty grid.
func (g *Grid) Bounds() (box physics.AABB, ok bool) {
	for i, c := range g.coords {
		tile := physics.NewAABB(c, physics.Splat(g.size))
		if i == 0 {
			box = tile
			continue
		}
		box.Min.X = math.Min(box.Min.X, tile.Min.X)
		box.Min.Y = math.Min(box.Min.Y, tile.Min.Y)
		box.Max.X = math.Max(box.Max.X, tile.Max.X)
		box.Max.Y = math.Max(box.Max.Y, tile.Max.Y)
	}
	return box, len(g.coords) > 0
}

// Fingerprint hashes the tile size and every center in insertion order.
func (g *Grid) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	write := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = h.Write(buf[:])
	}
	write(g.size)
	for _, c := range g.coords {
		write(c.X)
		write(c.Y)
	}
	return h.Sum64()
}

func (g *Grid) cellOf(snapped physics.Vec2) Cell {
	return Cell{
		X: int64(math.Round(snapped.X / g.size)),
		Y: int64(math.Round(snapped.Y / g.size)),
	}
}

// Snap rounds f to the nearest multiple of s, halves away from zero.
func Snap(f, s float64) float64 {
	return math.Round(f/s) * s
}

// SnapVector snaps both components of v.
func SnapVector(v physics.Vec2, s float64) physics.Vec2 {
	return physics.Vec2{X: Snap(v.X, s), Y: Snap(v.Y, s)}
}
