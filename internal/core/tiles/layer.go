package tiles

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/zeusync/tilephys/internal/core/systems/physics"
)

// Layer is one named tile layer of a level.
type Layer struct {
	Name  string
	Solid bool
	Grid  *Grid
}

// Stack answers ray casts against every solid layer it holds, in order.
// Decorative layers are kept for rendering only.
type Stack struct {
	size   float64
	layers []Layer
	solid  []*Grid
}

var _ physics.TileQuery = (*Stack)(nil)

// NewStack groups layers sharing one tile size.
func NewStack(tileSize float64, layers ...Layer) *Stack {
	s := &Stack{size: tileSize, layers: layers}
	for _, l := range layers {
		if l.Solid && l.Grid != nil {
			s.solid = append(s.solid, l.Grid)
		}
	}
	return s
}

func (s *Stack) TileSize() float64 { return s.size }

// Layers returns every layer in declaration order.
func (s *Stack) Layers() []Layer {
	out := make([]Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// SolidCount is the number of layers taking part in collision.
func (s *Stack) SolidCount() int { return len(s.solid) }

// TileCount is the number of stored tiles over all layers.
func (s *Stack) TileCount() int {
	n := 0
	for _, l := range s.layers {
		if l.Grid != nil {
			n += l.Grid.Len()
		}
	}
	return n
}

// CastAxisRay returns the first hit among the solid layers.
func (s *Stack) CastAxisRay(origin, displacement physics.Vec2) (physics.LineHit, bool) {
	for _, g := range s.solid {
		if hit, ok := g.CastAxisRay(origin, displacement); ok {
			return hit, true
		}
	}
	return physics.LineHit{}, false
}

// Solid reports whether any solid layer occupies the cell nearest to p.
func (s *Stack) Solid(p physics.Vec2) bool {
	for _, g := range s.solid {
		if g.Occupied(p) {
			return true
		}
	}
	return false
}

// Overlaps reports whether box cuts into any solid tile.
func (s *Stack) Overlaps(box physics.AABB) bool {
	for _, g := range s.solid {
		if g.Overlaps(box) {
			return true
		}
	}
	return false
}

// Fingerprint hashes layer names, solidity and grid fingerprints in order.
func (s *Stack) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, l := range s.layers {
		_, _ = h.WriteString(l.Name)
		if l.Solid {
			_, _ = h.Write([]byte{1})
		} else {
			_, _ = h.Write([]byte{0})
		}
		if l.Grid != nil {
			binary.LittleEndian.PutUint64(buf[:], l.Grid.Fingerprint())
			_, _ = h.Write(buf[:])
		}
	}
	return h.Sum64()
}
