package level

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/tilephys/internal/core/models"
	"github.com/zeusync/tilephys/internal/core/player"
	"github.com/zeusync/tilephys/internal/core/systems/physics"
	"github.com/zeusync/tilephys/internal/core/tiles"
)

var (
	ErrInvalidLayer = errors.New("invalid layer")
	ErrInvalidSpawn = errors.New("invalid spawn")
)

// File is the on-disk description of a level.
type File struct {
	Name     string      `json:"name" yaml:"name"`
	TileSize float64     `json:"tile_size" yaml:"tile_size"`
	Layers   []LayerFile `json:"layers" yaml:"layers"`
	Spawns   []Spawn     `json:"spawns" yaml:"spawns"`
}

// LayerFile holds tiles either as text rows or as explicit centers.
//
// In rows, every rune other than a space or '.' is a tile. The rune at
// column x of row y is centered at (offset.x + x*size, offset.y - y*size),
// so the first row is the top of the layer. Explicit tiles are shifted by
// the offset as well.
type LayerFile struct {
	Name   string       `json:"name" yaml:"name"`
	Solid  *bool        `json:"solid,omitempty" yaml:"solid,omitempty"`
	Offset physics.Vec2 `json:"offset" yaml:"offset"`
	Rows   []string     `json:"rows,omitempty" yaml:"rows,omitempty"`
	Tiles  [][]float64  `json:"tiles,omitempty" yaml:"tiles,omitempty"`
}

// Spawn places an actor. A zero size means one character tile. Spawned bodies
// must be narrower and shorter than one level tile: the resolver samples only
// the two corners of the leading edge, and a box as wide as a tile has both
// corners on tile faces, where the rays graze instead of hitting.
type Spawn struct {
	Name   string  `json:"name" yaml:"name"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Player bool    `json:"player,omitempty" yaml:"player,omitempty"`
}

func (s Spawn) Position() physics.Vec2 { return physics.V2(s.X, s.Y) }

func (s Spawn) Size() physics.Vec2 {
	size := physics.V2(s.Width, s.Height)
	if size.X == 0 {
		size.X = player.CharacterTileSize
	}
	if size.Y == 0 {
		size.Y = player.CharacterTileSize
	}
	return size
}

// Level is a loaded, immutable tile world plus its spawn points.
type Level struct {
	Name   string
	Tiles  *tiles.Stack
	Spawns []Spawn
}

// Spawner is the part of a world a level populates.
type Spawner interface {
	Spawn(name string, position, size physics.Vec2) *models.Actor
	SpawnPlayer(name string, position, size physics.Vec2, speed float64) *models.Actor
}

// Decode reads a level in YAML. Unknown keys are rejected.
func Decode(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("decode level: %w", err)
	}
	return f, nil
}

// Load decodes and builds a level.
func Load(r io.Reader) (*Level, error) {
	f, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return f.Build()
}

func LoadFile(path string) (*Level, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open level: %w", err)
	}
	defer func() { _ = fh.Close() }()

	l, err := Load(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Build turns every layer into a tile grid.
func (f File) Build() (*Level, error) {
	size := f.TileSize
	if size == 0 {
		size = tiles.DefaultTileSize
	}
	if !(size > 0) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("%w: %v", tiles.ErrInvalidTileSize, size)
	}

	layers := make([]tiles.Layer, 0, len(f.Layers))
	seen := make(map[string]struct{}, len(f.Layers))
	for i, lf := range f.Layers {
		if lf.Name == "" {
			return nil, fmt.Errorf("%w: layer %d has no name", ErrInvalidLayer, i)
		}
		if _, dup := seen[lf.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate layer %q", ErrInvalidLayer, lf.Name)
		}
		seen[lf.Name] = struct{}{}

		centers, err := lf.Centers(size)
		if err != nil {
			return nil, err
		}
		grid, err := tiles.NewGrid(size, centers)
		if err != nil {
			return nil, err
		}
		layers = append(layers, tiles.Layer{Name: lf.Name, Solid: lf.IsSolid(), Grid: grid})
	}

	stack := tiles.NewStack(size, layers...)
	for i, s := range f.Spawns {
		if err := s.validate(stack); err != nil {
			return nil, fmt.Errorf("%w: spawn %d (%s): %w", ErrInvalidSpawn, i, s.Name, err)
		}
	}

	spawns := make([]Spawn, len(f.Spawns))
	copy(spawns, f.Spawns)
	return &Level{
		Name:   f.Name,
		Tiles:  stack,
		Spawns: spawns,
	}, nil
}

func (s Spawn) validate(stack *tiles.Stack) error {
	if s.Width < 0 || s.Height < 0 {
		return errors.New("negative size")
	}
	for _, v := range []float64{s.X, s.Y, s.Width, s.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("position and size must be finite")
		}
	}
	body := physics.NewBody(s.Position(), s.Size())
	if 2*body.Radius() >= stack.TileSize() {
		return fmt.Errorf("size %vx%v must be below the tile size %v", body.Size.X, body.Size.Y, stack.TileSize())
	}
	if stack.Overlaps(body.Bounds()) {
		return errors.New("overlaps a solid tile")
	}
	return nil
}

// IsSolid reports whether the layer takes part in collision. Layers without an
// explicit flag are solid when their name starts with "ground".
func (lf LayerFile) IsSolid() bool {
	if lf.Solid != nil {
		return *lf.Solid
	}
	return strings.HasPrefix(lf.Name, "ground")
}

// Centers returns the tile centers of the layer in row-major order followed by
// the explicit tiles.
func (lf LayerFile) Centers(size float64) ([]physics.Vec2, error) {
	var centers []physics.Vec2
	for y, row := range lf.Rows {
		for x, r := range []rune(row) {
			if r == ' ' || r == '.' {
				continue
			}
			centers = append(centers, physics.V2(
				lf.Offset.X+float64(x)*size,
				lf.Offset.Y-float64(y)*size,
			))
		}
	}
	for i, t := range lf.Tiles {
		if len(t) != 2 {
			return nil, fmt.Errorf("%w: %s: tile %d needs [x, y], got %d values", ErrInvalidLayer, lf.Name, i, len(t))
		}
		centers = append(centers, physics.V2(lf.Offset.X+t[0], lf.Offset.Y+t[1]))
	}
	return centers, nil
}

// Populate spawns every actor of the level and returns them in file order.
// Players get the given speed.
func (l *Level) Populate(s Spawner, speed float64) []*models.Actor {
	out := make([]*models.Actor, 0, len(l.Spawns))
	for _, sp := range l.Spawns {
		if sp.Player {
			out = append(out, s.SpawnPlayer(sp.Name, sp.Position(), sp.Size(), speed))
			continue
		}
		out = append(out, s.Spawn(sp.Name, sp.Position(), sp.Size()))
	}
	return out
}
