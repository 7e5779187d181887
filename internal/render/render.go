package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/tilephys/internal/core/models"
	"github.com/zeusync/tilephys/internal/core/systems/physics"
	"github.com/zeusync/tilephys/internal/core/tiles"
)

const (
	SolidRune  = '█'
	DecorRune  = '░'
	PlayerRune = '@'
	BodyRune   = 'o'
)

// Canvas is the subset of tcell.Screen the renderer draws on.
type Canvas interface {
	Size() (width, height int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

var _ Canvas = (tcell.Screen)(nil)

// Styles of every glyph the renderer emits.
type Styles struct {
	Empty  tcell.Style
	Solid  tcell.Style
	Decor  tcell.Style
	Player tcell.Style
	Body   tcell.Style
	Status tcell.Style
}

func DefaultStyles() Styles {
	return Styles{
		Empty:  tcell.StyleDefault,
		Solid:  tcell.StyleDefault.Foreground(tcell.ColorGreen),
		Decor:  tcell.StyleDefault.Foreground(tcell.ColorGray),
		Player: tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
		Body:   tcell.StyleDefault.Foreground(tcell.ColorOrange),
		Status: tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true),
	}
}

// Camera is the world point drawn at the middle of the canvas.
type Camera struct {
	Position physics.Vec2
}

// Follow centers the camera on target.
func (c *Camera) Follow(target physics.Vec2) { c.Position = target }

// Renderer draws a tile stack and actors with y pointing up. A terminal cell
// is half a tile wide and one tile tall, so tiles look roughly square.
type Renderer struct {
	cell   physics.Vec2
	styles Styles
}

func NewRenderer(tileSize float64) *Renderer {
	if !(tileSize > 0) {
		tileSize = tiles.DefaultTileSize
	}
	return &Renderer{
		cell:   physics.V2(tileSize/2, tileSize),
		styles: DefaultStyles(),
	}
}

func (r *Renderer) SetStyles(s Styles) { r.styles = s }

// CellSize is the world extent of one terminal cell.
func (r *Renderer) CellSize() physics.Vec2 { return r.cell }

// CellCenter returns the world point at the middle of cell (col, row).
func (r *Renderer) CellCenter(cam Camera, width, height, col, row int) physics.Vec2 {
	return physics.V2(
		cam.Position.X+(float64(col)-float64(width)/2+0.5)*r.cell.X,
		cam.Position.Y-(float64(row)-float64(height)/2+0.5)*r.cell.Y,
	)
}

// CellOf returns the cell containing world point p.
func (r *Renderer) CellOf(cam Camera, width, height int, p physics.Vec2) (col, row int) {
	col = int(math.Floor((p.X-cam.Position.X)/r.cell.X + float64(width)/2))
	row = int(math.Floor((cam.Position.Y-p.Y)/r.cell.Y + float64(height)/2))
	return col, row
}

// Draw paints the whole canvas: tiles, then actors, then the status line on
// the top row when status is not empty.
func (r *Renderer) Draw(c Canvas, stack *tiles.Stack, cam Camera, actors []models.State, status string) {
	width, height := c.Size()

	var decor []*tiles.Grid
	if stack != nil {
		for _, l := range stack.Layers() {
			if !l.Solid && l.Grid != nil {
				decor = append(decor, l.Grid)
			}
		}
	}

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			p := r.CellCenter(cam, width, height, col, row)
			glyph, style := ' ', r.styles.Empty
			if stack != nil && stack.Solid(p) {
				glyph, style = SolidRune, r.styles.Solid
			} else {
				for _, g := range decor {
					if g.Occupied(p) {
						glyph, style = DecorRune, r.styles.Decor
						break
					}
				}
			}
			c.SetContent(col, row, glyph, nil, style)
		}
	}

	for _, a := range actors {
		col, row := r.CellOf(cam, width, height, a.Position)
		if col < 0 || col >= width || row < 0 || row >= height {
			continue
		}
		if a.Kind == models.KindPlayer {
			c.SetContent(col, row, PlayerRune, nil, r.styles.Player)
		} else {
			c.SetContent(col, row, BodyRune, nil, r.styles.Body)
		}
	}

	if status != "" {
		col := 0
		for _, ch := range status {
			if col >= width {
				break
			}
			c.SetContent(col, 0, ch, nil, r.styles.Status)
			col++
		}
	}
}
