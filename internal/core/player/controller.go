package player

import "github.com/zeusync/tilephys/internal/core/systems/physics"

const (
	// DefaultSpeed is the player acceleration in tiles per second squared.
	DefaultSpeed = 100.0
	// StickThreshold is how far an analog stick must lean to count as a press.
	StickThreshold = 0.5
	// CharacterTileSize is the edge of the character sprite and its default collision box.
	CharacterTileSize = 16.0
)

// Intent is the directional input of one player for the coming tick.
type Intent struct {
	Up, Down, Left, Right bool
}

// IsZero reports whether no direction is held.
func (i Intent) IsZero() bool { return i == Intent{} }

// IntentFromStick maps analog stick axes in [-1, 1] to directions.
func IntentFromStick(x, y float64) Intent {
	return Intent{
		Up:    y > StickThreshold,
		Down:  y < -StickThreshold,
		Left:  x < -StickThreshold,
		Right: x > StickThreshold,
	}
}

// Merge combines two input sources; a direction is held when either holds it.
func (i Intent) Merge(o Intent) Intent {
	return Intent{
		Up:    i.Up || o.Up,
		Down:  i.Down || o.Down,
		Left:  i.Left || o.Left,
		Right: i.Right || o.Right,
	}
}

// Controller turns intents into the PLAYER_ACCEL force.
type Controller struct {
	Speed float64 `json:"speed" yaml:"speed"`
}

func NewController(speed float64) *Controller {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return &Controller{Speed: speed}
}

// Apply writes the acceleration for intent into forces. Up beats Down and
// Left beats Right when both are held.
func (c *Controller) Apply(intent Intent, forces *physics.Forces, tileSize float64) {
	accel := forces.Get(physics.ForcePlayer)
	magnitude := c.Speed * tileSize

	switch {
	case intent.Up:
		accel.Y = magnitude
	case intent.Down:
		accel.Y = -magnitude
	default:
		accel.Y = 0
	}

	switch {
	case intent.Left:
		accel.X = -magnitude
	case intent.Right:
		accel.X = magnitude
	default:
		accel.X = 0
	}

	forces.Set(physics.ForcePlayer, accel)
}
