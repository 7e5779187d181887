package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/tilephys/internal/core/observability/log"
	"github.com/zeusync/tilephys/internal/core/systems/physics"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the application configuration of the platformer.
type Config struct {
	Log        log.Config       `json:"log" yaml:"log"`
	Physics    physics.Universe `json:"physics" yaml:"physics"`
	Simulation Simulation       `json:"simulation" yaml:"simulation"`
	Level      Level            `json:"level" yaml:"level"`
	Player     Player           `json:"player" yaml:"player"`
}

// Simulation controls the tick loop.
type Simulation struct {
	// TickRate is the number of fixed steps per second.
	TickRate int    `json:"tick_rate" yaml:"tick_rate"`
	Parallel bool   `json:"parallel" yaml:"parallel"`
	Workers  int    `json:"workers" yaml:"workers"`
	Policy   string `json:"policy" yaml:"policy"`
}

type Level struct {
	Path string `json:"path" yaml:"path"`
}

type Player struct {
	Speed float64 `json:"speed" yaml:"speed"`
}

func Default() Config {
	return Config{
		Log: log.Config{
			Level:    log.LevelInfo.String(),
			Encoding: "json",
			Outputs:  []string{"stderr"},
		},
		Physics: physics.DefaultUniverse(),
		Simulation: Simulation{
			TickRate: 60,
			Policy:   physics.PolicyHardStop.String(),
		},
		Level:  Level{Path: "assets/world.yaml"},
		Player: Player{Speed: 100},
	}
}

// Load decodes YAML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Load(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	c, err := Load(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log: %w", ErrInvalidConfig, err)
	}
	if err := c.Physics.Validate(); err != nil {
		return fmt.Errorf("%w: physics: %w", ErrInvalidConfig, err)
	}
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("%w: simulation.tick_rate must be positive, got %d", ErrInvalidConfig, c.Simulation.TickRate)
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("%w: simulation.workers must not be negative, got %d", ErrInvalidConfig, c.Simulation.Workers)
	}
	if _, err := c.Simulation.ParsePolicy(); err != nil {
		return fmt.Errorf("%w: simulation: %w", ErrInvalidConfig, err)
	}
	if c.Player.Speed < 0 {
		return fmt.Errorf("%w: player.speed must not be negative, got %v", ErrInvalidConfig, c.Player.Speed)
	}
	return nil
}

// Interval is the wall-clock duration of one tick.
func (s Simulation) Interval() time.Duration {
	if s.TickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(s.TickRate)
}

// DeltaTime is the fixed dt in seconds.
func (s Simulation) DeltaTime() float64 {
	if s.TickRate <= 0 {
		return 0
	}
	return 1 / float64(s.TickRate)
}

func (s Simulation) ParsePolicy() (physics.Policy, error) {
	return physics.ParsePolicy(s.Policy)
}
