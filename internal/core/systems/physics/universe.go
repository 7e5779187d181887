package physics

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidUniverse = errors.New("invalid physical universe")

// Universe holds the tunable constants of the integrator.
type Universe struct {
	// Friction is the per-second fraction of velocity removed.
	Friction float64 `json:"friction" yaml:"friction"`
	// Gravity is added to the gravity slot as downward acceleration every second.
	Gravity float64 `json:"gravity" yaml:"gravity"`
	// SpeedLimit clamps each velocity axis to ±SpeedLimit.
	SpeedLimit float64 `json:"speed_limit" yaml:"speed_limit"`
	// VelocityEpsilon is compared against the squared speed.
	VelocityEpsilon float64 `json:"velocity_epsilon" yaml:"velocity_epsilon"`
}

func DefaultUniverse() Universe {
	return Universe{
		Friction:        10,
		Gravity:         1000,
		SpeedLimit:      200,
		VelocityEpsilon: 10,
	}
}

func (u Universe) Validate() error {
	for name, v := range map[string]float64{
		"friction":         u.Friction,
		"gravity":          u.Gravity,
		"speed_limit":      u.SpeedLimit,
		"velocity_epsilon": u.VelocityEpsilon,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s must be finite and non-negative, got %v", ErrInvalidUniverse, name, v)
		}
	}
	return nil
}

// MaxDisplacement is the largest distance a body can travel on one axis in dt.
func (u Universe) MaxDisplacement(dt float64) float64 {
	return u.SpeedLimit * dt
}
