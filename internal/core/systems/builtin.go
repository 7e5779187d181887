package systems

import (
	"github.com/zeusync/tilephys/internal/core/models"
	"github.com/zeusync/tilephys/internal/core/systems/physics"
)

// InputSystem writes each controlled actor's intent into its PLAYER_ACCEL force.
type InputSystem struct {
	tileSize float64
}

func NewInputSystem(tileSize float64) *InputSystem {
	return &InputSystem{tileSize: tileSize}
}

func (s *InputSystem) Name() string          { return "input" }
func (s *InputSystem) Phase() ExecutionPhase { return PhaseInput }

func (s *InputSystem) UpdateActor(_ float64, a *models.Actor) error {
	if a.Controller == nil {
		return nil
	}
	a.Controller.Apply(a.Intent, &a.Body.Forces, s.tileSize)
	return nil
}

// VelocitySystem integrates gravity, forces, friction and the speed limit.
type VelocitySystem struct {
	universe physics.Universe
}

func NewVelocitySystem(u physics.Universe) *VelocitySystem {
	return &VelocitySystem{universe: u}
}

func (s *VelocitySystem) Name() string          { return "velocity" }
func (s *VelocitySystem) Phase() ExecutionPhase { return PhaseVelocity }

func (s *VelocitySystem) UpdateActor(dt float64, a *models.Actor) error {
	physics.Integrate(s.universe, &a.Body, dt)
	return nil
}

// HitFunc receives every blocked axis. It may be called from several
// goroutines at once when actors are processed in parallel.
type HitFunc func(a *models.Actor, hit physics.AxisHit)

// CollisionSystem corrects velocities against the solid tiles before they are applied.
type CollisionSystem struct {
	resolver *physics.Resolver
	onHit    HitFunc
}

func NewCollisionSystem(resolver *physics.Resolver, onHit HitFunc) *CollisionSystem {
	return &CollisionSystem{resolver: resolver, onHit: onHit}
}

func (s *CollisionSystem) Name() string          { return "collision" }
func (s *CollisionSystem) Phase() ExecutionPhase { return PhaseCollision }

func (s *CollisionSystem) UpdateActor(dt float64, a *models.Actor) error {
	res := s.resolver.Resolve(&a.Body, dt)
	if s.onHit == nil {
		return nil
	}
	for _, hit := range res.Hits {
		s.onHit(a, hit)
	}
	return nil
}

// TransformSystem moves actors by their corrected velocity.
type TransformSystem struct{}

func NewTransformSystem() *TransformSystem { return &TransformSystem{} }

func (s *TransformSystem) Name() string          { return "transform" }
func (s *TransformSystem) Phase() ExecutionPhase { return PhaseTransform }

func (s *TransformSystem) UpdateActor(dt float64, a *models.Actor) error {
	physics.ApplyTransform(&a.Body, dt)
	return nil
}
