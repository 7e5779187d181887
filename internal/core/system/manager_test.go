package system

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/tilephys/internal/core/models"
	"github.com/zeusync/tilephys/internal/core/systems"
	"github.com/zeusync/tilephys/internal/core/systems/physics"
)

type recordingSystem struct {
	name  string
	phase systems.ExecutionPhase
	log   *[]string
	err   error
}

func (s *recordingSystem) Name() string                  { return s.name }
func (s *recordingSystem) Phase() systems.ExecutionPhase { return s.phase }

func (s *recordingSystem) UpdateActor(_ float64, a *models.Actor) error {
	*s.log = append(*s.log, s.name+":"+a.Name())
	return s.err
}

func TestManager_PhaseMajorOrder(t *testing.T) {
	var calls []string
	m := NewManager(false, 0)
	require.NoError(t, m.RegisterSystem(&recordingSystem{name: "move", phase: systems.PhaseTransform, log: &calls}))
	require.NoError(t, m.RegisterSystem(&recordingSystem{name: "accel", phase: systems.PhaseVelocity, log: &calls}))
	assert.ErrorIs(t, m.RegisterSystem(&recordingSystem{name: "move", log: &calls}), ErrDuplicateSystem)

	actors := []*models.Actor{
		models.NewActor("a", models.KindBody, physics.Vec2{}, physics.Splat(8)),
		models.NewActor("b", models.KindBody, physics.Vec2{}, physics.Splat(8)),
	}
	require.NoError(t, m.Update(0.1, actors))
	assert.Equal(t, []string{"accel:a", "accel:b", "move:a", "move:b"}, calls)
	assert.Equal(t, []string{"accel", "move"}, m.ExecutionOrder())
}

func TestManager_StopsOnError(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	m := NewManager(false, 0)
	require.NoError(t, m.RegisterSystem(&recordingSystem{name: "collide", phase: systems.PhaseCollision, log: &calls, err: boom}))
	require.NoError(t, m.RegisterSystem(&recordingSystem{name: "move", phase: systems.PhaseTransform, log: &calls}))

	actors := []*models.Actor{models.NewActor("a", models.KindBody, physics.Vec2{}, physics.Splat(8))}
	err := m.Update(0.1, actors)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"collide:a"}, calls)

	metrics, ok := m.SystemMetrics("collide")
	require.True(t, ok)
	assert.Equal(t, uint64(1), metrics.ErrorCount)
	assert.ErrorIs(t, metrics.LastError, boom)
}
