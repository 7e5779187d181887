package player

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeusync/tilephys/internal/core/systems/physics"
)

func TestController_Apply(t *testing.T) {
	c := NewController(0)
	assert.Equal(t, DefaultSpeed, c.Speed)

	tests := []struct {
		name   string
		intent Intent
		want   physics.Vec2
	}{
		{"idle", Intent{}, physics.V2(0, 0)},
		{"up", Intent{Up: true}, physics.V2(0, 1800)},
		{"down", Intent{Down: true}, physics.V2(0, -1800)},
		{"up wins over down", Intent{Up: true, Down: true}, physics.V2(0, 1800)},
		{"left wins over right", Intent{Left: true, Right: true}, physics.V2(-1800, 0)},
		{"down right", Intent{Down: true, Right: true}, physics.V2(1800, -1800)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var forces physics.Forces
			forces.Set(physics.ForceGravity, physics.V2(0, -50))
			c.Apply(tt.intent, &forces, 18)
			assert.Equal(t, tt.want, forces.Get(physics.ForcePlayer))
			assert.Equal(t, physics.V2(0, -50), forces.Get(physics.ForceGravity))
		})
	}
}

func TestIntentFromStick(t *testing.T) {
	assert.Equal(t, Intent{Up: true, Right: true}, IntentFromStick(0.8, 0.9))
	assert.Equal(t, Intent{Down: true, Left: true}, IntentFromStick(-0.51, -1))
	assert.True(t, IntentFromStick(0.5, -0.5).IsZero())
}

func TestIntent_Merge(t *testing.T) {
	got := Intent{Up: true}.Merge(Intent{Left: true})
	assert.Equal(t, Intent{Up: true, Left: true}, got)
}
