package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/tilephys/internal/core/player"
)

func TestParseStick(t *testing.T) {
	tests := []struct {
		in   string
		want player.Intent
	}{
		{"", player.Intent{}},
		{"0,0", player.Intent{}},
		{"1,0", player.Intent{Right: true}},
		{" -0.8 , 0.9 ", player.Intent{Left: true, Up: true}},
		{"0.5,-0.5", player.Intent{}},
		{"0,-1", player.Intent{Down: true}},
	}
	for _, tt := range tests {
		got, err := ParseStick(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseStick_Invalid(t *testing.T) {
	for _, in := range []string{"1", "a,0", "0,b", "2,0", "0,-1.5", "NaN,0"} {
		_, err := ParseStick(in)
		assert.ErrorIs(t, err, ErrInvalidStick, in)
	}
}

func TestKeyboard_MergesStick(t *testing.T) {
	k, _ := newTestKeyboard()
	k.HandleKey(tcell.KeyUp, 0)
	stick, err := ParseStick("1,0")
	require.NoError(t, err)
	assert.Equal(t, player.Intent{Up: true, Right: true}, k.Intent().Merge(stick))
}
