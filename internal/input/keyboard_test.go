package input

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/zeusync/tilephys/internal/core/player"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestKeyboard() (*Keyboard, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	k := NewKeyboard(100 * time.Millisecond)
	k.now = clock.now
	return k, clock
}

func TestKeyboard_Bindings(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		want player.Intent
	}{
		{"arrow up", tcell.KeyUp, 0, player.Intent{Up: true}},
		{"arrow down", tcell.KeyDown, 0, player.Intent{Down: true}},
		{"arrow left", tcell.KeyLeft, 0, player.Intent{Left: true}},
		{"arrow right", tcell.KeyRight, 0, player.Intent{Right: true}},
		{"w", tcell.KeyRune, 'w', player.Intent{Up: true}},
		{"S", tcell.KeyRune, 'S', player.Intent{Down: true}},
		{"a", tcell.KeyRune, 'a', player.Intent{Left: true}},
		{"d", tcell.KeyRune, 'd', player.Intent{Right: true}},
		{"other rune", tcell.KeyRune, 'x', player.Intent{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, _ := newTestKeyboard()
			assert.False(t, k.HandleKey(tt.key, tt.r))
			assert.Equal(t, tt.want, k.Intent())
		})
	}
}

func TestKeyboard_Quit(t *testing.T) {
	k, _ := newTestKeyboard()
	assert.True(t, k.HandleKey(tcell.KeyEscape, 0))
	assert.True(t, k.HandleKey(tcell.KeyCtrlC, 0))
	assert.True(t, k.HandleKey(tcell.KeyRune, 'q'))
}

func TestKeyboard_HoldWindow(t *testing.T) {
	k, clock := newTestKeyboard()
	k.HandleKey(tcell.KeyRight, 0)
	k.HandleKey(tcell.KeyUp, 0)

	clock.advance(60 * time.Millisecond)
	assert.Equal(t, player.Intent{Up: true, Right: true}, k.Intent())

	k.HandleKey(tcell.KeyRight, 0)
	clock.advance(60 * time.Millisecond)
	assert.Equal(t, player.Intent{Right: true}, k.Intent())

	clock.advance(60 * time.Millisecond)
	assert.True(t, k.Intent().IsZero())
}

func TestKeyboard_Release(t *testing.T) {
	k, _ := newTestKeyboard()
	k.HandleKey(tcell.KeyLeft, 0)
	k.Release()
	assert.True(t, k.Intent().IsZero())
}

func TestKeyboard_IgnoresNonKeyEvents(t *testing.T) {
	k, _ := newTestKeyboard()
	assert.False(t, k.HandleEvent(tcell.NewEventResize(80, 24)))
	assert.True(t, k.Intent().IsZero())
}
