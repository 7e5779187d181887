package input

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/tilephys/internal/core/player"
)

// DefaultHold covers the gap between the first key press and the terminal's
// auto-repeat.
const DefaultHold = 150 * time.Millisecond

type direction uint8

const (
	dirUp direction = iota
	dirDown
	dirLeft
	dirRight
	dirCount
)

// Keyboard turns terminal key presses into a held player.Intent. Terminals
// report no key releases, so a direction stays held for a short window after
// each press or repeat.
type Keyboard struct {
	mu    sync.Mutex
	hold  time.Duration
	now   func() time.Time
	until [dirCount]time.Time
}

func NewKeyboard(hold time.Duration) *Keyboard {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Keyboard{hold: hold, now: time.Now}
}

// HandleEvent consumes one tcell event and reports whether the user asked to quit.
func (k *Keyboard) HandleEvent(ev tcell.Event) (quit bool) {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	return k.HandleKey(key.Key(), key.Rune())
}

// HandleKey applies a single key. Esc, Ctrl-C and q quit.
func (k *Keyboard) HandleKey(key tcell.Key, r rune) (quit bool) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		k.press(dirUp)
	case tcell.KeyDown:
		k.press(dirDown)
	case tcell.KeyLeft:
		k.press(dirLeft)
	case tcell.KeyRight:
		k.press(dirRight)
	case tcell.KeyRune:
		switch r {
		case 'q', 'Q':
			return true
		case 'w', 'W':
			k.press(dirUp)
		case 's', 'S':
			k.press(dirDown)
		case 'a', 'A':
			k.press(dirLeft)
		case 'd', 'D':
			k.press(dirRight)
		}
	}
	return false
}

func (k *Keyboard) press(d direction) {
	k.mu.Lock()
	k.until[d] = k.now().Add(k.hold)
	k.mu.Unlock()
}

// Release drops every held direction.
func (k *Keyboard) Release() {
	k.mu.Lock()
	k.until = [dirCount]time.Time{}
	k.mu.Unlock()
}

// Intent returns the directions pressed within the hold window.
func (k *Keyboard) Intent() player.Intent {
	k.mu.Lock()
	defer k.mu.Unlock()
	now := k.now()
	held := func(d direction) bool { return now.Before(k.until[d]) }
	return player.Intent{
		Up:    held(dirUp),
		Down:  held(dirDown),
		Left:  held(dirLeft),
		Right: held(dirRight),
	}
}
