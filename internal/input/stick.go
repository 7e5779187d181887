package input

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zeusync/tilephys/internal/core/player"
)

var ErrInvalidStick = errors.New("invalid stick position")

// ParseStick reads a fixed analog stick lean written as "x,y", each axis in
// [-1, 1]. An empty string is a centered stick.
func ParseStick(s string) (player.Intent, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return player.Intent{}, nil
	}
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return player.Intent{}, fmt.Errorf("%w: %q, want x,y", ErrInvalidStick, s)
	}
	x, err := parseAxis(xs)
	if err != nil {
		return player.Intent{}, err
	}
	y, err := parseAxis(ys)
	if err != nil {
		return player.Intent{}, err
	}
	return player.IntentFromStick(x, y), nil
}

func parseAxis(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidStick, err)
	}
	if math.IsNaN(v) || v < -1 || v > 1 {
		return 0, fmt.Errorf("%w: axis %v outside [-1, 1]", ErrInvalidStick, v)
	}
	return v, nil
}
