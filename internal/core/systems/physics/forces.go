package physics

import (
	"errors"
	"fmt"
)

var ErrUnknownForce = errors.New("unknown force")

// ForceKind identifies one slot of the force ledger.
type ForceKind uint8

const (
	ForceGravity ForceKind = iota
	ForceFriction
	ForcePlayer
	ForceExternal

	forceKindCount
)

var forceNames = [forceKindCount]string{
	ForceGravity:  "GRAVITY",
	ForceFriction: "FRICTION_INPUT",
	ForcePlayer:   "PLAYER_ACCEL",
	ForceExternal: "EXTERNAL",
}

func (k ForceKind) String() string {
	if k < forceKindCount {
		return forceNames[k]
	}
	return fmt.Sprintf("ForceKind(%d)", uint8(k))
}

// ParseForceKind maps a ledger name such as "GRAVITY" back to its slot.
func ParseForceKind(name string) (ForceKind, error) {
	for k, n := range forceNames {
		if n == name {
			return ForceKind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownForce, name)
}

// Forces is the per-body acceleration ledger. Each kind holds at most one
// contribution and the effective acceleration is their sum. A slot becomes
// established the first time it is written or read.
//
// The zero value is an empty ledger.
type Forces struct {
	values      [forceKindCount]Vec2
	established uint8
}

// Set upserts the contribution of kind.
func (f *Forces) Set(kind ForceKind, value Vec2) {
	if kind >= forceKindCount {
		return
	}
	f.values[kind] = value
	f.established |= 1 << kind
}

// Get returns the contribution of kind, establishing a zero slot on first access.
func (f *Forces) Get(kind ForceKind) Vec2 {
	if kind >= forceKindCount {
		return Vec2{}
	}
	f.established |= 1 << kind
	return f.values[kind]
}

// Established reports whether kind has been written or read at least once.
func (f *Forces) Established(kind ForceKind) bool {
	return kind < forceKindCount && f.established&(1<<kind) != 0
}

// Kinds lists established slots in slot order.
func (f *Forces) Kinds() []ForceKind {
	kinds := make([]ForceKind, 0, forceKindCount)
	for k := ForceKind(0); k < forceKindCount; k++ {
		if f.Established(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Sum returns the effective acceleration.
func (f *Forces) Sum() Vec2 {
	var sum Vec2
	for _, v := range f.values {
		sum = sum.Add(v)
	}
	return sum
}

// ClearAxis zeroes one component of every contribution and keeps the other.
func (f *Forces) ClearAxis(axis Axis) {
	for i := range f.values {
		f.values[i] = f.values[i].WithComponent(axis, 0)
	}
}

// SetNamed is Set addressed by ledger name.
func (f *Forces) SetNamed(name string, value Vec2) error {
	kind, err := ParseForceKind(name)
	if err != nil {
		return err
	}
	f.Set(kind, value)
	return nil
}

// GetNamed is Get addressed by ledger name.
func (f *Forces) GetNamed(name string) (Vec2, error) {
	kind, err := ParseForceKind(name)
	if err != nil {
		return Vec2{}, err
	}
	return f.Get(kind), nil
}
