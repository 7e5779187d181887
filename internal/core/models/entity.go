package models

import (
	"github.com/google/uuid"

	"github.com/zeusync/tilephys/internal/core/player"
	"github.com/zeusync/tilephys/internal/core/systems/physics"
)

type ActorID = uuid.UUID

// Kind distinguishes player driven actors from passive bodies.
type Kind uint8

const (
	KindBody Kind = iota
	KindPlayer
)

func (k Kind) String() string {
	if k == KindPlayer {
		return "player"
	}
	return "body"
}

// Actor is a dynamic body in the world. Its state is only touched during its
// own tick pass.
type Actor struct {
	id   ActorID
	name string
	kind Kind

	Body physics.Body

	// Controller is nil for actors not driven by input.
	Controller *player.Controller
	Intent     player.Intent
}

// NewActor creates an actor at rest with a fresh random id.
func NewActor(name string, kind Kind, position, size physics.Vec2) *Actor {
	return &Actor{
		id:   uuid.New(),
		name: name,
		kind: kind,
		Body: physics.Body{Position: position, Size: size},
	}
}

func (a *Actor) ID() ActorID    { return a.id }
func (a *Actor) Name() string   { return a.name }
func (a *Actor) Kind() Kind     { return a.kind }
func (a *Actor) IsPlayer() bool { return a.kind == KindPlayer }

func (a *Actor) Position2() (x, y float64) { return a.Body.Position2() }

// State is a read-only copy of an actor for render and report consumers.
type State struct {
	ID       ActorID
	Name     string
	Kind     Kind
	Position physics.Vec2
	Velocity physics.Vec2
	Size     physics.Vec2
}

func (a *Actor) State() State {
	return State{
		ID:       a.id,
		Name:     a.name,
		Kind:     a.kind,
		Position: a.Body.Position,
		Velocity: a.Body.Velocity,
		Size:     a.Body.Size,
	}
}
