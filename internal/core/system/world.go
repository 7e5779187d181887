package system

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/zeusync/tilephys/internal/core/events/bus"
	"github.com/zeusync/tilephys/internal/core/models"
	"github.com/zeusync/tilephys/internal/core/observability/log"
	"github.com/zeusync/tilephys/internal/core/player"
	"github.com/zeusync/tilephys/internal/core/systems"
	"github.com/zeusync/tilephys/internal/core/systems/physics"
)

var (
	ErrActorNotFound = errors.New("actor not found")
	ErrInvalidDelta  = errors.New("invalid delta time")
	ErrNotPlayer     = errors.New("actor has no controller")
)

// Options configures a World.
type Options struct {
	Universe physics.Universe
	Policy   physics.Policy
	Parallel bool
	Workers  int
}

// CollisionEvent is one blocked axis of one actor during a tick.
type CollisionEvent struct {
	Frame   int64
	ActorID models.ActorID
	Actor   string
	Axis    physics.Axis
	Hit     physics.LineHit
}

// StepReport summarizes one tick.
type StepReport struct {
	Frame      int64
	DeltaTime  float64
	Actors     int
	Collisions []CollisionEvent
}

type fingerprinter interface {
	Fingerprint() uint64
}

// World owns the actors of one level and advances them tick by tick against
// a read-only tile query.
type World struct {
	mu sync.Mutex

	logger   log.Log
	events   bus.EventBus
	universe physics.Universe
	tiles    physics.TileQuery
	manager  *Manager

	actors []*models.Actor
	index  map[models.ActorID]*models.Actor

	frame       int64
	elapsed     time.Duration
	speedWarned bool

	hitsMu sync.Mutex
	hits   []CollisionEvent
}

// NewWorld wires the input, velocity, collision and transform systems.
func NewWorld(opts Options, tiles physics.TileQuery, logger log.Log) (*World, error) {
	if err := opts.Universe.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNop()
	}
	tileSize := 0.0
	if tiles != nil {
		tileSize = tiles.TileSize()
	}

	w := &World{
		logger:   logger,
		events:   bus.New(),
		universe: opts.Universe,
		tiles:    tiles,
		manager:  NewManager(opts.Parallel, opts.Workers),
		index:    make(map[models.ActorID]*models.Actor),
	}

	resolver := physics.NewResolver(tiles, opts.Policy)
	for _, s := range []systems.System{
		systems.NewInputSystem(tileSize),
		systems.NewVelocitySystem(opts.Universe),
		systems.NewCollisionSystem(resolver, w.recordHit),
		systems.NewTransformSystem(),
	} {
		if err := w.manager.RegisterSystem(s); err != nil {
			return nil, err
		}
	}

	fields := []log.Field{
		log.Float64("tile_size", tileSize),
		log.Stringer("policy", opts.Policy),
		log.Bool("parallel", opts.Parallel),
	}
	if fp, ok := tiles.(fingerprinter); ok {
		fields = append(fields, log.Uint64("fingerprint", fp.Fingerprint()))
	}
	logger.Info("world created", fields...)

	return w, nil
}

// Spawn adds a passive body.
func (w *World) Spawn(name string, position, size physics.Vec2) *models.Actor {
	return w.add(models.NewActor(name, models.KindBody, position, size))
}

// SpawnPlayer adds an input driven actor with the given acceleration speed.
func (w *World) SpawnPlayer(name string, position, size physics.Vec2, speed float64) *models.Actor {
	a := models.NewActor(name, models.KindPlayer, position, size)
	a.Controller = player.NewController(speed)
	return w.add(a)
}

func (w *World) add(a *models.Actor) *models.Actor {
	w.mu.Lock()
	w.actors = append(w.actors, a)
	w.index[a.ID()] = a
	frame, state := w.frame, a.State()
	w.mu.Unlock()

	w.logger.Debug("actor spawned",
		log.String("actor", a.Name()),
		log.String("id", a.ID().String()),
		log.Stringer("kind", a.Kind()),
	)
	w.publish(bus.NewEvent(bus.TypeSpawn, a.Name(), frame, state))
	return a
}

// Despawn removes an actor.
func (w *World) Despawn(id models.ActorID) error {
	w.mu.Lock()
	a, ok := w.index[id]
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrActorNotFound, id)
	}
	delete(w.index, id)
	for i, other := range w.actors {
		if other == a {
			w.actors = append(w.actors[:i], w.actors[i+1:]...)
			break
		}
	}
	frame := w.frame
	w.mu.Unlock()

	w.logger.Debug("actor despawned", log.String("actor", a.Name()), log.String("id", id.String()))
	w.publish(bus.NewEvent(bus.TypeDespawn, a.Name(), frame, a.State()))
	return nil
}

// Actor returns the live actor. Callers must not mutate it concurrently with Step.
func (w *World) Actor(id models.ActorID) (*models.Actor, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.index[id]
	return a, ok
}

// Actors returns a snapshot of every actor in spawn order.
func (w *World) Actors() []models.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.State, len(w.actors))
	for i, a := range w.actors {
		out[i] = a.State()
	}
	return out
}

// SetIntent stores the input applied to a player on the next tick.
func (w *World) SetIntent(id models.ActorID, intent player.Intent) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrActorNotFound, id)
	}
	if a.Controller == nil {
		return fmt.Errorf("%w: %s", ErrNotPlayer, a.Name())
	}
	a.Intent = intent
	return nil
}

// SetForce writes a force slot of an actor, e.g. wind or a conveyor.
func (w *World) SetForce(id models.ActorID, kind physics.ForceKind, value physics.Vec2) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrActorNotFound, id)
	}
	a.Body.Forces.Set(kind, value)
	return nil
}

func (w *World) Frame() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frame
}

func (w *World) Elapsed() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.elapsed
}

func (w *World) Tiles() physics.TileQuery { return w.tiles }

// Events carries spawn, despawn and collision events. Handlers run on the
// goroutine that changed the world, after the world lock is released.
func (w *World) Events() bus.EventBus { return w.events }

func (w *World) Universe() physics.Universe { return w.universe }

// Metrics returns the counters of the named system.
func (w *World) Metrics(system string) (systems.Metrics, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.manager.SystemMetrics(system)
}

// Step advances every actor by dt seconds: input, velocity, collision and
// transform, each phase completing for all actors before the next. A zero dt
// is an empty tick. Collision events are published once the tick is done.
func (w *World) Step(dt float64) (StepReport, error) {
	report, err := w.step(dt)
	if err != nil || len(report.Collisions) == 0 {
		return report, err
	}
	events := make([]bus.Event, len(report.Collisions))
	for i, c := range report.Collisions {
		events[i] = bus.NewEvent(bus.TypeCollision, c.Actor, c.Frame, c)
	}
	w.publish(events...)
	return report, nil
}

func (w *World) step(dt float64) (StepReport, error) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return StepReport{}, fmt.Errorf("%w: %v", ErrInvalidDelta, dt)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	report := StepReport{Frame: w.frame, DeltaTime: dt, Actors: len(w.actors)}
	if dt == 0 {
		return report, nil
	}

	w.checkSpeed(dt)

	w.hitsMu.Lock()
	w.hits = w.hits[:0]
	w.hitsMu.Unlock()

	actors := make([]*models.Actor, len(w.actors))
	copy(actors, w.actors)
	if err := w.manager.Update(dt, actors); err != nil {
		return report, err
	}

	w.hitsMu.Lock()
	report.Collisions = orderByActor(w.hits, actors)
	w.hitsMu.Unlock()

	w.frame++
	w.elapsed += time.Duration(dt * float64(time.Second))
	return report, nil
}

// Run steps the world every interval with a fixed dt of interval seconds until
// ctx is done. before is called ahead of each step, after with its report;
// either may be nil.
func (w *World) Run(ctx context.Context, interval time.Duration, before func(), after func(StepReport)) error {
	if interval <= 0 {
		return fmt.Errorf("%w: interval %v", ErrInvalidDelta, interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := interval.Seconds()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if before != nil {
				before()
			}
			report, err := w.Step(dt)
			if err != nil {
				w.logger.Error("step failed", log.Error(err))
				return err
			}
			if after != nil {
				after(report)
			}
		}
	}
}

func (w *World) publish(events ...bus.Event) {
	if err := w.events.PublishBatch(events...); err != nil {
		w.logger.Warn("event handler failed", log.Error(err))
	}
}

func (w *World) recordHit(a *models.Actor, hit physics.AxisHit) {
	ev := CollisionEvent{
		Frame:   w.frame,
		ActorID: a.ID(),
		Actor:   a.Name(),
		Axis:    hit.Axis,
		Hit:     hit.Hit,
	}
	w.hitsMu.Lock()
	w.hits = append(w.hits, ev)
	w.hitsMu.Unlock()

	w.logger.Debug("collision",
		log.Int64("frame", ev.Frame),
		log.String("actor", ev.Actor),
		log.Stringer("axis", ev.Axis),
		log.Float64("t", hit.Hit.T),
	)
}

// checkSpeed warns once when a tick can move a body further than one tile,
// past which the snapped tile lookup can miss.
func (w *World) checkSpeed(dt float64) {
	if w.speedWarned || w.tiles == nil {
		return
	}
	if reach := w.universe.MaxDisplacement(dt); reach > w.tiles.TileSize() {
		w.speedWarned = true
		w.logger.Warn("tick displacement exceeds tile size, collisions may tunnel",
			log.Float64("dt", dt),
			log.Float64("max_displacement", reach),
			log.Float64("tile_size", w.tiles.TileSize()),
		)
	}
}

// orderByActor sorts events into spawn order, y before x within an actor.
func orderByActor(events []CollisionEvent, actors []*models.Actor) []CollisionEvent {
	if len(events) == 0 {
		return nil
	}
	out := make([]CollisionEvent, 0, len(events))
	for _, a := range actors {
		for _, axis := range [...]physics.Axis{physics.AxisY, physics.AxisX} {
			for _, ev := range events {
				if ev.ActorID == a.ID() && ev.Axis == axis {
					out = append(out, ev)
				}
			}
		}
	}
	return out
}
