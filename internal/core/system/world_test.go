package system

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/tilephys/internal/core/events/bus"
	"github.com/zeusync/tilephys/internal/core/models"
	"github.com/zeusync/tilephys/internal/core/observability/log"
	"github.com/zeusync/tilephys/internal/core/player"
	"github.com/zeusync/tilephys/internal/core/systems/physics"
	"github.com/zeusync/tilephys/internal/core/tiles"
)

const (
	testTile = 16.0
	testDT   = 1.0 / 60
)

// floorStack builds a floor row at y=0 from x=-32 to x=64 and a two tile wall at x=48.
func floorStack(t testing.TB) *tiles.Stack {
	t.Helper()
	var floor []physics.Vec2
	for x := -32.0; x <= 64; x += testTile {
		floor = append(floor, physics.V2(x, 0))
	}
	ground, err := tiles.NewGrid(testTile, floor)
	require.NoError(t, err)
	wall, err := tiles.NewGrid(testTile, []physics.Vec2{physics.V2(48, 16), physics.V2(48, 32)})
	require.NoError(t, err)
	return tiles.NewStack(testTile,
		tiles.Layer{Name: "ground", Solid: true, Grid: ground},
		tiles.Layer{Name: "ground-wall", Solid: true, Grid: wall},
	)
}

func newTestWorld(t testing.TB, opts Options) *World {
	t.Helper()
	if opts.Universe == (physics.Universe{}) {
		opts.Universe = physics.DefaultUniverse()
	}
	w, err := NewWorld(opts, floorStack(t), log.NewNop())
	require.NoError(t, err)
	return w
}

func overlapsAnyTile(s *tiles.Stack, box physics.AABB) bool {
	for _, l := range s.Layers() {
		for _, c := range l.Grid.Coords() {
			if box.Overlaps(physics.NewAABB(c, physics.Splat(l.Grid.TileSize()))) {
				return true
			}
		}
	}
	return false
}

func TestWorld_BodyLandsOnFloor(t *testing.T) {
	w := newTestWorld(t, Options{})
	stack := w.Tiles().(*tiles.Stack)
	body := w.Spawn("crate", physics.V2(0, 40), physics.V2(8, 8))

	landed := false
	for i := 0; i < 300; i++ {
		report, err := w.Step(testDT)
		require.NoError(t, err)
		require.False(t, overlapsAnyTile(stack, body.Body.Bounds()), "tick %d: %+v", i, body.Body.Bounds())
		for _, ev := range report.Collisions {
			if ev.ActorID == body.ID() && ev.Axis == physics.AxisY {
				landed = true
			}
		}
	}

	require.True(t, landed)
	bottom := body.Body.Bounds().Min.Y
	assert.GreaterOrEqual(t, bottom, 8.0)
	assert.Less(t, bottom, 12.0)
	assert.Equal(t, int64(300), w.Frame())
}

func TestWorld_PlayerStopsAtWall(t *testing.T) {
	w := newTestWorld(t, Options{})
	stack := w.Tiles().(*tiles.Stack)
	p := w.SpawnPlayer("player", physics.V2(0, 12), physics.V2(8, 8), 0)
	require.NoError(t, w.SetIntent(p.ID(), player.Intent{Right: true}))

	blockedX := false
	for i := 0; i < 240; i++ {
		report, err := w.Step(testDT)
		require.NoError(t, err)
		bounds := p.Body.Bounds()
		require.False(t, overlapsAnyTile(stack, bounds), "tick %d: %+v", i, bounds)
		require.LessOrEqual(t, bounds.Max.X, 40.0)
		for _, ev := range report.Collisions {
			if ev.Axis == physics.AxisX {
				blockedX = true
			}
		}
	}

	assert.True(t, blockedX)
	assert.Greater(t, p.Body.Bounds().Max.X, 30.0)
	assert.True(t, p.Intent.Right)
}

func TestWorld_Events(t *testing.T) {
	w := newTestWorld(t, Options{})

	var spawned, despawned []string
	var hits []CollisionEvent
	_, err := w.Events().Subscribe(bus.TypeSpawn, func(e bus.Event) error {
		spawned = append(spawned, e.Data.(models.State).Name)
		return nil
	})
	require.NoError(t, err)
	_, err = w.Events().Subscribe(bus.TypeDespawn, func(e bus.Event) error {
		despawned = append(despawned, e.Source)
		return nil
	})
	require.NoError(t, err)
	_, err = w.Events().Subscribe(bus.TypeCollision, func(e bus.Event) error {
		hits = append(hits, e.Data.(CollisionEvent))
		// handlers may call back into the world
		_ = w.Actors()
		return nil
	})
	require.NoError(t, err)

	crate := w.Spawn("crate", physics.V2(0, 40), physics.V2(8, 8))
	for i := 0; i < 300; i++ {
		_, err = w.Step(testDT)
		require.NoError(t, err)
	}
	require.NoError(t, w.Despawn(crate.ID()))

	assert.Equal(t, []string{"crate"}, spawned)
	assert.Equal(t, []string{"crate"}, despawned)
	require.NotEmpty(t, hits)
	assert.Equal(t, physics.AxisY, hits[0].Axis)
	assert.Equal(t, crate.ID(), hits[0].ActorID)
}

func TestWorld_ParallelMatchesSequential(t *testing.T) {
	run := func(parallel bool) []physics.Vec2 {
		w := newTestWorld(t, Options{Parallel: parallel, Workers: 4})
		for i := 0; i < 12; i++ {
			a := w.Spawn("body", physics.V2(-24+float64(i)*6, 30+float64(i)), physics.V2(6, 6))
			require.NoError(t, w.SetForce(a.ID(), physics.ForceExternal, physics.V2(float64(i*50-300), 0)))
		}
		for i := 0; i < 120; i++ {
			_, err := w.Step(testDT)
			require.NoError(t, err)
		}
		var out []physics.Vec2
		for _, s := range w.Actors() {
			out = append(out, s.Position)
		}
		return out
	}
	assert.Equal(t, run(false), run(true))
}

func TestWorld_StepDelta(t *testing.T) {
	w := newTestWorld(t, Options{})
	body := w.Spawn("crate", physics.V2(0, 40), physics.V2(8, 8))

	for _, dt := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		_, err := w.Step(dt)
		assert.ErrorIs(t, err, ErrInvalidDelta)
	}

	report, err := w.Step(0)
	require.NoError(t, err)
	assert.Empty(t, report.Collisions)
	assert.Equal(t, int64(0), w.Frame())
	assert.Equal(t, physics.V2(0, 40), body.Body.Position)
	assert.False(t, body.Body.Forces.Established(physics.ForceGravity))
}

func TestWorld_ActorRegistry(t *testing.T) {
	w := newTestWorld(t, Options{})
	a := w.Spawn("a", physics.V2(0, 40), physics.V2(8, 8))
	b := w.SpawnPlayer("b", physics.V2(16, 40), physics.V2(8, 8), 50)

	got, ok := w.Actor(b.ID())
	require.True(t, ok)
	assert.Equal(t, "b", got.Name())
	assert.Equal(t, 50.0, got.Controller.Speed)

	assert.ErrorIs(t, w.SetIntent(a.ID(), player.Intent{Up: true}), ErrNotPlayer)

	require.NoError(t, w.Despawn(a.ID()))
	assert.ErrorIs(t, w.Despawn(a.ID()), ErrActorNotFound)
	assert.ErrorIs(t, w.SetIntent(a.ID(), player.Intent{}), ErrActorNotFound)
	assert.ErrorIs(t, w.SetForce(a.ID(), physics.ForceExternal, physics.Vec2{}), ErrActorNotFound)

	states := w.Actors()
	require.Len(t, states, 1)
	assert.Equal(t, b.ID(), states[0].ID)
}

func TestWorld_MetricsAndOrder(t *testing.T) {
	w := newTestWorld(t, Options{})
	w.Spawn("crate", physics.V2(0, 40), physics.V2(8, 8))
	for i := 0; i < 3; i++ {
		_, err := w.Step(testDT)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"input", "velocity", "collision", "transform"}, w.manager.ExecutionOrder())
	m, ok := w.Metrics("velocity")
	require.True(t, ok)
	assert.Equal(t, uint64(3), m.ExecutionCount)
	assert.Equal(t, uint64(3), m.EntitiesProcessed)
	_, ok = w.Metrics("render")
	assert.False(t, ok)
}

func TestWorld_WarnsOnceWhenTickOutrunsTile(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w, err := NewWorld(Options{Universe: physics.DefaultUniverse()}, floorStack(t), log.NewFromZap(zap.New(core)))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = w.Step(0.1)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, logs.FilterMessageSnippet("exceeds tile size").Len())
}

func TestWorld_InvalidUniverse(t *testing.T) {
	u := physics.DefaultUniverse()
	u.Gravity = -1
	_, err := NewWorld(Options{Universe: u}, floorStack(t), nil)
	assert.ErrorIs(t, err, physics.ErrInvalidUniverse)
}

func TestWorld_Run(t *testing.T) {
	w := newTestWorld(t, Options{})
	w.Spawn("crate", physics.V2(0, 40), physics.V2(8, 8))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var before, after atomic.Int32
	err := w.Run(ctx, time.Millisecond, func() { before.Add(1) }, func(StepReport) { after.Add(1) })
	require.NoError(t, err)
	assert.Positive(t, after.Load())
	assert.Equal(t, before.Load(), after.Load())
	assert.Equal(t, int64(after.Load()), w.Frame())

	assert.ErrorIs(t, w.Run(context.Background(), 0, nil, nil), ErrInvalidDelta)
}

func BenchmarkWorld_Step(b *testing.B) {
	w := newTestWorld(b, Options{})
	for i := 0; i < 64; i++ {
		w.Spawn("body", physics.V2(-24+float64(i%10)*6, 30+float64(i)), physics.V2(6, 6))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = w.Step(testDT)
	}
}
