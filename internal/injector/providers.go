package injector

import (
	"fmt"

	"github.com/google/wire"

	"github.com/zeusync/tilephys/internal/config"
	"github.com/zeusync/tilephys/internal/core/level"
	"github.com/zeusync/tilephys/internal/core/models"
	"github.com/zeusync/tilephys/internal/core/observability/log"
	"github.com/zeusync/tilephys/internal/core/system"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideLevel,
	ProvideWorldOptions,
	ProvideWorld,
	NewApp,
)

// App is a level loaded into a running world.
type App struct {
	Config  config.Config
	Logger  log.Log
	Level   *level.Level
	World   *system.World
	Actors  []*models.Actor
	Players []*models.Actor
}

func ProvideLogger(cfg config.Config) (*log.Logger, func(), error) {
	logger, err := log.NewWithConfig(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvideLevel(cfg config.Config, logger log.Log) (*level.Level, error) {
	lvl, err := level.LoadFile(cfg.Level.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("level loaded",
		log.String("level", lvl.Name),
		log.String("path", cfg.Level.Path),
		log.Float64("tile_size", lvl.Tiles.TileSize()),
		log.Int("tiles", lvl.Tiles.TileCount()),
		log.Int("solid_layers", lvl.Tiles.SolidCount()),
		log.Uint64("fingerprint", lvl.Tiles.Fingerprint()),
	)
	return lvl, nil
}

func ProvideWorldOptions(cfg config.Config) (system.Options, error) {
	policy, err := cfg.Simulation.ParsePolicy()
	if err != nil {
		return system.Options{}, err
	}
	return system.Options{
		Universe: cfg.Physics,
		Policy:   policy,
		Parallel: cfg.Simulation.Parallel,
		Workers:  cfg.Simulation.Workers,
	}, nil
}

func ProvideWorld(opts system.Options, lvl *level.Level, logger log.Log) (*system.World, error) {
	return system.NewWorld(opts, lvl.Tiles, logger)
}

// NewApp spawns the level's actors into the world.
func NewApp(cfg config.Config, logger log.Log, lvl *level.Level, world *system.World) *App {
	app := &App{
		Config: cfg,
		Logger: logger,
		Level:  lvl,
		World:  world,
		Actors: lvl.Populate(world, cfg.Player.Speed),
	}
	for _, a := range app.Actors {
		if a.IsPlayer() {
			app.Players = append(app.Players, a)
		}
	}
	return app
}

// Player returns the first player actor, if the level has one.
func (a *App) Player() (*models.Actor, bool) {
	if len(a.Players) == 0 {
		return nil, false
	}
	return a.Players[0], true
}
