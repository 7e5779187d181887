package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/tilephys/internal/config"
	"github.com/zeusync/tilephys/internal/core/models"
	"github.com/zeusync/tilephys/internal/core/observability/log"
	"github.com/zeusync/tilephys/internal/core/player"
	"github.com/zeusync/tilephys/internal/core/system"
	"github.com/zeusync/tilephys/internal/injector"
	"github.com/zeusync/tilephys/internal/input"
	"github.com/zeusync/tilephys/internal/render"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	levelPath := flag.String("level", "", "path to a YAML level file, overrides the config")
	headless := flag.Bool("headless", false, "step the world without a terminal UI")
	ticks := flag.Int("ticks", 600, "number of ticks to run in headless mode")
	stickFlag := flag.String("stick", "", "hold an analog stick lean x,y in [-1, 1] on the player")
	flag.Parse()

	stick, err := input.ParseStick(*stickFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "platformer:", err)
		os.Exit(2)
	}
	if err := run(*configPath, *levelPath, *headless, *ticks, stick); err != nil {
		fmt.Fprintln(os.Stderr, "platformer:", err)
		os.Exit(1)
	}
}

func run(configPath, levelPath string, headless bool, ticks int, stick player.Intent) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFile(configPath); err != nil {
			return err
		}
	}
	if levelPath != "" {
		cfg.Level.Path = levelPath
	}
	if !headless {
		cfg.Log.Outputs = offTerminal(cfg.Log.Outputs)
	}

	app, cleanup, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if headless {
		return runHeadless(ctx, app, ticks, stick)
	}
	return runInteractive(ctx, app, stick)
}

// offTerminal replaces terminal sinks so log lines do not tear the screen.
func offTerminal(outputs []string) []string {
	out := make([]string, 0, len(outputs))
	for _, o := range outputs {
		if o == "stderr" || o == "stdout" {
			continue
		}
		out = append(out, o)
	}
	if len(out) == 0 {
		out = append(out, filepath.Join(os.TempDir(), "platformer.log"))
	}
	return out
}

func runHeadless(ctx context.Context, app *injector.App, ticks int, stick player.Intent) error {
	if hero, ok := app.Player(); ok {
		if err := app.World.SetIntent(hero.ID(), stick); err != nil {
			return err
		}
	}

	dt := app.Config.Simulation.DeltaTime()
	every := app.Config.Simulation.TickRate
	collisions := 0

	for i := 0; i < ticks; i++ {
		if ctx.Err() != nil {
			break
		}
		report, err := app.World.Step(dt)
		if err != nil {
			return err
		}
		collisions += len(report.Collisions)
		if (i+1)%every == 0 {
			logPositions(app.Logger, report.Frame, app.World.Actors())
		}
	}

	for _, s := range app.World.Actors() {
		fmt.Printf("%-10s %-6s pos=(%8.2f, %8.2f) vel=(%8.2f, %8.2f)\n",
			s.Name, s.Kind, s.Position.X, s.Position.Y, s.Velocity.X, s.Velocity.Y)
	}
	fmt.Printf("frames=%d simulated=%s collisions=%d\n", app.World.Frame(), app.World.Elapsed(), collisions)
	return nil
}

func logPositions(logger log.Log, frame int64, actors []models.State) {
	for _, s := range actors {
		logger.Info("actor",
			log.Int64("frame", frame),
			log.String("actor", s.Name),
			log.Float64("x", s.Position.X),
			log.Float64("y", s.Position.Y),
			log.Float64("vx", s.Velocity.X),
			log.Float64("vy", s.Velocity.Y),
		)
	}
}

func runInteractive(ctx context.Context, app *injector.App, stick player.Intent) error {
	hero, ok := app.Player()
	if !ok {
		return fmt.Errorf("level %q has no player spawn", app.Level.Name)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err = screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.HideCursor()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys := input.NewKeyboard(input.DefaultHold)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if _, resized := ev.(*tcell.EventResize); resized {
				screen.Sync()
			}
			if keys.HandleEvent(ev) {
				cancel()
				return
			}
		}
	}()

	renderer := render.NewRenderer(app.Level.Tiles.TileSize())
	var camera render.Camera

	before := func() {
		_ = app.World.SetIntent(hero.ID(), keys.Intent().Merge(stick))
	}
	after := func(report system.StepReport) {
		actors := app.World.Actors()
		for _, s := range actors {
			if s.ID == hero.ID() {
				camera.Follow(s.Position)
				status := fmt.Sprintf(" %s  frame %d  pos (%.1f, %.1f)  vel (%.1f, %.1f)  hits %d  esc quits ",
					app.Level.Name, report.Frame, s.Position.X, s.Position.Y, s.Velocity.X, s.Velocity.Y, len(report.Collisions))
				renderer.Draw(screen, app.Level.Tiles, camera, actors, status)
				break
			}
		}
		screen.Show()
	}

	return app.World.Run(ctx, app.Config.Simulation.Interval(), before, after)
}
