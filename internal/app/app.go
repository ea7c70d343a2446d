// Package app wires storage, systems and background services into one
// application object owned by the command.
package app

import (
	"fmt"
	"os"

	"github.com/plus3/scenery/asset"
	"github.com/plus3/scenery/ecs"
	"github.com/plus3/scenery/input"
	"github.com/plus3/scenery/internal/config"
	"github.com/plus3/scenery/internal/demo"
	"github.com/plus3/scenery/scene"
	"github.com/plus3/scenery/tasks"
	"go.uber.org/zap"
)

type App struct {
	Config    config.Config
	Logger    *zap.Logger
	Registry  *ecs.ComponentRegistry
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler
	Pool      *tasks.Pool
	Assets    *asset.Server

	keyboard *ecs.Singleton[input.Keyboard]
}

// RegisterFunc adds extra component types before the registry is frozen
type RegisterFunc func(registry *ecs.ComponentRegistry)

// New builds the application. The registry is frozen before any background
// work can observe it.
func New(cfg config.Config, logger *zap.Logger, extra ...RegisterFunc) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	registry := ecs.NewComponentRegistry()
	demo.Register(registry)
	for _, register := range extra {
		register(registry)
	}
	registry.Freeze()

	storage := ecs.NewStorage(registry)
	pool := tasks.NewPool(logger, cfg.IOWorkers)

	assets := asset.NewServer(cfg.Assets, pool, logger)
	assets.RegisterLoader(scene.NewLoader(registry))
	if cfg.Watch {
		if err := os.MkdirAll(cfg.Assets, 0o755); err != nil {
			pool.Close()
			return nil, fmt.Errorf("create assets directory: %w", err)
		}
		if err := assets.Watch(); err != nil {
			logger.Warn("asset watching disabled", zap.Error(err))
		}
	}

	spawner := scene.NewSpawner(assets, logger)
	spawner.RespawnOnReload = cfg.Watch

	storage.AddSingleton(asset.ServerResource{Server: assets})
	storage.AddSingleton(spawner)
	storage.AddSingleton(scene.NewSaver(pool, logger, cfg.ScenePath()))
	storage.AddSingleton(demo.NewDemoAssets())

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Registry:  registry,
		Storage:   storage,
		Scheduler: ecs.NewScheduler(storage),
		Pool:      pool,
		Assets:    assets,
		keyboard:  ecs.NewSingleton(storage, input.NewKeyboard()),
	}

	a.Scheduler.RegisterStartup(&demo.SetupSystem{})

	a.Scheduler.Register(&asset.System{})
	a.Scheduler.Register(&demo.SpawnStuffSystem{})
	a.Scheduler.Register(&demo.MoveStuffSystem{})
	a.Scheduler.Register(&demo.ClearStuffSystem{})
	a.Scheduler.Register(&demo.SaveSceneSystem{Logger: logger.Named("demo")})
	a.Scheduler.Register(&demo.LoadSceneSystem{Path: cfg.Scene})
	a.Scheduler.Register(&scene.SpawnerSystem{})

	logger.Info("app ready",
		zap.String("assets", cfg.Assets),
		zap.String("scene", cfg.ScenePath()),
		zap.Bool("watch", cfg.Watch),
	)
	return a, nil
}

// Keyboard returns the keyboard state systems read from
func (a *App) Keyboard() *input.Keyboard {
	return a.keyboard.Get()
}

// Update runs one frame, then forgets this frame's key edges
func (a *App) Update(dt float64) {
	a.Scheduler.Once(dt)
	a.Keyboard().Clear()
}

// Close stops watching assets and waits for pending writes to finish
func (a *App) Close() error {
	err := a.Assets.Close()
	a.Pool.Wait()
	a.Pool.Close()

	stats := a.Pool.Stats()
	a.Logger.Info("app closed",
		zap.Int64("tasks", stats.Spawned),
		zap.Int64("failed", stats.Failed),
		zap.Int64("panicked", stats.Panicked),
	)
	return err
}
