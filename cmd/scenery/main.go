// Command scenery runs the scene persistence demo in a window.
//
// A spawns a cube, the arrow keys move cubes, D despawns them, S saves every
// SaveMe entity to the scene file and L loads that file back in.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/scenery/ecs"
	"github.com/plus3/scenery/ecs/debugui"
	debugui_ebiten "github.com/plus3/scenery/ecs/debugui/ebiten"
	"github.com/plus3/scenery/internal/app"
	"github.com/plus3/scenery/internal/config"
	"github.com/plus3/scenery/internal/logging"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load("scenery", args)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var extra []app.RegisterFunc
	if cfg.Inspector {
		extra = append(extra, debugui.RegisterDebugUIComponents)
	}

	a, err := app.New(cfg, logger, extra...)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close", zap.Error(err))
		}
	}()

	game := newGame(a)
	if cfg.Inspector {
		backend := debugui_ebiten.NewImguiBackend("scenery", cfg.Width, cfg.Height)
		game.imgui = ecs.NewSingleton(a.Storage, backend)
		game.imguiInput = ecs.NewSingleton[debugui.ImguiInputState](a.Storage)
		debugui.SpawnInspector(a.Storage, a.Scheduler)
		a.Scheduler.Register(&debugui.ImguiSystem{})
	} else {
		ebiten.SetWindowTitle("scenery")
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(game)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
