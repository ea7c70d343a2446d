package ebiten_test

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/scenery/ecs"
	"github.com/plus3/scenery/ecs/debugui"
	debugui_ebiten "github.com/plus3/scenery/ecs/debugui/ebiten"
)

// Game implements ebiten.Game and runs the world inspector over an ECS world.
type Game struct {
	scheduler    *ecs.Scheduler
	imguiBackend *ecs.Singleton[debugui_ebiten.ImguiBackend]
}

func (g *Game) Update() error {
	// Systems, including ImguiSystem, run inside the ImGui frame
	g.imguiBackend.Get().Frame(func() {
		g.scheduler.Once(1.0 / 60.0)
	})
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Draw game content to screen, then the inspector on top
	g.imguiBackend.Get().Overlay(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.imguiBackend.Get().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	registry := ecs.NewComponentRegistry()
	debugui.RegisterDebugUIComponents(registry)
	registry.Freeze()

	storage := ecs.NewStorage(registry)
	backend := ecs.NewSingleton(storage, debugui_ebiten.NewImguiBackend("Inspector Example", 1280, 720))

	scheduler := ecs.NewScheduler(storage)
	debugui.SpawnInspector(storage, scheduler)
	scheduler.Register(&debugui.ImguiSystem{})

	game := &Game{
		scheduler:    scheduler,
		imguiBackend: backend,
	}

	if err := ebiten.RunGame(game); err != nil {
		panic(err)
	}
}
