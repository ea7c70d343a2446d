package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/scenery/ecs"
	"github.com/plus3/scenery/ecs/debugui"
	debugui_ebiten "github.com/plus3/scenery/ecs/debugui/ebiten"
	"github.com/plus3/scenery/input"
	"github.com/plus3/scenery/internal/app"
	"github.com/plus3/scenery/render"
)

var keyMap = map[ebiten.Key]input.KeyCode{
	ebiten.KeyA:          input.KeyA,
	ebiten.KeyD:          input.KeyD,
	ebiten.KeyL:          input.KeyL,
	ebiten.KeyS:          input.KeyS,
	ebiten.KeyQ:          input.KeyQ,
	ebiten.KeyArrowUp:    input.KeyUp,
	ebiten.KeyArrowDown:  input.KeyDown,
	ebiten.KeyArrowLeft:  input.KeyLeft,
	ebiten.KeyArrowRight: input.KeyRight,
	ebiten.KeyEscape:     input.KeyEscape,
	ebiten.KeyF1:         input.KeyF1,
}

// Game adapts the app to ebiten's update and draw callbacks
type Game struct {
	app      *app.App
	renderer *render.System
	keys     []ebiten.Key

	imgui      *ecs.Singleton[debugui_ebiten.ImguiBackend]
	imguiInput *ecs.Singleton[debugui.ImguiInputState]
}

func newGame(a *app.App) *Game {
	g := &Game{app: a}
	g.renderer = render.NewSystem(a.Storage, g.status)
	return g
}

func (g *Game) Update() error {
	g.readKeyboard()

	keyboard := g.app.Keyboard()
	if keyboard.JustPressed(input.KeyEscape) || keyboard.JustPressed(input.KeyQ) {
		return ebiten.Termination
	}

	dt := 1.0 / float64(ebiten.TPS())
	if g.imgui != nil {
		g.imgui.Get().Frame(func() { g.app.Update(dt) })
		return nil
	}
	g.app.Update(dt)
	return nil
}

// readKeyboard copies this tick's key edges into the keyboard singleton.
// Keys typed into an inspector text field are not forwarded.
func (g *Game) readKeyboard() {
	keyboard := g.app.Keyboard()
	captured := false
	if g.imguiInput != nil {
		if state := g.imguiInput.Get(); state != nil {
			captured = state.WantCaptureKeyboard
		}
	}

	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, key := range g.keys {
		if code, ok := keyMap[key]; ok && !captured {
			keyboard.Press(code)
		}
	}

	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	for _, key := range g.keys {
		if code, ok := keyMap[key]; ok {
			keyboard.Release(code)
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
	if g.imgui != nil {
		g.imgui.Get().Overlay(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Get().Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func (g *Game) status() string {
	stats := g.app.Pool.Stats()
	return fmt.Sprintf("io tasks: %d done, %d failed", stats.Completed, stats.Failed+stats.Panicked)
}
