package demo

import (
	"math"

	"github.com/plus3/scenery/asset"
	"github.com/plus3/scenery/ecs"
	"github.com/plus3/scenery/input"
	"github.com/plus3/scenery/scene"
	"go.uber.org/zap"
)

// DefaultScene is where the demo saves and loads, relative to the assets directory
const DefaultScene = "scenes/load_scene_example.scn.yaml"

// Step is how far one key press moves the cubes
const Step float32 = 0.1

// SetupSystem places the camera on the first frame
type SetupSystem struct{}

func (s *SetupSystem) Execute(frame *ecs.UpdateFrame) {
	camera := TransformAt(-2, 2.5, 5).Geom().LookingAt(TransformAt(0, 0, 0).Translation)
	frame.Commands.Spawn(Transform(camera), Camera{Fov: math.Pi / 4})
}

// SpawnStuffSystem adds a saveable cube when A is pressed
type SpawnStuffSystem struct {
	Keyboard ecs.Singleton[input.Keyboard]
	Assets   ecs.Singleton[DemoAssets]
}

func (s *SpawnStuffSystem) Execute(frame *ecs.UpdateFrame) {
	keyboard := s.Keyboard.Get()
	if keyboard == nil || !keyboard.JustPressed(input.KeyA) {
		return
	}

	templates := NewDemoAssets()
	if assets := s.Assets.Get(); assets != nil {
		templates = *assets
	}
	frame.Commands.Spawn(
		templates.Cube,
		templates.CubeMaterial,
		TransformAt(0, 0.5, 0),
		Stuff{},
		SaveMe{},
	)
}

type stuffTransform struct {
	Transform *Transform
	Stuff     *Stuff
}

// MoveStuffSystem nudges every Stuff entity: Up along +X, Right along +Y
// and Left along -Y
type MoveStuffSystem struct {
	Keyboard ecs.Singleton[input.Keyboard]
	Stuff    ecs.Query[stuffTransform]
}

func (s *MoveStuffSystem) Execute(frame *ecs.UpdateFrame) {
	keyboard := s.Keyboard.Get()
	if keyboard == nil {
		return
	}

	var dx, dy float32
	if keyboard.JustPressed(input.KeyUp) {
		dx += Step
	}
	if keyboard.JustPressed(input.KeyRight) {
		dy += Step
	}
	if keyboard.JustPressed(input.KeyLeft) {
		dy -= Step
	}
	if dx == 0 && dy == 0 {
		return
	}

	for item := range s.Stuff.Values() {
		item.Transform.Translation.X += dx
		item.Transform.Translation.Y += dy
	}
}

type stuffEntity struct {
	Id    ecs.EntityId
	Stuff *Stuff
}

// ClearStuffSystem despawns every Stuff entity and its descendants when D is pressed
type ClearStuffSystem struct {
	Keyboard ecs.Singleton[input.Keyboard]
	Stuff    ecs.Query[stuffEntity]
}

func (s *ClearStuffSystem) Execute(frame *ecs.UpdateFrame) {
	keyboard := s.Keyboard.Get()
	if keyboard == nil || !keyboard.JustPressed(input.KeyD) {
		return
	}
	for id := range s.Stuff.Entities() {
		frame.Commands.DespawnRecursive(id)
	}
}

type saveMeEntity struct {
	Id     ecs.EntityId
	SaveMe *SaveMe
}

// SaveSceneSystem writes every SaveMe entity to the scene file when S is pressed.
// The file is written in the background; the serialized scene is logged.
type SaveSceneSystem struct {
	Logger   *zap.Logger
	Keyboard ecs.Singleton[input.Keyboard]
	Saver    ecs.Singleton[scene.Saver]
	Tagged   ecs.Query[saveMeEntity]
}

func (s *SaveSceneSystem) Execute(frame *ecs.UpdateFrame) {
	keyboard := s.Keyboard.Get()
	saver := s.Saver.Get()
	if keyboard == nil || saver == nil || !keyboard.JustPressed(input.KeyS) {
		return
	}

	data, err := saver.Save(frame.Storage, s.Tagged.Entities())
	if err != nil {
		s.logger().Error("serialize scene", zap.Error(err))
		return
	}
	s.logger().Info("saving scene",
		zap.String("path", saver.Path()),
		zap.Int("entities", s.Tagged.Len()),
		zap.ByteString("scene", data),
	)
}

func (s *SaveSceneSystem) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// LoadSceneSystem spawns the saved scene into the world when L is pressed.
// Entities already present are kept; nothing happens if the file is missing
// or cannot be parsed.
type LoadSceneSystem struct {
	Path     string
	Keyboard ecs.Singleton[input.Keyboard]
	Assets   ecs.Singleton[asset.ServerResource]
	Spawner  ecs.Singleton[scene.Spawner]
}

func (s *LoadSceneSystem) Execute(frame *ecs.UpdateFrame) {
	keyboard := s.Keyboard.Get()
	if keyboard == nil || !keyboard.JustPressed(input.KeyL) {
		return
	}
	assets, spawner := s.Assets.Get(), s.Spawner.Get()
	if assets == nil || assets.Server == nil || spawner == nil {
		return
	}

	path := s.Path
	if path == "" {
		path = DefaultScene
	}

	handle := assets.Handle(path)
	switch state := assets.State(handle); {
	case state == asset.NotLoaded:
		assets.Load(path)
	case spawner.RespawnOnReload && state != asset.Failed:
		// The watcher reloads the file when it changes. Reloading here would
		// respawn every instance already in the world.
	default:
		// Without a watcher, read the file again so the latest save is picked up
		assets.Reload(handle)
	}
	spawner.SpawnDynamic(handle)
}
