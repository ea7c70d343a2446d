// Package demo is the example application: cubes spawned, moved and cleared
// from the keyboard, with the tagged ones saved to and loaded from a scene file.
package demo

import (
	"image/color"

	"github.com/plus3/scenery/ecs"
	"github.com/plus3/scenery/geom"
)

// Transform places an entity in the world
type Transform struct {
	Translation geom.Vec3 `yaml:"translation"`
	Rotation    geom.Vec3 `yaml:"rotation"`
	Scale       geom.Vec3 `yaml:"scale"`
}

// TransformAt returns an unrotated, unit scaled transform
func TransformAt(x, y, z float32) Transform {
	return Transform(geom.FromXYZ(x, y, z))
}

func (t Transform) Geom() geom.Transform {
	return geom.Transform(t)
}

// Stuff marks the cubes the keyboard controls
type Stuff struct{}

// SaveMe marks entities written into saved scenes
type SaveMe struct{}

// Mesh describes the shape drawn for an entity
type Mesh struct {
	Shape string  `yaml:"shape"`
	Size  float32 `yaml:"size"`
}

// Material describes how a mesh is colored
type Material struct {
	Color color.RGBA `yaml:"color"`
}

// Camera marks the entity the world is viewed from. Fov is the vertical
// field of view in radians.
type Camera struct {
	Fov float32
}

// DemoAssets holds the templates new cubes are built from
type DemoAssets struct {
	Cube         Mesh
	CubeMaterial Material
}

// NewDemoAssets returns the default cube: one unit wide, orange
func NewDemoAssets() DemoAssets {
	return DemoAssets{
		Cube:         Mesh{Shape: "cube", Size: 1},
		CubeMaterial: Material{Color: color.RGBA{R: 204, G: 127, B: 76, A: 255}},
	}
}

// Register adds the demo components to registry. Everything except the
// camera can be written into scenes.
func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterReflected[Transform](registry)
	ecs.RegisterReflected[Stuff](registry)
	ecs.RegisterReflected[SaveMe](registry)
	ecs.RegisterReflected[Mesh](registry)
	ecs.RegisterReflected[Material](registry)
	ecs.RegisterComponent[Camera](registry)
	ecs.RegisterHierarchy(registry)
}
