// Package render draws the demo world with ebiten: every Mesh entity as a
// wireframe cube seen from the Camera entity, plus a text overlay.
package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/scenery/ecs"
	"github.com/plus3/scenery/geom"
	"github.com/plus3/scenery/internal/demo"
)

var (
	background = color.RGBA{R: 24, G: 24, B: 32, A: 255}
	gridColor  = color.RGBA{R: 60, G: 60, B: 72, A: 255}
)

const help = `A     spawn cube
Up    move cubes +X
Right move cubes +Y
Left  move cubes -Y
D     despawn cubes
S     save scene
L     load scene`

type cameraView struct {
	Transform *demo.Transform
	Camera    *demo.Camera
}

type meshView struct {
	Transform *demo.Transform
	Mesh      *demo.Mesh
	Material  *demo.Material `ecs:"optional"`
	SaveMe    *demo.SaveMe   `ecs:"optional"`
}

// System draws the world held by a storage
type System struct {
	storage *ecs.Storage
	cameras *ecs.View[cameraView]
	meshes  *ecs.View[meshView]
	status  func() string
}

// NewSystem creates a renderer. status, if set, adds a line to the overlay.
func NewSystem(storage *ecs.Storage, status func() string) *System {
	return &System{
		storage: storage,
		cameras: ecs.NewView[cameraView](storage),
		meshes:  ecs.NewView[meshView](storage),
		status:  status,
	}
}

func (s *System) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	bounds := screen.Bounds()

	if view, ok := s.view(bounds.Dx(), bounds.Dy()); ok {
		drawGrid(screen, view)

		for item := range s.meshes.Values() {
			clr := color.RGBA{R: 200, G: 200, B: 200, A: 255}
			if item.Material != nil {
				clr = item.Material.Color
			}
			drawCube(screen, view, item.Transform.Geom(), item.Mesh.Size, clr, item.SaveMe != nil)
		}
	}

	ebitenutil.DebugPrintAt(screen, s.overlay(), 8, 8)
}

func (s *System) view(width, height int) (geom.View, bool) {
	for item := range s.cameras.Values() {
		return geom.NewView(item.Transform.Geom(), item.Camera.Fov, width, height), true
	}
	return geom.View{}, false
}

func (s *System) overlay() string {
	var b strings.Builder
	b.WriteString(help)
	fmt.Fprintf(&b, "\n\nentities: %d", s.storage.EntityCount())
	if s.status != nil {
		if line := s.status(); line != "" {
			b.WriteString("\n")
			b.WriteString(line)
		}
	}
	return b.String()
}

func drawCube(screen *ebiten.Image, view geom.View, transform geom.Transform, size float32, clr color.RGBA, saved bool) {
	width := float32(1)
	if saved {
		width = 2
	}
	for _, seg := range cubeSegments(view, transform, size) {
		vector.StrokeLine(screen, seg[0], seg[1], seg[2], seg[3], width, clr, true)
	}
}

// cubeSegments projects the edges of a cube. Edges with a corner behind the
// camera are left out.
func cubeSegments(view geom.View, transform geom.Transform, size float32) [][4]float32 {
	var projected [8][2]float32
	var visible [8]bool
	for i, corner := range geom.CubeCorners(size) {
		x, y, ok := view.Project(transform.Apply(corner))
		projected[i] = [2]float32{x, y}
		visible[i] = ok
	}

	segments := make([][4]float32, 0, len(geom.CubeEdges))
	for _, edge := range geom.CubeEdges {
		a, b := edge[0], edge[1]
		if !visible[a] || !visible[b] {
			continue
		}
		segments = append(segments, [4]float32{projected[a][0], projected[a][1], projected[b][0], projected[b][1]})
	}
	return segments
}

// drawGrid draws the ground plane around the origin
func drawGrid(screen *ebiten.Image, view geom.View) {
	const extent = 5
	for i := -extent; i <= extent; i++ {
		f := float32(i)
		drawSegment(screen, view, geom.V(f, 0, -extent), geom.V(f, 0, extent))
		drawSegment(screen, view, geom.V(-extent, 0, f), geom.V(extent, 0, f))
	}
}

func drawSegment(screen *ebiten.Image, view geom.View, from, to geom.Vec3) {
	x0, y0, ok0 := view.Project(from)
	x1, y1, ok1 := view.Project(to)
	if !ok0 || !ok1 {
		return
	}
	vector.StrokeLine(screen, x0, y0, x1, y1, 1, gridColor, false)
}
