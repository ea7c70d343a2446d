package geom

import "math"

// View is a perspective camera ready to project world points onto a screen
type View struct {
	eye     Vec3
	right   Vec3
	up      Vec3
	forward Vec3
	focal   float32
	width   float32
	height  float32
	near    float32
}

// NewView builds a view from a camera transform, a vertical field of view in
// radians and the screen size in pixels
func NewView(camera Transform, fov float32, width, height int) View {
	forward := camera.Forward().Normalize()
	right := forward.Cross(UnitY).Normalize()
	if right == Zero {
		right = UnitX
	}
	up := right.Cross(forward)

	return View{
		eye:     camera.Translation,
		right:   right,
		up:      up,
		forward: forward,
		focal:   float32(float64(height) / 2 / math.Tan(float64(fov)/2)),
		width:   float32(width),
		height:  float32(height),
		near:    0.05,
	}
}

// Project returns the screen position of p. ok is false for points behind
// the camera.
func (v View) Project(p Vec3) (x, y float32, ok bool) {
	rel := p.Sub(v.eye)
	depth := rel.Dot(v.forward)
	if depth < v.near {
		return 0, 0, false
	}
	x = v.width/2 + rel.Dot(v.right)*v.focal/depth
	y = v.height/2 - rel.Dot(v.up)*v.focal/depth
	return x, y, true
}

// CubeCorners returns the eight corners of a cube of the given edge length
// centered on the origin
func CubeCorners(size float32) [8]Vec3 {
	h := size / 2
	return [8]Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
}

// CubeEdges lists corner index pairs forming the edges of a cube
var CubeEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}
