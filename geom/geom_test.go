package geom_test

import (
	"math"
	"testing"

	"github.com/plus3/scenery/geom"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-5

func assertVec(t *testing.T, want, got geom.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps)
	assert.InDelta(t, want.Y, got.Y, eps)
	assert.InDelta(t, want.Z, got.Z, eps)
}

func TestVecOps(t *testing.T) {
	a := geom.V(1, 2, 3)
	b := geom.V(4, 5, 6)

	assert.Equal(t, geom.V(5, 7, 9), a.Add(b))
	assert.Equal(t, geom.V(3, 3, 3), b.Sub(a))
	assert.Equal(t, geom.V(2, 4, 6), a.Scale(2))
	assert.Equal(t, float32(32), a.Dot(b))
	assert.Equal(t, geom.UnitZ, geom.UnitX.Cross(geom.UnitY))
	assert.InDelta(t, 5, geom.V(3, 4, 0).Length(), eps)
	assertVec(t, geom.V(0.6, 0.8, 0), geom.V(3, 4, 0).Normalize())
	assert.Equal(t, geom.Zero, geom.Zero.Normalize())
}

func TestTransformApply(t *testing.T) {
	tr := geom.FromXYZ(1, 0, 0)
	assertVec(t, geom.V(2, 1, 1), tr.Apply(geom.One))

	tr.Rotation.Y = math.Pi / 2
	assertVec(t, geom.V(1, 0, -1), tr.Apply(geom.UnitX))
}

func TestLookingAtFacesTarget(t *testing.T) {
	camera := geom.FromXYZ(-2, 2.5, 5).LookingAt(geom.Zero)
	want := geom.Zero.Sub(camera.Translation).Normalize()
	assertVec(t, want, camera.Forward())

	same := geom.FromXYZ(1, 1, 1)
	assert.Equal(t, same, same.LookingAt(same.Translation))
}

func TestViewProject(t *testing.T) {
	camera := geom.FromXYZ(0, 0, 5).LookingAt(geom.Zero)
	view := geom.NewView(camera, math.Pi/2, 800, 600)

	x, y, ok := view.Project(geom.Zero)
	assert.True(t, ok)
	assert.InDelta(t, 400, x, 1e-3)
	assert.InDelta(t, 300, y, 1e-3)

	// Up on screen is a smaller y
	_, y, ok = view.Project(geom.V(0, 1, 0))
	assert.True(t, ok)
	assert.Less(t, y, float32(300))

	x, _, ok = view.Project(geom.V(1, 0, 0))
	assert.True(t, ok)
	assert.Greater(t, x, float32(400))

	_, _, ok = view.Project(geom.V(0, 0, 10))
	assert.False(t, ok)
}

func TestCube(t *testing.T) {
	corners := geom.CubeCorners(2)
	for _, edge := range geom.CubeEdges {
		assert.InDelta(t, 2, corners[edge[0]].Sub(corners[edge[1]]).Length(), eps)
	}
}
