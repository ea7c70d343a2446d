package demo_test

import (
	"reflect"
	"testing"

	"github.com/plus3/scenery/geom"
	"github.com/stretchr/testify/assert"
)

func typeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

func assertVec(t *testing.T, want, got geom.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-5)
	assert.InDelta(t, want.Y, got.Y, 1e-5)
	assert.InDelta(t, want.Z, got.Z, 1e-5)
}
