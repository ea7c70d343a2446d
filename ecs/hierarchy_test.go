package ecs_test

import (
	"testing"

	"github.com/plus3/scenery/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetParent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	root := storage.Spawn(Name{Value: "root"})
	a := storage.Spawn(Name{Value: "a"})
	b := storage.Spawn(Name{Value: "b"})

	require.True(t, ecs.SetParent(storage, a, root))
	require.True(t, ecs.SetParent(storage, b, a))

	assert.Equal(t, root, ecs.ReadComponent[ecs.Parent](storage, a).Entity)
	assert.Equal(t, []ecs.EntityId{a}, ecs.ReadComponent[ecs.Children](storage, root).Entities)
	assert.Equal(t, []ecs.EntityId{a, b}, ecs.Descendants(storage, root))

	t.Run("rejects cycles and self links", func(t *testing.T) {
		assert.False(t, ecs.SetParent(storage, root, b))
		assert.False(t, ecs.SetParent(storage, a, a))
	})

	t.Run("reparenting detaches from the old parent", func(t *testing.T) {
		require.True(t, ecs.SetParent(storage, b, root))
		assert.Nil(t, ecs.ReadComponent[ecs.Children](storage, a))
		assert.Equal(t, []ecs.EntityId{a, b}, ecs.ReadComponent[ecs.Children](storage, root).Entities)
	})
}

func TestDespawnRecursive(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	root := storage.Spawn(Name{Value: "root"})
	child := storage.Spawn(Name{Value: "child"})
	grandchild := storage.Spawn(Name{Value: "grandchild"})
	sibling := storage.Spawn(Name{Value: "sibling"})
	require.True(t, ecs.SetParent(storage, child, root))
	require.True(t, ecs.SetParent(storage, grandchild, child))
	require.True(t, ecs.SetParent(storage, sibling, root))

	assert.Equal(t, 2, ecs.DespawnRecursive(storage, child))
	assert.False(t, storage.Alive(child))
	assert.False(t, storage.Alive(grandchild))
	assert.Equal(t, []ecs.EntityId{sibling}, ecs.ReadComponent[ecs.Children](storage, root).Entities)

	assert.Equal(t, 0, ecs.DespawnRecursive(storage, child))
	assert.Equal(t, 2, ecs.DespawnRecursive(storage, root))
	assert.Equal(t, 0, storage.EntityCount())
}

func TestDescendantsStopsOnLoops(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	a := storage.Spawn(Name{Value: "a"})
	b := storage.Spawn(Name{Value: "b"})
	self := storage.Spawn(Name{Value: "self"})

	// Hand-written Children lists can loop; SetParent would refuse these links
	storage.AddComponent(a, ecs.Children{Entities: []ecs.EntityId{b, b}})
	storage.AddComponent(b, ecs.Children{Entities: []ecs.EntityId{a}})
	storage.AddComponent(self, ecs.Children{Entities: []ecs.EntityId{self}})

	assert.Equal(t, []ecs.EntityId{b}, ecs.Descendants(storage, a))
	assert.Empty(t, ecs.Descendants(storage, self))

	assert.Equal(t, 2, ecs.DespawnRecursive(storage, a))
	assert.Equal(t, 1, ecs.DespawnRecursive(storage, self))
	assert.Equal(t, 0, storage.EntityCount())
}

func TestHierarchyMapEntities(t *testing.T) {
	remap := func(id ecs.EntityId) ecs.EntityId { return id + 100 }

	parent := &ecs.Parent{Entity: 1}
	parent.MapEntities(remap)
	assert.Equal(t, ecs.EntityId(101), parent.Entity)

	children := &ecs.Children{Entities: []ecs.EntityId{1, 2}}
	children.MapEntities(remap)
	assert.Equal(t, []ecs.EntityId{101, 102}, children.Entities)
}
