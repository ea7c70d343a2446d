package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/scenery/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		index      uint32
		generation uint32
	}{
		{0, 1},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{1, 0},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("index=%d,generation=%d", tt.index, tt.generation), func(t *testing.T) {
			id := ecs.NewEntityId(tt.index, tt.generation)
			assert.Equal(t, tt.index, id.Index())
			assert.Equal(t, tt.generation, id.Generation())
		})
	}
}

func TestSpawnEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 1.0, Y: 2.0}, &Velocity{DX: 0.5, DY: 0.5}, Score(32))
	assert.NotEqual(t, ecs.EntityId(0), id)
	assert.True(t, storage.Alive(id))
	assert.Equal(t, 1, storage.EntityCount())

	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, Position{X: 1, Y: 2}, *pos)

	score := ecs.ReadComponent[Score](storage, id)
	require.NotNil(t, score)
	assert.Equal(t, Score(32), *score)
}

func TestSpawnPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { storage.Spawn() })
	assert.Panics(t, func() { storage.Spawn(Position{}, Position{}) })
	assert.Panics(t, func() { storage.Spawn(struct{ Unregistered int }{}) })
	assert.Panics(t, func() { storage.Spawn(map[string]int{}) })
}

func TestEntityIdStableAcrossArchetypeMoves(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 3, Y: 4})
	before := storage.GetArchetypeOf(id)

	assert.True(t, storage.AddComponent(id, Velocity{DX: 1}))
	assert.NotSame(t, before, storage.GetArchetypeOf(id))
	assert.True(t, storage.HasComponent(id, reflect.TypeFor[Velocity]()))
	assert.Equal(t, float32(3), ecs.ReadComponent[Position](storage, id).X)

	assert.True(t, storage.RemoveComponent(id, reflect.TypeFor[Velocity]()))
	assert.Same(t, before, storage.GetArchetypeOf(id))
	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
	assert.Equal(t, float32(4), ecs.ReadComponent[Position](storage, id).Y)
}

func TestAddComponentReplacesExisting(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1}, Health{Current: 10, Max: 10})
	archetype := storage.GetArchetypeOf(id)

	assert.True(t, storage.AddComponent(id, Health{Current: 3, Max: 10}))
	assert.Same(t, archetype, storage.GetArchetypeOf(id))
	assert.Equal(t, 3, ecs.ReadComponent[Health](storage, id).Current)
}

func TestRemoveLastComponentDespawns(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{})
	assert.True(t, storage.RemoveComponent(id, reflect.TypeFor[Position]()))
	assert.False(t, storage.Alive(id))
	assert.False(t, storage.RemoveComponent(id, reflect.TypeFor[Position]()))
}

func TestDespawnKeepsOtherRowsIntact(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{X: 1}, Name{Value: "a"})
	b := storage.Spawn(Position{X: 2}, Name{Value: "b"})
	c := storage.Spawn(Position{X: 3}, Name{Value: "c"})

	assert.True(t, storage.Despawn(a))
	assert.False(t, storage.Despawn(a))
	assert.False(t, storage.Alive(a))

	assert.Equal(t, "b", ecs.ReadComponent[Name](storage, b).Value)
	assert.Equal(t, "c", ecs.ReadComponent[Name](storage, c).Value)
	assert.Equal(t, float32(3), ecs.ReadComponent[Position](storage, c).X)
	assert.Equal(t, 2, storage.EntityCount())
}

func TestSlotReuseBumpsGeneration(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	old := storage.Spawn(Position{})
	storage.Despawn(old)
	reused := storage.Spawn(Position{X: 9})

	assert.Equal(t, old.Index(), reused.Index())
	assert.NotEqual(t, old, reused)
	assert.False(t, storage.Alive(old))
	assert.Nil(t, storage.GetComponent(old, reflect.TypeFor[Position]()))
	assert.False(t, storage.AddComponent(old, Velocity{}))
}

func TestComponentsOrderedByTypeName(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Velocity{DX: 1}, Name{Value: "n"}, Position{X: 2})
	components := storage.Components(id)
	require.Len(t, components, 3)

	names := make([]string, len(components))
	for i, c := range components {
		names[i] = ecs.TypeName(reflect.TypeOf(c).Elem())
	}
	assert.IsIncreasing(t, names)
	assert.Nil(t, storage.Components(ecs.EntityId(12345)))
}

func TestArchetypeIdsAreStable(t *testing.T) {
	s1 := ecs.NewStorage(newTestRegistry())
	s2 := ecs.NewStorage(newTestRegistry())

	id1 := s1.Spawn(Position{}, Velocity{})
	id2 := s2.Spawn(Velocity{}, Position{})

	assert.Equal(t, s1.GetArchetypeOf(id1).ID(), s2.GetArchetypeOf(id2).ID())
	assert.Same(t, s1.GetArchetypeOf(id1), s1.GetArchetypeById(s1.GetArchetypeOf(id1).ID()))
}

func TestEntitiesIterator(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	want := map[ecs.EntityId]bool{
		storage.Spawn(Position{}):           true,
		storage.Spawn(Position{}, Health{}): true,
		storage.Spawn(Name{}):               true,
	}

	got := map[ecs.EntityId]bool{}
	for id := range storage.Entities() {
		got[id] = true
	}
	assert.Equal(t, want, got)
}

func TestSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var missing *Health
	assert.False(t, storage.ReadSingleton(&missing))

	accessor := ecs.NewSingleton[Health](storage, Health{Current: 5, Max: 5})
	storage.AddSingleton(Health{Current: 1, Max: 5})
	assert.Equal(t, 1, accessor.Get().Current)

	var health *Health
	require.True(t, storage.ReadSingleton(&health))
	health.Current = 4
	assert.Equal(t, 4, accessor.Get().Current)

	assert.Panics(t, func() { storage.ReadSingleton(health) })
}

func TestStorageStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	stats := storage.CollectStats()
	assert.Equal(t, 0, stats.ArchetypeCount)
	assert.Equal(t, 0, stats.TotalEntityCount)
	assert.Equal(t, 0, stats.SingletonCount)

	storage.Spawn(42, "hello")
	storage.Spawn(100, "world")
	storage.Spawn(200.0, "test")

	ecs.NewSingleton[float64](storage, 3.14)
	ecs.NewSingleton[string](storage, "singleton")

	stats = storage.CollectStats()
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 2, stats.SingletonCount)
	assert.Equal(t, []string{"float64", "string"}, stats.SingletonTypes)

	counts := []int{}
	for _, arch := range stats.ArchetypeBreakdown {
		counts = append(counts, arch.EntityCount)
	}
	assert.ElementsMatch(t, []int{2, 1}, counts)
}
