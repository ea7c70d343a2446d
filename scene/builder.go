package scene

import (
	"iter"
	"reflect"
	"slices"

	"github.com/plus3/scenery/ecs"
)

// Builder collects entities from storage into a DynamicScene
type Builder struct {
	storage  *ecs.Storage
	registry *ecs.ComponentRegistry
	entities map[ecs.EntityId]DynamicEntity
}

// NewBuilder creates a builder reading from storage
func NewBuilder(storage *ecs.Storage) *Builder {
	return &Builder{
		storage:  storage,
		registry: storage.Registry(),
		entities: make(map[ecs.EntityId]DynamicEntity),
	}
}

// ExtractEntity captures the reflected components of one entity.
// Dead entities are ignored.
func (b *Builder) ExtractEntity(id ecs.EntityId) *Builder {
	if !b.storage.Alive(id) {
		return b
	}

	entity := DynamicEntity{Entity: id}
	for _, comp := range b.storage.Components(id) {
		value := reflect.ValueOf(comp).Elem()
		if !b.registry.IsReflected(value.Type()) {
			continue
		}
		entity.Components = append(entity.Components, cloneValue(value).Interface())
	}
	b.entities[id] = entity
	return b
}

// ExtractEntities captures every entity yielded by ids
func (b *Builder) ExtractEntities(ids iter.Seq[ecs.EntityId]) *Builder {
	for id := range ids {
		b.ExtractEntity(id)
	}
	return b
}

// ExtractTagged captures every entity carrying a T component
func ExtractTagged[T any](b *Builder) *Builder {
	tag := reflect.TypeFor[T]()
	ids := make([]ecs.EntityId, 0)
	for id := range b.storage.Entities() {
		if b.storage.HasComponent(id, tag) {
			ids = append(ids, id)
		}
	}
	return b.ExtractEntities(slices.Values(ids))
}

// Build returns the scene. The builder may keep extracting afterwards.
func (b *Builder) Build() *DynamicScene {
	ids := make([]ecs.EntityId, 0, len(b.entities))
	for id := range b.entities {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	scene := &DynamicScene{Entities: make([]DynamicEntity, 0, len(ids))}
	for _, id := range ids {
		scene.Entities = append(scene.Entities, b.entities[id])
	}
	return scene
}
