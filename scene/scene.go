// Package scene captures selected entities into a DynamicScene, writes it as
// versioned YAML and instantiates scenes back into storage additively.
package scene

import (
	"fmt"
	"reflect"

	"github.com/plus3/scenery/ecs"
)

// DynamicEntity is one captured entity with copies of its reflected components
type DynamicEntity struct {
	Entity     ecs.EntityId
	Components []any
}

// DynamicScene is an immutable snapshot of entities and their components.
// Entities are ordered by id, components by registered type name.
type DynamicScene struct {
	Entities []DynamicEntity
}

// Len returns the number of entities in the scene
func (s *DynamicScene) Len() int {
	return len(s.Entities)
}

// EntityMap records which live entity each scene entity was spawned as
type EntityMap map[ecs.EntityId]ecs.EntityId

// WriteToStorage spawns a fresh copy of every scene entity into storage.
// Existing entities are never touched. References held by components that
// implement ecs.EntityMapper are rewritten to the new ids; references to
// entities outside the scene become the zero id. Entities without components
// cannot exist in storage and are skipped.
func (s *DynamicScene) WriteToStorage(storage *ecs.Storage) (EntityMap, error) {
	registry := storage.Registry()
	for _, entity := range s.Entities {
		types := make(map[reflect.Type]bool, len(entity.Components))
		for _, comp := range entity.Components {
			t := reflect.TypeOf(comp)
			if t == nil {
				return nil, fmt.Errorf("entity %d: nil component", entity.Entity)
			}
			if _, ok := registry.Registration(t); !ok {
				return nil, unknownType(ecs.TypeName(t))
			}
			if types[t] {
				return nil, fmt.Errorf("%w: component %s of entity %d", ErrDuplicate, ecs.TypeName(t), entity.Entity)
			}
			types[t] = true
		}
	}

	entityMap := make(EntityMap, len(s.Entities))
	var mappers []ecs.EntityId
	for _, entity := range s.Entities {
		if len(entity.Components) == 0 {
			continue
		}

		components := make([]any, len(entity.Components))
		hasMapper := false
		for i, comp := range entity.Components {
			components[i] = cloneValue(reflect.ValueOf(comp)).Interface()
			if _, ok := reflect.New(reflect.TypeOf(comp)).Interface().(ecs.EntityMapper); ok {
				hasMapper = true
			}
		}

		id := storage.Spawn(components...)
		entityMap[entity.Entity] = id
		if hasMapper {
			mappers = append(mappers, id)
		}
	}

	mapEntity := func(old ecs.EntityId) ecs.EntityId {
		return entityMap[old]
	}
	for _, id := range mappers {
		for _, comp := range storage.Components(id) {
			if mapper, ok := comp.(ecs.EntityMapper); ok {
				mapper.MapEntities(mapEntity)
			}
		}
	}

	return entityMap, nil
}

// cloneValue copies v deeply enough that the copy shares no slices, maps or
// pointers with the original
func cloneValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if out.Field(i).CanSet() {
				out.Field(i).Set(cloneValue(v.Field(i)))
			}
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneValue(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneValue(v.Index(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return out
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(cloneValue(v.Elem()))
		return out
	}
	return v
}
