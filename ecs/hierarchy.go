package ecs

import (
	"reflect"
	"slices"
)

// EntityMapper is implemented by components that hold references to other
// entities. Scene instantiation calls MapEntities so references follow the
// ids assigned to the spawned copies.
type EntityMapper interface {
	MapEntities(mapEntity func(EntityId) EntityId)
}

// Parent points at the entity this entity is attached to
type Parent struct {
	Entity EntityId `yaml:"entity"`
}

func (p *Parent) MapEntities(mapEntity func(EntityId) EntityId) {
	p.Entity = mapEntity(p.Entity)
}

// Children lists the entities attached to this entity, in attach order
type Children struct {
	Entities []EntityId `yaml:"entities"`
}

func (c *Children) MapEntities(mapEntity func(EntityId) EntityId) {
	for i, id := range c.Entities {
		c.Entities[i] = mapEntity(id)
	}
}

var (
	parentType   = reflect.TypeFor[Parent]()
	childrenType = reflect.TypeFor[Children]()
)

// RegisterHierarchy registers Parent and Children as reflected components
func RegisterHierarchy(r *ComponentRegistry) {
	RegisterReflected[Parent](r)
	RegisterReflected[Children](r)
}

// SetParent attaches child to parent, detaching it from any previous parent.
// Returns false if either entity is dead or the link would form a cycle.
func SetParent(storage *Storage, child, parent EntityId) bool {
	if child == parent || !storage.Alive(child) || !storage.Alive(parent) {
		return false
	}
	if slices.Contains(Descendants(storage, child), parent) {
		return false
	}

	detach(storage, child)
	storage.AddComponent(child, Parent{Entity: parent})

	if children := ReadComponent[Children](storage, parent); children != nil {
		children.Entities = append(children.Entities, child)
	} else {
		storage.AddComponent(parent, Children{Entities: []EntityId{child}})
	}
	return true
}

// Descendants returns every entity below id in the hierarchy, depth first.
// Each entity is listed once, even when Children lists loop back.
func Descendants(storage *Storage, id EntityId) []EntityId {
	var out []EntityId
	visited := map[EntityId]bool{id: true}
	var walk func(EntityId)
	walk = func(e EntityId) {
		children := ReadComponent[Children](storage, e)
		if children == nil {
			return
		}
		for _, child := range children.Entities {
			if visited[child] || !storage.Alive(child) {
				continue
			}
			visited[child] = true
			out = append(out, child)
			walk(child)
		}
	}
	walk(id)
	return out
}

// DespawnRecursive despawns an entity together with all its descendants and
// detaches it from its parent. Returns the number of entities despawned.
func DespawnRecursive(storage *Storage, id EntityId) int {
	if !storage.Alive(id) {
		return 0
	}

	detach(storage, id)

	despawned := 0
	for _, e := range append([]EntityId{id}, Descendants(storage, id)...) {
		if storage.Despawn(e) {
			despawned++
		}
	}
	return despawned
}

// detach removes child from its current parent's Children list
func detach(storage *Storage, child EntityId) {
	parent := ReadComponent[Parent](storage, child)
	if parent == nil {
		return
	}

	if children := ReadComponent[Children](storage, parent.Entity); children != nil {
		children.Entities = slices.DeleteFunc(children.Entities, func(e EntityId) bool { return e == child })
		if len(children.Entities) == 0 {
			storage.RemoveComponent(parent.Entity, childrenType)
		}
	}
	storage.RemoveComponent(child, parentType)
}
