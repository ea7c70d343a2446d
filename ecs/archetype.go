package ecs

import (
	"reflect"
	"slices"

	"github.com/cespare/xxhash/v2"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return TypeName(a[i]) < TypeName(a[j]) }

// Archetype represents a unique combination of component types.
// Rows are dense: row i of every column belongs to entities[i].
type Archetype struct {
	id       uint32
	types    []reflect.Type
	columns  []column
	entities []EntityId
}

// NewArchetype creates a new archetype with the given ID and sorted component types
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
	}

	for idx, typ := range types {
		a.columns[idx] = registry.newColumn(typ)
	}

	return a
}

// push appends a row holding the given components, which must match the archetype's types
func (a *Archetype) push(entity EntityId, components []any) int {
	row := len(a.entities)
	for _, comp := range components {
		idx := a.columnIndex(componentType(comp))
		if idx == -1 {
			panic("component type " + componentType(comp).String() + " not part of archetype")
		}
		a.columns[idx].Append(comp)
	}
	a.entities = append(a.entities, entity)
	return row
}

// remove deletes a row and returns the entity that was moved into it, if any
func (a *Archetype) remove(row int) (moved EntityId, ok bool) {
	last := len(a.entities) - 1
	for _, col := range a.columns {
		col.SwapRemove(row)
	}
	if row != last {
		a.entities[row] = a.entities[last]
		moved, ok = a.entities[row], true
	}
	a.entities = a.entities[:last]
	return moved, ok
}

func (a *Archetype) columnIndex(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}

// GetComponent returns a pointer to the component of the given type stored at row
func (a *Archetype) GetComponent(row int, compType reflect.Type) any {
	idx := a.columnIndex(compType)
	if idx == -1 {
		return nil
	}
	return a.columns[idx].Get(row)
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of entities stored in this archetype
func (a *Archetype) Len() int {
	return len(a.entities)
}

// Iter returns an iterator over all EntityIds in this archetype
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		for _, id := range a.entities {
			if !yield(id) {
				return
			}
		}
	}
}

func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// archetypeIdFor hashes a sorted slice of types by name so ids are stable between runs
func archetypeIdFor(types []reflect.Type) uint32 {
	h := xxhash.New()
	for _, t := range types {
		_, _ = h.WriteString(TypeName(t))
		_, _ = h.Write([]byte{0})
	}
	return uint32(h.Sum64())
}
