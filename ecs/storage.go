package ecs

import (
	"iter"
	"reflect"
	"sort"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// Storage is the main ECS storage interface
type Storage struct {
	archetypes map[uint32]*Archetype
	registry   *ComponentRegistry

	generations []uint32
	freeSlots   []uint32
	locations   *intmap.Map[uint32, entityLocation]

	singletons map[reflect.Type]*singletonEntry
}

type singletonEntry struct {
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		registry:   registry,
		locations:  intmap.New[uint32, entityLocation](256),
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the component registry the storage was created with
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := extractComponentTypes(components)
	archetype := s.archetypeFor(types)

	id := s.allocate()
	row := archetype.push(id, components)
	s.locations.Put(id.Index(), entityLocation{archetype: archetype, row: row})
	return id
}

// Alive reports whether the id refers to a live entity
func (s *Storage) Alive(id EntityId) bool {
	_, ok := s.locate(id)
	return ok
}

// Despawn removes the entity and all of its components.
// Returns false if the entity was not alive.
func (s *Storage) Despawn(id EntityId) bool {
	loc, ok := s.locate(id)
	if !ok {
		return false
	}

	s.removeRow(loc)
	s.locations.Del(id.Index())
	s.generations[id.Index()]++
	s.freeSlots = append(s.freeSlots, id.Index())
	return true
}

// Delete removes all data related to the entity ID
func (s *Storage) Delete(id EntityId) {
	s.Despawn(id)
}

// AddComponent inserts a component on a live entity, replacing any existing
// component of the same type. Returns false if the entity is not alive.
func (s *Storage) AddComponent(id EntityId, component any) bool {
	loc, ok := s.locate(id)
	if !ok {
		return false
	}

	compType := componentType(component)
	if idx := loc.archetype.columnIndex(compType); idx != -1 {
		loc.archetype.columns[idx].Set(loc.row, component)
		return true
	}

	newTypes := make([]reflect.Type, 0, len(loc.archetype.types)+1)
	newTypes = append(newTypes, loc.archetype.types...)
	newTypes = append(newTypes, compType)
	sort.Sort(byTypeName(newTypes))

	components := make([]any, 0, len(newTypes))
	components = append(components, s.rowComponents(loc)...)
	components = append(components, component)

	s.move(id, loc, s.archetypeFor(newTypes), components)
	return true
}

// RemoveComponent removes a component from a live entity.
// An entity left without components is despawned.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) bool {
	loc, ok := s.locate(id)
	if !ok || !loc.archetype.HasComponent(compType) {
		return false
	}

	if len(loc.archetype.types) == 1 {
		return s.Despawn(id)
	}

	newTypes := make([]reflect.Type, 0, len(loc.archetype.types)-1)
	components := make([]any, 0, len(loc.archetype.types)-1)
	for idx, typ := range loc.archetype.types {
		if typ == compType {
			continue
		}
		newTypes = append(newTypes, typ)
		components = append(components, loc.archetype.columns[idx].Get(loc.row))
	}

	s.move(id, loc, s.archetypeFor(newTypes), components)
	return true
}

// GetComponent returns a pointer to the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	loc, ok := s.locate(id)
	if !ok {
		return nil
	}
	return loc.archetype.GetComponent(loc.row, compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	loc, ok := s.locate(id)
	if !ok {
		return false
	}
	return loc.archetype.HasComponent(compType)
}

// Components returns pointers to every component of an entity, ordered by type name
func (s *Storage) Components(id EntityId) []any {
	loc, ok := s.locate(id)
	if !ok {
		return nil
	}
	return s.rowComponents(loc)
}

// EntityCount returns the number of live entities
func (s *Storage) EntityCount() int {
	return s.locations.Len()
}

// Entities iterates over all live entities, archetype by archetype
func (s *Storage) Entities() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for _, archetype := range s.GetArchetypes() {
			for id := range archetype.Iter() {
				if !yield(id) {
					return
				}
			}
		}
	}
}

// GetArchetypes returns all archetypes ordered by id
func (s *Storage) GetArchetypes() []*Archetype {
	archetypes := make([]*Archetype, 0, len(s.archetypes))
	for _, archetype := range s.archetypes {
		archetypes = append(archetypes, archetype)
	}
	sort.Slice(archetypes, func(i, j int) bool { return archetypes[i].id < archetypes[j].id })
	return archetypes
}

// GetArchetypeById returns the archetype with the given id, or nil
func (s *Storage) GetArchetypeById(id uint32) *Archetype {
	return s.archetypes[id]
}

// GetArchetypeOf returns the archetype currently holding the entity, or nil
func (s *Storage) GetArchetypeOf(id EntityId) *Archetype {
	loc, ok := s.locate(id)
	if !ok {
		return nil
	}
	return loc.archetype
}

// AddSingleton stores a value that is not attached to any entity.
// An existing singleton of the same type is overwritten in place, so
// accessors obtained earlier keep pointing at the current value.
func (s *Storage) AddSingleton(value any) {
	t := reflect.TypeOf(value)
	if entry, ok := s.singletons[t]; ok {
		entry.value.Elem().Set(reflect.ValueOf(value))
		return
	}
	ptr := reflect.New(t)
	ptr.Elem().Set(reflect.ValueOf(value))
	s.singletons[t] = &singletonEntry{
		value:   ptr,
		dataPtr: ptr.UnsafePointer(),
	}
}

// ReadSingleton points target (a **T) at the stored singleton of type T.
// Returns false if no such singleton exists.
func (s *Storage) ReadSingleton(target any) bool {
	ptrPtr := reflect.ValueOf(target)
	if ptrPtr.Kind() != reflect.Ptr || ptrPtr.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton target must be a pointer to a pointer")
	}

	entry := s.getSingletonEntry(ptrPtr.Elem().Type().Elem())
	if entry == nil {
		return false
	}
	ptrPtr.Elem().Set(entry.value)
	return true
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

func (s *Storage) locate(id EntityId) (entityLocation, bool) {
	idx := id.Index()
	if id == 0 || int(idx) >= len(s.generations) || s.generations[idx] != id.Generation() {
		return entityLocation{}, false
	}
	return s.locations.Get(idx)
}

func (s *Storage) allocate() EntityId {
	if n := len(s.freeSlots); n > 0 {
		idx := s.freeSlots[n-1]
		s.freeSlots = s.freeSlots[:n-1]
		return NewEntityId(idx, s.generations[idx])
	}

	idx := uint32(len(s.generations))
	s.generations = append(s.generations, 1)
	return NewEntityId(idx, 1)
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	archetypeId := archetypeIdFor(types)
	archetype, exists := s.archetypes[archetypeId]
	if !exists {
		archetype = NewArchetype(archetypeId, types, s.registry)
		s.archetypes[archetypeId] = archetype
		return archetype
	}
	if !sameTypes(archetype.types, types) {
		panic("archetype id collision between component sets")
	}
	return archetype
}

func (s *Storage) rowComponents(loc entityLocation) []any {
	components := make([]any, len(loc.archetype.columns))
	for idx, col := range loc.archetype.columns {
		components[idx] = col.Get(loc.row)
	}
	return components
}

// move copies an entity's components into a new archetype row and frees the old row
func (s *Storage) move(id EntityId, from entityLocation, to *Archetype, components []any) {
	row := to.push(id, components)
	s.removeRow(from)
	s.locations.Put(id.Index(), entityLocation{archetype: to, row: row})
}

func (s *Storage) removeRow(loc entityLocation) {
	if moved, ok := loc.archetype.remove(loc.row); ok {
		s.locations.Put(moved.Index(), entityLocation{archetype: loc.archetype, row: loc.row})
	}
}

// extractComponentTypes extracts and sorts component types from a slice of components
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := componentType(comp)

		// Components can be structs or primitives (int, string, etc.)
		// But not pointers, maps, channels, or functions (those aren't value types)
		if compType.Kind() == reflect.Ptr || compType.Kind() == reflect.Map ||
			compType.Kind() == reflect.Chan || compType.Kind() == reflect.Func {
			panic("components cannot be pointers, maps, channels, or functions")
		}

		types = append(types, compType)
	}
	sort.Sort(byTypeName(types))
	for i := 1; i < len(types); i++ {
		if types[i] == types[i-1] {
			panic("duplicate component type " + types[i].String())
		}
	}
	return types
}

func sameTypes(a, b []reflect.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns a typed pointer to an entity's component, or nil if it is absent
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
