package ecs

import (
	"reflect"
	"sort"
)

// Registration describes a registered component type.
// Reflected registrations carry a stable Name and may be written into scenes.
type Registration struct {
	Type      reflect.Type
	Name      string
	Reflected bool

	newColumn func() column
}

// ComponentRegistry manages component type registration for an ECS instance.
// It doubles as the type registry used by scene serialization: reflected
// components are looked up by their stable name when a scene is read back.
// Build it once at startup, then Freeze it before handing it to other goroutines.
type ComponentRegistry struct {
	byType map[reflect.Type]*Registration
	byName map[string]*Registration
	frozen bool
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		byType: make(map[reflect.Type]*Registration),
		byName: make(map[string]*Registration),
	}
}

// RegisterComponent registers a component type with the given registry.
// This must be called for each component type before it can be used.
func RegisterComponent[T any](r *ComponentRegistry) *Registration {
	return register[T](r, false)
}

// RegisterReflected registers a component type and marks it as persistable.
// Only reflected components are captured by scene snapshots.
func RegisterReflected[T any](r *ComponentRegistry) *Registration {
	return register[T](r, true)
}

func register[T any](r *ComponentRegistry, reflected bool) *Registration {
	if r.frozen {
		panic("component registry is frozen")
	}

	t := reflect.TypeFor[T]()
	reg, ok := r.byType[t]
	if !ok {
		reg = &Registration{
			Type: t,
			Name: TypeName(t),
			newColumn: func() column {
				return &denseColumn[T]{}
			},
		}
		r.byType[t] = reg
	}

	if reflected && !reg.Reflected {
		if other, taken := r.byName[reg.Name]; taken && other != reg {
			panic("component name " + reg.Name + " registered twice")
		}
		reg.Reflected = true
		r.byName[reg.Name] = reg
	}
	return reg
}

// Freeze makes the registry immutable. Registering afterwards panics.
func (r *ComponentRegistry) Freeze() {
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *ComponentRegistry) Frozen() bool {
	return r.frozen
}

// Registration returns the registration for a component type.
func (r *ComponentRegistry) Registration(t reflect.Type) (*Registration, bool) {
	reg, ok := r.byType[t]
	return reg, ok
}

// RegistrationByName returns the reflected registration with the given name.
func (r *ComponentRegistry) RegistrationByName(name string) (*Registration, bool) {
	reg, ok := r.byName[name]
	return reg, ok
}

// Reflected returns all reflected registrations sorted by name.
func (r *ComponentRegistry) Reflected() []*Registration {
	regs := make([]*Registration, 0, len(r.byName))
	for _, reg := range r.byName {
		regs = append(regs, reg)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].Name < regs[j].Name })
	return regs
}

// IsReflected reports whether values of type t are written into scenes.
func (r *ComponentRegistry) IsReflected(t reflect.Type) bool {
	reg, ok := r.byType[t]
	return ok && reg.Reflected
}

func (r *ComponentRegistry) newColumn(t reflect.Type) column {
	reg, ok := r.byType[t]
	if !ok {
		panic("component type " + t.String() + " not registered")
	}
	return reg.newColumn()
}

// TypeName returns the stable name used for a component type in scene files:
// the import path and type name for named types, the Go syntax otherwise.
func TypeName(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
