package ecs

// EntityId encodes a slot index (lower 32 bits) and the slot's generation (upper 32 bits).
// An id stays valid while the entity lives, regardless of which archetype it moves to.
type EntityId uint64

// NewEntityId creates an EntityId from a slot index and generation
func NewEntityId(index uint32, generation uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the slot generation from the entity ID
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}

// entityLocation points at the archetype row currently holding an entity's components
type entityLocation struct {
	archetype *Archetype
	row       int
}
