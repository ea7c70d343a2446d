package ecs

import "unsafe"

// column is a type-erased, densely packed component array belonging to one archetype.
type column interface {
	Append(item any) int
	Get(row int) any
	Pointer(row int) unsafe.Pointer
	Set(row int, item any)
	SwapRemove(row int)
	Len() int
}

// denseColumn stores components of type T contiguously.
// Removal swaps the last element into the hole so rows stay dense.
type denseColumn[T any] struct {
	items []T
}

func (c *denseColumn[T]) Append(item any) int {
	c.items = append(c.items, unwrap[T](item))
	return len(c.items) - 1
}

// Get returns a pointer to the component at the given row.
func (c *denseColumn[T]) Get(row int) any {
	if row < 0 || row >= len(c.items) {
		return nil
	}
	return &c.items[row]
}

func (c *denseColumn[T]) Pointer(row int) unsafe.Pointer {
	return unsafe.Pointer(&c.items[row])
}

func (c *denseColumn[T]) Set(row int, item any) {
	c.items[row] = unwrap[T](item)
}

func (c *denseColumn[T]) SwapRemove(row int) {
	last := len(c.items) - 1
	if row != last {
		c.items[row] = c.items[last]
	}
	var zero T
	c.items[last] = zero
	c.items = c.items[:last]
}

func (c *denseColumn[T]) Len() int {
	return len(c.items)
}

func unwrap[T any](item any) T {
	switch v := item.(type) {
	case *T:
		return *v
	case T:
		return v
	}
	panic("component value has unexpected type")
}
