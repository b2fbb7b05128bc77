// Package pool provides a fixed-capacity slot arena addressed by handles.
//
// Slots are reused in forward-scan order: Allocate always returns the lowest
// free slot. A Handle carries the slot's generation, so a handle kept after
// Release no longer resolves, even when the slot has been reused.
package pool

import (
	"iter"
	"math/bits"
)

// Capacity is the number of slots in every pool.
const Capacity = 256

const words = Capacity / 64

// Handle addresses one slot of a Pool. The zero Handle never resolves.
type Handle struct {
	slot uint8 // bounded by Capacity
	gen  uint32
}

// Index returns the slot index addressed by the handle.
func (h Handle) Index() int {
	return int(h.slot)
}

// Pool is a fixed-capacity arena of T values with active/inactive slots.
// The zero value is an empty pool ready to use.
type Pool[T any] struct {
	items [Capacity]T
	gens  [Capacity]uint32
	used  [words]uint64
	n     int
}

// Allocate activates the first free slot and returns its handle and value.
// Returns false when every slot is in use.
func (p *Pool[T]) Allocate() (Handle, *T, bool) {
	if p.n == Capacity {
		return Handle{}, nil, false
	}
	for w := range p.used {
		free := ^p.used[w]
		if free == 0 {
			continue
		}
		slot := w*64 + bits.TrailingZeros64(free)
		p.used[w] |= 1 << (slot % 64)
		p.n++
		// Generations start at 1 so the zero Handle stays invalid.
		if p.gens[slot] == 0 {
			p.gens[slot] = 1
		}
		return Handle{slot: uint8(slot), gen: p.gens[slot]}, &p.items[slot], true
	}
	return Handle{}, nil, false
}

// Release zeroes the slot addressed by h and frees it for reuse.
// Returns false if h does not address an active slot.
func (p *Pool[T]) Release(h Handle) bool {
	if !p.valid(h) {
		return false
	}
	slot := int(h.slot)
	var zero T
	p.items[slot] = zero
	p.used[slot/64] &^= 1 << (slot % 64)
	p.gens[slot]++
	if p.gens[slot] == 0 {
		p.gens[slot] = 1
	}
	p.n--
	return true
}

// Get returns the value addressed by h, or false if h is stale or inactive.
func (p *Pool[T]) Get(h Handle) (*T, bool) {
	if !p.valid(h) {
		return nil, false
	}
	return &p.items[h.slot], true
}

// At returns the handle and value of the active slot at index, for callers that
// keep raw slot indices in side structures such as a spatial grid.
func (p *Pool[T]) At(index int) (Handle, *T, bool) {
	if index < 0 || index >= Capacity || !p.active(index) {
		return Handle{}, nil, false
	}
	return Handle{slot: uint8(index), gen: p.gens[index]}, &p.items[index], true
}

// Len returns the number of active slots.
func (p *Pool[T]) Len() int {
	return p.n
}

// Full reports whether every slot is in use.
func (p *Pool[T]) Full() bool {
	return p.n == Capacity
}

// All iterates active slots in slot order. Slots allocated during iteration
// are visited if they lie after the current position; released slots are skipped.
func (p *Pool[T]) All() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		for slot := 0; slot < Capacity; slot++ {
			if !p.active(slot) {
				continue
			}
			h := Handle{slot: uint8(slot), gen: p.gens[slot]}
			if !yield(h, &p.items[slot]) {
				return
			}
		}
	}
}

func (p *Pool[T]) active(slot int) bool {
	return p.used[slot/64]&(1<<(slot%64)) != 0
}

func (p *Pool[T]) valid(h Handle) bool {
	return h.gen != 0 && p.active(int(h.slot)) && p.gens[h.slot] == h.gen
}
