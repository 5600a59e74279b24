package blobs

import (
	"github.com/pkg/errors"
)

// Pool is a fixed-size arena of blob records plus a LIFO free list of the unused slots.
// Storage is allocated once by NewPool; Allocate and Release never allocate.
// Lists created with NewList link slots of this arena only.
//
// Pool is not safe for concurrent use: the acquisition loop is its single actor.
type Pool struct {
	// Main storage
	nodes []Blob
	// Free list (stack). Top is the last element
	free []Ref
	// Lists bound to this arena
	lists []*BlobList

	observer Observer
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithObserver sets the observer which receives bookkeeping events
func WithObserver(observer Observer) PoolOption {
	return func(p *Pool) {
		if observer != nil {
			p.observer = observer
		}
	}
}

// NewPool creates pool with given number of slots and initializes it.
func NewPool(capacity int, options ...PoolOption) *Pool {
	if capacity < 0 {
		capacity = 0
	}
	pool := &Pool{
		nodes:    make([]Blob, capacity),
		free:     make([]Ref, 0, capacity),
		observer: nopObserver{},
	}
	for _, option := range options {
		option(pool)
	}
	pool.Initialize()
	return pool
}

// Initialize puts every slot back to the free list and empties every list bound to the pool.
// Slots are pushed in reverse index order, so slot 0 is handed out first.
// Whatever was active is discarded.
func (p *Pool) Initialize() {
	p.free = p.free[:0]
	for i := len(p.nodes) - 1; i >= 0; i-- {
		p.nodes[i].Reset()
		p.nodes[i].next = NilRef
		p.free = append(p.free, Ref(i))
	}
	for _, list := range p.lists {
		list.clear()
	}
}

// Allocate pops a slot from the free list.
// Returns ErrPoolExhausted when there are no free slots.
func (p *Pool) Allocate() (Ref, error) {
	n := len(p.free)
	if n == 0 {
		p.observer.Observe(Event{Kind: EventExhausted, Slot: NilRef})
		return NilRef, ErrPoolExhausted
	}
	ref := p.free[n-1]
	p.free = p.free[:n-1]
	p.nodes[ref].next = NilRef
	p.observer.Observe(Event{Kind: EventAllocated, Slot: ref, Count: len(p.free)})
	return ref, nil
}

// Release resets slot's fields and pushes it back onto the free list.
// The caller must make sure that slot is not linked into any list:
// double release is not detected.
func (p *Pool) Release(ref Ref) error {
	if !p.valid(ref) {
		return errors.Wrapf(ErrInvalidRef, "can't release slot %d", ref)
	}
	p.nodes[ref].Reset()
	p.nodes[ref].next = NilRef
	p.free = append(p.free, ref)
	p.observer.Observe(Event{Kind: EventReleased, Slot: ref, Count: len(p.free)})
	return nil
}

// Size returns number of free slots
func (p *Pool) Size() int {
	return len(p.free)
}

// Capacity returns total number of slots
func (p *Pool) Capacity() int {
	return len(p.nodes)
}

// Blob returns the record stored in the slot. Returns nil for invalid reference.
// The pointer stays valid for the lifetime of the pool, but the slot may get a new tenant after release.
func (p *Pool) Blob(ref Ref) *Blob {
	if !p.valid(ref) {
		return nil
	}
	return &p.nodes[ref]
}

// NewList creates an empty list over this pool's slots.
// name is only used to tag observer events.
func (p *Pool) NewList(name string) *BlobList {
	list := &BlobList{
		pool: p,
		name: name,
		head: NilRef,
		tail: NilRef,
	}
	p.lists = append(p.lists, list)
	return list
}

// Verify walks the free list and every bound list and checks that each slot
// belongs to exactly one of them, and that each list's bookkeeping is consistent.
// It allocates and is meant for tests and diagnostics.
func (p *Pool) Verify() error {
	owner := make([]string, len(p.nodes))
	claim := func(ref Ref, by string) error {
		if !p.valid(ref) {
			return errors.Wrapf(ErrInvalidRef, "%s holds slot %d", by, ref)
		}
		if owner[ref] != "" {
			return errors.Errorf("slot %d is held by both %s and %s", ref, owner[ref], by)
		}
		owner[ref] = by
		return nil
	}
	for _, ref := range p.free {
		if err := claim(ref, "free list"); err != nil {
			return err
		}
	}
	for _, list := range p.lists {
		if err := list.verify(claim); err != nil {
			return errors.Wrapf(err, "list %s", list.name)
		}
	}
	for ref, by := range owner {
		if by == "" {
			return errors.Errorf("slot %d is not held by any list", ref)
		}
	}
	return nil
}

func (p *Pool) valid(ref Ref) bool {
	return ref >= 0 && int(ref) < len(p.nodes)
}
