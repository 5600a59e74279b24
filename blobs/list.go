package blobs

import (
	"iter"

	"github.com/pkg/errors"
)

// BlobList is an intrusive singly-linked list over the slots of a Pool.
// Links are stored in the blob records themselves, so a slot is a member of at most one list.
// Head and tail are tracked: PushBack and PopFront are O(1), Remove is O(n).
type BlobList struct {
	pool  *Pool
	name  string
	head  Ref
	tail  Ref
	count int
}

// Len returns number of linked slots
func (l *BlobList) Len() int {
	return l.count
}

// Head returns first slot or NilRef
func (l *BlobList) Head() Ref {
	return l.head
}

// Tail returns last slot or NilRef
func (l *BlobList) Tail() Ref {
	return l.tail
}

// Next returns slot following ref in this list or NilRef
func (l *BlobList) Next(ref Ref) Ref {
	if !l.pool.valid(ref) {
		return NilRef
	}
	return l.pool.nodes[ref].next
}

// PushBack appends slot at the tail.
// The slot must come from this list's pool and must not be linked into any list.
func (l *BlobList) PushBack(ref Ref) error {
	if !l.pool.valid(ref) {
		return errors.Wrapf(ErrInvalidRef, "can't push slot %d to %s", ref, l.name)
	}
	l.pushBack(ref)
	l.emit(EventPushed, ref, "")
	return nil
}

// PopFront unlinks the head and returns it with its fields reset.
// Returns false when the list is empty.
func (l *BlobList) PopFront() (Ref, bool) {
	ref := l.popFront()
	if ref == NilRef {
		return NilRef, false
	}
	l.pool.nodes[ref].Reset()
	l.emit(EventPopped, ref, "")
	return ref, true
}

// Remove unlinks slot found by identity (not by blob ID: it may be unassigned).
// Fields are kept so the caller can still report the blob; Pool.Release resets them.
// Returns ErrNotFound and leaves the list untouched if slot is not linked into this list.
func (l *BlobList) Remove(ref Ref) error {
	return l.RemoveWithReason(ref, "")
}

// RemoveWithReason is Remove with a cause attached to the emitted event
func (l *BlobList) RemoveWithReason(ref Ref, reason string) error {
	nodes := l.pool.nodes
	prev := NilRef
	for current := l.head; current != NilRef; current = nodes[current].next {
		if current != ref {
			prev = current
			continue
		}
		switch {
		case l.count == 1:
			// first & last
			l.head = NilRef
			l.tail = NilRef
		case nodes[current].next == NilRef:
			// tail
			nodes[prev].next = NilRef
			l.tail = prev
		case current == l.head:
			l.head = nodes[current].next
		default:
			nodes[prev].next = nodes[current].next
		}
		nodes[current].next = NilRef
		l.count--
		l.emit(EventRemoved, ref, reason)
		return nil
	}
	l.emit(EventRemoveMissed, ref, reason)
	return errors.Wrapf(ErrNotFound, "slot %d in %s", ref, l.name)
}

// DrainInto moves every slot to the tail of dst, preserving order and blob fields.
// Returns number of moved slots. dst must be a list of the same pool, otherwise nothing moves.
func (l *BlobList) DrainInto(dst *BlobList) (int, error) {
	if dst.pool != l.pool {
		return 0, errors.Wrapf(ErrForeignList, "can't drain %s into %s", l.name, dst.name)
	}
	if dst == l {
		return 0, nil
	}
	moved := 0
	for l.count > 0 {
		dst.pushBack(l.popFront())
		moved++
	}
	if moved > 0 {
		dst.emit(EventDrained, NilRef, "from "+l.name)
	}
	return moved, nil
}

// UpdateInPlace copies centroid, box and pixel count from src into dst.
// dst keeps its ID, its dead mark and its position in the list.
func (l *BlobList) UpdateInPlace(dst Ref, src *Blob) error {
	if !l.pool.valid(dst) {
		return errors.Wrapf(ErrInvalidRef, "can't update slot %d in %s", dst, l.name)
	}
	node := &l.pool.nodes[dst]
	node.Centroid = src.Centroid
	node.Box = src.Box
	node.PixelCount = src.PixelCount
	l.emit(EventUpdated, dst, "")
	return nil
}

// All iterates slots from head to tail.
// The sequence is lazy and may be restarted. The slot just yielded may be removed from the list during iteration.
func (l *BlobList) All() iter.Seq2[Ref, *Blob] {
	return func(yield func(Ref, *Blob) bool) {
		nodes := l.pool.nodes
		for current := l.head; current != NilRef; {
			next := nodes[current].next
			if !yield(current, &nodes[current]) {
				return
			}
			current = next
		}
	}
}

func (l *BlobList) pushBack(ref Ref) {
	nodes := l.pool.nodes
	if l.count > 0 {
		nodes[l.tail].next = ref
		l.tail = ref
	} else {
		l.head = ref
		l.tail = ref
	}
	nodes[ref].next = NilRef
	l.count++
}

func (l *BlobList) popFront() Ref {
	if l.count == 0 {
		return NilRef
	}
	nodes := l.pool.nodes
	ref := l.head
	if l.count > 1 {
		l.head = nodes[ref].next
	} else {
		l.head = NilRef
		l.tail = NilRef
	}
	nodes[ref].next = NilRef
	l.count--
	return ref
}

// clear forgets all links without touching the slots
func (l *BlobList) clear() {
	l.head = NilRef
	l.tail = NilRef
	l.count = 0
}

func (l *BlobList) emit(kind EventKind, ref Ref, reason string) {
	l.pool.observer.Observe(Event{Kind: kind, Slot: ref, List: l.name, Reason: reason, Count: l.count})
}

func (l *BlobList) verify(claim func(Ref, string) error) error {
	if (l.head == NilRef) != (l.count == 0) || (l.tail == NilRef) != (l.count == 0) {
		return errors.Errorf("head=%d tail=%d with count=%d", l.head, l.tail, l.count)
	}
	steps := 0
	last := NilRef
	for current := l.head; current != NilRef; current = l.pool.nodes[current].next {
		if err := claim(current, l.name); err != nil {
			return err
		}
		last = current
		steps++
		if steps > l.count {
			return errors.Errorf("more than %d slots reachable from head", l.count)
		}
	}
	if steps != l.count {
		return errors.Errorf("%d slots reachable from head, count is %d", steps, l.count)
	}
	if last != l.tail {
		return errors.Errorf("last reachable slot %d is not tail %d", last, l.tail)
	}
	return nil
}
