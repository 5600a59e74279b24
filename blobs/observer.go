package blobs

import "fmt"

// EventKind is for type of bookkeeping event emitted by the pool and its lists
type EventKind uint8

const (
	// EventAllocated - slot taken from the free list
	EventAllocated EventKind = iota
	// EventExhausted - allocation failed, no free slot
	EventExhausted
	// EventReleased - slot reset and returned to the free list
	EventReleased
	// EventPushed - slot appended to a list
	EventPushed
	// EventPopped - head slot taken from a list
	EventPopped
	// EventRemoved - arbitrary slot unlinked from a list
	EventRemoved
	// EventRemoveMissed - remove was given a slot not present in the list
	EventRemoveMissed
	// EventDrained - list moved into another one
	EventDrained
	// EventUpdated - active slot got a new measurement
	EventUpdated
	// EventDropped - detection ignored because no slot was available
	EventDropped
)

func (kind EventKind) String() string {
	switch kind {
	case EventAllocated:
		return "allocated"
	case EventExhausted:
		return "exhausted"
	case EventReleased:
		return "released"
	case EventPushed:
		return "pushed"
	case EventPopped:
		return "popped"
	case EventRemoved:
		return "removed"
	case EventRemoveMissed:
		return "remove-missed"
	case EventDrained:
		return "drained"
	case EventUpdated:
		return "updated"
	case EventDropped:
		return "dropped"
	default:
		return fmt.Sprintf("event(%d)", uint8(kind))
	}
}

// Event is a structured record of one bookkeeping step.
type Event struct {
	Kind EventKind
	// Slot concerned, NilRef when there is none (e.g. exhaustion)
	Slot Ref
	// Name of the list involved, empty for pool-only events
	List string
	// Optional free-form cause, e.g. "expired"
	Reason string
	// Count is the size of the free list or the list after the step
	Count int
}

func (e Event) String() string {
	if e.List == "" {
		return fmt.Sprintf("%s slot=%d free=%d %s", e.Kind, e.Slot, e.Count, e.Reason)
	}
	return fmt.Sprintf("%s slot=%d list=%s size=%d %s", e.Kind, e.Slot, e.List, e.Count, e.Reason)
}

// Observer receives events. It must not call back into the pool or lists.
type Observer interface {
	Observe(Event)
}

// ObserverFunc is func type of Observer.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(e Event) {
	f(e)
}

type nopObserver struct{}

func (nopObserver) Observe(Event) {}
