// Package freelist implements the doubly linked list of reclaimable
// link indices threaded through unused records, as described by the
// free-slot manager component of the store design: push/pop are O(1),
// and the list is kept most-recently-freed-first so recycling matches
// the unit store's observable reuse order.
package freelist

// Unsigned is the identifier width a free list can be built over.
// Declared locally so this package has no dependency on the store
// façade's types.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Accessor reads and writes the prev/next pointers threaded through a
// record's (left,right) slots while it sits on the free list. The
// caller's record layout (unit LinkRecord or split DataRecord) decides
// which physical fields back Prev/Next.
type Accessor[T Unsigned] interface {
	Prev(i T) T
	SetPrev(i T, v T)
	Next(i T) T
	SetNext(i T, v T)
}

// Endpoints is the subset of the header the free list maintains:
// first_free, last_free, and the free count.
type Endpoints[T Unsigned] struct {
	First *T
	Last  *T
	Count *T
}

// List operates the intrusive free list against an Accessor and a set
// of header Endpoints. It holds no state of its own — all state lives
// in the backing records and header, so a List value is safe to
// construct fresh on every call.
type List[T Unsigned] struct {
	Acc Accessor[T]
	Ep  Endpoints[T]
}

// PushFront recycles index i onto the head of the free list. O(1).
func (l List[T]) PushFront(i T) {
	var zero T
	l.Acc.SetPrev(i, zero)
	l.Acc.SetNext(i, *l.Ep.First)

	if *l.Ep.First != zero {
		l.Acc.SetPrev(*l.Ep.First, i)
	} else {
		*l.Ep.Last = i
	}

	*l.Ep.First = i
	*l.Ep.Count++
}

// Pop removes index i from the free list, wherever it sits. O(1).
func (l List[T]) Pop(i T) {
	var zero T
	prev := l.Acc.Prev(i)
	next := l.Acc.Next(i)

	if prev != zero {
		l.Acc.SetNext(prev, next)
	} else {
		*l.Ep.First = next
	}

	if next != zero {
		l.Acc.SetPrev(next, prev)
	} else {
		*l.Ep.Last = prev
	}

	l.Acc.SetPrev(i, zero)
	l.Acc.SetNext(i, zero)
	*l.Ep.Count--
}

// ReclaimTail walks downward from *allocated, popping and discarding
// every trailing index whose record reads as unused (per isUnused),
// shrinking *allocated past them. Called only after a deletion whose
// index equals *allocated, so the physical record array can shrink
// instead of carrying a logically-deleted tail.
func (l List[T]) ReclaimTail(allocated *T, isUnused func(T) bool) {
	var zero T
	for *allocated != zero && isUnused(*allocated) {
		idx := *allocated
		l.Pop(idx)
		*allocated--
	}
}
