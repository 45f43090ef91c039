// Package sbt implements the size-balanced binary search tree (Chinese
// SBT) shared by every index tree in the store: the source-tree, the
// target-tree, and the split store's per-bucket external trees. All
// operations are iterative — explicit stacks stand in for recursion —
// because tree depth at 2^32 links can exceed the depth a goroutine
// stack would comfortably recurse through on every hot-path call.
package sbt

// Unsigned is the identifier width a tree can be built over. Declared
// locally rather than imported so this package stays usable from any
// record layout without pulling in the store façade's types.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Key is the ordering key compared during a walk: Primary is the
// leading sort field (source for the source-tree, target for the
// target-tree, or the bucket value for a split-store external tree),
// Secondary breaks ties between nodes sharing the same Primary.
type Key[T Unsigned] struct {
	Primary   T
	Secondary T
}

// Accessor exposes the (left,right,size) node triple and ordering key
// for the tree currently being walked. The unit store and split store
// each implement this over their own record layout and over both the
// source and target comparators — a capability object rather than
// inheritance, so the same algorithms serve every variant.
type Accessor[T Unsigned] interface {
	Left(i T) T
	SetLeft(i T, v T)
	Right(i T) T
	SetRight(i T, v T)
	Size(i T) T
	SetSize(i T, v T)

	// KeyOf returns node i's ordering key (without the index tiebreak
	// Tree adds on top to keep every node's position unique).
	KeyOf(i T) Key[T]
}

// Tree runs the SBT algorithms against an Accessor. It holds no state
// of its own, so a Tree value can be constructed fresh for every call
// against whichever Accessor the caller's store variant provides.
type Tree[T Unsigned] struct {
	Acc Accessor[T]
}

func (t Tree[T]) size(i T) T {
	var zero T
	if i == zero {
		return zero
	}
	return t.Acc.Size(i)
}

// less reports whether node a sorts strictly before node b, breaking
// ties on equal (Primary,Secondary) by index so every node occupies a
// unique position regardless of how many links share a source or
// target.
func (t Tree[T]) less(a, b T) bool {
	ka, kb := t.Acc.KeyOf(a), t.Acc.KeyOf(b)
	if ka.Primary != kb.Primary {
		return ka.Primary < kb.Primary
	}
	if ka.Secondary != kb.Secondary {
		return ka.Secondary < kb.Secondary
	}
	return a < b
}

// compareKey orders an explicit search key against a node's key,
// ignoring the index tiebreak (search/count/each match on
// (Primary,Secondary) or Primary alone, never on a specific index).
func compareKey[T Unsigned](key, nodeKey Key[T]) int {
	switch {
	case key.Primary < nodeKey.Primary:
		return -1
	case key.Primary > nodeKey.Primary:
		return 1
	case key.Secondary < nodeKey.Secondary:
		return -1
	case key.Secondary > nodeKey.Secondary:
		return 1
	default:
		return 0
	}
}

// rotateLeft performs a standard left rotation at x, returning the new
// subtree root. The new root inherits x's size; x's size is recomputed
// from its (now smaller) children.
func (t Tree[T]) rotateLeft(x T) T {
	y := t.Acc.Right(x)
	t.Acc.SetRight(x, t.Acc.Left(y))
	t.Acc.SetLeft(y, x)
	t.Acc.SetSize(y, t.Acc.Size(x))
	t.Acc.SetSize(x, t.size(t.Acc.Left(x))+t.size(t.Acc.Right(x))+1)
	return y
}

// rotateRight performs a standard right rotation at x, returning the
// new subtree root.
func (t Tree[T]) rotateRight(x T) T {
	y := t.Acc.Left(x)
	t.Acc.SetLeft(x, t.Acc.Right(y))
	t.Acc.SetRight(y, x)
	t.Acc.SetSize(y, t.Acc.Size(x))
	t.Acc.SetSize(x, t.size(t.Acc.Left(x))+t.size(t.Acc.Right(x))+1)
	return y
}

// slot names the location a subtree root lives in: either the tree's
// external root pointer, or a specific child of an already-located
// parent node. maintain and the attach/detach walks use slots to
// rewrite whichever pointer needs to change after a rotation, without
// needing real memory pointers into the record array.
type slot[T Unsigned] struct {
	rootPtr *T
	parent  T
	left    bool
}

func (s slot[T]) get(acc Accessor[T]) T {
	if s.rootPtr != nil {
		return *s.rootPtr
	}
	if s.left {
		return acc.Left(s.parent)
	}
	return acc.Right(s.parent)
}

func (s slot[T]) set(acc Accessor[T], v T) {
	if s.rootPtr != nil {
		*s.rootPtr = v
		return
	}
	if s.left {
		acc.SetLeft(s.parent, v)
	} else {
		acc.SetRight(s.parent, v)
	}
}
