package sbt

// Search walks from root comparing by the tree's (Primary,Secondary)
// key, returning the matching node or 0 if none exists. When more than
// one node carries the same key (duplicates are not rejected by the
// base store — only a decorator enforces uniqueness), Search returns
// whichever one the walk reaches first.
func (t Tree[T]) Search(root T, key Key[T]) T {
	node := root
	for node != 0 {
		switch c := compareKey(key, t.Acc.KeyOf(node)); {
		case c == 0:
			return node
		case c < 0:
			node = t.Acc.Left(node)
		default:
			node = t.Acc.Right(node)
		}
	}
	return 0
}

// CountUsages counts the nodes whose Primary key equals primaryKey, in
// O(log n): two top-down cuts bound the count — one sums the subtrees
// strictly left of primaryKey, the other strictly right — and the
// result is size(root) minus both cuts.
func (t Tree[T]) CountUsages(root T, primaryKey T) T {
	total := t.size(root)
	leftCut := t.cut(root, primaryKey, true)
	rightCut := t.cut(root, primaryKey, false)
	return total - leftCut - rightCut
}

// cut sums the sizes of subtrees strictly below (less=true) or
// strictly above (less=false) primaryKey.
func (t Tree[T]) cut(root T, primaryKey T, less bool) T {
	var count T
	node := root
	for node != 0 {
		p := t.Acc.KeyOf(node).Primary
		if less {
			if p < primaryKey {
				count += t.size(t.Acc.Left(node)) + 1
				node = t.Acc.Right(node)
			} else {
				node = t.Acc.Left(node)
			}
		} else {
			if p > primaryKey {
				count += t.size(t.Acc.Right(node)) + 1
				node = t.Acc.Left(node)
			} else {
				node = t.Acc.Right(node)
			}
		}
	}
	return count
}

// EachUsages depth-first visits every node whose Primary key equals
// primaryKey, stopping early if handler returns false. It seeks
// directly to the lower bound of primaryKey rather than walking the
// whole tree, so it costs O(log n + matches). It returns false iff
// handler itself returned false (the caller's cue to stop further
// work of its own).
func (t Tree[T]) EachUsages(root T, primaryKey T, handler func(T) bool) bool {
	c := t.seek(root, primaryKey)
	for {
		node := c.next(t.Acc)
		if node == 0 {
			return true
		}
		if t.Acc.KeyOf(node).Primary != primaryKey {
			return true
		}
		if !handler(node) {
			return false
		}
	}
}

// cursor is an iterative in-order walker seeded at a lower bound, used
// by EachUsages in place of recursion.
type cursor[T Unsigned] struct {
	stack []T
}

// seek builds the ancestor stack such that the first call to next
// yields the smallest node with KeyOf(node).Primary >= primaryKey.
// Subtrees entirely below primaryKey are skipped without being
// pushed, so the walk stays O(log n) before the first match.
func (t Tree[T]) seek(root T, primaryKey T) *cursor[T] {
	c := &cursor[T]{}
	node := root
	for node != 0 {
		if t.Acc.KeyOf(node).Primary >= primaryKey {
			c.stack = append(c.stack, node)
			node = t.Acc.Left(node)
		} else {
			node = t.Acc.Right(node)
		}
	}
	return c
}

// next pops the next in-order node and pushes its right subtree's left
// spine, so the following call continues in order.
func (c *cursor[T]) next(acc Accessor[T]) T {
	n := len(c.stack)
	if n == 0 {
		return 0
	}
	node := c.stack[n-1]
	c.stack = c.stack[:n-1]

	right := acc.Right(node)
	for right != 0 {
		c.stack = append(c.stack, right)
		right = acc.Left(right)
	}
	return node
}
