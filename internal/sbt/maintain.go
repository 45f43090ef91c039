package sbt

// maintainWork is one pending balance check: the slot holding a
// subtree root, and which side (left-heavy check when flag is false,
// right-heavy when true) to test.
type maintainWork[T Unsigned] struct {
	slot slot[T]
	flag bool
}

// maintain restores the Chinese SBT balance invariant along the given
// slot, in both directions, using an explicit stack in place of the
// textbook algorithm's recursion: a rotation can unbalance the node's
// new children or its own new position, so every rotation re-queues
// the affected slots instead of calling itself.
func (t Tree[T]) maintain(s slot[T], flag bool) {
	stack := []maintainWork[T]{{s, flag}}

	for len(stack) > 0 {
		n := len(stack) - 1
		work := stack[n]
		stack = stack[:n]

		x := work.slot.get(t.Acc)
		var zero T
		if x == zero {
			continue
		}

		var rotated T
		didRotate := false

		if !work.flag {
			l := t.Acc.Left(x)
			r := t.Acc.Right(x)
			switch {
			case t.size(t.Acc.Left(l)) > t.size(r):
				rotated = t.rotateRight(x)
				didRotate = true
			case t.size(t.Acc.Right(l)) > t.size(r):
				t.Acc.SetLeft(x, t.rotateLeft(l))
				rotated = t.rotateRight(x)
				didRotate = true
			}
		} else {
			l := t.Acc.Left(x)
			r := t.Acc.Right(x)
			switch {
			case t.size(t.Acc.Right(r)) > t.size(l):
				rotated = t.rotateLeft(x)
				didRotate = true
			case t.size(t.Acc.Left(r)) > t.size(l):
				t.Acc.SetRight(x, t.rotateRight(r))
				rotated = t.rotateLeft(x)
				didRotate = true
			}
		}

		if !didRotate {
			continue
		}

		work.slot.set(t.Acc, rotated)

		leftChild := slot[T]{parent: rotated, left: true}
		rightChild := slot[T]{parent: rotated, left: false}

		stack = append(stack,
			maintainWork[T]{leftChild, false},
			maintainWork[T]{rightChild, true},
			maintainWork[T]{work.slot, false},
			maintainWork[T]{work.slot, true},
		)
	}
}
