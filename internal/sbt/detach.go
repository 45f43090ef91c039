package sbt

// Detach removes i from the tree rooted at *root. i must currently be
// present; its key fields must still be intact (the store façade
// detaches before clearing a link's source/target). Detach rebalances
// the path back to the root.
func (t Tree[T]) Detach(root *T, i T) {
	var path []maintainWork[T]

	cur := slot[T]{rootPtr: root}
	node := *root
	for node != i {
		t.Acc.SetSize(node, t.Acc.Size(node)-1)
		if t.less(i, node) {
			path = append(path, maintainWork[T]{cur, false})
			cur = slot[T]{parent: node, left: true}
			node = t.Acc.Left(node)
		} else {
			path = append(path, maintainWork[T]{cur, true})
			cur = slot[T]{parent: node, left: false}
			node = t.Acc.Right(node)
		}
	}

	left := t.Acc.Left(i)
	right := t.Acc.Right(i)

	switch {
	case left == 0 && right == 0:
		cur.set(t.Acc, 0)

	case left == 0:
		cur.set(t.Acc, right)

	case right == 0:
		cur.set(t.Acc, left)

	default:
		// Two children: splice the in-order predecessor or successor
		// out of whichever side is heavier, then graft it into i's
		// place.
		var replacement, newLeft, newRight T
		if t.size(left) >= t.size(right) {
			replacement, newLeft = t.extractMax(left)
			newRight = right
		} else {
			replacement, newRight = t.extractMin(right)
			newLeft = left
		}

		t.Acc.SetLeft(replacement, newLeft)
		t.Acc.SetRight(replacement, newRight)
		t.Acc.SetSize(replacement, t.size(newLeft)+t.size(newRight)+1)
		cur.set(t.Acc, replacement)

		path = append(path, maintainWork[T]{cur, false}, maintainWork[T]{cur, true})
	}

	for k := len(path) - 1; k >= 0; k-- {
		t.maintain(path[k].slot, path[k].flag)
	}
}

// extractMax removes and returns the maximum-keyed node from the
// subtree rooted at root, along with the subtree's new root. Sizes and
// balance along the extraction path are fixed up before returning.
func (t Tree[T]) extractMax(root T) (maxNode T, newRoot T) {
	newRoot = root
	cur := slot[T]{rootPtr: &newRoot}
	node := root

	var path []maintainWork[T]
	for {
		t.Acc.SetSize(node, t.Acc.Size(node)-1)
		r := t.Acc.Right(node)
		if r == 0 {
			break
		}
		path = append(path, maintainWork[T]{cur, true})
		cur = slot[T]{parent: node, left: false}
		node = r
	}

	cur.set(t.Acc, t.Acc.Left(node))

	for k := len(path) - 1; k >= 0; k-- {
		t.maintain(path[k].slot, path[k].flag)
	}

	return node, newRoot
}

// extractMin is extractMax's mirror image, for the successor case.
func (t Tree[T]) extractMin(root T) (minNode T, newRoot T) {
	newRoot = root
	cur := slot[T]{rootPtr: &newRoot}
	node := root

	var path []maintainWork[T]
	for {
		t.Acc.SetSize(node, t.Acc.Size(node)-1)
		l := t.Acc.Left(node)
		if l == 0 {
			break
		}
		path = append(path, maintainWork[T]{cur, false})
		cur = slot[T]{parent: node, left: true}
		node = l
	}

	cur.set(t.Acc, t.Acc.Right(node))

	for k := len(path) - 1; k >= 0; k-- {
		t.maintain(path[k].slot, path[k].flag)
	}

	return node, newRoot
}
