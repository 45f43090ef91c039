package splitstore

import "github.com/linksplatform/doublets/internal/sbt"

// IsLive reports whether index i currently holds a link attached to
// at least one of the global trees.
func (s *Store[T]) IsLive(i T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLive(i)
}

func (s *Store[T]) isLive(i T) bool {
	if i == 0 || i > s.header().Allocated {
		return false
	}
	d := s.dataRecord(i)
	return d.Source != 0 || d.Target != 0
}

// Get returns the link at i, or (zero, false) if i is not live.
func (s *Store[T]) Get(i T) (Link[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isLive(i) {
		return Link[T]{}, false
	}
	return s.linkAt(i), true
}

func (s *Store[T]) linkAt(i T) Link[T] {
	d := s.dataRecord(i)
	return Link[T]{Index: i, Source: d.Source, Target: d.Target}
}

// CountAll returns the total number of live links, relying on the
// same create-then-update usage assumption as the unit store.
func (s *Store[T]) CountAll() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.header()
	return h.Allocated - h.Free
}

// CountBySource returns the number of live links whose source equals
// source, via the global source-tree.
func (s *Store[T]) CountBySource(source T) T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.header()
	return s.sourceTree().CountUsages(h.RootAsSource, source)
}

// CountByTarget returns the number of live links whose target equals
// target, via the global target-tree.
func (s *Store[T]) CountByTarget(target T) T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.header()
	return s.targetTree().CountUsages(h.RootAsTarget, target)
}

// Search returns the index of the live link (source,target), or 0 if
// none exists.
func (s *Store[T]) Search(source, target T) T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.header()
	return s.sourceTree().Search(h.RootAsSource, sbt.Key[T]{Primary: source, Secondary: target})
}

// EachAll visits every live link in global source-tree order.
func (s *Store[T]) EachAll(f func(Link[T]) bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.header()
	return s.eachInOrder(s.sourceTree(), h.RootAsSource, f)
}

// EachBySource visits every live link whose source equals source.
func (s *Store[T]) EachBySource(source T, f func(Link[T]) bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.header()
	return s.sourceTree().EachUsages(h.RootAsSource, source, func(i T) bool {
		return f(s.linkAt(i))
	})
}

// EachByTarget visits every live link whose target equals target.
func (s *Store[T]) EachByTarget(target T, f func(Link[T]) bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.header()
	return s.targetTree().EachUsages(h.RootAsTarget, target, func(i T) bool {
		return f(s.linkAt(i))
	})
}

func (s *Store[T]) eachInOrder(t sbt.Tree[T], root T, f func(Link[T]) bool) bool {
	var stack []T
	node := root
	for node != 0 || len(stack) > 0 {
		for node != 0 {
			stack = append(stack, node)
			node = t.Acc.Left(node)
		}
		n := len(stack) - 1
		node = stack[n]
		stack = stack[:n]

		if !f(s.linkAt(node)) {
			return false
		}
		node = t.Acc.Right(node)
	}
	return true
}

// Create allocates a slot and returns its index, mirroring the unit
// store's policy: recycle the free list's head if non-empty, else
// extend allocated, growing both backends in lockstep if needed.
func (s *Store[T]) Create() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.header()
	if h.FirstFree != 0 {
		i := h.FirstFree
		s.freeList().Pop(i)
		return i, nil
	}

	if err := s.ensureCapacity(); err != nil {
		return 0, err
	}
	h = s.header()
	h.Allocated++
	return h.Allocated, nil
}

// Update detaches i from whichever global trees its current fields
// attach it to, writes the new source/target, and reattaches.
func (s *Store[T]) Update(i, source, target T) (before, after Link[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.dataRecord(i)
	before = Link[T]{Index: i, Source: d.Source, Target: d.Target}

	h := s.header()
	if d.Source != 0 {
		s.sourceTree().Detach(&h.RootAsSource, i)
	}
	if d.Target != 0 {
		s.targetTree().Detach(&h.RootAsTarget, i)
	}

	d = s.dataRecord(i)
	d.Source = source
	d.Target = target

	h = s.header()
	if source != 0 {
		s.sourceTree().Attach(&h.RootAsSource, i)
	}
	if target != 0 {
		s.targetTree().Attach(&h.RootAsTarget, i)
	}

	after = Link[T]{Index: i, Source: source, Target: target}
	return before, after
}

// Delete detaches i from both global trees, zeroes its data record,
// and pushes it onto the free list, reclaiming the tail if i was the
// highest allocated index.
func (s *Store[T]) Delete(i T) Link[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.dataRecord(i)
	before := Link[T]{Index: i, Source: d.Source, Target: d.Target}

	h := s.header()
	if d.Source != 0 {
		s.sourceTree().Detach(&h.RootAsSource, i)
	}
	if d.Target != 0 {
		s.targetTree().Detach(&h.RootAsTarget, i)
	}

	d = s.dataRecord(i)
	d.Source = 0
	d.Target = 0

	s.freeList().PushFront(i)

	h = s.header()
	if i == h.Allocated {
		s.freeList().ReclaimTail(&h.Allocated, s.isUnused)
	}

	return before
}
