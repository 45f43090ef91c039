package splitstore

// ExternalAttachSource attaches link i into the per-bucket virtual
// tree rooted at indexRecord[bucket].RootAsSource — used when i's
// source is an external identifier rather than an internal link
// index, so every usage of that external source groups under one
// tree instead of the global source-tree. Grows capacity to cover
// bucket if it lies beyond the range of link indices ever allocated.
// i must not currently sit in the global source-tree or any other
// bucket's tree — the two share the same node slots.
func (s *Store[T]) ExternalAttachSource(bucket, i T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureBucketCapacity(bucket); err != nil {
		return err
	}
	root := &s.indexRecord(bucket).RootAsSource
	s.externalSourceTree().Attach(root, i)
	return nil
}

// ExternalDetachSource removes i from the per-bucket source tree
// rooted at indexRecord[bucket].RootAsSource.
func (s *Store[T]) ExternalDetachSource(bucket, i T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	root := &s.indexRecord(bucket).RootAsSource
	s.externalSourceTree().Detach(root, i)
}

// ExternalCountBySource returns the number of links attached under
// bucket's per-bucket source tree.
func (s *Store[T]) ExternalCountBySource(bucket T) T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(bucket) >= s.capacityRecords() {
		return 0
	}
	root := s.indexRecord(bucket).RootAsSource
	return s.externalSourceTree().CountUsages(root, bucket)
}

// ExternalEachBySource visits every link attached under bucket's
// per-bucket source tree, ordered by target.
func (s *Store[T]) ExternalEachBySource(bucket T, f func(Link[T]) bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(bucket) >= s.capacityRecords() {
		return true
	}
	root := s.indexRecord(bucket).RootAsSource
	return s.externalSourceTree().EachUsages(root, bucket, func(i T) bool {
		return f(s.linkAt(i))
	})
}

// ExternalAttachTarget is ExternalAttachSource's mirror image for the
// target side.
func (s *Store[T]) ExternalAttachTarget(bucket, i T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureBucketCapacity(bucket); err != nil {
		return err
	}
	root := &s.indexRecord(bucket).RootAsTarget
	s.externalTargetTree().Attach(root, i)
	return nil
}

// ExternalDetachTarget removes i from the per-bucket target tree
// rooted at indexRecord[bucket].RootAsTarget.
func (s *Store[T]) ExternalDetachTarget(bucket, i T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	root := &s.indexRecord(bucket).RootAsTarget
	s.externalTargetTree().Detach(root, i)
}

// ExternalCountByTarget returns the number of links attached under
// bucket's per-bucket target tree.
func (s *Store[T]) ExternalCountByTarget(bucket T) T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(bucket) >= s.capacityRecords() {
		return 0
	}
	root := s.indexRecord(bucket).RootAsTarget
	return s.externalTargetTree().CountUsages(root, bucket)
}

// ExternalEachByTarget visits every link attached under bucket's
// per-bucket target tree, ordered by source.
func (s *Store[T]) ExternalEachByTarget(bucket T, f func(Link[T]) bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(bucket) >= s.capacityRecords() {
		return true
	}
	root := s.indexRecord(bucket).RootAsTarget
	return s.externalTargetTree().EachUsages(root, bucket, func(i T) bool {
		return f(s.linkAt(i))
	})
}
