package doublets

import (
	"errors"
	"sort"
	"time"

	"github.com/linksplatform/doublets/internal/membuf"
)

// notLive reports whether index cannot possibly be live: either the
// null identifier, or beyond the highest index ever allocated. This is
// the NotExists check Update and Delete use — it cannot distinguish an
// Unformed record from a Free one (both read as all-zero), so a caller
// that targets a just-Created-but-not-yet-Updated index is allowed
// through; the trees are simply left untouched for whichever field
// stays zero, same as any other link.
func (s *Store[T]) notLive(index T) bool {
	return index == 0 || index > s.raw.Allocated()
}

// Create allocates a fresh index and invokes handler with
// before = (0,0,0) and after = (index,0,0), per spec.md §4.5.3. The
// new link is not yet attached to either tree; callers that want a
// formed link follow with Update, as the derived operations below do.
func (s *Store[T]) Create(handler WriteHandler[T]) (T, error) {
	start := time.Now()
	defer s.recordLatency(start)

	if s.raw.Free() == 0 && s.raw.Allocated() >= s.constants.InternalRangeHi {
		if s.metrics != nil {
			s.metrics.Errors.Inc()
		}
		return 0, NewStoreError[T](ErrCodeLimitReached, "store", "Create", "identifier space exhausted").WithCause(ErrLimitReached)
	}

	i, err := s.raw.Create()
	if err != nil {
		if s.metrics != nil {
			s.metrics.Errors.Inc()
		}
		code, sentinel := ErrCodeAllocFailed, ErrAllocFailed
		if errors.Is(err, membuf.ErrCapacityOverflow) {
			code, sentinel = ErrCodeCapacityOverflow, ErrCapacityOverflow
		}
		return 0, NewStoreError[T](code, "store", "Create", "allocate index").WithCause(errors.Join(sentinel, err))
	}

	if s.metrics != nil {
		s.metrics.Creates.Inc()
	}

	if handler != nil {
		handler(Link[T]{}, Link[T]{Index: i})
	}
	return i, nil
}

// Update rewrites the link at index to (source, target), detaching and
// reattaching it to whichever trees its old and new fields touch, and
// invokes handler with the before/after pair. Fails with ErrNotExists
// if index is not live.
func (s *Store[T]) Update(index, source, target T, handler WriteHandler[T]) (T, error) {
	start := time.Now()
	defer s.recordLatency(start)

	if s.notLive(index) {
		if s.metrics != nil {
			s.metrics.Errors.Inc()
		}
		return 0, notExists[T]("store", "Update", index)
	}

	before, after := s.raw.Update(index, source, target)

	if s.metrics != nil {
		s.metrics.Updates.Inc()
	}

	if handler != nil {
		handler(before, after)
	}
	return index, nil
}

// Delete detaches the link at index from both trees, zeroes it, and
// returns its slot to the free list, invoking handler with the
// before/(index,0,0) pair. Fails with ErrNotExists if index is not
// live.
func (s *Store[T]) Delete(index T, handler WriteHandler[T]) (T, error) {
	start := time.Now()
	defer s.recordLatency(start)

	if s.notLive(index) {
		if s.metrics != nil {
			s.metrics.Errors.Inc()
		}
		return 0, notExists[T]("store", "Delete", index)
	}

	before := s.raw.Delete(index)

	if s.metrics != nil {
		s.metrics.Deletes.Inc()
	}

	if handler != nil {
		handler(before, Link[T]{Index: index})
	}
	return index, nil
}

// CreatePoint creates a self-loop: create followed by
// update(i, i, i).
func (s *Store[T]) CreatePoint(handler WriteHandler[T]) (T, error) {
	i, err := s.Create(nil)
	if err != nil {
		return 0, err
	}
	return s.Update(i, i, i, handler)
}

// CreateLink creates a link and immediately forms it as (source,
// target): create followed by update(i, source, target).
func (s *Store[T]) CreateLink(source, target T, handler WriteHandler[T]) (T, error) {
	i, err := s.Create(nil)
	if err != nil {
		return 0, err
	}
	return s.Update(i, source, target, handler)
}

// GetOrCreate returns the existing link (source, target) if one
// exists, else creates it.
func (s *Store[T]) GetOrCreate(source, target T, handler WriteHandler[T]) (T, error) {
	if i := s.raw.Search(source, target); i != 0 {
		if handler != nil {
			if l, ok := s.raw.Get(i); ok {
				handler(l, l)
			}
		}
		return i, nil
	}
	return s.CreateLink(source, target, handler)
}

// Rebase rewrites every link with source == old to source = newID, and
// every link with target == old to target = newID. old itself is
// never rewritten even if old is live and touches itself (e.g. a
// self-loop point) — only its usages are victims. The victim set is
// snapshotted before any write, so a handler that itself creates or
// deletes links referencing old or newID during iteration cannot skip
// or double-visit a link.
func (s *Store[T]) Rebase(old, newID T, handler WriteHandler[T]) error {
	var bySource, byTarget []T
	s.raw.EachBySource(old, func(l Link[T]) bool {
		if l.Index != old {
			bySource = append(bySource, l.Index)
		}
		return true
	})
	s.raw.EachByTarget(old, func(l Link[T]) bool {
		if l.Index != old {
			byTarget = append(byTarget, l.Index)
		}
		return true
	})

	stop := false
	wrapped := bulkHandler(handler, &stop)

	for _, i := range bySource {
		l, ok := s.raw.Get(i)
		if !ok {
			continue
		}
		if _, err := s.Update(i, newID, l.Target, wrapped); err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	for _, i := range byTarget {
		l, ok := s.raw.Get(i)
		if !ok {
			continue
		}
		if _, err := s.Update(i, l.Source, newID, wrapped); err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}

// bulkHandler wraps a WriteHandler so a bulk operation's loop can
// observe a Break return without the per-link Update/Delete call
// itself needing to propagate Flow back to its caller. Already-applied
// writes before the Break are not rolled back, per spec.md §4.5.2.
func bulkHandler[T Identifier](handler WriteHandler[T], stop *bool) WriteHandler[T] {
	return func(before, after Link[T]) Flow {
		if handler == nil {
			return Continue
		}
		f := handler(before, after)
		if f == Break {
			*stop = true
		}
		return f
	}
}

// DeleteUsages snapshots every link referencing index (as source or
// target) and deletes them in descending index order, minimizing
// mid-iteration tree churn from free-list reclamation. index itself is
// never a usage of index, per the usages definition, and is never
// among the victims even if it references itself (e.g. a self-loop
// point).
func (s *Store[T]) DeleteUsages(index T, handler WriteHandler[T]) error {
	seen := map[T]struct{}{}
	var victims []T
	collect := func(l Link[T]) bool {
		if l.Index == index {
			return true
		}
		if _, dup := seen[l.Index]; !dup {
			seen[l.Index] = struct{}{}
			victims = append(victims, l.Index)
		}
		return true
	}
	s.raw.EachBySource(index, collect)
	s.raw.EachByTarget(index, collect)

	sort.Slice(victims, func(i, j int) bool { return victims[i] > victims[j] })

	stop := false
	wrapped := bulkHandler(handler, &stop)

	for _, i := range victims {
		if _, err := s.Delete(i, wrapped); err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}

// DeleteAll repeatedly deletes the highest live index until the store
// is empty.
func (s *Store[T]) DeleteAll(handler WriteHandler[T]) error {
	stop := false
	wrapped := bulkHandler(handler, &stop)

	for {
		count, err := s.Count()
		if err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		highest := s.raw.Allocated()
		for highest != 0 {
			if _, ok := s.raw.Get(highest); ok {
				break
			}
			highest--
		}
		if highest == 0 {
			return nil
		}
		if _, err := s.Delete(highest, wrapped); err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}
