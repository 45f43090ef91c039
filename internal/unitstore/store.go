package unitstore

import (
	"sync"

	"github.com/linksplatform/doublets/internal/membuf"
)

// Link mirrors the store façade's link value: a directed association
// of (index, source, target). Declared locally so this package has no
// dependency on the façade's types; the façade adapts between the two
// at its boundary.
type Link[T Unsigned] struct {
	Index  T
	Source T
	Target T
}

// Store is the unit-variant implementation: one record array, each
// record holding its own data plus both trees' node slots. The global
// tree roots live in the header at record 0.
type Store[T Unsigned] struct {
	mu sync.RWMutex

	backend           membuf.Backend
	recordSize        int
	growthStepRecords int
}

// New wraps backend as a unit store, reserving record 0 for the header
// if the backend is freshly created (empty). growthStepRecords is how
// many records capacity grows by whenever allocated catches up with
// reserved.
func New[T Unsigned](backend membuf.Backend, growthStepRecords int) (*Store[T], error) {
	s := &Store[T]{
		backend:           backend,
		recordSize:        RecordSize[T](),
		growthStepRecords: growthStepRecords,
	}

	if len(backend.Bytes()) == 0 {
		if err := backend.Grow(s.recordSize); err != nil {
			return nil, err
		}
		h := s.header()
		h.Reserved = T(s.capacityRecords() - 1)
	}

	return s, nil
}

func (s *Store[T]) capacityRecords() int {
	return len(s.backend.Bytes()) / s.recordSize
}

func (s *Store[T]) header() *membuf.Header[T] {
	return membuf.HeaderView[T](s.backend)
}

func (s *Store[T]) record(i T) *LinkRecord[T] {
	return recordAt[T](s.backend.Bytes(), i, s.recordSize)
}

// ensureCapacity grows the backend by one growth step whenever
// allocated+1 would reach reserved, per the growth policy: grow, then
// set reserved to the new capacity minus one (record 0 stays
// reserved for the header).
func (s *Store[T]) ensureCapacity() error {
	h := s.header()
	if h.Allocated+1 < h.Reserved {
		return nil
	}
	if err := s.backend.Grow(s.growthStepRecords * s.recordSize); err != nil {
		return err
	}
	h = s.header()
	h.Reserved = T(s.capacityRecords() - 1)
	return nil
}

func (s *Store[T]) isUnused(i T) bool {
	if i == 0 {
		return false
	}
	r := s.record(i)
	return r.Source == 0 && r.Target == 0
}

// Allocated returns the highest index ever used.
func (s *Store[T]) Allocated() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.header().Allocated
}

// Free returns the number of indices currently on the free list.
func (s *Store[T]) Free() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.header().Free
}

// Reserved returns the highest index addressable without growing the
// backend further.
func (s *Store[T]) Reserved() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.header().Reserved
}

// Close releases the backend's OS resources, if any.
func (s *Store[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Close()
}
