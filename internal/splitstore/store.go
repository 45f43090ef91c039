package splitstore

import (
	"sync"

	"github.com/linksplatform/doublets/internal/membuf"
)

// Link mirrors the store façade's link value. Declared locally so
// this package has no dependency on the façade's types.
type Link[T Unsigned] struct {
	Index  T
	Source T
	Target T
}

// Store is the split-variant implementation: data and index-node
// slots live in two parallel backends, grown in lockstep. The header
// (allocator state, global tree roots) is overlaid on index record 0.
type Store[T Unsigned] struct {
	mu sync.RWMutex

	data  membuf.Backend
	index membuf.Backend

	dataRecordSize  int
	indexRecordSize int

	growthStepRecords int
}

// New wraps a pair of backends as a split store, reserving record 0 in
// both for the header/unused-data-slot if freshly created.
func New[T Unsigned](data, index membuf.Backend, growthStepRecords int) (*Store[T], error) {
	s := &Store[T]{
		data:              data,
		index:             index,
		dataRecordSize:    DataRecordSize[T](),
		indexRecordSize:   IndexRecordSize[T](),
		growthStepRecords: growthStepRecords,
	}

	if len(index.Bytes()) == 0 {
		if err := data.Grow(s.dataRecordSize); err != nil {
			return nil, err
		}
		if err := index.Grow(s.indexRecordSize); err != nil {
			return nil, err
		}
		h := s.header()
		h.Reserved = T(s.capacityRecords() - 1)
	}

	return s, nil
}

func (s *Store[T]) capacityRecords() int {
	return len(s.index.Bytes()) / s.indexRecordSize
}

func (s *Store[T]) header() *membuf.Header[T] {
	return membuf.HeaderView[T](s.index)
}

func (s *Store[T]) dataRecord(i T) *DataRecord[T] {
	return dataAt[T](s.data.Bytes(), i, s.dataRecordSize)
}

func (s *Store[T]) indexRecord(i T) *IndexRecord[T] {
	return indexAt[T](s.index.Bytes(), i, s.indexRecordSize)
}

// ensureCapacity grows both backends by one growth step in lockstep
// whenever allocated+1 would reach reserved, mirroring the unit
// store's growth policy.
func (s *Store[T]) ensureCapacity() error {
	h := s.header()
	if h.Allocated+1 < h.Reserved {
		return nil
	}
	if err := s.data.Grow(s.growthStepRecords * s.dataRecordSize); err != nil {
		return err
	}
	if err := s.index.Grow(s.growthStepRecords * s.indexRecordSize); err != nil {
		return err
	}
	h = s.header()
	h.Reserved = T(s.capacityRecords() - 1)
	return nil
}

// ensureBucketCapacity grows both backends enough that index record
// bucket is addressable, used when an external identifier (outside
// the range of link indices ever allocated) is addressed as a bucket
// key for the first time.
func (s *Store[T]) ensureBucketCapacity(bucket T) error {
	for s.capacityRecords() <= int(bucket) {
		if err := s.data.Grow(s.growthStepRecords * s.dataRecordSize); err != nil {
			return err
		}
		if err := s.index.Grow(s.growthStepRecords * s.indexRecordSize); err != nil {
			return err
		}
	}
	h := s.header()
	if reserved := T(s.capacityRecords() - 1); reserved > h.Reserved {
		h.Reserved = reserved
	}
	return nil
}

func (s *Store[T]) isUnused(i T) bool {
	if i == 0 {
		return false
	}
	r := s.dataRecord(i)
	return r.Source == 0 && r.Target == 0
}

// Allocated returns the highest link index ever used.
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
// backends further.
func (s *Store[T]) Reserved() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.header().Reserved
}

// Close releases both backends' OS resources, if any.
func (s *Store[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	dataErr := s.data.Close()
	indexErr := s.index.Close()
	if dataErr != nil {
		return dataErr
	}
	return indexErr
}
