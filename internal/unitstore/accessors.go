package unitstore

import (
	"github.com/linksplatform/doublets/internal/freelist"
	"github.com/linksplatform/doublets/internal/sbt"
)

// sourceAccessor exposes the source-tree's (left,right,size) node
// triple and (source,target) ordering key over a unit-store record.
type sourceAccessor[T Unsigned] struct{ s *Store[T] }

func (a sourceAccessor[T]) Left(i T) T      { return a.s.record(i).LeftAsSource }
func (a sourceAccessor[T]) SetLeft(i, v T)  { a.s.record(i).LeftAsSource = v }
func (a sourceAccessor[T]) Right(i T) T     { return a.s.record(i).RightAsSource }
func (a sourceAccessor[T]) SetRight(i, v T) { a.s.record(i).RightAsSource = v }
func (a sourceAccessor[T]) Size(i T) T      { return a.s.record(i).SizeAsSource }
func (a sourceAccessor[T]) SetSize(i, v T)  { a.s.record(i).SizeAsSource = v }

func (a sourceAccessor[T]) KeyOf(i T) sbt.Key[T] {
	r := a.s.record(i)
	return sbt.Key[T]{Primary: r.Source, Secondary: r.Target}
}

// targetAccessor is the source accessor's mirror image: (target,source)
// ordering over the record's "as target" node slots.
type targetAccessor[T Unsigned] struct{ s *Store[T] }

func (a targetAccessor[T]) Left(i T) T      { return a.s.record(i).LeftAsTarget }
func (a targetAccessor[T]) SetLeft(i, v T)  { a.s.record(i).LeftAsTarget = v }
func (a targetAccessor[T]) Right(i T) T     { return a.s.record(i).RightAsTarget }
func (a targetAccessor[T]) SetRight(i, v T) { a.s.record(i).RightAsTarget = v }
func (a targetAccessor[T]) Size(i T) T      { return a.s.record(i).SizeAsTarget }
func (a targetAccessor[T]) SetSize(i, v T)  { a.s.record(i).SizeAsTarget = v }

func (a targetAccessor[T]) KeyOf(i T) sbt.Key[T] {
	r := a.s.record(i)
	return sbt.Key[T]{Primary: r.Target, Secondary: r.Source}
}

// freeAccessor threads the free list's prev/next pointers through the
// same (left,right)-as-source slots the source tree uses: a record is
// never both on the free list and in the source tree at once, so the
// slots are safe to share.
type freeAccessor[T Unsigned] struct{ s *Store[T] }

func (a freeAccessor[T]) Prev(i T) T      { return a.s.record(i).LeftAsSource }
func (a freeAccessor[T]) SetPrev(i, v T)  { a.s.record(i).LeftAsSource = v }
func (a freeAccessor[T]) Next(i T) T      { return a.s.record(i).RightAsSource }
func (a freeAccessor[T]) SetNext(i, v T)  { a.s.record(i).RightAsSource = v }

func (s *Store[T]) sourceTree() sbt.Tree[T] { return sbt.Tree[T]{Acc: sourceAccessor[T]{s}} }
func (s *Store[T]) targetTree() sbt.Tree[T] { return sbt.Tree[T]{Acc: targetAccessor[T]{s}} }

func (s *Store[T]) freeList() freelist.List[T] {
	h := s.header()
	return freelist.List[T]{
		Acc: freeAccessor[T]{s},
		Ep: freelist.Endpoints[T]{
			First: &h.FirstFree,
			Last:  &h.LastFree,
			Count: &h.Free,
		},
	}
}
