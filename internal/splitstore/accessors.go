package splitstore

import (
	"github.com/linksplatform/doublets/internal/freelist"
	"github.com/linksplatform/doublets/internal/sbt"
)

// sourceAccessor is the split store's global source-tree accessor:
// node slots come from the index record, the ordering key from the
// parallel data record.
type sourceAccessor[T Unsigned] struct{ s *Store[T] }

func (a sourceAccessor[T]) Left(i T) T      { return a.s.indexRecord(i).LeftAsSource }
func (a sourceAccessor[T]) SetLeft(i, v T)  { a.s.indexRecord(i).LeftAsSource = v }
func (a sourceAccessor[T]) Right(i T) T     { return a.s.indexRecord(i).RightAsSource }
func (a sourceAccessor[T]) SetRight(i, v T) { a.s.indexRecord(i).RightAsSource = v }
func (a sourceAccessor[T]) Size(i T) T      { return a.s.indexRecord(i).SizeAsSource }
func (a sourceAccessor[T]) SetSize(i, v T)  { a.s.indexRecord(i).SizeAsSource = v }

func (a sourceAccessor[T]) KeyOf(i T) sbt.Key[T] {
	d := a.s.dataRecord(i)
	return sbt.Key[T]{Primary: d.Source, Secondary: d.Target}
}

// targetAccessor is the global target-tree's mirror image.
type targetAccessor[T Unsigned] struct{ s *Store[T] }

func (a targetAccessor[T]) Left(i T) T      { return a.s.indexRecord(i).LeftAsTarget }
func (a targetAccessor[T]) SetLeft(i, v T)  { a.s.indexRecord(i).LeftAsTarget = v }
func (a targetAccessor[T]) Right(i T) T     { return a.s.indexRecord(i).RightAsTarget }
func (a targetAccessor[T]) SetRight(i, v T) { a.s.indexRecord(i).RightAsTarget = v }
func (a targetAccessor[T]) Size(i T) T      { return a.s.indexRecord(i).SizeAsTarget }
func (a targetAccessor[T]) SetSize(i, v T)  { a.s.indexRecord(i).SizeAsTarget = v }

func (a targetAccessor[T]) KeyOf(i T) sbt.Key[T] {
	d := a.s.dataRecord(i)
	return sbt.Key[T]{Primary: d.Target, Secondary: d.Source}
}

// freeAccessor shares the global source-tree's node slots: a record
// is never both on the free list and in the global source tree.
type freeAccessor[T Unsigned] struct{ s *Store[T] }

func (a freeAccessor[T]) Prev(i T) T     { return a.s.indexRecord(i).LeftAsSource }
func (a freeAccessor[T]) SetPrev(i, v T) { a.s.indexRecord(i).LeftAsSource = v }
func (a freeAccessor[T]) Next(i T) T     { return a.s.indexRecord(i).RightAsSource }
func (a freeAccessor[T]) SetNext(i, v T) { a.s.indexRecord(i).RightAsSource = v }

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

// externalSourceAccessor is a per-bucket virtual tree: every node in
// it shares the same data-record source value (the bucket), ordered
// by target alone, rather than by (source,target) — so within one
// bucket KeyOf's Primary is always identical and only Secondary
// (target) discriminates. It reuses the same node slots as the global
// source-tree; a link belongs to at most one of the two at a time,
// selected by whether its source is an internal or external
// identifier.
type externalSourceAccessor[T Unsigned] struct{ s *Store[T] }

func (a externalSourceAccessor[T]) Left(i T) T      { return a.s.indexRecord(i).LeftAsSource }
func (a externalSourceAccessor[T]) SetLeft(i, v T)  { a.s.indexRecord(i).LeftAsSource = v }
func (a externalSourceAccessor[T]) Right(i T) T     { return a.s.indexRecord(i).RightAsSource }
func (a externalSourceAccessor[T]) SetRight(i, v T) { a.s.indexRecord(i).RightAsSource = v }
func (a externalSourceAccessor[T]) Size(i T) T      { return a.s.indexRecord(i).SizeAsSource }
func (a externalSourceAccessor[T]) SetSize(i, v T)  { a.s.indexRecord(i).SizeAsSource = v }

func (a externalSourceAccessor[T]) KeyOf(i T) sbt.Key[T] {
	d := a.s.dataRecord(i)
	return sbt.Key[T]{Primary: d.Source, Secondary: d.Target}
}

type externalTargetAccessor[T Unsigned] struct{ s *Store[T] }

func (a externalTargetAccessor[T]) Left(i T) T      { return a.s.indexRecord(i).LeftAsTarget }
func (a externalTargetAccessor[T]) SetLeft(i, v T)  { a.s.indexRecord(i).LeftAsTarget = v }
func (a externalTargetAccessor[T]) Right(i T) T     { return a.s.indexRecord(i).RightAsTarget }
func (a externalTargetAccessor[T]) SetRight(i, v T) { a.s.indexRecord(i).RightAsTarget = v }
func (a externalTargetAccessor[T]) Size(i T) T      { return a.s.indexRecord(i).SizeAsTarget }
func (a externalTargetAccessor[T]) SetSize(i, v T)  { a.s.indexRecord(i).SizeAsTarget = v }

func (a externalTargetAccessor[T]) KeyOf(i T) sbt.Key[T] {
	d := a.s.dataRecord(i)
	return sbt.Key[T]{Primary: d.Target, Secondary: d.Source}
}

func (s *Store[T]) externalSourceTree() sbt.Tree[T] {
	return sbt.Tree[T]{Acc: externalSourceAccessor[T]{s}}
}

func (s *Store[T]) externalTargetTree() sbt.Tree[T] {
	return sbt.Tree[T]{Acc: externalTargetAccessor[T]{s}}
}
