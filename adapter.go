package doublets

import (
	"github.com/linksplatform/doublets/internal/membuf"
	"github.com/linksplatform/doublets/internal/splitstore"
	"github.com/linksplatform/doublets/internal/unitstore"
)

// rawStore is the common surface both record layouts present to the
// façade. Each layout package declares its own local Link[T] so it has
// no dependency on this package; the two adapter types below convert
// at the boundary.
type rawStore[T Identifier] interface {
	IsLive(i T) bool
	Get(i T) (Link[T], bool)

	Allocated() T
	Free() T
	Reserved() T

	CountAll() T
	CountBySource(source T) T
	CountByTarget(target T) T
	Search(source, target T) T

	EachAll(f func(Link[T]) bool) bool
	EachBySource(source T, f func(Link[T]) bool) bool
	EachByTarget(target T, f func(Link[T]) bool) bool

	Create() (T, error)
	Update(i, source, target T) (before, after Link[T])
	Delete(i T) Link[T]

	Close() error
}

// unitAdapter wraps an internal/unitstore.Store, converting between
// its local Link[T] and this package's Link[T] at every call.
type unitAdapter[T Identifier] struct {
	s *unitstore.Store[T]
}

func newUnitAdapter[T Identifier](backend membuf.Backend, growthStepRecords int) (*unitAdapter[T], error) {
	s, err := unitstore.New[T](backend, growthStepRecords)
	if err != nil {
		return nil, err
	}
	return &unitAdapter[T]{s: s}, nil
}

func (a *unitAdapter[T]) IsLive(i T) bool { return a.s.IsLive(i) }

func (a *unitAdapter[T]) Get(i T) (Link[T], bool) {
	l, ok := a.s.Get(i)
	return fromUnitLink(l), ok
}

func (a *unitAdapter[T]) Allocated() T { return a.s.Allocated() }
func (a *unitAdapter[T]) Free() T      { return a.s.Free() }
func (a *unitAdapter[T]) Reserved() T  { return a.s.Reserved() }

func (a *unitAdapter[T]) CountAll() T                   { return a.s.CountAll() }
func (a *unitAdapter[T]) CountBySource(source T) T      { return a.s.CountBySource(source) }
func (a *unitAdapter[T]) CountByTarget(target T) T      { return a.s.CountByTarget(target) }
func (a *unitAdapter[T]) Search(source, target T) T     { return a.s.Search(source, target) }

func (a *unitAdapter[T]) EachAll(f func(Link[T]) bool) bool {
	return a.s.EachAll(func(l unitstore.Link[T]) bool { return f(fromUnitLink(l)) })
}

func (a *unitAdapter[T]) EachBySource(source T, f func(Link[T]) bool) bool {
	return a.s.EachBySource(source, func(l unitstore.Link[T]) bool { return f(fromUnitLink(l)) })
}

func (a *unitAdapter[T]) EachByTarget(target T, f func(Link[T]) bool) bool {
	return a.s.EachByTarget(target, func(l unitstore.Link[T]) bool { return f(fromUnitLink(l)) })
}

func (a *unitAdapter[T]) Create() (T, error) { return a.s.Create() }

func (a *unitAdapter[T]) Update(i, source, target T) (before, after Link[T]) {
	b, af := a.s.Update(i, source, target)
	return fromUnitLink(b), fromUnitLink(af)
}

func (a *unitAdapter[T]) Delete(i T) Link[T] { return fromUnitLink(a.s.Delete(i)) }

func (a *unitAdapter[T]) Close() error { return a.s.Close() }

func fromUnitLink[T Identifier](l unitstore.Link[T]) Link[T] {
	return Link[T]{Index: l.Index, Source: l.Source, Target: l.Target}
}

// splitAdapter wraps an internal/splitstore.Store the same way
// unitAdapter wraps internal/unitstore.Store.
type splitAdapter[T Identifier] struct {
	s *splitstore.Store[T]
}

func newSplitAdapter[T Identifier](data, index membuf.Backend, growthStepRecords int) (*splitAdapter[T], error) {
	s, err := splitstore.New[T](data, index, growthStepRecords)
	if err != nil {
		return nil, err
	}
	return &splitAdapter[T]{s: s}, nil
}

func (a *splitAdapter[T]) IsLive(i T) bool { return a.s.IsLive(i) }

func (a *splitAdapter[T]) Get(i T) (Link[T], bool) {
	l, ok := a.s.Get(i)
	return fromSplitLink(l), ok
}

func (a *splitAdapter[T]) Allocated() T { return a.s.Allocated() }
func (a *splitAdapter[T]) Free() T      { return a.s.Free() }
func (a *splitAdapter[T]) Reserved() T  { return a.s.Reserved() }

func (a *splitAdapter[T]) CountAll() T               { return a.s.CountAll() }
func (a *splitAdapter[T]) CountBySource(source T) T  { return a.s.CountBySource(source) }
func (a *splitAdapter[T]) CountByTarget(target T) T  { return a.s.CountByTarget(target) }
func (a *splitAdapter[T]) Search(source, target T) T { return a.s.Search(source, target) }

func (a *splitAdapter[T]) EachAll(f func(Link[T]) bool) bool {
	return a.s.EachAll(func(l splitstore.Link[T]) bool { return f(fromSplitLink(l)) })
}

func (a *splitAdapter[T]) EachBySource(source T, f func(Link[T]) bool) bool {
	return a.s.EachBySource(source, func(l splitstore.Link[T]) bool { return f(fromSplitLink(l)) })
}

func (a *splitAdapter[T]) EachByTarget(target T, f func(Link[T]) bool) bool {
	return a.s.EachByTarget(target, func(l splitstore.Link[T]) bool { return f(fromSplitLink(l)) })
}

func (a *splitAdapter[T]) Create() (T, error) { return a.s.Create() }

func (a *splitAdapter[T]) Update(i, source, target T) (before, after Link[T]) {
	b, af := a.s.Update(i, source, target)
	return fromSplitLink(b), fromSplitLink(af)
}

func (a *splitAdapter[T]) Delete(i T) Link[T] { return fromSplitLink(a.s.Delete(i)) }

func (a *splitAdapter[T]) Close() error { return a.s.Close() }

func fromSplitLink[T Identifier](l splitstore.Link[T]) Link[T] {
	return Link[T]{Index: l.Index, Source: l.Source, Target: l.Target}
}
