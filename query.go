package doublets

import "fmt"

// queryKind classifies a resolved query, selecting which rawStore
// traversal serves it.
type queryKind int

const (
	queryAll queryKind = iota
	queryByIndex
	queryBySource
	queryByTarget
	queryBySourceTarget
	queryByIndexField
	queryByIndexFilter
)

// plan is the resolved form of a 0-3 element query, per the grammar
// table: every wildcard position collapses to one of a handful of
// traversal shapes.
type plan[T Identifier] struct {
	kind queryKind

	index  T
	source T
	target T
	field  T

	sourceAny bool
	targetAny bool
}

// resolvePlan dispatches a query of 0-3 identifiers (each either a
// concrete value or the store's Any wildcard) to one of the traversal
// shapes a rawStore exposes.
func (s *Store[T]) resolvePlan(query []T) (plan[T], error) {
	c := s.constants
	switch len(query) {
	case 0:
		return plan[T]{kind: queryAll}, nil

	case 1:
		if c.IsAny(query[0]) {
			return plan[T]{kind: queryAll}, nil
		}
		return plan[T]{kind: queryByIndex, index: query[0]}, nil

	case 2:
		i, x := query[0], query[1]
		switch {
		case c.IsAny(i) && c.IsAny(x):
			return plan[T]{kind: queryAll}, nil
		case c.IsAny(i):
			// [ANY, s]
			return plan[T]{kind: queryBySource, source: x}, nil
		case c.IsAny(x):
			// [i, ANY]
			return plan[T]{kind: queryByIndex, index: i}, nil
		default:
			// [i, x]: match if i.Source == x OR i.Target == x.
			return plan[T]{kind: queryByIndexField, index: i, field: x}, nil
		}

	case 3:
		i, src, tgt := query[0], query[1], query[2]
		iAny, sAny, tAny := c.IsAny(i), c.IsAny(src), c.IsAny(tgt)
		switch {
		case iAny && sAny && tAny:
			return plan[T]{kind: queryAll}, nil
		case iAny && tAny && !sAny:
			// [ANY, s, ANY]
			return plan[T]{kind: queryBySource, source: src}, nil
		case iAny && sAny && !tAny:
			// [ANY, ANY, t]
			return plan[T]{kind: queryByTarget, target: tgt}, nil
		case iAny && !sAny && !tAny:
			// [ANY, s, t]
			return plan[T]{kind: queryBySourceTarget, source: src, target: tgt}, nil
		case !iAny && sAny && tAny:
			// [i, ANY, ANY]
			return plan[T]{kind: queryByIndex, index: i}, nil
		default:
			// [i, s, t] with at least one of s,t concrete: index+filter.
			return plan[T]{
				kind: queryByIndexFilter, index: i,
				source: src, target: tgt,
				sourceAny: sAny, targetAny: tAny,
			}, nil
		}

	default:
		return plan[T]{}, fmt.Errorf("doublets: query must have 0 to 3 elements, got %d", len(query))
	}
}

// matchFilter reports whether l satisfies an index+filter plan's
// concrete (non-Any) fields.
func matchFilter[T Identifier](l Link[T], p plan[T]) bool {
	if !p.sourceAny && l.Source != p.source {
		return false
	}
	if !p.targetAny && l.Target != p.target {
		return false
	}
	return true
}

// Count returns the number of live links matching query, per the
// grammar table in SPEC_FULL.md §4.7 / spec.md §4.5.1.
func (s *Store[T]) Count(query ...T) (T, error) {
	p, err := s.resolvePlan(query)
	if err != nil {
		return 0, err
	}

	switch p.kind {
	case queryAll:
		return s.raw.CountAll(), nil
	case queryByIndex:
		if _, ok := s.raw.Get(p.index); ok {
			return 1, nil
		}
		return 0, nil
	case queryBySource:
		return s.raw.CountBySource(p.source), nil
	case queryByTarget:
		return s.raw.CountByTarget(p.target), nil
	case queryBySourceTarget:
		if s.raw.Search(p.source, p.target) != 0 {
			return 1, nil
		}
		return 0, nil
	case queryByIndexField:
		l, ok := s.raw.Get(p.index)
		if ok && (l.Source == p.field || l.Target == p.field) {
			return 1, nil
		}
		return 0, nil
	case queryByIndexFilter:
		l, ok := s.raw.Get(p.index)
		if ok && matchFilter(l, p) {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("doublets: unreachable query kind %d", p.kind)
	}
}

// Each visits every live link matching query in tree order, invoking
// handler for each. Returns Break if handler returned Break and
// iteration stopped early, Continue otherwise.
func (s *Store[T]) Each(handler ReadHandler[T], query ...T) (Flow, error) {
	p, err := s.resolvePlan(query)
	if err != nil {
		return Continue, err
	}

	keepGoing := func(l Link[T]) bool { return handler(l) == Continue }

	switch p.kind {
	case queryAll:
		if !s.raw.EachAll(keepGoing) {
			return Break, nil
		}
		return Continue, nil
	case queryByIndex:
		if l, ok := s.raw.Get(p.index); ok {
			if handler(l) == Break {
				return Break, nil
			}
		}
		return Continue, nil
	case queryBySource:
		if !s.raw.EachBySource(p.source, keepGoing) {
			return Break, nil
		}
		return Continue, nil
	case queryByTarget:
		if !s.raw.EachByTarget(p.target, keepGoing) {
			return Break, nil
		}
		return Continue, nil
	case queryBySourceTarget:
		if i := s.raw.Search(p.source, p.target); i != 0 {
			if l, ok := s.raw.Get(i); ok && handler(l) == Break {
				return Break, nil
			}
		}
		return Continue, nil
	case queryByIndexField:
		if l, ok := s.raw.Get(p.index); ok && (l.Source == p.field || l.Target == p.field) {
			if handler(l) == Break {
				return Break, nil
			}
		}
		return Continue, nil
	case queryByIndexFilter:
		if l, ok := s.raw.Get(p.index); ok && matchFilter(l, p) {
			if handler(l) == Break {
				return Break, nil
			}
		}
		return Continue, nil
	default:
		return Continue, fmt.Errorf("doublets: unreachable query kind %d", p.kind)
	}
}

// Get returns the link at index, or (zero, false) if it is not live.
func (s *Store[T]) Get(index T) (Link[T], bool) {
	return s.raw.Get(index)
}
