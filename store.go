package doublets

import (
	"context"
	"fmt"
	"time"

	"github.com/linksplatform/doublets/internal/membuf"
	"github.com/linksplatform/doublets/internal/obs"
)

// Store is an open doublets engine over one backend/layout combination.
// Store is safe for one writer and many concurrent readers; it is not
// safe for concurrent writers (see the concurrency model in
// SPEC_FULL.md §8).
type Store[T Identifier] struct {
	raw       rawStore[T]
	constants Constants[T]
	cfg       *Config

	metrics *obs.Metrics
	breaker *obs.CircuitBreaker
	health  *obs.HealthChecker

	closed bool
}

// Open builds a store from the given options, creating or attaching
// to the configured backend(s) and reserving record 0 for the header.
func Open[T Identifier](opts ...Option) (*Store[T], error) {
	cfg, err := Apply(opts...)
	if err != nil {
		return nil, err
	}

	constants := DefaultConstants[T]()
	if cfg.hasExternal {
		constants.HasExternalRange = true
		constants.ExternalRangeLo = T(cfg.ExternalRangeLo)
		constants.ExternalRangeHi = T(cfg.ExternalRangeHi)
	}

	var metrics *obs.Metrics
	if cfg.MetricsEnabled {
		metrics = obs.NewMetrics()
	}

	var breaker *obs.CircuitBreaker
	if cfg.Backend == BackendFileMapped {
		breaker = obs.NewCircuitBreaker(obs.DefaultCircuitBreakerConfig("doublets.backend.grow"))
	}

	var raw rawStore[T]
	switch cfg.Layout {
	case LayoutUnit:
		backend, err := newBackend(cfg, "", breaker)
		if err != nil {
			return nil, err
		}
		raw, err = newUnitAdapter[T](backend, cfg.GrowthStepRecords)
		if err != nil {
			return nil, err
		}
	case LayoutSplit:
		dataBackend, err := newBackend(cfg, ".data", breaker)
		if err != nil {
			return nil, err
		}
		indexBackend, err := newBackend(cfg, ".index", breaker)
		if err != nil {
			return nil, err
		}
		raw, err = newSplitAdapter[T](dataBackend, indexBackend, cfg.GrowthStepRecords)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("doublets: unknown layout %d", cfg.Layout)
	}

	s := &Store[T]{
		raw:       raw,
		constants: constants,
		cfg:       cfg,
		metrics:   metrics,
		breaker:   breaker,
	}
	s.health = obs.NewHealthChecker(storeProbe[T]{s}, breaker)
	return s, nil
}

// newBackend constructs the membuf.Backend for one record array. suffix
// distinguishes the two files/regions of a split layout ("" for unit,
// ".data"/".index" for split); it is appended to cfg.Path for
// file-mapped backends and ignored for heap backends.
func newBackend(cfg *Config, suffix string, breaker *obs.CircuitBreaker) (membuf.Backend, error) {
	switch cfg.Backend {
	case BackendHeap:
		return membuf.NewHeap(), nil
	case BackendFileMapped:
		fm, err := membuf.OpenFileMapped(cfg.Path + suffix)
		if err != nil {
			return nil, err
		}
		if breaker != nil {
			return &guardedBackend{Backend: fm, breaker: breaker}, nil
		}
		return fm, nil
	default:
		return nil, fmt.Errorf("doublets: unknown backend %d", cfg.Backend)
	}
}

// guardedBackend wraps a membuf.Backend so every Grow call (the write
// path that can block on OS I/O, per the concurrency model) runs
// through a circuit breaker, tripping open after repeated mmap/truncate
// failures instead of retrying them forever.
type guardedBackend struct {
	membuf.Backend
	breaker *obs.CircuitBreaker
}

func (g *guardedBackend) Grow(additionalBytes int) error {
	return g.breaker.Execute(context.Background(), func() error {
		return g.Backend.Grow(additionalBytes)
	})
}

// storeProbe adapts Store[T] to obs.HealthProber without obs needing
// to know this package's types.
type storeProbe[T Identifier] struct{ s *Store[T] }

func (p storeProbe[T]) Allocated() uint64 { return uint64(p.s.raw.Allocated()) }
func (p storeProbe[T]) Free() uint64      { return uint64(p.s.raw.Free()) }
func (p storeProbe[T]) Reserved() uint64  { return uint64(p.s.raw.Reserved()) }

// Constants returns the fixed configuration block this store was
// opened with.
func (s *Store[T]) Constants() Constants[T] {
	return s.constants
}

// Health reports the store's current allocator state and circuit
// breaker status, if one is wired.
func (s *Store[T]) Health(ctx context.Context) (*obs.StoreHealth, error) {
	return s.health.Check(ctx)
}

// Close releases the backend's OS resources. A closed store must not
// be used again.
func (s *Store[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.raw.Close()
}

func (s *Store[T]) recordLatency(start time.Time) {
	if s.metrics != nil {
		s.metrics.OperationLatency.Observe(time.Since(start).Seconds())
	}
}
