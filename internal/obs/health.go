package obs

import (
	"context"
	"time"
)

// HealthProber is the read-only surface a store exposes for health
// checks, kept narrow so this package never needs to import the store
// façade itself.
type HealthProber interface {
	Allocated() uint64
	Free() uint64
	Reserved() uint64
}

// StoreHealth is the result of a single health check.
type StoreHealth struct {
	Healthy       bool
	Allocated     uint64
	Free          uint64
	Reserved      uint64
	LastGrowError string
	Checked       time.Time
}

// HealthChecker reports on a store's allocator state and, if wired to
// one, a circuit breaker guarding its backing-memory grow path.
type HealthChecker struct {
	prober  HealthProber
	breaker *CircuitBreaker
}

// NewHealthChecker builds a checker against prober. breaker may be nil
// if the store's backend never trips one (e.g. an in-process heap).
func NewHealthChecker(prober HealthProber, breaker *CircuitBreaker) *HealthChecker {
	return &HealthChecker{prober: prober, breaker: breaker}
}

// Check reports the store's current allocator state. It considers the
// store unhealthy only when a circuit breaker is wired and open.
func (hc *HealthChecker) Check(ctx context.Context) (*StoreHealth, error) {
	h := &StoreHealth{
		Healthy:   true,
		Allocated: hc.prober.Allocated(),
		Free:      hc.prober.Free(),
		Reserved:  hc.prober.Reserved(),
		Checked:   time.Now(),
	}

	if hc.breaker != nil && hc.breaker.State() == CircuitOpen {
		h.Healthy = false
		h.LastGrowError = "backing-memory grow path is open after repeated failures"
	}

	return h, nil
}
