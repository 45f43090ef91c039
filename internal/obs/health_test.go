package obs

import (
	"context"
	"errors"
	"testing"
)

type fakeProber struct {
	allocated, free, reserved uint64
}

func (p fakeProber) Allocated() uint64 { return p.allocated }
func (p fakeProber) Free() uint64      { return p.free }
func (p fakeProber) Reserved() uint64  { return p.reserved }

func TestHealthCheckerWithoutBreakerIsAlwaysHealthy(t *testing.T) {
	hc := NewHealthChecker(fakeProber{allocated: 3, free: 1, reserved: 16}, nil)

	h, err := hc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !h.Healthy {
		t.Error("Healthy = false, want true when no breaker is wired")
	}
	if h.Allocated != 3 || h.Free != 1 || h.Reserved != 16 {
		t.Errorf("Check() = %+v, want Allocated=3 Free=1 Reserved=16", h)
	}
	if h.Checked.IsZero() {
		t.Error("Checked timestamp was not set")
	}
}

func TestHealthCheckerReflectsOpenBreaker(t *testing.T) {
	cfg := DefaultCircuitBreakerConfig("store")
	cfg.MaxFailures = 1
	cb := NewCircuitBreaker(cfg)
	boom := errors.New("boom")
	cb.Execute(context.Background(), func() error { return boom })

	if got := cb.State(); got != CircuitOpen {
		t.Fatalf("breaker State() = %v, want CircuitOpen", got)
	}

	hc := NewHealthChecker(fakeProber{allocated: 1}, cb)
	h, err := hc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if h.Healthy {
		t.Error("Healthy = true, want false when the breaker is open")
	}
	if h.LastGrowError == "" {
		t.Error("LastGrowError was not populated for an open breaker")
	}
}

func TestHealthCheckerClosedBreakerIsHealthy(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig("store"))
	hc := NewHealthChecker(fakeProber{}, cb)

	h, err := hc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !h.Healthy {
		t.Error("Healthy = false, want true when the breaker is closed")
	}
}
