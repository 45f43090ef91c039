package obs

import "testing"

// NewMetrics registers against the default Prometheus registerer, so
// only one test in this package may call it — a second call anywhere
// else in this process would panic on duplicate registration.
func TestNewMetricsRegistersAllCollectors(t *testing.T) {
	m := NewMetrics()

	m.Creates.Inc()
	m.Updates.Inc()
	m.Deletes.Inc()
	m.Errors.Inc()
	m.OperationLatency.Observe(0.01)
	m.Allocated.Set(5)
	m.Free.Set(2)

	if m.Creates == nil || m.Updates == nil || m.Deletes == nil || m.Errors == nil {
		t.Fatal("NewMetrics left a counter nil")
	}
	if m.OperationLatency == nil {
		t.Fatal("NewMetrics left OperationLatency nil")
	}
	if m.Allocated == nil || m.Free == nil {
		t.Fatal("NewMetrics left a gauge nil")
	}
}
