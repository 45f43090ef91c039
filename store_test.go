package doublets

import (
	"context"
	"testing"
)

func openTestStore(t *testing.T, opts ...Option) *Store[uint32] {
	t.Helper()
	all := append([]Option{WithMetrics(false)}, opts...)
	s, err := Open[uint32](all...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenDefaultsToHeapUnitLayout(t *testing.T) {
	s := openTestStore(t)
	if s.cfg.Backend != BackendHeap || s.cfg.Layout != LayoutUnit {
		t.Errorf("cfg = %+v, want heap/unit defaults", s.cfg)
	}
}

func TestOpenWithSplitLayout(t *testing.T) {
	s := openTestStore(t, WithSplitLayout())
	i, err := s.CreateLink(1, 1, nil)
	if err != nil {
		t.Fatalf("CreateLink: %v", err)
	}
	l, ok := s.Get(i)
	if !ok || l.Source != 1 || l.Target != 1 {
		t.Errorf("Get(%d) = %+v,%v want source=1 target=1,true", i, l, ok)
	}
}

func TestOpenWithFileMappedBackend(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t, WithFileMapped(dir+"/store.db"))
	i, err := s.CreateLink(1, 2, nil)
	if err != nil {
		t.Fatalf("CreateLink: %v", err)
	}
	if l, ok := s.Get(i); !ok || l.Source != 1 || l.Target != 2 {
		t.Errorf("Get(%d) = %+v,%v want source=1 target=2,true", i, l, ok)
	}
}

func TestOpenRejectsEmptyFileMappedPath(t *testing.T) {
	_, err := Open[uint32](WithMetrics(false), WithFileMapped(""))
	if err == nil {
		t.Fatal("Open with empty file-mapped path should fail")
	}
}

func TestStoreConstantsReflectExternalRange(t *testing.T) {
	s := openTestStore(t, WithExternalRange(1000, 2000))
	c := s.Constants()
	if !c.HasExternalRange || c.ExternalRangeLo != 1000 || c.ExternalRangeHi != 2000 {
		t.Errorf("Constants() = %+v, want external range [1000,2000]", c)
	}
	if !c.IsExternal(1500) {
		t.Error("IsExternal(1500) = false, want true")
	}
	if c.IsExternal(1) {
		t.Error("IsExternal(1) = true, want false")
	}
}

func TestStoreHealthReportsAllocatorState(t *testing.T) {
	s := openTestStore(t)
	s.CreateLink(1, 1, nil)

	h, err := s.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if !h.Healthy {
		t.Error("Healthy = false, want true (heap backend has no circuit breaker)")
	}
	if h.Allocated != 1 {
		t.Errorf("Allocated = %d, want 1", h.Allocated)
	}
}

func TestStoreCloseIsIdempotent(t *testing.T) {
	s, err := Open[uint32](WithMetrics(false))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
