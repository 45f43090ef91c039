package unitstore

import (
	"testing"

	"github.com/linksplatform/doublets/internal/membuf"
)

func newTestStore(t *testing.T) *Store[uint32] {
	t.Helper()
	s, err := New[uint32](membuf.NewHeap(), 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestCreateAllocatesSequentialIndices(t *testing.T) {
	s := newTestStore(t)

	i1, err := s.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	i2, err := s.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if i1 != 1 || i2 != 2 {
		t.Errorf("Create sequence = %d, %d, want 1, 2", i1, i2)
	}
	if s.Allocated() != 2 {
		t.Errorf("Allocated() = %d, want 2", s.Allocated())
	}
}

func TestCreateThenUpdateFormsLiveLink(t *testing.T) {
	s := newTestStore(t)
	i, _ := s.Create()

	if s.IsLive(i) {
		t.Error("freshly created, not-yet-updated index should not be live")
	}

	before, after := s.Update(i, 10, 20)
	if before.Source != 0 || before.Target != 0 {
		t.Errorf("before = %+v, want zero link", before)
	}
	if after.Source != 10 || after.Target != 20 {
		t.Errorf("after = %+v, want source=10 target=20", after)
	}
	if !s.IsLive(i) {
		t.Error("index should be live after Update with non-zero fields")
	}

	got, ok := s.Get(i)
	if !ok || got.Source != 10 || got.Target != 20 {
		t.Errorf("Get(%d) = %+v, %v; want source=10 target=20, true", i, got, ok)
	}
}

func TestSearchFindsExactSourceTarget(t *testing.T) {
	s := newTestStore(t)
	i, _ := s.Create()
	s.Update(i, 5, 6)

	if got := s.Search(5, 6); got != i {
		t.Errorf("Search(5,6) = %d, want %d", got, i)
	}
	if got := s.Search(5, 7); got != 0 {
		t.Errorf("Search(5,7) = %d, want 0 (no such link)", got)
	}
}

func TestCountBySourceAndTarget(t *testing.T) {
	s := newTestStore(t)
	i1, _ := s.Create()
	s.Update(i1, 1, 100)
	i2, _ := s.Create()
	s.Update(i2, 1, 200)
	i3, _ := s.Create()
	s.Update(i3, 2, 100)

	if got := s.CountBySource(1); got != 2 {
		t.Errorf("CountBySource(1) = %d, want 2", got)
	}
	if got := s.CountByTarget(100); got != 2 {
		t.Errorf("CountByTarget(100) = %d, want 2", got)
	}
	if got := s.CountAll(); got != 3 {
		t.Errorf("CountAll() = %d, want 3", got)
	}
}

func TestEachBySourceVisitsOnlyMatchingLinks(t *testing.T) {
	s := newTestStore(t)
	i1, _ := s.Create()
	s.Update(i1, 9, 1)
	i2, _ := s.Create()
	s.Update(i2, 9, 2)
	i3, _ := s.Create()
	s.Update(i3, 8, 3)

	var targets []uint32
	s.EachBySource(9, func(l Link[uint32]) bool {
		targets = append(targets, l.Target)
		return true
	})

	if len(targets) != 2 {
		t.Fatalf("EachBySource(9) visited %d links, want 2", len(targets))
	}
}

func TestDeleteDetachesAndFreesSlot(t *testing.T) {
	s := newTestStore(t)
	i, _ := s.Create()
	s.Update(i, 1, 2)

	before := s.Delete(i)
	if before.Source != 1 || before.Target != 2 {
		t.Errorf("Delete returned before=%+v, want source=1 target=2", before)
	}
	if s.IsLive(i) {
		t.Error("deleted index should not be live")
	}
	if got := s.Search(1, 2); got != 0 {
		t.Errorf("Search after delete = %d, want 0", got)
	}
}

func TestDeleteRecycledByNextCreate(t *testing.T) {
	s := newTestStore(t)
	i1, _ := s.Create()
	s.Update(i1, 1, 1)
	i2, _ := s.Create()
	s.Update(i2, 2, 2)

	s.Delete(i2)

	i3, err := s.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if i3 != i2 {
		t.Errorf("Create after Delete(%d) reused %d, want %d", i2, i3, i2)
	}
}

func TestDeleteHighestIndexReclaimsTail(t *testing.T) {
	s := newTestStore(t)
	i1, _ := s.Create()
	s.Update(i1, 1, 1)
	i2, _ := s.Create()
	s.Update(i2, 2, 2)

	s.Delete(i2)

	if s.Allocated() != i1 {
		t.Errorf("Allocated() after deleting the tail = %d, want %d", s.Allocated(), i1)
	}

	i3, err := s.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if i3 != i2 {
		t.Errorf("Create after reclaiming tail = %d, want %d (reused slot, not a new one)", i3, i2)
	}
}

func TestEachAllVisitsEveryLiveLink(t *testing.T) {
	s := newTestStore(t)
	want := map[uint32]bool{}
	for i := 0; i < 10; i++ {
		idx, _ := s.Create()
		s.Update(idx, uint32(i+1), uint32(i+100))
		want[idx] = true
	}

	got := map[uint32]bool{}
	s.EachAll(func(l Link[uint32]) bool {
		got[l.Index] = true
		return true
	})

	if len(got) != len(want) {
		t.Fatalf("EachAll visited %d links, want %d", len(got), len(want))
	}
	for idx := range want {
		if !got[idx] {
			t.Errorf("EachAll did not visit index %d", idx)
		}
	}
}

func TestStoreGrowsBackendWhenReservedExhausted(t *testing.T) {
	s, err := New[uint32](membuf.NewHeap(), 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var indices []uint32
	for i := 0; i < 5; i++ {
		idx, err := s.Create()
		if err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
		s.Update(idx, uint32(i+1), uint32(i+1))
		indices = append(indices, idx)
	}

	for _, idx := range indices {
		if !s.IsLive(idx) {
			t.Errorf("index %d not live after backend growth", idx)
		}
	}
}
