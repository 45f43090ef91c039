package sbt

import (
	"math/rand"
	"sort"
	"testing"
)

// node is one slot of the test harness's node store, shaped like a
// real store's record: a key plus the same (left,right,size) triple a
// real Accessor exposes.
type node struct {
	key               Key[uint32]
	left, right, size uint32
}

// nodeStore is a minimal Accessor[uint32] backed by a plain slice,
// standing in for a unit/split store record array in these tests.
type nodeStore struct {
	nodes []node // index 0 unused, mirrors record 0 being the header
}

func newNodeStore(n int) *nodeStore {
	return &nodeStore{nodes: make([]node, n+1)}
}

func (s *nodeStore) Left(i uint32) uint32      { return s.nodes[i].left }
func (s *nodeStore) SetLeft(i, v uint32)       { s.nodes[i].left = v }
func (s *nodeStore) Right(i uint32) uint32     { return s.nodes[i].right }
func (s *nodeStore) SetRight(i, v uint32)      { s.nodes[i].right = v }
func (s *nodeStore) Size(i uint32) uint32      { return s.nodes[i].size }
func (s *nodeStore) SetSize(i, v uint32)       { s.nodes[i].size = v }
func (s *nodeStore) KeyOf(i uint32) Key[uint32] { return s.nodes[i].key }

func (s *nodeStore) tree() Tree[uint32] { return Tree[uint32]{Acc: s} }

func (s *nodeStore) setKey(i uint32, primary, secondary uint32) {
	s.nodes[i].key = Key[uint32]{Primary: primary, Secondary: secondary}
}

// checkSizes walks the tree verifying every node's size field equals
// 1 + left's size + right's size, the SBT invariant every rotation
// must preserve.
func checkSizes(t *testing.T, s *nodeStore, root uint32) uint32 {
	t.Helper()
	if root == 0 {
		return 0
	}
	l := checkSizes(t, s, s.Left(root))
	r := checkSizes(t, s, s.Right(root))
	want := l + r + 1
	if s.Size(root) != want {
		t.Errorf("node %d: size = %d, want %d (left=%d right=%d)", root, s.Size(root), want, l, r)
	}
	return want
}

func TestAttachBuildsValidSizes(t *testing.T) {
	s := newNodeStore(20)
	var root uint32
	for i := uint32(1); i <= 20; i++ {
		s.setKey(i, i%7, i)
		s.tree().Attach(&root, i)
	}
	checkSizes(t, s, root)
	if got := s.Size(root); got != 20 {
		t.Errorf("root size = %d, want 20", got)
	}
}

func TestAttachThenSearchFindsEveryNode(t *testing.T) {
	s := newNodeStore(30)
	var root uint32
	for i := uint32(1); i <= 30; i++ {
		s.setKey(i, i*3, i)
		s.tree().Attach(&root, i)
	}
	tree := s.tree()
	for i := uint32(1); i <= 30; i++ {
		got := tree.Search(root, Key[uint32]{Primary: i * 3, Secondary: i})
		if got != i {
			t.Errorf("Search(%d) = %d, want %d", i*3, got, i)
		}
	}
	if got := tree.Search(root, Key[uint32]{Primary: 999, Secondary: 0}); got != 0 {
		t.Errorf("Search for absent key = %d, want 0", got)
	}
}

func TestDetachRemovesNodeAndFixesSizes(t *testing.T) {
	s := newNodeStore(20)
	var root uint32
	for i := uint32(1); i <= 20; i++ {
		s.setKey(i, i, 0)
		s.tree().Attach(&root, i)
	}

	tree := s.tree()
	for _, victim := range []uint32{5, 1, 20, 11} {
		tree.Detach(&root, victim)
		if got := tree.Search(root, Key[uint32]{Primary: victim}); got != 0 {
			t.Errorf("after detaching %d, Search still finds %d", victim, got)
		}
	}
	checkSizes(t, s, root)

	remaining := uint32(20 - 4)
	if got := s.size(root); got != remaining {
		t.Errorf("root size after 4 deletes = %d, want %d", got, remaining)
	}
}

func TestAttachDetachRandomSequenceStaysConsistent(t *testing.T) {
	const n = 200
	s := newNodeStore(n)
	rng := rand.New(rand.NewSource(1))

	keys := make([]uint32, n+1)
	for i := uint32(1); i <= n; i++ {
		keys[i] = uint32(rng.Intn(50))
		s.setKey(i, keys[i], i)
	}

	var root uint32
	tree := s.tree()
	present := map[uint32]bool{}
	order := rng.Perm(n)
	for _, idx := range order {
		i := uint32(idx + 1)
		tree.Attach(&root, i)
		present[i] = true
	}
	checkSizes(t, s, root)

	rng.Shuffle(len(order), func(a, b int) { order[a], order[b] = order[b], order[a] })
	for _, idx := range order[:n/2] {
		i := uint32(idx + 1)
		tree.Detach(&root, i)
		delete(present, i)
	}
	checkSizes(t, s, root)

	for i := uint32(1); i <= n; i++ {
		found := tree.Search(root, Key[uint32]{Primary: keys[i], Secondary: i}) == i
		if found != present[i] {
			t.Errorf("node %d: Search found=%v, want present=%v", i, found, present[i])
		}
	}
}

func TestCountUsagesMatchesBruteForce(t *testing.T) {
	const n = 100
	s := newNodeStore(n)
	rng := rand.New(rand.NewSource(2))

	var root uint32
	tree := s.tree()
	counts := map[uint32]uint32{}
	for i := uint32(1); i <= n; i++ {
		p := uint32(rng.Intn(10))
		s.setKey(i, p, i)
		tree.Attach(&root, i)
		counts[p]++
	}

	for p := uint32(0); p < 10; p++ {
		if got := tree.CountUsages(root, p); got != counts[p] {
			t.Errorf("CountUsages(%d) = %d, want %d", p, got, counts[p])
		}
	}
	if got := tree.CountUsages(root, 999); got != 0 {
		t.Errorf("CountUsages for absent primary = %d, want 0", got)
	}
}

func TestEachUsagesVisitsExactlyTheMatchingNodes(t *testing.T) {
	const n = 80
	s := newNodeStore(n)

	var root uint32
	tree := s.tree()
	var wantSecondaries []int
	for i := uint32(1); i <= n; i++ {
		p := i % 5
		s.setKey(i, p, i)
		tree.Attach(&root, i)
		if p == 2 {
			wantSecondaries = append(wantSecondaries, int(i))
		}
	}
	sort.Ints(wantSecondaries)

	var gotSecondaries []int
	tree.EachUsages(root, 2, func(i uint32) bool {
		gotSecondaries = append(gotSecondaries, int(i))
		return true
	})
	sort.Ints(gotSecondaries)

	if len(gotSecondaries) != len(wantSecondaries) {
		t.Fatalf("EachUsages visited %d nodes, want %d", len(gotSecondaries), len(wantSecondaries))
	}
	for i := range wantSecondaries {
		if gotSecondaries[i] != wantSecondaries[i] {
			t.Errorf("visited[%d] = %d, want %d", i, gotSecondaries[i], wantSecondaries[i])
		}
	}
}

func TestEachUsagesStopsOnFalse(t *testing.T) {
	s := newNodeStore(30)
	var root uint32
	tree := s.tree()
	for i := uint32(1); i <= 30; i++ {
		s.setKey(i, 1, i)
		tree.Attach(&root, i)
	}

	visited := 0
	tree.EachUsages(root, 1, func(uint32) bool {
		visited++
		return visited < 3
	})
	if visited != 3 {
		t.Errorf("visited = %d, want 3 (stopped after handler returned false)", visited)
	}
}

func (s *nodeStore) size(i uint32) uint32 {
	if i == 0 {
		return 0
	}
	return s.Size(i)
}
