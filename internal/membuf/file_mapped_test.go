package membuf

import (
	"path/filepath"
	"testing"
)

func TestOpenFileMappedCreatesAtLeastOnePage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	f, err := OpenFileMapped(path)
	if err != nil {
		t.Fatalf("OpenFileMapped: %v", err)
	}
	defer f.Close()

	if got := len(f.Bytes()); got < pageSize {
		t.Errorf("len(Bytes()) = %d, want at least %d", got, pageSize)
	}
}

func TestFileMappedGrowExtendsAndZeroFills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	f, err := OpenFileMapped(path)
	if err != nil {
		t.Fatalf("OpenFileMapped: %v", err)
	}
	defer f.Close()

	before := len(f.Bytes())
	if err := f.Grow(pageSize * 2); err != nil {
		t.Fatalf("Grow: %v", err)
	}
	after := len(f.Bytes())
	if after != before+pageSize*2 {
		t.Errorf("len(Bytes()) after Grow = %d, want %d", after, before+pageSize*2)
	}
	for i := before; i < after; i++ {
		if f.Bytes()[i] != 0 {
			t.Fatalf("byte %d = %d, want 0", i, f.Bytes()[i])
			break
		}
	}
}

func TestFileMappedWritesPersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	f, err := OpenFileMapped(path)
	if err != nil {
		t.Fatalf("OpenFileMapped: %v", err)
	}
	f.Bytes()[10] = 0x7f
	if err := f.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenFileMapped(path)
	if err != nil {
		t.Fatalf("reopen OpenFileMapped: %v", err)
	}
	defer reopened.Close()

	if got := reopened.Bytes()[10]; got != 0x7f {
		t.Errorf("byte 10 after reopen = %#x, want 0x7f", got)
	}
}

func TestFileMappedShrinkTruncatesLogicalLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	f, err := OpenFileMapped(path)
	if err != nil {
		t.Fatalf("OpenFileMapped: %v", err)
	}
	defer f.Close()

	if err := f.Grow(pageSize); err != nil {
		t.Fatalf("Grow: %v", err)
	}
	full := len(f.Bytes())
	if err := f.Shrink(pageSize); err != nil {
		t.Fatalf("Shrink: %v", err)
	}
	if got := len(f.Bytes()); got != full-pageSize {
		t.Errorf("len(Bytes()) after Shrink = %d, want %d", got, full-pageSize)
	}
}

func TestFileMappedPathReturnsOpenPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	f, err := OpenFileMapped(path)
	if err != nil {
		t.Fatalf("OpenFileMapped: %v", err)
	}
	defer f.Close()

	if f.Path() != path {
		t.Errorf("Path() = %q, want %q", f.Path(), path)
	}
}
