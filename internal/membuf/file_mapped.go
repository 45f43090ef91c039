package membuf

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// pageSize is the minimum file size a FileMapped backend will ever
// truncate to, matching the host's page granularity.
const pageSize = 4096

// FileMapped is a Backend that pages a disk file and reinterprets it
// as the record array. The header at byte 0 plus the record bytes
// after it *is* the on-disk format: there is no separate serialization
// step.
type FileMapped struct {
	mu     sync.RWMutex
	file   *os.File
	data   []byte // current mmap'd region, len == capacity in bytes
	length int    // logical length in bytes, <= len(data)
	path   string
}

// OpenFileMapped opens (creating if needed) the file at path and maps
// it. The file is truncated up to at least one page if smaller.
func OpenFileMapped(path string) (*FileMapped, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("doublets: membuf.OpenFileMapped: create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open file: %v", ErrAllocFailed, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: stat file: %v", ErrAllocFailed, err)
	}

	size := stat.Size()
	if size < pageSize {
		size = pageSize
		if err := file.Truncate(size); err != nil {
			file.Close()
			return nil, fmt.Errorf("%w: truncate file: %v", ErrAllocFailed, err)
		}
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: mmap: %v", ErrAllocFailed, err)
	}

	return &FileMapped{
		file:   file,
		data:   data,
		length: int(size),
		path:   path,
	}, nil
}

// Bytes returns the current logical view of the mapped region.
func (f *FileMapped) Bytes() []byte {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.length == 0 {
		return nil
	}
	return f.data[:f.length]
}

// Grow extends the file and remaps it, relying on the host OS's
// truncate-then-mmap zero-fill-on-grow semantics for the newly
// visible region.
func (f *FileMapped) Grow(additionalBytes int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if additionalBytes <= 0 {
		return nil
	}
	if err := overflowCheck(f.length, additionalBytes); err != nil {
		return err
	}

	newLength := f.length + additionalBytes
	newCapacity := newLength
	if newCapacity < pageSize {
		newCapacity = pageSize
	}

	if newCapacity > len(f.data) {
		if err := f.remap(newCapacity); err != nil {
			return err
		}
	}

	f.length = newLength
	return nil
}

// Shrink reduces the logical length by byBytes, then truncates the
// file and remaps it at the new length (never below one page).
func (f *FileMapped) Shrink(byBytes int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if byBytes <= 0 {
		return nil
	}
	if byBytes > f.length {
		return fmt.Errorf("doublets: membuf.FileMapped.Shrink: shrink of %d exceeds length %d", byBytes, f.length)
	}

	newLength := f.length - byBytes
	newCapacity := newLength
	if newCapacity < pageSize {
		newCapacity = pageSize
	}
	if newCapacity < len(f.data) {
		if err := f.remap(newCapacity); err != nil {
			return err
		}
	}

	f.length = newLength
	return nil
}

// remap unmaps the current region, truncates the file to newCapacity,
// and remaps at the new size. Must be called with mu held.
func (f *FileMapped) remap(newCapacity int) error {
	if f.data != nil {
		if err := unix.Munmap(f.data); err != nil {
			return fmt.Errorf("%w: munmap: %v", ErrAllocFailed, err)
		}
		f.data = nil
	}

	if err := f.file.Truncate(int64(newCapacity)); err != nil {
		return fmt.Errorf("%w: truncate: %v", ErrAllocFailed, err)
	}

	data, err := unix.Mmap(int(f.file.Fd()), 0, newCapacity, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("%w: remap: %v", ErrAllocFailed, err)
	}

	f.data = data
	return nil
}

// Sync flushes the mapped region to disk via msync.
func (f *FileMapped) Sync() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.data == nil {
		return nil
	}
	return unix.Msync(f.data, unix.MS_SYNC)
}

// Close flushes and unmaps the file, releasing the file handle. The
// header and records remain on disk for a later OpenFileMapped.
func (f *FileMapped) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var firstErr error
	if f.data != nil {
		if err := unix.Msync(f.data, unix.MS_SYNC); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := unix.Munmap(f.data); err != nil && firstErr == nil {
			firstErr = err
		}
		f.data = nil
	}
	if err := f.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Path returns the backing file path.
func (f *FileMapped) Path() string {
	return f.path
}
