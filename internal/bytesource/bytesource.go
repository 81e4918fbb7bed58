// Package bytesource exposes a whole input file as one read-only []byte,
// memory-mapped where the platform allows it.
//
// Ownership: the Source owns the mapping. Slices returned by Bytes, and any
// sub-slices of them, are views into it and must not be used after Close.
package bytesource

import (
	"fmt"
	"math"
	"os"
	"sync"
)

// Error is returned for any failure to open, stat, or map the input.
type Error struct {
	Op   string // "open", "stat", "mmap", ...
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("bytesource: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Source is a read-only view of a file's bytes.
type Source struct {
	path string
	data []byte

	once    sync.Once
	release func([]byte) error
	err     error
}

// Open maps the file at path. An empty file yields a valid, zero-length
// Source.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}
	// The mapping outlives the descriptor.
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, &Error{Op: "stat", Path: path, Err: err}
	}
	if st.IsDir() {
		return nil, &Error{Op: "open", Path: path, Err: fmt.Errorf("is a directory")}
	}
	size := st.Size()
	if size == 0 {
		return &Source{path: path}, nil
	}
	if size < 0 || size > math.MaxInt {
		return nil, &Error{Op: "mmap", Path: path, Err: fmt.Errorf("size %d does not fit in memory", size)}
	}

	data, release, err := mapFile(f, int(size))
	if err != nil {
		return nil, &Error{Op: "mmap", Path: path, Err: err}
	}
	return &Source{path: path, data: data, release: release}, nil
}

// FromBytes wraps an in-memory buffer. Close is a no-op.
func FromBytes(path string, b []byte) *Source {
	return &Source{path: path, data: b}
}

// Path returns the file the source was opened from.
func (s *Source) Path() string { return s.path }

// Bytes returns the whole input. The slice is valid until Close.
func (s *Source) Bytes() []byte { return s.data }

// Len returns the input size in bytes.
func (s *Source) Len() int { return len(s.data) }

// Close releases the mapping. It is safe to call more than once; only the
// first call does any work and its error is returned every time.
func (s *Source) Close() error {
	s.once.Do(func() {
		data := s.data
		s.data = nil
		if s.release != nil && data != nil {
			if err := s.release(data); err != nil {
				s.err = &Error{Op: "munmap", Path: s.path, Err: err}
			}
		}
	})
	return s.err
}
