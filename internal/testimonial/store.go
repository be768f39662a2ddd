// Package testimonial persists customer testimonials in an append-only
// text file.
package testimonial

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned by Read before the first testimonial is written.
var ErrNotFound = errors.New("testimonial store does not exist")

const (
	fileMode = 0o644
	dirMode  = 0o755
)

// FileStore appends entries to a single file. Each entry is written with
// one Write call while holding the store mutex, so concurrent appends never
// interleave.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store at path. The file is created on first
// Append.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("testimonial path is required")
	}
	return &FileStore{path: filepath.Clean(path)}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Append writes entry to the end of the file.
func (s *FileStore) Append(ctx context.Context, entry string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return fmt.Errorf("creating testimonial directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return fmt.Errorf("opening testimonial file: %w", err)
	}

	if _, err := f.Write([]byte(entry)); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing testimonial: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing testimonial file: %w", err)
	}
	return nil
}

// Read returns the whole file, or ErrNotFound when nothing was written yet.
func (s *FileStore) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading testimonial file: %w", err)
	}
	return data, nil
}
