package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	// ErrNotFound is returned when no record exists for a key. It is the only
	// lookup failure callers are expected to branch on.
	ErrNotFound = errors.New("record not found")
	// ErrExists is returned by Create when the key is already taken.
	ErrExists = errors.New("record already exists")
)

// Storer is a keyed record store. Values handed out are copies; mutating them
// has no effect until they are written back through Create, Update or Save.
type Storer[T ValidatingSpec] interface {
	// Get returns the record for id or ErrNotFound.
	Get(ctx context.Context, id string) (T, error)
	// Create stores v under id, failing with ErrExists if id is in use.
	Create(ctx context.Context, id string, v T) error
	// Update atomically loads the record, applies fn and writes it back.
	// An error from fn aborts the write and is returned as is.
	Update(ctx context.Context, id string, fn func(T) error) (T, error)
	// Save unconditionally writes v under id.
	Save(ctx context.Context, id string, v T) error
}

// FileStore keeps one JSON asset file per record in a directory and serves
// reads from an in-memory copy of the encoded assets.
type FileStore[T ValidatingSpec] struct {
	path    string
	records map[string][]byte

	mu sync.RWMutex
}

func NewFileStore[T ValidatingSpec](path string) (*FileStore[T], error) {
	s := &FileStore[T]{
		path:    path,
		records: map[string][]byte{},
	}

	err := s.load()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore[T]) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = map[string][]byte{}

	err := filepath.Walk(s.path, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		asset, err := decodeAsset[T](data)
		if err != nil {
			return fmt.Errorf("loading %s: %w", filepath.Base(path), err)
		}

		err = asset.Validate()
		if err != nil {
			return fmt.Errorf("validating %s: %w", filepath.Base(path), err)
		}

		// Error if the key is already in use
		if _, ok := s.records[asset.Id().String()]; ok {
			return fmt.Errorf("duplicate key detected: %s", asset.Id())
		}

		s.records[asset.Id().String()] = data
		return nil
	})

	if err != nil {
		return err
	}

	return nil
}

func (s *FileStore[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	s.mu.RLock()
	data, ok := s.records[id]
	s.mu.RUnlock()

	if !ok {
		return zero, ErrNotFound
	}

	asset, err := decodeAsset[T](data)
	if err != nil {
		return zero, fmt.Errorf("decoding %s: %w", id, err)
	}
	return asset.Spec, nil
}

func (s *FileStore[T]) Create(ctx context.Context, id string, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; ok {
		return ErrExists
	}

	return s.write(id, v)
}

func (s *FileStore[T]) Update(ctx context.Context, id string, fn func(T) error) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.records[id]
	if !ok {
		return zero, ErrNotFound
	}

	asset, err := decodeAsset[T](data)
	if err != nil {
		return zero, fmt.Errorf("decoding %s: %w", id, err)
	}

	if err := fn(asset.Spec); err != nil {
		return zero, err
	}

	if err := s.write(id, asset.Spec); err != nil {
		return zero, err
	}

	return asset.Spec, nil
}

func (s *FileStore[T]) Save(ctx context.Context, id string, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(id, v)
}

// write persists v and refreshes the cache. Callers must hold mu.
func (s *FileStore[T]) write(id string, v T) error {
	data, err := encodeAsset(id, v)
	if err != nil {
		return err
	}

	err = atomicWrite(s.filePath(id), data, 0644)
	if err != nil {
		return err
	}

	s.records[id] = data
	return nil
}

// atomicWrite writes data to a temp file then renames it to the target path.
// This prevents partial or empty files if the process is interrupted.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		err = fmt.Errorf("renaming temp file: %w", err)
		if removeErr := os.Remove(tmp); removeErr != nil {
			return errors.Join(err, fmt.Errorf("removing temp file %s: %w", tmp, removeErr))
		}
		return err
	}
	return nil
}

func (s *FileStore[T]) filePath(id string) string {
	return filepath.Join(s.path, fmt.Sprintf("%s.json", id))
}
