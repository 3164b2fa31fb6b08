// Package images decodes uploaded recipe images and stores them on disk.
package images

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned when no file exists for a key.
var ErrNotFound = errors.New("image not found")

// Storage keeps image files under one directory, addressed by a flat key
// such as "3f2b….jpg". Safe for concurrent use.
type Storage struct {
	basePath string
	mu       sync.RWMutex
}

// NewStorage creates {basePath}/{subdir}/ if needed and stores files there.
// Example: NewStorage("/data/images", "recipes") -> /data/images/recipes/.
func NewStorage(basePath, subdir string) (*Storage, error) {
	if basePath == "" {
		return nil, errors.New("base path cannot be empty")
	}
	if subdir == "" {
		return nil, errors.New("subdirectory cannot be empty")
	}

	storagePath := filepath.Join(basePath, subdir)
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return nil, fmt.Errorf("create %s directory: %w", subdir, err)
	}

	return &Storage{basePath: storagePath}, nil
}

// validKey rejects empty keys and anything that could leave the directory.
func validKey(key string) error {
	if key == "" {
		return errors.New("image key cannot be empty")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." || strings.HasPrefix(key, ".") {
		return fmt.Errorf("invalid image key %q", key)
	}
	return nil
}

// Save writes data under key, replacing any existing file.
func (s *Storage) Save(key string, data []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write image file: %w", err)
	}
	return nil
}

// Get reads the file stored under key.
func (s *Storage) Get(key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("read image file: %w", err)
	}
	return data, nil
}

// Exists reports whether a file is stored under key.
func (s *Storage) Exists(key string) bool {
	if validKey(key) != nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.path(key))
	return err == nil
}

// Delete removes the file under key. A missing file is not an error.
func (s *Storage) Delete(key string) error {
	if err := validKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}

// ETag returns a strong validator for the stored file.
func (s *Storage) ETag(key string) (string, error) {
	data, err := s.Get(key)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf(`"%x"`, sum[:16]), nil
}

func (s *Storage) path(key string) string {
	return filepath.Join(s.basePath, key)
}
