// Package publish uploads finished scoring artifacts (reports, heatmaps,
// traces) to a local directory, S3, or Google Cloud Storage.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store abstracts blob storage for run artifacts.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
}

// LocalStore implements Store using the local filesystem.
// Useful for development and testing.
type LocalStore struct {
	BaseDir string
}

// NewLocalStore creates a LocalStore rooted at the given directory.
func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{BaseDir: baseDir}
}

func (s *LocalStore) path(key string) (string, error) {
	p := filepath.Join(s.BaseDir, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.BaseDir, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("key %q escapes %s", key, s.BaseDir)
	}
	return p, nil
}

// Put stores an artifact. contentType is ignored on disk.
func (s *LocalStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
