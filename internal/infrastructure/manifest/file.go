package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pouchpalace/backend/internal/domain"
)

// FileStore keeps the image manifest in a JSON file
type FileStore struct {
	path string
}

// NewFileStore creates a manifest store over path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the manifest file path
func (s *FileStore) Path() string {
	return s.path
}

// LoadManifest reads the manifest file. A missing or malformed file is
// reported as ErrManifestUnavailable; callers decide whether to degrade.
func (s *FileStore) LoadManifest(ctx context.Context) (*domain.Manifest, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrManifestUnavailable, err)
	}

	var m domain.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrManifestUnavailable, s.path, err)
	}
	if m.Products == nil {
		m.Products = make(domain.ImageTable)
	}

	return &m, nil
}

// SaveManifest writes the full manifest, replacing the file atomically
func (s *FileStore) SaveManifest(ctx context.Context, m *domain.Manifest) error {
	if m == nil {
		return fmt.Errorf("%w: nil manifest", domain.ErrInvalidRequest)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace manifest: %w", err)
	}

	return nil
}
