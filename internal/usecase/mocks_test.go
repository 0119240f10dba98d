package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pouchpalace/backend/internal/domain"
)

// MockImageStore is an in-memory domain.ImageStore
type MockImageStore struct {
	files      map[string]bool
	exclude    []string // lowercase name prefixes
	listError  error
	renameErrs map[string]error // keyed by source filename
	renames    int
}

func NewMockImageStore(files ...string) *MockImageStore {
	m := &MockImageStore{
		files:      make(map[string]bool),
		renameErrs: make(map[string]error),
	}
	for _, f := range files {
		m.files[f] = true
	}
	return m
}

func (m *MockImageStore) ListImages(ctx context.Context) ([]string, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	names := make([]string, 0, len(m.files))
	for f := range m.files {
		if !m.Excluded(f) {
			names = append(names, f)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockImageStore) RenameImage(ctx context.Context, from, to string) error {
	if err, ok := m.renameErrs[from]; ok {
		return err
	}
	if !m.files[from] {
		return fmt.Errorf("no such file: %s", from)
	}
	if m.files[to] {
		return fmt.Errorf("%w: %s", domain.ErrRenameTargetExists, to)
	}
	delete(m.files, from)
	m.files[to] = true
	m.renames++
	return nil
}

func (m *MockImageStore) Excluded(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range m.exclude {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// MockManifestRepository is an in-memory domain.ManifestRepository
type MockManifestRepository struct {
	manifest  *domain.Manifest
	loadError error
	saveError error
	saves     int
}

func NewMockManifestRepository(m *domain.Manifest) *MockManifestRepository {
	return &MockManifestRepository{manifest: m}
}

func (m *MockManifestRepository) LoadManifest(ctx context.Context) (*domain.Manifest, error) {
	if m.loadError != nil {
		return nil, m.loadError
	}
	if m.manifest == nil {
		return nil, fmt.Errorf("%w: not found", domain.ErrManifestUnavailable)
	}
	return cloneManifest(m.manifest), nil
}

func (m *MockManifestRepository) SaveManifest(ctx context.Context, manifest *domain.Manifest) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.saves++
	m.manifest = cloneManifest(manifest)
	return nil
}

// MockCatalogRepository returns a fixed catalog
type MockCatalogRepository struct {
	catalog   *domain.Catalog
	loadError error
}

func (m *MockCatalogRepository) LoadCatalog(ctx context.Context) (*domain.Catalog, error) {
	if m.loadError != nil {
		return nil, m.loadError
	}
	return m.catalog, nil
}

// MockDocumentStore records upserted documents
type MockDocumentStore struct {
	docs   map[string]domain.Document // collection/id
	failOn map[string]bool
}

func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		docs:   make(map[string]domain.Document),
		failOn: make(map[string]bool),
	}
}

func (m *MockDocumentStore) UpsertDocument(ctx context.Context, collection string, doc domain.Document) error {
	if m.failOn[doc.ID] {
		return errors.New("write rejected")
	}
	m.docs[collection+"/"+doc.ID] = doc
	return nil
}

func catalogOf(products ...domain.ProductRecord) *domain.Catalog {
	return &domain.Catalog{Products: products}
}

func filenames(entries []domain.ImageEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Filename)
	}
	return names
}
