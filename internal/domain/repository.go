package domain

import (
	"context"
	"time"
)

// CatalogRepository loads the product catalog. The catalog is never written.
type CatalogRepository interface {
	LoadCatalog(ctx context.Context) (*Catalog, error)
}

// ManifestRepository loads and persists the image manifest
type ManifestRepository interface {
	LoadManifest(ctx context.Context) (*Manifest, error)
	SaveManifest(ctx context.Context, manifest *Manifest) error
}

// ImageStore lists and renames product image files.
// Names are bare filenames relative to the store's directory.
// Excluded reports whether a filename is outside the product image set;
// such names are never listed.
type ImageStore interface {
	ListImages(ctx context.Context) ([]string, error)
	RenameImage(ctx context.Context, from, to string) error
	Excluded(name string) bool
}

// DocumentStore upserts keyed documents into named collections
type DocumentStore interface {
	UpsertDocument(ctx context.Context, collection string, doc Document) error
}

// ReportCache holds recent reconcile reports
type ReportCache interface {
	Get(ctx context.Context, key string) (*Report, error)
	Set(ctx context.Context, key string, report *Report, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
