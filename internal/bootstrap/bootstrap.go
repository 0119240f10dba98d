// Package bootstrap wires configuration into the services shared by the
// CLI and the admin server.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pouchpalace/backend/config"
	"github.com/pouchpalace/backend/internal/domain"
	"github.com/pouchpalace/backend/internal/infrastructure/catalog"
	"github.com/pouchpalace/backend/internal/infrastructure/docstore"
	"github.com/pouchpalace/backend/internal/infrastructure/firestore"
	"github.com/pouchpalace/backend/internal/infrastructure/imagedir"
	"github.com/pouchpalace/backend/internal/infrastructure/manifest"
	"github.com/pouchpalace/backend/internal/usecase"
)

// NewReconcileService builds the reconcile service over the configured files
func NewReconcileService(cfg *config.Config, logger *zap.Logger) *usecase.ReconcileService {
	return usecase.NewReconcileService(
		catalog.NewFileRepository(cfg.Catalog.Path),
		manifest.NewFileStore(cfg.Manifest.Path),
		imagedir.NewDirectory(cfg.Images.Dir, cfg.Images.ExcludePrefixes),
		logger.Named("reconcile"),
		usecase.ReconcileServiceConfig{
			ImageURLPrefix: cfg.Images.URLPrefix,
		},
	)
}

// NewImportService builds the catalog import service over the configured
// document store. The returned close function releases the store.
func NewImportService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*usecase.ImportService, func() error, error) {
	store, closeFn, err := NewDocumentStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	svc := usecase.NewImportService(catalog.NewFileRepository(cfg.Catalog.Path), store, logger.Named("import"))
	return svc, closeFn, nil
}

// NewDocumentStore opens the document store selected by docstore.type
func NewDocumentStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.DocumentStore, func() error, error) {
	switch cfg.DocStore.Type {
	case "firestore":
		client, err := firestore.NewClient(ctx, firestore.Config{
			ProjectID:         cfg.Firestore.ProjectID,
			DatabaseID:        cfg.Firestore.DatabaseID,
			CredentialsFile:   cfg.Firestore.CredentialsFile,
			RequestsPerSecond: cfg.RateLimit.Firestore,
		}, logger.Named("firestore"))
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	case "sqlite", "":
		store, err := docstore.NewSQLiteStore(cfg.DocStore.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown docstore type %q", cfg.DocStore.Type)
	}
}
