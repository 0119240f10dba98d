package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pouchpalace/backend/internal/domain"
)

// ReconcileServiceConfig holds configuration for the reconcile service
type ReconcileServiceConfig struct {
	// ImageURLPrefix is the public path images are served under, e.g. "/images/products/"
	ImageURLPrefix string
}

// ReconcileService runs the catalog/image reconcile pipeline:
// load catalog -> load manifest -> list directory -> index -> classify -> (fix) -> report.
type ReconcileService struct {
	catalog   domain.CatalogRepository
	manifests domain.ManifestRepository
	images    domain.ImageStore
	fixer     *Fixer
	config    ReconcileServiceConfig
	logger    *zap.Logger

	// runs are serialized; the admin API may trigger them concurrently
	mu  sync.Mutex
	now func() time.Time
}

// NewReconcileService creates a new reconcile service with dependencies
func NewReconcileService(
	catalog domain.CatalogRepository,
	manifests domain.ManifestRepository,
	images domain.ImageStore,
	logger *zap.Logger,
	config ReconcileServiceConfig,
) *ReconcileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileService{
		catalog:   catalog,
		manifests: manifests,
		images:    images,
		fixer:     NewFixer(images, manifests, config.ImageURLPrefix, logger),
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes one reconcile pass. The only error returned is a fatal one
// (the image directory could not be listed); everything else is recorded in
// the report.
func (s *ReconcileService) Run(ctx context.Context, mode domain.RunMode) (*domain.Report, error) {
	if mode != domain.ModeDryRun && mode != domain.ModeApply {
		return nil, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidRequest, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report := &domain.Report{
		RunID:     uuid.NewString(),
		Mode:      mode,
		StartedAt: s.now(),
	}
	log := s.logger.With(zap.String("run_id", report.RunID), zap.String("mode", string(mode)))

	catalog, manifest, files, err := s.loadInputs(ctx, &report.Warnings, log)
	if err != nil {
		return nil, err
	}

	index := WithoutExcluded(BuildReferenceIndex(catalog, manifest), s.images.Excluded)
	report.Classification = Classify(files, index)

	log.Info("classified images",
		zap.Int("files", len(files)),
		zap.Int("references", len(index)),
		zap.Int("consistent", len(report.Consistent)),
		zap.Int("inconsistent", len(report.Inconsistent)),
		zap.Int("missing", len(report.Missing)),
		zap.Int("unmapped", len(report.Unmapped)))

	if mode == domain.ModeApply {
		result, err := s.fixer.Apply(ctx, report.Inconsistent, manifest)
		report.Applied = result.Applied
		report.Failed = result.Failed
		report.ManifestUpdated = result.ManifestUpdated
		report.Warnings = append(report.Warnings, result.Warnings...)
		if err != nil {
			report.Errors = append(report.Errors,
				fmt.Sprintf("%v; %d renamed file(s) are not reflected in the manifest", err, len(result.Applied)))
		}
		log.Info("fix pass complete",
			zap.Int("applied", len(result.Applied)),
			zap.Int("failed", len(result.Failed)),
			zap.Bool("manifest_updated", result.ManifestUpdated))
	}

	report.FinishedAt = s.now()
	return report, nil
}

// RebuildManifest reconstructs the manifest main table from catalog and
// directory. When apply is set the result is persisted.
func (s *ReconcileService) RebuildManifest(ctx context.Context, apply bool) (*domain.ManifestRebuild, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var warnings []string
	catalog, manifest, files, err := s.loadInputs(ctx, &warnings, s.logger)
	if err != nil {
		return nil, err
	}

	rebuild := RebuildManifest(catalog, files, manifest, s.config.ImageURLPrefix)
	rebuild.Warnings = warnings

	if apply && (rebuild.Added > 0 || rebuild.Changed > 0) {
		if err := s.manifests.SaveManifest(ctx, rebuild.Manifest); err != nil {
			return rebuild, fmt.Errorf("%w: %v", domain.ErrManifestPersist, err)
		}
		rebuild.Persisted = true
	}

	s.logger.Info("manifest rebuilt",
		zap.Int("added", rebuild.Added),
		zap.Int("changed", rebuild.Changed),
		zap.Int("unmatched", len(rebuild.Unmatched)),
		zap.Bool("persisted", rebuild.Persisted))

	return rebuild, nil
}

// loadInputs loads catalog and manifest, degrading either to an empty value
// with a warning, then lists the image directory. Only a listing failure is
// returned as an error.
func (s *ReconcileService) loadInputs(ctx context.Context, warnings *[]string, log *zap.Logger) (*domain.Catalog, *domain.Manifest, []string, error) {
	catalog, err := s.catalog.LoadCatalog(ctx)
	if err != nil || catalog == nil {
		log.Warn("catalog unavailable, continuing with empty product list", zap.Error(err))
		*warnings = append(*warnings, degradedMessage("catalog", err))
		catalog = &domain.Catalog{}
	}

	manifest, err := s.manifests.LoadManifest(ctx)
	if err != nil || manifest == nil {
		log.Warn("manifest unavailable, continuing with empty manifest", zap.Error(err))
		*warnings = append(*warnings, degradedMessage("manifest", err))
		manifest = domain.NewManifest()
	}

	files, err := s.images.ListImages(ctx)
	if err != nil {
		log.Error("cannot list image directory", zap.Error(err))
		if !errors.Is(err, domain.ErrImageDirUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrImageDirUnavailable, err)
		}
		return nil, nil, nil, err
	}

	return catalog, manifest, files, nil
}

func degradedMessage(what string, err error) string {
	if err == nil {
		return fmt.Sprintf("%s empty; using default", what)
	}
	return fmt.Sprintf("%s unavailable; using default: %v", what, err)
}
