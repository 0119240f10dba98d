package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pouchpalace/backend/internal/domain"
)

// FixResult is the outcome of one fixer pass
type FixResult struct {
	Applied         []domain.Rename
	Failed          []domain.RenameFailure
	Warnings        []string
	ManifestUpdated bool
}

// manifestUpdate is a queued write into one manifest table
type manifestUpdate struct {
	table    domain.ManifestTable
	flavor   string
	strength string
	path     string
}

// Fixer renames inconsistent images to their proposed names and keeps the
// manifest pointing at them. It is best-effort: a failed rename is recorded
// and the batch continues.
type Fixer struct {
	images         domain.ImageStore
	manifests      domain.ManifestRepository
	imageURLPrefix string
	logger         *zap.Logger
}

// NewFixer creates a fixer over the given image store and manifest repository
func NewFixer(images domain.ImageStore, manifests domain.ManifestRepository, imageURLPrefix string, logger *zap.Logger) *Fixer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fixer{
		images:         images,
		manifests:      manifests,
		imageURLPrefix: imageURLPrefix,
		logger:         logger,
	}
}

// Apply renames every inconsistent entry that has a proposed name, queues the
// matching manifest updates, and persists the whole manifest once at the end
// if anything was queued. The returned error is non-nil only when renames
// were applied but the manifest could not be saved; the result is still valid.
func (f *Fixer) Apply(ctx context.Context, entries []domain.ImageEntry, manifest *domain.Manifest) (*FixResult, error) {
	result := &FixResult{
		Applied: []domain.Rename{},
		Failed:  []domain.RenameFailure{},
	}
	if manifest == nil {
		manifest = domain.NewManifest()
	}

	var updates []manifestUpdate
	for _, entry := range entries {
		if entry.ProposedName == "" || entry.Reference == nil {
			continue
		}
		ref := entry.Reference

		if err := f.images.RenameImage(ctx, entry.Filename, entry.ProposedName); err != nil {
			f.logger.Warn("rename failed",
				zap.String("from", entry.Filename),
				zap.String("to", entry.ProposedName),
				zap.Error(err))
			result.Failed = append(result.Failed, domain.RenameFailure{
				From:  entry.Filename,
				To:    entry.ProposedName,
				Error: err.Error(),
			})
			continue
		}

		table, ambiguous := selectTable(manifest, ref.ExpectedPath)
		if ambiguous {
			msg := fmt.Sprintf("path %q appears in both manifest tables; updating %s", ref.ExpectedPath, table)
			f.logger.Warn("ambiguous manifest path", zap.String("path", ref.ExpectedPath), zap.String("table", string(table)))
			result.Warnings = append(result.Warnings, msg)
		}

		newPath := joinImagePath(ref.ExpectedPath, entry.ProposedName, f.imageURLPrefix)
		updates = append(updates, manifestUpdate{
			table:    table,
			flavor:   Normalize(ref.Flavor),
			strength: ref.Strength,
			path:     newPath,
		})

		f.logger.Info("renamed image",
			zap.String("from", entry.Filename),
			zap.String("to", entry.ProposedName),
			zap.String("table", string(table)))
		result.Applied = append(result.Applied, domain.Rename{
			From:  entry.Filename,
			To:    entry.ProposedName,
			Table: table,
			Path:  newPath,
		})
	}

	if len(updates) == 0 {
		return result, nil
	}

	for _, u := range updates {
		manifest.Table(u.table).Set(u.flavor, u.strength, u.path)
	}

	if err := f.manifests.SaveManifest(ctx, manifest); err != nil {
		f.logger.Error("manifest persist failed after renames",
			zap.Int("renamed", len(result.Applied)),
			zap.Error(err))
		return result, fmt.Errorf("%w: %v", domain.ErrManifestPersist, err)
	}
	result.ManifestUpdated = true

	return result, nil
}

// selectTable picks the manifest table an old image path belongs to, by exact
// path string. The alternate table is checked first; ambiguous is true when
// the same path is also present in the main table.
func selectTable(manifest *domain.Manifest, oldPath string) (table domain.ManifestTable, ambiguous bool) {
	inAlternate := manifest.AlternateImages.HasPath(oldPath)
	inMain := manifest.Products.HasPath(oldPath)
	if inAlternate {
		return domain.TableAlternate, inMain
	}
	return domain.TableMain, false
}
