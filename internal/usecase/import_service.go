package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pouchpalace/backend/internal/domain"
)

// IDFunc derives the document id of a product record. An empty id skips the record.
type IDFunc func(domain.ProductRecord) string

// ProductKeyID keys a record by its flavor/strength identity key
func ProductKeyID(p domain.ProductRecord) string {
	if strings.TrimSpace(p.Flavor) == "" {
		return ""
	}
	return ProductKey(p.Flavor, StrengthLabel(p.Strength))
}

// RecordID keys a record by its own id field
func RecordID(p domain.ProductRecord) string {
	return strings.TrimSpace(p.ID)
}

// IDFuncByName resolves the id strategy named on the command line or in a request
func IDFuncByName(name string) (IDFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "key":
		return ProductKeyID, nil
	case "id":
		return RecordID, nil
	default:
		return nil, fmt.Errorf("%w: unknown id field %q (use 'key' or 'id')", domain.ErrInvalidRequest, name)
	}
}

// ImportFailure is one record that could not be written
type ImportFailure struct {
	ID    string `json:"id" yaml:"id"`
	Error string `json:"error" yaml:"error"`
}

// ImportResult is the outcome of a bulk upsert
type ImportResult struct {
	Collection string          `json:"collection" yaml:"collection"`
	Written    int             `json:"written" yaml:"written"`
	Skipped    int             `json:"skipped" yaml:"skipped"`
	Failures   []ImportFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// ImportService pushes catalog records into a keyed document store
type ImportService struct {
	catalog domain.CatalogRepository
	store   domain.DocumentStore
	logger  *zap.Logger
}

// NewImportService creates a new import service
func NewImportService(catalog domain.CatalogRepository, store domain.DocumentStore, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{
		catalog: catalog,
		store:   store,
		logger:  logger,
	}
}

// ImportCatalog loads the catalog and upserts every record into collection.
// Unlike a reconcile run, an unreadable catalog is an error here.
func (s *ImportService) ImportCatalog(ctx context.Context, collection string, idFunc IDFunc) (*ImportResult, error) {
	catalog, err := s.catalog.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, catalog.Products, idFunc, collection)
}

// Import upserts records into collection keyed by idFunc. Per-record
// failures are collected and do not stop the batch; a cancelled context does.
func (s *ImportService) Import(ctx context.Context, records []domain.ProductRecord, idFunc IDFunc, collection string) (*ImportResult, error) {
	collection = strings.TrimSpace(collection)
	if collection == "" {
		return nil, fmt.Errorf("%w: collection is required", domain.ErrInvalidRequest)
	}
	if idFunc == nil {
		idFunc = ProductKeyID
	}

	result := &ImportResult{Collection: collection}
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		id := idFunc(record)
		if id == "" {
			result.Skipped++
			continue
		}

		fields, err := documentFields(record)
		if err == nil {
			err = s.store.UpsertDocument(ctx, collection, domain.Document{ID: id, Fields: fields})
		}
		if err != nil {
			s.logger.Warn("upsert failed", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
			result.Failures = append(result.Failures, ImportFailure{ID: id, Error: err.Error()})
			continue
		}
		result.Written++
	}

	s.logger.Info("import complete",
		zap.String("collection", collection),
		zap.Int("written", result.Written),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", len(result.Failures)))

	return result, nil
}

// documentFields returns the record as a field map, preferring the raw source
// document so fields the catalog carries beyond ProductRecord survive
func documentFields(record domain.ProductRecord) (map[string]interface{}, error) {
	if record.Raw != nil {
		return record.Raw, nil
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
