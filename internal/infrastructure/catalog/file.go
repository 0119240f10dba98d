package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/pouchpalace/backend/internal/domain"
)

// FileRepository reads the catalog from a JSON file. The file is never written.
type FileRepository struct {
	path string
}

// NewFileRepository creates a catalog repository over path
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Path returns the catalog file path
func (r *FileRepository) Path() string {
	return r.path
}

// LoadCatalog reads and decodes the catalog file. Accepted shapes are a bare
// array of products or an object with a "products" array.
func (r *FileRepository) LoadCatalog(ctx context.Context) (*domain.Catalog, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	products, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCatalogUnavailable, r.path, err)
	}

	return &domain.Catalog{Products: products}, nil
}

// Decode parses catalog JSON in either accepted shape
func Decode(data []byte) ([]domain.ProductRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty catalog document")
	}

	var raws []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("failed to decode product array: %w", err)
		}
	case '{':
		var wrapper struct {
			Products []json.RawMessage `json:"products"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode catalog object: %w", err)
		}
		if wrapper.Products == nil {
			return nil, errors.New(`catalog object has no "products" array`)
		}
		raws = wrapper.Products
	default:
		return nil, errors.New("catalog must be a JSON array or object")
	}

	products := make([]domain.ProductRecord, 0, len(raws))
	for i, raw := range raws {
		var product domain.ProductRecord
		if err := json.Unmarshal(raw, &product); err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		fields, err := decodeRaw(raw)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		product.Raw = fields
		products = append(products, product)
	}

	return products, nil
}

// decodeRaw decodes one product as a field map, keeping numbers as
// json.Number so large ids and prices pass through unchanged
func decodeRaw(data []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}
