package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pouchpalace/backend/internal/domain"
)

func TestIDFuncByName(t *testing.T) {
	record := domain.ProductRecord{ID: " sku-42 ", Flavor: "Apple Mint", Strength: 16}

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "apple-mint-16mg", false},
		{"key", "apple-mint-16mg", false},
		{"KEY", "apple-mint-16mg", false},
		{"id", "sku-42", false},
		{"sku", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := IDFuncByName(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, fn(record))
		})
	}
}

func TestImportService_Import(t *testing.T) {
	store := NewMockDocumentStore()
	store.failOn["citrus-12mg"] = true
	svc := NewImportService(nil, store, nil)

	records := []domain.ProductRecord{
		{ID: "p1", Flavor: "Cherry", Strength: 6, Price: 4.5, ImageURL: "/images/products/cherry-6mg.jpg"},
		{ID: "p2", Flavor: "Citrus", Strength: 12},
		{ID: "p3", Flavor: "  ", Strength: 3},
		{ID: "p4", Flavor: "Mint", Strength: 8, Raw: map[string]interface{}{"flavor": "Mint", "strength": float64(8), "tags": []interface{}{"new"}}},
	}

	result, err := svc.Import(context.Background(), records, nil, " products ")

	require.NoError(t, err)
	assert.Equal(t, "products", result.Collection)
	assert.Equal(t, 2, result.Written)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, ImportFailure{ID: "citrus-12mg", Error: "write rejected"}, result.Failures[0])

	cherry, ok := store.docs["products/cherry-6mg"]
	require.True(t, ok)
	assert.Equal(t, "Cherry", cherry.Fields["flavor"])
	assert.Equal(t, float64(6), cherry.Fields["strength"])
	assert.Equal(t, "/images/products/cherry-6mg.jpg", cherry.Fields["imageUrl"])

	mint := store.docs["products/mint-8mg"]
	assert.Equal(t, []interface{}{"new"}, mint.Fields["tags"])
}

func TestImportService_RequiresCollection(t *testing.T) {
	svc := NewImportService(nil, NewMockDocumentStore(), nil)

	_, err := svc.Import(context.Background(), nil, nil, "")

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestImportService_StopsOnCancelledContext(t *testing.T) {
	store := NewMockDocumentStore()
	svc := NewImportService(nil, store, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.Import(ctx, []domain.ProductRecord{{Flavor: "Cherry", Strength: 6}}, nil, "products")

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Zero(t, result.Written)
	assert.Empty(t, store.docs)
}

func TestImportService_ImportCatalog(t *testing.T) {
	t.Run("uses record ids", func(t *testing.T) {
		store := NewMockDocumentStore()
		repo := &MockCatalogRepository{catalog: catalogOf(
			domain.ProductRecord{ID: "p1", Flavor: "Cherry", Strength: 6},
			domain.ProductRecord{Flavor: "Mint", Strength: 8},
		)}
		svc := NewImportService(repo, store, nil)

		result, err := svc.ImportCatalog(context.Background(), "catalog", RecordID)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Written)
		assert.Equal(t, 1, result.Skipped)
		assert.Contains(t, store.docs, "catalog/p1")
	})

	t.Run("catalog error is returned", func(t *testing.T) {
		repo := &MockCatalogRepository{loadError: errors.New("catalog unavailable: no such file")}
		svc := NewImportService(repo, NewMockDocumentStore(), nil)

		result, err := svc.ImportCatalog(context.Background(), "catalog", nil)

		assert.Nil(t, result)
		assert.Error(t, err)
	})
}
