package docstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pouchpalace/backend/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_UpsertAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := domain.Document{
		ID: "cherry-6mg",
		Fields: map[string]interface{}{
			"flavor":   "Cherry",
			"strength": float64(6),
			"tags":     []interface{}{"fruit"},
		},
	}
	require.NoError(t, store.UpsertDocument(ctx, "products", doc))

	got, err := store.GetDocument(ctx, "products", "cherry-6mg")
	require.NoError(t, err)
	assert.Equal(t, doc, *got)
}

func TestSQLiteStore_UpsertReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertDocument(ctx, "products", domain.Document{ID: "a", Fields: map[string]interface{}{"stock": float64(1)}}))
	require.NoError(t, store.UpsertDocument(ctx, "products", domain.Document{ID: "a", Fields: map[string]interface{}{"stock": float64(9)}}))

	n, err := store.Count(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := store.GetDocument(ctx, "products", "a")
	require.NoError(t, err)
	assert.Equal(t, float64(9), got.Fields["stock"])
}

func TestSQLiteStore_CollectionsAreSeparate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertDocument(ctx, "products", domain.Document{ID: "b", Fields: map[string]interface{}{}}))
	require.NoError(t, store.UpsertDocument(ctx, "products", domain.Document{ID: "a", Fields: map[string]interface{}{}}))
	require.NoError(t, store.UpsertDocument(ctx, "archive", domain.Document{ID: "a", Fields: map[string]interface{}{}}))

	docs, err := store.ListDocuments(ctx, "products")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)

	n, err := store.Count(ctx, "archive")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteStore_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetDocument(context.Background(), "products", "missing")

	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestSQLiteStore_RequiresKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.UpsertDocument(ctx, "", domain.Document{ID: "a"}), domain.ErrInvalidRequest)
	assert.ErrorIs(t, store.UpsertDocument(ctx, "products", domain.Document{}), domain.ErrInvalidRequest)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.UpsertDocument(ctx, "products", domain.Document{ID: "a", Fields: map[string]interface{}{"x": "y"}}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, path, reopened.Path())

	got, err := reopened.GetDocument(ctx, "products", "a")
	require.NoError(t, err)
	assert.Equal(t, "y", got.Fields["x"])
}
