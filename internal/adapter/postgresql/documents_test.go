package postgresql

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDSNEnv = "STOREFRONT_TEST_POSTGRES_DSN"

func TestDecodeDocument(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("PKT", 5*3600))

	t.Run("KeepsNumbersAndStampsCreatedAt", func(t *testing.T) {
		data := []byte(`{"name":"Lamp","price":1500,"images":["a.jpg"],"createdAt":"stale"}`)

		doc, err := decodeDocument("id-1", data, createdAt)
		require.NoError(t, err)
		assert.Equal(t, "id-1", doc.ID)
		assert.Equal(t, json.Number("1500"), doc.Fields["price"])
		assert.Equal(t, []any{"a.jpg"}, doc.Fields["images"])
		assert.Equal(t, createdAt.UTC(), doc.Fields[domain.CreatedAtField])

		p := domain.NormalizeProduct(doc)
		assert.Equal(t, 1500.0, p.Price)
		assert.Equal(t, createdAt.UTC(), p.CreatedAt)
	})

	t.Run("NullData", func(t *testing.T) {
		doc, err := decodeDocument("id-2", []byte("null"), createdAt)
		require.NoError(t, err)
		assert.Len(t, doc.Fields, 1)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := decodeDocument("id-3", []byte("{"), createdAt)
		assert.Error(t, err)
	})
}

func TestDocumentStoreGetByIDInvalidID(t *testing.T) {
	s := NewDocumentStore(nil)

	_, err := s.GetByID(t.Context(), domain.ProductsCollection, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestDocumentStoreIntegration runs against a live database when
// STOREFRONT_TEST_POSTGRES_DSN is set.
func TestDocumentStoreIntegration(t *testing.T) {
	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("%s is not set", testDSNEnv)
	}

	applyMigrations(t, dsn)

	db, err := Open(t.Context(), dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.ExecContext(t.Context(), "TRUNCATE documents;")
	require.NoError(t, err)

	s := NewDocumentStore(db)

	id, err := s.Create(t.Context(), domain.ProductsCollection, map[string]any{
		"name":     "Lamp",
		"price":    1500.0,
		"category": "Home & Living",
		"images":   []any{"a.jpg"},
	})
	require.NoError(t, err)

	_, err = s.Create(t.Context(), domain.ProductsCollection, map[string]any{
		"name":     "Ball",
		"category": "Sports",
	})
	require.NoError(t, err)

	doc, err := s.GetByID(t.Context(), domain.ProductsCollection, id)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", doc.Fields["name"])
	assert.IsType(t, time.Time{}, doc.Fields[domain.CreatedAtField])

	_, err = s.GetByID(t.Context(), domain.BlogsCollection, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	docs, err := s.ListAll(t.Context(), domain.ProductsCollection)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, id, docs[0].ID)

	docs, err = s.QueryByField(t.Context(), domain.ProductsCollection, "category", "Sports")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Ball", docs[0].Fields["name"])

	docs, err = s.QueryByField(t.Context(), domain.ProductsCollection, "category", "sports")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func applyMigrations(t *testing.T, dsn string) {
	t.Helper()

	url := dsn
	if i := strings.Index(url, "://"); i >= 0 {
		url = url[i+3:]
	}
	m, err := migrate.New("file://../../../migrations", "pgx5://"+url)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = m.Close() })

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}
}
