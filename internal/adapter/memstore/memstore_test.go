package memstore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/adapter/memstore"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestDocumentStore(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	newStore := func() *memstore.DocumentStore {
		return memstore.NewDocumentStore(
			memstore.ClockOpt(func() time.Time { return now }),
			memstore.IDGeneratorOpt(sequentialIDs()),
		)
	}

	t.Run("EmptyCollection", func(t *testing.T) {
		s := newStore()

		docs, err := s.ListAll(t.Context(), domain.ProductsCollection)
		require.NoError(t, err)
		assert.Empty(t, docs)

		docs, err = s.QueryByField(t.Context(), domain.ProductsCollection, "category", "Sports")
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("CreateStampsCreatedAt", func(t *testing.T) {
		s := newStore()

		id, err := s.Create(t.Context(), domain.ProductsCollection, map[string]any{
			"name":      "Lamp",
			"createdAt": "client supplied",
		})
		require.NoError(t, err)
		assert.Equal(t, "id-1", id)

		doc, err := s.GetByID(t.Context(), domain.ProductsCollection, id)
		require.NoError(t, err)
		assert.Equal(t, "Lamp", doc.Fields["name"])
		assert.Equal(t, now, doc.Fields["createdAt"])
	})

	t.Run("GetByIDNotFound", func(t *testing.T) {
		s := newStore()
		_, err := s.Create(t.Context(), domain.ProductsCollection, map[string]any{})
		require.NoError(t, err)

		_, err = s.GetByID(t.Context(), domain.ProductsCollection, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = s.GetByID(t.Context(), domain.BlogsCollection, "id-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ListAllKeepsInsertionOrder", func(t *testing.T) {
		s := newStore()
		for _, name := range []string{"a", "b", "c"} {
			_, err := s.Create(t.Context(), domain.BlogsCollection, map[string]any{"title": name})
			require.NoError(t, err)
		}

		docs, err := s.ListAll(t.Context(), domain.BlogsCollection)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		for i, want := range []string{"a", "b", "c"} {
			assert.Equal(t, want, docs[i].Fields["title"])
		}
	})

	t.Run("QueryByFieldExactMatch", func(t *testing.T) {
		s := newStore()
		for _, c := range []string{"Fashion", "Sports", "Fashion", "fashion"} {
			_, err := s.Create(t.Context(), domain.ProductsCollection, map[string]any{"category": c})
			require.NoError(t, err)
		}

		docs, err := s.QueryByField(t.Context(), domain.ProductsCollection, "category", "Fashion")
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "id-1", docs[0].ID)
		assert.Equal(t, "id-3", docs[1].ID)
	})

	t.Run("ReturnedDocumentsAreCopies", func(t *testing.T) {
		s := newStore()
		images := []any{"a.jpg"}
		id, err := s.Create(t.Context(), domain.ProductsCollection, map[string]any{"images": images})
		require.NoError(t, err)
		images[0] = "mutated"

		doc, err := s.GetByID(t.Context(), domain.ProductsCollection, id)
		require.NoError(t, err)
		doc.Fields["images"].([]any)[0] = "mutated again"

		doc, err = s.GetByID(t.Context(), domain.ProductsCollection, id)
		require.NoError(t, err)
		assert.Equal(t, []any{"a.jpg"}, doc.Fields["images"])
	})

	t.Run("CanceledContext", func(t *testing.T) {
		s := newStore()
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := s.ListAll(ctx, domain.ProductsCollection)
		assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
		assert.ErrorIs(t, err, context.Canceled)

		_, err = s.Create(ctx, domain.ProductsCollection, nil)
		assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
	})
}

func TestSessionStore(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s := memstore.NewSessionStore(time.Hour, clock)

	_, ok, err := s.Get(t.Context(), "s1", "adminAccess")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(t.Context(), "s1", "adminAccess", "unlocked"))

	v, ok, err := s.Get(t.Context(), "s1", "adminAccess")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "unlocked", v)

	_, ok, err = s.Get(t.Context(), "s2", "adminAccess")
	require.NoError(t, err)
	assert.False(t, ok, "sessions are isolated")

	now = now.Add(time.Hour)
	_, ok, err = s.Get(t.Context(), "s1", "adminAccess")
	require.NoError(t, err)
	assert.False(t, ok, "session expired")

	assert.ErrorIs(t, s.Set(t.Context(), "", "k", "v"), domain.ErrBackendUnavailable)
}
