package schema_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeProductCreatedV1(t *testing.T) {
	const subject = "storefront.products.created-value"

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeProductCreatedV1(t.Context())
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeProductCreatedV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("EmptySubject", func(t *testing.T) {
		_, err := schema.NewSerdeProductCreatedV1(
			t.Context(),
			schema.SubjectOpt(""),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		assert.Error(t, err)
	})

	t.Run("RegistryFailure", func(t *testing.T) {
		errRegistry := errors.New("registry unavailable")
		si := new(MockSchemaIdentifier)
		si.On("DetermineID", t.Context(), subject, schema.ProductCreatedSchemaTextV1).
			Return(0, errRegistry)

		_, err := schema.NewSerdeProductCreatedV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(si),
		)
		assert.ErrorIs(t, err, errRegistry)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		si := new(MockSchemaIdentifier)
		si.On("DetermineID", t.Context(), subject, schema.ProductCreatedSchemaTextV1).
			Return(7, nil)

		serde, err := schema.NewSerdeProductCreatedV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(si),
		)
		require.NoError(t, err)

		v1 := schema.ProductCreatedV1{
			ID:        "p1",
			Name:      "Lamp",
			Price:     1500,
			Images:    []string{"a.jpg"},
			Category:  "Home & Living",
			Approved:  true,
			CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}

		data, err := serde.Encode(v1)
		require.NoError(t, err)
		require.Greater(t, len(data), 5)
		assert.Equal(t, byte(0), data[0], "registry wire format magic byte")

		var v2 schema.ProductCreatedV1
		require.NoError(t, serde.Decode(data, &v2))
		assert.Equal(t, v1.ID, v2.ID)
		assert.Equal(t, v1.Name, v2.Name)
		assert.Equal(t, v1.Images, v2.Images)
		assert.True(t, v1.CreatedAt.Equal(v2.CreatedAt))
	})
}

func TestSerdeBlogPostPublishedV1(t *testing.T) {
	const subject = "storefront.blog.published-value"

	si := new(MockSchemaIdentifier)
	si.On("DetermineID", t.Context(), subject, schema.BlogPostPublishedSchemaTextV1).
		Return(3, nil)

	serde, err := schema.NewSerdeBlogPostPublishedV1(
		t.Context(),
		schema.SubjectOpt(subject),
		schema.SchemaIdentifierOpt(si),
	)
	require.NoError(t, err)

	v1 := schema.BlogPostPublishedV1{ID: "b1", Title: "Hello", Author: "Admin"}
	data, err := serde.Encode(v1)
	require.NoError(t, err)

	var v2 schema.BlogPostPublishedV1
	require.NoError(t, serde.Decode(data, &v2))
	assert.Equal(t, v1.Title, v2.Title)
	si.AssertExpectations(t)
}

func TestValueSubject(t *testing.T) {
	assert.Equal(t, "storefront.products.created-value",
		schema.ValueSubject("storefront.products.created"))
}
