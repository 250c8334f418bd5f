// Package schema holds the Avro contracts of the catalog events and the
// registry-aware serdes that encode them.
package schema

import "time"

const ProductCreatedSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.catalog",
	"name": "ProductCreated",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "name", "type": "string"},
		{"name": "price", "type": "double"},
		{"name": "original_price", "type": ["null", "double"], "default": null},
		{"name": "images", "type": {"type": "array", "items": "string"}},
		{"name": "category", "type": "string"},
		{"name": "rating", "type": "double"},
		{"name": "description", "type": "string"},
		{"name": "approved", "type": "boolean"},
		{"name": "created_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

const BlogPostPublishedSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.catalog",
	"name": "BlogPostPublished",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "title", "type": "string"},
		{"name": "excerpt", "type": "string"},
		{"name": "author", "type": "string"},
		{"name": "published_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type (
	ProductCreatedV1 struct {
		ID            string    `avro:"id"`
		Name          string    `avro:"name"`
		Price         float64   `avro:"price"`
		OriginalPrice *float64  `avro:"original_price"`
		Images        []string  `avro:"images"`
		Category      string    `avro:"category"`
		Rating        float64   `avro:"rating"`
		Description   string    `avro:"description"`
		Approved      bool      `avro:"approved"`
		CreatedAt     time.Time `avro:"created_at"`
	}

	// BlogPostPublishedV1 leaves the post body out; consumers fetch it by
	// id.
	BlogPostPublishedV1 struct {
		ID          string    `avro:"id"`
		Title       string    `avro:"title"`
		Excerpt     string    `avro:"excerpt"`
		Author      string    `avro:"author"`
		PublishedAt time.Time `avro:"published_at"`
	}
)
