package port

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
)

// A DocumentStore is the catalog repository boundary.
//
// GetByID returns [domain.ErrNotFound] for an unknown id. Every other
// failure wraps [domain.ErrBackendUnavailable]. Create stamps
// [domain.CreatedAtField] at write time and returns the assigned id.
type DocumentStore interface {
	ListAll(ctx context.Context, collection string) ([]domain.Document, error)
	GetByID(ctx context.Context, collection, id string) (domain.Document, error)
	QueryByField(ctx context.Context, collection, field string, value any) ([]domain.Document, error)
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
}

// A SessionStore keeps values scoped to a browser session.
type SessionStore interface {
	Get(ctx context.Context, sessionID, key string) (value string, ok bool, err error)
	Set(ctx context.Context, sessionID, key, value string) error
}

type ProductEventsProducer interface {
	ProduceProductCreated(context.Context, domain.Product) error
}

type BlogEventsProducer interface {
	ProduceBlogPostPublished(context.Context, domain.BlogPost) error
}

type CatalogReader interface {
	Home(context.Context) domain.HomePage
	ListProducts(context.Context) []domain.Product
	FeaturedProducts(ctx context.Context, showAll bool) (shown []domain.Product, total int)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	ProductsByCategory(ctx context.Context, category string) []domain.Product
	CategorySummaries(context.Context) []domain.CategorySummary
	ListBlogPosts(context.Context) []domain.BlogPost
}

type CatalogWriter interface {
	CreateProduct(context.Context, domain.ProductDraft) (string, error)
	CreateBlogPost(context.Context, domain.BlogPostDraft) (string, error)
}

type AdminGate interface {
	Unlock(ctx context.Context, sessionID, secret string) error
	Unlocked(ctx context.Context, sessionID string) bool
}
