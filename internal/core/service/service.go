package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/view"
	"golang.org/x/sync/errgroup"
)

var _ port.CatalogReader = (*Service)(nil)
var _ port.CatalogWriter = (*Service)(nil)

const DefaultFeaturedLimit = 8

type Service struct {
	store         port.DocumentStore
	productEvents port.ProductEventsProducer
	blogEvents    port.BlogEventsProducer
	featuredLimit int
	now           func() time.Time
}

type Opt func(*Service)

// ProductEventsOpt enables product events. Without it no event is sent.
func ProductEventsOpt(p port.ProductEventsProducer) Opt {
	return func(s *Service) { s.productEvents = p }
}

// BlogEventsOpt enables blog events. Without it no event is sent.
func BlogEventsOpt(p port.BlogEventsProducer) Opt {
	return func(s *Service) { s.blogEvents = p }
}

func FeaturedLimitOpt(n int) Opt {
	return func(s *Service) {
		if n > 0 {
			s.featuredLimit = n
		}
	}
}

func ClockOpt(now func() time.Time) Opt {
	return func(s *Service) { s.now = now }
}

func New(store port.DocumentStore, opts ...Opt) Service {
	s := Service{
		store:         store,
		featuredLimit: DefaultFeaturedLimit,
		now:           time.Now,
	}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// ListProducts returns every product. A store failure is logged and
// reads as an empty catalog.
func (s Service) ListProducts(ctx context.Context) []domain.Product {
	const op = "Service.ListProducts"

	docs, err := s.store.ListAll(ctx, domain.ProductsCollection)
	if err != nil {
		degraded(op, err)
		return []domain.Product{}
	}
	return domain.NormalizeProducts(docs)
}

// FeaturedProducts returns the first featured-limit products, or all of
// them when showAll is set, and the total number of products.
func (s Service) FeaturedProducts(
	ctx context.Context, showAll bool,
) ([]domain.Product, int) {
	ps := s.ListProducts(ctx)
	total := len(ps)
	if !showAll && total > s.featuredLimit {
		ps = ps[:s.featuredLimit]
	}
	return ps, total
}

// GetProduct returns [domain.ErrNotFound] for an unknown id and
// [domain.ErrBackendUnavailable] when the store cannot be reached.
func (s Service) GetProduct(
	ctx context.Context, id string,
) (domain.Product, error) {
	const op = "Service.GetProduct"
	log := slog.With("op", op, "id", id)

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	doc, err := s.store.GetByID(ctx, domain.ProductsCollection, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Info("product not found")
		} else {
			log.Error("failed to get product", "err", err)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return domain.NormalizeProduct(doc), nil
}

// ProductsByCategory returns the products whose category equals the
// given name exactly. A store failure reads as no products.
func (s Service) ProductsByCategory(
	ctx context.Context, category string,
) []domain.Product {
	const op = "Service.ProductsByCategory"

	if category == "" {
		return []domain.Product{}
	}

	docs, err := s.store.QueryByField(
		ctx, domain.ProductsCollection, domain.ProductCategory, category,
	)
	if err != nil {
		degraded(op, err)
		return []domain.Product{}
	}
	return domain.NormalizeProducts(docs)
}

func (s Service) CategorySummaries(
	ctx context.Context,
) []domain.CategorySummary {
	return view.CategoryCounts(domain.Categories, s.ListProducts(ctx))
}

func (s Service) ListBlogPosts(ctx context.Context) []domain.BlogPost {
	const op = "Service.ListBlogPosts"

	docs, err := s.store.ListAll(ctx, domain.BlogsCollection)
	if err != nil {
		degraded(op, err)
		return []domain.BlogPost{}
	}
	return domain.NormalizeBlogPosts(docs, s.now())
}

// Home fetches products and blog posts concurrently. Each part degrades
// to empty on its own.
func (s Service) Home(ctx context.Context) domain.HomePage {
	var (
		products []domain.Product
		posts    []domain.BlogPost
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products = s.ListProducts(gCtx)
		return nil
	})
	g.Go(func() error {
		posts = s.ListBlogPosts(gCtx)
		return nil
	})
	_ = g.Wait()

	featured := products
	if len(featured) > s.featuredLimit {
		featured = featured[:s.featuredLimit]
	}

	return domain.HomePage{
		Products:   products,
		Featured:   featured,
		BlogPosts:  posts,
		Categories: view.CategoryCounts(domain.Categories, products),
	}
}

// CreateProduct writes the draft and returns the assigned id. The
// product event is sent after the write; its failure is only logged.
func (s Service) CreateProduct(
	ctx context.Context, d domain.ProductDraft,
) (string, error) {
	const op = "Service.CreateProduct"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	record := d.Record()
	id, err := s.store.Create(ctx, domain.ProductsCollection, record)
	if err != nil {
		log.Error("failed to create product", "err", err)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	log.Info("product created", "id", id, "category", d.Category)

	if s.productEvents != nil {
		p := domain.NormalizeProduct(s.stored(ctx, domain.ProductsCollection, id, record))
		if err := s.productEvents.ProduceProductCreated(ctx, p); err != nil {
			log.Error("failed to send product event", "id", id, "err", err)
		}
	}
	return id, nil
}

// CreateBlogPost publishes the draft now and returns the assigned id.
func (s Service) CreateBlogPost(
	ctx context.Context, d domain.BlogPostDraft,
) (string, error) {
	const op = "Service.CreateBlogPost"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	publishedAt := s.now()
	record := d.Record(publishedAt)
	id, err := s.store.Create(ctx, domain.BlogsCollection, record)
	if err != nil {
		log.Error("failed to create blog post", "err", err)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	log.Info("blog post created", "id", id)

	if s.blogEvents != nil {
		doc := s.stored(ctx, domain.BlogsCollection, id, record)
		b := domain.NormalizeBlogPost(doc, publishedAt)
		if err := s.blogEvents.ProduceBlogPostPublished(ctx, b); err != nil {
			log.Error("failed to send blog event", "id", id, "err", err)
		}
	}
	return id, nil
}

// stored reads a just-created document back so events carry the
// store's createdAt. On a failed read it falls back to the written
// record stamped with the service clock.
func (s Service) stored(
	ctx context.Context, coll, id string, record map[string]any,
) domain.Document {
	doc, err := s.store.GetByID(ctx, coll, id)
	if err == nil {
		return doc
	}
	slog.Warn("failed to read created document, using local time",
		"op", "Service.stored", "collection", coll, "id", id, "err", err)
	record[domain.CreatedAtField] = s.now()
	return domain.Document{ID: id, Fields: record}
}

func degraded(op string, err error) {
	slog.Error("store read failed, serving empty result", "op", op, "err", err)
}
