package httphandler

import (
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/view"
)

type (
	Product struct {
		ID              string    `json:"id"`
		Name            string    `json:"name"`
		Price           float64   `json:"price"`
		OriginalPrice   *float64  `json:"originalPrice"`
		DiscountPercent *int      `json:"discountPercent,omitempty"`
		Images          []string  `json:"images"`
		DisplayImage    string    `json:"displayImage"`
		Category        string    `json:"category"`
		Rating          float64   `json:"rating"`
		FilledStars     int       `json:"filledStars"`
		Description     string    `json:"description"`
		Approved        bool      `json:"approved"`
		CreatedAt       time.Time `json:"createdAt"`
	}

	Category struct {
		Name      string `json:"name"`
		Image     string `json:"image"`
		ItemCount int    `json:"itemCount"`
	}

	BlogPost struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Excerpt     string    `json:"excerpt"`
		Content     string    `json:"content"`
		Author      string    `json:"author"`
		Image       string    `json:"image"`
		PublishedAt time.Time `json:"publishedAt"`
	}

	HandoffLink struct {
		URL     string `json:"url"`
		Message string `json:"message"`
	}

	Created struct {
		ID string `json:"id"`
	}

	UnlockRequest struct {
		Secret string `json:"secret"`
	}

	ErrorResponse struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields,omitempty"`
	}
)

func toProduct(p domain.Product) Product {
	v := Product{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Images:        []string{},
		DisplayImage:  view.DisplayImage(p),
		Category:      p.Category,
		Rating:        p.Rating,
		FilledStars:   view.FilledStars(p.Rating),
		Description:   p.Description,
		Approved:      p.Approved,
		CreatedAt:     p.CreatedAt,
	}
	if g := view.Gallery(p); g != nil {
		v.Images = g
	}
	if pct, ok := view.DiscountPercent(p); ok {
		v.DiscountPercent = &pct
	}
	return v
}

func toProducts(ps []domain.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = toProduct(p)
	}
	return out
}

func toCategories(cs []domain.CategorySummary) []Category {
	out := make([]Category, len(cs))
	for i, c := range cs {
		out[i] = Category{Name: c.Name, Image: c.Image, ItemCount: c.ItemCount}
	}
	return out
}

func toBlogPosts(bs []domain.BlogPost) []BlogPost {
	out := make([]BlogPost, len(bs))
	for i, b := range bs {
		out[i] = BlogPost{
			ID:          b.ID,
			Title:       b.Title,
			Excerpt:     b.Excerpt,
			Content:     b.Content,
			Author:      b.Author,
			Image:       view.BlogImage(b),
			PublishedAt: b.PublishedAt,
		}
	}
	return out
}
