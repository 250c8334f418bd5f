// Package view computes presentation-only values derived from catalog
// entities. Nothing computed here is ever written back to the store.
package view

import (
	"math"

	"github.com/niksmo/storefront/internal/core/domain"
)

const (
	PlaceholderImage     = "https://via.placeholder.com/600x400.png?text=No+Image"
	BlogPlaceholderImage = "https://via.placeholder.com/300x200.png?text=Blog+Post"

	MaxStars = 5
)

// DiscountPercent returns round(100*(originalPrice-price)/originalPrice)
// rounded half up. ok is false when the product has no original price.
func DiscountPercent(p domain.Product) (percent int, ok bool) {
	if p.OriginalPrice == nil || *p.OriginalPrice == 0 {
		return 0, false
	}
	op := *p.OriginalPrice
	return roundHalfUp(100 * (op - p.Price) / op), true
}

// DisplayImage returns the first image candidate of the product or
// [PlaceholderImage].
func DisplayImage(p domain.Product) string {
	if cs := p.ImageCandidates(); len(cs) != 0 {
		return cs[0]
	}
	return PlaceholderImage
}

// Gallery returns every product image, the legacy image alone when the
// gallery is empty, or nil.
func Gallery(p domain.Product) []string {
	if len(p.Images) != 0 {
		return p.Images
	}
	if p.LegacyImage != "" {
		return []string{p.LegacyImage}
	}
	return nil
}

func BlogImage(b domain.BlogPost) string {
	if b.Image != "" {
		return b.Image
	}
	return BlogPlaceholderImage
}

// FilledStars returns floor(rating) clamped to [0, MaxStars].
func FilledStars(rating float64) int {
	if math.IsNaN(rating) || rating <= 0 {
		return 0
	}
	if rating >= MaxStars {
		return MaxStars
	}
	return int(math.Floor(rating))
}

// Stars reports for each of the MaxStars positions whether it is filled.
func Stars(rating float64) []bool {
	n := FilledStars(rating)
	stars := make([]bool, MaxStars)
	for i := range stars {
		stars[i] = i < n
	}
	return stars
}

// CategoryCounts counts products per fixed category by exact name match.
// Products in unknown categories are not counted anywhere.
func CategoryCounts(
	categories []domain.Category, products []domain.Product,
) []domain.CategorySummary {
	counts := make(map[string]int, len(categories))
	for _, p := range products {
		if p.Category != "" {
			counts[p.Category]++
		}
	}

	summaries := make([]domain.CategorySummary, len(categories))
	for i, c := range categories {
		summaries[i] = domain.CategorySummary{
			Category:  c,
			ItemCount: counts[c.Name],
		}
	}
	return summaries
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
