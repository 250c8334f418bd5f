// Package form validates the admin creation forms and guards them
// against overlapping submissions.
package form

import (
	"math"
	"strconv"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
)

// DefaultRating pre-fills the rating of a new product form.
const DefaultRating = "4.5"

// A ProductForm holds the raw string fields of the product form.
type ProductForm struct {
	Name          string `schema:"name" json:"name"`
	Price         string `schema:"price" json:"price"`
	OriginalPrice string `schema:"originalPrice" json:"originalPrice"`
	Images        string `schema:"images" json:"images"`
	Category      string `schema:"category" json:"category"`
	Description   string `schema:"description" json:"description"`
	Rating        string `schema:"rating" json:"rating"`
}

func NewProductForm() ProductForm {
	return ProductForm{Rating: DefaultRating}
}

// Validate checks the required fields and parses the numeric ones.
//
// An unparsable original price is dropped rather than rejected.
func (f ProductForm) Validate() (domain.ProductDraft, error) {
	var verr domain.ValidationError

	name := strings.TrimSpace(f.Name)
	if name == "" {
		verr.Add("name", "required")
	}

	var price float64
	if strings.TrimSpace(f.Price) == "" {
		verr.Add("price", "required")
	} else if v, ok := parseNumber(f.Price); ok {
		price = v
	} else {
		verr.Add("price", "must be a number")
	}

	images := SplitImages(f.Images)
	if len(images) == 0 {
		verr.Add("images", "required")
	}

	category := strings.TrimSpace(f.Category)
	if category == "" {
		verr.Add("category", "required")
	}

	var rating float64
	if strings.TrimSpace(f.Rating) != "" {
		if v, ok := parseNumber(f.Rating); ok {
			rating = v
		} else {
			verr.Add("rating", "must be a number")
		}
	}

	if err := verr.Err(); err != nil {
		return domain.ProductDraft{}, err
	}

	var originalPrice *float64
	if v, ok := parseNumber(f.OriginalPrice); ok {
		originalPrice = &v
	}

	return domain.ProductDraft{
		Name:          name,
		Price:         price,
		OriginalPrice: originalPrice,
		Images:        images,
		Category:      category,
		Description:   f.Description,
		Rating:        rating,
	}, nil
}

// SplitImages splits a newline separated block of URLs, trimming every
// entry and dropping blank ones.
func SplitImages(s string) []string {
	var urls []string
	for _, line := range strings.Split(s, "\n") {
		if u := strings.TrimSpace(line); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// A BlogForm holds the raw string fields of the blog post form.
type BlogForm struct {
	Title   string `schema:"title" json:"title"`
	Content string `schema:"content" json:"content"`
	Excerpt string `schema:"excerpt" json:"excerpt"`
	Author  string `schema:"author" json:"author"`
}

func (f BlogForm) Validate() (domain.BlogPostDraft, error) {
	var verr domain.ValidationError
	for _, field := range []struct{ name, value string }{
		{"title", f.Title},
		{"author", f.Author},
		{"excerpt", f.Excerpt},
		{"content", f.Content},
	} {
		if strings.TrimSpace(field.value) == "" {
			verr.Add(field.name, "required")
		}
	}

	if err := verr.Err(); err != nil {
		return domain.BlogPostDraft{}, err
	}

	return domain.BlogPostDraft{
		Title:   strings.TrimSpace(f.Title),
		Excerpt: f.Excerpt,
		Content: f.Content,
		Author:  strings.TrimSpace(f.Author),
	}, nil
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
