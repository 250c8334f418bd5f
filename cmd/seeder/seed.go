package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/niksmo/storefront/internal/core/form"
	"github.com/niksmo/storefront/internal/core/port"
	"gopkg.in/yaml.v3"
)

type seedProduct struct {
	Name          string   `yaml:"name"`
	Price         float64  `yaml:"price"`
	OriginalPrice *float64 `yaml:"original_price"`
	Images        []string `yaml:"images"`
	Category      string   `yaml:"category"`
	Description   string   `yaml:"description"`
	Rating        *float64 `yaml:"rating"`
}

type seedBlogPost struct {
	Title   string `yaml:"title"`
	Excerpt string `yaml:"excerpt"`
	Content string `yaml:"content"`
	Author  string `yaml:"author"`
}

type seed struct {
	Products  []seedProduct  `yaml:"products"`
	BlogPosts []seedBlogPost `yaml:"blog_posts"`
}

type report struct {
	Products  int
	BlogPosts int
}

func readSeed(r io.Reader) (seed, error) {
	var s seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return seed{}, fmt.Errorf("decode seed: %w", err)
	}
	return s, nil
}

// productForm renders the entry the way the admin form submits it, so
// seeded records pass the same validation.
func (p seedProduct) productForm() form.ProductForm {
	f := form.NewProductForm()
	f.Name = p.Name
	f.Price = formatFloat(p.Price)
	if p.OriginalPrice != nil {
		f.OriginalPrice = formatFloat(*p.OriginalPrice)
	}
	f.Images = strings.Join(p.Images, "\n")
	f.Category = p.Category
	f.Description = p.Description
	if p.Rating != nil {
		f.Rating = formatFloat(*p.Rating)
	}
	return f
}

func (b seedBlogPost) blogForm() form.BlogForm {
	return form.BlogForm{
		Title:   b.Title,
		Excerpt: b.Excerpt,
		Content: b.Content,
		Author:  b.Author,
	}
}

// apply validates every entry before writing any, then writes them in
// file order. It stops at the first failed write.
func apply(ctx context.Context, writer port.CatalogWriter, s seed) (report, error) {
	var (
		errs []error
		rep  report
	)

	products := make([]form.ProductForm, len(s.Products))
	for i, p := range s.Products {
		products[i] = p.productForm()
		if _, err := products[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("products[%d] %q: %w", i, p.Name, err))
		}
	}

	posts := make([]form.BlogForm, len(s.BlogPosts))
	for i, b := range s.BlogPosts {
		posts[i] = b.blogForm()
		if _, err := posts[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("blog_posts[%d] %q: %w", i, b.Title, err))
		}
	}

	if len(errs) != 0 {
		return rep, errors.Join(errs...)
	}

	for _, f := range products {
		draft, _ := f.Validate()
		if _, err := writer.CreateProduct(ctx, draft); err != nil {
			return rep, fmt.Errorf("create product %q: %w", draft.Name, err)
		}
		rep.Products++
	}

	for _, f := range posts {
		draft, _ := f.Validate()
		if _, err := writer.CreateBlogPost(ctx, draft); err != nil {
			return rep, fmt.Errorf("create blog post %q: %w", draft.Title, err)
		}
		rep.BlogPosts++
	}

	return rep, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
