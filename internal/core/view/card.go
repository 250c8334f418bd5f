package view

import (
	"math"

	"github.com/niksmo/storefront/internal/core/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount in whole currency units with thousands
// separators, e.g. 1800 as "1,800".
func FormatAmount(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// A ProductCard is a product with every derived field a listing needs.
type ProductCard struct {
	domain.Product
	Image             string
	Gallery           []string
	HasDiscount       bool
	DiscountPercent   int
	Stars             []bool
	PriceText         string
	OriginalPriceText string
}

func NewProductCard(p domain.Product) ProductCard {
	c := ProductCard{
		Product:   p,
		Image:     DisplayImage(p),
		Gallery:   Gallery(p),
		Stars:     Stars(p.Rating),
		PriceText: FormatAmount(p.Price),
	}
	c.DiscountPercent, c.HasDiscount = DiscountPercent(p)
	if p.OriginalPrice != nil {
		c.OriginalPriceText = FormatAmount(*p.OriginalPrice)
	}
	return c
}

func NewProductCards(ps []domain.Product) []ProductCard {
	cs := make([]ProductCard, len(ps))
	for i, p := range ps {
		cs[i] = NewProductCard(p)
	}
	return cs
}

type BlogCard struct {
	domain.BlogPost
	Image      string
	Paragraphs []string
	DateText   string
}

func NewBlogCard(b domain.BlogPost) BlogCard {
	return BlogCard{
		BlogPost:   b,
		Image:      BlogImage(b),
		Paragraphs: b.Paragraphs(),
		DateText:   b.PublishedAt.Format("1/2/2006"),
	}
}

func NewBlogCards(bs []domain.BlogPost) []BlogCard {
	cs := make([]BlogCard, len(bs))
	for i, b := range bs {
		cs[i] = NewBlogCard(b)
	}
	return cs
}
