package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// NormalizeProduct converts a raw document into a fully defaulted
// [Product]. It never fails: absent or mistyped fields take their zero
// value and unknown fields are ignored. Numeric ranges are not checked.
func NormalizeProduct(doc Document) Product {
	f := doc.Fields
	return Product{
		ID:            doc.ID,
		Name:          stringField(f, ProductName),
		Price:         numberField(f, ProductPrice),
		OriginalPrice: optionalAmountField(f, ProductOriginalPrice),
		Images:        stringsField(f, ProductImages),
		LegacyImage:   stringField(f, ProductImage),
		Category:      stringField(f, ProductCategory),
		Rating:        numberField(f, ProductRating),
		Description:   stringField(f, ProductDescription),
		Approved:      boolField(f, ProductApproved),
		CreatedAt:     timeField(f, CreatedAtField),
	}
}

// NormalizeBlogPost converts a raw document into a fully defaulted
// [BlogPost]. A missing or unparsable publication time falls back to the
// creation time, then to now.
func NormalizeBlogPost(doc Document, now time.Time) BlogPost {
	f := doc.Fields

	createdAt := timeField(f, CreatedAtField)
	if createdAt.IsZero() {
		createdAt = now
	}

	publishedAt := timeField(f, BlogPublishedAt)
	if publishedAt.IsZero() {
		publishedAt = createdAt
	}

	return BlogPost{
		ID:          doc.ID,
		Title:       stringField(f, BlogTitle),
		Excerpt:     stringField(f, BlogExcerpt),
		Content:     stringField(f, BlogContent),
		Author:      stringField(f, BlogAuthor),
		Image:       stringField(f, BlogImage),
		Published:   boolField(f, BlogPublished),
		PublishedAt: publishedAt,
		CreatedAt:   createdAt,
	}
}

func NormalizeProducts(docs []Document) []Product {
	ps := make([]Product, len(docs))
	for i, d := range docs {
		ps[i] = NormalizeProduct(d)
	}
	return ps
}

func NormalizeBlogPosts(docs []Document, now time.Time) []BlogPost {
	bs := make([]BlogPost, len(docs))
	for i, d := range docs {
		bs[i] = NormalizeBlogPost(d, now)
	}
	return bs
}

func stringField(f map[string]any, key string) string {
	s, _ := f[key].(string)
	return s
}

func boolField(f map[string]any, key string) bool {
	b, _ := f[key].(bool)
	return b
}

func numberField(f map[string]any, key string) float64 {
	n, _ := toNumber(f[key])
	return n
}

// optionalAmountField treats null, zero and unparsable values as absent.
func optionalAmountField(f map[string]any, key string) *float64 {
	n, ok := toNumber(f[key])
	if !ok || n == 0 {
		return nil
	}
	return &n
}

func stringsField(f map[string]any, key string) []string {
	switch v := f[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func timeField(f map[string]any, key string) time.Time {
	switch v := f[key].(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}

// toNumber reports non-finite values as absent.
func toNumber(v any) (float64, bool) {
	n, ok := asFloat(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
