package domain

import "time"

// Field names of a blog post document.
const (
	BlogTitle       = "title"
	BlogExcerpt     = "excerpt"
	BlogContent     = "content"
	BlogAuthor      = "author"
	BlogImage       = "image"
	BlogPublished   = "published"
	BlogPublishedAt = "publishedAt"
)

type (
	BlogPost struct {
		ID          string
		Title       string
		Excerpt     string
		Content     string
		Author      string
		Image       string
		Published   bool
		PublishedAt time.Time
		CreatedAt   time.Time
	}

	BlogPostDraft struct {
		Title   string
		Excerpt string
		Content string
		Author  string
	}
)

// Paragraphs splits the content into one paragraph per line.
func (b BlogPost) Paragraphs() []string {
	if b.Content == "" {
		return nil
	}
	return splitLines(b.Content)
}

// Record returns the document fields written for the draft, published at
// publishedAt.
func (d BlogPostDraft) Record(publishedAt time.Time) map[string]any {
	return map[string]any{
		BlogTitle:       d.Title,
		BlogExcerpt:     d.Excerpt,
		BlogContent:     d.Content,
		BlogAuthor:      d.Author,
		BlogPublished:   true,
		BlogPublishedAt: publishedAt,
	}
}
