package domain

import "strings"

// Collections of the document store.
const (
	ProductsCollection = "products"
	BlogsCollection    = "blogs"
)

// CreatedAtField is stamped by the store on every created document.
const CreatedAtField = "createdAt"

// A Document is a raw, schema-less record read from the document store.
//
// Field values are plain Go values: strings, bools, numbers,
// time.Time, []any and map[string]any. Adapters convert driver
// specific types before handing documents to the core.
type Document struct {
	ID     string
	Fields map[string]any
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
