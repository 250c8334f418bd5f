// Package memstore keeps catalog documents and sessions in process
// memory. It backs the development mode and the handler tests.
package memstore

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.DocumentStore = (*DocumentStore)(nil)

type collection struct {
	docs  []domain.Document
	index map[string]int
}

type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
	now         func() time.Time
	newID       func() string
}

type Opt func(*DocumentStore)

func ClockOpt(now func() time.Time) Opt {
	return func(s *DocumentStore) { s.now = now }
}

func IDGeneratorOpt(newID func() string) Opt {
	return func(s *DocumentStore) { s.newID = newID }
}

func NewDocumentStore(opts ...Opt) *DocumentStore {
	s := &DocumentStore{
		collections: make(map[string]*collection),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *DocumentStore) ListAll(
	ctx context.Context, coll string,
) ([]domain.Document, error) {
	const op = "memstore.DocumentStore.ListAll"

	if err := ctx.Err(); err != nil {
		return nil, unavailable(op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[coll]
	if !ok {
		return []domain.Document{}, nil
	}
	out := make([]domain.Document, len(c.docs))
	for i, d := range c.docs {
		out[i] = copyDocument(d)
	}
	return out, nil
}

func (s *DocumentStore) GetByID(
	ctx context.Context, coll, id string,
) (domain.Document, error) {
	const op = "memstore.DocumentStore.GetByID"

	if err := ctx.Err(); err != nil {
		return domain.Document{}, unavailable(op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[coll]
	if !ok {
		return domain.Document{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	i, ok := c.index[id]
	if !ok {
		return domain.Document{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return copyDocument(c.docs[i]), nil
}

func (s *DocumentStore) QueryByField(
	ctx context.Context, coll, field string, value any,
) ([]domain.Document, error) {
	const op = "memstore.DocumentStore.QueryByField"

	if err := ctx.Err(); err != nil {
		return nil, unavailable(op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Document{}
	c, ok := s.collections[coll]
	if !ok {
		return out, nil
	}
	for _, d := range c.docs {
		v, ok := d.Fields[field]
		if ok && reflect.DeepEqual(v, value) {
			out = append(out, copyDocument(d))
		}
	}
	return out, nil
}

func (s *DocumentStore) Create(
	ctx context.Context, coll string, fields map[string]any,
) (string, error) {
	const op = "memstore.DocumentStore.Create"

	if err := ctx.Err(); err != nil {
		return "", unavailable(op, err)
	}

	doc := copyDocument(domain.Document{ID: s.newID(), Fields: fields})
	if doc.Fields == nil {
		doc.Fields = make(map[string]any, 1)
	}
	doc.Fields[domain.CreatedAtField] = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[coll]
	if !ok {
		c = &collection{index: make(map[string]int)}
		s.collections[coll] = c
	}
	c.index[doc.ID] = len(c.docs)
	c.docs = append(c.docs, doc)

	return doc.ID, nil
}

func copyDocument(d domain.Document) domain.Document {
	if d.Fields == nil {
		return d
	}
	fields := maps.Clone(d.Fields)
	for k, v := range fields {
		switch vv := v.(type) {
		case []any:
			fields[k] = slices.Clone(vv)
		case []string:
			fields[k] = slices.Clone(vv)
		}
	}
	return domain.Document{ID: d.ID, Fields: fields}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrBackendUnavailable, err)
}
