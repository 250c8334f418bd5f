package postgresql

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.DocumentStore = (*DocumentStore)(nil)

// A DocumentStore keeps every collection in the documents table. The
// createdAt field is always read from the created_at column.
type DocumentStore struct {
	sqldb sqldb
	newID func() uuid.UUID
}

func NewDocumentStore(sqldb sqldb) DocumentStore {
	return DocumentStore{sqldb: sqldb, newID: uuid.New}
}

func (s DocumentStore) ListAll(
	ctx context.Context, coll string,
) ([]domain.Document, error) {
	const op = "postgresql.DocumentStore.ListAll"

	if err := ctx.Err(); err != nil {
		return nil, unavailable(op, err)
	}

	query := `
		SELECT id::text, data, created_at
		FROM documents
		WHERE collection = $1
		ORDER BY seq ASC;`

	rows, err := s.sqldb.QueryContext(ctx, query, coll)
	if err != nil {
		return nil, unavailable(op, err)
	}
	docs, err := scanDocuments(rows)
	if err != nil {
		return nil, unavailable(op, err)
	}
	return docs, nil
}

func (s DocumentStore) GetByID(
	ctx context.Context, coll, id string,
) (domain.Document, error) {
	const op = "postgresql.DocumentStore.GetByID"

	if err := ctx.Err(); err != nil {
		return domain.Document{}, unavailable(op, err)
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	query := `
		SELECT id::text, data, created_at
		FROM documents
		WHERE collection = $1 AND id = $2;`

	var (
		docID     string
		data      []byte
		createdAt time.Time
	)
	err = s.sqldb.QueryRowContext(ctx, query, coll, uid.String()).
		Scan(&docID, &data, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Document{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Document{}, unavailable(op, err)
	}

	doc, err := decodeDocument(docID, data, createdAt)
	if err != nil {
		return domain.Document{}, unavailable(op, err)
	}
	return doc, nil
}

// QueryByField matches documents with JSONB containment, which is an
// exact comparison for scalar values.
func (s DocumentStore) QueryByField(
	ctx context.Context, coll, field string, value any,
) ([]domain.Document, error) {
	const op = "postgresql.DocumentStore.QueryByField"

	if err := ctx.Err(); err != nil {
		return nil, unavailable(op, err)
	}

	filter, err := json.Marshal(map[string]any{field: value})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT id::text, data, created_at
		FROM documents
		WHERE collection = $1 AND data @> $2::jsonb
		ORDER BY seq ASC;`

	rows, err := s.sqldb.QueryContext(ctx, query, coll, string(filter))
	if err != nil {
		return nil, unavailable(op, err)
	}
	docs, err := scanDocuments(rows)
	if err != nil {
		return nil, unavailable(op, err)
	}
	return docs, nil
}

func (s DocumentStore) Create(
	ctx context.Context, coll string, fields map[string]any,
) (string, error) {
	const op = "postgresql.DocumentStore.Create"

	if err := ctx.Err(); err != nil {
		return "", unavailable(op, err)
	}

	record := maps.Clone(fields)
	if record == nil {
		record = make(map[string]any)
	}
	delete(record, domain.CreatedAtField)

	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO documents (id, collection, data)
		VALUES ($1, $2, $3::jsonb);`

	id := s.newID().String()
	if _, err := s.sqldb.ExecContext(ctx, query, id, coll, string(data)); err != nil {
		return "", unavailable(op, err)
	}
	return id, nil
}

func scanDocuments(rows *sql.Rows) (docs []domain.Document, err error) {
	defer func() {
		if closeErr := rows.Close(); err == nil {
			err = closeErr
		}
	}()

	docs = []domain.Document{}
	for rows.Next() {
		var (
			id        string
			data      []byte
			createdAt time.Time
		)
		if err := rows.Scan(&id, &data, &createdAt); err != nil {
			return nil, err
		}
		doc, err := decodeDocument(id, data, createdAt)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// decodeDocument keeps numbers as [json.Number] so integer prices are
// not rounded through float64 twice.
func decodeDocument(
	id string, data []byte, createdAt time.Time,
) (domain.Document, error) {
	fields := make(map[string]any)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return domain.Document{}, fmt.Errorf("decode document %s: %w", id, err)
	}
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	fields[domain.CreatedAtField] = createdAt.UTC()
	return domain.Document{ID: id, Fields: fields}, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrBackendUnavailable, err)
}
