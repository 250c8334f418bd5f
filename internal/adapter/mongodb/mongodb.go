// Package mongodb keeps catalog documents in a hosted MongoDB database,
// one collection per catalog collection.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var _ port.DocumentStore = (*DocumentStore)(nil)

const idField = "_id"

type DocumentStore struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

// Connect opens a client for uri and waits until the primary answers a
// ping.
func Connect(ctx context.Context, uri, database string) (DocumentStore, error) {
	const op = "mongodb.Connect"
	log := slog.With("op", op, "database", database)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return DocumentStore{}, fmt.Errorf("%s: %w", op, err)
	}

	err = adapter.WaitAvailable(ctx, "mongodb", func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	})
	if err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return DocumentStore{}, fmt.Errorf("%s: database is unavailable: %w", op, err)
	}

	log.Info("database is available")
	return DocumentStore{
		client: client,
		db:     client.Database(database),
		now:    time.Now,
	}, nil
}

func (s DocumentStore) Close(ctx context.Context) {
	const op = "mongodb.DocumentStore.Close"
	log := slog.With("op", op)

	log.Info("disconnecting mongodb client...")
	if err := s.client.Disconnect(ctx); err != nil {
		log.Error("failed to disconnect", "err", err)
		return
	}
	log.Info("mongodb client is disconnected")
}

func (s DocumentStore) ListAll(
	ctx context.Context, coll string,
) ([]domain.Document, error) {
	const op = "mongodb.DocumentStore.ListAll"
	return s.find(ctx, op, coll, bson.M{})
}

func (s DocumentStore) GetByID(
	ctx context.Context, coll, id string,
) (domain.Document, error) {
	const op = "mongodb.DocumentStore.GetByID"

	if err := ctx.Err(); err != nil {
		return domain.Document{}, unavailable(op, err)
	}

	var raw bson.M
	err := s.db.Collection(coll).FindOne(ctx, idFilter(id)).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Document{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Document{}, unavailable(op, err)
	}
	return toDocument(raw), nil
}

func (s DocumentStore) QueryByField(
	ctx context.Context, coll, field string, value any,
) ([]domain.Document, error) {
	const op = "mongodb.DocumentStore.QueryByField"
	return s.find(ctx, op, coll, bson.M{field: value})
}

func (s DocumentStore) Create(
	ctx context.Context, coll string, fields map[string]any,
) (string, error) {
	const op = "mongodb.DocumentStore.Create"

	if err := ctx.Err(); err != nil {
		return "", unavailable(op, err)
	}

	oid := primitive.NewObjectID()
	record := bson.M(maps.Clone(fields))
	if record == nil {
		record = bson.M{}
	}
	record[idField] = oid
	record[domain.CreatedAtField] = s.now().UTC()

	if _, err := s.db.Collection(coll).InsertOne(ctx, record); err != nil {
		return "", unavailable(op, err)
	}
	return oid.Hex(), nil
}

func (s DocumentStore) find(
	ctx context.Context, op, coll string, filter bson.M,
) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(op, err)
	}

	opts := options.Find().SetSort(bson.D{{Key: idField, Value: 1}})
	cur, err := s.db.Collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return nil, unavailable(op, err)
	}

	var raws []bson.M
	if err := cur.All(ctx, &raws); err != nil {
		return nil, unavailable(op, err)
	}

	docs := make([]domain.Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, toDocument(raw))
	}
	return docs, nil
}

// toDocument lifts the driver's BSON types into the plain values the
// normalizer reads.
func toDocument(raw bson.M) domain.Document {
	doc := domain.Document{Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		if k == idField {
			doc.ID = idString(v)
			continue
		}
		doc.Fields[k] = plainValue(v)
	}
	return doc
}

// idFilter matches both generated ObjectIDs and imported string ids.
func idFilter(id string) bson.M {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return bson.M{idField: id}
	}
	return bson.M{idField: bson.M{"$in": bson.A{oid, id}}}
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

func plainValue(v any) any {
	switch vv := v.(type) {
	case primitive.A:
		out := make([]any, len(vv))
		for i, e := range vv {
			out[i] = plainValue(e)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			out[k] = plainValue(e)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(vv))
		for _, e := range vv {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	case primitive.DateTime:
		return vv.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(vv.T), 0).UTC()
	case primitive.ObjectID:
		return vv.Hex()
	case primitive.Decimal128:
		return vv.String()
	case primitive.Null, primitive.Undefined:
		return nil
	default:
		return v
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrBackendUnavailable, err)
}
