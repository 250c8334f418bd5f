package app

import (
	"context"
	"fmt"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter/memstore"
	"github.com/niksmo/storefront/internal/adapter/mongodb"
	"github.com/niksmo/storefront/internal/adapter/postgresql"
	"github.com/niksmo/storefront/internal/core/port"
)

// A Store is a catalog document store that owns its connection.
type Store interface {
	port.DocumentStore
	Close(context.Context)
}

type mongoStore struct {
	mongodb.DocumentStore
}

type postgresStore struct {
	postgresql.DocumentStore
	db postgresql.SQLDB
}

func (s postgresStore) Close(context.Context) {
	s.db.Close()
}

type memoryStore struct {
	*memstore.DocumentStore
}

func (memoryStore) Close(context.Context) {}

// OpenStore connects the document store selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.Config) (Store, error) {
	const op = "app.OpenStore"

	storeCfg := cfg.Store
	switch storeCfg.Driver {
	case config.StoreMongoDB:
		s, err := mongodb.Connect(ctx, storeCfg.MongoDB.URI, storeCfg.MongoDB.Database)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return mongoStore{s}, nil
	case config.StorePostgres:
		db, err := postgresql.Open(ctx, storeCfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return postgresStore{postgresql.NewDocumentStore(db), db}, nil
	case config.StoreMemory, "":
		return memoryStore{memstore.NewDocumentStore()}, nil
	default:
		return nil, fmt.Errorf("%s: unknown driver %q", op, storeCfg.Driver)
	}
}
