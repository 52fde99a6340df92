package container

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
	"github.com/serroba/shortlink/internal/store/migrations"
	"go.uber.org/zap"
)

// LinkStore is the durable store together with its health probe.
type LinkStore interface {
	shortener.Repository
	Ping(ctx context.Context) error
}

// StorePackage provides the configured durable store. Postgres migrations run before the pool opens.
func StorePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (LinkStore, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		ctx := context.Background()

		logger.Info("opening link store", zap.String("store", opts.Store))

		switch opts.Store {
		case StoreMemory:
			return store.NewMemoryStore(), nil
		case StoreRedis:
			client := do.MustInvoke[*RedisClient](i)

			return store.NewRedisStore(client.Client), nil
		case StoreSQLite:
			sqlite, err := store.OpenSQLiteStore(ctx, opts.SQLitePath)
			if err != nil {
				return nil, err
			}

			return sqlite, nil
		case StorePostgres:
			if err := migrations.Up(opts.DatabaseURL); err != nil {
				return nil, err
			}

			pool, err := pgxpool.New(ctx, opts.DatabaseURL)
			if err != nil {
				return nil, fmt.Errorf("create postgres pool: %w", err)
			}

			return store.NewPostgresStore(pool), nil
		case StoreCassandra:
			session, err := store.NewCassandraSession(splitList(opts.CassandraHosts), opts.CassandraKeyspace)
			if err != nil {
				return nil, err
			}

			return store.NewCassandraStore(session), nil
		default:
			return nil, fmt.Errorf("unknown store %q", opts.Store)
		}
	})
}
