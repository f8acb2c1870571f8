package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/pg"
)

// NewStore creates the storage.Store for cfg. The pool is returned for pg so
// callers can share it with the cache store and health checks; it is nil for
// in-memory storage.
func NewStore(ctx context.Context, cfg *StorageConfig) (storage.Store, *pg.ConnectionPool, error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, nil, fmt.Errorf("missing PostgreSQL configuration")
		}

		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}

		return pg.NewStore(pool), pool, nil

	case storage.InMem:
		return in_mem.NewStore(), nil, nil

	default:
		return nil, nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
