package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/news-aggregator/internal/cache"
	"github.com/DjordjeVuckovic/news-aggregator/internal/collector"
	"github.com/DjordjeVuckovic/news-aggregator/internal/ingest"
	"github.com/DjordjeVuckovic/news-aggregator/internal/job"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/pg"
)

// app holds the wired components shared by every command.
type app struct {
	store      storage.Store
	pool       *pg.ConnectionPool
	cache      *cache.Manager
	fetchers   []collector.Fetcher
	aggregator *ingest.Aggregator
	job        *job.FetchArticlesJob
}

func newApp(ctx context.Context) (*app, error) {
	storageCfg, err := factory.LoadEnv()
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	store, pool, err := factory.NewStore(ctx, storageCfg)
	if err != nil {
		return nil, err
	}

	cacheCfg, err := cache.LoadEnv()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load cache config: %w", err)
	}

	manager, err := newCacheManager(cacheCfg, pool)
	if err != nil {
		store.Close()
		return nil, err
	}

	fetchers, err := newFetchers()
	if err != nil {
		store.Close()
		return nil, err
	}

	aggregator := ingest.NewAggregator(fetchers, store,
		ingest.WithMutationListener(cache.NewInvalidator(manager)),
	)

	return &app{
		store:      store,
		pool:       pool,
		cache:      manager,
		fetchers:   fetchers,
		aggregator: aggregator,
		job:        job.NewFetchArticlesJob(aggregator),
	}, nil
}

func newCacheManager(cfg *cache.Config, pool *pg.ConnectionPool) (*cache.Manager, error) {
	switch cfg.Backend(pool != nil) {
	case cache.PG:
		if pool == nil {
			return nil, errors.New("CACHE_TYPE=pg requires STORAGE_TYPE=pg")
		}
		slog.Info("Using postgres cache store")
		return cache.NewManager(pg.NewCacheStore(pool), pg.NewTagIndex(pool)), nil
	default:
		if pool != nil {
			slog.Warn("Memory cache is local to this process, cache commands and fetch invalidations will not reach other processes")
		}
		return cache.NewMemoryManager(cache.WithMaxEntries(cfg.MaxEntries)), nil
	}
}

// newFetchers builds a client per enabled provider. A provider without
// credentials is skipped, not fatal.
func newFetchers() ([]collector.Fetcher, error) {
	cfgs, err := provider.LoadEnv()
	if err != nil {
		return nil, fmt.Errorf("load provider config: %w", err)
	}

	fetchers := make([]collector.Fetcher, 0, len(cfgs))
	for _, cfg := range cfgs {
		if !cfg.IsEnabled() {
			slog.Info("Provider disabled", "provider", cfg.ID)
			continue
		}

		client, err := provider.NewClient(cfg)
		if err != nil {
			var configErr *provider.ConfigurationError
			if errors.As(err, &configErr) {
				slog.Warn("Provider skipped", "provider", cfg.ID, "reason", configErr.Details)
				continue
			}
			return nil, err
		}
		fetchers = append(fetchers, client)
	}

	if len(fetchers) == 0 {
		slog.Warn("No providers are configured, ingestion will fetch nothing")
	}
	return fetchers, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}
