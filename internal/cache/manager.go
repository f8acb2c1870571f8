package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/pkg/utils"
	"github.com/samber/lo"
)

const (
	APIResponseTTL = 30 * time.Minute
	ModelTTL       = time.Hour
	StatsTTL       = 5 * time.Minute
)

// Manager memoizes producer results in a Store and keeps its own tag index
// for bulk invalidation.
//
// Concurrent misses on the same key may each run the producer; the last
// write wins.
type Manager struct {
	store Store
	tags  TagIndex

	hits   atomic.Int64
	misses atomic.Int64
}

func NewManager(store Store, tags TagIndex) *Manager {
	return &Manager{store: store, tags: tags}
}

// Producer computes a value on a cache miss.
type Producer[T any] func(ctx context.Context) (T, error)

// RememberAPIResponse caches producer output under key tagged api_responses
// plus any entity tag named by the key segments. ttl <= 0 uses APIResponseTTL.
func RememberAPIResponse[T any](ctx context.Context, m *Manager, key string, ttl time.Duration, producer Producer[T]) (T, error) {
	return RememberTagged(ctx, m, key, ttl, nil, producer)
}

// RememberTagged is RememberAPIResponse with extra tags.
func RememberTagged[T any](ctx context.Context, m *Manager, key string, ttl time.Duration, tags []string, producer Producer[T]) (T, error) {
	if ttl <= 0 {
		ttl = APIResponseTTL
	}
	all := append([]string{TagAPIResponses}, entityTags(key)...)
	return remember(ctx, m, key, ttl, lo.Uniq(append(all, tags...)), producer)
}

// RememberStats caches a statistic under "stats:<name>" tagged stats.
func RememberStats[T any](ctx context.Context, m *Manager, name string, producer Producer[T]) (T, error) {
	return remember(ctx, m, StatsKey(name), StatsTTL, []string{TagStats}, producer)
}

// RememberModel caches an entity read under "model:<table>:<id>" tagged with
// the table tag.
func RememberModel[T any](ctx context.Context, m *Manager, table, id string, producer Producer[T]) (T, error) {
	tags := []string{}
	if tag, ok := TagForTable(table); ok {
		tags = append(tags, tag)
	}
	return remember(ctx, m, ModelKey(table, id), ModelTTL, tags, producer)
}

func remember[T any](ctx context.Context, m *Manager, key string, ttl time.Duration, tags []string, producer Producer[T]) (T, error) {
	degraded := false

	raw, found, err := m.store.Get(ctx, key)
	switch {
	case err != nil:
		degraded = true
		m.unavailable("get", key, err)
	case found:
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			m.hits.Add(1)
			return cached, nil
		}
		slog.Warn("Discarding undecodable cache entry", "key", key)
	}

	m.misses.Add(1)
	start := time.Now()
	value, err := producer(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	slog.Info("Cache miss",
		"key", key,
		"tags", tags,
		"producer_ms", time.Since(start).Milliseconds(),
	)

	if degraded {
		return value, nil
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		slog.Warn("Value is not cacheable", "key", key, "error", err)
		return value, nil
	}
	if err := m.store.Set(ctx, key, encoded, ttl); err != nil {
		m.unavailable("set", key, err)
		return value, nil
	}
	if err := m.tags.Add(ctx, key, tags...); err != nil {
		m.unavailable("tag", key, err)
	}

	return value, nil
}

func (m *Manager) unavailable(op, key string, err error) {
	slog.Warn("Cache unavailable, calling producer directly",
		"op", op,
		"key", key,
		"error", fmt.Errorf("%w: %w", ErrUnavailable, err),
	)
}

// InvalidateTags flushes every key indexed under any of tags.
func (m *Manager) InvalidateTags(ctx context.Context, tags ...string) error {
	tags = lo.Uniq(lo.Without(tags, ""))
	if len(tags) == 0 {
		return nil
	}

	keys, err := m.tags.Keys(ctx, tags...)
	if err != nil {
		return fmt.Errorf("%w: read tag index: %w", ErrUnavailable, err)
	}

	// Unlink before deleting: a key re-stored in between is either deleted
	// below or re-tagged by its remember call, never left untagged.
	if err := m.tags.Forget(ctx, keys, tags...); err != nil {
		return fmt.Errorf("%w: forget tagged keys: %w", ErrUnavailable, err)
	}
	if err := m.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("%w: delete keys: %w", ErrUnavailable, err)
	}

	slog.Info("Cache tags invalidated", "tags", tags, "keys", len(keys))
	return nil
}

// InvalidateTableCache flushes the tag of an entity table. Unknown tables
// are ignored.
func (m *Manager) InvalidateTableCache(ctx context.Context, table string) error {
	tag, ok := TagForTable(table)
	if !ok {
		slog.Warn("Ignoring cache invalidation for unknown table", "table", table)
		return nil
	}
	return m.InvalidateTags(ctx, tag)
}

// ClearAll flushes the store and the tag index.
func (m *Manager) ClearAll(ctx context.Context) error {
	if err := m.store.Flush(ctx); err != nil {
		return fmt.Errorf("%w: flush: %w", ErrUnavailable, err)
	}
	if err := m.tags.Reset(ctx); err != nil {
		return fmt.Errorf("%w: reset tag index: %w", ErrUnavailable, err)
	}
	slog.Info("Cache cleared")
	return nil
}

type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hitRate"`
	Keys    int     `json:"totalKeys"`
}

// Stats reports counters of this manager and the number of live keys.
func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	hits, misses := m.hits.Load(), m.misses.Load()
	stats := Stats{
		Hits:    hits,
		Misses:  misses,
		HitRate: utils.Percent(hits, hits+misses),
	}

	keys, err := m.store.Len(ctx)
	if err != nil {
		return stats, errors.Join(ErrUnavailable, err)
	}
	stats.Keys = keys
	return stats, nil
}
