package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CacheStore keeps cache entries in the cache_entries table. Expired rows are
// ignored on read and removed lazily.
type CacheStore struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewCacheStore(pool *ConnectionPool) *CacheStore {
	return &CacheStore{db: pool.conn, now: time.Now}
}

func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	var expiresAt *time.Time
	err := s.db.QueryRow(ctx,
		`SELECT value, expires_at FROM cache_entries WHERE key = $1`, key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if expiresAt != nil && !expiresAt.After(s.now()) {
		_, _ = s.db.Exec(ctx, `DELETE FROM cache_entries WHERE key = $1 AND expires_at <= $2`, key, s.now())
		return nil, false, nil
	}
	return value, true, nil
}

func (s *CacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := s.now().Add(ttl)
		expiresAt = &t
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO cache_entries (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
	`, key, value, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

func (s *CacheStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM cache_entries WHERE key = ANY($1)`, keys); err != nil {
		return fmt.Errorf("failed to delete cache entries: %w", err)
	}
	return nil
}

func (s *CacheStore) Flush(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM cache_entries`); err != nil {
		return fmt.Errorf("failed to flush cache entries: %w", err)
	}
	return nil
}

func (s *CacheStore) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM cache_entries WHERE expires_at IS NULL OR expires_at > $1`, s.now(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// TagIndex keeps the tag to key mapping in the cache_tags table.
type TagIndex struct {
	db *pgxpool.Pool
}

func NewTagIndex(pool *ConnectionPool) *TagIndex {
	return &TagIndex{db: pool.conn}
}

func (t *TagIndex) Add(ctx context.Context, key string, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}
	_, err := t.db.Exec(ctx, `
		INSERT INTO cache_tags (tag, key)
		SELECT tag, $1 FROM unnest($2::text[]) AS tag
		ON CONFLICT DO NOTHING
	`, key, tags)
	if err != nil {
		return fmt.Errorf("failed to tag cache key: %w", err)
	}
	return nil
}

func (t *TagIndex) Keys(ctx context.Context, tags ...string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	rows, err := t.db.Query(ctx,
		`SELECT DISTINCT key FROM cache_tags WHERE tag = ANY($1) ORDER BY key`, tags,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read tagged keys: %w", err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan tagged keys: %w", err)
	}
	return keys, nil
}

func (t *TagIndex) Forget(ctx context.Context, keys []string, tags ...string) error {
	if len(keys) == 0 || len(tags) == 0 {
		return nil
	}
	_, err := t.db.Exec(ctx,
		`DELETE FROM cache_tags WHERE tag = ANY($1) AND key = ANY($2)`, tags, keys,
	)
	if err != nil {
		return fmt.Errorf("failed to forget tagged keys: %w", err)
	}
	return nil
}

func (t *TagIndex) Reset(ctx context.Context) error {
	if _, err := t.db.Exec(ctx, `DELETE FROM cache_tags`); err != nil {
		return fmt.Errorf("failed to reset tag index: %w", err)
	}
	return nil
}
