package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks a failing cache backend. Remember operations log it
// and fall through to the producer.
var ErrUnavailable = errors.New("cache: store unavailable")

// Store is a key/value backend holding serialized entries. A ttl <= 0 keeps
// the entry until it is deleted or flushed.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Flush(ctx context.Context) error
	Len(ctx context.Context) (int, error)
}

// TagIndex maps tags to the keys stored under them. Forget drops only the
// given (tag, key) pairs so keys tagged after a Keys call stay indexed.
type TagIndex interface {
	Add(ctx context.Context, key string, tags ...string) error
	Keys(ctx context.Context, tags ...string) ([]string, error)
	Forget(ctx context.Context, keys []string, tags ...string) error
	Reset(ctx context.Context) error
}
