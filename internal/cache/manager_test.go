package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

var errDown = errors.New("connection refused")

func (failingStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errDown }
func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errDown
}
func (failingStore) Delete(context.Context, ...string) error { return errDown }
func (failingStore) Flush(context.Context) error             { return errDown }
func (failingStore) Len(context.Context) (int, error)        { return 0, errDown }

func newManager() *Manager {
	return NewMemoryManager()
}

func counter(calls *int, value string) Producer[string] {
	return func(context.Context) (string, error) {
		*calls++
		return value, nil
	}
}

func TestRememberAPIResponse_CachesProducerResult(t *testing.T) {
	// Arrange
	ctx := context.Background()
	m := newManager()
	calls := 0

	// Act
	first, err := RememberAPIResponse(ctx, m, "articles:list", 0, counter(&calls, "v1"))
	require.NoError(t, err)
	second, err := RememberAPIResponse(ctx, m, "articles:list", 0, counter(&calls, "v2"))
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "v1", first)
	assert.Equal(t, "v1", second)
	assert.Equal(t, 1, calls)

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Hits: 1, Misses: 1, HitRate: 50, Keys: 1}, stats)
}

func TestInvalidateTags_ThenRememberReinvokesProducer(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	calls := 0

	_, err := RememberAPIResponse(ctx, m, "articles:list", 0, counter(&calls, "v1"))
	require.NoError(t, err)

	require.NoError(t, m.InvalidateTags(ctx, TagArticles))

	value, err := RememberAPIResponse(ctx, m, "articles:list", 0, counter(&calls, "v2"))
	require.NoError(t, err)
	assert.Equal(t, "v2", value)
	assert.Equal(t, 2, calls)
}

// interleavedIndex runs afterKeys once, right after the first Keys call.
type interleavedIndex struct {
	TagIndex
	afterKeys func()
}

func (i *interleavedIndex) Keys(ctx context.Context, tags ...string) ([]string, error) {
	keys, err := i.TagIndex.Keys(ctx, tags...)
	if fn := i.afterKeys; fn != nil {
		i.afterKeys = nil
		fn()
	}
	return keys, err
}

func TestInvalidateTags_KeyStoredDuringInvalidationStaysFlushable(t *testing.T) {
	// Arrange
	ctx := context.Background()
	index := &interleavedIndex{TagIndex: NewMemoryTagIndex()}
	m := NewManager(NewMemoryStore(), index)
	calls := 0

	_, err := RememberAPIResponse(ctx, m, "articles:other", 0, counter(&calls, "old"))
	require.NoError(t, err)
	index.afterKeys = func() {
		_, err := RememberAPIResponse(ctx, m, "articles:list", 0, counter(&calls, "stale"))
		require.NoError(t, err)
	}

	// Act
	require.NoError(t, m.InvalidateTags(ctx, TagArticles))
	require.NoError(t, m.InvalidateTags(ctx, TagArticles))
	value, err := RememberAPIResponse(ctx, m, "articles:list", 0, counter(&calls, "fresh"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "fresh", value)
	assert.Equal(t, 3, calls)
}

func TestInvalidateTags_DeletedKeysLeaveOtherTags(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	index := m.tags.(*MemoryTagIndex)
	calls := 0

	for _, page := range []string{"1", "2", "3"} {
		_, err := RememberAPIResponse(ctx, m, "articles:page:"+page, 0, counter(&calls, page))
		require.NoError(t, err)
	}
	require.Equal(t, 3, index.Len())

	require.NoError(t, m.InvalidateTags(ctx, TagArticles))

	assert.Zero(t, index.Len())
	keys, err := index.Keys(ctx, TagAPIResponses)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestInvalidateTags_LeavesOtherTagsAlone(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	calls := 0

	_, err := RememberStats(ctx, m, StatTotalArticles, counter(&calls, "10"))
	require.NoError(t, err)
	_, err = RememberAPIResponse(ctx, m, "api:sources:abc", 0, counter(&calls, "list"))
	require.NoError(t, err)

	require.NoError(t, m.InvalidateTags(ctx, TagStats))

	_, err = RememberAPIResponse(ctx, m, "api:sources:abc", 0, counter(&calls, "list"))
	require.NoError(t, err)
	_, err = RememberStats(ctx, m, StatTotalArticles, counter(&calls, "11"))
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRemember_ProducerErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	boom := errors.New("db down")

	_, err := RememberAPIResponse(ctx, m, "k", 0, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	value, err := RememberAPIResponse(ctx, m, "k", 0, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, value)
}

func TestRemember_FailingStoreDegradesToPassthrough(t *testing.T) {
	ctx := context.Background()
	m := NewManager(failingStore{}, NewMemoryTagIndex())
	calls := 0

	for range 2 {
		value, err := RememberAPIResponse(ctx, m, "k", 0, counter(&calls, "fresh"))
		require.NoError(t, err)
		assert.Equal(t, "fresh", value)
	}
	assert.Equal(t, 2, calls)

	err := m.ClearAll(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestInvalidateTableCache(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	calls := 0

	_, err := RememberModel(ctx, m, TagSources, EnabledSourcesID, counter(&calls, "s"))
	require.NoError(t, err)

	require.NoError(t, m.InvalidateTableCache(ctx, "unknown_table"))
	_, err = RememberModel(ctx, m, TagSources, EnabledSourcesID, counter(&calls, "s"))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	require.NoError(t, m.InvalidateTableCache(ctx, TagSources))
	_, err = RememberModel(ctx, m, TagSources, EnabledSourcesID, counter(&calls, "s"))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	calls := 0

	_, _ = RememberStats(ctx, m, StatTotalAuthors, counter(&calls, "1"))
	_, _ = RememberAPIResponse(ctx, m, "k", time.Minute, counter(&calls, "2"))

	require.NoError(t, m.ClearAll(ctx))

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Keys)
}

func TestInvalidator_EntityChanged(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	inv := NewInvalidator(m)
	calls := 0

	_, _ = RememberModel(ctx, m, TagAuthors, "1", counter(&calls, "a"))
	_, _ = RememberStats(ctx, m, StatTotalArticles, counter(&calls, "s"))
	_, _ = RememberModel(ctx, m, TagCategories, "1", counter(&calls, "c"))

	inv.EntityChanged(ctx, TagAuthors)

	_, _ = RememberModel(ctx, m, TagAuthors, "1", counter(&calls, "a"))
	_, _ = RememberStats(ctx, m, StatTotalArticles, counter(&calls, "s"))
	_, _ = RememberModel(ctx, m, TagCategories, "1", counter(&calls, "c"))
	assert.Equal(t, 5, calls)
}
