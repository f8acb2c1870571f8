package in_mem

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func article(url string, publishedAt time.Time) domain.Article {
	return domain.Article{Title: "t", URL: url, PublishedAt: publishedAt}
}

func TestStore_CreateArticle_ShouldRejectDuplicateURL(t *testing.T) {
	// Arrange
	ctx := context.Background()
	s := NewStore()
	now := time.Now()

	// Act
	_, err := s.CreateArticle(ctx, article("https://x.test/a", now))
	require.NoError(t, err)
	_, err = s.CreateArticle(ctx, article("https://x.test/a", now))

	// Assert
	assert.ErrorIs(t, err, storage.ErrDuplicate)
	exists, err := s.ArticleExists(ctx, "https://x.test/a")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_FindOrCreate_ReportsCreation(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	first, created, err := s.FindOrCreateSource(ctx, domain.NewPublisherSource("news_api", "BBC News"))
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := s.FindOrCreateSource(ctx, domain.NewPublisherSource("guardian", "BBC News"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	author, created, err := s.FindOrCreateAuthor(ctx, "Jane")
	require.NoError(t, err)
	assert.True(t, created)
	again, created, err := s.FindOrCreateAuthor(ctx, "Jane")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, author.ID, again.ID)

	_, created, err = s.FindOrCreateCategory(ctx, domain.NewCategory("Sport"))
	require.NoError(t, err)
	assert.True(t, created)

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Counts{Sources: 1, Authors: 1, Categories: 1}, counts)
}

func TestStore_ListArticles_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	for i, url := range []string{"https://x.test/1", "https://x.test/2", "https://x.test/3"} {
		_, err := s.CreateArticle(ctx, article(url, base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	page, err := s.ListArticles(ctx, pagination.OffsetRequest{Page: 1, Size: 2})

	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "https://x.test/3", page.Items[0].URL)
	assert.Equal(t, int64(3), page.Total)
	assert.True(t, page.HasMore)

	last, err := s.ListArticles(ctx, pagination.OffsetRequest{Page: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, "https://x.test/1", last.Items[0].URL)
	assert.False(t, last.HasMore)
}

func TestStore_ListEnabledSources(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	disabled := domain.NewPublisherSource("news_api", "Muted")
	disabled.Enabled = false

	_, _, err := s.FindOrCreateSource(ctx, domain.NewProviderSource("guardian", "The Guardian"))
	require.NoError(t, err)
	_, _, err = s.FindOrCreateSource(ctx, disabled)
	require.NoError(t, err)

	sources, err := s.ListEnabledSources(ctx)

	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "The Guardian", sources[0].Name)
}

func TestStore_CreateArticleHook(t *testing.T) {
	boom := errors.New("disk full")
	s := NewStore(WithCreateArticleHook(func(domain.Article) error { return boom }))

	_, err := s.CreateArticle(context.Background(), article("https://x.test/a", time.Now()))

	assert.ErrorIs(t, err, boom)
	exists, _ := s.ArticleExists(context.Background(), "https://x.test/a")
	assert.False(t, exists)
}
