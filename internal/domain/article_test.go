package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fetchedAt = time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)

func TestArticleSlug(t *testing.T) {
	// Act
	slug := ArticleSlug("Markets Rally!", "https://x.test/a", fetchedAt)

	// Assert
	assert.True(t, strings.HasPrefix(slug, "markets-rally-1759752000-"), slug)
	assert.Len(t, strings.TrimPrefix(slug, "markets-rally-1759752000-"), 8)
}

func TestArticleSlug_DiffersByURL(t *testing.T) {
	a := ArticleSlug("Same title", "https://x.test/a", fetchedAt)
	b := ArticleSlug("Same title", "https://x.test/b", fetchedAt)

	assert.NotEqual(t, a, b)
}

func TestArticleSlug_EmptyAndLongTitles(t *testing.T) {
	assert.True(t, strings.HasPrefix(ArticleSlug("!!!", "u", fetchedAt), "untitled-"))

	long := ArticleSlug(strings.Repeat("word ", 40), "u", fetchedAt)
	base := long[:strings.Index(long, "-1759752000-")]
	assert.LessOrEqual(t, len(base), articleSlugMaxLen)
	assert.False(t, strings.HasSuffix(base, "-"))
}

func TestArticleDraft_Validate(t *testing.T) {
	assert.NoError(t, ArticleDraft{URL: "https://x.test/a"}.Validate())
	assert.Error(t, ArticleDraft{URL: "   "}.Validate())
}

func TestNewArticle(t *testing.T) {
	// Arrange
	source := Source{ID: uuid.New(), Name: "BBC News"}
	category := Category{ID: uuid.New(), Name: "World"}
	author := Author{ID: uuid.New(), Name: "Jane Doe"}
	draft := ArticleDraft{Title: "Summit opens", URL: " https://x.test/summit ", PublishedAt: fetchedAt.Add(-time.Hour)}

	// Act
	article := NewArticle(draft, fetchedAt, source, category, author)

	// Assert
	require.NotEqual(t, uuid.Nil, article.ID)
	assert.Equal(t, "https://x.test/summit", article.URL)
	assert.Equal(t, source.ID, article.SourceID)
	assert.Equal(t, category.ID, article.CategoryID)
	assert.Equal(t, []uuid.UUID{author.ID}, article.AuthorIDs)
	assert.Equal(t, "BBC News", article.SourceName)
	assert.Equal(t, "Jane Doe", article.AuthorName)
	assert.Equal(t, "World", article.CategoryName)
	assert.Equal(t, fetchedAt, article.FetchedAt)
	assert.True(t, strings.HasPrefix(article.Slug, "summit-opens-"))
}
