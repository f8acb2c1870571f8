package normalize

import (
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fetchedAt = time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)

const newsAPIPayload = `{
  "status": "ok",
  "totalResults": 2,
  "articles": [
    {
      "source": {"id": "bbc-news", "name": "BBC News"},
      "author": "Jane Doe",
      "title": "Markets rally",
      "description": "Stocks climbed.",
      "url": "https://bbc.test/markets",
      "urlToImage": "https://bbc.test/markets.jpg",
      "publishedAt": "2025-10-05T08:30:00Z",
      "content": "Full text"
    },
    {
      "source": {"id": null, "name": ""},
      "author": null,
      "title": null,
      "url": "https://x.test/untitled",
      "publishedAt": "yesterday"
    }
  ]
}`

func TestNewsAPI_Normalize(t *testing.T) {
	// Act
	drafts := NewsAPI().Normalize([]byte(newsAPIPayload), fetchedAt)

	// Assert
	require.Len(t, drafts, 2)

	first := drafts[0]
	assert.Equal(t, NewsAPIProvider, first.Provider)
	assert.Equal(t, "Markets rally", first.Title)
	require.NotNil(t, first.Description)
	assert.Equal(t, "Stocks climbed.", *first.Description)
	require.NotNil(t, first.Body)
	assert.Equal(t, "Full text", *first.Body)
	assert.Equal(t, "https://bbc.test/markets", first.URL)
	require.NotNil(t, first.ImageURL)
	assert.Equal(t, "https://bbc.test/markets.jpg", *first.ImageURL)
	assert.Equal(t, time.Date(2025, 10, 5, 8, 30, 0, 0, time.UTC), first.PublishedAt)
	assert.Equal(t, "Jane Doe", first.AuthorName)
	assert.Equal(t, domain.ArticleDefaultCategory, first.CategoryName)
	assert.Equal(t, "BBC News", first.PublisherName)
	assert.True(t, first.HasPublisher())

	second := drafts[1]
	assert.Equal(t, domain.ArticleDefaultTitle, second.Title)
	assert.Nil(t, second.Description)
	assert.Equal(t, domain.ArticleDefaultAuthor, second.AuthorName)
	assert.Equal(t, fetchedAt, second.PublishedAt)
	assert.False(t, second.HasPublisher())
}

const guardianPayload = `{
  "response": {
    "status": "ok",
    "results": [
      {
        "id": "sport/2025/oct/05/match-report",
        "sectionName": "Sport",
        "webPublicationDate": "2025-10-05T19:00:00Z",
        "webTitle": "Match report",
        "webUrl": "https://guardian.test/sport/match-report",
        "fields": {
          "trailText": "A late winner.",
          "body": "<p>Body</p>",
          "thumbnail": "https://guardian.test/thumb.jpg",
          "byline": "By John Smith"
        }
      },
      {
        "webUrl": "https://guardian.test/bare"
      }
    ]
  }
}`

func TestGuardian_Normalize(t *testing.T) {
	drafts := Guardian().Normalize([]byte(guardianPayload), fetchedAt)

	require.Len(t, drafts, 2)

	first := drafts[0]
	assert.Equal(t, "Match report", first.Title)
	assert.Equal(t, "https://guardian.test/sport/match-report", first.URL)
	assert.Equal(t, "Sport", first.CategoryName)
	assert.Equal(t, "John Smith", first.AuthorName)
	require.NotNil(t, first.Description)
	assert.Equal(t, "A late winner.", *first.Description)
	require.NotNil(t, first.ImageURL)
	assert.Equal(t, "https://guardian.test/thumb.jpg", *first.ImageURL)
	assert.Empty(t, first.PublisherName)

	bare := drafts[1]
	assert.Equal(t, domain.ArticleDefaultTitle, bare.Title)
	assert.Equal(t, domain.ArticleDefaultCategory, bare.CategoryName)
	assert.Equal(t, domain.ArticleDefaultAuthor, bare.AuthorName)
	assert.Nil(t, bare.Body)
	assert.Equal(t, fetchedAt, bare.PublishedAt)
}

const nytTopStoriesPayload = `{
  "status": "OK",
  "results": [
    {
      "section": "world",
      "title": "Summit opens",
      "abstract": "Leaders meet.",
      "url": "https://nyt.test/2025/10/05/world/summit.html",
      "byline": "By Alice Reporter",
      "published_date": "2025-10-05T10:00:00-04:00",
      "multimedia": [{"url": "https://static.nyt.test/summit.jpg"}]
    }
  ]
}`

const nytSearchPayload = `{
  "status": "OK",
  "response": {
    "docs": [
      {
        "headline": {"main": "Search hit"},
        "snippet": "Snippet text",
        "web_url": "https://nyt.test/search-hit.html",
        "pub_date": "2025-10-04T09:15:00+0000",
        "byline": {"original": "By Bob Writer"},
        "section_name": "Science",
        "multimedia": [{"url": "images/2025/10/04/hit.jpg"}]
      }
    ]
  }
}`

func TestNYTimes_Normalize_TopStories(t *testing.T) {
	drafts := NYTimes().Normalize([]byte(nytTopStoriesPayload), fetchedAt)

	require.Len(t, drafts, 1)
	d := drafts[0]
	assert.Equal(t, "Summit opens", d.Title)
	assert.Equal(t, "https://nyt.test/2025/10/05/world/summit.html", d.URL)
	assert.Equal(t, "Alice Reporter", d.AuthorName)
	assert.Equal(t, "world", d.CategoryName)
	assert.Equal(t, time.Date(2025, 10, 5, 14, 0, 0, 0, time.UTC), d.PublishedAt)
	require.NotNil(t, d.ImageURL)
	assert.Equal(t, "https://static.nyt.test/summit.jpg", *d.ImageURL)
	assert.Nil(t, d.Body)
}

func TestNYTimes_Normalize_Search(t *testing.T) {
	drafts := NYTimes().Normalize([]byte(nytSearchPayload), fetchedAt)

	require.Len(t, drafts, 1)
	d := drafts[0]
	assert.Equal(t, "Search hit", d.Title)
	assert.Equal(t, "https://nyt.test/search-hit.html", d.URL)
	assert.Equal(t, "Bob Writer", d.AuthorName)
	assert.Equal(t, "Science", d.CategoryName)
	require.NotNil(t, d.Description)
	assert.Equal(t, "Snippet text", *d.Description)
	assert.Equal(t, time.Date(2025, 10, 4, 9, 15, 0, 0, time.UTC), d.PublishedAt)
	require.NotNil(t, d.ImageURL)
	assert.Equal(t, "https://www.nytimes.com/images/2025/10/04/hit.jpg", *d.ImageURL)
}

func TestNormalize_MissingTitleEverywhereYieldsUntitled(t *testing.T) {
	payloads := map[string]struct {
		n   Normalizer
		raw string
	}{
		"news_api": {NewsAPI(), `{"articles":[{"url":"https://x.test/1","headline":{},"webTitle":""}]}`},
		"guardian": {Guardian(), `{"response":{"results":[{"webUrl":"https://x.test/2","fields":{}}]}}`},
		"ny_times": {NYTimes(), `{"results":[{"url":"https://x.test/3","headline":{"main":"  "}}]}`},
	}

	for name, p := range payloads {
		t.Run(name, func(t *testing.T) {
			var drafts []domain.ArticleDraft
			assert.NotPanics(t, func() {
				drafts = p.n.Normalize([]byte(p.raw), fetchedAt)
			})
			require.Len(t, drafts, 1)
			assert.Equal(t, domain.ArticleDefaultTitle, drafts[0].Title)
		})
	}
}

func TestNormalize_MalformedPayloadYieldsNothing(t *testing.T) {
	for _, raw := range []string{``, `{not json`, `{"articles": "nope"}`, `[]`} {
		assert.Empty(t, NewsAPI().Normalize([]byte(raw), fetchedAt), raw)
	}
}

func TestNormalize_PreservesOrderAndSkipsNonObjects(t *testing.T) {
	raw := `{"articles":[{"url":"https://x.test/a"}, 42, {"url":"https://x.test/b"}]}`

	drafts := NewsAPI().Normalize([]byte(raw), fetchedAt)

	require.Len(t, drafts, 2)
	assert.Equal(t, "https://x.test/a", drafts[0].URL)
	assert.Equal(t, "https://x.test/b", drafts[1].URL)
}

func TestRegistry_For(t *testing.T) {
	r := DefaultRegistry()

	_, ok := r.For(GuardianProvider)
	assert.True(t, ok)

	_, ok = r.For("unknown")
	assert.False(t, ok)
}
