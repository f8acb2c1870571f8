package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/cache"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/dto"
	"github.com/DjordjeVuckovic/news-aggregator/internal/ingest"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/in_mem"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mu   sync.Mutex
	hint []string
}

func (d *recordingDispatcher) Dispatch(_ context.Context, hint string, done func(ingest.Report, error)) {
	d.mu.Lock()
	d.hint = append(d.hint, hint)
	d.mu.Unlock()
	done(ingest.Report{}, nil)
}

type fixture struct {
	e       *echo.Echo
	store   *in_mem.Store
	manager *cache.Manager
	jobs    *recordingDispatcher
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	store := in_mem.NewStore()
	source, _, err := store.FindOrCreateSource(ctx, domain.NewProviderSource("guardian", "The Guardian"))
	require.NoError(t, err)
	category, _, err := store.FindOrCreateCategory(ctx, domain.NewCategory("World"))
	require.NoError(t, err)
	author, _, err := store.FindOrCreateAuthor(ctx, "Jane")
	require.NoError(t, err)
	for _, u := range []string{"https://x.test/1", "https://x.test/2"} {
		draft := domain.ArticleDraft{Title: "T", URL: u, PublishedAt: time.Now()}
		_, err := store.CreateArticle(ctx, domain.NewArticle(draft, time.Now(), source, category, author))
		require.NoError(t, err)
	}

	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	manager := cache.NewMemoryManager()
	jobs := &recordingDispatcher{}

	NewArticleRouter(e, manager, store).Bind()
	NewAdminRouter(ctx, e.Group("/admin"), manager, store, jobs).Bind()

	return fixture{e: e, store: store, manager: manager, jobs: jobs}
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestListArticles(t *testing.T) {
	// Arrange
	f := newFixture(t)

	// Act
	rec := f.do(http.MethodGet, "/api/v1/articles?page=1&per_page=1", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var page dto.ArticlePage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(2), page.Total)
	assert.True(t, page.HasMore)
}

func TestListArticles_InvalidPage(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/articles?page=abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStats_UsesCache(t *testing.T) {
	f := newFixture(t)

	first := f.do(http.MethodGet, "/api/v1/stats", "")
	second := f.do(http.MethodGet, "/api/v1/stats", "")

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	var resp dto.StatsResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Counts.Articles)
	assert.Equal(t, int64(4), resp.Cache.Hits)
}

func TestListSources(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/sources", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Guardian")
}

func TestInvalidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "tags", body: `{"tags":["articles","stats"]}`, want: http.StatusOK},
		{name: "table", body: `{"table":"sources"}`, want: http.StatusOK},
		{name: "empty", body: `{}`, want: http.StatusBadRequest},
		{name: "unknown tag", body: `{"tags":["bogus"]}`, want: http.StatusBadRequest},
		{name: "unknown table", body: `{"table":"users"}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.do(http.MethodPost, "/admin/cache/invalidate", tt.body)

			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestWarmUpAndClear(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/admin/cache/warmup", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var report cache.WarmUpReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Zero(t, report.Failed())

	stats := f.do(http.MethodGet, "/admin/cache/stats", "")
	require.Equal(t, http.StatusOK, stats.Code)
	assert.Contains(t, stats.Body.String(), `"totalKeys":6`)

	rec = f.do(http.MethodDelete, "/admin/cache", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	s, err := f.manager.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, s.Keys)
}

func TestIngest_DispatchesJob(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/admin/ingest", `{"category":" technology "}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"technology"}, f.jobs.hint)
}
