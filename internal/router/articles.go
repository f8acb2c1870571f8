package router

import (
	"net/http"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/cache"
	"github.com/DjordjeVuckovic/news-aggregator/internal/dto"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/labstack/echo/v4"
)

// ArticleRouter serves cached read endpoints backed by storage.Reader.
type ArticleRouter struct {
	e      *echo.Echo
	cache  *cache.Manager
	reader storage.Reader
}

func NewArticleRouter(e *echo.Echo, manager *cache.Manager, reader storage.Reader) *ArticleRouter {
	return &ArticleRouter{
		e:      e,
		cache:  manager,
		reader: reader,
	}
}

func (r *ArticleRouter) Bind() {
	g := r.e.Group("/api/v1")
	g.GET("/articles", r.listArticles)
	g.GET("/sources", r.listSources)
	g.GET("/stats", r.stats)
}

// listArticles godoc
// @Summary List articles
// @Description Newest articles first, served from the cache when possible
// @Tags articles
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Page size" default(20)
// @Success 200 {object} dto.ArticlePage
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/articles [get]
func (r *ArticleRouter) listArticles(c echo.Context) error {
	var page pagination.OffsetRequest
	if err := c.Bind(&page); err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}
	if err := page.Validate(); err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}

	result, err := cache.CachedArticlesPage(c.Request().Context(), r.cache, r.reader, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// listSources godoc
// @Summary List enabled sources
// @Tags sources
// @Produce json
// @Success 200 {object} dto.SourceList
// @Router /api/v1/sources [get]
func (r *ArticleRouter) listSources(c echo.Context) error {
	sources, err := cache.CachedEnabledSources(c.Request().Context(), r.cache, r.reader)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.SourceList{Items: sources})
}

// stats godoc
// @Summary Entity counts and cache statistics
// @Tags stats
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Router /api/v1/stats [get]
func (r *ArticleRouter) stats(c echo.Context) error {
	ctx := c.Request().Context()

	counts, err := cache.CachedCounts(ctx, r.cache, r.reader)
	if err != nil {
		return err
	}
	cacheStats, _ := r.cache.Stats(ctx)

	return c.JSON(http.StatusOK, dto.StatsResponse{Counts: counts, Cache: cacheStats})
}
