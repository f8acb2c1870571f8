package router

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/cache"
	"github.com/DjordjeVuckovic/news-aggregator/internal/dto"
	"github.com/DjordjeVuckovic/news-aggregator/internal/ingest"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/labstack/echo/v4"
)

// Dispatcher starts an ingestion run in the background.
type Dispatcher interface {
	Dispatch(ctx context.Context, categoryHint string, done func(ingest.Report, error))
}

// AdminRouter exposes cache management and ingestion triggers.
type AdminRouter struct {
	g      *echo.Group
	ctx    context.Context
	cache  *cache.Manager
	reader storage.Reader
	jobs   Dispatcher
}

// NewAdminRouter binds to g. Background jobs run under ctx rather than the
// request context so they outlive the response.
func NewAdminRouter(ctx context.Context, g *echo.Group, manager *cache.Manager, reader storage.Reader, jobs Dispatcher) *AdminRouter {
	return &AdminRouter{
		g:      g,
		ctx:    ctx,
		cache:  manager,
		reader: reader,
		jobs:   jobs,
	}
}

func (r *AdminRouter) Bind() {
	r.g.POST("/cache/warmup", r.warmUp)
	r.g.POST("/cache/invalidate", r.invalidate)
	r.g.DELETE("/cache", r.clear)
	r.g.GET("/cache/stats", r.cacheStats)
	r.g.POST("/ingest", r.ingest)
}

// warmUp godoc
// @Summary Warm up hot cache keys
// @Tags admin
// @Produce json
// @Success 200 {object} cache.WarmUpReport
// @Router /admin/cache/warmup [post]
func (r *AdminRouter) warmUp(c echo.Context) error {
	report := r.cache.WarmUp(c.Request().Context(), r.reader)
	return c.JSON(http.StatusOK, report)
}

// invalidate godoc
// @Summary Invalidate cache tags or a table
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.InvalidateRequest true "Tags and/or table"
// @Success 200 {object} dto.InvalidateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/cache/invalidate [post]
func (r *AdminRouter) invalidate(c echo.Context) error {
	var req dto.InvalidateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	tags, err := cache.ResolveTags(req.Tags, req.Table)
	if err != nil {
		return err
	}

	if err := r.cache.InvalidateTags(c.Request().Context(), tags...); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.InvalidateResponse{Invalidated: tags})
}

// clear godoc
// @Summary Clear the whole cache
// @Tags admin
// @Success 204
// @Router /admin/cache [delete]
func (r *AdminRouter) clear(c echo.Context) error {
	if err := r.cache.ClearAll(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// cacheStats godoc
// @Summary Cache hit statistics
// @Tags admin
// @Produce json
// @Success 200 {object} cache.Stats
// @Router /admin/cache/stats [get]
func (r *AdminRouter) cacheStats(c echo.Context) error {
	stats, err := r.cache.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// ingest godoc
// @Summary Trigger an ingestion run
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.IngestRequest false "Optional category hint"
// @Success 202 {object} dto.IngestAccepted
// @Router /admin/ingest [post]
func (r *AdminRouter) ingest(c echo.Context) error {
	var req dto.IngestRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	category := strings.TrimSpace(req.Category)

	r.jobs.Dispatch(r.ctx, category, func(report ingest.Report, err error) {
		if err != nil {
			slog.Error("Background ingestion failed", "category", category, "error", err)
			return
		}
		slog.Info("Background ingestion finished", "category", category, "persisted", report.Persisted())
	})

	return c.JSON(http.StatusAccepted, dto.IngestAccepted{Status: "accepted", Category: category})
}
