package main

import (
	"context"
	"log/slog"
	"net/http"

	_ "github.com/DjordjeVuckovic/news-aggregator/docs"
	"github.com/DjordjeVuckovic/news-aggregator/internal/router"
	"github.com/DjordjeVuckovic/news-aggregator/internal/server"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/pg"
	pkgserver "github.com/DjordjeVuckovic/news-aggregator/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var warmUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ops HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			sCfg, err := server.LoadConfig()
			if err != nil {
				return err
			}

			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}

			checkers := []pkgserver.HealthChecker{
				pkgserver.NewOkHealthChecker(),
				pkgserver.NewCheckFunc("cache", func(ctx context.Context) error {
					_, err := a.cache.Stats(ctx)
					return err
				}),
			}
			if a.pool != nil {
				checkers = append(checkers, pg.NewHealthChecker(a.pool))
			}

			s := server.New(sCfg, checkers...).
				SetupMiddlewares().
				SetupErrorHandler().
				SetupHealthChecks("/health").
				SetupOpenApi("/swagger/*")

			s.Echo.GET("/", func(c echo.Context) error {
				return c.String(http.StatusOK, "News Aggregator API is running")
			})

			router.NewArticleRouter(s.Echo, a.cache, a.store).Bind()
			router.NewAdminRouter(s.Context(), s.AdminGroup(), a.cache, a.store, a.job).Bind()

			if warmUp {
				report := a.cache.WarmUp(s.Context(), a.store)
				slog.Info("Startup cache warm-up finished", "keys", len(report.Outcomes), "failed", report.Failed())
			}

			go func() {
				<-s.ShutdownSignal()
				slog.Info("Shutdown started, cleaning up resources...")
			}()

			return s.Start()
		},
	}

	cmd.Flags().BoolVar(&warmUp, "warm-up", true, "Warm up the cache before accepting requests")

	return cmd
}
