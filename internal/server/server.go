package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	mw "github.com/DjordjeVuckovic/news-aggregator/pkg/middleware"
	pkgserver "github.com/DjordjeVuckovic/news-aggregator/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const (
	GracefulShutdownTimeout = 10 * time.Second
	healthCheckTimeout      = 3 * time.Second
)

type Server struct {
	Echo *echo.Echo

	cfg      *Config
	checkers []pkgserver.HealthChecker
	ctx      context.Context
	stop     context.CancelFunc
}

func New(cfg *Config, checkers ...pkgserver.HealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.DisableHTTP2 = !cfg.UseHttp2

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &Server{
		Echo:     e,
		cfg:      cfg,
		checkers: checkers,
		ctx:      ctx,
		stop:     stop,
	}
}

// Context is cancelled when the process receives a shutdown signal.
func (s *Server) Context() context.Context {
	return s.ctx
}

func (s *Server) ShutdownSignal() <-chan struct{} {
	return s.ctx.Done()
}

func (s *Server) SetupMiddlewares() *Server {
	s.Echo.Use(mw.Logger(mw.WithSkipper(func(c echo.Context) bool {
		return c.Path() == "/health"
	})))
	s.Echo.Use(middleware.Recover())
	if s.cfg.RequestTimeout > 0 {
		s.Echo.Use(middleware.ContextTimeout(s.cfg.RequestTimeout))
	}
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.CorsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))
	return s
}

func (s *Server) SetupErrorHandler() *Server {
	s.Echo.HTTPErrorHandler = apperr.GlobalErrorHandler()
	return s
}

type healthResponse struct {
	Status string          `json:"status"`
	Checks map[string]bool `json:"checks"`
}

func (s *Server) SetupHealthChecks(path string) *Server {
	s.Echo.GET(path, func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]bool, len(s.checkers))}
		for _, hc := range s.checkers {
			healthy := hc.Healthy(ctx)
			resp.Checks[hc.Name()] = healthy
			if !healthy {
				resp.Status = "degraded"
			}
		}

		if resp.Status != "ok" {
			return c.JSON(http.StatusServiceUnavailable, resp)
		}
		return c.JSON(http.StatusOK, resp)
	})
	return s
}

func (s *Server) SetupOpenApi(path string) *Server {
	s.Echo.GET(path, echoSwagger.WrapHandler)
	return s
}

// AdminGroup returns the /admin group, guarded by a bearer token when one is
// configured.
func (s *Server) AdminGroup() *echo.Group {
	g := s.Echo.Group("/admin")
	if s.cfg.AdminToken != "" {
		g.Use(middleware.KeyAuth(func(key string, c echo.Context) (bool, error) {
			return key == s.cfg.AdminToken, nil
		}))
	}
	return g
}

// Start serves until a shutdown signal arrives, then drains connections.
func (s *Server) Start() error {
	defer s.stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting ops server", "port", s.cfg.Port)
		if err := s.Echo.Start(":" + s.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-s.ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	slog.Info("Shutting down ops server")
	return s.Echo.Shutdown(ctx)
}
