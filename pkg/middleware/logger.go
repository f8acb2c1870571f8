package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type LoggerOpts func(*middleware.RequestLoggerConfig)

// WithSkipper excludes matching requests from the log, e.g. health probes.
func WithSkipper(skipper middleware.Skipper) LoggerOpts {
	return func(cfg *middleware.RequestLoggerConfig) {
		cfg.Skipper = skipper
	}
}

// Logger logs one line per request. 4xx responses are warnings and 5xx or
// handler errors are errors.
func Logger(opts ...LoggerOpts) echo.MiddlewareFunc {
	cfg := middleware.RequestLoggerConfig{
		LogStatus:     true,
		LogLatency:    true,
		LogMethod:     true,
		LogURI:        true,
		LogRoutePath:  true,
		LogRemoteIP:   true,
		LogError:      true,
		HandleError:   true,
		LogValuesFunc: logRequest,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return middleware.RequestLoggerWithConfig(cfg)
}

func logRequest(c echo.Context, v middleware.RequestLoggerValues) error {
	attrs := []slog.Attr{
		slog.String("method", v.Method),
		slog.String("uri", v.URI),
		slog.String("route", v.RoutePath),
		slog.Int("status", v.Status),
		slog.Int64("latency_ms", v.Latency.Milliseconds()),
		slog.String("remote_ip", v.RemoteIP),
	}

	level, msg := slog.LevelInfo, "HTTP request"
	switch {
	case v.Error != nil || v.Status >= http.StatusInternalServerError:
		level, msg = slog.LevelError, "HTTP request failed"
		if v.Error != nil {
			attrs = append(attrs, slog.String("error", v.Error.Error()))
		}
	case v.Status >= http.StatusBadRequest:
		level = slog.LevelWarn
	}

	slog.LogAttrs(context.Background(), level, msg, attrs...)
	return nil
}
