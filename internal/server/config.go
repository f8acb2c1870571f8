package server

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/pkg/stringsutil"
)

const defaultRequestTimeout = 30 * time.Second

type Config struct {
	Port           string
	UseHttp2       bool
	CorsOrigins    []string
	AdminToken     string
	RequestTimeout time.Duration
}

// LoadConfig reads the ops server settings. Dotenv files are loaded by the
// caller before this runs.
func LoadConfig() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	timeout := defaultRequestTimeout
	if raw := os.Getenv("REQUEST_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT value: %s", raw)
		}
		timeout = d
	}

	origins := stringsutil.SplitTrim(os.Getenv("CORS_ORIGINS"), ",")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Config{
		Port:           port,
		UseHttp2:       os.Getenv("USE_HTTP2") == "true",
		CorsOrigins:    origins,
		AdminToken:     strings.TrimSpace(os.Getenv("ADMIN_TOKEN")),
		RequestTimeout: timeout,
	}, nil
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New("port must be a number")
	}
	if n < 1 || n > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	return nil
}
