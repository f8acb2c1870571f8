package provider

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"gopkg.in/yaml.v3"
)

const (
	NewsAPI  = "news_api"
	Guardian = "guardian"
	NYTimes  = "ny_times"
)

const (
	EndpointTopHeadlines = "top_headlines"
	EndpointEverything   = "everything"
	EndpointSearch       = "search"
	EndpointTopStories   = "top_stories"
)

const defaultKeyParam = "api-key"

// Config describes one provider integration. It is read once when the
// provider client is constructed.
type Config struct {
	ID             string            `yaml:"id"`
	Name           string            `yaml:"name"`
	APIKey         string            `yaml:"api_key"`
	KeyParam       string            `yaml:"key_param"`
	BaseURL        string            `yaml:"base_url"`
	Endpoints      map[string]string `yaml:"endpoints"`
	DefaultParams  map[string]string `yaml:"default_params"`
	Enabled        *bool             `yaml:"enabled"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
}

type FileConfig struct {
	Providers []Config `yaml:"providers"`
}

func (c Config) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// IsAvailable reports whether the provider has the credentials and base URL
// needed to make requests.
func (c Config) IsAvailable() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.BaseURL) != ""
}

func (c Config) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

func (c Config) keyParam() string {
	if c.KeyParam != "" {
		return c.KeyParam
	}
	return defaultKeyParam
}

// Endpoint returns the configured path for name or an empty string.
func (c Config) Endpoint(name string) string {
	return c.Endpoints[name]
}

func (fc *FileConfig) Validate() error {
	if len(fc.Providers) == 0 {
		return apperr.NewValidation("no providers configured")
	}
	seen := make(map[string]bool, len(fc.Providers))
	for i, p := range fc.Providers {
		if strings.TrimSpace(p.ID) == "" {
			return apperr.NewValidation(fmt.Sprintf("provider %d: id is required", i))
		}
		if seen[p.ID] {
			return apperr.NewValidation(fmt.Sprintf("provider %s: duplicate id", p.ID))
		}
		seen[p.ID] = true
		if len(p.Endpoints) == 0 {
			return apperr.NewValidation(fmt.Sprintf("provider %s: at least one endpoint is required", p.ID))
		}
	}
	return nil
}

type YAMLConfigLoader struct {
	reader io.Reader
}

func NewYAMLConfigLoader(reader io.Reader) *YAMLConfigLoader {
	return &YAMLConfigLoader{
		reader: reader,
	}
}

func (cl *YAMLConfigLoader) Load(validate bool) (*FileConfig, error) {
	decoder := yaml.NewDecoder(cl.reader)
	var cfg FileConfig
	if err := decoder.Decode(&cfg); err != nil {
		return nil, apperr.NewValidationWrap("invalid providers file", err)
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// DefaultConfigs returns the built-in provider set without credentials.
func DefaultConfigs() []Config {
	return []Config{
		{
			ID:       NewsAPI,
			Name:     "News API",
			KeyParam: "apiKey",
			BaseURL:  "https://newsapi.org/v2",
			Endpoints: map[string]string{
				EndpointTopHeadlines: "top-headlines",
				EndpointEverything:   "everything",
			},
			DefaultParams: map[string]string{
				"pageSize": "50",
			},
		},
		{
			ID:      Guardian,
			Name:    "The Guardian",
			BaseURL: "https://content.guardianapis.com",
			Endpoints: map[string]string{
				EndpointSearch: "search",
			},
			DefaultParams: map[string]string{
				"page-size":   "50",
				"order-by":    "newest",
				"show-fields": "headline,trailText,body,thumbnail,byline",
			},
		},
		{
			ID:      NYTimes,
			Name:    "New York Times",
			BaseURL: "https://api.nytimes.com/svc",
			Endpoints: map[string]string{
				EndpointTopStories: "topstories/v2/home.json",
				EndpointSearch:     "search/v2/articlesearch.json",
			},
		},
	}
}

var envOverrides = map[string]struct{ key, baseURL string }{
	NewsAPI:  {key: "NEWSAPI_API_KEY", baseURL: "NEWSAPI_BASE_URL"},
	Guardian: {key: "GUARDIAN_API_KEY", baseURL: "GUARDIAN_BASE_URL"},
	NYTimes:  {key: "NYT_API_KEY", baseURL: "NYTIMES_BASE_URL"},
}

// ApplyEnv overrides api keys and base urls of known providers from the environment.
func ApplyEnv(cfgs []Config) []Config {
	out := make([]Config, len(cfgs))
	for i, c := range cfgs {
		if names, ok := envOverrides[c.ID]; ok {
			if v := os.Getenv(names.key); v != "" {
				c.APIKey = v
			}
			if v := os.Getenv(names.baseURL); v != "" {
				c.BaseURL = v
			}
		}
		out[i] = c
	}
	return out
}

// LoadEnv reads the provider set from PROVIDERS_CONFIG_PATH when it is set,
// otherwise uses DefaultConfigs, then applies environment overrides.
func LoadEnv() ([]Config, error) {
	path := os.Getenv("PROVIDERS_CONFIG_PATH")
	if path == "" {
		slog.Info("PROVIDERS_CONFIG_PATH is not set, using built-in provider config")
		return ApplyEnv(DefaultConfigs()), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open providers file: %w", err)
	}
	defer file.Close()

	fc, err := NewYAMLConfigLoader(file).Load(true)
	if err != nil {
		return nil, err
	}
	if fc == nil {
		return nil, errors.New("providers file is empty")
	}

	return ApplyEnv(fc.Providers), nil
}
