package collector

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/normalize"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
)

// Fetcher is the part of provider.Client the collector depends on.
type Fetcher interface {
	ID() string
	Name() string
	Config() provider.Config
	Fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error)
}

// Batch is the normalized output of one provider fetch. Endpoint and
// Provider are set on failed results as well.
type Batch struct {
	Provider     string
	ProviderName string
	Endpoint     string
	FetchedAt    time.Time
	Drafts       []domain.ArticleDraft
}

// ProviderCollector fetches and normalizes every provider concurrently and
// emits one result per provider.
type ProviderCollector struct {
	fetchers []Fetcher
	registry normalize.Registry
	hint     string
	clock    func() time.Time
}

type Option func(c *ProviderCollector)

func WithClock(clock func() time.Time) Option {
	return func(c *ProviderCollector) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithRegistry(registry normalize.Registry) Option {
	return func(c *ProviderCollector) {
		c.registry = registry
	}
}

func NewProviderCollector(fetchers []Fetcher, hint string, opts ...Option) *ProviderCollector {
	c := &ProviderCollector{
		fetchers: fetchers,
		registry: normalize.DefaultRegistry(),
		hint:     hint,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect starts one goroutine per provider. The channel is buffered for
// every provider and closed once all of them are done, so abandoning it
// never blocks a worker.
func (c *ProviderCollector) Collect(ctx context.Context) (<-chan Result[Batch], error) {
	results := make(chan Result[Batch], len(c.fetchers))

	var wg sync.WaitGroup
	for _, f := range c.fetchers {
		wg.Add(1)
		go func(f Fetcher) {
			defer wg.Done()
			results <- c.collectOne(ctx, f)
		}(f)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results, nil
}

func (c *ProviderCollector) collectOne(ctx context.Context, f Fetcher) Result[Batch] {
	batch := Batch{Provider: f.ID(), ProviderName: f.Name()}

	req, err := f.Config().RequestFor(c.hint)
	if err != nil {
		return Err(batch, err)
	}
	batch.Endpoint = req.Endpoint

	normalizer, ok := c.registry.For(f.ID())
	if !ok {
		return Err(batch, &provider.ConfigurationError{Provider: f.ID(), Details: "no normalizer registered"})
	}

	raw, err := f.Fetch(ctx, req.Endpoint, req.Params)
	if err != nil {
		return Err(batch, err)
	}

	batch.FetchedAt = c.clock().UTC()
	batch.Drafts = normalizer.Normalize(raw, batch.FetchedAt)

	slog.Info("Provider batch collected",
		"provider", batch.Provider,
		"endpoint", batch.Endpoint,
		"drafts", len(batch.Drafts),
	)
	return Ok(batch)
}
