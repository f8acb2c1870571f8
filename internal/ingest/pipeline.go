package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/collector"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/normalize"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

// MutationListener is told about every entity row the pipeline creates.
type MutationListener interface {
	EntityChanged(ctx context.Context, table string)
}

// Aggregator runs fetch, normalize, dedupe and persist across providers.
// A failing provider is reported and skipped; the others still run.
type Aggregator struct {
	fetchers  []collector.Fetcher
	repo      storage.Repository
	registry  normalize.Registry
	listeners []MutationListener
	clock     func() time.Time
}

type Option func(a *Aggregator)

func WithMutationListener(l MutationListener) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.listeners = append(a.listeners, l)
		}
	}
}

func WithRegistry(registry normalize.Registry) Option {
	return func(a *Aggregator) {
		a.registry = registry
	}
}

func WithClock(clock func() time.Time) Option {
	return func(a *Aggregator) {
		if clock != nil {
			a.clock = clock
		}
	}
}

func NewAggregator(fetchers []collector.Fetcher, repo storage.Repository, opts ...Option) *Aggregator {
	a := &Aggregator{
		fetchers: fetchers,
		repo:     repo,
		registry: normalize.DefaultRegistry(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RunIngestion runs the pipeline and returns the number of new articles.
func (a *Aggregator) RunIngestion(ctx context.Context, categoryHint string) int {
	report, _ := a.Run(ctx, categoryHint)
	return report.Persisted()
}

// Run returns the per-provider report. The error is non-nil only when ctx
// ended the run early; whatever was persisted until then stays.
func (a *Aggregator) Run(ctx context.Context, categoryHint string) (Report, error) {
	start := a.clock()
	report := Report{Category: categoryHint, StartedAt: start}

	slog.Info("Starting ingestion run", "providers", len(a.fetchers), "category", categoryHint)

	c := collector.NewProviderCollector(a.fetchers, categoryHint,
		collector.WithRegistry(a.registry),
		collector.WithClock(a.clock),
	)
	results, err := c.Collect(ctx)
	if err != nil {
		return report, err
	}

	res := newResolver(a.repo, a.notify)
	byProvider := make(map[string]ProviderReport, len(a.fetchers))

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			break loop
		case r, ok := <-results:
			if !ok {
				break loop
			}
			if r.IsErr() {
				byProvider[r.Result.Provider] = a.providerFailed(r)
				continue
			}
			pr, err := a.persistBatch(ctx, res, r.Result)
			byProvider[r.Result.Provider] = pr
			if err != nil {
				runErr = err
				break loop
			}
		}
	}

	if runErr == nil && ctx.Err() != nil {
		runErr = ctx.Err()
	}

	for _, f := range a.fetchers {
		if pr, ok := byProvider[f.ID()]; ok {
			report.Providers = append(report.Providers, pr)
		}
	}
	report.Duration = a.clock().Sub(start)

	slog.Info("Ingestion run completed",
		"category", categoryHint,
		"persisted", report.Persisted(),
		"failed_providers", len(report.Errors()),
		"duration", report.Duration,
		"error", runErr,
	)
	return report, runErr
}

func (a *Aggregator) providerFailed(r collector.Result[collector.Batch]) ProviderReport {
	kind := provider.Kind(r.Err)
	slog.Error("Provider fetch failed",
		"provider", r.Result.Provider,
		"endpoint", r.Result.Endpoint,
		"kind", kind,
		"error", r.Err,
	)
	return ProviderReport{
		Provider:  r.Result.Provider,
		Name:      r.Result.ProviderName,
		Endpoint:  r.Result.Endpoint,
		ErrorKind: kind,
		Error:     r.Err.Error(),
	}
}

// persistBatch stores the drafts of one provider in order. Only context
// cancellation stops it early.
func (a *Aggregator) persistBatch(ctx context.Context, res *resolver, batch collector.Batch) (ProviderReport, error) {
	pr := ProviderReport{
		Provider: batch.Provider,
		Name:     batch.ProviderName,
		Endpoint: batch.Endpoint,
		Fetched:  len(batch.Drafts),
	}

	for _, draft := range batch.Drafts {
		if err := ctx.Err(); err != nil {
			return pr, err
		}

		switch err := a.persistDraft(ctx, res, batch, draft); {
		case err == nil:
			pr.Persisted++
		case errors.Is(err, storage.ErrDuplicate):
			pr.Duplicates++
		case isValidation(err):
			pr.Invalid++
			slog.Warn("Skipping invalid article", "provider", batch.Provider, "error", err)
		default:
			if ctx.Err() != nil {
				return pr, ctx.Err()
			}
			pr.Failed++
			slog.Error("Failed to persist article", "provider", batch.Provider, "url", draft.URL, "error", err)
		}
	}

	slog.Info("Provider batch persisted",
		"provider", pr.Provider,
		"fetched", pr.Fetched,
		"persisted", pr.Persisted,
		"duplicates", pr.Duplicates,
		"invalid", pr.Invalid,
		"failed", pr.Failed,
	)
	return pr, nil
}

func (a *Aggregator) persistDraft(ctx context.Context, res *resolver, batch collector.Batch, draft domain.ArticleDraft) error {
	if err := draft.Validate(); err != nil {
		return err
	}

	exists, err := a.repo.ArticleExists(ctx, draft.URL)
	if err != nil {
		return apperr.NewPersist(batch.Provider, draft.URL, err)
	}
	if exists {
		return storage.ErrDuplicate
	}

	source, err := res.source(ctx, batch.Provider, batch.ProviderName, draft)
	if err != nil {
		return apperr.NewPersist(batch.Provider, draft.URL, err)
	}
	author, err := res.author(ctx, draft.AuthorName)
	if err != nil {
		return apperr.NewPersist(batch.Provider, draft.URL, err)
	}
	category, err := res.categoryFor(ctx, draft.CategoryName)
	if err != nil {
		return apperr.NewPersist(batch.Provider, draft.URL, err)
	}

	article := domain.NewArticle(draft, batch.FetchedAt, source, category, author)
	if _, err := a.repo.CreateArticle(ctx, article); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return err
		}
		return apperr.NewPersist(batch.Provider, draft.URL, err)
	}

	a.notify(ctx, domain.TableArticles)
	return nil
}

func (a *Aggregator) notify(ctx context.Context, table string) {
	for _, l := range a.listeners {
		l.EntityChanged(ctx, table)
	}
}

func isValidation(err error) bool {
	var ve *apperr.ValidationError
	return errors.As(err, &ve)
}
