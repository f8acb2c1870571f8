package ingest

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

// resolver finds or creates the rows an article references and remembers
// them for the rest of the run.
type resolver struct {
	repo     storage.Repository
	notify   func(ctx context.Context, table string)
	sources  map[string]domain.Source
	authors  map[string]domain.Author
	category map[string]domain.Category
}

func newResolver(repo storage.Repository, notify func(ctx context.Context, table string)) *resolver {
	return &resolver{
		repo:     repo,
		notify:   notify,
		sources:  make(map[string]domain.Source),
		authors:  make(map[string]domain.Author),
		category: make(map[string]domain.Category),
	}
}

// source prefers the publisher named in the payload and falls back to the
// provider level source.
func (r *resolver) source(ctx context.Context, providerID, providerName string, draft domain.ArticleDraft) (domain.Source, error) {
	candidate := domain.NewProviderSource(providerID, providerName)
	if draft.HasPublisher() {
		candidate = domain.NewPublisherSource(providerID, draft.PublisherName)
	}

	if s, ok := r.sources[candidate.LookupKey]; ok {
		return s, nil
	}

	s, created, err := r.repo.FindOrCreateSource(ctx, candidate)
	if err != nil {
		return domain.Source{}, fmt.Errorf("resolve source %q: %w", candidate.LookupKey, err)
	}
	if created {
		r.notify(ctx, domain.TableSources)
	}
	r.sources[candidate.LookupKey] = s
	return s, nil
}

func (r *resolver) author(ctx context.Context, name string) (domain.Author, error) {
	if a, ok := r.authors[name]; ok {
		return a, nil
	}

	a, created, err := r.repo.FindOrCreateAuthor(ctx, name)
	if err != nil {
		return domain.Author{}, fmt.Errorf("resolve author %q: %w", name, err)
	}
	if created {
		r.notify(ctx, domain.TableAuthors)
	}
	r.authors[name] = a
	return a, nil
}

func (r *resolver) categoryFor(ctx context.Context, name string) (domain.Category, error) {
	if c, ok := r.category[name]; ok {
		return c, nil
	}

	c, created, err := r.repo.FindOrCreateCategory(ctx, domain.NewCategory(name))
	if err != nil {
		return domain.Category{}, fmt.Errorf("resolve category %q: %w", name, err)
	}
	if created {
		r.notify(ctx, domain.TableCategories)
	}
	r.category[name] = c
	return c, nil
}
