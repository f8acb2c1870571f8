package cache

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
)

const (
	StatTotalArticles   = "total_articles"
	StatTotalSources    = "total_sources"
	StatTotalCategories = "total_categories"
	StatTotalAuthors    = "total_authors"

	ArticlesEndpoint      = "articles"
	EnabledSourcesID      = "enabled"
	warmUpArticlesPage    = 1
	warmUpArticlesPerPage = 20
)

type WarmUpOutcome struct {
	Key   string `json:"key"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type WarmUpReport struct {
	Outcomes []WarmUpOutcome `json:"outcomes"`
}

func (r WarmUpReport) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.OK {
			n++
		}
	}
	return n
}

// ArticlesPageParams are the query parameters an article listing page is
// cached under.
func ArticlesPageParams(page pagination.OffsetRequest) url.Values {
	return url.Values{
		"page":     {strconv.Itoa(page.Page)},
		"per_page": {strconv.Itoa(page.Size)},
	}
}

// CachedArticlesPage reads one listing page through the cache.
func CachedArticlesPage(ctx context.Context, m *Manager, reader storage.Reader, page pagination.OffsetRequest) (*pagination.OffsetResult[domain.Article], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	key := APIKey(ArticlesEndpoint, ArticlesPageParams(page))
	return RememberTagged(ctx, m, key, APIResponseTTL, []string{TagSources, TagCategories, TagAuthors},
		func(ctx context.Context) (*pagination.OffsetResult[domain.Article], error) {
			return reader.ListArticles(ctx, page)
		})
}

// CachedEnabledSources reads the enabled sources listing through the cache.
func CachedEnabledSources(ctx context.Context, m *Manager, reader storage.Reader) ([]domain.Source, error) {
	return RememberModel(ctx, m, domain.TableSources, EnabledSourcesID, reader.ListEnabledSources)
}

// CachedCounts reads every entity count through the stats cache.
func CachedCounts(ctx context.Context, m *Manager, reader storage.Reader) (domain.Counts, error) {
	var counts domain.Counts
	var err error

	for name, dst := range map[string]*int64{
		StatTotalArticles:   &counts.Articles,
		StatTotalSources:    &counts.Sources,
		StatTotalCategories: &counts.Categories,
		StatTotalAuthors:    &counts.Authors,
	} {
		*dst, err = RememberStats(ctx, m, name, countProducer(reader, name))
		if err != nil {
			return domain.Counts{}, err
		}
	}
	return counts, nil
}

func countProducer(reader storage.Reader, name string) Producer[int64] {
	return func(ctx context.Context) (int64, error) {
		c, err := reader.Counts(ctx)
		if err != nil {
			return 0, err
		}
		switch name {
		case StatTotalArticles:
			return c.Articles, nil
		case StatTotalSources:
			return c.Sources, nil
		case StatTotalCategories:
			return c.Categories, nil
		default:
			return c.Authors, nil
		}
	}
}

type warmUpTask struct {
	key string
	run func(ctx context.Context) error
}

// WarmUp populates the hot keys: entity counts, the first article listing
// page and the enabled sources. A failing key is reported and the rest still
// run.
func (m *Manager) WarmUp(ctx context.Context, reader storage.Reader) WarmUpReport {
	firstPage := pagination.OffsetRequest{Page: warmUpArticlesPage, Size: warmUpArticlesPerPage}

	var tasks []warmUpTask
	for _, name := range []string{StatTotalArticles, StatTotalSources, StatTotalCategories, StatTotalAuthors} {
		producer := countProducer(reader, name)
		tasks = append(tasks, warmUpTask{
			key: StatsKey(name),
			run: func(ctx context.Context) error {
				_, err := RememberStats(ctx, m, name, producer)
				return err
			},
		})
	}
	tasks = append(tasks,
		warmUpTask{
			key: APIKey(ArticlesEndpoint, ArticlesPageParams(firstPage)),
			run: func(ctx context.Context) error {
				_, err := CachedArticlesPage(ctx, m, reader, firstPage)
				return err
			},
		},
		warmUpTask{
			key: ModelKey(domain.TableSources, EnabledSourcesID),
			run: func(ctx context.Context) error {
				_, err := CachedEnabledSources(ctx, m, reader)
				return err
			},
		},
	)

	report := WarmUpReport{Outcomes: make([]WarmUpOutcome, 0, len(tasks))}
	for _, task := range tasks {
		outcome := WarmUpOutcome{Key: task.key, OK: true}
		if err := task.run(ctx); err != nil {
			outcome.OK = false
			outcome.Error = err.Error()
			slog.Warn("Cache warm-up failed for key", "key", task.key, "error", err)
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	slog.Info("Cache warm-up finished", "keys", len(report.Outcomes), "failed", report.Failed())
	return report
}
