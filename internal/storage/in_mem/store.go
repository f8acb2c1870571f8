package in_mem

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/google/uuid"
)

// Store keeps every entity in maps keyed the same way the pg unique
// constraints are, so it can stand in for Postgres in tests and local runs.
type Store struct {
	lock sync.RWMutex

	articles      map[uuid.UUID]domain.Article
	articleByURL  map[string]uuid.UUID
	sources       map[string]domain.Source
	authors       map[string]domain.Author
	categories    map[string]domain.Category
	createArticle func(article domain.Article) error
}

type Option func(s *Store)

// WithCreateArticleHook runs fn before every article insert; a non-nil error
// aborts the insert and is returned to the caller.
func WithCreateArticleHook(fn func(article domain.Article) error) Option {
	return func(s *Store) {
		s.createArticle = fn
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		articles:     make(map[uuid.UUID]domain.Article),
		articleByURL: make(map[string]uuid.UUID),
		sources:      make(map[string]domain.Source),
		authors:      make(map[string]domain.Author),
		categories:   make(map[string]domain.Category),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) ArticleExists(ctx context.Context, url string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.lock.RLock()
	defer s.lock.RUnlock()

	_, ok := s.articleByURL[strings.TrimSpace(url)]
	return ok, nil
}

func (s *Store) CreateArticle(ctx context.Context, article domain.Article) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	if s.createArticle != nil {
		if err := s.createArticle(article); err != nil {
			return uuid.Nil, err
		}
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.articleByURL[article.URL]; ok {
		return uuid.Nil, storage.ErrDuplicate
	}
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	s.articles[article.ID] = article
	s.articleByURL[article.URL] = article.ID

	slog.Debug("Saved article to in-memory storage", "title", article.Title, "id", article.ID)
	return article.ID, nil
}

func (s *Store) FindOrCreateSource(ctx context.Context, source domain.Source) (domain.Source, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Source{}, false, err
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	if existing, ok := s.sources[source.LookupKey]; ok {
		return existing, false, nil
	}
	if source.ID == uuid.Nil {
		source.ID = uuid.New()
	}
	s.sources[source.LookupKey] = source
	return source, true, nil
}

func (s *Store) FindOrCreateAuthor(ctx context.Context, name string) (domain.Author, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Author{}, false, err
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	if existing, ok := s.authors[name]; ok {
		return existing, false, nil
	}
	author := domain.Author{ID: uuid.New(), Name: name}
	s.authors[name] = author
	return author, true, nil
}

func (s *Store) FindOrCreateCategory(ctx context.Context, category domain.Category) (domain.Category, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Category{}, false, err
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	if existing, ok := s.categories[category.Name]; ok {
		return existing, false, nil
	}
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	s.categories[category.Name] = category
	return category, true, nil
}

func (s *Store) Counts(ctx context.Context) (domain.Counts, error) {
	if err := ctx.Err(); err != nil {
		return domain.Counts{}, err
	}
	s.lock.RLock()
	defer s.lock.RUnlock()

	return domain.Counts{
		Articles:   int64(len(s.articles)),
		Sources:    int64(len(s.sources)),
		Categories: int64(len(s.categories)),
		Authors:    int64(len(s.authors)),
	}, nil
}

func (s *Store) ListArticles(ctx context.Context, page pagination.OffsetRequest) (*pagination.OffsetResult[domain.Article], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	s.lock.RLock()
	all := make([]domain.Article, 0, len(s.articles))
	for _, a := range s.articles {
		all = append(all, a)
	}
	s.lock.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].PublishedAt.Equal(all[j].PublishedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})

	start := min(page.Offset(), len(all))
	end := min(start+page.Size, len(all))

	return pagination.NewOffsetResult(all[start:end], int64(len(all)), page), nil
}

func (s *Store) ListEnabledSources(ctx context.Context) ([]domain.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.lock.RLock()
	defer s.lock.RUnlock()

	sources := make([]domain.Source, 0, len(s.sources))
	for _, src := range s.sources {
		if src.Enabled {
			sources = append(sources, src)
		}
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources, nil
}

func (s *Store) Close() {}
