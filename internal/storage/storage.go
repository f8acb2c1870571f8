package storage

import (
	"context"
	"errors"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/google/uuid"
)

type Type string

const (
	PG    Type = "pg"
	InMem Type = "in_mem"
)

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storage type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}

// ErrDuplicate is returned by CreateArticle when an article with the same
// url is already stored.
var ErrDuplicate = errors.New("storage: duplicate article url")

// Repository is the write side used by ingestion. FindOrCreate methods report
// whether a new row was inserted.
type Repository interface {
	ArticleExists(ctx context.Context, url string) (bool, error)
	CreateArticle(ctx context.Context, article domain.Article) (uuid.UUID, error)
	FindOrCreateSource(ctx context.Context, source domain.Source) (domain.Source, bool, error)
	FindOrCreateAuthor(ctx context.Context, name string) (domain.Author, bool, error)
	FindOrCreateCategory(ctx context.Context, category domain.Category) (domain.Category, bool, error)
}

// Reader serves listings and statistics; articles are ordered newest first.
type Reader interface {
	Counts(ctx context.Context) (domain.Counts, error)
	ListArticles(ctx context.Context, page pagination.OffsetRequest) (*pagination.OffsetResult[domain.Article], error)
	ListEnabledSources(ctx context.Context) ([]domain.Source, error)
}

type Store interface {
	Repository
	Reader
	Close()
}
