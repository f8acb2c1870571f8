package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *ConnectionPool) *Repository {
	return &Repository{db: pool.conn}
}

func (r *Repository) ArticleExists(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM articles WHERE url = $1)`,
		strings.TrimSpace(url),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check article existence: %w", err)
	}
	return exists, nil
}

// CreateArticle inserts the article and its author links in one transaction.
// A conflicting url yields storage.ErrDuplicate.
func (r *Repository) CreateArticle(ctx context.Context, article domain.Article) (uuid.UUID, error) {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cmd := `
		INSERT INTO articles (id, title, slug, description, body, url, image_url, published_at, fetched_at, source_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (url) DO NOTHING
		RETURNING id;
	`
	var id uuid.UUID
	err = tx.QueryRow(ctx, cmd,
		article.ID,
		article.Title,
		article.Slug,
		article.Description,
		article.Body,
		article.URL,
		article.ImageURL,
		article.PublishedAt,
		article.FetchedAt,
		article.SourceID,
		nullableID(article.CategoryID),
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, storage.ErrDuplicate
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert article: %w", err)
	}

	for _, authorID := range article.AuthorIDs {
		if authorID == uuid.Nil {
			continue
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO article_authors (article_id, author_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, authorID,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to link author: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit article: %w", err)
	}
	return id, nil
}

func (r *Repository) FindOrCreateSource(ctx context.Context, source domain.Source) (domain.Source, bool, error) {
	if source.ID == uuid.Nil {
		source.ID = uuid.New()
	}

	created := source
	err := r.db.QueryRow(ctx, `
		INSERT INTO sources (id, name, slug, provider_id, kind, lookup_key, enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (lookup_key) DO NOTHING
		RETURNING id;
	`,
		source.ID, source.Name, source.Slug, source.ProviderID, string(source.Kind), source.LookupKey, source.Enabled,
	).Scan(&created.ID)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Source{}, false, fmt.Errorf("failed to insert source: %w", err)
	}

	var existing domain.Source
	var kind string
	err = r.db.QueryRow(ctx, `
		SELECT id, name, slug, provider_id, kind, lookup_key, enabled
		FROM sources WHERE lookup_key = $1
	`, source.LookupKey).Scan(
		&existing.ID, &existing.Name, &existing.Slug, &existing.ProviderID, &kind, &existing.LookupKey, &existing.Enabled,
	)
	if err != nil {
		return domain.Source{}, false, fmt.Errorf("failed to load source %q: %w", source.LookupKey, err)
	}
	existing.Kind = domain.SourceKind(kind)
	return existing, false, nil
}

func (r *Repository) FindOrCreateAuthor(ctx context.Context, name string) (domain.Author, bool, error) {
	author := domain.Author{ID: uuid.New(), Name: name}

	err := r.db.QueryRow(ctx,
		`INSERT INTO authors (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING RETURNING id`,
		author.ID, author.Name,
	).Scan(&author.ID)
	if err == nil {
		return author, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Author{}, false, fmt.Errorf("failed to insert author: %w", err)
	}

	err = r.db.QueryRow(ctx, `SELECT id, name FROM authors WHERE name = $1`, name).Scan(&author.ID, &author.Name)
	if err != nil {
		return domain.Author{}, false, fmt.Errorf("failed to load author %q: %w", name, err)
	}
	return author, false, nil
}

func (r *Repository) FindOrCreateCategory(ctx context.Context, category domain.Category) (domain.Category, bool, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (id, name, slug, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING
		RETURNING id;
	`, category.ID, category.Name, category.Slug, category.Description).Scan(&category.ID)
	if err == nil {
		return category, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Category{}, false, fmt.Errorf("failed to insert category: %w", err)
	}

	var existing domain.Category
	err = r.db.QueryRow(ctx,
		`SELECT id, name, slug, description FROM categories WHERE name = $1`, category.Name,
	).Scan(&existing.ID, &existing.Name, &existing.Slug, &existing.Description)
	if err != nil {
		return domain.Category{}, false, fmt.Errorf("failed to load category %q: %w", category.Name, err)
	}
	return existing, false, nil
}

func nullableID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
