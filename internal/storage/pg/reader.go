package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Reader struct {
	db *pgxpool.Pool
}

func NewReader(pool *ConnectionPool) *Reader {
	return &Reader{db: pool.conn}
}

func (r *Reader) Counts(ctx context.Context) (domain.Counts, error) {
	var c domain.Counts
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM articles),
			(SELECT COUNT(*) FROM sources),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM authors)
	`).Scan(&c.Articles, &c.Sources, &c.Categories, &c.Authors)
	if err != nil {
		return domain.Counts{}, fmt.Errorf("failed to count entities: %w", err)
	}
	return c, nil
}

func (r *Reader) ListArticles(ctx context.Context, page pagination.OffsetRequest) (*pagination.OffsetResult[domain.Article], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("Listing articles", "page", page.Page, "size", page.Size)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT
			a.id, a.title, a.slug, a.description, a.body, a.url, a.image_url,
			a.published_at, a.fetched_at, a.source_id, s.name,
			COALESCE(a.category_id, '00000000-0000-0000-0000-000000000000'::uuid), COALESCE(c.name, ''),
			COALESCE(au.names[1], ''), au.ids
		FROM articles a
		JOIN sources s ON s.id = a.source_id
		LEFT JOIN categories c ON c.id = a.category_id
		LEFT JOIN LATERAL (
			SELECT
				array_agg(x.name ORDER BY x.name) AS names,
				array_agg(aa.author_id ORDER BY x.name) AS ids
			FROM article_authors aa
			JOIN authors x ON x.id = aa.author_id
			WHERE aa.article_id = a.id
		) au ON TRUE
		ORDER BY a.published_at DESC, a.id DESC
		LIMIT $1 OFFSET $2
	`, page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}

	articles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Article, error) {
		var a domain.Article
		err := row.Scan(
			&a.ID, &a.Title, &a.Slug, &a.Description, &a.Body, &a.URL, &a.ImageURL,
			&a.PublishedAt, &a.FetchedAt, &a.SourceID, &a.SourceName,
			&a.CategoryID, &a.CategoryName,
			&a.AuthorName, &a.AuthorIDs,
		)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan articles: %w", err)
	}

	return pagination.NewOffsetResult(articles, total, page), nil
}

func (r *Reader) ListEnabledSources(ctx context.Context) ([]domain.Source, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, provider_id, kind, lookup_key, enabled
		FROM sources
		WHERE enabled
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}

	sources, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Source, error) {
		var s domain.Source
		var kind string
		err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.ProviderID, &kind, &s.LookupKey, &s.Enabled)
		s.Kind = domain.SourceKind(kind)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan sources: %w", err)
	}
	return sources, nil
}
