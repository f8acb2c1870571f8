package normalize

import (
	"log/slog"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/tidwall/gjson"
)

// Normalizer maps one provider's raw response into article drafts.
// Implementations never fail: missing fields degrade to defaults.
type Normalizer interface {
	Normalize(raw []byte, fetchedAt time.Time) []domain.ArticleDraft
}

// Schema lists, per canonical attribute, the ordered source fields of one provider.
type Schema struct {
	Provider string
	// ItemPaths are tried in order; the first one holding an array is used.
	ItemPaths []string

	Title       Chain[string]
	Description Chain[string]
	Body        Chain[string]
	URL         Chain[string]
	Image       Chain[string]
	PublishedAt Chain[time.Time]
	Author      Chain[string]
	Category    Chain[string]
	Publisher   Chain[string]
}

type SchemaNormalizer struct {
	schema Schema
}

func NewSchemaNormalizer(schema Schema) *SchemaNormalizer {
	return &SchemaNormalizer{schema: schema}
}

func (n *SchemaNormalizer) Normalize(raw []byte, fetchedAt time.Time) []domain.ArticleDraft {
	if !gjson.ValidBytes(raw) {
		slog.Warn("Skipping malformed provider response", "provider", n.schema.Provider, "bytes", len(raw))
		return nil
	}

	items := n.items(gjson.ParseBytes(raw))
	drafts := make([]domain.ArticleDraft, 0, len(items))
	for _, item := range items {
		if !item.IsObject() {
			continue
		}
		drafts = append(drafts, n.draft(item, fetchedAt))
	}

	return drafts
}

func (n *SchemaNormalizer) items(root gjson.Result) []gjson.Result {
	for _, p := range n.schema.ItemPaths {
		if r := root.Get(p); r.IsArray() {
			return r.Array()
		}
	}
	return nil
}

func (n *SchemaNormalizer) draft(item gjson.Result, fetchedAt time.Time) domain.ArticleDraft {
	s := n.schema
	return domain.ArticleDraft{
		Provider:      s.Provider,
		Title:         s.Title.ResolveOr(item, domain.ArticleDefaultTitle),
		Description:   optional(s.Description.Resolve(item)),
		Body:          optional(s.Body.Resolve(item)),
		URL:           strings.TrimSpace(s.URL.ResolveOr(item, "")),
		ImageURL:      optional(s.Image.Resolve(item)),
		PublishedAt:   s.PublishedAt.ResolveOr(item, fetchedAt.UTC()),
		AuthorName:    s.Author.ResolveOr(item, domain.ArticleDefaultAuthor),
		CategoryName:  s.Category.ResolveOr(item, domain.ArticleDefaultCategory),
		PublisherName: s.Publisher.ResolveOr(item, ""),
	}
}

func optional(v string, ok bool) *string {
	if !ok {
		return nil
	}
	return &v
}

// Registry resolves the normalizer for a provider identifier.
type Registry map[string]Normalizer

func DefaultRegistry() Registry {
	return Registry{
		NewsAPIProvider:  NewsAPI(),
		GuardianProvider: Guardian(),
		NYTimesProvider:  NYTimes(),
	}
}

func (r Registry) For(provider string) (Normalizer, bool) {
	n, ok := r[provider]
	return n, ok
}
