package domain

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/stringsutil"
	"github.com/google/uuid"
)

const (
	ArticleDefaultTitle    = "Untitled"
	ArticleDefaultAuthor   = "Unknown"
	ArticleDefaultCategory = "General"
)

// Article is the canonical record every provider payload is mapped into.
// URL is the deduplication key and is unique across stored articles.
type Article struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Description *string     `json:"description,omitempty"`
	Body        *string     `json:"body,omitempty"`
	URL         string      `json:"url"`
	ImageURL    *string     `json:"imageUrl,omitempty"`
	PublishedAt time.Time   `json:"publishedAt"`
	FetchedAt   time.Time   `json:"fetchedAt"`
	SourceID    uuid.UUID   `json:"sourceId"`
	CategoryID  uuid.UUID   `json:"categoryId"`
	AuthorIDs   []uuid.UUID `json:"authorIds,omitempty"`

	SourceName   string `json:"sourceName"`
	AuthorName   string `json:"authorName"`
	CategoryName string `json:"categoryName"`
}

// ArticleDraft is a normalized article whose source, author and category
// have not been resolved to stored rows yet.
type ArticleDraft struct {
	Provider      string
	Title         string
	Description   *string
	Body          *string
	URL           string
	ImageURL      *string
	PublishedAt   time.Time
	AuthorName    string
	CategoryName  string
	PublisherName string
}

func (d ArticleDraft) Validate() error {
	if strings.TrimSpace(d.URL) == "" {
		return apperr.NewValidation("article url is required")
	}
	return nil
}

// HasPublisher reports whether the payload named a real publication.
func (d ArticleDraft) HasPublisher() bool {
	return strings.TrimSpace(d.PublisherName) != ""
}

const articleSlugMaxLen = 80

// ArticleSlug builds "<slug(title)>-<unix>-<url hash>". The url hash keeps
// slugs unique for articles sharing a title within the same second.
func ArticleSlug(title, url string, fetchedAt time.Time) string {
	base := stringsutil.Slugify(title)
	if len(base) > articleSlugMaxLen {
		base = strings.TrimRight(base[:articleSlugMaxLen], "-")
	}
	if base == "" {
		base = stringsutil.Slugify(ArticleDefaultTitle)
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(url))

	return fmt.Sprintf("%s-%d-%08x", base, fetchedAt.Unix(), h.Sum32())
}

// NewArticle binds a draft to its resolved source, category and author.
func NewArticle(d ArticleDraft, fetchedAt time.Time, source Source, category Category, author Author) Article {
	return Article{
		ID:           uuid.New(),
		Title:        d.Title,
		Slug:         ArticleSlug(d.Title, d.URL, fetchedAt),
		Description:  d.Description,
		Body:         d.Body,
		URL:          strings.TrimSpace(d.URL),
		ImageURL:     d.ImageURL,
		PublishedAt:  d.PublishedAt,
		FetchedAt:    fetchedAt,
		SourceID:     source.ID,
		CategoryID:   category.ID,
		AuthorIDs:    []uuid.UUID{author.ID},
		SourceName:   source.Name,
		AuthorName:   author.Name,
		CategoryName: category.Name,
	}
}
