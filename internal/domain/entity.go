package domain

// Table names double as cache tags for the entity kinds they hold.
const (
	TableArticles   = "articles"
	TableSources    = "sources"
	TableCategories = "categories"
	TableAuthors    = "authors"
)

// Counts aggregates row counts used by statistics and cache warm-up.
type Counts struct {
	Articles   int64 `json:"totalArticles"`
	Sources    int64 `json:"totalSources"`
	Categories int64 `json:"totalCategories"`
	Authors    int64 `json:"totalAuthors"`
}
