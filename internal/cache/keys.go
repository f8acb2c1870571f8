package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/samber/lo"
)

const (
	TagArticles     = domain.TableArticles
	TagSources      = domain.TableSources
	TagCategories   = domain.TableCategories
	TagAuthors      = domain.TableAuthors
	TagAPIResponses = "api_responses"
	TagStats        = "stats"

	statsPrefix = "stats:"
)

var tableTags = map[string]string{
	domain.TableArticles:   TagArticles,
	domain.TableSources:    TagSources,
	domain.TableCategories: TagCategories,
	domain.TableAuthors:    TagAuthors,
}

// KnownTags lists every tag the manager writes.
func KnownTags() []string {
	return []string{TagArticles, TagSources, TagCategories, TagAuthors, TagAPIResponses, TagStats}
}

// TagForTable resolves an entity table to its cache tag.
func TagForTable(table string) (string, bool) {
	tag, ok := tableTags[table]
	return tag, ok
}

// ResolveTags merges explicit tags with the tag of table and rejects
// anything the manager does not write.
func ResolveTags(tags []string, table string) ([]string, error) {
	resolved := lo.Uniq(lo.Without(lo.Map(tags, func(t string, _ int) string { return strings.TrimSpace(t) }), ""))
	if table = strings.TrimSpace(table); table != "" {
		tag, ok := TagForTable(table)
		if !ok {
			return nil, apperr.NewValidation("unknown table: " + table)
		}
		resolved = lo.Uniq(append(resolved, tag))
	}
	if len(resolved) == 0 {
		return nil, apperr.NewValidation("tags or table is required")
	}
	if unknown := lo.Without(resolved, KnownTags()...); len(unknown) > 0 {
		return nil, apperr.NewValidation("unknown tags: " + strings.Join(unknown, ", "))
	}
	return resolved, nil
}

// APIKey returns "api:<endpoint>:<md5 of the sorted query string>".
func APIKey(endpoint string, params url.Values) string {
	sum := md5.Sum([]byte(params.Encode()))
	return fmt.Sprintf("api:%s:%s", endpoint, hex.EncodeToString(sum[:]))
}

func StatsKey(name string) string {
	if strings.HasPrefix(name, statsPrefix) {
		return name
	}
	return statsPrefix + name
}

func ModelKey(table, id string) string {
	return fmt.Sprintf("model:%s:%s", table, id)
}

// entityTags returns the entity tags named by the segments of key, so
// "api:articles:<hash>" is flushed together with the articles tag.
func entityTags(key string) []string {
	segments := lo.Uniq(strings.Split(key, ":"))
	return lo.FilterMap(segments, func(segment string, _ int) (string, bool) {
		return TagForTable(segment)
	})
}
