package normalize

import "time"

// Provider identifiers, kept in sync with the provider package config ids.
const (
	NewsAPIProvider  = "news_api"
	GuardianProvider = "guardian"
	NYTimesProvider  = "ny_times"
)

const nytimesMediaBase = "https://www.nytimes.com/"

// NewsAPI is the broad aggregator. Items carry the real publication under
// source.name and no category.
func NewsAPI() *SchemaNormalizer {
	return NewSchemaNormalizer(Schema{
		Provider:    NewsAPIProvider,
		ItemPaths:   []string{"articles"},
		Title:       Chain[string]{Text("title"), Text("headline.main"), Text("webTitle")},
		Description: Chain[string]{Text("description")},
		Body:        Chain[string]{Text("content")},
		URL:         Chain[string]{Text("url")},
		Image:       Chain[string]{Text("urlToImage")},
		PublishedAt: Chain[time.Time]{Date("publishedAt")},
		Author:      Chain[string]{Byline("author")},
		Publisher:   Chain[string]{Text("source.name")},
	})
}

func Guardian() *SchemaNormalizer {
	return NewSchemaNormalizer(Schema{
		Provider:    GuardianProvider,
		ItemPaths:   []string{"response.results"},
		Title:       Chain[string]{Text("title"), Text("headline.main"), Text("webTitle"), Text("fields.headline")},
		Description: Chain[string]{Text("fields.trailText")},
		Body:        Chain[string]{Text("fields.body")},
		URL:         Chain[string]{Text("webUrl")},
		Image:       Chain[string]{Text("fields.thumbnail")},
		PublishedAt: Chain[time.Time]{Date("webPublicationDate")},
		Author:      Chain[string]{Byline("fields.byline")},
		Category:    Chain[string]{Text("sectionName"), Text("section_name")},
	})
}

// NYTimes handles both top stories (results) and article search (response.docs).
func NYTimes() *SchemaNormalizer {
	return NewSchemaNormalizer(Schema{
		Provider:    NYTimesProvider,
		ItemPaths:   []string{"results", "response.docs"},
		Title:       Chain[string]{Text("title"), Text("headline.main"), Text("webTitle")},
		Description: Chain[string]{Text("abstract"), Text("snippet"), Text("lead_paragraph")},
		URL:         Chain[string]{Text("url"), Text("web_url")},
		Image:       Chain[string]{AbsoluteURL("multimedia.0.url", nytimesMediaBase)},
		PublishedAt: Chain[time.Time]{Date("published_date"), Date("pub_date")},
		Author:      Chain[string]{Byline("byline.original"), Byline("byline")},
		Category:    Chain[string]{Text("section"), Text("section_name"), Text("news_desk")},
	})
}
