package domain

import (
	"fmt"

	"github.com/DjordjeVuckovic/news-aggregator/pkg/stringsutil"
	"github.com/google/uuid"
)

type SourceKind string

const (
	// SourceKindProvider is the service-level fallback source, one per provider.
	SourceKindProvider SourceKind = "provider"
	// SourceKindPublisher is a real publication named inside a provider payload.
	SourceKindPublisher SourceKind = "publisher"
)

type Source struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Slug       string     `json:"slug"`
	ProviderID string     `json:"providerId"`
	Kind       SourceKind `json:"kind"`
	LookupKey  string     `json:"-"`
	Enabled    bool       `json:"enabled"`
}

func NewProviderSource(providerID, displayName string) Source {
	return Source{
		Name:       displayName,
		Slug:       stringsutil.Slugify(displayName),
		ProviderID: providerID,
		Kind:       SourceKindProvider,
		LookupKey:  fmt.Sprintf("%s:%s", SourceKindProvider, providerID),
		Enabled:    true,
	}
}

func NewPublisherSource(providerID, publisherName string) Source {
	slug := stringsutil.Slugify(publisherName)
	return Source{
		Name:       publisherName,
		Slug:       slug,
		ProviderID: providerID,
		Kind:       SourceKindPublisher,
		LookupKey:  fmt.Sprintf("%s:%s", SourceKindPublisher, slug),
		Enabled:    true,
	}
}

type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
}

func NewCategory(name string) Category {
	return Category{
		Name:        name,
		Slug:        stringsutil.Slugify(name),
		Description: "Category: " + name,
	}
}

type Author struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
