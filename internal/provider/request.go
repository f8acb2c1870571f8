package provider

import (
	"net/url"
	"strings"
)

// Request is one planned fetch against a provider endpoint.
type Request struct {
	EndpointName string
	Endpoint     string
	Params       url.Values
}

func isGeneralHint(hint string) bool {
	h := strings.TrimSpace(strings.ToLower(hint))
	return h == "" || h == "general"
}

// RequestFor plans the fetch for a category hint. NewsAPI and NYTimes switch
// to their query endpoints for a specific hint, the Guardian filters by section.
func (c Config) RequestFor(hint string) (Request, error) {
	hint = strings.TrimSpace(hint)
	params := url.Values{}

	var name string
	switch c.ID {
	case NewsAPI:
		if isGeneralHint(hint) {
			name = EndpointTopHeadlines
			params.Set("country", "us")
		} else {
			name = EndpointEverything
			params.Set("q", hint)
			params.Set("sortBy", "publishedAt")
			params.Set("language", "en")
		}
	case Guardian:
		name = EndpointSearch
		if !isGeneralHint(hint) {
			params.Set("section", strings.ToLower(hint))
		}
	case NYTimes:
		if isGeneralHint(hint) {
			name = EndpointTopStories
		} else {
			name = EndpointSearch
			params.Set("q", hint)
			params.Set("sort", "newest")
		}
	default:
		name = firstEndpoint(c.Endpoints)
		if !isGeneralHint(hint) {
			params.Set("q", hint)
		}
	}

	endpoint := c.Endpoint(name)
	if endpoint == "" {
		return Request{}, &ConfigurationError{Provider: c.ID, Details: "endpoint " + name + " is not configured"}
	}

	return Request{EndpointName: name, Endpoint: endpoint, Params: params}, nil
}

func firstEndpoint(endpoints map[string]string) string {
	for _, name := range []string{EndpointTopHeadlines, EndpointTopStories, EndpointSearch, EndpointEverything} {
		if _, ok := endpoints[name]; ok {
			return name
		}
	}
	for name := range endpoints {
		return name
	}
	return ""
}
