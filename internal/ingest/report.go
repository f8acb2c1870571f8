package ingest

import (
	"time"

	"github.com/samber/lo"
)

// ProviderReport counts what happened to one provider's drafts in a run.
type ProviderReport struct {
	Provider   string `json:"provider"`
	Name       string `json:"name"`
	Endpoint   string `json:"endpoint"`
	Fetched    int    `json:"fetched"`
	Persisted  int    `json:"persisted"`
	Duplicates int    `json:"duplicates"`
	Invalid    int    `json:"invalid"`
	Failed     int    `json:"failed"`
	ErrorKind  string `json:"errorKind,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (p ProviderReport) OK() bool {
	return p.Error == ""
}

type Report struct {
	Category  string           `json:"category"`
	StartedAt time.Time        `json:"startedAt"`
	Duration  time.Duration    `json:"duration"`
	Providers []ProviderReport `json:"providers"`
}

// Persisted is the number of new articles stored across providers.
func (r Report) Persisted() int {
	return lo.SumBy(r.Providers, func(p ProviderReport) int { return p.Persisted })
}

// Errors returns the providers that failed to fetch.
func (r Report) Errors() []ProviderReport {
	return lo.Filter(r.Providers, func(p ProviderReport, _ int) bool { return !p.OK() })
}
