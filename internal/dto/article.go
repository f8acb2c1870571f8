package dto

import (
	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/cache"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/ingest"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
)

// ArticlePage is a page of canonical articles, newest first.
type ArticlePage = pagination.OffsetResult[domain.Article]

type SourceList struct {
	Items []domain.Source `json:"items"`
}

type StatsResponse struct {
	Counts domain.Counts `json:"counts"`
	Cache  cache.Stats   `json:"cache"`
}

type InvalidateRequest struct {
	Tags  []string `json:"tags"`
	Table string   `json:"table"`
}

type InvalidateResponse struct {
	Invalidated []string `json:"invalidated"`
}

type IngestRequest struct {
	Category string `json:"category" query:"category"`
}

type IngestAccepted struct {
	Status   string `json:"status"`
	Category string `json:"category"`
}

type IngestReport = ingest.Report

type ErrorResponse = apperr.ErrorBody
