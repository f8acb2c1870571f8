package cache

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
)

// Invalidator flushes cache tags when stored entities change.
type Invalidator struct {
	manager *Manager
}

func NewInvalidator(manager *Manager) *Invalidator {
	return &Invalidator{manager: manager}
}

// EntityChanged flushes the table tag together with articles and stats.
// Failures are logged, ingestion carries on.
func (i *Invalidator) EntityChanged(ctx context.Context, table string) {
	tags := []string{TagArticles, TagStats}
	if tag, ok := TagForTable(table); ok {
		tags = append([]string{tag}, tags...)
	}

	if err := i.manager.InvalidateTags(ctx, lo.Uniq(tags)...); err != nil {
		slog.Warn("Cache invalidation after mutation failed", "table", table, "error", err)
	}
}
