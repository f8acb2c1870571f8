package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/cache"
	"github.com/DjordjeVuckovic/news-aggregator/internal/collector"
	"github.com/DjordjeVuckovic/news-aggregator/internal/ingest"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func renderIngestReport(report ingest.Report) string {
	headers := []string{"Provider", "Endpoint", "Fetched", "Persisted", "Duplicates", "Invalid", "Failed", "Error"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(report.Providers)+1)
	for _, p := range report.Providers {
		errText := ""
		if !p.OK() {
			errText = fmt.Sprintf("%s: %s", p.ErrorKind, p.Error)
		}
		rows = append(rows, []string{
			p.Provider,
			p.Endpoint,
			strconv.Itoa(p.Fetched),
			strconv.Itoa(p.Persisted),
			strconv.Itoa(p.Duplicates),
			strconv.Itoa(p.Invalid),
			strconv.Itoa(p.Failed),
			errText,
		})
	}
	rows = append(rows, []string{"total", "", "", strconv.Itoa(report.Persisted()), "", "", "", ""})

	return renderTable(headers, rows, aligns)
}

func renderWarmUpReport(report cache.WarmUpReport) string {
	rows := make([][]string, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		status := "ok"
		if !o.OK {
			status = "failed"
		}
		rows = append(rows, []string{o.Key, status, o.Error})
	}
	return renderTable([]string{"Key", "Status", "Error"}, rows, []columnAlignment{alignLeft, alignLeft, alignLeft})
}

func renderCacheStats(stats cache.Stats) string {
	rows := [][]string{
		{"Hits", strconv.FormatInt(stats.Hits, 10)},
		{"Misses", strconv.FormatInt(stats.Misses, 10)},
		{"Hit rate", fmt.Sprintf("%.2f%%", stats.HitRate)},
		{"Keys", strconv.Itoa(stats.Keys)},
	}
	return renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

func renderProviders(fetchers []collector.Fetcher) string {
	rows := make([][]string, 0, len(fetchers))
	for _, f := range fetchers {
		cfg := f.Config()
		endpoints := lo.Keys(cfg.Endpoints)
		sort.Strings(endpoints)

		timeout := "default"
		if cfg.TimeoutSeconds > 0 {
			timeout = (time.Duration(cfg.TimeoutSeconds) * time.Second).String()
		}
		rows = append(rows, []string{f.ID(), f.Name(), cfg.BaseURL, strings.Join(endpoints, ", "), timeout})
	}
	return renderTable(
		[]string{"ID", "Name", "Base URL", "Endpoints", "Timeout"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	)
}
