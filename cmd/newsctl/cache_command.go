package main

import (
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/news-aggregator/internal/cache"
	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}

	warmupCmd := &cobra.Command{
		Use:   "warmup",
		Short: "Precompute the hot cache keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}

			report := a.cache.WarmUp(cmd.Context(), a.store)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderWarmUpReport(report))
			if failed := report.Failed(); failed > 0 {
				return fmt.Errorf("%d of %d cache keys failed to warm up", failed, len(report.Outcomes))
			}
			fmt.Fprintln(out, "Cache warmed up successfully")
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cache entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.cache.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared successfully")
			return nil
		},
	}

	var tags []string
	var table string
	invalidateCmd := &cobra.Command{
		Use:     "invalidate",
		Short:   "Flush cache entries by tag or entity table",
		Example: "  newsctl cache invalidate --tags articles,stats\n  newsctl cache invalidate --table sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := cache.ResolveTags(tags, table)
			if err != nil {
				return err
			}

			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.cache.InvalidateTags(cmd.Context(), resolved...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Invalidated tags: %s\n", strings.Join(resolved, ", "))
			return nil
		},
	}
	invalidateCmd.Flags().StringSliceVar(&tags, "tags", nil, "Cache tags to flush ("+strings.Join(cache.KnownTags(), ", ")+")")
	invalidateCmd.Flags().StringVar(&table, "table", "", "Entity table whose tag to flush")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := a.cache.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderCacheStats(stats))
			return nil
		},
	}

	cacheCmd.AddCommand(warmupCmd, clearCmd, invalidateCmd, statsCmd)
	return cacheCmd
}
