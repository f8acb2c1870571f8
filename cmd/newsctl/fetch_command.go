package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/job"
	"github.com/spf13/cobra"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var tries int
	var timeout time.Duration
	var backoff time.Duration

	cmd := &cobra.Command{
		Use:   "fetch [category]",
		Short: "Fetch articles from every configured provider",
		Long:  "Fetch, normalize and store articles. Without a category the providers' general headlines are used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := ctx.ensureApp(runCtx)
			if err != nil {
				return err
			}

			category := ""
			if len(args) == 1 {
				category = args[0]
			}

			fetchJob := job.NewFetchArticlesJob(a.aggregator,
				job.WithTries(tries),
				job.WithTimeout(timeout),
				job.WithBackoff(backoff),
			)
			report, err := fetchJob.Handle(runCtx, category)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderIngestReport(report))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Fetched %d new articles in %s\n", report.Persisted(), report.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().IntVar(&tries, "tries", job.DefaultTries, "Attempts before the job fails")
	cmd.Flags().DurationVar(&timeout, "timeout", job.DefaultTimeout, "Timeout per attempt")
	cmd.Flags().DurationVar(&backoff, "backoff", job.DefaultBackoff, "Wait between attempts")

	return cmd
}
