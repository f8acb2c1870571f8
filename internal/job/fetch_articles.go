package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/ingest"
)

const (
	DefaultTries   = 3
	DefaultTimeout = 300 * time.Second
	DefaultBackoff = 5 * time.Second
)

// Runner is the ingestion entry point the job drives.
type Runner interface {
	Run(ctx context.Context, categoryHint string) (ingest.Report, error)
}

// FetchArticlesJob runs one ingestion with its own retry budget. Each try
// gets a fresh Timeout; a try fails only when its context ends the run early.
type FetchArticlesJob struct {
	runner  Runner
	tries   int
	timeout time.Duration
	backoff time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
}

type Option func(j *FetchArticlesJob)

func WithTries(tries int) Option {
	return func(j *FetchArticlesJob) {
		if tries > 0 {
			j.tries = tries
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(j *FetchArticlesJob) {
		if timeout > 0 {
			j.timeout = timeout
		}
	}
}

func WithBackoff(backoff time.Duration) Option {
	return func(j *FetchArticlesJob) {
		if backoff >= 0 {
			j.backoff = backoff
		}
	}
}

func NewFetchArticlesJob(runner Runner, opts ...Option) *FetchArticlesJob {
	j := &FetchArticlesJob{
		runner:  runner,
		tries:   DefaultTries,
		timeout: DefaultTimeout,
		backoff: DefaultBackoff,
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Handle runs the job and returns the report of the successful try.
func (j *FetchArticlesJob) Handle(ctx context.Context, categoryHint string) (ingest.Report, error) {
	var lastErr error
	var report ingest.Report

	for attempt := 1; attempt <= j.tries; attempt++ {
		report, lastErr = j.runOnce(ctx, categoryHint)
		if lastErr == nil {
			slog.Info("Article fetch job completed",
				"category", categoryHint,
				"total_fetched", report.Persisted(),
				"attempt", attempt,
			)
			return report, nil
		}

		slog.Warn("Article fetch job attempt failed",
			"category", categoryHint,
			"attempt", attempt,
			"tries", j.tries,
			"persisted", report.Persisted(),
			"error", lastErr,
		)
		if ctx.Err() != nil || attempt == j.tries {
			break
		}
		if err := j.sleep(ctx, j.backoff); err != nil {
			lastErr = err
			break
		}
	}

	slog.Error("Article fetch job failed permanently",
		"category", categoryHint,
		"tries", j.tries,
		"error", lastErr,
	)
	return report, fmt.Errorf("fetch articles job failed: %w", lastErr)
}

func (j *FetchArticlesJob) runOnce(ctx context.Context, categoryHint string) (ingest.Report, error) {
	runCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()
	return j.runner.Run(runCtx, categoryHint)
}

// Dispatch runs the job in the background and returns immediately. done
// receives the outcome when non-nil.
func (j *FetchArticlesJob) Dispatch(ctx context.Context, categoryHint string, done func(ingest.Report, error)) {
	go func() {
		report, err := j.Handle(ctx, categoryHint)
		if done != nil {
			done(report, err)
		}
	}()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
