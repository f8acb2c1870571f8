package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type scriptedRunner struct {
	mu       sync.Mutex
	errs     []error
	calls    int
	deadline []bool
}

func (r *scriptedRunner) Run(ctx context.Context, hint string) (ingest.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, hasDeadline := ctx.Deadline()
	r.deadline = append(r.deadline, hasDeadline)

	var err error
	if r.calls < len(r.errs) {
		err = r.errs[r.calls]
	}
	r.calls++

	report := ingest.Report{Category: hint, Providers: []ingest.ProviderReport{{Provider: "guardian", Persisted: 2}}}
	return report, err
}

func TestFetchArticlesJob_SucceedsFirstTry(t *testing.T) {
	// Arrange
	runner := &scriptedRunner{}
	j := NewFetchArticlesJob(runner)

	// Act
	report, err := j.Handle(context.Background(), "technology")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, report.Persisted())
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, []bool{true}, runner.deadline)
}

func TestFetchArticlesJob_RetriesThenSucceeds(t *testing.T) {
	runner := &scriptedRunner{errs: []error{context.DeadlineExceeded}}
	j := NewFetchArticlesJob(runner, WithBackoff(0))

	_, err := j.Handle(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, 2, runner.calls)
}

func TestFetchArticlesJob_FailsPermanentlyAfterTries(t *testing.T) {
	boom := errors.New("database unreachable")
	runner := &scriptedRunner{errs: []error{boom, boom, boom, boom}}
	j := NewFetchArticlesJob(runner, WithBackoff(0))

	_, err := j.Handle(context.Background(), "")

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, DefaultTries, runner.calls)
}

func TestFetchArticlesJob_StopsOnCancelledParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &scriptedRunner{errs: []error{context.Canceled, context.Canceled, context.Canceled}}
	j := NewFetchArticlesJob(runner, WithBackoff(time.Hour))

	_, err := j.Handle(ctx, "")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, runner.calls)
}

func TestFetchArticlesJob_Dispatch(t *testing.T) {
	runner := &scriptedRunner{}
	j := NewFetchArticlesJob(runner, WithTries(1))

	done := make(chan int, 1)
	j.Dispatch(context.Background(), "", func(r ingest.Report, err error) {
		assert.NoError(t, err)
		done <- r.Persisted()
	})

	select {
	case n := <-done:
		assert.Equal(t, 2, n)
	case <-time.After(5 * time.Second):
		t.Fatal("dispatched job did not finish")
	}
}
