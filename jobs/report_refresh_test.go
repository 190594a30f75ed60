package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khata-erp/khata-erp/internal/gstreports"
	jobmetrics "github.com/khata-erp/khata-erp/internal/jobs"
)

// ====================
// FAKES
// ====================

type fakeFactsRepo struct {
	calls int
}

func (f *fakeFactsRepo) LineFacts(ctx context.Context, from, to time.Time, kind string) ([]gstreports.LineFact, error) {
	f.calls++
	return nil, nil
}

func newTestReports(t *testing.T) (*gstreports.Service, *fakeFactsRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &fakeFactsRepo{}
	return gstreports.NewService(repo, gstreports.NewCache(client, time.Minute), nil), repo
}

// ====================
// TESTS
// ====================

func TestReportRefreshWarmsCurrentAndPreviousMonth(t *testing.T) {
	reports, repo := newTestReports(t)

	registry := prometheus.NewRegistry()
	job := NewReportRefreshJob(reports, nil, jobmetrics.NewMetrics(registry))

	err := job.Handle(context.Background(), asynq.NewTask(TaskReportRefresh, nil))
	require.NoError(t, err)

	// Two windows, each warmed rate-wise and by filing code.
	assert.Equal(t, 4, repo.calls)

	families, err := registry.Gather()
	require.NoError(t, err)
	var sawRuns bool
	for _, mf := range families {
		if mf.GetName() == "khata_jobs_total" {
			sawRuns = true
		}
	}
	assert.True(t, sawRuns)
}

func TestReportRefreshBadPayloadSkipsRetry(t *testing.T) {
	reports, _ := newTestReports(t)
	job := NewReportRefreshJob(reports, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))

	err := job.Handle(context.Background(), asynq.NewTask(TaskReportRefresh, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestReportRefreshNilMetricsFallsBackLazily(t *testing.T) {
	reports, repo := newTestReports(t)

	// A job without injected metrics registers the shared collectors on
	// first use instead of at package import.
	job := NewReportRefreshJob(reports, nil, nil)
	err := job.Handle(context.Background(), asynq.NewTask(TaskReportRefresh, nil))
	require.NoError(t, err)
	assert.Equal(t, 4, repo.calls)
}
