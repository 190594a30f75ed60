package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/khata-erp/khata-erp/internal/gstreports"
	jobmetrics "github.com/khata-erp/khata-erp/internal/jobs"
)

// ReportRefreshJob retires stale GST report snapshots and re-warms the
// windows the UI asks for first: the current and previous month.
type ReportRefreshJob struct {
	Reports *gstreports.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewReportRefreshJob wires dependencies for the refresh handler.
func NewReportRefreshJob(reports *gstreports.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportRefreshJob {
	return &ReportRefreshJob{
		Reports: reports,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report refresh tasks.
func (j *ReportRefreshJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("report refresh: handler not configured")
	}
	var payload ReportRefreshPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	asOf := payload.AsOf
	if asOf.IsZero() {
		asOf = j.now()
	}

	tracker := j.metrics().Track(TaskReportRefresh)
	var resultErr error
	defer func() {
		tracker.End(resultErr)
	}()

	j.Reports.Invalidate(ctx)

	for _, window := range warmupWindows(asOf) {
		windowCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		_, err := j.Reports.RateWise(windowCtx, window)
		if err == nil {
			_, err = j.Reports.FilingCodes(windowCtx, window)
		}
		cancel()
		if err != nil {
			resultErr = err
			j.logger().Error("warm report window",
				slog.Time("from", window.From), slog.Time("to", window.To), slog.Any("error", err))
			return resultErr
		}
	}

	j.logger().Info("report snapshots refreshed", slog.Time("as_of", asOf))
	return resultErr
}

// warmupWindows returns the current and previous calendar months.
func warmupWindows(asOf time.Time) []gstreports.SummaryRequest {
	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevStart := monthStart.AddDate(0, -1, 0)
	return []gstreports.SummaryRequest{
		{From: monthStart, To: monthStart.AddDate(0, 1, -1)},
		{From: prevStart, To: monthStart.AddDate(0, 0, -1)},
	}
}

func (j *ReportRefreshJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportRefresh))
	}
	return slog.Default().With(slog.String("job", TaskReportRefresh))
}

func (j *ReportRefreshJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	// Registration against the default registerer happens on first use, not
	// at import time; the API binary never pays for worker collectors.
	return jobmetrics.NewMetrics(nil)
}

func (j *ReportRefreshJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
