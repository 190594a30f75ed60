package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/khata-erp/khata-erp/internal/jobs"
)

// PaymentDriftJob scans fully-paid documents whose received amount no longer
// matches the grand total. The received amount is captured once when the flag
// is set and is deliberately not re-synced on later edits, so drift is
// expected; this job surfaces it for review without changing any document.
type PaymentDriftJob struct {
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewPaymentDriftJob wires dependencies for the drift scanner.
func NewPaymentDriftJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *PaymentDriftJob {
	return &PaymentDriftJob{Pool: pool, Logger: logger, Metrics: metrics}
}

// Handle processes drift-scan tasks.
func (j *PaymentDriftJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("payment drift: handler not configured")
	}

	tracker := j.metrics().Track(TaskPaymentDriftScan)
	var resultErr error
	defer func() {
		tracker.End(resultErr)
	}()

	rows, err := j.Pool.Query(ctx,
		`SELECT kind, count(*), coalesce(sum(abs(grand_total - amount_received)), 0)
		 FROM documents
		 WHERE is_fully_paid AND abs(grand_total - amount_received) > 0.005
		 GROUP BY kind`)
	if err != nil {
		resultErr = err
		return resultErr
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		var kind string
		var count int
		var amount float64
		if err := rows.Scan(&kind, &count, &amount); err != nil {
			resultErr = err
			return resultErr
		}
		total += count
		j.metrics().AddPaymentDrift(kind, count)
		j.logger().Warn("payment drift detected",
			slog.String("kind", kind), slog.Int("documents", count), slog.Float64("amount", amount))
	}
	if err := rows.Err(); err != nil {
		resultErr = err
		return resultErr
	}

	if total == 0 {
		j.logger().Info("no payment drift found")
	}
	return resultErr
}

func (j *PaymentDriftJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskPaymentDriftScan))
	}
	return slog.Default().With(slog.String("job", TaskPaymentDriftScan))
}

func (j *PaymentDriftJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}
