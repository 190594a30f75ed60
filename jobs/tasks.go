package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportRefresh retires and re-warms the GST report snapshots.
	TaskReportRefresh = "reports:refresh"
	// TaskPaymentDriftScan audits fully-paid documents for payment drift.
	TaskPaymentDriftScan = "documents:payment_drift_scan"
)

// ReportRefreshPayload scopes a snapshot refresh. A zero AsOf means now.
type ReportRefreshPayload struct {
	AsOf time.Time `json:"as_of,omitempty"`
}

// NewReportRefreshTask constructs the refresh task.
func NewReportRefreshTask(payload ReportRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportRefresh, data), nil
}

// NewPaymentDriftScanTask constructs the drift-scan task.
func NewPaymentDriftScanTask() *asynq.Task {
	return asynq.NewTask(TaskPaymentDriftScan, nil)
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) (*Client, error) {
	return &Client{client: asynq.NewClient(redisOpts)}, nil
}

// EnqueueReportRefresh enqueues a report snapshot refresh. Duplicate refreshes
// queued close together collapse into one run.
func (c *Client) EnqueueReportRefresh(ctx context.Context) error {
	task, err := NewReportRefreshTask(ReportRefreshPayload{})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.Unique(10*time.Second))
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
