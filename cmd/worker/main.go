package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/khata-erp/khata-erp/internal/app"
	"github.com/khata-erp/khata-erp/internal/gstreports"
	"github.com/khata-erp/khata-erp/internal/platform/cache"
	"github.com/khata-erp/khata-erp/internal/platform/db"
	"github.com/khata-erp/khata-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	reportsCache := gstreports.NewCache(redisClient, cfg.ReportCacheTTL)
	reportsService := gstreports.NewService(gstreports.NewRepository(pool), reportsCache, logger)

	refreshJob := jobs.NewReportRefreshJob(reportsService, logger, nil)
	driftJob := jobs.NewPaymentDriftJob(pool, logger, nil)

	refreshTask, err := jobs.NewReportRefreshTask(jobs.ReportRefreshPayload{})
	if err != nil {
		logger.Error("build refresh task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportRefresh, Handler: refreshJob.Handle},
			{Type: jobs.TaskPaymentDriftScan, Handler: driftJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "45 0 * * *", Task: refreshTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "15 1 * * *", Task: jobs.NewPaymentDriftScanTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker exited", slog.Any("error", err))
		os.Exit(1)
	}
}
