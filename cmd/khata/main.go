package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/khata-erp/khata-erp/internal/app"
	"github.com/khata-erp/khata-erp/internal/auth"
	"github.com/khata-erp/khata-erp/internal/catalog"
	"github.com/khata-erp/khata-erp/internal/documents"
	"github.com/khata-erp/khata-erp/internal/gstreports"
	"github.com/khata-erp/khata-erp/internal/observability"
	"github.com/khata-erp/khata-erp/internal/parties"
	"github.com/khata-erp/khata-erp/internal/platform/cache"
	"github.com/khata-erp/khata-erp/internal/platform/db"
	"github.com/khata-erp/khata-erp/internal/taxrates"
	"github.com/khata-erp/khata-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		runJobsCommand(ctx, cfg, os.Args[2:])
		return
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
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

	metrics := observability.NewMetrics()

	tokenStore := auth.NewTokenStore(redisClient, cfg.SessionTTL)
	authService := auth.NewService(auth.NewRepository(pool), tokenStore)
	authHandler := auth.NewHandler(logger, authService)

	catalogService := catalog.NewService(catalog.NewRepository(pool))
	catalogHandler := catalog.NewHandler(logger, catalogService)

	taxRatesService := taxrates.NewService(taxrates.NewRepository(pool), redisClient, cfg.TaxRateCacheTTL, logger)
	taxRatesHandler := taxrates.NewHandler(logger, taxRatesService)

	partiesService := parties.NewService(parties.NewRepository(pool), logger)
	partiesHandler := parties.NewHandler(logger, partiesService)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	documentsService := documents.NewService(
		documents.NewRepository(pool),
		catalogService,
		taxRatesService,
		partiesService,
		cfg.StateComparator(),
		jobsClient,
		metrics,
		logger,
	)
	documentsHandler := documents.NewHandler(logger, documentsService)

	reportsCache := gstreports.NewCache(redisClient, cfg.ReportCacheTTL)
	reportsService := gstreports.NewService(gstreports.NewRepository(pool), reportsCache, logger)
	reportsHandler := gstreports.NewHandler(logger, reportsService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthHandler:      authHandler,
		CatalogHandler:   catalogHandler,
		TaxRatesHandler:  taxRatesHandler,
		PartiesHandler:   partiesHandler,
		DocumentsHandler: documentsHandler,
		ReportsHandler:   reportsHandler,
		JobsHandler:      jobsHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
