package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockpoint/stockpoint/internal/app"
	"github.com/stockpoint/stockpoint/internal/customers"
	"github.com/stockpoint/stockpoint/internal/ledger"
	"github.com/stockpoint/stockpoint/internal/masterdata"
	"github.com/stockpoint/stockpoint/internal/masterdata/categories"
	"github.com/stockpoint/stockpoint/internal/masterdata/products"
	"github.com/stockpoint/stockpoint/internal/observability"
	"github.com/stockpoint/stockpoint/internal/payments"
	"github.com/stockpoint/stockpoint/internal/platform/cache"
	"github.com/stockpoint/stockpoint/internal/platform/db"
	"github.com/stockpoint/stockpoint/internal/purchases"
	"github.com/stockpoint/stockpoint/internal/sales"
	"github.com/stockpoint/stockpoint/internal/suppliers"
	"github.com/stockpoint/stockpoint/jobs"
)

func main() {
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
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, running without ledger cache", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	ledgerRepo := ledger.NewRepository(pool)
	ledgerCache := ledger.NewCache(redisClient, cfg.CacheTTL)
	ledgerService := ledger.NewService(ledgerRepo, ledgerCache, metrics, logger)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	customersRepo := customers.NewRepository(pool)
	customersService := customers.NewService(customersRepo, ledgerService)
	customersHandler := customers.NewHandler(logger, customersService)

	suppliersRepo := suppliers.NewRepository(pool)
	suppliersService := suppliers.NewService(suppliersRepo, ledgerService)
	suppliersHandler := suppliers.NewHandler(logger, suppliersService)

	productsRepo := products.NewRepository(pool)
	productsService := products.NewService(productsRepo)
	categoriesRepo := categories.NewRepository(pool)
	categoriesService := categories.NewService(categoriesRepo)
	masterdataHandler := &masterdata.Handler{
		Products:   products.NewHandler(logger, productsService),
		Categories: categories.NewHandler(logger, categoriesService),
	}

	salesRepo := sales.NewRepository(pool)
	salesService := sales.NewService(salesRepo, ledgerService, logger)
	salesHandler := sales.NewHandler(logger, salesService)

	purchasesRepo := purchases.NewRepository(pool)
	purchasesService := purchases.NewService(purchasesRepo, ledgerService, logger)
	purchasesHandler := purchases.NewHandler(logger, purchasesService)

	paymentsRepo := payments.NewRepository(pool)
	paymentsService := payments.NewService(paymentsRepo, ledgerService, logger)
	paymentsHandler := payments.NewHandler(logger, paymentsService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("build jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobsClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		CustomersHandler:  customersHandler,
		SuppliersHandler:  suppliersHandler,
		MasterDataHandler: masterdataHandler,
		SalesHandler:      salesHandler,
		PurchasesHandler:  purchasesHandler,
		PaymentsHandler:   paymentsHandler,
		LedgerHandler:     ledgerHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
