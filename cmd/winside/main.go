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

	"github.com/winside-retail/backoffice/internal/app"
	"github.com/winside-retail/backoffice/internal/auth"
	"github.com/winside-retail/backoffice/internal/billing"
	"github.com/winside-retail/backoffice/internal/catalog/categories"
	"github.com/winside-retail/backoffice/internal/catalog/export"
	"github.com/winside-retail/backoffice/internal/catalog/products"
	"github.com/winside-retail/backoffice/internal/customers"
	"github.com/winside-retail/backoffice/internal/inventory"
	"github.com/winside-retail/backoffice/internal/observability"
	"github.com/winside-retail/backoffice/internal/platform/cache"
	"github.com/winside-retail/backoffice/internal/platform/db"
	"github.com/winside-retail/backoffice/internal/shared"
	"github.com/winside-retail/backoffice/internal/users"
	"github.com/winside-retail/backoffice/jobs"
	"github.com/winside-retail/backoffice/report"
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

	sessionManager := shared.NewSessionManager(redisClient, "winside_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(pool)
	idempotencyStore := shared.NewIdempotencyStore(pool)
	metrics := observability.NewMetrics()

	authService := auth.NewService(auth.NewRepository(pool))
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	customersRepo := customers.NewRepository(pool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService)

	productsRepo := products.NewRepository(pool)
	productsService := products.NewService(productsRepo)
	productsHandler := products.NewHandler(logger, productsService, export.NewXLSXExporter())

	categoriesService := categories.NewService(categories.NewRepository(pool))
	categoriesHandler := categories.NewHandler(logger, categoriesService)

	reportClient := report.NewClient(cfg.GotenbergURL)
	pdfRenderer, err := billing.NewPDFRenderer(reportClient)
	if err != nil {
		logger.Error("init invoice renderer", slog.Any("error", err))
		os.Exit(1)
	}
	billingService := billing.NewService(billing.NewRepository(pool), customersService, productsService, cfg.DefaultTaxRate)
	billingHandler := billing.NewHandler(logger, billingService, pdfRenderer)

	inventoryService := inventory.NewService(logger, inventory.NewRepository(pool), idempotencyStore, auditLogger, cfg.LowStockThreshold)
	inventoryHandler := inventory.NewHandler(logger, inventoryService)

	notifier := users.NewRedisNotifier(redisClient)
	usersService := users.NewService(logger, users.NewRepository(pool), notifier)
	usersHandler := users.NewHandler(logger, usersService)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		CSRFManager:       csrfManager,
		AuthHandler:       authHandler,
		CustomersHandler:  customersHandler,
		ProductsHandler:   productsHandler,
		CategoriesHandler: categoriesHandler,
		BillingHandler:    billingHandler,
		InventoryHandler:  inventoryHandler,
		UsersHandler:      usersHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
