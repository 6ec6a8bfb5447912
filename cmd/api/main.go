package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/getclientflow/clientflow-backend/api/routes"
	"github.com/getclientflow/clientflow-backend/internal/auth"
	"github.com/getclientflow/clientflow-backend/internal/bookings"
	"github.com/getclientflow/clientflow-backend/internal/clients"
	"github.com/getclientflow/clientflow-backend/internal/invoices"
	"github.com/getclientflow/clientflow-backend/internal/payments"
	"github.com/getclientflow/clientflow-backend/internal/webhooks"
	"github.com/getclientflow/clientflow-backend/pkg/config"
	"github.com/getclientflow/clientflow-backend/pkg/db"
	"github.com/getclientflow/clientflow-backend/pkg/logger"
	"github.com/getclientflow/clientflow-backend/pkg/metrics"
	"github.com/getclientflow/clientflow-backend/pkg/migrate"
	"github.com/getclientflow/clientflow-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	webhookMetrics := metrics.NewWebhookMetrics(registry)

	webhooksRepo := webhooks.NewRepository(dbClient.DB())
	dispatcher, err := webhooks.NewDispatcher(cfg.Webhooks, webhooksRepo, logg, webhookMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook dispatcher", err)
		os.Exit(1)
	}

	webhooksService, err := webhooks.NewService(webhooksRepo, dispatcher)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhooks service", err)
		os.Exit(1)
	}

	clientsRepo := clients.NewRepository(dbClient.DB())
	clientsService, err := clients.NewService(clientsRepo, dispatcher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create clients service", err)
		os.Exit(1)
	}

	bookingsService, err := bookings.NewService(bookings.NewRepository(dbClient.DB()), clientsRepo, dispatcher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create bookings service", err)
		os.Exit(1)
	}

	invoicesService, err := invoices.NewService(invoices.NewRepository(dbClient.DB()), clientsRepo, dispatcher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoices service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(payments.NewRepository(dbClient.DB()), clientsRepo, dispatcher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.NewRepository(dbClient.DB()), cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, routes.Services{
			Auth:     authService,
			Clients:  clientsService,
			Bookings: bookingsService,
			Invoices: invoicesService,
			Payments: paymentsService,
			Webhooks: webhooksService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCh:
		logg.Info(ctx, "shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "http server shutdown", err)
		}
		// Drain in-flight webhook deliveries before exiting.
		if err := dispatcher.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "webhook dispatcher shutdown", err)
		}
	}

	logg.Info(ctx, "api server stopped")
}
