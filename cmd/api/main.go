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

	"github.com/marisolvega/cakery-backend/api/routes"
	"github.com/marisolvega/cakery-backend/internal/auth"
	"github.com/marisolvega/cakery-backend/internal/history"
	"github.com/marisolvega/cakery-backend/internal/identity"
	"github.com/marisolvega/cakery-backend/internal/notifications"
	"github.com/marisolvega/cakery-backend/internal/orders"
	"github.com/marisolvega/cakery-backend/internal/profiles"
	"github.com/marisolvega/cakery-backend/pkg/auth/session"
	"github.com/marisolvega/cakery-backend/pkg/config"
	"github.com/marisolvega/cakery-backend/pkg/db"
	"github.com/marisolvega/cakery-backend/pkg/logger"
	"github.com/marisolvega/cakery-backend/pkg/metrics"
	"github.com/marisolvega/cakery-backend/pkg/migrate"
	"github.com/marisolvega/cakery-backend/pkg/redis"
	"github.com/marisolvega/cakery-backend/pkg/retry"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(context.Background(), logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		requireResource(context.Background(), logg, "migrations", err)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(context.Background(), logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(context.Background(), logg, "session manager", err)

	registry := prometheus.NewRegistry()
	orderMetrics := metrics.NewOrderMetrics(registry)
	retryPolicy := retry.PolicyFromConfig(cfg.Retry)

	identityRepo := identity.NewRepository(dbClient.DB())
	profileRepo := profiles.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	notificationRepo := notifications.NewRepository(dbClient.DB())
	historyRepo := history.NewRepository(dbClient.DB())

	identityService, err := identity.NewService(identityRepo)
	requireResource(context.Background(), logg, "identity service", err)

	profileService, err := profiles.NewService(profileRepo)
	requireResource(context.Background(), logg, "profile service", err)

	notificationService, err := notifications.NewService(notificationRepo, profileRepo, retryPolicy, orderMetrics)
	requireResource(context.Background(), logg, "notification service", err)

	historyService, err := history.NewService(historyRepo)
	requireResource(context.Background(), logg, "history service", err)

	orderService, err := orders.NewService(orders.ServiceParams{
		DB:       dbClient,
		Repo:     orderRepo,
		History:  historyRepo,
		Notifier: notificationService,
		Logger:   logg,
		Metrics:  orderMetrics,
	})
	requireResource(context.Background(), logg, "order service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		TxRunner:       dbClient,
		UserRepo:       identityRepo,
		ProfileRepo:    profileRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		RetryPolicy:    retryPolicy,
	})
	requireResource(context.Background(), logg, "auth service", err)

	router := routes.NewRouter(routes.RouterParams{
		Config:        cfg,
		Logger:        logg,
		DB:            dbClient,
		Redis:         redisClient,
		Sessions:      sessionManager,
		AuthService:   authService,
		Identity:      identityService,
		Profiles:      profileService,
		Orders:        orderService,
		Notifications: notificationService,
		History:       historyService,
		Metrics:       registry,
	})

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
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
