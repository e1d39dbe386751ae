package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rodamarket/backend/internal/config"
	"github.com/rodamarket/backend/internal/db"
	"github.com/rodamarket/backend/internal/handlers"
	"github.com/rodamarket/backend/internal/logger"
	"github.com/rodamarket/backend/internal/middleware"
	"github.com/rodamarket/backend/internal/realtime"
	"github.com/rodamarket/backend/internal/repos"
	"github.com/rodamarket/backend/internal/scheduler"
	"github.com/rodamarket/backend/internal/server"
	"github.com/rodamarket/backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	cfg, err := config.Load(log)
	if err != nil {
		log.Error("Config load failed", "error", err)
		os.Exit(1)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	vehicleRepo := repos.NewVehicleRepo(thePG, log)
	vehicleDocumentRepo := repos.NewVehicleDocumentRepo(thePG, log)
	serviceRecordRepo := repos.NewServiceRecordRepo(thePG, log)
	notificationRepo := repos.NewNotificationRepo(thePG, log)

	// Realtime bus
	var bus realtime.Bus
	if cfg.RedisAddr != "" {
		bus, err = realtime.NewRedisBus(log, cfg.RedisAddr)
		if err != nil {
			log.Warn("Redis bus init failed, continuing without realtime delivery", "error", err)
			bus = realtime.NewNoopBus()
		}
	} else {
		bus = realtime.NewNoopBus()
	}

	// Services
	log.Info("Setting up services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	maintenanceService := services.NewMaintenanceService(log)
	notificationService := services.NewNotificationService(thePG, log, notificationRepo, bus, cfg.Scheduler.DedupWindow)
	vehicleService := services.NewVehicleService(thePG, log, vehicleRepo, serviceRecordRepo, maintenanceService)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Scheduler
	maintenanceScheduler := scheduler.New(log, cfg.Scheduler, vehicleRepo, serviceRecordRepo, vehicleDocumentRepo, notificationService)
	if err := maintenanceScheduler.Start(ctx); err != nil {
		log.Error("Scheduler start failed", "error", err)
		os.Exit(1)
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	router := server.NewRouter(server.RouterConfig{
		AuthHandler:         authHandler,
		AuthMiddleware:      authMiddleware,
		VehicleHandler:      vehicleHandler,
		NotificationHandler: notificationHandler,
	})

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		maintenanceScheduler.Stop()
		_ = bus.Close()
		return httpServer.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		log.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}
