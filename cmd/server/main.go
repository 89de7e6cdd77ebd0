package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/flastal/flastal-backend/internal/config"
	"github.com/flastal/flastal-backend/internal/db"
	httpHandlers "github.com/flastal/flastal-backend/internal/http/handlers"
	httpRouter "github.com/flastal/flastal-backend/internal/http/router"
	"github.com/flastal/flastal-backend/internal/logger"
	"github.com/flastal/flastal-backend/internal/repository"
	"github.com/flastal/flastal-backend/internal/service"
	"github.com/flastal/flastal-backend/internal/storage"
	"github.com/flastal/flastal-backend/internal/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: failed to load configuration: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: failed to connect to database: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: migrations failed: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	mediaStorage, err := storage.NewMediaStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: failed to prepare media storage: %v", err)
	}

	// Repositories.
	userRepo := repository.NewUserRepository(dbConn)
	floristRepo := repository.NewFloristRepository(dbConn)
	projectRepo := repository.NewProjectRepository(dbConn)
	pledgeRepo := repository.NewPledgeRepository(dbConn)
	offerRepo := repository.NewOfferRepository(dbConn)
	quotationRepo := repository.NewQuotationRepository(dbConn, cfg.PlatformFeeRate)
	payoutRepo := repository.NewPayoutRepository(dbConn)
	paymentRepo := repository.NewPaymentRepository(dbConn)
	ledgerRepo := repository.NewLedgerRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)
	adminRepo := repository.NewAdminRepository(dbConn)

	// WebSocket hub for live notification pushes.
	hub := ws.NewHub()
	go hub.Run()
	defer hub.Shutdown()

	// Services.
	notificationService := service.NewNotificationService(notificationRepo, hub)
	authService := service.NewAuthService(userRepo, floristRepo, tokenManager)
	projectService := service.NewProjectService(projectRepo, notificationService)
	pledgeService := service.NewPledgeService(pledgeRepo, projectRepo, notificationService)
	floristService := service.NewFloristService(floristRepo)
	offerService := service.NewOfferService(offerRepo, floristRepo, projectRepo, notificationService)
	quotationService := service.NewQuotationService(quotationRepo, projectRepo, notificationService)
	payoutService := service.NewPayoutService(payoutRepo, notificationService, cfg.MinPayoutAmount)
	paymentService := service.NewPaymentService(paymentRepo, ledgerRepo)
	adminService := service.NewAdminService(projectRepo, floristRepo, adminRepo, notificationService, cfg.PlatformFeeRate)

	// HTTP handlers.
	authHandler := httpHandlers.NewAuthHandler(authService)
	projectHandler := httpHandlers.NewProjectHandler(projectService)
	pledgeHandler := httpHandlers.NewPledgeHandler(pledgeService)
	floristHandler := httpHandlers.NewFloristHandler(floristService, offerService)
	offerHandler := httpHandlers.NewOfferHandler(offerService)
	quotationHandler := httpHandlers.NewQuotationHandler(quotationService)
	payoutHandler := httpHandlers.NewPayoutHandler(payoutService)
	paymentHandler := httpHandlers.NewPaymentHandler(paymentService, cfg.WebhookSecret)
	adminHandler := httpHandlers.NewAdminHandler(adminService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	mediaHandler := httpHandlers.NewMediaHandler(mediaStorage)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		projectHandler,
		pledgeHandler,
		floristHandler,
		offerHandler,
		quotationHandler,
		payoutHandler,
		paymentHandler,
		adminHandler,
		notificationHandler,
		mediaHandler,
		wsHandler,
		healthHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: http server shutdown error: %v", err)
		}
	}()

	log.Printf("main: HTTP server listening on port %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: server exited with error: %v", err)
	}
}

func safeClose(dbConn *sqlx.DB) {
	if err := dbConn.Close(); err != nil {
		log.Printf("main: failed to close database connection: %v", err)
	}
}
