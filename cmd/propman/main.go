package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rentwell/propman/internal/config"
	httpserver "github.com/rentwell/propman/internal/http"
	"github.com/rentwell/propman/internal/notification"
	"github.com/rentwell/propman/internal/watch"
	"github.com/rentwell/propman/pkg/auth"
	"github.com/rentwell/propman/pkg/invite"
	"github.com/rentwell/propman/pkg/leasing"
	"github.com/rentwell/propman/pkg/maintenance"
	"github.com/rentwell/propman/pkg/repository"
)

// maintenanceChannel is the Postgres NOTIFY channel raised by the trigger
// in migrations/001_init.sql.
const maintenanceChannel = "maintenance_events"

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Connect to database
	dbConfig := repository.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
	db, err := repository.NewDB(dbConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	// Initialize repositories
	usersRepo := repository.NewUsersRepository(db)
	credsRepo := repository.NewCredentialsRepository(db)
	sessionsRepo := repository.NewSessionsRepository(db)
	mfaSecretsRepo := repository.NewMFASecretsRepository(db)
	tenantsRepo := repository.NewTenantsRepository(db)
	propertiesRepo := repository.NewPropertiesRepository(db)
	unitsRepo := repository.NewUnitsRepository(db)
	invitesRepo := repository.NewInvitesRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)

	// Initialize services
	passwordPolicy := auth.DefaultPasswordPolicy()
	accountService := auth.NewAccountService(db, usersRepo, credsRepo, passwordPolicy)
	sessionService := auth.NewSessionService(auth.SessionConfig{
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		JWTSecret:       []byte(cfg.JWTSecret),
		Issuer:          cfg.JWTIssuer,
	}, sessionsRepo, usersRepo)

	inviteService := invite.NewService(invite.Config{
		TTL:     cfg.InviteTTL,
		BaseURL: cfg.AppBaseURL,
	}, db, tenantsRepo, invitesRepo, accountService)

	leasingService := leasing.NewService(db, tenantsRepo, unitsRepo, propertiesRepo)
	maintenanceService := maintenance.NewService(maintenanceRepo, tenantsRepo, unitsRepo, propertiesRepo)

	// Initialize email service if configured
	var emailService *notification.EmailService
	if cfg.SMTP.Enabled() {
		emailService = notification.NewEmailService(notification.EmailConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
		})
		logger.Info("email service enabled")
	}

	// Initialize MFA service if configured
	var mfaService *auth.MFAService
	if cfg.MFAEncryptionKey != "" {
		mfaService = auth.NewMFAService(auth.MFAConfig{
			Issuer:        cfg.JWTIssuer,
			EncryptionKey: []byte(cfg.MFAEncryptionKey),
		}, mfaSecretsRepo, usersRepo)
		logger.Info("MFA service enabled")
	}

	// Start the maintenance change watcher
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var watcher *watch.Watcher
	watcher, err = watch.New(dbConfig.DSN(), maintenanceChannel, logger)
	if err != nil {
		// Live updates are optional; the API works without them.
		logger.Warn("failed to start change watcher", "error", err)
		watcher = nil
	} else {
		go watcher.Run(ctx)
		logger.Info("change watcher started", "channel", maintenanceChannel)
	}

	// Purge expired sessions periodically
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := sessionsRepo.DeleteExpired(ctx, 24*time.Hour)
				if err != nil {
					logger.Error("failed to purge expired sessions", "error", err)
				} else if n > 0 {
					logger.Info("purged expired sessions", "count", n)
				}
			}
		}
	}()

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:             logger,
		AccountService:     accountService,
		SessionService:     sessionService,
		MFAService:         mfaService,
		InviteService:      inviteService,
		LeasingService:     leasingService,
		MaintenanceService: maintenanceService,
		EmailService:       emailService,
		Watcher:            watcher,
		UsersRepo:          usersRepo,
		TenantsRepo:        tenantsRepo,
		PropertiesRepo:     propertiesRepo,
		UnitsRepo:          unitsRepo,
		MaintenanceRepo:    maintenanceRepo,
		RateLimitConfig:    cfg.RateLimit,
		SecurityHeaders:    cfg.SecurityHeaders,
		MaxRequestBody:     cfg.MaxRequestBody,
	})

	// Create HTTP server. WriteTimeout stays unset so event streams on
	// /v1/maintenance/watch are not cut off.
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
