package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "volunteer-hub-backend/internal/api/http"
	"volunteer-hub-backend/internal/bootstrap"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/security"
	"volunteer-hub-backend/internal/service"
	"volunteer-hub-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := bootstrap.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Info("Starting Volunteer Hub API...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "database_driver", cfg.Database.Driver)

	ctx := context.Background()

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close(context.Background())
	if err := store.Migrate(ctx); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		log.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())

	// Initialize Media Storage
	mediaStore, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize media storage", "error", err)
		log.Fatalf("Failed to initialize media storage: %v", err)
	}
	maxUpload := cfg.Storage.MaxFileSize << 20
	mediaBaseURL := cfg.Storage.BaseURL
	if mediaBaseURL == "" {
		mediaBaseURL = "http://localhost" + cfg.GetServerAddress()
		if cfg.Server.Host != "" {
			mediaBaseURL = "http://" + cfg.GetServerAddress()
		}
	}

	// Initialize Services
	emailSvc := bootstrap.NewEmailService(cfg)
	notifier := service.NewNotifier(store.Notifications(), bootstrap.NewPushService(ctx, cfg))

	authSvc := service.NewAuthService(
		store.Accounts(),
		store.Volunteers(),
		store.Organizations(),
		tokenManager,
		emailSvc,
		cfg.Server.ClientURL,
		nil,
	)
	var oauthSvc service.OAuthService
	if cfg.GoogleSignInEnabled() {
		provider := service.NewGoogleProvider(cfg.OAuth.GoogleClientID, cfg.OAuth.GoogleClientSecret, cfg.OAuth.GoogleRedirectURL)
		oauthSvc = service.NewOAuthService(provider, store.Accounts(), tokenManager)
	}
	profileSvc := service.NewProfileService(store.Accounts(), store.Volunteers(), store.Organizations())
	mediaSvc := service.NewMediaService(mediaStore, mediaBaseURL, maxUpload, cfg.Storage.AllowedTypes)
	oppSvc := service.NewOpportunityService(store.Opportunities(), store.Organizations(), store.Volunteers(), store.Signups(), nil)
	signupSvc := service.NewSignupService(
		store.Signups(),
		store.Opportunities(),
		store.Volunteers(),
		store.Organizations(),
		store.Accounts(),
		notifier,
		nil,
	)
	reviewSvc := service.NewReviewService(
		store.Reviews(),
		store.Signups(),
		store.Opportunities(),
		store.Volunteers(),
		store.Organizations(),
		nil,
	)
	noteSvc := service.NewNotificationService(store.Notifications())

	// Initialize HTTP handlers
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:          httpapi.NewAuthHandler(authSvc, oauthSvc, cfg.Server.ClientURL),
		Profile:       httpapi.NewProfileHandler(profileSvc, mediaSvc, maxUpload),
		Opportunity:   httpapi.NewOpportunityHandler(oppSvc),
		Signup:        httpapi.NewSignupHandler(signupSvc),
		Review:        httpapi.NewReviewHandler(reviewSvc),
		Notification:  httpapi.NewNotificationHandler(noteSvc),
		Authenticator: httpapi.NewAuthMiddleware(tokenManager),
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped. Goodbye!")
}
